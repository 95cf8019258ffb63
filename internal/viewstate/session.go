package viewstate

import "color-notes-be/internal/service"

// SessionState is derived from the auth gateway on every call and never cached.
type SessionState struct {
	Authenticated bool   `json:"authenticated"`
	UserId        string `json:"user_id,omitempty"`
}

func DeriveSession(gateway service.IAuthGateway) SessionState {
	session := gateway.CurrentSession()
	if session == nil {
		return SessionState{}
	}
	return SessionState{Authenticated: true, UserId: session.UserId}
}
