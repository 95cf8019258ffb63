package entity

import "time"

// Session is an authenticated backend session. Token is the signed JWT handed to clients.
type Session struct {
	TokenId   string
	Token     string
	UserId    string
	Email     string
	ExpiresAt time.Time
}

func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && now.After(s.ExpiresAt)
}
