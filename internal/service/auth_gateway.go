package service

import (
	"context"
	"sync"
	"time"

	"color-notes-be/internal/entity"
)

// IAuthGateway is one client's view of the auth backend: it remembers the
// session the client signed in with.
type IAuthGateway interface {
	SignUp(ctx context.Context, email, password string) error
	SignIn(ctx context.Context, email, password string) error
	SignOut(ctx context.Context) error
	// Restore adopts an existing session token, e.g. one presented by an HTTP client.
	Restore(ctx context.Context, token string) error
	CurrentSession() *entity.Session
	HasUser() bool
	UserId() string
}

type authGateway struct {
	auth IAuthService

	mu      sync.RWMutex
	session *entity.Session
}

func NewAuthGateway(auth IAuthService) IAuthGateway {
	return &authGateway{auth: auth}
}

// SignUp registers the account and signs it in.
func (g *authGateway) SignUp(ctx context.Context, email, password string) error {
	if _, err := g.auth.Register(ctx, email, password); err != nil {
		return err
	}
	return g.SignIn(ctx, email, password)
}

func (g *authGateway) SignIn(ctx context.Context, email, password string) error {
	session, err := g.auth.Login(ctx, email, password)
	if err != nil {
		return err
	}
	g.setSession(session)
	return nil
}

// SignOut forgets the local session even when the backend call fails.
func (g *authGateway) SignOut(ctx context.Context) error {
	g.mu.Lock()
	session := g.session
	g.session = nil
	g.mu.Unlock()

	if session == nil {
		return nil
	}
	return g.auth.Logout(ctx, session.Token)
}

func (g *authGateway) Restore(ctx context.Context, token string) error {
	session, err := g.auth.Authenticate(ctx, token)
	if err != nil {
		return err
	}
	g.setSession(session)
	return nil
}

func (g *authGateway) setSession(session *entity.Session) {
	g.mu.Lock()
	g.session = session
	g.mu.Unlock()
}

func (g *authGateway) CurrentSession() *entity.Session {
	g.mu.RLock()
	defer g.mu.RUnlock()

	if g.session == nil || g.session.Expired(time.Now()) {
		return nil
	}
	copied := *g.session
	return &copied
}

func (g *authGateway) HasUser() bool {
	return g.CurrentSession() != nil
}

func (g *authGateway) UserId() string {
	if session := g.CurrentSession(); session != nil {
		return session.UserId
	}
	return ""
}
