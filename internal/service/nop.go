package service

import (
	"context"
	"time"

	"color-notes-be/internal/entity"
)

// NopNoteStore stands in for the store where no backend exists (previews, tests).
// Subscriptions stay silent and every call fails with ErrBackendUnavailable.
type NopNoteStore struct{}

func (NopNoteStore) SubscribeByOwner(ctx context.Context, ownerId string) *Subscription {
	sub, subCtx := newSubscription(ctx)
	sub.run(subCtx, sub.idle)
	return sub
}

func (NopNoteStore) ReadOne(ctx context.Context, documentId string) (*entity.Note, error) {
	return nil, ErrBackendUnavailable
}

func (NopNoteStore) Create(ctx context.Context, ownerId, title, description string, colorIndex int, createdAt time.Time) (*entity.Note, error) {
	return nil, ErrBackendUnavailable
}

func (NopNoteStore) Update(ctx context.Context, documentId, title, description string, colorIndex int) error {
	return ErrBackendUnavailable
}

func (NopNoteStore) Delete(ctx context.Context, documentId string) error {
	return ErrBackendUnavailable
}

// NopAuthGateway is never signed in.
type NopAuthGateway struct{}

func (NopAuthGateway) SignUp(ctx context.Context, email, password string) error {
	return ErrBackendUnavailable
}

func (NopAuthGateway) SignIn(ctx context.Context, email, password string) error {
	return ErrBackendUnavailable
}

func (NopAuthGateway) SignOut(ctx context.Context) error { return nil }

func (NopAuthGateway) Restore(ctx context.Context, token string) error {
	return ErrBackendUnavailable
}

func (NopAuthGateway) CurrentSession() *entity.Session { return nil }
func (NopAuthGateway) HasUser() bool                  { return false }
func (NopAuthGateway) UserId() string                 { return "" }
