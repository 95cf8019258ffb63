package viewstate

import (
	"context"
	"sync"

	"color-notes-be/internal/loadstate"
	"color-notes-be/internal/pkg/logger"
	"color-notes-be/internal/service"
)

// ListState is the record behind the notes list screen.
type ListState struct {
	Notes             loadstate.List
	NoteDeletedStatus bool
}

// ListViewState drives the notes list screen from one live subscription.
type ListViewState struct {
	store  service.INoteStore
	auth   service.IAuthGateway
	logger logger.ILogger
	state  *Observable[ListState]

	mu          sync.Mutex
	sub         *service.Subscription
	generation  uint64
	pumpDone    chan struct{}
	deactivated bool
}

func NewListViewState(store service.INoteStore, auth service.IAuthGateway, log logger.ILogger) *ListViewState {
	return &ListViewState{
		store:  store,
		auth:   auth,
		logger: log,
		state:  NewObservable(ListState{Notes: loadstate.Loading()}),
	}
}

func (v *ListViewState) State() ListState {
	return v.state.Get()
}

func (v *ListViewState) Watch() (<-chan ListState, func()) {
	return v.state.Watch()
}

func (v *ListViewState) HasUser() bool {
	return v.auth.HasUser()
}

// Activate opens the subscription for the signed-in user. Calls made while a
// subscription is open do nothing. Without a user the state becomes
// Failure(not authenticated) and nothing is opened.
func (v *ListViewState) Activate(ctx context.Context) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.sub != nil {
		return
	}
	v.deactivated = false

	userId := v.auth.UserId()
	if userId == "" {
		v.state.Update(func(s ListState) ListState {
			s.Notes = loadstate.Failure(service.ErrNotAuthenticated)
			return s
		})
		return
	}

	v.generation++
	generation := v.generation
	sub := v.store.SubscribeByOwner(context.WithoutCancel(ctx), userId)
	done := make(chan struct{})
	v.sub = sub
	v.pumpDone = done

	go func() {
		defer close(done)
		for state := range sub.States() {
			if !v.apply(generation, state) {
				return
			}
		}
	}()
}

// apply installs a pushed state unless the subscription it came from was torn down.
func (v *ListViewState) apply(generation uint64, state loadstate.List) bool {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.generation != generation || v.sub == nil {
		return false
	}
	if state.IsFailure() {
		v.logger.Warn("ListViewState", "Subscription reported failure", map[string]interface{}{"error": state.Err().Error()})
	}
	v.state.Update(func(s ListState) ListState {
		s.Notes = state
		return s
	})
	return true
}

// Delete asks the store to remove the note. The visible list only changes on the next push.
func (v *ListViewState) Delete(ctx context.Context, documentId string) bool {
	err := v.store.Delete(ctx, documentId)
	if err != nil {
		v.logger.Error("ListViewState", "Failed to delete note", map[string]interface{}{"document_id": documentId, "error": err.Error()})
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	if v.deactivated {
		return err == nil
	}
	v.state.Update(func(s ListState) ListState {
		s.NoteDeletedStatus = err == nil
		return s
	})
	return err == nil
}

// Deactivate tears the subscription down. Safe to call any number of times.
func (v *ListViewState) Deactivate() {
	v.mu.Lock()
	sub := v.sub
	done := v.pumpDone
	v.sub = nil
	v.pumpDone = nil
	v.generation++
	v.deactivated = true
	v.mu.Unlock()

	if sub == nil {
		return
	}
	sub.Cancel()
	<-done
}

func (v *ListViewState) SignOut(ctx context.Context) error {
	return v.auth.SignOut(ctx)
}
