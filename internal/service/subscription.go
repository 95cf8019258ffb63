package service

import (
	"context"
	"sync"

	"color-notes-be/internal/loadstate"
)

// Subscription is a live stream of an owner's notes. States is closed when the
// subscription ends; nothing is sent on it once Cancel has returned.
type Subscription struct {
	states chan loadstate.List
	done   chan struct{}
	exited chan struct{}
	cancel context.CancelFunc
	once   sync.Once
}

func newSubscription(parent context.Context) (*Subscription, context.Context) {
	ctx, cancel := context.WithCancel(parent)
	return &Subscription{
		states: make(chan loadstate.List, 1),
		done:   make(chan struct{}),
		exited: make(chan struct{}),
		cancel: cancel,
	}, ctx
}

func (s *Subscription) States() <-chan loadstate.List {
	return s.states
}

// Cancel stops the stream and releases its listener. It is idempotent and
// returns after the pump goroutine has exited.
func (s *Subscription) Cancel() {
	s.once.Do(func() {
		close(s.done)
		s.cancel()
	})
	<-s.exited
}

// emit blocks until the consumer takes the state or the subscription stops.
func (s *Subscription) emit(ctx context.Context, state loadstate.List) bool {
	select {
	case <-s.done:
		return false
	case <-ctx.Done():
		return false
	default:
	}
	select {
	case s.states <- state:
		return true
	case <-s.done:
		return false
	case <-ctx.Done():
		return false
	}
}

// run drives pump on its own goroutine and closes States when it returns.
func (s *Subscription) run(ctx context.Context, pump func(ctx context.Context)) {
	go func() {
		defer close(s.exited)
		defer close(s.states)
		defer s.cancel()
		pump(ctx)
	}()
}

// idle parks until the subscription is cancelled.
func (s *Subscription) idle(ctx context.Context) {
	select {
	case <-s.done:
	case <-ctx.Done():
	}
}
