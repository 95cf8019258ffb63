package service

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"color-notes-be/internal/entity"
	"color-notes-be/internal/loadstate"
	"color-notes-be/internal/pkg/logger"
	"color-notes-be/internal/repository/memory"
	"color-notes-be/pkg/changefeed"
	"color-notes-be/pkg/events"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) Publish(ctx context.Context, event events.Event) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func eventOfType(eventType string) interface{} {
	return mock.MatchedBy(func(e events.Event) bool {
		return e.EventType() == eventType
	})
}

type storeFixture struct {
	notes *memory.NoteRepository
	feed  *changefeed.GoChannelFeed
	store INoteStore
}

func newStoreFixture(t *testing.T) *storeFixture {
	t.Helper()
	notes := memory.NewNoteRepository()
	feed := changefeed.NewGoChannelFeed(nil)
	t.Cleanup(func() { _ = feed.Close() })
	return &storeFixture{
		notes: notes,
		feed:  feed,
		store: NewNoteStore(notes, feed, nil, logger.NewNopLogger()),
	}
}

func nextState(t *testing.T, sub *Subscription) loadstate.List {
	t.Helper()
	select {
	case state, ok := <-sub.States():
		require.True(t, ok, "subscription closed")
		return state
	case <-time.After(2 * time.Second):
		t.Fatal("no state emitted")
		return loadstate.List{}
	}
}

func assertNoState(t *testing.T, sub *Subscription) {
	t.Helper()
	select {
	case state, ok := <-sub.States():
		if ok {
			t.Fatalf("unexpected state: %v", state.Kind())
		}
	case <-time.After(50 * time.Millisecond):
	}
}

func titles(state loadstate.List) []string {
	result := make([]string, 0)
	for _, n := range state.Notes() {
		result = append(result, n.Title)
	}
	return result
}

// failingFeed refuses every listener.
type failingFeed struct {
	changefeed.Feed
	err error
}

func (f failingFeed) Listen(ctx context.Context, ownerId string) (changefeed.Listener, error) {
	return nil, f.err
}

func (f failingFeed) Publish(ctx context.Context, change changefeed.Change) error {
	return f.err
}

// flakyNotes fails the next FindAllByOwner after failOnce.
type flakyNotes struct {
	*memory.NoteRepository
	fail atomic.Bool
}

func (r *flakyNotes) failOnce() { r.fail.Store(true) }

func (r *flakyNotes) FindAllByOwner(ctx context.Context, ownerId string) ([]*entity.Note, error) {
	if r.fail.CompareAndSwap(true, false) {
		return nil, errors.New("query timed out")
	}
	return r.NoteRepository.FindAllByOwner(ctx, ownerId)
}

// scriptedFeed hands every listener one shared signal channel the test writes to.
type scriptedFeed struct {
	signals chan changefeed.Signal
}

func newScriptedFeed() *scriptedFeed {
	return &scriptedFeed{signals: make(chan changefeed.Signal, 4)}
}

func (f *scriptedFeed) Publish(ctx context.Context, change changefeed.Change) error {
	f.signals <- changefeed.Signal{Change: change}
	return nil
}

func (f *scriptedFeed) Listen(ctx context.Context, ownerId string) (changefeed.Listener, error) {
	return scriptedListener{signals: f.signals}, nil
}

func (f *scriptedFeed) Close() error { return nil }

type scriptedListener struct {
	signals chan changefeed.Signal
}

func (l scriptedListener) Changes() <-chan changefeed.Signal { return l.signals }

func (l scriptedListener) Close() error { return nil }
