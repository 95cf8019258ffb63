package viewstate

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
	"color-notes-be/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noteTitles(s ListState) []string {
	result := make([]string, 0)
	for _, n := range s.Notes.Notes() {
		result = append(result, n.Title)
	}
	return result
}

func TestListViewState_ActivateWithoutUser(t *testing.T) {
	f := newFixture(t)
	list := NewListViewState(f.store, service.NewAuthGateway(f.auth), logger.NewNopLogger())

	assert.True(t, list.State().Notes.IsLoading())

	list.Activate(context.Background())

	state := list.State()
	require.True(t, state.Notes.IsFailure())
	assert.ErrorIs(t, state.Notes.Err(), service.ErrNotAuthenticated)
	assert.Equal(t, "not authenticated", state.Notes.Err().Error())
	assert.Equal(t, int32(0), f.feed.listens.Load())

	list.Deactivate()
}

func TestListViewState_EndToEnd(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	gateway := f.signedIn(t, "ann@example.com")
	base := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	_, err := f.store.Create(ctx, gateway.UserId(), "A", "", 0, base)
	require.NoError(t, err)
	_, err = f.store.Create(ctx, gateway.UserId(), "B", "", 0, base.Add(time.Minute))
	require.NoError(t, err)

	list := NewListViewState(f.store, gateway, logger.NewNopLogger())
	defer list.Deactivate()
	watch, cancel := list.Watch()
	defer cancel()

	list.Activate(ctx)
	list.Activate(ctx)

	first := waitFor(t, watch, func(s ListState) bool { return !s.Notes.IsLoading() })
	require.True(t, first.Notes.IsSuccess())
	assert.Equal(t, []string{"A", "B"}, noteTitles(first))
	assert.Equal(t, int32(1), f.feed.listens.Load())

	_, err = f.store.Create(ctx, gateway.UserId(), "C", "", 0, base.Add(2*time.Minute))
	require.NoError(t, err)

	second := waitFor(t, watch, func(s ListState) bool { return len(s.Notes.Notes()) == 3 })
	assert.Equal(t, []string{"A", "B", "C"}, noteTitles(second))
}

// onceFailingNotes fails the next FindAllByOwner after failNext.
type onceFailingNotes struct {
	*memory.NoteRepository
	fail atomic.Bool
}

func (r *onceFailingNotes) failNext() { r.fail.Store(true) }

func (r *onceFailingNotes) FindAllByOwner(ctx context.Context, ownerId string) ([]*entity.Note, error) {
	if r.fail.CompareAndSwap(true, false) {
		return nil, errors.New("query timed out")
	}
	return r.NoteRepository.FindAllByOwner(ctx, ownerId)
}

func TestListViewState_FailureThenRecoveryOnOneActivation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	gateway := f.signedIn(t, "ann@example.com")
	notes := &onceFailingNotes{NoteRepository: f.notes}
	store := service.NewNoteStore(notes, f.feed, nil, logger.NewNopLogger())
	base := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	_, err := store.Create(ctx, gateway.UserId(), "A", "", 0, base)
	require.NoError(t, err)

	list := NewListViewState(store, gateway, logger.NewNopLogger())
	defer list.Deactivate()
	watch, cancel := list.Watch()
	defer cancel()
	list.Activate(ctx)

	first := waitFor(t, watch, func(s ListState) bool { return !s.Notes.IsLoading() })
	require.True(t, first.Notes.IsSuccess())
	assert.Equal(t, []string{"A"}, noteTitles(first))

	notes.failNext()
	_, err = store.Create(ctx, gateway.UserId(), "B", "", 0, base.Add(time.Minute))
	require.NoError(t, err)

	failed := waitFor(t, watch, func(s ListState) bool { return s.Notes.IsFailure() })
	assert.ErrorContains(t, failed.Notes.Err(), "query timed out")

	_, err = store.Create(ctx, gateway.UserId(), "C", "", 0, base.Add(2*time.Minute))
	require.NoError(t, err)

	recovered := waitFor(t, watch, func(s ListState) bool { return s.Notes.IsSuccess() })
	assert.Equal(t, []string{"A", "B", "C"}, noteTitles(recovered))
	assert.Equal(t, int32(1), f.feed.listens.Load())
}

func TestListViewState_DeleteSetsFlagAndListFollowsPush(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	gateway := f.signedIn(t, "ann@example.com")

	note, err := f.store.Create(ctx, gateway.UserId(), "A", "", 0, time.Now())
	require.NoError(t, err)

	list := NewListViewState(f.store, gateway, logger.NewNopLogger())
	defer list.Deactivate()
	watch, cancel := list.Watch()
	defer cancel()

	list.Activate(ctx)
	waitFor(t, watch, func(s ListState) bool { return len(s.Notes.Notes()) == 1 })

	assert.True(t, list.Delete(ctx, note.DocumentId))
	assert.True(t, list.State().NoteDeletedStatus)

	waitFor(t, watch, func(s ListState) bool { return s.Notes.IsSuccess() && len(s.Notes.Notes()) == 0 })
}

func TestListViewState_DeleteFailure(t *testing.T) {
	f := newFixture(t)
	list := NewListViewState(service.NopNoteStore{}, f.signedIn(t, "ann@example.com"), logger.NewNopLogger())

	assert.False(t, list.Delete(context.Background(), "any"))
	assert.False(t, list.State().NoteDeletedStatus)
}

func TestListViewState_NoMutationAfterDeactivate(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	gateway := f.signedIn(t, "ann@example.com")

	list := NewListViewState(f.store, gateway, logger.NewNopLogger())
	watch, cancel := list.Watch()
	defer cancel()

	list.Activate(ctx)
	waitFor(t, watch, func(s ListState) bool { return s.Notes.IsSuccess() })

	list.Deactivate()
	list.Deactivate()
	before := list.State()

	note, err := f.store.Create(ctx, gateway.UserId(), "late", "", 0, time.Now())
	require.NoError(t, err)
	list.Delete(ctx, note.DocumentId)

	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, before, list.State())
}

func TestListViewState_ReactivateAfterDeactivate(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	gateway := f.signedIn(t, "ann@example.com")

	list := NewListViewState(f.store, gateway, logger.NewNopLogger())
	defer list.Deactivate()

	list.Activate(ctx)
	list.Deactivate()
	list.Activate(ctx)

	watch, cancel := list.Watch()
	defer cancel()
	_, err := f.store.Create(ctx, gateway.UserId(), "again", "", 0, time.Now())
	require.NoError(t, err)

	state := waitFor(t, watch, func(s ListState) bool { return len(s.Notes.Notes()) == 1 })
	assert.Equal(t, []string{"again"}, noteTitles(state))
}

func TestListViewState_SignOut(t *testing.T) {
	f := newFixture(t)
	gateway := f.signedIn(t, "ann@example.com")
	list := NewListViewState(f.store, gateway, logger.NewNopLogger())

	assert.True(t, list.HasUser())
	require.NoError(t, list.SignOut(context.Background()))
	assert.False(t, list.HasUser())
}

func TestListState_ZeroIsLoading(t *testing.T) {
	assert.Equal(t, loadstate.KindLoading, ListState{}.Notes.Kind())
}
