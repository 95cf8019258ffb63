package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"color-notes-be/internal/entity"
	"color-notes-be/internal/pkg/logger"
	"color-notes-be/internal/repository/memory"
	"color-notes-be/pkg/changefeed"
	"color-notes-be/pkg/events"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestNoteStore_SubscribeEmitsSnapshotThenOnePerChange(t *testing.T) {
	ctx := context.Background()
	f := newStoreFixture(t)
	base := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	_, err := f.store.Create(ctx, "u1", "A", "", 0, base)
	require.NoError(t, err)
	_, err = f.store.Create(ctx, "u1", "B", "", 0, base.Add(time.Minute))
	require.NoError(t, err)

	sub := f.store.SubscribeByOwner(ctx, "u1")
	defer sub.Cancel()

	first := nextState(t, sub)
	require.True(t, first.IsSuccess())
	assert.Equal(t, []string{"A", "B"}, titles(first))

	_, err = f.store.Create(ctx, "u1", "C", "", 0, base.Add(2*time.Minute))
	require.NoError(t, err)

	second := nextState(t, sub)
	require.True(t, second.IsSuccess())
	assert.Equal(t, []string{"A", "B", "C"}, titles(second))

	assertNoState(t, sub)
}

func TestNoteStore_SubscribeIgnoresOtherOwners(t *testing.T) {
	ctx := context.Background()
	f := newStoreFixture(t)

	sub := f.store.SubscribeByOwner(ctx, "u1")
	defer sub.Cancel()

	first := nextState(t, sub)
	require.True(t, first.IsSuccess())
	assert.Empty(t, first.Notes())

	_, err := f.store.Create(ctx, "u2", "other", "", 0, time.Now())
	require.NoError(t, err)

	assertNoState(t, sub)
}

func TestNoteStore_DeleteThenResubscribeOmitsDocument(t *testing.T) {
	ctx := context.Background()
	f := newStoreFixture(t)

	keep, err := f.store.Create(ctx, "u1", "keep", "", 0, time.Now())
	require.NoError(t, err)
	gone, err := f.store.Create(ctx, "u1", "gone", "", 0, time.Now().Add(time.Second))
	require.NoError(t, err)

	live := f.store.SubscribeByOwner(ctx, "u1")
	defer live.Cancel()
	assert.Len(t, nextState(t, live).Notes(), 2)

	require.NoError(t, f.store.Delete(ctx, gone.DocumentId))

	afterDelete := nextState(t, live)
	require.True(t, afterDelete.IsSuccess())
	assert.Equal(t, []string{"keep"}, titles(afterDelete))

	fresh := f.store.SubscribeByOwner(ctx, "u1")
	defer fresh.Cancel()
	state := nextState(t, fresh)
	require.Len(t, state.Notes(), 1)
	assert.Equal(t, keep.DocumentId, state.Notes()[0].DocumentId)
}

func TestNoteStore_CreateAssignsIdAndReadOneRoundTrips(t *testing.T) {
	ctx := context.Background()
	f := newStoreFixture(t)
	createdAt := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	note, err := f.store.Create(ctx, "u1", "Title", "Body", 3, createdAt)
	require.NoError(t, err)
	require.True(t, note.IsPersisted())

	got, err := f.store.ReadOne(ctx, note.DocumentId)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Title", got.Title)
	assert.Equal(t, "Body", got.Description)
	assert.Equal(t, 3, got.ColorIndex)
	assert.Equal(t, "u1", got.OwnerId)
	assert.True(t, createdAt.Equal(got.CreatedAt))
}

func TestNoteStore_ReadOneMissing(t *testing.T) {
	f := newStoreFixture(t)

	got, err := f.store.ReadOne(context.Background(), "does-not-exist")
	assert.NoError(t, err)
	assert.Nil(t, got)
}

func TestNoteStore_CreateRequiresOwner(t *testing.T) {
	f := newStoreFixture(t)

	_, err := f.store.Create(context.Background(), "", "t", "d", 0, time.Now())
	assert.ErrorIs(t, err, ErrNotAuthenticated)
}

func TestNoteStore_UpdateChangesOnlyContentFields(t *testing.T) {
	ctx := context.Background()
	f := newStoreFixture(t)
	createdAt := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	note, err := f.store.Create(ctx, "u1", "old", "old body", 1, createdAt)
	require.NoError(t, err)

	require.NoError(t, f.store.Update(ctx, note.DocumentId, "new", "new body", -4))

	got, err := f.store.ReadOne(ctx, note.DocumentId)
	require.NoError(t, err)
	assert.Equal(t, entity.Note{
		DocumentId:  note.DocumentId,
		OwnerId:     "u1",
		Title:       "new",
		Description: "new body",
		CreatedAt:   createdAt,
		ColorIndex:  0,
	}, *got)
}

func TestNoteStore_UpdateMissing(t *testing.T) {
	f := newStoreFixture(t)

	err := f.store.Update(context.Background(), "missing", "t", "d", 0)
	assert.ErrorIs(t, err, ErrNoteNotFound)
}

func TestNoteStore_DeleteMissingSucceeds(t *testing.T) {
	f := newStoreFixture(t)

	assert.NoError(t, f.store.Delete(context.Background(), "missing"))
}

func TestNoteStore_CancelIsIdempotentAndStopsEmission(t *testing.T) {
	ctx := context.Background()
	f := newStoreFixture(t)

	sub := f.store.SubscribeByOwner(ctx, "u1")
	nextState(t, sub)

	sub.Cancel()
	sub.Cancel()

	_, err := f.store.Create(ctx, "u1", "late", "", 0, time.Now())
	require.NoError(t, err)

	_, ok := <-sub.States()
	assert.False(t, ok, "states must be closed after cancel")
}

func TestNoteStore_CancelBeforeFirstEmission(t *testing.T) {
	f := newStoreFixture(t)

	sub := f.store.SubscribeByOwner(context.Background(), "u1")
	sub.Cancel()

	for range sub.States() {
		// at most the buffered first snapshot may remain
	}
}

func TestNoteStore_ContextCancelEndsSubscription(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	f := newStoreFixture(t)

	sub := f.store.SubscribeByOwner(ctx, "u1")
	nextState(t, sub)
	cancel()

	select {
	case _, ok := <-sub.States():
		assert.False(t, ok)
	case <-time.After(2 * time.Second):
		t.Fatal("subscription outlived its context")
	}
	sub.Cancel()
}

func TestNoteStore_ListenerFailureIsEmittedAsFailure(t *testing.T) {
	boom := errors.New("feed down")
	store := NewNoteStore(memory.NewNoteRepository(), failingFeed{err: boom}, nil, logger.NewNopLogger())

	sub := store.SubscribeByOwner(context.Background(), "u1")
	defer sub.Cancel()

	state := nextState(t, sub)
	require.True(t, state.IsFailure())
	assert.ErrorIs(t, state.Err(), boom)

	var backendErr *BackendError
	assert.ErrorAs(t, state.Err(), &backendErr)
	assert.Equal(t, "listen", backendErr.Op)

	assertNoState(t, sub)
}

func TestNoteStore_RecoversAfterFailureOnSameSubscription(t *testing.T) {
	updated := changefeed.Signal{Change: changefeed.Change{OwnerId: "u1", DocumentId: "d1", Kind: changefeed.KindUpdated}}

	tests := []struct {
		name    string
		fail    func(notes *flakyNotes, feed *scriptedFeed)
		wantOp  string
		wantErr string
	}{
		{
			name: "snapshot query fails once",
			fail: func(notes *flakyNotes, feed *scriptedFeed) {
				notes.failOnce()
				feed.signals <- updated
			},
			wantOp:  "query notes",
			wantErr: "query timed out",
		},
		{
			name: "feed delivers a malformed change",
			fail: func(notes *flakyNotes, feed *scriptedFeed) {
				feed.signals <- changefeed.Signal{Err: errors.New("malformed change: unexpected end of JSON input")}
			},
			wantOp:  "listen",
			wantErr: "malformed change",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			notes := &flakyNotes{NoteRepository: memory.NewNoteRepository()}
			feed := newScriptedFeed()
			store := NewNoteStore(notes, feed, nil, logger.NewNopLogger())

			require.NoError(t, notes.Create(ctx, &entity.Note{
				DocumentId: "d1",
				OwnerId:    "u1",
				Title:      "A",
				CreatedAt:  time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
			}))

			sub := store.SubscribeByOwner(ctx, "u1")
			defer sub.Cancel()

			first := nextState(t, sub)
			require.True(t, first.IsSuccess())
			assert.Equal(t, []string{"A"}, titles(first))

			tt.fail(notes, feed)

			second := nextState(t, sub)
			require.True(t, second.IsFailure())
			assert.ErrorContains(t, second.Err(), tt.wantErr)
			var backendErr *BackendError
			require.ErrorAs(t, second.Err(), &backendErr)
			assert.Equal(t, tt.wantOp, backendErr.Op)

			feed.signals <- updated

			third := nextState(t, sub)
			require.True(t, third.IsSuccess())
			assert.Equal(t, []string{"A"}, titles(third))

			assertNoState(t, sub)
		})
	}
}

func TestNoteStore_FeedClosedUnderSubscriptionEmitsFailure(t *testing.T) {
	ctx := context.Background()
	f := newStoreFixture(t)

	_, err := f.store.Create(ctx, "u1", "A", "", 0, time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	sub := f.store.SubscribeByOwner(ctx, "u1")

	first := nextState(t, sub)
	require.True(t, first.IsSuccess())

	require.NoError(t, f.feed.Close())

	select {
	case state, ok := <-sub.States():
		require.True(t, ok, "subscription closed without a failure")
		require.True(t, state.IsFailure())
		assert.ErrorIs(t, state.Err(), changefeed.ErrClosed)
		var backendErr *BackendError
		require.ErrorAs(t, state.Err(), &backendErr)
		assert.Equal(t, "listen", backendErr.Op)
	case <-time.After(time.Second):
		t.Fatal("no failure after the feed closed")
	}

	assertNoState(t, sub)

	cancelled := make(chan struct{})
	go func() {
		sub.Cancel()
		close(cancelled)
	}()
	select {
	case <-cancelled:
	case <-time.After(2 * time.Second):
		t.Fatal("cancel blocked after the feed closed")
	}
	_, ok := <-sub.States()
	assert.False(t, ok)
}

func TestNoteStore_WriteSucceedsWhenFeedPublishFails(t *testing.T) {
	store := NewNoteStore(memory.NewNoteRepository(), failingFeed{err: errors.New("feed down")}, nil, logger.NewNopLogger())

	note, err := store.Create(context.Background(), "u1", "t", "d", 0, time.Now())
	require.NoError(t, err)
	assert.NoError(t, store.Delete(context.Background(), note.DocumentId))
}

func TestNoteStore_PublishesDomainEvents(t *testing.T) {
	ctx := context.Background()
	pub := new(mockPublisher)
	pub.On("Publish", mock.Anything, eventOfType(events.TypeNoteCreated)).Return(nil).Once()
	pub.On("Publish", mock.Anything, eventOfType(events.TypeNoteUpdated)).Return(errors.New("bus down")).Once()
	pub.On("Publish", mock.Anything, eventOfType(events.TypeNoteDeleted)).Return(nil).Once()

	feed := changefeed.NewGoChannelFeed(nil)
	defer feed.Close()
	store := NewNoteStore(memory.NewNoteRepository(), feed, pub, logger.NewNopLogger())

	note, err := store.Create(ctx, "u1", "t", "d", 0, time.Now())
	require.NoError(t, err)
	require.NoError(t, store.Update(ctx, note.DocumentId, "t2", "d2", 1))
	require.NoError(t, store.Delete(ctx, note.DocumentId))

	pub.AssertExpectations(t)
}

func TestNopNoteStore(t *testing.T) {
	ctx := context.Background()
	var store INoteStore = NopNoteStore{}

	sub := store.SubscribeByOwner(ctx, "u1")
	assertNoState(t, sub)
	sub.Cancel()
	sub.Cancel()

	_, err := store.Create(ctx, "u1", "t", "d", 0, time.Now())
	assert.ErrorIs(t, err, ErrBackendUnavailable)
	assert.ErrorIs(t, store.Update(ctx, "d", "t", "d", 0), ErrBackendUnavailable)
	assert.ErrorIs(t, store.Delete(ctx, "d"), ErrBackendUnavailable)
}
