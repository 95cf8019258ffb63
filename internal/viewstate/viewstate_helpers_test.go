package viewstate

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"color-notes-be/internal/pkg/logger"
	"color-notes-be/internal/repository/memory"
	"color-notes-be/internal/service"
	"color-notes-be/pkg/changefeed"

	"github.com/stretchr/testify/require"
)

// countingFeed records how many listeners were attached.
type countingFeed struct {
	changefeed.Feed
	listens atomic.Int32
}

func (f *countingFeed) Listen(ctx context.Context, ownerId string) (changefeed.Listener, error) {
	f.listens.Add(1)
	return f.Feed.Listen(ctx, ownerId)
}

type fixture struct {
	auth  service.IAuthService
	feed  *countingFeed
	notes *memory.NoteRepository
	store service.INoteStore
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	inner := changefeed.NewGoChannelFeed(nil)
	t.Cleanup(func() { _ = inner.Close() })

	feed := &countingFeed{Feed: inner}
	notes := memory.NewNoteRepository()
	return &fixture{
		auth: service.NewAuthService(
			memory.NewUserRepository(),
			memory.NewSessionRepository(time.Hour),
			"test-secret",
			time.Hour,
			nil,
			logger.NewNopLogger(),
		),
		feed:  feed,
		notes: notes,
		store: service.NewNoteStore(notes, feed, nil, logger.NewNopLogger()),
	}
}

// signedIn returns a gateway holding a fresh session for email.
func (f *fixture) signedIn(t *testing.T, email string) service.IAuthGateway {
	t.Helper()
	gateway := service.NewAuthGateway(f.auth)
	require.NoError(t, gateway.SignUp(context.Background(), email, "secret1"))
	return gateway
}

// waitFor blocks until a watched record satisfies cond.
func waitFor[T any](t *testing.T, ch <-chan T, cond func(T) bool) T {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case v, ok := <-ch:
			require.True(t, ok, "watch closed")
			if cond(v) {
				return v
			}
		case <-deadline:
			t.Fatal("condition not reached")
			var zero T
			return zero
		}
	}
}
