package nats

import (
	"context"
	"os"
	"testing"
	"time"

	"color-notes-be/pkg/events"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishSubscribe_Integration(t *testing.T) {
	url := os.Getenv("NATS_URL")
	if url == "" {
		t.Skip("Skipping integration test: NATS_URL not set")
	}

	pub, err := NewPublisher(url)
	require.NoError(t, err)
	defer pub.Close()

	sub, err := NewSubscriber(url)
	require.NoError(t, err)
	defer sub.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	documentId := uuid.NewString()
	received := make(chan events.Event, 4)
	err = sub.Subscribe(ctx, SubjectPrefix+events.TypeNoteCreated, "test-"+uuid.NewString()[:8], func(ctx context.Context, e events.Event) error {
		if e.Payload()["document_id"] == documentId {
			received <- e
		}
		return nil
	})
	require.NoError(t, err)

	require.NoError(t, pub.Publish(ctx, events.NoteCreated("owner", documentId)))

	select {
	case e := <-received:
		assert.Equal(t, events.TypeNoteCreated, e.EventType())
		assert.Equal(t, "owner", e.Payload()["owner_id"])
	case <-ctx.Done():
		t.Fatal("event not delivered")
	}
}

func TestNilPublisherDropsEvents(t *testing.T) {
	var pub *Publisher
	assert.NoError(t, pub.Publish(context.Background(), events.NoteDeleted("u", "d")))
	pub.Close()
}
