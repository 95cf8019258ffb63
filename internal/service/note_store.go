package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"color-notes-be/internal/entity"
	"color-notes-be/internal/loadstate"
	"color-notes-be/internal/pkg/logger"
	"color-notes-be/internal/repository/contract"
	"color-notes-be/pkg/changefeed"
	"color-notes-be/pkg/events"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
)

// INoteStore is the hosted note collection as seen by the screens.
type INoteStore interface {
	// SubscribeByOwner streams Success(all notes of ownerId) or Failure, once on attach
	// and once per change. It never emits Loading.
	SubscribeByOwner(ctx context.Context, ownerId string) *Subscription
	// ReadOne returns nil, nil when the document does not exist.
	ReadOne(ctx context.Context, documentId string) (*entity.Note, error)
	Create(ctx context.Context, ownerId, title, description string, colorIndex int, createdAt time.Time) (*entity.Note, error)
	Update(ctx context.Context, documentId, title, description string, colorIndex int) error
	Delete(ctx context.Context, documentId string) error
}

type noteStore struct {
	notes          contract.NoteRepository
	feed           changefeed.Feed
	eventPublisher EventPublisher
	logger         logger.ILogger
}

func NewNoteStore(notes contract.NoteRepository, feed changefeed.Feed, eventPublisher EventPublisher, log logger.ILogger) INoteStore {
	return &noteStore{
		notes:          notes,
		feed:           feed,
		eventPublisher: eventPublisher,
		logger:         log,
	}
}

var tracer = otel.Tracer("color-notes-be/note-store")

func (s *noteStore) SubscribeByOwner(ctx context.Context, ownerId string) *Subscription {
	sub, subCtx := newSubscription(ctx)
	sub.run(subCtx, func(ctx context.Context) {
		s.pump(ctx, sub, ownerId)
	})
	return sub
}

func (s *noteStore) pump(ctx context.Context, sub *Subscription, ownerId string) {
	listener, err := s.feed.Listen(ctx, ownerId)
	if err != nil {
		s.logger.Error("NoteStore", "Failed to attach listener", map[string]interface{}{"owner_id": ownerId, "error": err.Error()})
		if sub.emit(ctx, loadstate.Failure(backendErr("listen", err))) {
			sub.idle(ctx)
		}
		return
	}
	defer func() {
		if err := listener.Close(); err != nil {
			s.logger.Warn("NoteStore", "Failed to release listener", map[string]interface{}{"owner_id": ownerId, "error": err.Error()})
		}
	}()

	if !sub.emit(ctx, s.snapshot(ctx, ownerId)) {
		return
	}

	for {
		select {
		case <-sub.done:
			return
		case <-ctx.Done():
			return
		case sig, ok := <-listener.Changes():
			if !ok {
				s.logger.Warn("NoteStore", "Change feed ended under a live subscription", map[string]interface{}{"owner_id": ownerId})
				if sub.emit(ctx, loadstate.Failure(backendErr("listen", changefeed.ErrClosed))) {
					sub.idle(ctx)
				}
				return
			}
			var state loadstate.List
			if sig.Err != nil {
				state = loadstate.Failure(backendErr("listen", sig.Err))
			} else {
				state = s.snapshot(ctx, ownerId)
			}
			if !sub.emit(ctx, state) {
				return
			}
		}
	}
}

func (s *noteStore) snapshot(ctx context.Context, ownerId string) loadstate.List {
	found, err := s.notes.FindAllByOwner(ctx, ownerId)
	if err != nil {
		return loadstate.Failure(backendErr("query notes", err))
	}
	notes := make([]entity.Note, 0, len(found))
	for _, n := range found {
		notes = append(notes, *n)
	}
	return loadstate.Success(notes)
}

func (s *noteStore) ReadOne(ctx context.Context, documentId string) (*entity.Note, error) {
	ctx, span := tracer.Start(ctx, "NoteStore.ReadOne")
	defer span.End()

	note, err := s.notes.FindById(ctx, documentId)
	if err != nil {
		span.RecordError(err)
		return nil, backendErr("read note", err)
	}
	return note, nil
}

func (s *noteStore) Create(ctx context.Context, ownerId, title, description string, colorIndex int, createdAt time.Time) (*entity.Note, error) {
	ctx, span := tracer.Start(ctx, "NoteStore.Create")
	defer span.End()

	if ownerId == "" {
		return nil, ErrNotAuthenticated
	}

	note := &entity.Note{
		DocumentId:  uuid.New().String(),
		OwnerId:     ownerId,
		Title:       title,
		Description: description,
		CreatedAt:   createdAt,
		ColorIndex:  entity.ClampColorIndex(colorIndex),
	}

	if err := s.notes.Create(ctx, note); err != nil {
		span.RecordError(err)
		return nil, backendErr("create note", err)
	}

	s.announce(ctx, note.OwnerId, note.DocumentId, changefeed.KindCreated, events.NoteCreated(note.OwnerId, note.DocumentId))
	return note, nil
}

func (s *noteStore) Update(ctx context.Context, documentId, title, description string, colorIndex int) error {
	ctx, span := tracer.Start(ctx, "NoteStore.Update")
	defer span.End()

	existing, err := s.notes.FindById(ctx, documentId)
	if err != nil {
		span.RecordError(err)
		return backendErr("update note", err)
	}
	if existing == nil {
		return ErrNoteNotFound
	}

	if err := s.notes.UpdateContent(ctx, documentId, title, description, entity.ClampColorIndex(colorIndex)); err != nil {
		if errors.Is(err, contract.ErrNotFound) {
			return ErrNoteNotFound
		}
		span.RecordError(err)
		return backendErr("update note", err)
	}

	s.announce(ctx, existing.OwnerId, documentId, changefeed.KindUpdated, events.NoteUpdated(existing.OwnerId, documentId))
	return nil
}

// Delete succeeds for documents that do not exist.
func (s *noteStore) Delete(ctx context.Context, documentId string) error {
	ctx, span := tracer.Start(ctx, "NoteStore.Delete")
	defer span.End()

	existing, err := s.notes.FindById(ctx, documentId)
	if err != nil {
		span.RecordError(err)
		return backendErr("delete note", err)
	}
	if existing == nil {
		return nil
	}

	if err := s.notes.Delete(ctx, documentId); err != nil {
		span.RecordError(err)
		return backendErr("delete note", err)
	}

	s.announce(ctx, existing.OwnerId, documentId, changefeed.KindDeleted, events.NoteDeleted(existing.OwnerId, documentId))
	return nil
}

// announce tells live subscribers and the event bus about a committed write.
// The write already happened, so failures are only logged.
func (s *noteStore) announce(ctx context.Context, ownerId, documentId, kind string, event events.Event) {
	change := changefeed.Change{OwnerId: ownerId, DocumentId: documentId, Kind: kind, At: time.Now().UTC()}
	if err := s.feed.Publish(ctx, change); err != nil {
		s.logger.Error("NoteStore", "Failed to publish change", map[string]interface{}{
			"document_id": documentId,
			"kind":        kind,
			"error":       err.Error(),
		})
	}

	if s.eventPublisher != nil {
		if err := s.eventPublisher.Publish(ctx, event); err != nil {
			s.logger.Warn("NoteStore", fmt.Sprintf("Failed to publish %s event", event.EventType()), map[string]interface{}{"error": err.Error()})
		}
	}
}
