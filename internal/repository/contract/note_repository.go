package contract

import (
	"context"
	"errors"

	"color-notes-be/internal/entity"
)

var (
	// ErrNotFound is returned by writes that target a missing record.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when a unique constraint rejects a write.
	ErrDuplicate = errors.New("record already exists")
)

// NoteRepository is the hosted note collection. Reads of a missing document return nil, nil.
type NoteRepository interface {
	Create(ctx context.Context, note *entity.Note) error
	UpdateContent(ctx context.Context, documentId string, title, description string, colorIndex int) error
	Delete(ctx context.Context, documentId string) error
	FindById(ctx context.Context, documentId string) (*entity.Note, error)
	FindAllByOwner(ctx context.Context, ownerId string) ([]*entity.Note, error)
}
