package memory

import (
	"context"
	"sort"
	"sync"

	"color-notes-be/internal/entity"
	"color-notes-be/internal/repository/contract"
)

// NoteRepository is the in-process note collection used when STORE_DRIVER=memory and in tests.
type NoteRepository struct {
	mu    sync.RWMutex
	notes map[string]entity.Note
}

func NewNoteRepository() *NoteRepository {
	return &NoteRepository{notes: make(map[string]entity.Note)}
}

func (r *NoteRepository) Create(ctx context.Context, note *entity.Note) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.notes[note.DocumentId]; exists {
		return contract.ErrDuplicate
	}
	stored := *note
	stored.ColorIndex = entity.ClampColorIndex(stored.ColorIndex)
	r.notes[note.DocumentId] = stored
	return nil
}

func (r *NoteRepository) UpdateContent(ctx context.Context, documentId string, title, description string, colorIndex int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	note, exists := r.notes[documentId]
	if !exists {
		return contract.ErrNotFound
	}
	note.Title = title
	note.Description = description
	note.ColorIndex = entity.ClampColorIndex(colorIndex)
	r.notes[documentId] = note
	return nil
}

func (r *NoteRepository) Delete(ctx context.Context, documentId string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.notes, documentId)
	return nil
}

func (r *NoteRepository) FindById(ctx context.Context, documentId string) (*entity.Note, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	note, exists := r.notes[documentId]
	if !exists {
		return nil, nil
	}
	return &note, nil
}

func (r *NoteRepository) FindAllByOwner(ctx context.Context, ownerId string) ([]*entity.Note, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*entity.Note, 0)
	for _, note := range r.notes {
		if note.OwnerId != ownerId {
			continue
		}
		n := note
		result = append(result, &n)
	}

	// Same order as the postgres scope: created_at ASC, id ASC
	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.Before(result[j].CreatedAt)
		}
		return result[i].DocumentId < result[j].DocumentId
	})
	return result, nil
}
