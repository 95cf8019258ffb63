package mapper

import (
	"testing"
	"time"

	"color-notes-be/internal/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestNoteMapper_ModelKeepsIdentity(t *testing.T) {
	m := NewNoteMapper()
	created := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	note := &entity.Note{
		DocumentId:  uuid.NewString(),
		OwnerId:     uuid.NewString(),
		Title:       "Groceries",
		Description: "milk",
		CreatedAt:   created,
		ColorIndex:  4,
	}

	got := m.ToEntity(m.ToModel(note))

	assert.Equal(t, note, got)
}

func TestNoteMapper_InvalidIdsBecomeNil(t *testing.T) {
	m := NewNoteMapper()

	got := m.ToModel(&entity.Note{DocumentId: "not-a-uuid", OwnerId: ""})

	assert.Equal(t, uuid.Nil, got.Id)
	assert.Equal(t, uuid.Nil, got.OwnerId)
}

func TestNoteMapper_Nil(t *testing.T) {
	m := NewNoteMapper()
	assert.Nil(t, m.ToEntity(nil))
	assert.Nil(t, m.ToModel(nil))
	assert.Empty(t, m.ToEntities(nil))
}
