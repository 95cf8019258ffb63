package mapper

import (
	"color-notes-be/internal/entity"
	"color-notes-be/internal/model"

	"github.com/google/uuid"
)

type NoteMapper struct{}

func NewNoteMapper() *NoteMapper {
	return &NoteMapper{}
}

func (m *NoteMapper) ToEntity(n *model.Note) *entity.Note {
	if n == nil {
		return nil
	}

	return &entity.Note{
		DocumentId:  n.Id.String(),
		OwnerId:     n.OwnerId.String(),
		Title:       n.Title,
		Description: n.Description,
		CreatedAt:   n.CreatedAt,
		ColorIndex:  n.ColorIndex,
	}
}

// ToModel expects ids that already passed uuid validation; anything else maps to uuid.Nil.
func (m *NoteMapper) ToModel(n *entity.Note) *model.Note {
	if n == nil {
		return nil
	}

	return &model.Note{
		Id:          parseOrNil(n.DocumentId),
		OwnerId:     parseOrNil(n.OwnerId),
		Title:       n.Title,
		Description: n.Description,
		ColorIndex:  n.ColorIndex,
		CreatedAt:   n.CreatedAt,
	}
}

func (m *NoteMapper) ToEntities(notes []*model.Note) []*entity.Note {
	entities := make([]*entity.Note, len(notes))
	for i, n := range notes {
		entities[i] = m.ToEntity(n)
	}
	return entities
}

func (m *NoteMapper) ToModels(notes []*entity.Note) []*model.Note {
	models := make([]*model.Note, len(notes))
	for i, n := range notes {
		models[i] = m.ToModel(n)
	}
	return models
}

func parseOrNil(s string) uuid.UUID {
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil
	}
	return id
}
