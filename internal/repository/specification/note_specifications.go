package specification

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type NoteOwnedBy struct {
	OwnerID uuid.UUID
}

func (s NoteOwnedBy) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("notes.owner_id = ?", s.OwnerID)
}
