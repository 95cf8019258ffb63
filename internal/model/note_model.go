package model

import (
	"time"

	"github.com/google/uuid"
)

// Note rows are hard-deleted; a deleted document simply disappears from the collection.
type Note struct {
	Id          uuid.UUID `gorm:"type:uuid;primaryKey"`
	OwnerId     uuid.UUID `gorm:"type:uuid;not null;index:idx_notes_owner_created,priority:1"`
	Title       string    `gorm:"type:varchar(255);not null;default:''"`
	Description string    `gorm:"type:text;not null;default:''"`
	ColorIndex  int       `gorm:"not null;default:0"`
	CreatedAt   time.Time `gorm:"not null;index:idx_notes_owner_created,priority:2"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime"`
}

func (Note) TableName() string {
	return "notes"
}
