package entity

import "time"

// Note is a user-owned colored note. DocumentId is empty only for an unsaved draft.
type Note struct {
	DocumentId  string
	OwnerId     string
	Title       string
	Description string
	CreatedAt   time.Time
	ColorIndex  int
}

// IsPersisted reports whether the backend has assigned the note an id.
func (n Note) IsPersisted() bool {
	return n.DocumentId != ""
}
