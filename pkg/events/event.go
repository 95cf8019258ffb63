package events

import "time"

const (
	TypeNoteCreated = "NOTE_CREATED"
	TypeNoteUpdated = "NOTE_UPDATED"
	TypeNoteDeleted = "NOTE_DELETED"
	TypeUserLogin   = "USER_LOGIN"
)

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "USER_LOGIN").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

func NoteCreated(ownerId, documentId string) BaseEvent {
	return noteEvent(TypeNoteCreated, ownerId, documentId)
}

func NoteUpdated(ownerId, documentId string) BaseEvent {
	return noteEvent(TypeNoteUpdated, ownerId, documentId)
}

func NoteDeleted(ownerId, documentId string) BaseEvent {
	return noteEvent(TypeNoteDeleted, ownerId, documentId)
}

func UserLogin(userId, email string) BaseEvent {
	now := time.Now().UTC()
	return BaseEvent{
		Type: TypeUserLogin,
		Data: map[string]interface{}{
			"user_id":     userId,
			"email":       email,
			"occurred_at": now.Format(time.RFC3339Nano),
		},
		OccurredAt: now,
	}
}

func noteEvent(eventType, ownerId, documentId string) BaseEvent {
	now := time.Now().UTC()
	return BaseEvent{
		Type: eventType,
		Data: map[string]interface{}{
			"owner_id":    ownerId,
			"document_id": documentId,
			"occurred_at": now.Format(time.RFC3339Nano),
		},
		OccurredAt: now,
	}
}
