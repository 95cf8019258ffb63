package service

import (
	"context"
	"fmt"

	"color-notes-be/internal/pkg/logger"
	"color-notes-be/pkg/events"
)

// ActivityDelivery pushes an activity frame to every screen a user has open.
// Implemented by the websocket hub.
type ActivityDelivery interface {
	NotifyUser(userId string, frame map[string]interface{})
}

// EventSubscriber is satisfied by *nats.Subscriber.
type EventSubscriber interface {
	Subscribe(ctx context.Context, subject string, durableName string, handler func(ctx context.Context, event events.Event) error) error
}

// ActivityService consumes the domain event stream, records it in the activity
// log and relays it to the affected user's open screens.
type ActivityService struct {
	subscriber EventSubscriber
	delivery   ActivityDelivery
	logger     logger.ILogger
}

func NewActivityService(sub EventSubscriber, delivery ActivityDelivery, log logger.ILogger) *ActivityService {
	return &ActivityService{
		subscriber: sub,
		delivery:   delivery,
		logger:     log,
	}
}

func (s *ActivityService) Start(ctx context.Context) error {
	if err := s.subscriber.Subscribe(ctx, "events.>", "activity-worker", s.HandleEvent); err != nil {
		s.logger.Error("ActivityService", "Failed to start activity subscriber", map[string]interface{}{"error": err.Error()})
		return err
	}
	s.logger.Info("ActivityService", "Activity service started, listening to events.>", nil)
	return nil
}

func (s *ActivityService) HandleEvent(ctx context.Context, event events.Event) error {
	payload := event.Payload()
	s.logger.Info("ActivityService", fmt.Sprintf("Processing event: %s", event.EventType()), payload)

	var userId string
	switch event.EventType() {
	case events.TypeNoteCreated, events.TypeNoteUpdated, events.TypeNoteDeleted:
		userId, _ = payload["owner_id"].(string)
	case events.TypeUserLogin:
		userId, _ = payload["user_id"].(string)
	default:
		return nil
	}
	if userId == "" || s.delivery == nil {
		return nil
	}

	frame := map[string]interface{}{
		"type":        "activity",
		"event":       event.EventType(),
		"occurred_at": event.Timestamp(),
	}
	if documentId, ok := payload["document_id"]; ok {
		frame["document_id"] = documentId
	}
	s.delivery.NotifyUser(userId, frame)
	return nil
}
