package services

import "github.com/rs/zerolog"

// Event names published after successful mutations.
const (
	EventUserCreated         = "user.created"
	EventUserUpdated         = "user.updated"
	EventUserDeleted         = "user.deleted"
	EventUserPasswordChanged = "user.password_changed"
	EventProductCreated      = "product.created"
	EventProductUpdated      = "product.updated"
	EventProductDeleted      = "product.deleted"
)

// EventPublisher delivers domain events to a broker.
type EventPublisher interface {
	PublishEvent(event string, payload map[string]interface{}) error
}

// publishEvent never fails the caller: the write already happened.
func publishEvent(logger zerolog.Logger, publisher EventPublisher, event string, payload map[string]interface{}) {
	if publisher == nil {
		return
	}
	if err := publisher.PublishEvent(event, payload); err != nil {
		logger.Warn().Err(err).Str("event", event).Msg("failed to publish event")
	}
}
