package command

import (
	"context"

	"github.com/tair/eco-catalog/kafka"
	"github.com/tair/eco-catalog/pkg/logger"
)

// EventPublisher receives activity events after successful writes
type EventPublisher interface {
	PublishActivity(ctx context.Context, event kafka.ActivityEvent) error
}

// publish is best effort: the write has already happened.
func publish(ctx context.Context, events EventPublisher, event kafka.ActivityEvent) {
	if events == nil {
		return
	}
	if err := events.PublishActivity(ctx, event); err != nil {
		logger.Warn(ctx).
			Err(err).
			Str("event_type", event.EventType).
			Uint("user_id", event.UserID).
			Uint("product_id", event.ProductID).
			Msg("Failed to publish activity event")
	}
}
