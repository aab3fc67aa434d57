package command

import (
	"context"

	"github.com/tair/eco-catalog/internal/activity/domain"
	"github.com/tair/eco-catalog/kafka"
	"github.com/tair/eco-catalog/pkg/validation"
)

// RemoveFromCartCommand drops a product from the cart
type RemoveFromCartCommand struct {
	UserID    uint `json:"user_id" validate:"required"`
	ProductID uint `json:"product_id" validate:"required"`
}

// RemoveFromCartHandler handles remove from cart command
type RemoveFromCartHandler struct {
	repo   domain.ActivityRepository
	events EventPublisher
}

// NewRemoveFromCartHandler creates a new remove from cart handler
func NewRemoveFromCartHandler(repo domain.ActivityRepository, events EventPublisher) *RemoveFromCartHandler {
	return &RemoveFromCartHandler{repo: repo, events: events}
}

// Handle is a no-op when the product is not in the cart
func (h *RemoveFromCartHandler) Handle(ctx context.Context, cmd RemoveFromCartCommand) error {
	if err := validation.ValidateStruct(&cmd); err != nil {
		return err
	}

	removed, err := h.repo.DeleteCartEntry(ctx, cmd.UserID, cmd.ProductID)
	if err != nil || !removed {
		return err
	}

	publish(ctx, h.events, kafka.ActivityEvent{
		EventType: kafka.EventTypeCartItemRemoved,
		UserID:    cmd.UserID,
		ProductID: cmd.ProductID,
	})
	return nil
}
