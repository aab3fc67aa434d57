package command

import (
	"context"

	"github.com/tair/eco-catalog/internal/activity/domain"
	"github.com/tair/eco-catalog/kafka"
	"github.com/tair/eco-catalog/pkg/validation"
)

// UpdateCartQuantityCommand sets the quantity of a cart entry. Zero or less
// removes the entry.
type UpdateCartQuantityCommand struct {
	UserID    uint `json:"user_id" validate:"required"`
	ProductID uint `json:"product_id" validate:"required"`
	Quantity  int  `json:"quantity"`
}

// UpdateCartQuantityHandler handles update cart quantity command
type UpdateCartQuantityHandler struct {
	repo   domain.ActivityRepository
	events EventPublisher
	remove *RemoveFromCartHandler
}

// NewUpdateCartQuantityHandler creates a new update cart quantity handler
func NewUpdateCartQuantityHandler(repo domain.ActivityRepository, events EventPublisher, remove *RemoveFromCartHandler) *UpdateCartQuantityHandler {
	return &UpdateCartQuantityHandler{repo: repo, events: events, remove: remove}
}

// Handle returns the updated entry, or nil when the entry was removed.
func (h *UpdateCartQuantityHandler) Handle(ctx context.Context, cmd UpdateCartQuantityCommand) (*domain.CartEntry, error) {
	if err := validation.ValidateStruct(&cmd); err != nil {
		return nil, err
	}

	if cmd.Quantity <= 0 {
		return nil, h.remove.Handle(ctx, RemoveFromCartCommand{UserID: cmd.UserID, ProductID: cmd.ProductID})
	}

	entry, err := h.repo.SetCartQuantity(ctx, cmd.UserID, cmd.ProductID, cmd.Quantity)
	if err != nil {
		return nil, err
	}

	publish(ctx, h.events, kafka.ActivityEvent{
		EventType: kafka.EventTypeCartItemUpdated,
		UserID:    cmd.UserID,
		ProductID: cmd.ProductID,
		Quantity:  entry.Quantity,
	})
	return entry, nil
}
