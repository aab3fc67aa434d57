package command

import (
	"context"

	"github.com/tair/eco-catalog/internal/activity/domain"
	"github.com/tair/eco-catalog/kafka"
	"github.com/tair/eco-catalog/pkg/validation"
)

// AddToCartCommand adds Quantity units of a product to the cart
type AddToCartCommand struct {
	UserID    uint `json:"user_id" validate:"required"`
	ProductID uint `json:"product_id" validate:"required"`
	Quantity  int  `json:"quantity" validate:"min=1"`
}

// AddToCartHandler handles add to cart command
type AddToCartHandler struct {
	repo   domain.ActivityRepository
	events EventPublisher
}

// NewAddToCartHandler creates a new add to cart handler
func NewAddToCartHandler(repo domain.ActivityRepository, events EventPublisher) *AddToCartHandler {
	return &AddToCartHandler{repo: repo, events: events}
}

// Handle adds to an existing entry or creates one. Quantities below one are
// rejected, never clamped.
func (h *AddToCartHandler) Handle(ctx context.Context, cmd AddToCartCommand) (*domain.CartEntry, error) {
	if err := validation.ValidateStruct(&cmd); err != nil {
		return nil, err
	}

	entry, err := h.repo.IncrementCart(ctx, cmd.UserID, cmd.ProductID, cmd.Quantity)
	if err != nil {
		return nil, err
	}

	publish(ctx, h.events, kafka.ActivityEvent{
		EventType: kafka.EventTypeCartItemAdded,
		UserID:    cmd.UserID,
		ProductID: cmd.ProductID,
		Quantity:  cmd.Quantity,
	})
	return entry, nil
}
