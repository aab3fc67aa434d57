package command

import (
	"context"

	"github.com/tair/eco-catalog/internal/activity/domain"
	"github.com/tair/eco-catalog/kafka"
	"github.com/tair/eco-catalog/pkg/validation"
)

// RemoveFromWishlistCommand drops a product from the wishlist
type RemoveFromWishlistCommand struct {
	UserID    uint `json:"user_id" validate:"required"`
	ProductID uint `json:"product_id" validate:"required"`
}

// RemoveFromWishlistHandler handles remove from wishlist command
type RemoveFromWishlistHandler struct {
	repo   domain.ActivityRepository
	events EventPublisher
}

// NewRemoveFromWishlistHandler creates a new remove from wishlist handler
func NewRemoveFromWishlistHandler(repo domain.ActivityRepository, events EventPublisher) *RemoveFromWishlistHandler {
	return &RemoveFromWishlistHandler{repo: repo, events: events}
}

// Handle is a no-op when the product is not on the wishlist
func (h *RemoveFromWishlistHandler) Handle(ctx context.Context, cmd RemoveFromWishlistCommand) error {
	if err := validation.ValidateStruct(&cmd); err != nil {
		return err
	}

	removed, err := h.repo.DeleteWishlistEntry(ctx, cmd.UserID, cmd.ProductID)
	if err != nil || !removed {
		return err
	}

	publish(ctx, h.events, kafka.ActivityEvent{
		EventType: kafka.EventTypeWishlistItemRemoved,
		UserID:    cmd.UserID,
		ProductID: cmd.ProductID,
	})
	return nil
}
