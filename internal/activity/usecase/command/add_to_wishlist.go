package command

import (
	"context"

	"github.com/tair/eco-catalog/internal/activity/domain"
	"github.com/tair/eco-catalog/kafka"
	"github.com/tair/eco-catalog/pkg/validation"
)

// AddToWishlistCommand saves a product to the wishlist
type AddToWishlistCommand struct {
	UserID    uint `json:"user_id" validate:"required"`
	ProductID uint `json:"product_id" validate:"required"`
}

// AddToWishlistHandler handles add to wishlist command
type AddToWishlistHandler struct {
	repo   domain.ActivityRepository
	events EventPublisher
}

// NewAddToWishlistHandler creates a new add to wishlist handler
func NewAddToWishlistHandler(repo domain.ActivityRepository, events EventPublisher) *AddToWishlistHandler {
	return &AddToWishlistHandler{repo: repo, events: events}
}

// Handle returns the same stored entry however often it is called
func (h *AddToWishlistHandler) Handle(ctx context.Context, cmd AddToWishlistCommand) (*domain.WishlistEntry, error) {
	if err := validation.ValidateStruct(&cmd); err != nil {
		return nil, err
	}

	entry, err := h.repo.InsertWishlist(ctx, cmd.UserID, cmd.ProductID)
	if err != nil {
		return nil, err
	}

	publish(ctx, h.events, kafka.ActivityEvent{
		EventType: kafka.EventTypeWishlistItemAdded,
		UserID:    cmd.UserID,
		ProductID: cmd.ProductID,
	})
	return entry, nil
}
