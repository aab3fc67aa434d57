package query

import (
	"context"

	"github.com/tair/eco-catalog/internal/activity/domain"
	"github.com/tair/eco-catalog/pkg/validation"
)

// ListWishlistQuery represents the query to list a user's wishlist
type ListWishlistQuery struct {
	UserID uint `json:"user_id" validate:"required"`
}

// ListWishlistHandler handles list wishlist query
type ListWishlistHandler struct {
	repo domain.ActivityRepository
}

// NewListWishlistHandler creates a new list wishlist handler
func NewListWishlistHandler(repo domain.ActivityRepository) *ListWishlistHandler {
	return &ListWishlistHandler{repo: repo}
}

func (h *ListWishlistHandler) Handle(ctx context.Context, query ListWishlistQuery) ([]domain.Entry[domain.WishlistEntry], error) {
	if err := validation.ValidateStruct(&query); err != nil {
		return nil, err
	}
	return h.repo.ListWishlist(ctx, query.UserID)
}
