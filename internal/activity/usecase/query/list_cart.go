package query

import (
	"context"

	"github.com/tair/eco-catalog/internal/activity/domain"
	"github.com/tair/eco-catalog/pkg/validation"
)

// ListCartQuery represents the query to list a user's cart
type ListCartQuery struct {
	UserID uint `json:"user_id" validate:"required"`
}

// ListCartHandler handles list cart query
type ListCartHandler struct {
	repo domain.ActivityRepository
}

// NewListCartHandler creates a new list cart handler
func NewListCartHandler(repo domain.ActivityRepository) *ListCartHandler {
	return &ListCartHandler{repo: repo}
}

// Handle returns cart entries in the order they were first added
func (h *ListCartHandler) Handle(ctx context.Context, query ListCartQuery) ([]domain.Entry[domain.CartEntry], error) {
	if err := validation.ValidateStruct(&query); err != nil {
		return nil, err
	}
	return h.repo.ListCart(ctx, query.UserID)
}
