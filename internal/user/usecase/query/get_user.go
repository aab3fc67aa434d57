package query

import (
	"context"

	"github.com/tair/eco-catalog/internal/user/domain"
	"github.com/tair/eco-catalog/pkg/apperror"
)

// GetUserQuery represents the query to get a user by ID
type GetUserQuery struct {
	ID uint
}

// GetUserHandler handles get user query
type GetUserHandler struct {
	repo domain.UserRepository
}

// NewGetUserHandler creates a new get user handler
func NewGetUserHandler(repo domain.UserRepository) *GetUserHandler {
	return &GetUserHandler{repo: repo}
}

// Handle executes the get user query
func (h *GetUserHandler) Handle(ctx context.Context, query GetUserQuery) (*domain.User, error) {
	if query.ID == 0 {
		return nil, apperror.InvalidArgument("id", "invalid user id")
	}
	return h.repo.FindByID(ctx, query.ID)
}
