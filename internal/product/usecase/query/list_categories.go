package query

import (
	"context"

	"github.com/tair/eco-catalog/internal/product/domain"
)

// ListCategoriesHandler returns the distinct product categories
type ListCategoriesHandler struct {
	repo domain.ProductRepository
}

func NewListCategoriesHandler(repo domain.ProductRepository) *ListCategoriesHandler {
	return &ListCategoriesHandler{repo: repo}
}

func (h *ListCategoriesHandler) Handle(ctx context.Context) ([]string, error) {
	return h.repo.Categories(ctx)
}
