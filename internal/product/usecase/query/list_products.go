package query

import (
	"context"

	"github.com/tair/eco-catalog/internal/product/domain"
	"github.com/tair/eco-catalog/pkg/validation"
)

// ListProductsQuery lists the catalog. A non-blank Search narrows it to
// products whose title or text contains the term.
type ListProductsQuery struct {
	Category string `json:"category"`
	Search   string `json:"search" validate:"max=200"`
	Limit    int    `json:"limit" validate:"min=1,max=100"`
	Offset   int    `json:"offset" validate:"min=0"`
}

// ListProductsHandler handles list and search queries
type ListProductsHandler struct {
	repo domain.ProductRepository
}

// NewListProductsHandler creates a new list products handler
func NewListProductsHandler(repo domain.ProductRepository) *ListProductsHandler {
	return &ListProductsHandler{repo: repo}
}

// Handle executes the list products query
func (h *ListProductsHandler) Handle(ctx context.Context, query ListProductsQuery) ([]domain.Product, error) {
	if err := validation.ValidateStruct(&query); err != nil {
		return nil, err
	}

	return h.repo.List(ctx, domain.ListFilter{
		Category: query.Category,
		Search:   query.Search,
		Limit:    query.Limit,
		Offset:   query.Offset,
	})
}
