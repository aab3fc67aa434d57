package query

import (
	"context"

	"github.com/tair/eco-catalog/internal/product/domain"
	"github.com/tair/eco-catalog/pkg/apperror"
	"github.com/tair/eco-catalog/pkg/logger"
)

// ViewRecorder stores that a user looked at a product.
type ViewRecorder interface {
	RecordView(ctx context.Context, userID, productID uint) error
}

// GetProductQuery represents the query to get a product by ID.
// ViewerID is zero for anonymous callers.
type GetProductQuery struct {
	ID       uint
	ViewerID uint
}

// GetProductHandler handles get product query
type GetProductHandler struct {
	repo  domain.ProductRepository
	views ViewRecorder
}

// NewGetProductHandler creates a new get product handler. views may be nil.
func NewGetProductHandler(repo domain.ProductRepository, views ViewRecorder) *GetProductHandler {
	return &GetProductHandler{repo: repo, views: views}
}

// Handle returns the product and, for signed-in callers, records a view.
// A failed view write is logged and does not fail the read.
func (h *GetProductHandler) Handle(ctx context.Context, query GetProductQuery) (*domain.Product, error) {
	if query.ID == 0 {
		return nil, apperror.InvalidArgument("id", "invalid product id")
	}

	product, err := h.repo.FindByID(ctx, query.ID)
	if err != nil {
		return nil, err
	}

	if query.ViewerID != 0 && h.views != nil {
		if err := h.views.RecordView(ctx, query.ViewerID, product.ID); err != nil {
			logger.Warn(ctx).
				Err(err).
				Uint("user_id", query.ViewerID).
				Uint("product_id", product.ID).
				Msg("Failed to record product view")
		}
	}

	return product, nil
}
