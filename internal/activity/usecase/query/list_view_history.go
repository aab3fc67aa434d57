package query

import (
	"context"

	"github.com/tair/eco-catalog/internal/activity/domain"
	"github.com/tair/eco-catalog/pkg/validation"
)

// ListViewHistoryQuery represents the query to list recently viewed products.
// A zero Limit returns the whole history.
type ListViewHistoryQuery struct {
	UserID uint `json:"user_id" validate:"required"`
	Limit  int  `json:"limit" validate:"omitempty,min=1,max=100"`
	Offset int  `json:"offset" validate:"min=0"`
}

// ListViewHistoryHandler handles list view history query
type ListViewHistoryHandler struct {
	repo domain.ActivityRepository
}

// NewListViewHistoryHandler creates a new list view history handler
func NewListViewHistoryHandler(repo domain.ActivityRepository) *ListViewHistoryHandler {
	return &ListViewHistoryHandler{repo: repo}
}

// Handle returns the most recently viewed products first
func (h *ListViewHistoryHandler) Handle(ctx context.Context, query ListViewHistoryQuery) ([]domain.Entry[domain.ViewEvent], error) {
	if err := validation.ValidateStruct(&query); err != nil {
		return nil, err
	}
	return h.repo.ListViews(ctx, query.UserID, query.Limit, query.Offset)
}
