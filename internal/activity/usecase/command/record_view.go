package command

import (
	"context"
	"time"

	"github.com/tair/eco-catalog/internal/activity/domain"
	"github.com/tair/eco-catalog/kafka"
	"github.com/tair/eco-catalog/pkg/validation"
)

// RecordViewCommand records that a user looked at a product
type RecordViewCommand struct {
	UserID    uint `json:"user_id" validate:"required"`
	ProductID uint `json:"product_id" validate:"required"`
}

// RecordViewHandler handles record view command
type RecordViewHandler struct {
	repo   domain.ActivityRepository
	events EventPublisher
	now    func() time.Time
}

// NewRecordViewHandler creates a new record view handler
func NewRecordViewHandler(repo domain.ActivityRepository, events EventPublisher) *RecordViewHandler {
	return &RecordViewHandler{repo: repo, events: events, now: time.Now}
}

// Handle stores the view with the current time. A repeat view of the same
// product keeps its row and only moves viewed_at forward.
func (h *RecordViewHandler) Handle(ctx context.Context, cmd RecordViewCommand) (*domain.ViewEvent, error) {
	if err := validation.ValidateStruct(&cmd); err != nil {
		return nil, err
	}

	view, err := h.repo.UpsertView(ctx, cmd.UserID, cmd.ProductID, h.now().UTC())
	if err != nil {
		return nil, err
	}

	publish(ctx, h.events, kafka.ActivityEvent{
		EventType: kafka.EventTypeProductViewed,
		UserID:    view.UserID,
		ProductID: view.ProductID,
		Timestamp: view.ViewedAt,
	})
	return view, nil
}

// RecordView satisfies the product view recorder.
func (h *RecordViewHandler) RecordView(ctx context.Context, userID, productID uint) error {
	_, err := h.Handle(ctx, RecordViewCommand{UserID: userID, ProductID: productID})
	return err
}
