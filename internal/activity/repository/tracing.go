package repository

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/tair/eco-catalog/internal/activity/domain"
	"github.com/tair/eco-catalog/pkg/tracing"
)

var tracer = otel.Tracer("activity-repository")

// TracingActivityRepository opens a span around every repository call.
type TracingActivityRepository struct {
	next domain.ActivityRepository
}

func NewTracingActivityRepository(next domain.ActivityRepository) *TracingActivityRepository {
	return &TracingActivityRepository{next: next}
}

func startPair(ctx context.Context, name string, userID, productID uint) (context.Context, trace.Span) {
	return tracer.Start(ctx, name, trace.WithAttributes(
		attribute.Int("user.id", int(userID)),
		attribute.Int("product.id", int(productID)),
	))
}

func startUser(ctx context.Context, name string, userID uint) (context.Context, trace.Span) {
	return tracer.Start(ctx, name, trace.WithAttributes(attribute.Int("user.id", int(userID))))
}

func (r *TracingActivityRepository) UpsertView(ctx context.Context, userID, productID uint, at time.Time) (*domain.ViewEvent, error) {
	ctx, span := startPair(ctx, "repository.UpsertView", userID, productID)
	defer span.End()

	view, err := r.next.UpsertView(ctx, userID, productID, at)
	if err != nil {
		tracing.RecordError(span, err)
		return nil, err
	}
	return view, nil
}

func (r *TracingActivityRepository) ListViews(ctx context.Context, userID uint, limit, offset int) ([]domain.Entry[domain.ViewEvent], error) {
	ctx, span := startUser(ctx, "repository.ListViews", userID)
	defer span.End()
	span.SetAttributes(attribute.Int("query.limit", limit), attribute.Int("query.offset", offset))

	entries, err := r.next.ListViews(ctx, userID, limit, offset)
	if err != nil {
		tracing.RecordError(span, err)
		return nil, err
	}
	span.SetAttributes(attribute.Int("result.count", len(entries)))
	return entries, nil
}

func (r *TracingActivityRepository) IncrementCart(ctx context.Context, userID, productID uint, quantity int) (*domain.CartEntry, error) {
	ctx, span := startPair(ctx, "repository.IncrementCart", userID, productID)
	defer span.End()
	span.SetAttributes(attribute.Int("cart.quantity", quantity))

	entry, err := r.next.IncrementCart(ctx, userID, productID, quantity)
	if err != nil {
		tracing.RecordError(span, err)
		return nil, err
	}
	return entry, nil
}

func (r *TracingActivityRepository) SetCartQuantity(ctx context.Context, userID, productID uint, quantity int) (*domain.CartEntry, error) {
	ctx, span := startPair(ctx, "repository.SetCartQuantity", userID, productID)
	defer span.End()
	span.SetAttributes(attribute.Int("cart.quantity", quantity))

	entry, err := r.next.SetCartQuantity(ctx, userID, productID, quantity)
	if err != nil {
		tracing.RecordError(span, err)
		return nil, err
	}
	return entry, nil
}

func (r *TracingActivityRepository) DeleteCartEntry(ctx context.Context, userID, productID uint) (bool, error) {
	ctx, span := startPair(ctx, "repository.DeleteCartEntry", userID, productID)
	defer span.End()

	removed, err := r.next.DeleteCartEntry(ctx, userID, productID)
	if err != nil {
		tracing.RecordError(span, err)
		return false, err
	}
	span.SetAttributes(attribute.Bool("result.removed", removed))
	return removed, nil
}

func (r *TracingActivityRepository) ListCart(ctx context.Context, userID uint) ([]domain.Entry[domain.CartEntry], error) {
	ctx, span := startUser(ctx, "repository.ListCart", userID)
	defer span.End()

	entries, err := r.next.ListCart(ctx, userID)
	if err != nil {
		tracing.RecordError(span, err)
		return nil, err
	}
	span.SetAttributes(attribute.Int("result.count", len(entries)))
	return entries, nil
}

func (r *TracingActivityRepository) InsertWishlist(ctx context.Context, userID, productID uint) (*domain.WishlistEntry, error) {
	ctx, span := startPair(ctx, "repository.InsertWishlist", userID, productID)
	defer span.End()

	entry, err := r.next.InsertWishlist(ctx, userID, productID)
	if err != nil {
		tracing.RecordError(span, err)
		return nil, err
	}
	return entry, nil
}

func (r *TracingActivityRepository) DeleteWishlistEntry(ctx context.Context, userID, productID uint) (bool, error) {
	ctx, span := startPair(ctx, "repository.DeleteWishlistEntry", userID, productID)
	defer span.End()

	removed, err := r.next.DeleteWishlistEntry(ctx, userID, productID)
	if err != nil {
		tracing.RecordError(span, err)
		return false, err
	}
	span.SetAttributes(attribute.Bool("result.removed", removed))
	return removed, nil
}

func (r *TracingActivityRepository) ListWishlist(ctx context.Context, userID uint) ([]domain.Entry[domain.WishlistEntry], error) {
	ctx, span := startUser(ctx, "repository.ListWishlist", userID)
	defer span.End()

	entries, err := r.next.ListWishlist(ctx, userID)
	if err != nil {
		tracing.RecordError(span, err)
		return nil, err
	}
	span.SetAttributes(attribute.Int("result.count", len(entries)))
	return entries, nil
}
