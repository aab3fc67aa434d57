package repository

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/tair/eco-catalog/internal/product/domain"
	"github.com/tair/eco-catalog/pkg/tracing"
)

var tracer = otel.Tracer("product-repository")

// TracingProductRepository opens a span around every repository call.
type TracingProductRepository struct {
	next domain.ProductRepository
}

func NewTracingProductRepository(next domain.ProductRepository) *TracingProductRepository {
	return &TracingProductRepository{next: next}
}

func (r *TracingProductRepository) List(ctx context.Context, filter domain.ListFilter) ([]domain.Product, error) {
	ctx, span := tracer.Start(ctx, "repository.List",
		trace.WithAttributes(
			attribute.String("query.category", filter.Category),
			attribute.String("query.search", filter.Search),
			attribute.Int("query.limit", filter.Limit),
			attribute.Int("query.offset", filter.Offset),
		),
	)
	defer span.End()

	products, err := r.next.List(ctx, filter)
	if err != nil {
		tracing.RecordError(span, err)
		return nil, err
	}

	span.SetAttributes(attribute.Int("result.count", len(products)))
	return products, nil
}

func (r *TracingProductRepository) FindByID(ctx context.Context, id uint) (*domain.Product, error) {
	ctx, span := tracer.Start(ctx, "repository.FindByID",
		trace.WithAttributes(attribute.Int("product.id", int(id))),
	)
	defer span.End()

	product, err := r.next.FindByID(ctx, id)
	if err != nil {
		tracing.RecordError(span, err)
		return nil, err
	}
	return product, nil
}

func (r *TracingProductRepository) FindByDemographic(ctx context.Context, filter domain.DemographicFilter, limit int) ([]domain.Product, error) {
	ctx, span := tracer.Start(ctx, "repository.FindByDemographic",
		trace.WithAttributes(
			attribute.String("query.age_bucket", filter.AgeBucket),
			attribute.String("query.gender", filter.Gender),
			attribute.Int("query.limit", limit),
		),
	)
	defer span.End()

	products, err := r.next.FindByDemographic(ctx, filter, limit)
	if err != nil {
		tracing.RecordError(span, err)
		return nil, err
	}

	span.SetAttributes(attribute.Int("result.count", len(products)))
	return products, nil
}

func (r *TracingProductRepository) Categories(ctx context.Context) ([]string, error) {
	ctx, span := tracer.Start(ctx, "repository.Categories")
	defer span.End()

	categories, err := r.next.Categories(ctx)
	if err != nil {
		tracing.RecordError(span, err)
		return nil, err
	}

	span.SetAttributes(attribute.Int("result.count", len(categories)))
	return categories, nil
}
