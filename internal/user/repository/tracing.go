package repository

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/tair/eco-catalog/internal/user/domain"
	"github.com/tair/eco-catalog/pkg/tracing"
)

var tracer = otel.Tracer("user-repository")

// TracingUserRepository opens a span around every repository call.
type TracingUserRepository struct {
	next domain.UserRepository
}

// NewTracingUserRepository wraps next with tracing
func NewTracingUserRepository(next domain.UserRepository) *TracingUserRepository {
	return &TracingUserRepository{next: next}
}

func (r *TracingUserRepository) Create(ctx context.Context, user *domain.User) error {
	ctx, span := tracer.Start(ctx, "repository.Create",
		trace.WithAttributes(attribute.String("user.email", user.Email)),
	)
	defer span.End()

	if err := r.next.Create(ctx, user); err != nil {
		tracing.RecordError(span, err)
		return err
	}

	span.SetAttributes(attribute.Int("user.id", int(user.ID)))
	return nil
}

func (r *TracingUserRepository) FindByID(ctx context.Context, id uint) (*domain.User, error) {
	ctx, span := tracer.Start(ctx, "repository.FindByID",
		trace.WithAttributes(attribute.Int("user.id", int(id))),
	)
	defer span.End()

	user, err := r.next.FindByID(ctx, id)
	if err != nil {
		tracing.RecordError(span, err)
		return nil, err
	}
	return user, nil
}

func (r *TracingUserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	ctx, span := tracer.Start(ctx, "repository.FindByEmail",
		trace.WithAttributes(attribute.String("user.email", email)),
	)
	defer span.End()

	user, err := r.next.FindByEmail(ctx, email)
	if err != nil {
		tracing.RecordError(span, err)
		return nil, err
	}

	span.SetAttributes(attribute.Int("user.id", int(user.ID)))
	return user, nil
}
