package repository

import (
	"context"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/tair/retail-pos/internal/user/domain"
)

// UserRepositoryWithTracing wraps a user repository with spans
type UserRepositoryWithTracing struct {
	next   domain.UserRepository
	tracer trace.Tracer
}

// NewUserRepositoryWithTracing creates a new repository with tracing
func NewUserRepositoryWithTracing(next domain.UserRepository, tp trace.TracerProvider) *UserRepositoryWithTracing {
	return &UserRepositoryWithTracing{next: next, tracer: tp.Tracer("user-repository")}
}

// Create with tracing
func (r *UserRepositoryWithTracing) Create(ctx context.Context, user *domain.User) error {
	ctx, span := r.tracer.Start(ctx, "repository.CreateUser")
	defer span.End()

	if err := r.next.Create(ctx, user); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	span.SetAttributes(attribute.String("user.id", user.ID.String()))
	return nil
}

// FindByID with tracing
func (r *UserRepositoryWithTracing) FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	ctx, span := r.tracer.Start(ctx, "repository.FindUserByID",
		trace.WithAttributes(attribute.String("user.id", id.String())),
	)
	defer span.End()

	user, err := r.next.FindByID(ctx, id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return user, nil
}

// FindByEmail with tracing. The address itself is not recorded.
func (r *UserRepositoryWithTracing) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	ctx, span := r.tracer.Start(ctx, "repository.FindUserByEmail")
	defer span.End()

	user, err := r.next.FindByEmail(ctx, email)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.String("user.id", user.ID.String()))
	return user, nil
}
