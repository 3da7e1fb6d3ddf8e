package query

import (
	"context"

	"github.com/google/uuid"

	"github.com/tair/retail-pos/internal/user/domain"
)

// GetUserQuery represents the query to get a user by ID
type GetUserQuery struct {
	ID uuid.UUID
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
	if query.ID == uuid.Nil {
		return nil, domain.ErrUserNotFound
	}
	return h.repo.FindByID(ctx, query.ID)
}
