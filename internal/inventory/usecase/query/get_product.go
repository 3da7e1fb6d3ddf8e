package query

import (
	"context"

	"github.com/google/uuid"

	"github.com/tair/retail-pos/internal/inventory/domain"
)

// GetProductQuery represents the query to get a product
type GetProductQuery struct {
	OwnerID uuid.UUID
	ID      uuid.UUID
}

// GetProductHandler handles get product query
type GetProductHandler struct {
	repo domain.ProductRepository
}

// NewGetProductHandler creates a new get product handler
func NewGetProductHandler(repo domain.ProductRepository) *GetProductHandler {
	return &GetProductHandler{repo: repo}
}

// Handle executes the get product query
func (h *GetProductHandler) Handle(ctx context.Context, query GetProductQuery) (*domain.Product, error) {
	if query.OwnerID == uuid.Nil {
		return nil, domain.ErrUnauthorized
	}
	if query.ID == uuid.Nil {
		return nil, domain.ErrProductNotFound
	}

	return h.repo.FindByID(ctx, query.OwnerID, query.ID)
}
