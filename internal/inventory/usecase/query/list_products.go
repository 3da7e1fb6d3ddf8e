package query

import (
	"context"

	"github.com/google/uuid"

	"github.com/tair/retail-pos/internal/inventory/domain"
)

// ListProductsQuery represents the query to list an owner's products
type ListProductsQuery struct {
	OwnerID uuid.UUID
	Filter  domain.ProductFilter
}

// ProductList is a filtered product listing; Total counts the owner's products before filtering
type ProductList struct {
	Products []domain.Product `json:"products"`
	Total    int              `json:"total"`
}

// ListProductsHandler handles list products query
type ListProductsHandler struct {
	repo domain.ProductRepository
}

// NewListProductsHandler creates a new list products handler
func NewListProductsHandler(repo domain.ProductRepository) *ListProductsHandler {
	return &ListProductsHandler{repo: repo}
}

// Handle executes the list products query. Products come newest first.
func (h *ListProductsHandler) Handle(ctx context.Context, query ListProductsQuery) (*ProductList, error) {
	if query.OwnerID == uuid.Nil {
		return nil, domain.ErrUnauthorized
	}

	products, err := h.repo.FindAll(ctx, query.OwnerID)
	if err != nil {
		return nil, err
	}

	return &ProductList{
		Products: domain.FilterProducts(products, query.Filter),
		Total:    len(products),
	}, nil
}
