package command

import (
	"context"

	"github.com/google/uuid"

	"github.com/tair/retail-pos/internal/inventory/domain"
)

// DeleteProductCommand represents the command to delete a product.
// Sales of the product keep their snapshot and stay readable.
type DeleteProductCommand struct {
	OwnerID uuid.UUID
	ID      uuid.UUID
}

// DeleteProductHandler handles product deletion command
type DeleteProductHandler struct {
	repo  domain.ProductRepository
	cache domain.MetricsCache
}

// NewDeleteProductHandler creates a new delete product handler
func NewDeleteProductHandler(repo domain.ProductRepository, cache domain.MetricsCache) *DeleteProductHandler {
	return &DeleteProductHandler{repo: repo, cache: cache}
}

// Handle executes the delete product command
func (h *DeleteProductHandler) Handle(ctx context.Context, cmd DeleteProductCommand) error {
	if cmd.OwnerID == uuid.Nil {
		return domain.ErrUnauthorized
	}

	if err := h.repo.Delete(ctx, cmd.OwnerID, cmd.ID); err != nil {
		return err
	}

	invalidateMetrics(ctx, h.cache, cmd.OwnerID)
	return nil
}
