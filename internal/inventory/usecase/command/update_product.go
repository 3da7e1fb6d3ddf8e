package command

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tair/retail-pos/internal/inventory/domain"
)

// UpdateProductCommand carries a partial update; nil fields are left unchanged.
// Variants, when set, replace the whole mapping.
type UpdateProductCommand struct {
	OwnerID       uuid.UUID
	ID            uuid.UUID
	Name          *string
	ArticleNumber *string
	Category      *string
	Color         *string
	Brand         *string
	Variants      domain.Variants
	BuyingPrice   *decimal.Decimal
	SellingPrice  *decimal.Decimal
}

// UpdateProductHandler handles product update command
type UpdateProductHandler struct {
	repo  domain.ProductRepository
	cache domain.MetricsCache
}

// NewUpdateProductHandler creates a new update product handler
func NewUpdateProductHandler(repo domain.ProductRepository, cache domain.MetricsCache) *UpdateProductHandler {
	return &UpdateProductHandler{repo: repo, cache: cache}
}

// Handle executes the update product command
func (h *UpdateProductHandler) Handle(ctx context.Context, cmd UpdateProductCommand) (*domain.Product, error) {
	if cmd.OwnerID == uuid.Nil {
		return nil, domain.ErrUnauthorized
	}

	product, err := h.repo.FindByID(ctx, cmd.OwnerID, cmd.ID)
	if err != nil {
		return nil, err
	}

	var columns []string
	if cmd.Name != nil {
		product.Name = strings.TrimSpace(*cmd.Name)
		columns = append(columns, "name")
	}
	if cmd.ArticleNumber != nil {
		product.ArticleNumber = strings.TrimSpace(*cmd.ArticleNumber)
		columns = append(columns, "article_number")
	}
	if cmd.Category != nil {
		product.Category = *cmd.Category
		columns = append(columns, "category")
	}
	if cmd.Color != nil {
		product.Color = strings.TrimSpace(*cmd.Color)
		columns = append(columns, "color")
	}
	if cmd.Brand != nil {
		product.Brand = strings.TrimSpace(*cmd.Brand)
		columns = append(columns, "brand")
	}
	if cmd.Variants != nil {
		product.Variants = cmd.Variants.Clone()
		product.RecalculateStock()
		columns = append(columns, "variants", "total_stock")
	}
	if cmd.BuyingPrice != nil {
		product.BuyingPrice = *cmd.BuyingPrice
		columns = append(columns, "buying_price")
	}
	if cmd.SellingPrice != nil {
		product.SellingPrice = *cmd.SellingPrice
		columns = append(columns, "selling_price")
	}

	if len(columns) == 0 {
		return product, nil
	}

	if err := product.Validate(); err != nil {
		return nil, err
	}

	if err := h.repo.Update(ctx, product, columns...); err != nil {
		return nil, err
	}

	invalidateMetrics(ctx, h.cache, cmd.OwnerID)
	return product, nil
}
