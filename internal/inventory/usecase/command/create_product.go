package command

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tair/retail-pos/internal/inventory/domain"
	"github.com/tair/retail-pos/pkg/logger"
)

// CreateProductCommand represents the command to create a new product
type CreateProductCommand struct {
	OwnerID       uuid.UUID
	ProductType   domain.ProductType
	Name          string
	ArticleNumber string
	Category      string
	Color         string
	Brand         string
	Variants      domain.Variants
	BuyingPrice   decimal.Decimal
	SellingPrice  decimal.Decimal
}

// CreateProductHandler handles product creation command
type CreateProductHandler struct {
	repo  domain.ProductRepository
	cache domain.MetricsCache
}

// NewCreateProductHandler creates a new create product handler
func NewCreateProductHandler(repo domain.ProductRepository, cache domain.MetricsCache) *CreateProductHandler {
	return &CreateProductHandler{repo: repo, cache: cache}
}

// Handle executes the create product command
func (h *CreateProductHandler) Handle(ctx context.Context, cmd CreateProductCommand) (*domain.Product, error) {
	if cmd.OwnerID == uuid.Nil {
		return nil, domain.ErrUnauthorized
	}

	product := &domain.Product{
		OwnerID:          cmd.OwnerID,
		ProductType:      cmd.ProductType,
		Name:             strings.TrimSpace(cmd.Name),
		ArticleNumber:    strings.TrimSpace(cmd.ArticleNumber),
		Category:         cmd.Category,
		Color:            strings.TrimSpace(cmd.Color),
		Brand:            strings.TrimSpace(cmd.Brand),
		Variants:         cmd.Variants.Clone(),
		BuyingPrice:      cmd.BuyingPrice,
		SellingPrice:     cmd.SellingPrice,
		RevenueGenerated: decimal.Zero,
	}
	product.RecalculateStock()

	if err := product.Validate(); err != nil {
		return nil, err
	}
	if err := validateNewProduct(product); err != nil {
		return nil, err
	}

	if err := h.repo.Create(ctx, product); err != nil {
		return nil, err
	}

	invalidateMetrics(ctx, h.cache, cmd.OwnerID)
	return product, nil
}

// validateNewProduct applies the rules that only hold at creation time
func validateNewProduct(p *domain.Product) error {
	if p.TotalStock <= 0 {
		return &domain.ValidationError{Field: "variants", Message: "at least one variant needs stock"}
	}
	if !p.BuyingPrice.IsPositive() {
		return &domain.ValidationError{Field: "buying_price", Message: "buying price must be greater than 0"}
	}
	if !p.SellingPrice.IsPositive() {
		return &domain.ValidationError{Field: "selling_price", Message: "selling price must be greater than 0"}
	}
	return nil
}

// invalidateMetrics drops cached dashboard metrics; failures only cost a stale read until TTL
func invalidateMetrics(ctx context.Context, cache domain.MetricsCache, ownerID uuid.UUID) {
	if cache == nil {
		return
	}
	if err := cache.Invalidate(ctx, ownerID); err != nil {
		logger.Warn(ctx).
			Err(err).
			Str("owner_id", ownerID.String()).
			Msg("Failed to invalidate metrics cache")
	}
}
