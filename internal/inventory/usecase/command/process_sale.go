package command

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tair/retail-pos/internal/inventory/domain"
	"github.com/tair/retail-pos/kafka"
	"github.com/tair/retail-pos/pkg/logger"
)

// SaleEventPublisher announces committed sales
type SaleEventPublisher interface {
	PublishSaleRecorded(ctx context.Context, event kafka.SaleRecordedEvent) error
}

// ProcessSaleCommand records the sale of quantity units of one product variant
type ProcessSaleCommand struct {
	OwnerID      uuid.UUID
	ProductID    uuid.UUID
	Variant      string
	Quantity     int
	CustomerName string
	// SalePrice optionally overrides the listed selling price per unit
	SalePrice *decimal.Decimal
}

// ProcessSaleResult holds the committed product state and the new sale
type ProcessSaleResult struct {
	Product *domain.Product `json:"product"`
	Sale    *domain.Sale    `json:"sale"`
}

// ProcessSaleHandler handles the process sale command
type ProcessSaleHandler struct {
	sales     domain.SaleRepository
	cache     domain.MetricsCache
	publisher SaleEventPublisher
	clock     domain.Clock
}

// NewProcessSaleHandler creates a new process sale handler. cache and publisher may be nil.
func NewProcessSaleHandler(sales domain.SaleRepository, cache domain.MetricsCache, publisher SaleEventPublisher, clock domain.Clock) *ProcessSaleHandler {
	return &ProcessSaleHandler{sales: sales, cache: cache, publisher: publisher, clock: clock}
}

// Handle validates the sale against the locked product and commits the stock
// decrement together with the sale record. Either both are stored or neither.
func (h *ProcessSaleHandler) Handle(ctx context.Context, cmd ProcessSaleCommand) (*ProcessSaleResult, error) {
	if cmd.OwnerID == uuid.Nil {
		return nil, domain.ErrUnauthorized
	}

	req := domain.SaleRequest{
		Variant:       cmd.Variant,
		Quantity:      cmd.Quantity,
		CustomerName:  cmd.CustomerName,
		OverridePrice: cmd.SalePrice,
	}
	now := h.clock()

	product, sale, err := h.sales.RecordSale(ctx, cmd.OwnerID, cmd.ProductID, func(locked domain.Product) (domain.Product, domain.Sale, error) {
		return domain.ApplySale(locked, req, now)
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx).
		Str("owner_id", cmd.OwnerID.String()).
		Str("product_id", product.ID.String()).
		Str("sale_id", sale.ID.String()).
		Str("variant", sale.Variant).
		Int("quantity", sale.Quantity).
		Str("sale_price", sale.SalePrice.String()).
		Int("remaining_stock", product.TotalStock).
		Msg("Sale recorded")

	invalidateMetrics(ctx, h.cache, cmd.OwnerID)
	h.publish(ctx, product, sale)

	return &ProcessSaleResult{Product: product, Sale: sale}, nil
}

// publish runs after commit; a lost event never undoes the sale
func (h *ProcessSaleHandler) publish(ctx context.Context, product *domain.Product, sale *domain.Sale) {
	if h.publisher == nil {
		return
	}

	event := kafka.SaleRecordedEvent{
		OwnerID:        sale.OwnerID,
		SaleID:         sale.ID,
		ProductID:      product.ID,
		ProductName:    sale.ProductName,
		ProductType:    string(sale.ProductType),
		Variant:        sale.Variant,
		Quantity:       sale.Quantity,
		SalePrice:      sale.SalePrice,
		Profit:         sale.Profit,
		RemainingStock: product.TotalStock,
		VariantStock:   product.Variants[sale.Variant],
		Timestamp:      sale.CreatedAt,
	}
	if err := h.publisher.PublishSaleRecorded(ctx, event); err != nil {
		logger.Error(ctx).
			Err(err).
			Str("sale_id", sale.ID.String()).
			Msg("Failed to publish sale recorded event")
	}
}
