// Package alerts reacts to committed sales published on the event bus.
package alerts

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/tair/retail-pos/internal/inventory/domain"
	"github.com/tair/retail-pos/kafka"
	"github.com/tair/retail-pos/pkg/logger"
)

// LowStockAlerter raises an alert whenever a sale leaves a product at or below the low stock threshold
type LowStockAlerter struct {
	lowStock   *prometheus.CounterVec
	outOfStock *prometheus.CounterVec
}

// NewLowStockAlerter creates the alerter and registers its counters with reg
func NewLowStockAlerter(reg prometheus.Registerer) *LowStockAlerter {
	a := &LowStockAlerter{
		lowStock: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pos_low_stock_alerts_total",
				Help: "Sales that left a product at or below the low stock threshold",
			},
			[]string{"product_type"},
		),
		outOfStock: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pos_variant_sold_out_total",
				Help: "Sales that sold the last unit of a variant",
			},
			[]string{"product_type"},
		),
	}
	reg.MustRegister(a.lowStock, a.outOfStock)
	return a
}

// Register subscribes the alerter to sale recorded events
func (a *LowStockAlerter) Register(consumer *kafka.Consumer) {
	consumer.RegisterHandler(kafka.EventTypeSaleRecorded, a.HandleSaleRecorded)
}

// HandleSaleRecorded is a kafka.EventHandler
func (a *LowStockAlerter) HandleSaleRecorded(ctx context.Context, event kafka.SaleRecordedEvent) error {
	if event.VariantStock == 0 {
		a.outOfStock.WithLabelValues(event.ProductType).Inc()
		logger.Info(ctx).
			Str("owner_id", event.OwnerID.String()).
			Str("product_id", event.ProductID.String()).
			Str("variant", event.Variant).
			Msg("Variant sold out")
	}

	if event.RemainingStock > domain.LowStockThreshold {
		return nil
	}

	a.lowStock.WithLabelValues(event.ProductType).Inc()
	logger.Warn(ctx).
		Str("owner_id", event.OwnerID.String()).
		Str("product_id", event.ProductID.String()).
		Str("product_name", event.ProductName).
		Int("remaining_stock", event.RemainingStock).
		Str("stock_status", domain.StockStatus(event.RemainingStock)).
		Msg("Low stock after sale")
	return nil
}
