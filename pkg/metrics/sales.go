package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
)

// SalesMetrics counts committed and rejected sales
type SalesMetrics struct {
	salesTotal      *prometheus.CounterVec
	unitsSold       *prometheus.CounterVec
	revenueTotal    *prometheus.CounterVec
	rejectionsTotal *prometheus.CounterVec
}

// NewSalesMetrics creates the sales metrics and registers them with reg
func NewSalesMetrics(reg prometheus.Registerer) *SalesMetrics {
	m := &SalesMetrics{
		salesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pos_sales_total",
				Help: "Committed sales",
			},
			[]string{"product_type"},
		),
		unitsSold: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pos_units_sold_total",
				Help: "Units sold across committed sales",
			},
			[]string{"product_type"},
		),
		revenueTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pos_sales_revenue_total",
				Help: "Revenue of committed sales",
			},
			[]string{"product_type"},
		),
		rejectionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pos_sale_rejections_total",
				Help: "Sales refused before commit",
			},
			[]string{"reason"},
		),
	}
	reg.MustRegister(m.salesTotal, m.unitsSold, m.revenueTotal, m.rejectionsTotal)
	return m
}

// ObserveSale records one committed sale
func (m *SalesMetrics) ObserveSale(productType string, quantity int, amount decimal.Decimal) {
	m.salesTotal.WithLabelValues(productType).Inc()
	m.unitsSold.WithLabelValues(productType).Add(float64(quantity))
	m.revenueTotal.WithLabelValues(productType).Add(amount.InexactFloat64())
}

// ObserveRejection records a sale refused for reason
func (m *SalesMetrics) ObserveRejection(reason string) {
	m.rejectionsTotal.WithLabelValues(reason).Inc()
}
