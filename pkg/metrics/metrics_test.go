package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestHTTPMetrics_Wrap(t *testing.T) {
	m := NewHTTPMetrics(prometheus.NewRegistry())
	h := m.Wrap("/api/products/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	h(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/products/1", nil))
	h(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/products/2", nil))

	assert.Equal(t, 2.0, testutil.ToFloat64(m.requestCounter.WithLabelValues("GET", "/api/products/{id}", "404")))
}

func TestSalesMetrics(t *testing.T) {
	m := NewSalesMetrics(prometheus.NewRegistry())

	m.ObserveSale("shoes", 2, decimal.NewFromInt(2400))
	m.ObserveSale("shoes", 1, decimal.RequireFromString("999.50"))
	m.ObserveRejection("insufficient_stock")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.salesTotal.WithLabelValues("shoes")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.unitsSold.WithLabelValues("shoes")))
	assert.InDelta(t, 3399.5, testutil.ToFloat64(m.revenueTotal.WithLabelValues("shoes")), 0.001)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.rejectionsTotal.WithLabelValues("insufficient_stock")))
}
