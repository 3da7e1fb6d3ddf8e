//go:build wireinject
// +build wireinject

package inventory

import (
	"github.com/google/wire"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/tair/retail-pos/internal/inventory/delivery/http"
	"github.com/tair/retail-pos/kafka"
	"github.com/tair/retail-pos/pkg/auth"
	"github.com/tair/retail-pos/pkg/config"
	"github.com/tair/retail-pos/pkg/metrics"
)

// InitializeHTTPHandler initializes HTTP handler with all dependencies.
// client and publisher may be nil when redis or kafka are unavailable.
func InitializeHTTPHandler(
	db *gorm.DB,
	tp trace.TracerProvider,
	client *redis.Client,
	publisher *kafka.Publisher,
	cfg *config.Config,
	tokens *auth.TokenManager,
	httpMetrics *metrics.HTTPMetrics,
	salesMetrics *metrics.SalesMetrics,
) (*http.InventoryHandler, error) {
	wire.Build(
		AllHandlersSet,
		http.NewInventoryHandler,
	)
	return nil, nil
}
