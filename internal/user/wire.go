//go:build wireinject
// +build wireinject

package user

import (
	"github.com/google/wire"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/tair/retail-pos/internal/user/delivery/http"
	"github.com/tair/retail-pos/pkg/auth"
	"github.com/tair/retail-pos/pkg/metrics"
	"github.com/tair/retail-pos/pkg/ratelimit"
)

// InitializeHTTPHandler initializes HTTP handler with all dependencies. limiter may be nil.
func InitializeHTTPHandler(
	db *gorm.DB,
	tp trace.TracerProvider,
	tokens *auth.TokenManager,
	limiter *ratelimit.Limiter,
	httpMetrics *metrics.HTTPMetrics,
) (*http.UserHandler, error) {
	wire.Build(
		AllHandlersSet,
		http.NewUserHandler,
	)
	return nil, nil
}
