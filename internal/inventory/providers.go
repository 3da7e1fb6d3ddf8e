package inventory

import (
	"github.com/google/wire"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/tair/retail-pos/internal/inventory/cache"
	"github.com/tair/retail-pos/internal/inventory/delivery/http"
	"github.com/tair/retail-pos/internal/inventory/domain"
	"github.com/tair/retail-pos/internal/inventory/repository"
	"github.com/tair/retail-pos/internal/inventory/usecase/command"
	"github.com/tair/retail-pos/internal/inventory/usecase/query"
	"github.com/tair/retail-pos/kafka"
	"github.com/tair/retail-pos/pkg/config"
)

// ProvideProductRepository provides the traced product repository
func ProvideProductRepository(db *gorm.DB, tp trace.TracerProvider) domain.ProductRepository {
	return repository.NewProductRepositoryWithTracing(repository.NewGormProductRepository(db), tp)
}

// ProvideSaleRepository provides the traced sale repository
func ProvideSaleRepository(db *gorm.DB, tp trace.TracerProvider) domain.SaleRepository {
	return repository.NewSaleRepositoryWithTracing(repository.NewGormSaleRepository(db), tp)
}

// ProvideMetricsCache returns nil without a redis client so handlers skip caching
func ProvideMetricsCache(client *redis.Client, cfg *config.Config) domain.MetricsCache {
	if client == nil {
		return nil
	}
	return cache.NewRedisMetricsCache(client, cfg.Redis.CacheTTL)
}

// ProvideSaleEventPublisher returns nil without kafka so sales are not announced
func ProvideSaleEventPublisher(publisher *kafka.Publisher) command.SaleEventPublisher {
	if publisher == nil {
		return nil
	}
	return publisher
}

// ProvideClock reads "today" in the configured store time zone
func ProvideClock(cfg *config.Config) (domain.Clock, error) {
	loc, err := cfg.Store.Location()
	if err != nil {
		return nil, err
	}
	return domain.NewClock(loc), nil
}

// ProvideCommandHandlers provides all command handlers
func ProvideCommandHandlers(
	products domain.ProductRepository,
	sales domain.SaleRepository,
	metricsCache domain.MetricsCache,
	publisher command.SaleEventPublisher,
	clock domain.Clock,
) *http.CommandHandlers {
	return &http.CommandHandlers{
		Create:      command.NewCreateProductHandler(products, metricsCache),
		Update:      command.NewUpdateProductHandler(products, metricsCache),
		Delete:      command.NewDeleteProductHandler(products, metricsCache),
		ProcessSale: command.NewProcessSaleHandler(sales, metricsCache, publisher, clock),
	}
}

// ProvideQueryHandlers provides all query handlers
func ProvideQueryHandlers(
	products domain.ProductRepository,
	sales domain.SaleRepository,
	metricsCache domain.MetricsCache,
	clock domain.Clock,
) *http.QueryHandlers {
	return &http.QueryHandlers{
		GetProduct:   query.NewGetProductHandler(products),
		ListProducts: query.NewListProductsHandler(products),
		ListSales:    query.NewListSalesHandler(sales, clock),
		Dashboard:    query.NewGetDashboardHandler(products, sales, metricsCache, clock),
	}
}

// Wire sets
var RepositorySet = wire.NewSet(
	ProvideProductRepository,
	ProvideSaleRepository,
)

var AllHandlersSet = wire.NewSet(
	RepositorySet,
	ProvideMetricsCache,
	ProvideSaleEventPublisher,
	ProvideClock,
	ProvideCommandHandlers,
	ProvideQueryHandlers,
)
