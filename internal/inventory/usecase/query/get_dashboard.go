package query

import (
	"context"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/tair/retail-pos/internal/inventory/domain"
	"github.com/tair/retail-pos/pkg/logger"
)

// Dashboard list sizes
const (
	RecentSalesLimit = 10
	LowStockLimit    = 5
	TopSellingLimit  = 5
)

// GetDashboardQuery represents the query to build an owner's dashboard
type GetDashboardQuery struct {
	OwnerID uuid.UUID
}

// Dashboard is the landing view of the shop
type Dashboard struct {
	Metrics     domain.DashboardMetrics `json:"metrics"`
	RecentSales []domain.Sale           `json:"recent_sales"`
	LowStock    []domain.Product        `json:"low_stock"`
	TopSelling  []domain.Product        `json:"top_selling"`
}

// GetDashboardHandler handles get dashboard query
type GetDashboardHandler struct {
	products domain.ProductRepository
	sales    domain.SaleRepository
	cache    domain.MetricsCache
	clock    domain.Clock
}

// NewGetDashboardHandler creates a new get dashboard handler. cache may be nil.
func NewGetDashboardHandler(products domain.ProductRepository, sales domain.SaleRepository, cache domain.MetricsCache, clock domain.Clock) *GetDashboardHandler {
	return &GetDashboardHandler{products: products, sales: sales, cache: cache, clock: clock}
}

// Handle executes the get dashboard query
func (h *GetDashboardHandler) Handle(ctx context.Context, query GetDashboardQuery) (*Dashboard, error) {
	if query.OwnerID == uuid.Nil {
		return nil, domain.ErrUnauthorized
	}

	now := h.clock()
	day := domain.DayKey(now)
	// the generation is read before loading so a sale committed during the load
	// keeps this computation out of the cache
	cached, gen, cacheOK := h.cachedMetrics(ctx, query.OwnerID, day)

	var (
		products []domain.Product
		sales    []domain.Sale
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		products, err = h.products.FindAll(gctx, query.OwnerID)
		return err
	})
	g.Go(func() error {
		var err error
		sales, err = h.sales.FindAll(gctx, query.OwnerID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var metrics domain.DashboardMetrics
	if cached != nil {
		metrics = *cached
	} else {
		metrics = domain.ComputeMetrics(products, sales, now)
		if cacheOK {
			h.storeMetrics(ctx, query.OwnerID, day, gen, metrics)
		}
	}

	dashboard := &Dashboard{
		Metrics:     metrics,
		RecentSales: firstSales(sales, RecentSalesLimit),
		LowStock:    lowStock(products, LowStockLimit),
		TopSelling:  domain.TopSelling(products, TopSellingLimit),
	}
	return dashboard, nil
}

// cachedMetrics returns today's snapshot if any and the generation to store under.
// ok is false when there is no cache or it could not be read.
func (h *GetDashboardHandler) cachedMetrics(ctx context.Context, ownerID uuid.UUID, day string) (*domain.DashboardMetrics, int64, bool) {
	if h.cache == nil {
		return nil, 0, false
	}
	cached, gen, err := h.cache.Get(ctx, ownerID, day)
	if err != nil {
		logger.Warn(ctx).Err(err).Str("owner_id", ownerID.String()).Msg("Failed to read metrics cache")
		return nil, 0, false
	}
	return cached, gen, true
}

func (h *GetDashboardHandler) storeMetrics(ctx context.Context, ownerID uuid.UUID, day string, gen int64, metrics domain.DashboardMetrics) {
	if _, err := h.cache.Set(ctx, ownerID, day, gen, metrics); err != nil {
		logger.Warn(ctx).Err(err).Str("owner_id", ownerID.String()).Msg("Failed to store metrics cache")
	}
}

func firstSales(sales []domain.Sale, n int) []domain.Sale {
	if len(sales) > n {
		sales = sales[:n]
	}
	return append([]domain.Sale{}, sales...)
}

func lowStock(products []domain.Product, n int) []domain.Product {
	out := make([]domain.Product, 0, n)
	for i := range products {
		if len(out) == n {
			break
		}
		if products[i].IsLowStock() {
			out = append(out, products[i])
		}
	}
	return out
}
