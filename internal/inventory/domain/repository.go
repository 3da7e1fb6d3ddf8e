package domain

import (
	"context"

	"github.com/google/uuid"
)

// ProductRepository is the owner scoped persistence gateway for products.
// Every call takes the owning principal explicitly; rows of other owners are invisible.
type ProductRepository interface {
	Create(ctx context.Context, product *Product) error
	FindByID(ctx context.Context, ownerID, id uuid.UUID) (*Product, error)
	// FindAll returns the owner's products newest first
	FindAll(ctx context.Context, ownerID uuid.UUID) ([]Product, error)
	// Update writes only the named columns of product
	Update(ctx context.Context, product *Product, columns ...string) error
	Delete(ctx context.Context, ownerID, id uuid.UUID) error
}

// SaleApplier derives the updated product and the new sale from the locked product row
type SaleApplier func(locked Product) (Product, Sale, error)

// SaleRepository is the owner scoped persistence gateway for sales
type SaleRepository interface {
	// FindAll returns the owner's sales newest first
	FindAll(ctx context.Context, ownerID uuid.UUID) ([]Sale, error)
	// RecordSale locks the product, runs apply and stores the product update and the
	// sale insert as one atomic unit. Nothing is written when apply fails.
	RecordSale(ctx context.Context, ownerID, productID uuid.UUID, apply SaleApplier) (*Product, *Sale, error)
}

// MetricsCache stores one owner's dashboard metrics for a calendar day.
// Every mutation bumps the owner's generation; a snapshot computed under an older
// generation is never stored.
type MetricsCache interface {
	// Get returns the snapshot (nil on a miss) and the owner's current generation.
	// Read it before loading the data the metrics are computed from.
	Get(ctx context.Context, ownerID uuid.UUID, day string) (*DashboardMetrics, int64, error)
	// Set stores metrics only while the generation is still gen and reports whether it did
	Set(ctx context.Context, ownerID uuid.UUID, day string, gen int64, metrics DashboardMetrics) (bool, error)
	Invalidate(ctx context.Context, ownerID uuid.UUID) error
}
