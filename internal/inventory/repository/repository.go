package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tair/retail-pos/internal/inventory/domain"
)

// GormProductRepository implements domain.ProductRepository on postgres
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a new product repository
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// AutoMigrate creates or updates the products and sales tables
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&domain.Product{}, &domain.Sale{})
}

func (r *GormProductRepository) Create(ctx context.Context, product *domain.Product) error {
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return persistenceError("create product", err)
	}
	return nil
}

func (r *GormProductRepository) FindByID(ctx context.Context, ownerID, id uuid.UUID) (*domain.Product, error) {
	var product domain.Product
	err := r.db.WithContext(ctx).
		Where("id = ? AND owner_id = ?", id, ownerID).
		First(&product).Error
	if err != nil {
		return nil, lookupError("find product", err)
	}
	return &product, nil
}

func (r *GormProductRepository) FindAll(ctx context.Context, ownerID uuid.UUID) ([]domain.Product, error) {
	var products []domain.Product
	err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Find(&products).Error
	if err != nil {
		return nil, persistenceError("list products", err)
	}
	return products, nil
}

func (r *GormProductRepository) Update(ctx context.Context, product *domain.Product, columns ...string) error {
	if len(columns) == 0 {
		return nil
	}
	product.UpdatedAt = time.Now()
	columns = append(columns, "updated_at")

	res := r.db.WithContext(ctx).
		Model(product).
		Where("owner_id = ?", product.OwnerID).
		Select(columns).
		Updates(product)
	if res.Error != nil {
		return persistenceError("update product", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}

func (r *GormProductRepository) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND owner_id = ?", id, ownerID).
		Delete(&domain.Product{})
	if res.Error != nil {
		return persistenceError("delete product", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}

// GormSaleRepository implements domain.SaleRepository on postgres
type GormSaleRepository struct {
	db *gorm.DB
}

// NewGormSaleRepository creates a new sale repository
func NewGormSaleRepository(db *gorm.DB) *GormSaleRepository {
	return &GormSaleRepository{db: db}
}

func (r *GormSaleRepository) FindAll(ctx context.Context, ownerID uuid.UUID) ([]domain.Sale, error) {
	var sales []domain.Sale
	err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Find(&sales).Error
	if err != nil {
		return nil, persistenceError("list sales", err)
	}
	return sales, nil
}

// RecordSale runs the stock decrement and the sale insert in one transaction.
// The product row is locked so concurrent sales of the same product serialize.
func (r *GormSaleRepository) RecordSale(ctx context.Context, ownerID, productID uuid.UUID, apply domain.SaleApplier) (*domain.Product, *domain.Sale, error) {
	var (
		updated domain.Product
		sale    domain.Sale
	)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var locked domain.Product
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ? AND owner_id = ?", productID, ownerID).
			First(&locked).Error
		if err != nil {
			return lookupError("lock product", err)
		}

		var applyErr error
		updated, sale, applyErr = apply(locked)
		if applyErr != nil {
			return applyErr
		}

		updated.UpdatedAt = time.Now()
		err = tx.Model(&domain.Product{}).
			Where("id = ? AND owner_id = ?", productID, ownerID).
			Updates(map[string]interface{}{
				"variants":          updated.Variants,
				"total_stock":       updated.TotalStock,
				"times_sold":        updated.TimesSold,
				"revenue_generated": updated.RevenueGenerated,
				"last_sale":         updated.LastSale,
				"updated_at":        updated.UpdatedAt,
			}).Error
		if err != nil {
			return persistenceError("update product stock", err)
		}

		if err := tx.Create(&sale).Error; err != nil {
			return persistenceError("insert sale", err)
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	return &updated, &sale, nil
}

func persistenceError(op string, err error) error {
	return fmt.Errorf("%w: failed to %s: %w", domain.ErrPersistence, op, err)
}

func lookupError(op string, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.ErrProductNotFound
	}
	return persistenceError(op, err)
}
