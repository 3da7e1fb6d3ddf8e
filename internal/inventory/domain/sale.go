package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Sale is an immutable record of one sold line. Product fields are copied at sale
// time, so a sale stays readable after its product is deleted.
type Sale struct {
	ID            uuid.UUID       `json:"id" gorm:"type:uuid;primaryKey"`
	OwnerID       uuid.UUID       `json:"owner_id" gorm:"type:uuid;not null;index"`
	ProductID     uuid.UUID       `json:"product_id" gorm:"type:uuid;not null;index"`
	ProductName   string          `json:"product_name" gorm:"not null"`
	ProductType   ProductType     `json:"product_type" gorm:"type:varchar(16);not null"`
	ArticleNumber string          `json:"article_number"`
	Variant       string          `json:"variant" gorm:"not null"`
	Quantity      int             `json:"quantity" gorm:"not null"`
	UnitPrice     decimal.Decimal `json:"unit_price" gorm:"type:numeric(12,2);not null"`
	BuyingPrice   decimal.Decimal `json:"buying_price" gorm:"type:numeric(12,2);not null"`
	SalePrice     decimal.Decimal `json:"sale_price" gorm:"type:numeric(14,2);not null"`
	Profit        decimal.Decimal `json:"profit" gorm:"type:numeric(14,2);not null"`
	CustomerName  string          `json:"customer_name"`
	CreatedAt     time.Time       `json:"created_at" gorm:"index"`
}

// TableName specifies the table name
func (Sale) TableName() string {
	return "sales"
}

// BeforeCreate assigns the identity when the caller did not
func (s *Sale) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// SaleRequest describes a sale to apply against a product
type SaleRequest struct {
	Variant      string
	Quantity     int
	CustomerName string
	// OverridePrice replaces the listed selling price per unit when set and positive
	OverridePrice *decimal.Decimal
}

// UnitPrice resolves the per unit price charged for the request
func (r SaleRequest) UnitPrice(p Product) decimal.Decimal {
	if r.OverridePrice != nil && r.OverridePrice.IsPositive() && !r.OverridePrice.Equal(p.SellingPrice) {
		return *r.OverridePrice
	}
	return p.SellingPrice
}

// ApplySale validates req against the product and returns the updated product and
// the new sale. On error the input product is left untouched and nothing is returned.
func ApplySale(p Product, req SaleRequest, now time.Time) (Product, Sale, error) {
	if req.Quantity <= 0 {
		return Product{}, Sale{}, invalid("quantity", "quantity must be positive")
	}
	if req.OverridePrice != nil && req.OverridePrice.IsNegative() {
		return Product{}, Sale{}, invalid("sale_price", "sale price cannot be negative")
	}

	available, ok := p.Variants[req.Variant]
	if !ok {
		return Product{}, Sale{}, fmt.Errorf("%w: %q", ErrUnknownVariant, req.Variant)
	}
	if available < req.Quantity {
		return Product{}, Sale{}, fmt.Errorf("%w: %d available for %q, %d requested",
			ErrInsufficientStock, available, req.Variant, req.Quantity)
	}

	qty := decimal.NewFromInt(int64(req.Quantity))
	unit := req.UnitPrice(p)
	total := unit.Mul(qty)
	profit := unit.Sub(p.BuyingPrice).Mul(qty)

	updated := p
	updated.Variants = p.Variants.Clone()
	updated.Variants[req.Variant] = available - req.Quantity
	updated.RecalculateStock()
	updated.TimesSold += req.Quantity
	updated.RevenueGenerated = p.RevenueGenerated.Add(total)
	soldAt := now
	updated.LastSale = &soldAt

	sale := Sale{
		OwnerID:       p.OwnerID,
		ProductID:     p.ID,
		ProductName:   p.Name,
		ProductType:   p.ProductType,
		ArticleNumber: p.ArticleNumber,
		Variant:       req.Variant,
		Quantity:      req.Quantity,
		UnitPrice:     unit,
		BuyingPrice:   p.BuyingPrice,
		SalePrice:     total,
		Profit:        profit,
		CustomerName:  req.CustomerName,
		CreatedAt:     now,
	}

	return updated, sale, nil
}
