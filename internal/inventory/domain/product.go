package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Variants maps a variant label (size or style) to the quantity on hand
type Variants map[string]int

// Total returns the sum of all variant quantities
func (v Variants) Total() int {
	total := 0
	for _, qty := range v {
		total += qty
	}
	return total
}

// Clone returns an independent copy
func (v Variants) Clone() Variants {
	out := make(Variants, len(v))
	for label, qty := range v {
		out[label] = qty
	}
	return out
}

// Labels returns the variant labels in a stable order
func (v Variants) Labels() []string {
	labels := make([]string, 0, len(v))
	for label := range v {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	return labels
}

// Validate rejects blank labels and negative quantities
func (v Variants) Validate() error {
	for label, qty := range v {
		if strings.TrimSpace(label) == "" {
			return invalid("variants", "variant label must not be empty")
		}
		if qty < 0 {
			return invalid("variants", fmt.Sprintf("quantity for %q cannot be negative", label))
		}
	}
	return nil
}

// Value stores the variants as jsonb
func (v Variants) Value() (driver.Value, error) {
	if v == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(v)
}

// Scan reads the jsonb column back into the map
func (v *Variants) Scan(value interface{}) error {
	var raw []byte
	switch data := value.(type) {
	case nil:
		*v = Variants{}
		return nil
	case []byte:
		raw = data
	case string:
		raw = []byte(data)
	default:
		return fmt.Errorf("cannot scan %T into Variants", value)
	}
	out := Variants{}
	if err := json.Unmarshal(raw, &out); err != nil {
		return fmt.Errorf("failed to decode variants: %w", err)
	}
	*v = out
	return nil
}

// Product is a catalog item owned by a single principal
type Product struct {
	ID               uuid.UUID       `json:"id" gorm:"type:uuid;primaryKey"`
	OwnerID          uuid.UUID       `json:"owner_id" gorm:"type:uuid;not null;index"`
	ProductType      ProductType     `json:"product_type" gorm:"type:varchar(16);not null;index"`
	Name             string          `json:"name" gorm:"not null"`
	ArticleNumber    string          `json:"article_number"`
	Category         string          `json:"category" gorm:"not null"`
	Color            string          `json:"color"`
	Brand            string          `json:"brand"`
	Variants         Variants        `json:"variants" gorm:"type:jsonb;not null"`
	TotalStock       int             `json:"total_stock" gorm:"not null;default:0"`
	BuyingPrice      decimal.Decimal `json:"buying_price" gorm:"type:numeric(12,2);not null"`
	SellingPrice     decimal.Decimal `json:"selling_price" gorm:"type:numeric(12,2);not null"`
	TimesSold        int             `json:"times_sold" gorm:"not null;default:0"`
	RevenueGenerated decimal.Decimal `json:"revenue_generated" gorm:"type:numeric(14,2);not null;default:0"`
	LastSale         *time.Time      `json:"last_sale"`
	CreatedAt        time.Time       `json:"created_at" gorm:"index"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// TableName specifies the table name
func (Product) TableName() string {
	return "products"
}

// BeforeCreate assigns the identity when the caller did not
func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// RecalculateStock keeps TotalStock equal to the sum of the variants
func (p *Product) RecalculateStock() {
	p.TotalStock = p.Variants.Total()
}

// IsLowStock reports whether the product is at or below the low stock threshold
func (p *Product) IsLowStock() bool {
	return p.TotalStock <= LowStockThreshold
}

// StockStatus returns the display label for the product stock level
func (p *Product) StockStatus() string {
	return StockStatus(p.TotalStock)
}

// InventoryValue is the stock valued at buying price
func (p *Product) InventoryValue() decimal.Decimal {
	return p.BuyingPrice.Mul(decimal.NewFromInt(int64(p.TotalStock)))
}

// Validate checks the attribute rules shared by create and update
func (p *Product) Validate() error {
	if !p.ProductType.Valid() {
		return invalid("product_type", fmt.Sprintf("unsupported product type %q", p.ProductType))
	}
	if !p.ProductType.HasCategory(p.Category) {
		return invalid("category", fmt.Sprintf("category %q is not valid for %s", p.Category, p.ProductType))
	}
	if strings.TrimSpace(p.Name) == "" {
		return invalid("name", "product name is required")
	}
	if strings.TrimSpace(p.Color) == "" {
		return invalid("color", "color is required")
	}
	if strings.TrimSpace(p.Brand) == "" {
		return invalid("brand", "brand is required")
	}
	if p.ProductType == ProductTypeShoes && strings.TrimSpace(p.ArticleNumber) == "" {
		return invalid("article_number", "article number is required for shoes")
	}
	if p.BuyingPrice.IsNegative() {
		return invalid("buying_price", "buying price cannot be negative")
	}
	if p.SellingPrice.IsNegative() {
		return invalid("selling_price", "selling price cannot be negative")
	}
	return p.Variants.Validate()
}
