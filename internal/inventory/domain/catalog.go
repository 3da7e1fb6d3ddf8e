package domain

// ProductType is the top level classification of a product
type ProductType string

const (
	ProductTypeShoes ProductType = "shoes"
	ProductTypeSocks ProductType = "socks"
	ProductTypeBags  ProductType = "bags"
	ProductTypeBelts ProductType = "belts"
)

// ProductTypes lists the supported product types in display order
var ProductTypes = []ProductType{ProductTypeShoes, ProductTypeSocks, ProductTypeBags, ProductTypeBelts}

// Categories maps every product type to the categories allowed for it
var Categories = map[ProductType][]string{
	ProductTypeShoes: {"Gents Shoes", "Ladies Shoes", "Kids Shoes"},
	ProductTypeSocks: {"Gents Socks", "Ladies Socks", "Kids Socks"},
	ProductTypeBags:  {"Handbags", "Backpacks", "Travel Bags", "School Bags"},
	ProductTypeBelts: {"Gents Belts", "Ladies Belts", "Kids Belts"},
}

// shoeSizes holds the suggested sizes per shoe category
var shoeSizes = map[string][]string{
	"Ladies Shoes": {"4", "5", "6", "7", "8", "9"},
	"Gents Shoes":  {"5", "6", "7", "8", "9", "10", "11"},
	"Kids Shoes":   {"06", "07", "08", "09", "10", "11", "12", "13", "01", "02", "03", "04", "05"},
}

// Stock status labels
const (
	StockStatusOut = "Out of Stock"
	StockStatusLow = "Low Stock"
	StockStatusIn  = "In Stock"
)

// LowStockThreshold is the inclusive total stock at or below which a product counts as low stock
const LowStockThreshold = 3

// Valid reports whether t is one of the supported product types
func (t ProductType) Valid() bool {
	_, ok := Categories[t]
	return ok
}

// HasCategory reports whether category belongs to product type t
func (t ProductType) HasCategory(category string) bool {
	for _, c := range Categories[t] {
		if c == category {
			return true
		}
	}
	return false
}

// SuggestedVariants returns the variant labels offered for a type and category.
// Labels outside this list are still accepted.
func SuggestedVariants(t ProductType, category string) []string {
	switch t {
	case ProductTypeShoes:
		return shoeSizes[category]
	case ProductTypeSocks:
		return []string{"Small", "Medium", "Large"}
	case ProductTypeBags:
		return []string{"Single Item"}
	case ProductTypeBelts:
		return []string{"28", "30", "32", "34", "36", "38"}
	}
	return nil
}

// StockStatus classifies a total stock figure
func StockStatus(totalStock int) string {
	switch {
	case totalStock <= 0:
		return StockStatusOut
	case totalStock <= LowStockThreshold:
		return StockStatusLow
	default:
		return StockStatusIn
	}
}

// CatalogEntry describes one product type for catalog consumers
type CatalogEntry struct {
	ProductType ProductType         `json:"product_type"`
	Categories  []string            `json:"categories"`
	Variants    map[string][]string `json:"variants"`
}

// Catalog returns the static catalog: categories and suggested variants per type
func Catalog() []CatalogEntry {
	entries := make([]CatalogEntry, 0, len(ProductTypes))
	for _, t := range ProductTypes {
		variants := make(map[string][]string, len(Categories[t]))
		for _, c := range Categories[t] {
			variants[c] = SuggestedVariants(t, c)
		}
		entries = append(entries, CatalogEntry{
			ProductType: t,
			Categories:  Categories[t],
			Variants:    variants,
		})
	}
	return entries
}
