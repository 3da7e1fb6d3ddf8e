// Package inventorytest provides an in-memory inventory store for tests.
package inventorytest

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/tair/retail-pos/internal/inventory/domain"
)

// Store keeps products and sales in memory and implements both repositories.
// Errors registered with FailOn are returned by the named operation.
type Store struct {
	mu       sync.Mutex
	products map[uuid.UUID]domain.Product
	sales    []domain.Sale
	failures map[string]error
	clock    time.Time
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{
		products: make(map[uuid.UUID]domain.Product),
		failures: make(map[string]error),
		clock:    time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC),
	}
}

// FailOn makes op ("Create", "FindByID", "FindAll", "Update", "Delete",
// "FindAllSales", "RecordSale") return err until cleared with a nil err
func (s *Store) FailOn(op string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err == nil {
		delete(s.failures, op)
		return
	}
	s.failures[op] = err
}

// Seed inserts products as they are, assigning ids and creation times when missing
func (s *Store) Seed(products ...domain.Product) []domain.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Product, 0, len(products))
	for _, p := range products {
		s.stamp(&p)
		p.Variants = p.Variants.Clone()
		s.products[p.ID] = p
		out = append(out, p)
	}
	return out
}

// SeedSales inserts sales as they are
func (s *Store) SeedSales(sales ...domain.Sale) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, sale := range sales {
		if sale.ID == uuid.Nil {
			sale.ID = uuid.New()
		}
		s.sales = append(s.sales, sale)
	}
}

// Product returns a stored product without owner scoping
func (s *Store) Product(id uuid.UUID) (domain.Product, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[id]
	if ok {
		p.Variants = p.Variants.Clone()
	}
	return p, ok
}

// Sales returns every stored sale in insertion order
func (s *Store) Sales() []domain.Sale {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.Sale(nil), s.sales...)
}

func (s *Store) stamp(p *domain.Product) {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.CreatedAt.IsZero() {
		// strictly increasing so newest-first ordering is deterministic
		s.clock = s.clock.Add(time.Minute)
		p.CreatedAt = s.clock
	}
	if p.UpdatedAt.IsZero() {
		p.UpdatedAt = p.CreatedAt
	}
}

func (s *Store) Create(ctx context.Context, product *domain.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failures["Create"]; err != nil {
		return err
	}
	s.stamp(product)
	stored := *product
	stored.Variants = product.Variants.Clone()
	s.products[product.ID] = stored
	return nil
}

func (s *Store) FindByID(ctx context.Context, ownerID, id uuid.UUID) (*domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failures["FindByID"]; err != nil {
		return nil, err
	}
	p, ok := s.products[id]
	if !ok || p.OwnerID != ownerID {
		return nil, domain.ErrProductNotFound
	}
	p.Variants = p.Variants.Clone()
	return &p, nil
}

func (s *Store) FindAll(ctx context.Context, ownerID uuid.UUID) ([]domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failures["FindAll"]; err != nil {
		return nil, err
	}
	var out []domain.Product
	for _, p := range s.products {
		if p.OwnerID == ownerID {
			p.Variants = p.Variants.Clone()
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *Store) Update(ctx context.Context, product *domain.Product, columns ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failures["Update"]; err != nil {
		return err
	}
	current, ok := s.products[product.ID]
	if !ok || current.OwnerID != product.OwnerID {
		return domain.ErrProductNotFound
	}
	for _, col := range columns {
		switch col {
		case "name":
			current.Name = product.Name
		case "article_number":
			current.ArticleNumber = product.ArticleNumber
		case "category":
			current.Category = product.Category
		case "color":
			current.Color = product.Color
		case "brand":
			current.Brand = product.Brand
		case "variants":
			current.Variants = product.Variants.Clone()
		case "total_stock":
			current.TotalStock = product.TotalStock
		case "buying_price":
			current.BuyingPrice = product.BuyingPrice
		case "selling_price":
			current.SellingPrice = product.SellingPrice
		}
	}
	current.UpdatedAt = current.UpdatedAt.Add(time.Second)
	s.products[product.ID] = current
	return nil
}

func (s *Store) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failures["Delete"]; err != nil {
		return err
	}
	p, ok := s.products[id]
	if !ok || p.OwnerID != ownerID {
		return domain.ErrProductNotFound
	}
	delete(s.products, id)
	return nil
}

// SaleRepository adapts the store's sale operations to domain.SaleRepository.
// Products and sales share one store so RecordSale can update both atomically.
func (s *Store) SaleRepository() domain.SaleRepository {
	return saleRepo{s}
}

type saleRepo struct{ s *Store }

func (r saleRepo) FindAll(ctx context.Context, ownerID uuid.UUID) ([]domain.Sale, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failures["FindAllSales"]; err != nil {
		return nil, err
	}
	var out []domain.Sale
	for _, sale := range s.sales {
		if sale.OwnerID == ownerID {
			out = append(out, sale)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r saleRepo) RecordSale(ctx context.Context, ownerID, productID uuid.UUID, apply domain.SaleApplier) (*domain.Product, *domain.Sale, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	locked, ok := s.products[productID]
	if !ok || locked.OwnerID != ownerID {
		return nil, nil, domain.ErrProductNotFound
	}
	locked.Variants = locked.Variants.Clone()

	updated, sale, err := apply(locked)
	if err != nil {
		return nil, nil, err
	}
	// a failing write aborts the whole unit, like a rolled back transaction
	if err := s.failures["RecordSale"]; err != nil {
		return nil, nil, err
	}

	if sale.ID == uuid.Nil {
		sale.ID = uuid.New()
	}
	s.products[productID] = updated
	s.sales = append(s.sales, sale)
	return &updated, &sale, nil
}
