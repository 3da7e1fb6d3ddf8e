package command

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tair/retail-pos/internal/inventory/domain"
	"github.com/tair/retail-pos/internal/inventory/inventorytest"
	"github.com/tair/retail-pos/kafka"
)

var saleTime = time.Date(2024, 1, 15, 14, 30, 0, 0, time.UTC)

type recordingPublisher struct {
	mu     sync.Mutex
	events []kafka.SaleRecordedEvent
	err    error
}

func (p *recordingPublisher) PublishSaleRecorded(ctx context.Context, event kafka.SaleRecordedEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return p.err
}

func price(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func ptr[T any](v T) *T { return &v }

func seedShoe(store *inventorytest.Store, owner uuid.UUID) domain.Product {
	return store.Seed(domain.Product{
		OwnerID:          owner,
		ProductType:      domain.ProductTypeShoes,
		Name:             "Paragon Sport Shoes",
		ArticleNumber:    "PGN-9230",
		Category:         "Gents Shoes",
		Color:            "Black",
		Brand:            "Paragon",
		Variants:         domain.Variants{"7": 1, "8": 1},
		TotalStock:       2,
		BuyingPrice:      price(800),
		SellingPrice:     price(1200),
		RevenueGenerated: decimal.Zero,
	})[0]
}

func TestCreateProduct(t *testing.T) {
	store := inventorytest.NewStore()
	cache := inventorytest.NewCache()
	h := NewCreateProductHandler(store, cache)
	owner := uuid.New()

	product, err := h.Handle(context.Background(), CreateProductCommand{
		OwnerID:       owner,
		ProductType:   domain.ProductTypeShoes,
		Name:          " Nike Ladies Sneakers ",
		ArticleNumber: "NK-270-WHT",
		Category:      "Ladies Shoes",
		Color:         "White",
		Brand:         "Nike",
		Variants:      domain.Variants{"6": 2, "7": 3, "8": 2, "9": 1},
		BuyingPrice:   price(4500),
		SellingPrice:  price(6999),
	})
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, product.ID)
	assert.Equal(t, "Nike Ladies Sneakers", product.Name)
	assert.Equal(t, 8, product.TotalStock)
	assert.Zero(t, product.TimesSold)
	assert.True(t, product.RevenueGenerated.IsZero())
	assert.Nil(t, product.LastSale)
	assert.Equal(t, 1, cache.Invalidations)

	stored, ok := store.Product(product.ID)
	require.True(t, ok)
	assert.Equal(t, owner, stored.OwnerID)
}

func TestCreateProduct_Validation(t *testing.T) {
	h := NewCreateProductHandler(inventorytest.NewStore(), nil)
	valid := CreateProductCommand{
		OwnerID:      uuid.New(),
		ProductType:  domain.ProductTypeSocks,
		Name:         "Cotton Gents Socks",
		Category:     "Gents Socks",
		Color:        "Black",
		Brand:        "Cotton Plus",
		Variants:     domain.Variants{"Large": 5},
		BuyingPrice:  price(50),
		SellingPrice: price(120),
	}

	tests := []struct {
		name   string
		mutate func(c *CreateProductCommand)
		want   error
	}{
		{"no owner", func(c *CreateProductCommand) { c.OwnerID = uuid.Nil }, domain.ErrUnauthorized},
		{"no stock", func(c *CreateProductCommand) { c.Variants = domain.Variants{"Large": 0} }, domain.ErrValidation},
		{"free product", func(c *CreateProductCommand) { c.BuyingPrice = decimal.Zero }, domain.ErrValidation},
		{"wrong category", func(c *CreateProductCommand) { c.Category = "Ladies Shoes" }, domain.ErrValidation},
		{"shoe without article", func(c *CreateProductCommand) {
			c.ProductType = domain.ProductTypeShoes
			c.Category = "Gents Shoes"
		}, domain.ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := valid
			tt.mutate(&cmd)
			_, err := h.Handle(context.Background(), cmd)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestUpdateProduct_PartialAndVariantsReplaced(t *testing.T) {
	store := inventorytest.NewStore()
	cache := inventorytest.NewCache()
	owner := uuid.New()
	shoe := seedShoe(store, owner)
	h := NewUpdateProductHandler(store, cache)

	updated, err := h.Handle(context.Background(), UpdateProductCommand{
		OwnerID:      owner,
		ID:           shoe.ID,
		Color:        ptr("Navy"),
		Variants:     domain.Variants{"9": 4, "10": 2},
		SellingPrice: ptr(price(1300)),
	})
	require.NoError(t, err)

	assert.Equal(t, "Navy", updated.Color)
	assert.Equal(t, "Paragon", updated.Brand)
	assert.Equal(t, domain.Variants{"9": 4, "10": 2}, updated.Variants)
	assert.Equal(t, 6, updated.TotalStock)

	stored, _ := store.Product(shoe.ID)
	assert.Equal(t, domain.Variants{"9": 4, "10": 2}, stored.Variants)
	assert.Equal(t, 6, stored.TotalStock)
	assert.True(t, stored.SellingPrice.Equal(price(1300)))
	assert.True(t, stored.BuyingPrice.Equal(price(800)))
	assert.Equal(t, "Paragon Sport Shoes", stored.Name)
	assert.Equal(t, 1, cache.Invalidations)
}

func TestUpdateProduct_Rejections(t *testing.T) {
	store := inventorytest.NewStore()
	owner := uuid.New()
	shoe := seedShoe(store, owner)
	h := NewUpdateProductHandler(store, nil)

	_, err := h.Handle(context.Background(), UpdateProductCommand{OwnerID: owner, ID: shoe.ID, ArticleNumber: ptr("")})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = h.Handle(context.Background(), UpdateProductCommand{OwnerID: owner, ID: shoe.ID, Variants: domain.Variants{"7": -2}})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = h.Handle(context.Background(), UpdateProductCommand{OwnerID: uuid.New(), ID: shoe.ID, Name: ptr("Stolen")})
	assert.ErrorIs(t, err, domain.ErrProductNotFound)

	stored, _ := store.Product(shoe.ID)
	assert.Equal(t, "PGN-9230", stored.ArticleNumber)
	assert.Equal(t, "Paragon Sport Shoes", stored.Name)
}

func TestDeleteProduct_KeepsSales(t *testing.T) {
	store := inventorytest.NewStore()
	owner := uuid.New()
	shoe := seedShoe(store, owner)
	sell := NewProcessSaleHandler(store.SaleRepository(), nil, nil, domain.FixedClock(saleTime))
	_, err := sell.Handle(context.Background(), ProcessSaleCommand{OwnerID: owner, ProductID: shoe.ID, Variant: "7", Quantity: 1})
	require.NoError(t, err)

	h := NewDeleteProductHandler(store, nil)
	require.NoError(t, h.Handle(context.Background(), DeleteProductCommand{OwnerID: owner, ID: shoe.ID}))

	_, ok := store.Product(shoe.ID)
	assert.False(t, ok)
	sales := store.Sales()
	require.Len(t, sales, 1)
	assert.Equal(t, "Paragon Sport Shoes", sales[0].ProductName)

	err = h.Handle(context.Background(), DeleteProductCommand{OwnerID: owner, ID: shoe.ID})
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}

func TestProcessSale_Success(t *testing.T) {
	store := inventorytest.NewStore()
	cache := inventorytest.NewCache()
	pub := &recordingPublisher{}
	owner := uuid.New()
	shoe := seedShoe(store, owner)
	h := NewProcessSaleHandler(store.SaleRepository(), cache, pub, domain.FixedClock(saleTime))

	res, err := h.Handle(context.Background(), ProcessSaleCommand{
		OwnerID:      owner,
		ProductID:    shoe.ID,
		Variant:      "7",
		Quantity:     1,
		CustomerName: "Ravi",
	})
	require.NoError(t, err)

	assert.Equal(t, domain.Variants{"7": 0, "8": 1}, res.Product.Variants)
	assert.Equal(t, 1, res.Product.TotalStock)
	assert.Equal(t, 1, res.Product.TimesSold)
	assert.True(t, res.Product.RevenueGenerated.Equal(price(1200)))
	assert.True(t, res.Sale.Profit.Equal(price(400)))

	stored, _ := store.Product(shoe.ID)
	assert.Equal(t, 1, stored.TotalStock)
	assert.Equal(t, stored.Variants.Total(), stored.TotalStock)
	require.NotNil(t, stored.LastSale)
	assert.Equal(t, saleTime, *stored.LastSale)
	assert.Len(t, store.Sales(), 1)

	assert.Equal(t, 1, cache.Invalidations)
	require.Len(t, pub.events, 1)
	assert.Equal(t, res.Sale.ID, pub.events[0].SaleID)
	assert.Equal(t, 1, pub.events[0].RemainingStock)
	assert.Equal(t, 0, pub.events[0].VariantStock)
}

func TestProcessSale_OverridePrice(t *testing.T) {
	store := inventorytest.NewStore()
	owner := uuid.New()
	shoe := seedShoe(store, owner)
	h := NewProcessSaleHandler(store.SaleRepository(), nil, nil, domain.FixedClock(saleTime))

	res, err := h.Handle(context.Background(), ProcessSaleCommand{
		OwnerID: owner, ProductID: shoe.ID, Variant: "8", Quantity: 1, SalePrice: ptr(price(1000)),
	})
	require.NoError(t, err)
	assert.True(t, res.Sale.Profit.Equal(price(200)))
	assert.True(t, res.Product.RevenueGenerated.Equal(price(1000)))
}

func TestProcessSale_FailuresLeaveStateUnchanged(t *testing.T) {
	store := inventorytest.NewStore()
	pub := &recordingPublisher{}
	owner := uuid.New()
	shoe := seedShoe(store, owner)
	h := NewProcessSaleHandler(store.SaleRepository(), nil, pub, domain.FixedClock(saleTime))
	writeErr := errors.New("connection reset")

	tests := []struct {
		name  string
		cmd   ProcessSaleCommand
		setup func()
		want  error
	}{
		{"insufficient stock", ProcessSaleCommand{OwnerID: owner, ProductID: shoe.ID, Variant: "7", Quantity: 5}, nil, domain.ErrInsufficientStock},
		{"unknown variant", ProcessSaleCommand{OwnerID: owner, ProductID: shoe.ID, Variant: "12", Quantity: 1}, nil, domain.ErrUnknownVariant},
		{"unknown product", ProcessSaleCommand{OwnerID: owner, ProductID: uuid.New(), Variant: "7", Quantity: 1}, nil, domain.ErrProductNotFound},
		{"other owner", ProcessSaleCommand{OwnerID: uuid.New(), ProductID: shoe.ID, Variant: "7", Quantity: 1}, nil, domain.ErrProductNotFound},
		{"no owner", ProcessSaleCommand{ProductID: shoe.ID, Variant: "7", Quantity: 1}, nil, domain.ErrUnauthorized},
		{"write failure", ProcessSaleCommand{OwnerID: owner, ProductID: shoe.ID, Variant: "7", Quantity: 1},
			func() { store.FailOn("RecordSale", writeErr) }, writeErr},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.setup != nil {
				tt.setup()
			}
			_, err := h.Handle(context.Background(), tt.cmd)
			assert.ErrorIs(t, err, tt.want)

			stored, _ := store.Product(shoe.ID)
			assert.Equal(t, domain.Variants{"7": 1, "8": 1}, stored.Variants)
			assert.Equal(t, 2, stored.TotalStock)
			assert.Zero(t, stored.TimesSold)
			assert.Empty(t, store.Sales())
		})
	}
	assert.Empty(t, pub.events)
}

func TestProcessSale_PublishFailureDoesNotFailSale(t *testing.T) {
	store := inventorytest.NewStore()
	owner := uuid.New()
	shoe := seedShoe(store, owner)
	pub := &recordingPublisher{err: errors.New("broker down")}
	h := NewProcessSaleHandler(store.SaleRepository(), nil, pub, domain.FixedClock(saleTime))

	_, err := h.Handle(context.Background(), ProcessSaleCommand{OwnerID: owner, ProductID: shoe.ID, Variant: "8", Quantity: 1})
	require.NoError(t, err)
	assert.Len(t, store.Sales(), 1)
}

func TestProcessSale_ConcurrentSalesNeverOversell(t *testing.T) {
	store := inventorytest.NewStore()
	owner := uuid.New()
	product := store.Seed(domain.Product{
		OwnerID: owner, ProductType: domain.ProductTypeSocks, Name: "Cotton Gents Socks",
		Category: "Gents Socks", Color: "Black", Brand: "Cotton Plus",
		Variants: domain.Variants{"Large": 5}, TotalStock: 5,
		BuyingPrice: price(50), SellingPrice: price(120),
	})[0]
	h := NewProcessSaleHandler(store.SaleRepository(), nil, nil, domain.FixedClock(saleTime))

	var wg sync.WaitGroup
	var mu sync.Mutex
	succeeded := 0
	for i := 0; i < 12; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := h.Handle(context.Background(), ProcessSaleCommand{OwnerID: owner, ProductID: product.ID, Variant: "Large", Quantity: 1})
			if err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	stored, _ := store.Product(product.ID)
	assert.Equal(t, 5, succeeded)
	assert.Equal(t, 0, stored.TotalStock)
	assert.Equal(t, 5, stored.TimesSold)
	assert.Len(t, store.Sales(), 5)
}
