package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func stocked(t ProductType, stock int, buying int64) Product {
	return Product{ProductType: t, TotalStock: stock, BuyingPrice: dec(buying)}
}

func TestComputeMetrics_Empty(t *testing.T) {
	m := ComputeMetrics(nil, nil, time.Now())

	assert.True(t, m.TotalInventoryValue.IsZero())
	assert.True(t, m.TodaysSales.IsZero())
	assert.True(t, m.TodaysProfit.IsZero())
	assert.True(t, m.ProfitMargin.IsZero())
	assert.Zero(t, m.TodaysItemsSold)
	assert.Zero(t, m.LowStockItems)
	assert.Zero(t, m.TotalProducts)
	assert.NotNil(t, m.CategoryBreakdown)
	assert.Empty(t, m.CategoryBreakdown)
}

func TestComputeMetrics_CategoryBreakdown(t *testing.T) {
	products := []Product{
		stocked(ProductTypeShoes, 3, 800),
		stocked(ProductTypeShoes, 8, 4500),
		stocked(ProductTypeSocks, 20, 50),
	}

	m := ComputeMetrics(products, nil, time.Now())

	assert.Equal(t, 2, m.CategoryBreakdown[ProductTypeShoes].Items)
	assert.True(t, m.CategoryBreakdown[ProductTypeShoes].Value.Equal(dec(38400)))
	assert.Equal(t, 1, m.CategoryBreakdown[ProductTypeSocks].Items)
	assert.True(t, m.CategoryBreakdown[ProductTypeSocks].Value.Equal(dec(1000)))
	assert.True(t, m.TotalInventoryValue.Equal(dec(39400)))
	assert.Equal(t, 3, m.TotalProducts)
	assert.Equal(t, 1, m.LowStockItems)
}

func TestComputeMetrics_TodayOnly(t *testing.T) {
	loc := time.FixedZone("IST", 5*3600+1800)
	now := time.Date(2024, 1, 15, 10, 0, 0, 0, loc)
	sales := []Sale{
		{Quantity: 1, SalePrice: dec(1200), Profit: dec(400), CreatedAt: now.Add(-time.Hour)},
		{Quantity: 2, SalePrice: dec(240), Profit: dec(140), CreatedAt: now.Add(-2 * time.Hour)},
		// 23:30 the previous day in IST, although it is the same UTC date
		{Quantity: 5, SalePrice: dec(5000), Profit: dec(1000), CreatedAt: time.Date(2024, 1, 14, 18, 0, 0, 0, time.UTC)},
	}

	m := ComputeMetrics(nil, sales, now)

	assert.True(t, m.TodaysSales.Equal(dec(1440)))
	assert.Equal(t, 3, m.TodaysItemsSold)
	assert.True(t, m.TodaysProfit.Equal(dec(540)))
	assert.True(t, m.ProfitMargin.Equal(decimal.RequireFromString("37.5")), "margin %s", m.ProfitMargin)
}

func TestComputeMetrics_Idempotent(t *testing.T) {
	now := time.Now()
	products := []Product{stocked(ProductTypeBags, 2, 1500), stocked(ProductTypeBelts, 10, 300)}
	sales := []Sale{{Quantity: 1, SalePrice: dec(2800), Profit: dec(1300), CreatedAt: now}}

	first := ComputeMetrics(products, sales, now)
	second := ComputeMetrics(products, sales, now)
	assert.Equal(t, first, second)
}

func TestComputeMetrics_OrderIndependent(t *testing.T) {
	now := time.Now()
	a := stocked(ProductTypeShoes, 1, 100)
	b := stocked(ProductTypeSocks, 7, 10)

	forward := ComputeMetrics([]Product{a, b}, nil, now)
	backward := ComputeMetrics([]Product{b, a}, nil, now)
	assert.True(t, forward.TotalInventoryValue.Equal(backward.TotalInventoryValue))
	assert.Equal(t, forward.CategoryBreakdown, backward.CategoryBreakdown)
}

func TestMargin_NotRounded(t *testing.T) {
	margin := Margin(dec(100), dec(300))

	assert.True(t, margin.GreaterThan(decimal.RequireFromString("33.33")), "margin %s", margin)
	assert.True(t, margin.LessThan(decimal.RequireFromString("33.34")), "margin %s", margin)
	assert.True(t, margin.Round(2).Equal(decimal.RequireFromString("33.33")))
	assert.True(t, Margin(dec(1), dec(8)).Equal(decimal.RequireFromString("12.5")))
	assert.True(t, Margin(dec(50), decimal.Zero).IsZero())
}
