package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// CategoryStat aggregates the products of one product type
type CategoryStat struct {
	Items int             `json:"items"`
	Value decimal.Decimal `json:"value"`
}

// DashboardMetrics is derived from the product and sale collections and never persisted
type DashboardMetrics struct {
	TotalInventoryValue decimal.Decimal              `json:"total_inventory_value"`
	TodaysSales         decimal.Decimal              `json:"todays_sales"`
	TodaysItemsSold     int                          `json:"todays_items_sold"`
	TodaysProfit        decimal.Decimal              `json:"todays_profit"`
	LowStockItems       int                          `json:"low_stock_items"`
	TotalProducts       int                          `json:"total_products"`
	CategoryBreakdown   map[ProductType]CategoryStat `json:"category_breakdown"`
	ProfitMargin        decimal.Decimal              `json:"profit_margin"`
}

var hundred = decimal.NewFromInt(100)

// ComputeMetrics aggregates dashboard figures. "Today" is the calendar date of now
// in now's location; the result is a snapshot as of now.
func ComputeMetrics(products []Product, sales []Sale, now time.Time) DashboardMetrics {
	m := DashboardMetrics{
		TotalInventoryValue: decimal.Zero,
		TodaysSales:         decimal.Zero,
		TodaysProfit:        decimal.Zero,
		CategoryBreakdown:   make(map[ProductType]CategoryStat),
		ProfitMargin:        decimal.Zero,
		TotalProducts:       len(products),
	}

	for i := range products {
		p := &products[i]
		value := p.InventoryValue()
		m.TotalInventoryValue = m.TotalInventoryValue.Add(value)
		if p.IsLowStock() {
			m.LowStockItems++
		}

		stat := m.CategoryBreakdown[p.ProductType]
		stat.Items++
		stat.Value = stat.Value.Add(value)
		m.CategoryBreakdown[p.ProductType] = stat
	}

	for i := range sales {
		s := &sales[i]
		if !SameDay(s.CreatedAt, now) {
			continue
		}
		m.TodaysSales = m.TodaysSales.Add(s.SalePrice)
		m.TodaysItemsSold += s.Quantity
		m.TodaysProfit = m.TodaysProfit.Add(s.Profit)
	}

	m.ProfitMargin = Margin(m.TodaysProfit, m.TodaysSales)
	return m
}

// Margin returns profit as a percentage of revenue, zero when revenue is zero.
// The value is not rounded; rounding for display is left to clients.
func Margin(profit, revenue decimal.Decimal) decimal.Decimal {
	if revenue.IsZero() {
		return decimal.Zero
	}
	return profit.Div(revenue).Mul(hundred)
}

// SameDay reports whether t falls on the calendar date of ref, in ref's location
func SameDay(t, ref time.Time) bool {
	y1, m1, d1 := t.In(ref.Location()).Date()
	y2, m2, d2 := ref.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// StartOfDay truncates t to local midnight in t's location
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
