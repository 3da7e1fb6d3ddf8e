package domain

import (
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ProductFilter narrows a product listing. Zero values match everything.
type ProductFilter struct {
	ProductType ProductType
	Category    string
	Search      string
	LowStock    bool
}

// Match reports whether p passes the filter
func (f ProductFilter) Match(p *Product) bool {
	if f.ProductType != "" && p.ProductType != f.ProductType {
		return false
	}
	if f.Category != "" && p.Category != f.Category {
		return false
	}
	if f.LowStock && !p.IsLowStock() {
		return false
	}
	return containsFold(f.Search, p.Name, p.ArticleNumber, p.Brand, p.Color)
}

// FilterProducts returns the products matching f, preserving input order
func FilterProducts(products []Product, f ProductFilter) []Product {
	out := make([]Product, 0, len(products))
	for i := range products {
		if f.Match(&products[i]) {
			out = append(out, products[i])
		}
	}
	return out
}

// DateRange selects sales relative to the current time
type DateRange string

const (
	DateRangeAll       DateRange = "all"
	DateRangeToday     DateRange = "today"
	DateRangeYesterday DateRange = "yesterday"
	DateRangeWeek      DateRange = "week"
	DateRangeMonth     DateRange = "month"
)

// Valid reports whether r is a known range; empty means all
func (r DateRange) Valid() bool {
	switch r {
	case "", DateRangeAll, DateRangeToday, DateRangeYesterday, DateRangeWeek, DateRangeMonth:
		return true
	}
	return false
}

// Contains reports whether t falls in the range as seen at now
func (r DateRange) Contains(t, now time.Time) bool {
	switch r {
	case DateRangeToday:
		return SameDay(t, now)
	case DateRangeYesterday:
		return SameDay(t, now.AddDate(0, 0, -1))
	case DateRangeWeek:
		return !t.Before(now.AddDate(0, 0, -7))
	case DateRangeMonth:
		return !t.Before(now.AddDate(0, -1, 0))
	default:
		return true
	}
}

// SaleSort is the field sales are ordered by
type SaleSort string

const (
	SortByDate   SaleSort = "date"
	SortByAmount SaleSort = "amount"
	SortByProfit SaleSort = "profit"
)

// SalesFilter narrows and orders a sales listing
type SalesFilter struct {
	Search      string
	ProductType ProductType
	Range       DateRange
	SortBy      SaleSort
	Ascending   bool
}

// Match reports whether s passes the filter at now
func (f SalesFilter) Match(s *Sale, now time.Time) bool {
	if f.ProductType != "" && s.ProductType != f.ProductType {
		return false
	}
	if !f.Range.Contains(s.CreatedAt, now) {
		return false
	}
	return containsFold(f.Search, s.ProductName, s.ArticleNumber, s.CustomerName, s.Variant)
}

// FilterSales returns the matching sales ordered per the filter (newest first by default)
func FilterSales(sales []Sale, f SalesFilter, now time.Time) []Sale {
	out := make([]Sale, 0, len(sales))
	for i := range sales {
		if f.Match(&sales[i], now) {
			out = append(out, sales[i])
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		var cmp int
		switch f.SortBy {
		case SortByAmount:
			cmp = out[i].SalePrice.Cmp(out[j].SalePrice)
		case SortByProfit:
			cmp = out[i].Profit.Cmp(out[j].Profit)
		default:
			cmp = out[i].CreatedAt.Compare(out[j].CreatedAt)
		}
		if f.Ascending {
			return cmp < 0
		}
		return cmp > 0
	})
	return out
}

// TopSelling returns up to n products ordered by times sold, ties keep input order
func TopSelling(products []Product, n int) []Product {
	out := append([]Product(nil), products...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].TimesSold > out[j].TimesSold
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}

// SalesSummary aggregates a set of sales
type SalesSummary struct {
	Count            int             `json:"count"`
	TotalRevenue     decimal.Decimal `json:"total_revenue"`
	TotalProfit      decimal.Decimal `json:"total_profit"`
	TotalQuantity    int             `json:"total_quantity"`
	AverageSaleValue decimal.Decimal `json:"average_sale_value"`
	ProfitMargin     decimal.Decimal `json:"profit_margin"`
}

// DailySales is the per calendar day breakdown of a sales set
type DailySales struct {
	Date    string          `json:"date"`
	Count   int             `json:"count"`
	Revenue decimal.Decimal `json:"revenue"`
	Profit  decimal.Decimal `json:"profit"`
}

// MaxDailyEntries bounds the daily breakdown
const MaxDailyEntries = 7

// Summarize totals the sales. Averages are zero for an empty set.
func Summarize(sales []Sale) SalesSummary {
	sum := SalesSummary{
		Count:            len(sales),
		TotalRevenue:     decimal.Zero,
		TotalProfit:      decimal.Zero,
		AverageSaleValue: decimal.Zero,
	}
	for i := range sales {
		sum.TotalRevenue = sum.TotalRevenue.Add(sales[i].SalePrice)
		sum.TotalProfit = sum.TotalProfit.Add(sales[i].Profit)
		sum.TotalQuantity += sales[i].Quantity
	}
	if sum.Count > 0 {
		sum.AverageSaleValue = sum.TotalRevenue.Div(decimal.NewFromInt(int64(sum.Count))).Round(2)
	}
	sum.ProfitMargin = Margin(sum.TotalProfit, sum.TotalRevenue)
	return sum
}

// DailyBreakdown groups sales by calendar date in loc, newest first, at most MaxDailyEntries days.
// Count is the number of units sold that day.
func DailyBreakdown(sales []Sale, loc *time.Location) []DailySales {
	byDay := make(map[time.Time]*DailySales)
	for i := range sales {
		day := StartOfDay(sales[i].CreatedAt.In(loc))
		entry, ok := byDay[day]
		if !ok {
			entry = &DailySales{Date: day.Format("2006-01-02"), Revenue: decimal.Zero, Profit: decimal.Zero}
			byDay[day] = entry
		}
		entry.Count += sales[i].Quantity
		entry.Revenue = entry.Revenue.Add(sales[i].SalePrice)
		entry.Profit = entry.Profit.Add(sales[i].Profit)
	}

	days := make([]time.Time, 0, len(byDay))
	for day := range byDay {
		days = append(days, day)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].After(days[j]) })
	if len(days) > MaxDailyEntries {
		days = days[:MaxDailyEntries]
	}

	out := make([]DailySales, 0, len(days))
	for _, day := range days {
		out = append(out, *byDay[day])
	}
	return out
}

func containsFold(term string, fields ...string) bool {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return true
	}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), term) {
			return true
		}
	}
	return false
}
