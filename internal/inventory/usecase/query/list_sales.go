package query

import (
	"context"

	"github.com/google/uuid"

	"github.com/tair/retail-pos/internal/inventory/domain"
)

// ListSalesQuery represents the query to list an owner's sales
type ListSalesQuery struct {
	OwnerID uuid.UUID
	Filter  domain.SalesFilter
}

// SalesReport is the filtered sales history with its aggregates
type SalesReport struct {
	Sales   []domain.Sale       `json:"sales"`
	Total   int                 `json:"total"`
	Summary domain.SalesSummary `json:"summary"`
	Daily   []domain.DailySales `json:"daily"`
}

// ListSalesHandler handles list sales query
type ListSalesHandler struct {
	repo  domain.SaleRepository
	clock domain.Clock
}

// NewListSalesHandler creates a new list sales handler
func NewListSalesHandler(repo domain.SaleRepository, clock domain.Clock) *ListSalesHandler {
	return &ListSalesHandler{repo: repo, clock: clock}
}

// Handle executes the list sales query. Date ranges and the daily breakdown
// use the calendar of the clock's location.
func (h *ListSalesHandler) Handle(ctx context.Context, query ListSalesQuery) (*SalesReport, error) {
	if query.OwnerID == uuid.Nil {
		return nil, domain.ErrUnauthorized
	}
	if query.Filter.Range != "" && !query.Filter.Range.Valid() {
		return nil, &domain.ValidationError{Field: "range", Message: "unsupported date range " + string(query.Filter.Range)}
	}
	switch query.Filter.SortBy {
	case "", domain.SortByDate, domain.SortByAmount, domain.SortByProfit:
	default:
		return nil, &domain.ValidationError{Field: "sort", Message: "unsupported sort field " + string(query.Filter.SortBy)}
	}

	sales, err := h.repo.FindAll(ctx, query.OwnerID)
	if err != nil {
		return nil, err
	}

	now := h.clock()
	filtered := domain.FilterSales(sales, query.Filter, now)

	return &SalesReport{
		Sales:   filtered,
		Total:   len(sales),
		Summary: domain.Summarize(filtered),
		Daily:   domain.DailyBreakdown(filtered, now.Location()),
	}, nil
}
