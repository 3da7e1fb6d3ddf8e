package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tair/retail-pos/internal/inventory/domain"
	"github.com/tair/retail-pos/internal/inventory/usecase/command"
	"github.com/tair/retail-pos/internal/inventory/usecase/query"
	"github.com/tair/retail-pos/pkg/auth"
)

type saleRequest struct {
	ProductID    uuid.UUID        `json:"product_id"`
	Variant      string           `json:"variant"`
	Quantity     int              `json:"quantity"`
	CustomerName string           `json:"customer_name"`
	SalePrice    *decimal.Decimal `json:"sale_price"`
}

// ProcessSale godoc
// @Summary Record a sale
// @Description Decrements the variant stock and records the sale atomically. sale_price overrides the unit price.
// @Tags Sales
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body saleRequest true "Sale"
// @Success 201 {object} Response{data=command.ProcessSaleResult}
// @Failure 400 {object} Response
// @Failure 404 {object} Response
// @Failure 409 {object} Response "reason is unknown_variant or insufficient_stock"
// @Router /api/sales [post]
func (h *InventoryHandler) ProcessSale(w http.ResponseWriter, r *http.Request) {
	var req saleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "Invalid request body")
		return
	}

	result, err := h.commands.ProcessSale.Handle(r.Context(), command.ProcessSaleCommand{
		OwnerID:      auth.OwnerIDFromContext(r.Context()),
		ProductID:    req.ProductID,
		Variant:      req.Variant,
		Quantity:     req.Quantity,
		CustomerName: req.CustomerName,
		SalePrice:    req.SalePrice,
	})
	if err != nil {
		h.observeRejection(err)
		h.respondError(w, r, err)
		return
	}

	h.salesMetrics.ObserveSale(string(result.Sale.ProductType), result.Sale.Quantity, result.Sale.SalePrice)

	respondJSON(w, http.StatusCreated, Response{
		Success: true,
		Message: "Sale recorded successfully",
		Data:    result,
	})
}

func (h *InventoryHandler) observeRejection(err error) {
	switch {
	case errors.Is(err, domain.ErrInsufficientStock):
		h.salesMetrics.ObserveRejection(ReasonInsufficientStock)
	case errors.Is(err, domain.ErrUnknownVariant):
		h.salesMetrics.ObserveRejection(ReasonUnknownVariant)
	case errors.Is(err, domain.ErrValidation):
		h.salesMetrics.ObserveRejection("validation")
	case errors.Is(err, domain.ErrProductNotFound):
		h.salesMetrics.ObserveRejection("product_not_found")
	}
}

// ListSales godoc
// @Summary Sales history
// @Description Filtered sales with totals and a per day breakdown of the last seven sale days
// @Tags Sales
// @Security BearerAuth
// @Produce json
// @Param search query string false "Matches product name, article number, customer or variant"
// @Param type query string false "Product type"
// @Param range query string false "all, today, yesterday, week or month"
// @Param sort query string false "date, amount or profit"
// @Param order query string false "asc or desc (default desc)"
// @Success 200 {object} Response{data=query.SalesReport}
// @Failure 400 {object} Response
// @Router /api/sales [get]
func (h *InventoryHandler) ListSales(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	order := q.Get("order")
	if order != "" && order != "asc" && order != "desc" {
		h.respondError(w, r, &domain.ValidationError{Field: "order", Message: "order must be asc or desc"})
		return
	}

	report, err := h.queries.ListSales.Handle(r.Context(), query.ListSalesQuery{
		OwnerID: auth.OwnerIDFromContext(r.Context()),
		Filter: domain.SalesFilter{
			Search:      q.Get("search"),
			ProductType: domain.ProductType(q.Get("type")),
			Range:       domain.DateRange(q.Get("range")),
			SortBy:      domain.SaleSort(q.Get("sort")),
			Ascending:   order == "asc",
		},
	})
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, Response{Success: true, Data: report})
}

// GetDashboard godoc
// @Summary Dashboard
// @Description Today's figures, recent sales, low stock and best selling products
// @Tags Dashboard
// @Security BearerAuth
// @Produce json
// @Success 200 {object} Response{data=query.Dashboard}
// @Failure 401 {object} Response
// @Router /api/dashboard [get]
func (h *InventoryHandler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	dashboard, err := h.queries.Dashboard.Handle(r.Context(), query.GetDashboardQuery{
		OwnerID: auth.OwnerIDFromContext(r.Context()),
	})
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, Response{Success: true, Data: dashboard})
}
