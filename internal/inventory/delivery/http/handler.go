package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/tair/retail-pos/internal/inventory/domain"
	"github.com/tair/retail-pos/internal/inventory/usecase/command"
	"github.com/tair/retail-pos/internal/inventory/usecase/query"
	"github.com/tair/retail-pos/pkg/auth"
	"github.com/tair/retail-pos/pkg/logger"
	"github.com/tair/retail-pos/pkg/metrics"
)

// Conflict reasons reported with 409 responses
const (
	ReasonUnknownVariant    = "unknown_variant"
	ReasonInsufficientStock = "insufficient_stock"
)

// Pinger reports database reachability
type Pinger interface {
	PingContext(ctx context.Context) error
}

// CommandHandlers groups the inventory write use cases
type CommandHandlers struct {
	Create      *command.CreateProductHandler
	Update      *command.UpdateProductHandler
	Delete      *command.DeleteProductHandler
	ProcessSale *command.ProcessSaleHandler
}

// QueryHandlers groups the inventory read use cases
type QueryHandlers struct {
	GetProduct   *query.GetProductHandler
	ListProducts *query.ListProductsHandler
	ListSales    *query.ListSalesHandler
	Dashboard    *query.GetDashboardHandler
}

// InventoryHandler handles HTTP requests for products, sales and the dashboard
type InventoryHandler struct {
	commands *CommandHandlers
	queries  *QueryHandlers

	tokens       *auth.TokenManager
	httpMetrics  *metrics.HTTPMetrics
	salesMetrics *metrics.SalesMetrics
}

// NewInventoryHandler creates a new inventory handler
func NewInventoryHandler(
	commands *CommandHandlers,
	queries *QueryHandlers,
	tokens *auth.TokenManager,
	httpMetrics *metrics.HTTPMetrics,
	salesMetrics *metrics.SalesMetrics,
) *InventoryHandler {
	return &InventoryHandler{
		commands:     commands,
		queries:      queries,
		tokens:       tokens,
		httpMetrics:  httpMetrics,
		salesMetrics: salesMetrics,
	}
}

type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
	Field   string      `json:"field,omitempty"`
	Reason  string      `json:"reason,omitempty"`
}

// RegisterRoutes registers all inventory routes; everything but the catalog requires a token
func (h *InventoryHandler) RegisterRoutes(router *mux.Router) {
	route := func(path, method string, next http.HandlerFunc) {
		router.HandleFunc(path, h.httpMetrics.Wrap(path, h.tokens.Middleware(next))).Methods(method)
	}

	router.HandleFunc("/api/catalog", h.httpMetrics.Wrap("/api/catalog", h.GetCatalog)).Methods("GET")

	route("/api/products", "GET", h.ListProducts)
	route("/api/products", "POST", h.CreateProduct)
	route("/api/products/{id}", "GET", h.GetProduct)
	route("/api/products/{id}", "PATCH", h.UpdateProduct)
	route("/api/products/{id}", "DELETE", h.DeleteProduct)

	route("/api/sales", "POST", h.ProcessSale)
	route("/api/sales", "GET", h.ListSales)

	route("/api/dashboard", "GET", h.GetDashboard)
}

// RegisterHealthCheck registers health check endpoint
// @Summary Health check
// @Description Check service health and database connectivity
// @Tags Health
// @Produce json
// @Success 200 {object} Response
// @Failure 503 {object} Response
// @Router /health [get]
func (h *InventoryHandler) RegisterHealthCheck(router *mux.Router, db Pinger) {
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := db.PingContext(ctx); err != nil {
			logger.Error(ctx).Err(err).Msg("Health check failed")
			respondJSON(w, http.StatusServiceUnavailable, Response{
				Success: false,
				Error:   "Database unavailable",
			})
			return
		}

		respondJSON(w, http.StatusOK, Response{
			Success: true,
			Message: "POS service is healthy",
		})
	}).Methods("GET")
}

// respondError maps use case errors onto HTTP statuses and logs the failure
func (h *InventoryHandler) respondError(w http.ResponseWriter, r *http.Request, err error) {
	resp := Response{Success: false}
	status := http.StatusInternalServerError

	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		status = http.StatusBadRequest
		resp.Error = verr.Message
		resp.Field = verr.Field
	case errors.Is(err, domain.ErrValidation):
		status = http.StatusBadRequest
		resp.Error = err.Error()
	case errors.Is(err, domain.ErrProductNotFound):
		status = http.StatusNotFound
		resp.Error = "Product not found"
	case errors.Is(err, domain.ErrUnknownVariant):
		status = http.StatusConflict
		resp.Error = err.Error()
		resp.Reason = ReasonUnknownVariant
	case errors.Is(err, domain.ErrInsufficientStock):
		status = http.StatusConflict
		resp.Error = err.Error()
		resp.Reason = ReasonInsufficientStock
	case errors.Is(err, domain.ErrUnauthorized):
		status = http.StatusUnauthorized
		resp.Error = "Unauthorized"
	default:
		resp.Error = "Internal server error"
	}

	event := logger.Warn(r.Context())
	if status >= http.StatusInternalServerError {
		event = logger.Error(r.Context())
	}
	event.Err(err).
		Str("method", r.Method).
		Str("path", r.URL.Path).
		Int("status", status).
		Msg("Request failed")

	respondJSON(w, status, resp)
}

func badRequest(w http.ResponseWriter, message string) {
	respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: message})
}

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}
