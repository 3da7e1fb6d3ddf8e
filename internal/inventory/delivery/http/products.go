package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	"github.com/tair/retail-pos/internal/inventory/domain"
	"github.com/tair/retail-pos/internal/inventory/usecase/command"
	"github.com/tair/retail-pos/internal/inventory/usecase/query"
	"github.com/tair/retail-pos/pkg/auth"
)

type createProductRequest struct {
	ProductType   domain.ProductType `json:"product_type"`
	Name          string             `json:"name"`
	ArticleNumber string             `json:"article_number"`
	Category      string             `json:"category"`
	Color         string             `json:"color"`
	Brand         string             `json:"brand"`
	Variants      domain.Variants    `json:"variants"`
	BuyingPrice   decimal.Decimal    `json:"buying_price"`
	SellingPrice  decimal.Decimal    `json:"selling_price"`
}

type updateProductRequest struct {
	ProductType   *domain.ProductType `json:"product_type"`
	Name          *string             `json:"name"`
	ArticleNumber *string             `json:"article_number"`
	Category      *string             `json:"category"`
	Color         *string             `json:"color"`
	Brand         *string             `json:"brand"`
	Variants      domain.Variants     `json:"variants"`
	BuyingPrice   *decimal.Decimal    `json:"buying_price"`
	SellingPrice  *decimal.Decimal    `json:"selling_price"`
}

// GetCatalog godoc
// @Summary Product catalog
// @Description Product types with their categories and suggested variant labels
// @Tags Products
// @Produce json
// @Success 200 {object} Response{data=[]domain.CatalogEntry}
// @Router /api/catalog [get]
func (h *InventoryHandler) GetCatalog(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, Response{Success: true, Data: domain.Catalog()})
}

// CreateProduct godoc
// @Summary Create a product
// @Tags Products
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body createProductRequest true "Product data"
// @Success 201 {object} Response{data=domain.Product}
// @Failure 400 {object} Response
// @Failure 401 {object} Response
// @Router /api/products [post]
func (h *InventoryHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req createProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "Invalid request body")
		return
	}

	product, err := h.commands.Create.Handle(r.Context(), command.CreateProductCommand{
		OwnerID:       auth.OwnerIDFromContext(r.Context()),
		ProductType:   req.ProductType,
		Name:          req.Name,
		ArticleNumber: req.ArticleNumber,
		Category:      req.Category,
		Color:         req.Color,
		Brand:         req.Brand,
		Variants:      req.Variants,
		BuyingPrice:   req.BuyingPrice,
		SellingPrice:  req.SellingPrice,
	})
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, Response{
		Success: true,
		Message: "Product created successfully",
		Data:    product,
	})
}

// ListProducts godoc
// @Summary List products
// @Description Products of the signed in owner, newest first
// @Tags Products
// @Security BearerAuth
// @Produce json
// @Param type query string false "Product type"
// @Param category query string false "Category"
// @Param search query string false "Matches name, article number, brand or color"
// @Param low_stock query bool false "Only products at or below the low stock threshold"
// @Success 200 {object} Response{data=query.ProductList}
// @Failure 401 {object} Response
// @Router /api/products [get]
func (h *InventoryHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	lowStock, _ := strconv.ParseBool(q.Get("low_stock"))

	list, err := h.queries.ListProducts.Handle(r.Context(), query.ListProductsQuery{
		OwnerID: auth.OwnerIDFromContext(r.Context()),
		Filter: domain.ProductFilter{
			ProductType: domain.ProductType(q.Get("type")),
			Category:    q.Get("category"),
			Search:      q.Get("search"),
			LowStock:    lowStock,
		},
	})
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, Response{Success: true, Data: list})
}

// GetProduct godoc
// @Summary Get a product
// @Tags Products
// @Security BearerAuth
// @Produce json
// @Param id path string true "Product ID"
// @Success 200 {object} Response{data=domain.Product}
// @Failure 400 {object} Response
// @Failure 404 {object} Response
// @Router /api/products/{id} [get]
func (h *InventoryHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := productID(w, r)
	if !ok {
		return
	}

	product, err := h.queries.GetProduct.Handle(r.Context(), query.GetProductQuery{
		OwnerID: auth.OwnerIDFromContext(r.Context()),
		ID:      id,
	})
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, Response{Success: true, Data: product})
}

// UpdateProduct godoc
// @Summary Update a product
// @Description Partial update. Variants replace the whole mapping. The product type cannot change.
// @Tags Products
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Product ID"
// @Param request body updateProductRequest true "Fields to change"
// @Success 200 {object} Response{data=domain.Product}
// @Failure 400 {object} Response
// @Failure 404 {object} Response
// @Router /api/products/{id} [patch]
func (h *InventoryHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := productID(w, r)
	if !ok {
		return
	}

	var req updateProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "Invalid request body")
		return
	}

	ownerID := auth.OwnerIDFromContext(r.Context())
	if req.ProductType != nil {
		current, err := h.queries.GetProduct.Handle(r.Context(), query.GetProductQuery{OwnerID: ownerID, ID: id})
		if err != nil {
			h.respondError(w, r, err)
			return
		}
		if *req.ProductType != current.ProductType {
			h.respondError(w, r, &domain.ValidationError{Field: "product_type", Message: "product type cannot be changed"})
			return
		}
	}

	product, err := h.commands.Update.Handle(r.Context(), command.UpdateProductCommand{
		OwnerID:       ownerID,
		ID:            id,
		Name:          req.Name,
		ArticleNumber: req.ArticleNumber,
		Category:      req.Category,
		Color:         req.Color,
		Brand:         req.Brand,
		Variants:      req.Variants,
		BuyingPrice:   req.BuyingPrice,
		SellingPrice:  req.SellingPrice,
	})
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Product updated successfully",
		Data:    product,
	})
}

// DeleteProduct godoc
// @Summary Delete a product
// @Description Recorded sales of the product are kept
// @Tags Products
// @Security BearerAuth
// @Produce json
// @Param id path string true "Product ID"
// @Success 200 {object} Response
// @Failure 404 {object} Response
// @Router /api/products/{id} [delete]
func (h *InventoryHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := productID(w, r)
	if !ok {
		return
	}

	err := h.commands.Delete.Handle(r.Context(), command.DeleteProductCommand{
		OwnerID: auth.OwnerIDFromContext(r.Context()),
		ID:      id,
	})
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Product deleted successfully",
	})
}

func productID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		badRequest(w, "Invalid product ID")
		return uuid.Nil, false
	}
	return id, true
}
