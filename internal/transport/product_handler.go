package transport

import (
	"context"
	"net/http"

	"catalogo-api/internal/domain"
	"catalogo-api/internal/middleware"
	"catalogo-api/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const stockBatchRules = "min=1,max=100,dive"

// CreateProductRequest represents the product create payload
type CreateProductRequest struct {
	SKU           int64           `json:"sku" validate:"required,gt=0"`
	Name          string          `json:"name" validate:"notblank,min=2,max=45"`
	Description   string          `json:"description" validate:"notblank,min=15,max=255"`
	UnitPrice     decimal.Decimal `json:"unitPrice" validate:"gt=0,money"`
	Stock         *int            `json:"stock" validate:"required,gte=0,lte=2147483647"`
	ImageURL      string          `json:"imageUrl" validate:"omitempty,url,max=255"`
	Active        *bool           `json:"active"`
	SubcategoryID int64           `json:"subcategoryId" validate:"required,gt=0"`
}

func (req CreateProductRequest) input() service.CreateProductInput {
	return service.CreateProductInput{
		SKU: req.SKU,
		ProductInput: ProductRequest{
			Name:          req.Name,
			Description:   req.Description,
			UnitPrice:     req.UnitPrice,
			Stock:         req.Stock,
			ImageURL:      req.ImageURL,
			Active:        req.Active,
			SubcategoryID: req.SubcategoryID,
		}.input(),
	}
}

// ProductRequest represents the product update payload. sku cannot be changed.
type ProductRequest struct {
	Name          string          `json:"name" validate:"notblank,min=2,max=45"`
	Description   string          `json:"description" validate:"notblank,min=15,max=255"`
	UnitPrice     decimal.Decimal `json:"unitPrice" validate:"gt=0,money"`
	Stock         *int            `json:"stock" validate:"required,gte=0,lte=2147483647"`
	ImageURL      string          `json:"imageUrl" validate:"omitempty,url,max=255"`
	Active        *bool           `json:"active"`
	SubcategoryID int64           `json:"subcategoryId" validate:"required,gt=0"`
}

func (req ProductRequest) input() service.ProductInput {
	active := true
	if req.Active != nil {
		active = *req.Active
	}

	var stock int
	if req.Stock != nil {
		stock = *req.Stock
	}

	return service.ProductInput{
		Name:          req.Name,
		Description:   req.Description,
		UnitPrice:     req.UnitPrice,
		Stock:         stock,
		ImageURL:      req.ImageURL,
		Active:        active,
		SubcategoryID: req.SubcategoryID,
	}
}

// StockChangeRequest is one line of a stock batch
type StockChangeRequest struct {
	ProductID int64 `json:"productId" validate:"required,gt=0"`
	Quantity  int   `json:"quantity" validate:"required,gt=0,lte=2147483647"`
}

// ProductHandler handles HTTP requests for product operations
type ProductHandler struct {
	query  service.ProductQueryService
	maint  service.ProductMaintenanceService
	logger *zap.Logger
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(query service.ProductQueryService, maint service.ProductMaintenanceService, logger *zap.Logger) *ProductHandler {
	return &ProductHandler{query: query, maint: maint, logger: logger}
}

// RegisterRoutes registers all product routes
func (h *ProductHandler) RegisterRoutes(r chi.Router) {
	r.Route("/produtos", func(r chi.Router) {
		r.Get("/", h.List)
		r.Post("/", h.Create)

		r.Get("/nome", h.FindByName)
		r.Get("/subcategoria/{id}", h.FindBySubcategory)
		r.Get("/categoria/{id}", h.FindByCategory)
		r.Put("/estoque/subtrair", h.SubtractStock)
		r.Put("/estoque/retornar", h.ReturnStock)

		r.Get("/{id}", h.Get)
		r.Put("/{id}", h.Update)
		r.Delete("/{id}", h.Delete)
	})
}

// List handles GET /produtos
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	page, err := pageRequest(r)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	h.respondPage(w, func() (domain.Page[service.ProductView], error) {
		return h.query.List(r.Context(), page)
	})
}

// Get handles GET /produtos/{id}
func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondBadID(w, "id")
		return
	}

	product, err := h.query.GetByID(r.Context(), id)
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, product)
}

// FindByName handles GET /produtos/nome?nome=
func (h *ProductHandler) FindByName(w http.ResponseWriter, r *http.Request) {
	page, err := pageRequest(r)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	name := r.URL.Query().Get("nome")
	h.respondPage(w, func() (domain.Page[service.ProductView], error) {
		return h.query.FindByName(r.Context(), name, page)
	})
}

// FindBySubcategory handles GET /produtos/subcategoria/{id}
func (h *ProductHandler) FindBySubcategory(w http.ResponseWriter, r *http.Request) {
	h.findByParent(w, r, h.query.FindBySubcategory)
}

// FindByCategory handles GET /produtos/categoria/{id}
func (h *ProductHandler) FindByCategory(w http.ResponseWriter, r *http.Request) {
	h.findByParent(w, r, h.query.FindByCategory)
}

type parentLookup func(ctx context.Context, parentID int64, page domain.PageRequest) (domain.Page[service.ProductView], error)

func (h *ProductHandler) findByParent(w http.ResponseWriter, r *http.Request, lookup parentLookup) {
	id, err := pathID(r, "id")
	if err != nil {
		respondBadID(w, "id")
		return
	}

	page, err := pageRequest(r)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	h.respondPage(w, func() (domain.Page[service.ProductView], error) {
		return lookup(r.Context(), id, page)
	})
}

func (h *ProductHandler) respondPage(w http.ResponseWriter, load func() (domain.Page[service.ProductView], error)) {
	products, err := load()
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, products)
}

// Create handles POST /produtos
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateProductRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		respondDecodeError(w, h.logger, err)
		return
	}

	product, err := h.maint.Create(r.Context(), req.input())
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusCreated, product)
}

// Update handles PUT /produtos/{id}
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondBadID(w, "id")
		return
	}

	var req ProductRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		respondDecodeError(w, h.logger, err)
		return
	}

	product, err := h.maint.Update(r.Context(), id, req.input())
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, product)
}

// Delete handles DELETE /produtos/{id}
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondBadID(w, "id")
		return
	}

	message, err := h.maint.Delete(r.Context(), id)
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, message)
}

// SubtractStock handles PUT /produtos/estoque/subtrair
func (h *ProductHandler) SubtractStock(w http.ResponseWriter, r *http.Request) {
	h.adjustStock(w, r, h.maint.SubtractStock)
}

// ReturnStock handles PUT /produtos/estoque/retornar
func (h *ProductHandler) ReturnStock(w http.ResponseWriter, r *http.Request) {
	h.adjustStock(w, r, h.maint.ReturnStock)
}

func (h *ProductHandler) adjustStock(w http.ResponseWriter, r *http.Request, apply func(context.Context, []domain.StockChange) error) {
	var items []StockChangeRequest
	if err := middleware.DecodeJSON(r, &items); err != nil {
		respondDecodeError(w, h.logger, err)
		return
	}
	if err := middleware.ValidateVar(items, stockBatchRules); err != nil {
		respondDecodeError(w, h.logger, err)
		return
	}

	changes := make([]domain.StockChange, 0, len(items))
	for _, item := range items {
		changes = append(changes, domain.StockChange{ProductID: item.ProductID, Quantity: item.Quantity})
	}

	if err := apply(r.Context(), changes); err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
