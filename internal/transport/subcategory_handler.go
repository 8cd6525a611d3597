package transport

import (
	"net/http"

	"catalogo-api/internal/middleware"
	"catalogo-api/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// SubcategoryRequest represents the subcategory create and update payload
type SubcategoryRequest struct {
	Name        string `json:"name" validate:"notblank,min=3,max=45"`
	Description string `json:"description" validate:"notblank,min=15,max=255"`
	CategoryID  int64  `json:"categoryId" validate:"required,gt=0"`
}

func (req SubcategoryRequest) input() service.SubcategoryInput {
	return service.SubcategoryInput{
		Name:        req.Name,
		Description: req.Description,
		CategoryID:  req.CategoryID,
	}
}

// SubcategoryHandler handles HTTP requests for subcategory operations
type SubcategoryHandler struct {
	query  service.SubcategoryQueryService
	maint  service.SubcategoryMaintenanceService
	logger *zap.Logger
}

// NewSubcategoryHandler creates a new SubcategoryHandler
func NewSubcategoryHandler(query service.SubcategoryQueryService, maint service.SubcategoryMaintenanceService, logger *zap.Logger) *SubcategoryHandler {
	return &SubcategoryHandler{query: query, maint: maint, logger: logger}
}

// RegisterRoutes registers all subcategory routes
func (h *SubcategoryHandler) RegisterRoutes(r chi.Router) {
	r.Route("/subcategorias", func(r chi.Router) {
		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Get("/{id}", h.Get)
		r.Put("/{id}", h.Update)
		r.Delete("/{id}", h.Delete)
	})
}

// List handles GET /subcategorias
func (h *SubcategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	page, err := pageRequest(r)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	subcategories, err := h.query.List(r.Context(), page)
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, subcategories)
}

// Get handles GET /subcategorias/{id}
func (h *SubcategoryHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondBadID(w, "id")
		return
	}

	subcategory, err := h.query.GetByID(r.Context(), id)
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, subcategory)
}

// Create handles POST /subcategorias
func (h *SubcategoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req SubcategoryRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		respondDecodeError(w, h.logger, err)
		return
	}

	subcategory, err := h.maint.Create(r.Context(), req.input())
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusCreated, subcategory)
}

// Update handles PUT /subcategorias/{id}
func (h *SubcategoryHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondBadID(w, "id")
		return
	}

	var req SubcategoryRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		respondDecodeError(w, h.logger, err)
		return
	}

	subcategory, err := h.maint.Update(r.Context(), id, req.input())
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, subcategory)
}

// Delete handles DELETE /subcategorias/{id}
func (h *SubcategoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
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
