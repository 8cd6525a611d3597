// Package transport exposes the catalogue services over HTTP.
package transport

import (
	"errors"
	"net/http"
	"strconv"

	"catalogo-api/internal/domain"
	"catalogo-api/internal/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

func init() {
	// Prices go out as JSON numbers, not strings
	decimal.MarshalJSONWithoutQuotes = true
}

var errInvalidID = errors.New("invalid id")

// pathID reads a positive integer path parameter
func pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, errInvalidID
	}
	return id, nil
}

// respondServiceError translates a service error into its HTTP status.
// Anything that is not a business rule violation is logged and reported as 500.
func respondServiceError(w http.ResponseWriter, logger *zap.Logger, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		middleware.RespondWithError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrAlreadyExists), errors.Is(err, domain.ErrInsufficientStock), errors.Is(err, domain.ErrStockLimit):
		middleware.RespondWithError(w, http.StatusConflict, err.Error())
	default:
		logger.Error("Request failed", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "internal server error")
	}
}

// respondDecodeError reports an unreadable body as 400 and field violations as 422
func respondDecodeError(w http.ResponseWriter, logger *zap.Logger, err error) {
	logger.Debug("Request payload rejected", zap.Error(err))

	if errors.Is(err, middleware.ErrBodyTooLarge) {
		middleware.RespondWithError(w, http.StatusRequestEntityTooLarge, err.Error())
		return
	}

	if middleware.IsBodyError(err) {
		middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
		middleware.RespondWithValidationErrors(w, validationErrors)
		return
	}

	middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
}

func respondBadID(w http.ResponseWriter, name string) {
	middleware.RespondWithError(w, http.StatusBadRequest, "path parameter "+name+" must be a positive integer")
}
