package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"storefront/internal/analytics"
	"storefront/internal/catalog"
	"storefront/internal/middleware"
	"storefront/internal/model"
	"storefront/internal/service"
)

// ProductHandler handles catalogue HTTP requests.
type ProductHandler struct {
	service service.ProductService
	emitter analytics.Emitter
	logger  zerolog.Logger
}

// NewProductHandler creates a new product handler.
func NewProductHandler(service service.ProductService, emitter analytics.Emitter, logger zerolog.Logger) *ProductHandler {
	return &ProductHandler{
		service: service,
		emitter: emitter,
		logger:  logger.With().Str("handler", "product").Logger(),
	}
}

// List handles GET /api/products requests with query, sort and page
// parameters.
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", h.logger)
		return
	}

	query := r.URL.Query().Get("query")
	key := catalog.ParseSortKey(r.URL.Query().Get("sort"))

	page := 1
	if pageStr := r.URL.Query().Get("page"); pageStr != "" {
		var err error
		page, err = strconv.Atoi(pageStr)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid page parameter", h.logger)
			return
		}
	}

	view, err := h.service.List(r.Context(), query, key, page)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to retrieve products", h.logger)
		return
	}

	if query != "" {
		h.emitter.Emit(model.Activity{
			SessionID:    middleware.SessionID(r.Context()),
			UserAgent:    r.UserAgent(),
			IPAddress:    r.RemoteAddr,
			ActivityType: model.ActivitySearch,
			PagePath:     r.URL.Path,
			Metadata:     map[string]string{"query": query},
			Timestamp:    time.Now(),
		})
	}

	writeJSON(w, http.StatusOK, view)
}

// GetByID handles GET /api/products/{id} requests.
func (h *ProductHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", h.logger)
		return
	}

	// Expecting path: /api/products/{id}
	path := r.URL.Path
	if len(path) <= len("/api/products/") {
		writeError(w, http.StatusBadRequest, "product ID is required", h.logger)
		return
	}
	productID := path[len("/api/products/"):]

	product, err := h.service.GetByID(r.Context(), productID)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	h.emitter.Emit(model.Activity{
		SessionID:    middleware.SessionID(r.Context()),
		UserAgent:    r.UserAgent(),
		IPAddress:    r.RemoteAddr,
		ActivityType: model.ActivityPageView,
		PagePath:     r.URL.Path,
		ProductID:    product.ID,
		ProductName:  product.Name,
		Timestamp:    time.Now(),
	})

	writeJSON(w, http.StatusOK, product)
}
