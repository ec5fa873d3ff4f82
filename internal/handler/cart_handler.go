package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"storefront/internal/analytics"
	"storefront/internal/middleware"
	"storefront/internal/model"
	"storefront/internal/service"
)

// CartHandler handles session cart HTTP requests.
type CartHandler struct {
	service service.CartService
	emitter analytics.Emitter
	logger  zerolog.Logger
}

// NewCartHandler creates a new cart handler.
func NewCartHandler(service service.CartService, emitter analytics.Emitter, logger zerolog.Logger) *CartHandler {
	return &CartHandler{
		service: service,
		emitter: emitter,
		logger:  logger.With().Str("handler", "cart").Logger(),
	}
}

// cartResponse wraps the cart with its derived total.
type cartResponse struct {
	model.Cart
	TotalPrice string `json:"totalPrice"`
}

func toCartResponse(c model.Cart) cartResponse {
	// An empty cart serialises as an empty array, never null.
	if c.Lines == nil {
		c.Lines = []model.CartLine{}
	}
	return cartResponse{Cart: c, TotalPrice: c.Total().String()}
}

type addItemRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

type updateQuantityRequest struct {
	Quantity int `json:"quantity"`
}

// Get handles GET /api/cart requests.
func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	c, err := h.service.Get(r.Context(), middleware.SessionID(r.Context()))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load cart", h.logger)
		return
	}
	writeJSON(w, http.StatusOK, toCartResponse(c))
}

// AddItem handles POST /api/cart/items requests.
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req addItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", h.logger)
		return
	}

	sessionID := middleware.SessionID(r.Context())
	c, err := h.service.Add(r.Context(), sessionID, req.ProductID, req.Quantity)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	h.emitter.Emit(model.Activity{
		SessionID:    sessionID,
		UserAgent:    r.UserAgent(),
		IPAddress:    r.RemoteAddr,
		ActivityType: model.ActivityAddToCart,
		PagePath:     r.URL.Path,
		ProductID:    req.ProductID,
		Timestamp:    time.Now(),
	})

	writeJSON(w, http.StatusOK, toCartResponse(c))
}

// UpdateQuantity handles PUT /api/cart/items/{productID} requests.
// A non-positive quantity removes the line.
func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request, productID string) {
	var req updateQuantityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", h.logger)
		return
	}

	c, err := h.service.UpdateQuantity(r.Context(), middleware.SessionID(r.Context()), productID, req.Quantity)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, toCartResponse(c))
}

// RemoveItem handles DELETE /api/cart/items/{productID} requests.
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request, productID string) {
	c, err := h.service.Remove(r.Context(), middleware.SessionID(r.Context()), productID)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, toCartResponse(c))
}

// Clear handles DELETE /api/cart requests.
func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Clear(r.Context(), middleware.SessionID(r.Context())); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to clear cart", h.logger)
		return
	}
	writeJSON(w, http.StatusOK, toCartResponse(model.Cart{SessionID: middleware.SessionID(r.Context())}))
}
