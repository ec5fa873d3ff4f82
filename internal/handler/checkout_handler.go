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

// CheckoutHandler handles checkout and delivery-charge HTTP requests.
type CheckoutHandler struct {
	service service.CheckoutService
	emitter analytics.Emitter
	logger  zerolog.Logger
}

// NewCheckoutHandler creates a new checkout handler.
func NewCheckoutHandler(service service.CheckoutService, emitter analytics.Emitter, logger zerolog.Logger) *CheckoutHandler {
	return &CheckoutHandler{
		service: service,
		emitter: emitter,
		logger:  logger.With().Str("handler", "checkout").Logger(),
	}
}

// Submit handles POST /api/checkout requests. Rejections keep the
// customer on the checkout form; the response body carries the code
// and the affected products.
func (h *CheckoutHandler) Submit(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", h.logger)
		return
	}

	var contact model.ContactInfo
	if err := json.NewDecoder(r.Body).Decode(&contact); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", h.logger)
		return
	}

	sessionID := middleware.SessionID(r.Context())
	result, err := h.service.Submit(r.Context(), sessionID, contact)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	h.emitter.Emit(model.Activity{
		SessionID:    sessionID,
		UserAgent:    r.UserAgent(),
		IPAddress:    r.RemoteAddr,
		ActivityType: model.ActivityOrder,
		PagePath:     r.URL.Path,
		Metadata:     map[string]string{"order_id": result.OrderID.String()},
		Timestamp:    time.Now(),
	})

	writeJSON(w, http.StatusCreated, result)
}

// Charges handles GET /api/delivery-charges requests.
func (h *CheckoutHandler) Charges(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", h.logger)
		return
	}
	writeJSON(w, http.StatusOK, h.service.Charges())
}
