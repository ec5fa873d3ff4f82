package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"storefront/internal/model"
)

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// The status line is already written; an encode failure here
	// means the client went away and there is nothing left to send.
	_ = json.NewEncoder(w).Encode(data)
}

// writeError writes a plain error response with the given status code and message.
func writeError(w http.ResponseWriter, status int, message string, logger zerolog.Logger) {
	logger.Error().Str("error", message).Int("status", status).Msg("handler error")
	writeJSON(w, status, model.ErrorResponse{Error: model.ErrCodeInternalError, Message: message})
}

// writeServiceError maps a service error to an HTTP response. Domain
// rejections keep their code and details; anything else is an opaque
// internal error.
func writeServiceError(w http.ResponseWriter, err error, logger zerolog.Logger) {
	var domainErr *model.DomainError
	if !errors.As(err, &domainErr) {
		writeError(w, http.StatusInternalServerError, "internal server error", logger)
		return
	}

	status := http.StatusInternalServerError
	switch domainErr.Code {
	case model.ErrCodeInvalidJSON,
		model.ErrCodeInvalidCartLine,
		model.ErrCodeInvalidContactInfo,
		model.ErrCodeInvalidQuantity:
		status = http.StatusBadRequest
	case model.ErrCodeProductNotFound:
		status = http.StatusNotFound
	case model.ErrCodeProductsUnavailable,
		model.ErrCodeOutOfStock,
		model.ErrCodeCheckoutInProgress:
		status = http.StatusConflict
	case model.ErrCodeOrderCreateFailed,
		model.ErrCodeOrderItemsInsertFailed,
		model.ErrCodeBackendError:
		status = http.StatusBadGateway
	}

	logger.Warn().
		Str("code", domainErr.Code).
		Int("status", status).
		Msg("request rejected")

	writeJSON(w, status, model.ErrorResponse{
		Error:   domainErr.Code,
		Message: domainErr.Message,
		Details: domainErr.Details,
	})
}
