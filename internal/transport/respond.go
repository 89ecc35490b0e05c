package transport

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rpggio/recipe-activity/internal/domain/activity"
	"github.com/rpggio/recipe-activity/internal/domain/quantity"
	"github.com/rpggio/recipe-activity/internal/domain/session"
	"github.com/rpggio/recipe-activity/internal/feed"
	"github.com/rpggio/recipe-activity/internal/repository"
)

// ErrorBody is the JSON payload of every non-2xx response.
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type errorResponse struct {
	Error ErrorBody `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Error: ErrorBody{Code: code, Message: message}})
}

// writeDomainError maps a domain error to an HTTP status and code.
func writeDomainError(w http.ResponseWriter, err error) {
	status, code := statusFor(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		message = "internal error"
	}
	writeError(w, status, code, message)
}

func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized, "UNAUTHORIZED"
	case errors.Is(err, activity.ErrEventNotFound), errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound, "EVENT_NOT_FOUND"
	case errors.Is(err, session.ErrSessionNotFound):
		return http.StatusNotFound, "SESSION_NOT_FOUND"
	case errors.Is(err, repository.ErrConflict):
		return http.StatusConflict, "CONFLICT"
	case errors.Is(err, session.ErrInvalidEvent):
		return http.StatusUnprocessableEntity, "INVALID_EVENT"
	case errors.Is(err, session.ErrOverridesUnavailable):
		return http.StatusNotImplemented, "OVERRIDES_UNAVAILABLE"
	case errors.Is(err, feed.ErrUpstream), errors.Is(err, feed.ErrMalformed):
		return http.StatusBadGateway, "UPSTREAM_ERROR"
	case errors.Is(err, activity.ErrInvalidInput),
		errors.Is(err, session.ErrInvalidInput),
		errors.Is(err, session.ErrInvalidOptions),
		errors.Is(err, repository.ErrInvalidInput),
		errors.Is(err, quantity.ErrInvalidQuantity):
		return http.StatusBadRequest, "INVALID_INPUT"
	default:
		return http.StatusInternalServerError, "INTERNAL"
	}
}
