package mcp

import (
	"errors"
	"fmt"

	"github.com/rpggio/recipe-activity/internal/domain/activity"
	"github.com/rpggio/recipe-activity/internal/domain/quantity"
	"github.com/rpggio/recipe-activity/internal/domain/session"
	"github.com/rpggio/recipe-activity/internal/feed"
)

// APIError represents an MCP error response.
type APIError struct {
	Code         string `json:"code"`
	Message      string `json:"message"`
	Details      any    `json:"details,omitempty"`
	RecoveryHint string `json:"recovery_hint,omitempty"`
}

func (e *APIError) Error() string {
	if e.RecoveryHint != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.RecoveryHint)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// MapError maps domain errors to MCP error codes.
func MapError(err error) *APIError {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, session.ErrSessionNotFound):
		return &APIError{Code: "SESSION_NOT_FOUND", Message: "session not found", RecoveryHint: "Session ids change when events are deleted; call list_sessions"}
	case errors.Is(err, activity.ErrEventNotFound):
		return &APIError{Code: "EVENT_NOT_FOUND", Message: "activity event not found", RecoveryHint: "Check the id with list_activity"}
	case errors.Is(err, session.ErrInvalidEvent):
		return &APIError{Code: "INVALID_EVENT", Message: err.Error(), RecoveryHint: "Fix or delete the malformed event"}
	case errors.Is(err, session.ErrOverridesUnavailable):
		return &APIError{Code: "OVERRIDES_UNAVAILABLE", Message: "manual completion is not configured"}
	case errors.Is(err, feed.ErrUpstream), errors.Is(err, feed.ErrMalformed):
		return &APIError{Code: "UPSTREAM_ERROR", Message: err.Error(), RecoveryHint: "Retry later"}
	case errors.Is(err, activity.ErrInvalidInput),
		errors.Is(err, session.ErrInvalidInput),
		errors.Is(err, session.ErrInvalidOptions),
		errors.Is(err, quantity.ErrInvalidQuantity):
		return &APIError{Code: "INVALID_INPUT", Message: err.Error()}
	default:
		return nil
	}
}

// toolError returns the mapped APIError for err, or err itself.
func toolError(err error) error {
	if apiErr := MapError(err); apiErr != nil {
		return apiErr
	}
	return err
}
