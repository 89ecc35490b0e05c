package mcp

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rpggio/recipe-activity/internal/domain/activity"
	"github.com/rpggio/recipe-activity/internal/domain/quantity"
	"github.com/rpggio/recipe-activity/internal/domain/session"
	"github.com/rpggio/recipe-activity/internal/feed"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		err  error
		code string
	}{
		{fmt.Errorf("get: %w", session.ErrSessionNotFound), "SESSION_NOT_FOUND"},
		{activity.ErrEventNotFound, "EVENT_NOT_FOUND"},
		{fmt.Errorf("reconstructing sessions: %w", session.ErrInvalidEvent), "INVALID_EVENT"},
		{session.ErrOverridesUnavailable, "OVERRIDES_UNAVAILABLE"},
		{fmt.Errorf("loading activity: %w", feed.ErrUpstream), "UPSTREAM_ERROR"},
		{activity.ErrInvalidInput, "INVALID_INPUT"},
		{quantity.ErrInvalidQuantity, "INVALID_INPUT"},
	}
	for _, tt := range tests {
		apiErr := MapError(tt.err)
		require.NotNil(t, apiErr, tt.err.Error())
		require.Equal(t, tt.code, apiErr.Code)
	}

	require.Nil(t, MapError(nil))
	require.Nil(t, MapError(errors.New("disk on fire")))
}

func TestToolErrorPassesThroughUnmapped(t *testing.T) {
	plain := errors.New("disk on fire")
	require.Same(t, plain, toolError(plain))

	var apiErr *APIError
	require.ErrorAs(t, toolError(session.ErrSessionNotFound), &apiErr)
	require.Contains(t, apiErr.Error(), "list_sessions")
}
