package session

import (
	"context"
	"time"

	"github.com/rpggio/recipe-activity/internal/domain/activity"
)

// EventSource supplies the flat event feed and deletes individual events.
// Implemented by the local SQLite store and the remote feed client.
type EventSource interface {
	List(ctx context.Context, tenantID string, opts activity.ListOptions) ([]activity.Event, error)
	Delete(ctx context.Context, tenantID, id string) error
}

// OverrideRepository persists session ids that were manually marked completed.
type OverrideRepository interface {
	MarkCompleted(ctx context.Context, tenantID, sessionID string, at time.Time) error
	Clear(ctx context.Context, tenantID, sessionID string) error
	List(ctx context.Context, tenantID string) ([]string, error)
}

// Observer is notified after every reconstruction of a tenant's sessions.
type Observer interface {
	ObserveReconstruction(tenantID string, eventCount int, sessions []Session, elapsed time.Duration)
}
