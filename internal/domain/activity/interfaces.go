package activity

import "context"

// Repository provides persistence operations for activity events.
type Repository interface {
	Log(ctx context.Context, tenantID string, event *Event) error
	List(ctx context.Context, tenantID string, opts ListOptions) ([]Event, error)
	Delete(ctx context.Context, tenantID, id string) error
}

// Deleter removes a single event by id.
type Deleter interface {
	Delete(ctx context.Context, tenantID, id string) error
}
