package session

import (
	"time"

	"github.com/rpggio/recipe-activity/internal/domain/activity"
)

// SessionStatus represents the derived lifecycle status of a session
type SessionStatus string

const (
	StatusActive    SessionStatus = "active"
	StatusCompleted SessionStatus = "completed"
	StatusExpired   SessionStatus = "expired"
)

// Valid reports whether s is one of the known statuses.
func (s SessionStatus) Valid() bool {
	switch s {
	case StatusActive, StatusCompleted, StatusExpired:
		return true
	}
	return false
}

// Session is a contiguous run of one user's activity events.
// Sessions are derived on every reconstruction and never persisted.
type Session struct {
	ID                string           `json:"id"`
	Username          string           `json:"username"`
	Role              string           `json:"role"`
	StartTime         time.Time        `json:"start_time"`
	LastActivity      time.Time        `json:"last_activity"`
	EndTime           *time.Time       `json:"end_time,omitempty"`
	Events            []activity.Event `json:"events"`
	Status            SessionStatus    `json:"status"`
	DurationMs        int64            `json:"duration_ms"`
	PageVisitCount    int              `json:"page_visit_count"`
	PagesVisited      []string         `json:"pages_visited"`
	ManuallyCompleted bool             `json:"manually_completed,omitempty"`
}

// DurationAt returns the session length measured against now. Sessions with
// an end time are frozen; active sessions keep growing.
func (s Session) DurationAt(now time.Time) time.Duration {
	end := now
	if s.EndTime != nil {
		end = *s.EndTime
	}
	d := end.Sub(s.StartTime)
	if d < 0 {
		return 0
	}
	return d
}

// EventCount returns the number of events in the session, unknown types included.
func (s Session) EventCount() int {
	return len(s.Events)
}

// EventIDs returns the ids of the session's events in chronological order.
func (s Session) EventIDs() []string {
	ids := make([]string, 0, len(s.Events))
	for _, e := range s.Events {
		ids = append(ids, e.ID)
	}
	return ids
}
