package activity

import "time"

// ListOptions provides filtering options for listing events.
type ListOptions struct {
	Username     string
	ActivityType *ActivityType
	Since        *time.Time
	Limit        int
	Offset       int
}
