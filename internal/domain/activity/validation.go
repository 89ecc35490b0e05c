package activity

import (
	"fmt"
	"strings"
	"time"
)

// Validate checks the fields every consumer of an event relies on.
func Validate(e Event) error {
	if strings.TrimSpace(e.Username) == "" {
		return fmt.Errorf("%w: username is required", ErrInvalidInput)
	}
	if strings.TrimSpace(string(e.ActivityType)) == "" {
		return fmt.Errorf("%w: activity type is required", ErrInvalidInput)
	}
	if e.CreatedAt.IsZero() {
		return fmt.Errorf("%w: timestamp is required", ErrInvalidInput)
	}
	if e.CreatedAt.Before(time.Unix(0, 0)) {
		return fmt.Errorf("%w: timestamp predates 1970", ErrInvalidInput)
	}
	return nil
}
