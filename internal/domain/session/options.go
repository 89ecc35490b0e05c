package session

import (
	"fmt"
	"time"
)

const (
	// DefaultSessionGap is the longest idle time between two events of the same session.
	DefaultSessionGap = 2 * time.Hour
	// DefaultActiveThreshold is the longest silence an open session may have and still be active.
	DefaultActiveThreshold = 10 * time.Minute
)

// Options configures reconstruction. A zero duration selects the default,
// so neither threshold can be set to zero; use a small positive value instead.
type Options struct {
	// SessionGap: a gap strictly greater than this starts a new session.
	// Zero means DefaultSessionGap.
	SessionGap time.Duration
	// ActiveThreshold: sessions without logout idle longer than this are expired.
	// Zero means DefaultActiveThreshold.
	ActiveThreshold time.Duration
	// Overrides holds session ids that were manually marked completed.
	Overrides map[string]bool
}

// DefaultOptions returns the default thresholds with no overrides.
func DefaultOptions() Options {
	return Options{
		SessionGap:      DefaultSessionGap,
		ActiveThreshold: DefaultActiveThreshold,
	}
}

func (o Options) withDefaults() (Options, error) {
	if o.SessionGap < 0 {
		return Options{}, fmt.Errorf("%w: session gap %s", ErrInvalidOptions, o.SessionGap)
	}
	if o.ActiveThreshold < 0 {
		return Options{}, fmt.Errorf("%w: active threshold %s", ErrInvalidOptions, o.ActiveThreshold)
	}
	if o.SessionGap == 0 {
		o.SessionGap = DefaultSessionGap
	}
	if o.ActiveThreshold == 0 {
		o.ActiveThreshold = DefaultActiveThreshold
	}
	return o, nil
}
