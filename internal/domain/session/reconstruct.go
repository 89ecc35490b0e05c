package session

import (
	"cmp"
	"fmt"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/rpggio/recipe-activity/internal/domain/activity"
)

// Reconstruct groups a flat, unordered event feed into per-user sessions,
// classifies each one against now, and returns them newest start first.
//
// Events are never modified. If any event lacks a username or has no
// timestamp (or one before 1970) the whole call fails with ErrInvalidEvent.
func Reconstruct(events []activity.Event, now time.Time, opts Options) ([]Session, error) {
	opts, err := opts.withDefaults()
	if err != nil {
		return nil, err
	}
	if err := validateEvents(events); err != nil {
		return nil, err
	}

	byUser := make(map[string][]activity.Event)
	var users []string
	for _, e := range events {
		if _, ok := byUser[e.Username]; !ok {
			users = append(users, e.Username)
		}
		byUser[e.Username] = append(byUser[e.Username], e)
	}

	sessions := make([]Session, 0)
	for _, username := range users {
		userEvents := byUser[username]
		// Stable: equal timestamps keep their input order.
		slices.SortStableFunc(userEvents, func(a, b activity.Event) int {
			return a.CreatedAt.Compare(b.CreatedAt)
		})
		sessions = append(sessions, segment(userEvents, opts.SessionGap)...)
	}

	for i := range sessions {
		classify(&sessions[i], now, opts)
		summarize(&sessions[i], now)
	}

	slices.SortFunc(sessions, func(a, b Session) int {
		if c := b.StartTime.Compare(a.StartTime); c != 0 {
			return c
		}
		if c := cmp.Compare(a.Username, b.Username); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return sessions, nil
}

// SessionID derives the stable id of a session from its user and first event.
// The username is path-escaped so the id is a single URL path segment, and
// the millisecond suffix is never negative, so the last "-" always separates
// the two parts.
func SessionID(username string, start time.Time) string {
	return fmt.Sprintf("%s-%d", url.PathEscape(username), start.UnixMilli())
}

var unixEpoch = time.Unix(0, 0)

func validateEvents(events []activity.Event) error {
	for i, e := range events {
		if strings.TrimSpace(e.Username) == "" {
			return fmt.Errorf("%w: event %d (id %q) has no username", ErrInvalidEvent, i, e.ID)
		}
		if e.CreatedAt.IsZero() {
			return fmt.Errorf("%w: event %d (id %q) has no timestamp", ErrInvalidEvent, i, e.ID)
		}
		if e.CreatedAt.Before(unixEpoch) {
			return fmt.Errorf("%w: event %d (id %q) predates 1970", ErrInvalidEvent, i, e.ID)
		}
	}
	return nil
}

// segment splits one user's chronologically ordered events on gaps larger than gap.
func segment(events []activity.Event, gap time.Duration) []Session {
	var out []Session
	var cur *Session
	for _, e := range events {
		if cur != nil && e.CreatedAt.Sub(cur.LastActivity) > gap {
			out = append(out, *cur)
			cur = nil
		}
		if cur == nil {
			cur = &Session{
				ID:           SessionID(e.Username, e.CreatedAt),
				Username:     e.Username,
				Role:         e.Role,
				StartTime:    e.CreatedAt,
				LastActivity: e.CreatedAt,
				Events:       []activity.Event{e},
			}
			continue
		}
		cur.Events = append(cur.Events, e)
		cur.LastActivity = e.CreatedAt
	}
	if cur != nil {
		out = append(out, *cur)
	}
	return out
}

// classify applies the status rules in priority order: logout, manual
// override, inactivity, otherwise active.
func classify(s *Session, now time.Time, opts Options) {
	end := s.LastActivity
	switch {
	case hasLogout(s.Events):
		s.Status = StatusCompleted
		s.EndTime = &end
	case opts.Overrides[s.ID]:
		s.Status = StatusCompleted
		s.ManuallyCompleted = true
		s.EndTime = &end
	case now.Sub(s.LastActivity) > opts.ActiveThreshold:
		s.Status = StatusExpired
		s.EndTime = &end
	default:
		s.Status = StatusActive
		s.EndTime = nil
	}
}

func hasLogout(events []activity.Event) bool {
	for _, e := range events {
		if e.ActivityType == activity.TypeLogout {
			return true
		}
	}
	return false
}

func summarize(s *Session, now time.Time) {
	s.DurationMs = s.DurationAt(now).Milliseconds()

	pages := make(map[string]struct{})
	for _, e := range s.Events {
		if e.ActivityType != activity.TypePageNavigation {
			continue
		}
		s.PageVisitCount++
		if endpoint := e.Endpoint(); endpoint != "" {
			pages[PageName(endpoint)] = struct{}{}
		}
	}

	s.PagesVisited = make([]string, 0, len(pages))
	for name := range pages {
		s.PagesVisited = append(s.PagesVisited, name)
	}
	slices.Sort(s.PagesVisited)
}
