package feed

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/rpggio/recipe-activity/internal/domain/activity"
)

// wireEvent is the upstream representation of one activity record. The
// user may be nested or flattened onto the event, and ids may be numeric.
type wireEvent struct {
	ID           json.RawMessage `json:"id"`
	User         *wireUser       `json:"user"`
	Username     string          `json:"username"`
	Role         string          `json:"role"`
	ActivityType string          `json:"activity_type"`
	Details      json.RawMessage `json:"details"`
	CreatedAt    string          `json:"created_at"`
}

type wireUser struct {
	Username string `json:"username"`
	Role     string `json:"role"`
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
}

// DecodeEvents reads a JSON array of upstream activity records.
// Any record with an unparseable timestamp fails the whole decode.
func DecodeEvents(r io.Reader) ([]activity.Event, error) {
	var wire []wireEvent
	if err := json.NewDecoder(r).Decode(&wire); err != nil {
		return nil, fmt.Errorf("%w: decoding activity feed: %v", ErrMalformed, err)
	}

	events := make([]activity.Event, 0, len(wire))
	for i, w := range wire {
		event, err := w.toEvent()
		if err != nil {
			return nil, fmt.Errorf("%w: record %d: %v", ErrMalformed, i, err)
		}
		events = append(events, event)
	}
	return events, nil
}

func (w wireEvent) toEvent() (activity.Event, error) {
	id, err := decodeID(w.ID)
	if err != nil {
		return activity.Event{}, err
	}
	createdAt, err := parseTime(w.CreatedAt)
	if err != nil {
		return activity.Event{}, err
	}
	details, err := decodeDetails(w.Details)
	if err != nil {
		return activity.Event{}, err
	}

	event := activity.Event{
		ID:           id,
		Username:     w.Username,
		Role:         w.Role,
		ActivityType: activity.ActivityType(w.ActivityType),
		Details:      details,
		CreatedAt:    createdAt,
	}
	if w.User != nil {
		event.Username = w.User.Username
		event.Role = w.User.Role
	}
	return event, nil
}

func decodeID(raw json.RawMessage) (string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || string(raw) == "null" {
		return "", nil
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", fmt.Errorf("id: %v", err)
		}
		return s, nil
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return "", fmt.Errorf("id: %v", err)
	}
	return n.String(), nil
}

// decodeDetails accepts an object or a string holding a JSON object.
func decodeDetails(raw json.RawMessage) (*activity.Details, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	if raw[0] == '"' {
		var inner string
		if err := json.Unmarshal(raw, &inner); err != nil {
			return nil, fmt.Errorf("details: %v", err)
		}
		if strings.TrimSpace(inner) == "" {
			return nil, nil
		}
		raw = json.RawMessage(inner)
	}
	var details activity.Details
	if err := json.Unmarshal(raw, &details); err != nil {
		return nil, fmt.Errorf("details: %v", err)
	}
	return &details, nil
}

func parseTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("created_at: missing")
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("created_at: unparseable %q", s)
}
