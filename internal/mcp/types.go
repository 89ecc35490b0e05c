package mcp

import (
	"time"

	"github.com/rpggio/recipe-activity/internal/domain/activity"
	"github.com/rpggio/recipe-activity/internal/domain/session"
)

type LogActivityParams struct {
	Username       string `json:"username" jsonschema:"user who performed the action"`
	Role           string `json:"role,omitempty" jsonschema:"role of the user, e.g. admin or user"`
	ActivityType   string `json:"activity_type" jsonschema:"activity type such as login, logout or page_navigation"`
	Endpoint       string `json:"endpoint,omitempty" jsonschema:"route visited, for page_navigation events"`
	ResponseTimeMs *int64 `json:"response_time_ms,omitempty" jsonschema:"server response time in milliseconds"`
	CreatedAt      string `json:"created_at,omitempty" jsonschema:"RFC 3339 timestamp; defaults to now"`
}

type ListActivityParams struct {
	Username     string `json:"username,omitempty" jsonschema:"only events by this user"`
	ActivityType string `json:"activity_type,omitempty" jsonschema:"only events of this type"`
	Since        string `json:"since,omitempty" jsonschema:"RFC 3339 lower bound on the event timestamp"`
	Limit        int    `json:"limit,omitempty" jsonschema:"maximum number of events"`
	Offset       int    `json:"offset,omitempty" jsonschema:"number of events to skip"`
}

type DeleteActivityParams struct {
	IDs []string `json:"ids" jsonschema:"ids of the events to delete"`
}

type ListSessionsParams struct {
	Status        string `json:"status,omitempty" jsonschema:"active, completed or expired"`
	Username      string `json:"username,omitempty" jsonschema:"only sessions of this user"`
	Search        string `json:"search,omitempty" jsonschema:"case-insensitive match on username, role or page names"`
	Limit         int    `json:"limit,omitempty" jsonschema:"maximum number of sessions"`
	IncludeEvents bool   `json:"include_events,omitempty" jsonschema:"include each session's events"`
}

type SessionIDParams struct {
	ID string `json:"id" jsonschema:"session id as returned by list_sessions"`
}

type SessionStatsParams struct{}

type ScaleQuantityParams struct {
	Amount       string `json:"amount" jsonschema:"amount as a decimal, fraction or mixed number, e.g. 1 1/2"`
	FromServings int    `json:"from_servings" jsonschema:"servings the amount was written for"`
	ToServings   int    `json:"to_servings" jsonschema:"servings to scale to"`
}

type EventResponse struct {
	ID             string `json:"id"`
	Username       string `json:"username"`
	Role           string `json:"role"`
	ActivityType   string `json:"activity_type"`
	Endpoint       string `json:"endpoint,omitempty"`
	ResponseTimeMs *int64 `json:"response_time_ms,omitempty"`
	CreatedAt      string `json:"created_at"`
}

type ListActivityResponse struct {
	Events []EventResponse `json:"events"`
}

type DeleteResultResponse struct {
	Succeeded int      `json:"succeeded"`
	Failed    int      `json:"failed"`
	FailedIDs []string `json:"failed_ids"`
}

type SessionResponse struct {
	ID                string          `json:"id"`
	Username          string          `json:"username"`
	Role              string          `json:"role"`
	Status            string          `json:"status"`
	StartTime         string          `json:"start_time"`
	LastActivity      string          `json:"last_activity"`
	EndTime           string          `json:"end_time,omitempty"`
	DurationMs        int64           `json:"duration_ms"`
	EventCount        int             `json:"event_count"`
	PageVisitCount    int             `json:"page_visit_count"`
	PagesVisited      []string        `json:"pages_visited"`
	ManuallyCompleted bool            `json:"manually_completed,omitempty"`
	Events            []EventResponse `json:"events,omitempty"`
}

type ListSessionsResponse struct {
	Sessions []SessionResponse `json:"sessions"`
	Total    int               `json:"total"`
}

type SessionStatsResponse struct {
	TotalSessions     int   `json:"total_sessions"`
	ActiveSessions    int   `json:"active_sessions"`
	CompletedSessions int   `json:"completed_sessions"`
	ExpiredSessions   int   `json:"expired_sessions"`
	UniqueUsers       int   `json:"unique_users"`
	TotalEvents       int   `json:"total_events"`
	TotalPageVisits   int   `json:"total_page_visits"`
	AverageDurationMs int64 `json:"average_duration_ms"`
}

type ScaleQuantityResponse struct {
	Amount    float64 `json:"amount"`
	Scaled    float64 `json:"scaled"`
	Formatted string  `json:"formatted"`
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func toEventResponse(e activity.Event) EventResponse {
	resp := EventResponse{
		ID:           e.ID,
		Username:     e.Username,
		Role:         e.Role,
		ActivityType: string(e.ActivityType),
		Endpoint:     e.Endpoint(),
		CreatedAt:    formatTime(e.CreatedAt),
	}
	if e.Details != nil {
		resp.ResponseTimeMs = e.Details.ResponseTimeMs
	}
	return resp
}

func toEventResponses(events []activity.Event) []EventResponse {
	out := make([]EventResponse, 0, len(events))
	for _, e := range events {
		out = append(out, toEventResponse(e))
	}
	return out
}

func toSessionResponse(s session.Session, includeEvents bool) SessionResponse {
	resp := SessionResponse{
		ID:                s.ID,
		Username:          s.Username,
		Role:              s.Role,
		Status:            string(s.Status),
		StartTime:         formatTime(s.StartTime),
		LastActivity:      formatTime(s.LastActivity),
		DurationMs:        s.DurationMs,
		EventCount:        s.EventCount(),
		PageVisitCount:    s.PageVisitCount,
		PagesVisited:      s.PagesVisited,
		ManuallyCompleted: s.ManuallyCompleted,
	}
	if resp.PagesVisited == nil {
		resp.PagesVisited = []string{}
	}
	if s.EndTime != nil {
		resp.EndTime = formatTime(*s.EndTime)
	}
	if includeEvents {
		resp.Events = toEventResponses(s.Events)
	}
	return resp
}

func toDeleteResultResponse(r activity.DeleteResult) DeleteResultResponse {
	failed := r.FailedIDs
	if failed == nil {
		failed = []string{}
	}
	return DeleteResultResponse{Succeeded: r.Succeeded, Failed: r.Failed, FailedIDs: failed}
}

func toStatsResponse(s session.Stats) SessionStatsResponse {
	return SessionStatsResponse{
		TotalSessions:     s.TotalSessions,
		ActiveSessions:    s.ActiveSessions,
		CompletedSessions: s.CompletedSessions,
		ExpiredSessions:   s.ExpiredSessions,
		UniqueUsers:       s.UniqueUsers,
		TotalEvents:       s.TotalEvents,
		TotalPageVisits:   s.TotalPageVisits,
		AverageDurationMs: s.AverageDurationMs,
	}
}
