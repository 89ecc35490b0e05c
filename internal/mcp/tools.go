package mcp

import (
	"context"
	"fmt"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/rpggio/recipe-activity/internal/domain/activity"
	"github.com/rpggio/recipe-activity/internal/domain/quantity"
	"github.com/rpggio/recipe-activity/internal/domain/session"
)

func registerTools(server *sdkmcp.Server, svc Services) {
	// Activity log
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "log_activity",
		Description: "Record one user activity event",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, in LogActivityParams) (*sdkmcp.CallToolResult, EventResponse, error) {
		event := activity.Event{
			Username:     in.Username,
			Role:         in.Role,
			ActivityType: activity.ActivityType(in.ActivityType),
		}
		if in.Endpoint != "" || in.ResponseTimeMs != nil {
			event.Details = &activity.Details{Endpoint: in.Endpoint, ResponseTimeMs: in.ResponseTimeMs}
		}
		if in.CreatedAt != "" {
			ts, err := parseTime("created_at", in.CreatedAt)
			if err != nil {
				return nil, EventResponse{}, toolError(err)
			}
			event.CreatedAt = ts
		}
		if err := svc.Activity.LogActivity(ctx, getTenantID(ctx), &event); err != nil {
			return nil, EventResponse{}, toolError(err)
		}
		return nil, toEventResponse(event), nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "list_activity",
		Description: "List raw activity events, newest first",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, in ListActivityParams) (*sdkmcp.CallToolResult, ListActivityResponse, error) {
		opts := activity.ListOptions{Username: in.Username, Limit: in.Limit, Offset: in.Offset}
		if in.ActivityType != "" {
			t := activity.ActivityType(in.ActivityType)
			opts.ActivityType = &t
		}
		if in.Since != "" {
			since, err := parseTime("since", in.Since)
			if err != nil {
				return nil, ListActivityResponse{}, toolError(err)
			}
			opts.Since = &since
		}
		events, err := svc.Activity.List(ctx, getTenantID(ctx), opts)
		if err != nil {
			return nil, ListActivityResponse{}, toolError(err)
		}
		return nil, ListActivityResponse{Events: toEventResponses(events)}, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "delete_activity",
		Description: "Delete activity events by id. Each deletion is independent; failures are reported, not fatal",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, in DeleteActivityParams) (*sdkmcp.CallToolResult, DeleteResultResponse, error) {
		if len(in.IDs) == 0 {
			return nil, DeleteResultResponse{}, toolError(fmt.Errorf("%w: ids required", activity.ErrInvalidInput))
		}
		result := svc.Activity.DeleteMany(ctx, getTenantID(ctx), in.IDs)
		return nil, toDeleteResultResponse(result), nil
	})

	// Sessions
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "list_sessions",
		Description: "Reconstruct user sessions from the activity log, newest first",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, in ListSessionsParams) (*sdkmcp.CallToolResult, ListSessionsResponse, error) {
		sessions, err := svc.Sessions.List(ctx, getTenantID(ctx), session.Filter{
			Status:   session.SessionStatus(in.Status),
			Username: in.Username,
			Search:   in.Search,
			Limit:    in.Limit,
		})
		if err != nil {
			return nil, ListSessionsResponse{}, toolError(err)
		}
		out := ListSessionsResponse{Sessions: make([]SessionResponse, 0, len(sessions)), Total: len(sessions)}
		for _, s := range sessions {
			out.Sessions = append(out.Sessions, toSessionResponse(s, in.IncludeEvents))
		}
		return nil, out, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_session",
		Description: "Get one session with its events",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, in SessionIDParams) (*sdkmcp.CallToolResult, SessionResponse, error) {
		sess, err := svc.Sessions.Get(ctx, getTenantID(ctx), in.ID)
		if err != nil {
			return nil, SessionResponse{}, toolError(err)
		}
		return nil, toSessionResponse(*sess, true), nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "session_stats",
		Description: "Summarize sessions: totals per status, unique users, average duration",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, _ SessionStatsParams) (*sdkmcp.CallToolResult, SessionStatsResponse, error) {
		stats, err := svc.Sessions.Stats(ctx, getTenantID(ctx))
		if err != nil {
			return nil, SessionStatsResponse{}, toolError(err)
		}
		return nil, toStatsResponse(stats), nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "delete_session",
		Description: "Delete every event of a session. Reports how many deletions succeeded and failed",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, in SessionIDParams) (*sdkmcp.CallToolResult, DeleteResultResponse, error) {
		result, err := svc.Sessions.Delete(ctx, getTenantID(ctx), in.ID)
		if err != nil {
			return nil, DeleteResultResponse{}, toolError(err)
		}
		return nil, toDeleteResultResponse(result), nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "complete_session",
		Description: "Mark a session completed even though it has no logout",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, in SessionIDParams) (*sdkmcp.CallToolResult, SessionResponse, error) {
		tenantID := getTenantID(ctx)
		if err := svc.Sessions.MarkCompleted(ctx, tenantID, in.ID); err != nil {
			return nil, SessionResponse{}, toolError(err)
		}
		return sessionAfterChange(ctx, svc.Sessions, tenantID, in.ID)
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "reopen_session",
		Description: "Remove a manual completion so the session's status is derived from its events again",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, in SessionIDParams) (*sdkmcp.CallToolResult, SessionResponse, error) {
		tenantID := getTenantID(ctx)
		if err := svc.Sessions.Reopen(ctx, tenantID, in.ID); err != nil {
			return nil, SessionResponse{}, toolError(err)
		}
		return sessionAfterChange(ctx, svc.Sessions, tenantID, in.ID)
	})

	// Recipes
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "scale_quantity",
		Description: "Scale an ingredient amount between serving counts and format it as a kitchen fraction",
	}, func(_ context.Context, _ *sdkmcp.CallToolRequest, in ScaleQuantityParams) (*sdkmcp.CallToolResult, ScaleQuantityResponse, error) {
		amount, err := quantity.Parse(in.Amount)
		if err != nil {
			return nil, ScaleQuantityResponse{}, toolError(err)
		}
		scaled, err := quantity.Scale(amount, in.FromServings, in.ToServings)
		if err != nil {
			return nil, ScaleQuantityResponse{}, toolError(err)
		}
		return nil, ScaleQuantityResponse{Amount: amount, Scaled: scaled, Formatted: quantity.Format(scaled)}, nil
	})
}

func sessionAfterChange(ctx context.Context, sessions SessionService, tenantID, id string) (*sdkmcp.CallToolResult, SessionResponse, error) {
	sess, err := sessions.Get(ctx, tenantID, id)
	if err != nil {
		return nil, SessionResponse{}, toolError(err)
	}
	return nil, toSessionResponse(*sess, false), nil
}

func parseTime(field, value string) (time.Time, error) {
	ts, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s must be RFC 3339", activity.ErrInvalidInput, field)
	}
	return ts, nil
}
