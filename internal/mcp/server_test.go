package mcp_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/require"

	"github.com/rpggio/recipe-activity/internal/domain/activity"
	"github.com/rpggio/recipe-activity/internal/domain/session"
	"github.com/rpggio/recipe-activity/internal/mcp"
	"github.com/rpggio/recipe-activity/internal/sqlite"
)

var t0 = time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

func newServices(t *testing.T) mcp.Services {
	t.Helper()

	db, err := sqlite.New(":memory:")
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations())
	t.Cleanup(func() { db.Close() })

	events := sqlite.NewActivityRepository(db)
	overrides := sqlite.NewOverrideRepository(db)

	return mcp.Services{
		Activity: activity.NewService(events, nil),
		Sessions: session.NewService(events, overrides, session.Settings{
			Options: session.DefaultOptions(),
			Clock:   func() time.Time { return t0.Add(5 * time.Minute) },
		}, nil),
	}
}

func connect(t *testing.T, cfg mcp.Config) *sdkmcp.ClientSession {
	t.Helper()
	ctx := context.Background()

	server := mcp.NewServer(cfg)
	serverTransport, clientTransport := sdkmcp.NewInMemoryTransports()
	serverSession, err := server.Connect(ctx, serverTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { serverSession.Close() })

	client := sdkmcp.NewClient(&sdkmcp.Implementation{Name: "test-client", Version: "0.0.1"}, nil)
	cs, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { cs.Close() })
	return cs
}

func call(t *testing.T, cs *sdkmcp.ClientSession, name string, args map[string]any) *sdkmcp.CallToolResult {
	t.Helper()
	res, err := cs.CallTool(context.Background(), &sdkmcp.CallToolParams{Name: name, Arguments: args})
	require.NoError(t, err)
	return res
}

func decode(t *testing.T, res *sdkmcp.CallToolResult, out any) {
	t.Helper()
	require.False(t, res.IsError, "unexpected tool error: %s", errorText(res))
	data, err := json.Marshal(res.StructuredContent)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, out))
}

func errorText(res *sdkmcp.CallToolResult) string {
	for _, c := range res.Content {
		if text, ok := c.(*sdkmcp.TextContent); ok {
			return text.Text
		}
	}
	return ""
}

func seed(t *testing.T, cs *sdkmcp.ClientSession) {
	t.Helper()
	for _, args := range []map[string]any{
		{"username": "alice", "role": "admin", "activity_type": "login", "created_at": t0.Format(time.RFC3339)},
		{"username": "alice", "role": "admin", "activity_type": "page_navigation", "endpoint": "/recipes",
			"created_at": t0.Add(time.Minute).Format(time.RFC3339)},
		{"username": "bob", "role": "user", "activity_type": "login", "created_at": t0.Add(2 * time.Minute).Format(time.RFC3339)},
		{"username": "bob", "role": "user", "activity_type": "logout", "created_at": t0.Add(3 * time.Minute).Format(time.RFC3339)},
	} {
		var event mcp.EventResponse
		decode(t, call(t, cs, "log_activity", args), &event)
		require.NotEmpty(t, event.ID)
	}
}

func TestServer_ListsTools(t *testing.T) {
	cs := connect(t, mcp.Config{Services: newServices(t), TransportMode: "stdio"})

	res, err := cs.ListTools(context.Background(), nil)
	require.NoError(t, err)

	names := map[string]bool{}
	for _, tool := range res.Tools {
		names[tool.Name] = true
	}
	for _, name := range []string{
		"log_activity", "list_activity", "delete_activity",
		"list_sessions", "get_session", "session_stats", "delete_session",
		"complete_session", "reopen_session", "scale_quantity",
	} {
		require.True(t, names[name], "missing tool %s", name)
	}
}

func TestServer_ListSessions(t *testing.T) {
	cs := connect(t, mcp.Config{Services: newServices(t), TransportMode: "stdio"})
	seed(t, cs)

	var out mcp.ListSessionsResponse
	decode(t, call(t, cs, "list_sessions", map[string]any{"include_events": true}), &out)
	require.Equal(t, 2, out.Total)

	bob, alice := out.Sessions[0], out.Sessions[1]
	require.Equal(t, "bob", bob.Username)
	require.Equal(t, "completed", bob.Status)
	require.NotEmpty(t, bob.EndTime)
	require.Equal(t, int64(time.Minute/time.Millisecond), bob.DurationMs)

	require.Equal(t, "alice", alice.Username)
	require.Equal(t, "active", alice.Status)
	require.Empty(t, alice.EndTime)
	require.Equal(t, []string{"Recipes"}, alice.PagesVisited)
	require.Equal(t, 1, alice.PageVisitCount)
	require.Len(t, alice.Events, 2)
	require.Equal(t, "alice-"+itoa(t0.UnixMilli()), alice.ID)

	var completed mcp.ListSessionsResponse
	decode(t, call(t, cs, "list_sessions", map[string]any{"status": "completed"}), &completed)
	require.Equal(t, 1, completed.Total)
	require.Empty(t, completed.Sessions[0].Events)
}

func TestServer_SessionLifecycle(t *testing.T) {
	cs := connect(t, mcp.Config{Services: newServices(t), TransportMode: "stdio"})
	seed(t, cs)
	aliceID := "alice-" + itoa(t0.UnixMilli())

	var sess mcp.SessionResponse
	decode(t, call(t, cs, "complete_session", map[string]any{"id": aliceID}), &sess)
	require.Equal(t, "completed", sess.Status)
	require.True(t, sess.ManuallyCompleted)

	var reopened mcp.SessionResponse
	decode(t, call(t, cs, "reopen_session", map[string]any{"id": aliceID}), &reopened)
	require.Equal(t, "active", reopened.Status)
	require.False(t, reopened.ManuallyCompleted)

	var stats mcp.SessionStatsResponse
	decode(t, call(t, cs, "session_stats", map[string]any{}), &stats)
	require.Equal(t, 2, stats.TotalSessions)
	require.Equal(t, 1, stats.ActiveSessions)
	require.Equal(t, 1, stats.CompletedSessions)
	require.Equal(t, 2, stats.UniqueUsers)
	require.Equal(t, 4, stats.TotalEvents)

	var deleted mcp.DeleteResultResponse
	decode(t, call(t, cs, "delete_session", map[string]any{"id": aliceID}), &deleted)
	require.Equal(t, 2, deleted.Succeeded)
	require.Equal(t, 0, deleted.Failed)
	require.Empty(t, deleted.FailedIDs)

	res := call(t, cs, "get_session", map[string]any{"id": aliceID})
	require.True(t, res.IsError)
	require.Contains(t, errorText(res), "SESSION_NOT_FOUND")
}

func TestServer_ActivityTools(t *testing.T) {
	cs := connect(t, mcp.Config{Services: newServices(t), TransportMode: "stdio"})
	seed(t, cs)

	var list mcp.ListActivityResponse
	decode(t, call(t, cs, "list_activity", map[string]any{"username": "bob"}), &list)
	require.Len(t, list.Events, 2)
	require.Equal(t, "logout", list.Events[0].ActivityType)

	var deleted mcp.DeleteResultResponse
	decode(t, call(t, cs, "delete_activity", map[string]any{"ids": []string{list.Events[0].ID, "missing"}}), &deleted)
	require.Equal(t, 1, deleted.Succeeded)
	require.Equal(t, 1, deleted.Failed)
	require.Equal(t, []string{"missing"}, deleted.FailedIDs)

	// Without the logout bob's session is no longer completed.
	var out mcp.ListSessionsResponse
	decode(t, call(t, cs, "list_sessions", map[string]any{"username": "bob"}), &out)
	require.Equal(t, 1, out.Total)
	require.Equal(t, "active", out.Sessions[0].Status)
}

func TestServer_InvalidInput(t *testing.T) {
	cs := connect(t, mcp.Config{Services: newServices(t), TransportMode: "stdio"})

	res := call(t, cs, "log_activity", map[string]any{"username": "", "activity_type": "login"})
	require.True(t, res.IsError)
	require.Contains(t, errorText(res), "INVALID_INPUT")

	res = call(t, cs, "list_sessions", map[string]any{"status": "paused"})
	require.True(t, res.IsError)
	require.Contains(t, errorText(res), "INVALID_INPUT")

	res = call(t, cs, "log_activity", map[string]any{"username": "alice", "activity_type": "login", "created_at": "yesterday"})
	require.True(t, res.IsError)
	require.Contains(t, errorText(res), "created_at")
}

func TestServer_ScaleQuantity(t *testing.T) {
	cs := connect(t, mcp.Config{Services: newServices(t), TransportMode: "stdio"})

	var out mcp.ScaleQuantityResponse
	decode(t, call(t, cs, "scale_quantity", map[string]any{"amount": "1 1/2", "from_servings": 4, "to_servings": 6}), &out)
	require.Equal(t, 1.5, out.Amount)
	require.Equal(t, 2.25, out.Scaled)
	require.Equal(t, "2 1/4", out.Formatted)

	for _, amount := range []string{"a pinch", "NaN", "-1 1/2", "1e20"} {
		res := call(t, cs, "scale_quantity", map[string]any{"amount": amount, "from_servings": 4, "to_servings": 6})
		require.True(t, res.IsError, amount)
	}
}

func TestServer_AuthRequiresHeaders(t *testing.T) {
	cs := connect(t, mcp.Config{Services: newServices(t), TransportMode: "http", AuthEnabled: true})

	_, err := cs.CallTool(context.Background(), &sdkmcp.CallToolParams{Name: "session_stats", Arguments: map[string]any{}})
	require.Error(t, err)
	require.Contains(t, err.Error(), "unauthorized")
}

func itoa(n int64) string {
	data, _ := json.Marshal(n)
	return string(data)
}
