package mcp

import (
	"context"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

const serverInstructions = `recipe-activity records what users of the recipe app do and groups it into sessions.

Core concepts:
- Activity event: one logged action (login, logout, page_navigation, view_recipe, ...) by one user at one time.
- Session: a run of one user's events with no silence longer than the session gap (2h by default).
- Status: completed if the session contains a logout or was completed manually; expired if the last
  event is older than the active threshold (10m by default); otherwise active.

Sessions are derived on every call and never stored. Deleting events can change session ids and
split or merge sessions, so always re-list after a deletion.

Typical workflow:
1) session_stats for an overview.
2) list_sessions with status, username or search to narrow down; include_events when you need detail.
3) get_session for one session; delete_session or complete_session to act on it.
4) list_activity / delete_activity to inspect or clean up raw events.

Docs:
- activity://docs/sessions (grouping and status rules)
- activity://docs/activity-types
`

type docResource struct {
	URI         string
	Name        string
	Title       string
	Description string
	Content     string
}

var docResources = []docResource{
	{
		URI:         "activity://docs/sessions",
		Name:        "docs_sessions",
		Title:       "Session reconstruction rules",
		Description: "How events are grouped into sessions and how status is decided.",
		Content: `# Session reconstruction

## Grouping
- Events are partitioned by username and sorted by timestamp. Events with equal timestamps keep their logged order.
- A new session starts when the gap to the previous event is strictly greater than the session gap.
  A gap of exactly the session gap stays in the same session.
- Every event joins a session, including unknown activity types.

## Identity
- A session id is ` + "`<username>-<start unix millis>`" + `. It is stable while the first event of the session exists.

## Status (first match wins)
1. completed: the session contains a logout event. The end time is the last event.
2. completed: the session was marked completed with complete_session.
3. expired: the last event is older than the active threshold. The end time is the last event.
4. active: otherwise. The session has no end time and its duration grows until now.

A session that contains a logout is completed even when more events follow the logout in the same session.

## Pages
page_navigation events with a known endpoint are shown by name (/recipes is "Recipes").
Unknown endpoints are shown as the raw path. Pages are deduplicated and sorted.
`,
	},
	{
		URI:         "activity://docs/activity-types",
		Name:        "docs_activity_types",
		Title:       "Activity types",
		Description: "Recognized activity types and their details.",
		Content: `# Activity types

| Type | Meaning |
|---|---|
| login | user signed in |
| logout | user signed out; completes the session |
| page_navigation | route change; details.endpoint holds the path |
| create_recipe, update_recipe, delete_recipe | recipe edits |
| view_recipe | recipe opened |
| favorite_recipe, unfavorite_recipe | favorites changed |
| search_recipes | search performed |
| upload_file | image or file upload |
| view_admin | admin screen opened |
| api_access | API call; details may carry method, status_code and response_time_ms |

Other type strings are accepted and kept as-is.
`,
	},
}

func registerDocResources(server *sdkmcp.Server) {
	for _, doc := range docResources {
		server.AddResource(&sdkmcp.Resource{
			URI:         doc.URI,
			Name:        doc.Name,
			Title:       doc.Title,
			Description: doc.Description,
			MIMEType:    "text/markdown",
			Size:        int64(len(doc.Content)),
		}, func(_ context.Context, req *sdkmcp.ReadResourceRequest) (*sdkmcp.ReadResourceResult, error) {
			uri := doc.URI
			if req != nil && req.Params != nil && req.Params.URI != "" {
				uri = req.Params.URI
			}
			return &sdkmcp.ReadResourceResult{
				Contents: []*sdkmcp.ResourceContents{{
					URI:      uri,
					MIMEType: "text/markdown",
					Text:     doc.Content,
				}},
			}, nil
		})
	}
}
