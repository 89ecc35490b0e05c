package session_test

import (
	"testing"

	"github.com/rpggio/recipe-activity/internal/domain/session"
	"github.com/stretchr/testify/require"
)

func sampleSessions() []session.Session {
	return []session.Session{
		{ID: "alice-3", Username: "alice", Role: "admin", Status: session.StatusActive, PagesVisited: []string{"Admin Dashboard"}, DurationMs: 3000, PageVisitCount: 1},
		{ID: "bob-2", Username: "bob", Role: "user", Status: session.StatusCompleted, PagesVisited: []string{"Recipes"}, DurationMs: 1000, PageVisitCount: 2},
		{ID: "alice-1", Username: "alice", Role: "admin", Status: session.StatusExpired, PagesVisited: []string{}, DurationMs: 2000},
	}
}

func TestFilter_Apply(t *testing.T) {
	sessions := sampleSessions()

	tests := []struct {
		name   string
		filter session.Filter
		want   []string
	}{
		{"empty filter keeps all", session.Filter{}, []string{"alice-3", "bob-2", "alice-1"}},
		{"status", session.Filter{Status: session.StatusCompleted}, []string{"bob-2"}},
		{"username is case insensitive", session.Filter{Username: "ALICE"}, []string{"alice-3", "alice-1"}},
		{"search by page", session.Filter{Search: "recipes"}, []string{"bob-2"}},
		{"search by role", session.Filter{Search: "adm"}, []string{"alice-3", "alice-1"}},
		{"limit", session.Filter{Limit: 2}, []string{"alice-3", "bob-2"}},
		{"combined", session.Filter{Username: "alice", Status: session.StatusExpired}, []string{"alice-1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.filter.Apply(sessions)
			ids := make([]string, 0, len(got))
			for _, s := range got {
				ids = append(ids, s.ID)
			}
			require.Equal(t, tt.want, ids)
		})
	}
}

func TestSummarize(t *testing.T) {
	stats := session.Summarize(sampleSessions())
	require.Equal(t, 3, stats.TotalSessions)
	require.Equal(t, 1, stats.ActiveSessions)
	require.Equal(t, 1, stats.CompletedSessions)
	require.Equal(t, 1, stats.ExpiredSessions)
	require.Equal(t, 2, stats.UniqueUsers)
	require.Equal(t, 3, stats.TotalPageVisits)
	require.Equal(t, int64(2000), stats.AverageDurationMs)

	require.Equal(t, session.Stats{}, session.Summarize(nil))
}

func TestPageName(t *testing.T) {
	require.Equal(t, "Dashboard", session.PageName("/"))
	require.Equal(t, "Activity Tracker", session.PageName("/admin/activities"))
	require.Equal(t, "Add Recipe", session.PageName("/add-recipe"))
	require.Equal(t, "/recipes/7/edit", session.PageName("/recipes/7/edit"))
}
