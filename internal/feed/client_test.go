package feed

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/rpggio/recipe-activity/internal/domain/activity"
	"github.com/rpggio/recipe-activity/internal/repository"
)

type upstream struct {
	mu      sync.Mutex
	events  map[string]string
	order   []string
	deleted []string
	auth    []string
	limits  []string
}

func newUpstream() *upstream {
	u := &upstream{events: map[string]string{}}
	for i := 1; i <= 3; i++ {
		id := fmt.Sprint(i)
		u.order = append(u.order, id)
		u.events[id] = fmt.Sprintf(
			`{"id": %d, "user": {"username": "alice", "role": "admin"}, "activity_type": "page_navigation", "details": {"endpoint": "/recipes"}, "created_at": "2024-05-01T09:0%d:00Z"}`,
			i, 4-i)
	}
	return u
}

func (u *upstream) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.auth = append(u.auth, r.Header.Get("Authorization"))

	switch {
	case r.Method == http.MethodGet && r.URL.Path == "/api/activities":
		u.limits = append(u.limits, r.URL.Query().Get("limit"))
		parts := []string{}
		for _, id := range u.order {
			if body, ok := u.events[id]; ok {
				parts = append(parts, body)
			}
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, "[%s]", strings.Join(parts, ","))
	case r.Method == http.MethodDelete && strings.HasPrefix(r.URL.Path, "/api/activities/"):
		id := strings.TrimPrefix(r.URL.Path, "/api/activities/")
		if id == "boom" {
			http.Error(w, "database unavailable", http.StatusInternalServerError)
			return
		}
		if _, ok := u.events[id]; !ok {
			http.NotFound(w, r)
			return
		}
		delete(u.events, id)
		u.deleted = append(u.deleted, id)
		w.WriteHeader(http.StatusNoContent)
	default:
		http.NotFound(w, r)
	}
}

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := New(Config{BaseURL: server.URL + "/", Token: "secret", DeleteRPS: 1000}, nil)
	require.NoError(t, err)
	return client
}

func TestClient_List(t *testing.T) {
	up := newUpstream()
	client := newTestClient(t, up)

	events, err := client.List(context.Background(), "tenant1", activity.ListOptions{Limit: 2})
	require.NoError(t, err)
	require.Len(t, events, 2)
	require.Equal(t, "1", events[0].ID)
	require.Equal(t, "alice", events[0].Username)
	require.Equal(t, []string{"2"}, up.limits)
	require.Equal(t, []string{"Bearer secret"}, up.auth)
}

func TestClient_ListAppliesFilters(t *testing.T) {
	client := newTestClient(t, newUpstream())
	since := time.Date(2024, 5, 1, 9, 2, 0, 0, time.UTC)

	events, err := client.List(context.Background(), "", activity.ListOptions{Since: &since})
	require.NoError(t, err)
	require.Len(t, events, 2)

	events, err = client.List(context.Background(), "", activity.ListOptions{Username: "bob"})
	require.NoError(t, err)
	require.Empty(t, events)

	events, err = client.List(context.Background(), "", activity.ListOptions{Offset: 5})
	require.NoError(t, err)
	require.Empty(t, events)
}

func TestClient_ListUpstreamFailure(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusServiceUnavailable)
	}))

	_, err := client.List(context.Background(), "", activity.ListOptions{})
	require.ErrorIs(t, err, ErrUpstream)
	require.Contains(t, err.Error(), "503")
}

func TestClient_ListMalformedTimestamp(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[{"id": 1, "username": "alice", "activity_type": "login", "created_at": "not a time"}]`)
	}))

	_, err := client.List(context.Background(), "", activity.ListOptions{})
	require.ErrorIs(t, err, ErrMalformed)
}

func TestClient_Delete(t *testing.T) {
	up := newUpstream()
	client := newTestClient(t, up)
	ctx := context.Background()

	require.NoError(t, client.Delete(ctx, "", "2"))
	require.ErrorIs(t, client.Delete(ctx, "", "2"), repository.ErrNotFound)
	require.ErrorIs(t, client.Delete(ctx, "", "boom"), ErrUpstream)
	require.Equal(t, []string{"2"}, up.deleted)
}

func TestClient_DeleteEachContinuesPastFailures(t *testing.T) {
	up := newUpstream()
	client := newTestClient(t, up)

	result := activity.DeleteEach(context.Background(), client, "", []string{"1", "boom", "3", "missing"}, nil)
	require.Equal(t, 2, result.Succeeded)
	require.Equal(t, 2, result.Failed)
	require.Equal(t, []string{"boom", "missing"}, result.FailedIDs)
	require.Equal(t, []string{"1", "3"}, up.deleted)
}

func TestClient_DeleteRespectsContext(t *testing.T) {
	client, err := New(Config{BaseURL: "http://127.0.0.1:1", DeleteRPS: 0.001}, nil)
	require.NoError(t, err)
	// Drain the single burst token so the next wait blocks.
	require.True(t, client.limiter.Allow())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	require.Error(t, client.Delete(ctx, "", "1"))
}

func TestNew_InvalidBaseURL(t *testing.T) {
	_, err := New(Config{BaseURL: "not a url"}, nil)
	require.Error(t, err)
}
