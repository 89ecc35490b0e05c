package testserver

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/require"

	"github.com/rpggio/recipe-activity/internal/domain/activity"
	"github.com/rpggio/recipe-activity/internal/domain/session"
	"github.com/rpggio/recipe-activity/internal/mcp"
	"github.com/rpggio/recipe-activity/internal/metrics"
	"github.com/rpggio/recipe-activity/internal/sqlite"
	"github.com/rpggio/recipe-activity/internal/transport"
)

// JWTSecret signs tokens accepted by every test server.
const JWTSecret = "test-jwt-secret"

// TestServer runs the full HTTP stack (REST, MCP and metrics) over a
// per-test in-memory database with a controllable clock.
type TestServer struct {
	Server   *httptest.Server
	DB       *sqlite.DB
	Token    string
	TenantID string
	JWT      *transport.JWTResolver

	mu  sync.Mutex
	now time.Time
}

func New(t *testing.T, token, tenantID string) *TestServer {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := sqlite.New(dsn)
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations())

	ts := &TestServer{
		DB:       db,
		Token:    token,
		TenantID: tenantID,
		JWT:      transport.NewJWTResolver([]byte(JWTSecret), "recipe-activity-test"),
		now:      time.Now().UTC(),
	}

	events := sqlite.NewActivityRepository(db)
	overrides := sqlite.NewOverrideRepository(db)
	keys := sqlite.NewAPIKeyRepository(db)

	collector, err := metrics.NewCollector()
	require.NoError(t, err)

	activitySvc := activity.NewService(events, nil)
	sessionSvc := session.NewService(events, overrides, session.Settings{
		Options:  session.DefaultOptions(),
		Clock:    ts.Now,
		Observer: collector,
	}, nil)

	resolver := transport.ChainResolver{keys, ts.JWT}
	mcpServer := mcp.NewServer(mcp.Config{
		Services:      mcp.Services{Activity: activitySvc, Sessions: sessionSvc},
		Resolver:      resolver,
		AuthEnabled:   true,
		TransportMode: "http",
	})
	mcpHandler := sdkmcp.NewStreamableHTTPHandler(
		func(*http.Request) *sdkmcp.Server { return mcpServer },
		&sdkmcp.StreamableHTTPOptions{SessionTimeout: time.Minute},
	)

	ts.Server = httptest.NewServer(transport.NewServer(transport.Config{
		Activity:   activitySvc,
		Sessions:   sessionSvc,
		Auth:       transport.AuthMiddleware(resolver),
		Instrument: collector.InstrumentHandler,
		Metrics:    collector.Handler(),
		MCP:        mcpHandler,
	}))

	require.NoError(t, keys.Create(context.Background(), token, tenantID, "test server"))

	t.Cleanup(func() {
		ts.Server.Close()
		_ = db.Close()
	})

	return ts
}

// AddAPIKey registers another bearer token for tenantID.
func (ts *TestServer) AddAPIKey(token, tenantID string) error {
	return sqlite.NewAPIKeyRepository(ts.DB).Create(context.Background(), token, tenantID, "")
}

// Now is the clock the session service reconstructs against.
func (ts *TestServer) Now() time.Time {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	return ts.now
}

// SetNow moves the server clock.
func (ts *TestServer) SetNow(now time.Time) {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	ts.now = now
}
