package mcp

import (
	"context"
	"log/slog"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/rpggio/recipe-activity/internal/domain/activity"
	"github.com/rpggio/recipe-activity/internal/domain/session"
)

// ActivityService defines activity log operations needed by MCP.
type ActivityService interface {
	LogActivity(ctx context.Context, tenantID string, event *activity.Event) error
	List(ctx context.Context, tenantID string, opts activity.ListOptions) ([]activity.Event, error)
	DeleteMany(ctx context.Context, tenantID string, ids []string) activity.DeleteResult
}

// SessionService defines session operations needed by MCP.
type SessionService interface {
	List(ctx context.Context, tenantID string, filter session.Filter) ([]session.Session, error)
	Get(ctx context.Context, tenantID, id string) (*session.Session, error)
	Stats(ctx context.Context, tenantID string) (session.Stats, error)
	Delete(ctx context.Context, tenantID, id string) (activity.DeleteResult, error)
	MarkCompleted(ctx context.Context, tenantID, id string) error
	Reopen(ctx context.Context, tenantID, id string) error
}

// Services contains all domain services needed by MCP.
type Services struct {
	Activity ActivityService
	Sessions SessionService
}

// Config contains server configuration.
type Config struct {
	Services      Services
	Resolver      TenantResolver
	AuthEnabled   bool
	DefaultTenant string
	TransportMode string // "stdio" or "http"
	Version       string
	Logger        *slog.Logger
}

// NewServer creates and configures an MCP server with all tools and middleware.
func NewServer(cfg Config) *sdkmcp.Server {
	version := cfg.Version
	if version == "" {
		version = "0.1.0"
	}
	defaultTenant := cfg.DefaultTenant
	if defaultTenant == "" {
		defaultTenant = "default"
	}

	server := sdkmcp.NewServer(&sdkmcp.Implementation{
		Name:    "recipe-activity",
		Version: version,
	}, &sdkmcp.ServerOptions{
		Instructions: serverInstructions,
		Logger:       cfg.Logger,
	})

	registerDocResources(server)

	// Stdio mode: always disable auth (local dev only)
	if cfg.TransportMode != "stdio" && cfg.AuthEnabled {
		server.AddReceivingMiddleware(authMiddleware(cfg.Resolver))
	} else {
		server.AddReceivingMiddleware(noAuthMiddleware(defaultTenant))
	}
	server.AddReceivingMiddleware(trafficLoggingMiddleware(cfg.Logger, "inbound"))
	server.AddSendingMiddleware(trafficLoggingMiddleware(cfg.Logger, "outbound"))

	registerTools(server, cfg.Services)

	return server
}
