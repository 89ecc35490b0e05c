package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/rpggio/recipe-activity/internal/config"
	"github.com/rpggio/recipe-activity/internal/domain/activity"
	"github.com/rpggio/recipe-activity/internal/domain/session"
	"github.com/rpggio/recipe-activity/internal/feed"
	"github.com/rpggio/recipe-activity/internal/logging"
	"github.com/rpggio/recipe-activity/internal/mcp"
	"github.com/rpggio/recipe-activity/internal/metrics"
	"github.com/rpggio/recipe-activity/internal/sqlite"
	"github.com/rpggio/recipe-activity/internal/transport"
)

var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	// Use stderr for logs in stdio mode to keep stdout clean for JSON-RPC.
	logWriter := io.Writer(os.Stdout)
	if cfg.Transport.Mode == "stdio" {
		logWriter = os.Stderr
	}
	logger, logCloser, err := logging.New(cfg.Log, logWriter)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logging error: %v\n", err)
		os.Exit(1)
	}
	defer logCloser.Close()

	if err := run(cfg, logger); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, logger *slog.Logger) error {
	if err := ensureDBDir(cfg.DB.Path); err != nil {
		return fmt.Errorf("prepare database path: %w", err)
	}

	db, err := sqlite.New(cfg.DB.Path)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.RunMigrations(); err != nil {
		return err
	}

	activityRepo := sqlite.NewActivityRepository(db)
	overrideRepo := sqlite.NewOverrideRepository(db)
	apiKeys := sqlite.NewAPIKeyRepository(db)

	source, err := eventSource(cfg.Feed, activityRepo, logger)
	if err != nil {
		return err
	}

	collector, err := metrics.NewCollector()
	if err != nil {
		return fmt.Errorf("create metrics collector: %w", err)
	}

	activitySvc := activity.NewService(activityRepo, logger)
	sessionSvc := session.NewService(source, overrideRepo, session.Settings{
		Options: session.Options{
			SessionGap:      cfg.Sessions.Gap,
			ActiveThreshold: cfg.Sessions.ActiveThreshold,
		},
		FetchLimit: cfg.Sessions.FetchLimit,
		Observer:   collector,
	}, logger)

	resolver := transport.ChainResolver{apiKeys}
	if cfg.Auth.JWTSecret != "" {
		resolver = append(resolver, transport.NewJWTResolver([]byte(cfg.Auth.JWTSecret), cfg.Auth.JWTIssuer))
	}

	mcpServer := mcp.NewServer(mcp.Config{
		Services: mcp.Services{
			Activity: activitySvc,
			Sessions: sessionSvc,
		},
		Resolver:      resolver,
		AuthEnabled:   cfg.Auth.Enabled,
		DefaultTenant: cfg.Auth.DefaultTenant,
		TransportMode: cfg.Transport.Mode,
		Version:       version,
		Logger:        logger,
	})

	if cfg.Transport.Mode == "stdio" {
		return runStdioMode(logger, mcpServer)
	}

	auth := transport.StaticTenantMiddleware(cfg.Auth.DefaultTenant)
	if cfg.Auth.Enabled {
		auth = transport.AuthMiddleware(resolver)
	}
	mcpHandler := sdkmcp.NewStreamableHTTPHandler(
		func(r *http.Request) *sdkmcp.Server { return mcpServer },
		&sdkmcp.StreamableHTTPOptions{
			Stateless:      false,
			SessionTimeout: 30 * time.Minute,
		},
	)
	router := transport.NewServer(transport.Config{
		Activity:   activitySvc,
		Sessions:   sessionSvc,
		Auth:       auth,
		Instrument: collector.InstrumentHandler,
		Metrics:    collector.Handler(),
		MCP:        mcpHandler,
		Logger:     logger,
	})
	return runHTTPMode(logger, router, cfg.Server.Host, cfg.Server.Port, cfg.Auth.Enabled)
}

func eventSource(cfg config.FeedConfig, local *sqlite.ActivityRepository, logger *slog.Logger) (session.EventSource, error) {
	if cfg.Mode != "remote" {
		return local, nil
	}
	client, err := feed.New(feed.Config{
		BaseURL:   cfg.BaseURL,
		Token:     cfg.Token,
		Timeout:   cfg.Timeout,
		DeleteRPS: cfg.DeleteRPS,
	}, logger)
	if err != nil {
		return nil, err
	}
	logger.Info("reconstructing sessions from remote feed", "base_url", cfg.BaseURL)
	return client, nil
}

func runStdioMode(logger *slog.Logger, mcpServer *sdkmcp.Server) error {
	logger.Info("starting stdio transport", "auth", "disabled")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Run blocks until stdin closes or context is canceled
	if err := mcpServer.Run(ctx, &sdkmcp.StdioTransport{}); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("stdio server: %w", err)
	}
	logger.Info("shutting down")
	return nil
}

func runHTTPMode(logger *slog.Logger, handler http.Handler, host string, port int, authEnabled bool) error {
	addr := fmt.Sprintf("%s:%d", host, port)
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", addr, "auth", authEnabled)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return err
	case <-stop:
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	logger.Info("shutting down")
	if err := httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func ensureDBDir(path string) error {
	if path == ":memory:" || path == "" {
		return nil
	}
	dir := filepath.Dir(path)
	if dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
