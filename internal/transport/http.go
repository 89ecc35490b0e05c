package transport

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/rpggio/recipe-activity/internal/domain/activity"
	"github.com/rpggio/recipe-activity/internal/domain/session"
)

// Config wires the HTTP server.
type Config struct {
	Activity *activity.Service
	Sessions *session.Service

	// Auth guards /api and /mcp. Nil leaves them open.
	Auth func(http.Handler) http.Handler
	// Instrument wraps the whole router, typically with request metrics.
	Instrument func(http.Handler) http.Handler
	// Metrics is served unauthenticated at /metrics when set.
	Metrics http.Handler
	// MCP is mounted at /mcp when set.
	MCP http.Handler

	Logger *slog.Logger
}

// Server wires HTTP handlers.
type Server struct {
	activity *activity.Service
	sessions *session.Service
	logger   *slog.Logger
}

// NewServer creates an HTTP server router with middleware.
func NewServer(cfg Config) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	if cfg.Instrument != nil {
		r.Use(cfg.Instrument)
	}

	srv := &Server{
		activity: cfg.Activity,
		sessions: cfg.Sessions,
		logger:   cfg.Logger,
	}

	r.Get("/health", srv.handleHealth)
	if cfg.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", cfg.Metrics)
	}

	r.Group(func(r chi.Router) {
		if cfg.Auth != nil {
			r.Use(cfg.Auth)
		}

		r.Route("/api", func(r chi.Router) {
			r.Route("/activities", func(r chi.Router) {
				r.Post("/", srv.handleLogActivity)
				r.Get("/", srv.handleListActivity)
				r.Post("/bulk-delete", srv.handleDeleteActivities)
				r.Delete("/{id}", srv.handleDeleteActivity)
			})
			r.Route("/sessions", func(r chi.Router) {
				r.Get("/", srv.handleListSessions)
				r.Get("/stats", srv.handleSessionStats)
				r.Get("/{id}", srv.handleGetSession)
				r.Delete("/{id}", srv.handleDeleteSession)
				r.Post("/{id}/complete", srv.handleCompleteSession)
				r.Delete("/{id}/complete", srv.handleReopenSession)
			})
			r.Get("/quantities/scale", srv.handleScaleQuantity)
		})

		if cfg.MCP != nil {
			r.Handle("/mcp", cfg.MCP)
		}
	})

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// tenant returns the request's tenant or writes a 401.
func (s *Server) tenant(w http.ResponseWriter, r *http.Request) (string, bool) {
	tenantID, ok := TenantFromContext(r.Context())
	if !ok || tenantID == "" {
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing tenant")
		return "", false
	}
	return tenantID, true
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status, _ := statusFor(err)
	if status >= http.StatusInternalServerError && s.logger != nil {
		s.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	}
	writeDomainError(w, err)
}
