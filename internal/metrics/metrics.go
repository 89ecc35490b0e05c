package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rpggio/recipe-activity/internal/domain/session"
)

const namespace = "recipe_activity"

// Collector exposes Prometheus metrics for inbound HTTP requests and
// session reconstruction.
type Collector struct {
	registry        *prometheus.Registry
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec

	sessions             *prometheus.GaugeVec
	eventsProcessed      prometheus.Counter
	reconstructDuration  prometheus.Histogram
	reconstructionsTotal prometheus.Counter
}

// NewCollector constructs a collector on its own registry.
func NewCollector() (*Collector, error) {
	registry := prometheus.NewRegistry()

	c := &Collector{
		registry: registry,
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Latency distribution for inbound HTTP requests.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "path", "status"}),
		requestTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of inbound HTTP requests.",
		}, []string{"method", "path", "status"}),
		sessions: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "sessions",
			Name:      "current",
			Help:      "Sessions by status in the most recent reconstruction of each tenant.",
		}, []string{"tenant", "status"}),
		eventsProcessed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sessions",
			Name:      "events_processed_total",
			Help:      "Activity events fed into session reconstruction.",
		}),
		reconstructDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "sessions",
			Name:      "reconstruction_duration_seconds",
			Help:      "Time spent grouping events into sessions.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
		}),
		reconstructionsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sessions",
			Name:      "reconstructions_total",
			Help:      "Number of session reconstructions performed.",
		}),
	}

	for _, collector := range []prometheus.Collector{
		c.requestDuration,
		c.requestTotal,
		c.sessions,
		c.eventsProcessed,
		c.reconstructDuration,
		c.reconstructionsTotal,
	} {
		if err := registry.Register(collector); err != nil {
			return nil, err
		}
	}

	return c, nil
}

// Handler returns an HTTP handler for exposing Prometheus metrics.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// InstrumentHandler wraps the provided handler to record HTTP metrics.
// Requests routed by chi are labelled with their route pattern.
func (c *Collector) InstrumentHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		rw := &responseWriter{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rw, r)

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(rw.status)
		path := routePattern(r)

		c.requestTotal.WithLabelValues(r.Method, path, status).Inc()
		c.requestDuration.WithLabelValues(r.Method, path, status).Observe(duration)
	})
}

// ObserveReconstruction implements session.Observer.
func (c *Collector) ObserveReconstruction(tenantID string, eventCount int, sessions []session.Session, elapsed time.Duration) {
	counts := map[session.SessionStatus]int{
		session.StatusActive:    0,
		session.StatusCompleted: 0,
		session.StatusExpired:   0,
	}
	for _, s := range sessions {
		counts[s.Status]++
	}
	for status, n := range counts {
		c.sessions.WithLabelValues(tenantID, string(status)).Set(float64(n))
	}
	c.eventsProcessed.Add(float64(eventCount))
	c.reconstructDuration.Observe(elapsed.Seconds())
	c.reconstructionsTotal.Inc()
}

func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if pattern := rctx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return "unmatched"
}

type responseWriter struct {
	http.ResponseWriter
	status int
}

func (w *responseWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

// Flush lets streaming handlers (MCP over HTTP) flush through the wrapper.
func (w *responseWriter) Flush() {
	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}
