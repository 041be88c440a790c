package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsConfig configures the Prometheus metrics.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "funday").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for request duration.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// MetricsOption configures the Prometheus metrics.
type MetricsOption func(*MetricsConfig)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) MetricsOption {
	return func(c *MetricsConfig) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the histogram buckets.
func WithBuckets(buckets []float64) MetricsOption {
	return func(c *MetricsConfig) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) MetricsOption {
	return func(c *MetricsConfig) {
		c.Registry = registry
	}
}

// defaultMetricsConfig returns the default metrics configuration.
func defaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Namespace:   "funday",
		Subsystem:   "",
		ConstLabels: nil,
		Buckets:     prometheus.DefBuckets,
		Registry:    prometheus.DefaultRegisterer,
	}
}

// unmatchedRoute labels requests chi could not route, so arbitrary paths
// cannot grow label cardinality.
const unmatchedRoute = "unmatched"

// Metrics holds the site's Prometheus collectors.
type Metrics struct {
	requestsTotal       *prometheus.CounterVec
	requestDuration     *prometheus.HistogramVec
	submissionsTotal    *prometheus.CounterVec
	submissionsInFlight prometheus.Gauge
	submissionDuration  prometheus.Histogram
	liveConnections     prometheus.Gauge
	liveMessages        *prometheus.CounterVec
	liveErrors          *prometheus.CounterVec
}

// NewMetrics creates and registers the collectors. Registering twice on the
// same registry panics, as with any promauto collector.
func NewMetrics(opts ...MetricsOption) *Metrics {
	config := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&config)
	}
	factory := promauto.With(config.Registry)

	return &Metrics{
		requestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "http_requests_total",
			Help:        "Total number of HTTP requests by route and status",
			ConstLabels: config.ConstLabels,
		}, []string{"route", "status"}),

		requestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "http_request_duration_seconds",
			Help:        "HTTP request duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}, []string{"route"}),

		submissionsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "rsvp_submissions_total",
			Help:        "Total RSVP submit attempts by outcome",
			ConstLabels: config.ConstLabels,
		}, []string{"outcome"}),

		submissionsInFlight: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "rsvp_submissions_in_flight",
			Help:        "Number of RSVP submissions currently running",
			ConstLabels: config.ConstLabels,
		}),

		submissionDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "rsvp_submission_duration_seconds",
			Help:        "Time spent in the RSVP submitter",
			ConstLabels: config.ConstLabels,
			Buckets:     []float64{0.1, 0.5, 1, 1.5, 2, 5, 10},
		}),

		liveConnections: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "live_connections",
			Help:        "Number of open live form connections",
			ConstLabels: config.ConstLabels,
		}),

		liveMessages: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "live_messages_total",
			Help:        "Total live form messages received by type",
			ConstLabels: config.ConstLabels,
		}, []string{"type"}),

		liveErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "live_errors_total",
			Help:        "Total live form connection errors by type",
			ConstLabels: config.ConstLabels,
		}, []string{"type"}),
	}
}

// Handler records request count and duration. The route label is chi's
// route pattern, resolved after the request has been routed.
func (m *Metrics) Handler(next http.Handler) http.Handler {
	if m == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		route := routePattern(r)
		m.requestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
		m.requestsTotal.WithLabelValues(route, strconv.Itoa(status)).Inc()
	})
}

// routePattern returns the matched chi pattern for r.
func routePattern(r *http.Request) string {
	rctx := chi.RouteContext(r.Context())
	if rctx == nil {
		return unmatchedRoute
	}
	if p := rctx.RoutePattern(); p != "" {
		return p
	}
	return unmatchedRoute
}

// =============================================================================
// Metrics Recording Functions
// =============================================================================

// SubmissionStarted marks a submission as in flight. The returned function
// must be called once with the outcome when it finishes.
func (m *Metrics) SubmissionStarted() func(outcome string) {
	if m == nil {
		return func(string) {}
	}
	start := time.Now()
	m.submissionsInFlight.Inc()
	return func(outcome string) {
		m.submissionsInFlight.Dec()
		m.submissionDuration.Observe(time.Since(start).Seconds())
		m.submissionsTotal.WithLabelValues(outcome).Inc()
	}
}

// RecordSubmission counts a submit attempt that never reached the
// submitter, such as an invalid or busy form.
func (m *Metrics) RecordSubmission(outcome string) {
	if m != nil {
		m.submissionsTotal.WithLabelValues(outcome).Inc()
	}
}

// RecordLiveOpen records a live connection opening.
func (m *Metrics) RecordLiveOpen() {
	if m != nil {
		m.liveConnections.Inc()
	}
}

// RecordLiveClose records a live connection closing.
func (m *Metrics) RecordLiveClose() {
	if m != nil {
		m.liveConnections.Dec()
	}
}

// RecordLiveMessage records one inbound live message.
func (m *Metrics) RecordLiveMessage(msgType string) {
	if m != nil {
		m.liveMessages.WithLabelValues(msgType).Inc()
	}
}

// RecordLiveError records a live connection error, categorized to keep
// label cardinality bounded.
func (m *Metrics) RecordLiveError(err error) {
	if m != nil && err != nil {
		m.liveErrors.WithLabelValues(categorizeError(err)).Inc()
	}
}

// categorizeError returns a category for the error type.
// This prevents high-cardinality labels from error messages.
func categorizeError(err error) string {
	errStr := strings.ToLower(err.Error())
	switch {
	case strings.Contains(errStr, "timeout"):
		return "timeout"
	case strings.Contains(errStr, "close"):
		return "closed"
	case strings.Contains(errStr, "too large"), strings.Contains(errStr, "read limit"):
		return "too_large"
	case strings.Contains(errStr, "json"), strings.Contains(errStr, "invalid character"):
		return "decode"
	case strings.Contains(errStr, "websocket"):
		return "websocket"
	default:
		return "internal"
	}
}
