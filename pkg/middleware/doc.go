// Package middleware provides the net/http middleware the site runs behind:
//
//   - Prometheus metrics for requests, RSVP submissions and live connections
//   - OpenTelemetry server spans per request
//   - Structured request logging with log/slog
//
// All three are plain func(http.Handler) http.Handler values and plug into
// chi's Use:
//
//	metrics := middleware.NewMetrics(middleware.WithRegistry(reg))
//	r := chi.NewRouter()
//	r.Use(
//	    chimw.RequestID,
//	    middleware.RequestLogger(logger),
//	    metrics.Handler,
//	    middleware.OpenTelemetry(middleware.WithRequestFilter(func(r *http.Request) bool {
//	        return r.URL.Path != "/healthz"
//	    })),
//	)
//
// # Context Propagation
//
// The OpenTelemetry middleware stores the span on the request context, so
// work started from a handler inherits the trace:
//
//	func handler(w http.ResponseWriter, r *http.Request) {
//	    out := controller.Submit(r.Context())
//	    ...
//	}
//
// A nil *Metrics is valid and records nothing, which is how metrics are
// switched off.
package middleware
