// Package site serves the event website: the home, details, RSVP and
// confirmation pages, the live form endpoint, static assets, health and
// metrics.
//
// Pages are rendered server-side, so the RSVP form works without
// JavaScript: every rendered form gets a token whose controller lives in a
// FormRegistry, and POST /rsvp submits through it. With JavaScript the same
// form upgrades to the live channel on /live.
package site

import (
	"html/template"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vmtco/funday/internal/config"
	"github.com/vmtco/funday/pkg/content"
	"github.com/vmtco/funday/pkg/live"
	"github.com/vmtco/funday/pkg/middleware"
	"github.com/vmtco/funday/pkg/rsvp"
)

// Options configures a Site.
type Options struct {
	// Event is the page content. Defaults to content.Default().
	Event *content.Event

	// Submitter transmits valid RSVPs. Defaults to rsvp.Simulated{}.
	Submitter rsvp.Submitter

	// Logger defaults to slog.Default().
	Logger *slog.Logger

	// Metrics enables request and submission metrics when non-nil.
	Metrics *middleware.Metrics

	// Gatherer, when set, is exposed on /metrics.
	Gatherer prometheus.Gatherer

	// Tracing wraps requests in OpenTelemetry spans.
	Tracing bool

	// TracerName names the tracer. Defaults to "funday".
	TracerName string

	// Live mounts the websocket form channel on /live.
	Live bool

	// LiveConfig sets the websocket limits.
	LiveConfig live.Config

	// CacheControl is config.CacheNone or config.CacheProduction.
	CacheControl string

	// FormTTL is how long an idle rendered form keeps its state.
	FormTTL time.Duration
}

// Site is the HTTP handler for the whole website.
type Site struct {
	router    chi.Router
	event     *content.Event
	templates map[string]*template.Template
	forms     *FormRegistry
	submitter rsvp.Submitter
	logger    *slog.Logger
	metrics   *middleware.Metrics
	live      bool
}

// New builds the site and starts its form sweeper. Call Close to stop it.
func New(opts Options) (*Site, error) {
	if opts.Event == nil {
		opts.Event = content.Default()
	}
	if opts.Submitter == nil {
		opts.Submitter = rsvp.Simulated{}
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.CacheControl == "" {
		opts.CacheControl = config.CacheProduction
	}

	templates, err := parseTemplates()
	if err != nil {
		return nil, err
	}

	s := &Site{
		event:     opts.Event,
		templates: templates,
		submitter: middleware.InstrumentSubmitter(opts.Submitter, opts.Metrics, opts.Logger),
		logger:    opts.Logger,
		metrics:   opts.Metrics,
		live:      opts.Live,
	}
	s.forms = NewFormRegistry(opts.FormTTL, func() *rsvp.Controller {
		return s.newController(nil)
	}, opts.Logger)
	s.forms.Start()

	s.router = s.routes(opts)
	return s, nil
}

// newController returns a controller bound to the event's activity and
// dietary catalogs.
func (s *Site) newController(onStatus func(rsvp.Status)) *rsvp.Controller {
	return rsvp.NewController(rsvp.Options{
		Activities:     s.event.Activities,
		DietaryOptions: s.event.DietaryOptions,
		Submitter:      s.submitter,
		OnStatus:       onStatus,
		Logger:         s.logger,
	})
}

func (s *Site) routes(opts Options) chi.Router {
	r := chi.NewRouter()
	r.Use(
		chimw.RequestID,
		chimw.RealIP,
		middleware.RequestLogger(s.logger),
		chimw.Recoverer,
		s.metrics.Handler,
	)
	if opts.Tracing {
		name := opts.TracerName
		if name == "" {
			name = config.DefaultServiceName
		}
		r.Use(middleware.OpenTelemetry(
			middleware.WithTracerName(name),
			middleware.WithRequestFilter(traceable),
		))
	}

	r.Get("/", s.handleHome)
	r.Get("/details", s.handleDetails)
	r.Get("/rsvp", s.handleRSVPForm)
	r.Post("/rsvp", s.handleRSVPSubmit)
	r.Get(rsvp.ConfirmationPath, s.handleConfirmation)
	r.Get("/healthz", s.handleHealth)
	r.Method(http.MethodGet, "/static/*", newStaticHandler(opts.CacheControl))
	r.Method(http.MethodHead, "/static/*", newStaticHandler(opts.CacheControl))

	if opts.Live {
		r.Method(http.MethodGet, "/live", live.NewHandler(opts.LiveConfig, s.newController,
			live.WithLogger(s.logger),
			live.WithMetrics(s.metrics),
		))
	}
	if opts.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{}))
	}

	r.NotFound(s.handleNotFound)
	return r
}

// traceable skips health checks, metrics scrapes and assets.
func traceable(r *http.Request) bool {
	switch r.URL.Path {
	case "/healthz", "/metrics":
		return false
	}
	return !strings.HasPrefix(r.URL.Path, "/static/")
}

// ServeHTTP implements http.Handler.
func (s *Site) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Forms returns the registry of rendered forms.
func (s *Site) Forms() *FormRegistry {
	return s.forms
}

// Close stops background work.
func (s *Site) Close() {
	s.forms.Stop()
}
