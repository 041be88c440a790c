package live

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/vmtco/funday/pkg/middleware"
	"github.com/vmtco/funday/pkg/rsvp"
)

// Factory builds the controller for a new connection. onStatus must be
// passed through to rsvp.Options.OnStatus.
type Factory func(onStatus func(rsvp.Status)) *rsvp.Controller

// Option configures a Handler.
type Option func(*Handler)

// WithLogger sets the logger. Default: slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(h *Handler) {
		if l != nil {
			h.logger = l
		}
	}
}

// WithMetrics records connection and message metrics.
func WithMetrics(m *middleware.Metrics) Option {
	return func(h *Handler) {
		h.metrics = m
	}
}

// Handler upgrades requests to live form connections.
type Handler struct {
	config   Config
	factory  Factory
	upgrader websocket.Upgrader
	logger   *slog.Logger
	metrics  *middleware.Metrics
}

// NewHandler returns a Handler creating one controller per connection.
func NewHandler(config Config, factory Factory, opts ...Option) *Handler {
	config = config.withDefaults()
	h := &Handler{
		config:  config,
		factory: factory,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  config.ReadBufferSize,
			WriteBufferSize: config.WriteBufferSize,
			CheckOrigin:     config.CheckOrigin,
		},
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// ServeHTTP upgrades the request and serves the connection until it closes.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ws, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written an HTTP error.
		h.logger.Debug("live upgrade failed", "error", err)
		h.metrics.RecordLiveError(err)
		return
	}

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	c := newConn(ctx, ws, h, uuid.NewString())
	h.metrics.RecordLiveOpen()
	defer h.metrics.RecordLiveClose()

	c.logger.Debug("live connection opened")
	c.serve(cancel)
}
