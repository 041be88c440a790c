package main

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/vmtco/funday/internal/config"
	"github.com/vmtco/funday/internal/errors"
	"github.com/vmtco/funday/internal/logging"
	"github.com/vmtco/funday/pkg/content"
	"github.com/vmtco/funday/pkg/live"
	"github.com/vmtco/funday/pkg/middleware"
	"github.com/vmtco/funday/pkg/rsvp"
	"github.com/vmtco/funday/pkg/site"
)

type serveFlags struct {
	addr        string
	configPath  string
	contentPath string
	dev         bool
}

func serveCmd() *cobra.Command {
	var flags serveFlags

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the website",
		Long: `Serve the Fun Day website until interrupted.

Configuration is read from funday.json (if present), then FUNDAY_*
environment variables, then flags.

Examples:
  funday serve
  funday serve --addr=:3000 --dev
  funday serve --content event.yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			logger := logging.New(os.Stderr, cfg.LogLevel(), cfg.Log.Format)
			return runServe(ctx, cfg, logger)
		},
	}

	cmd.Flags().StringVarP(&flags.addr, "addr", "a", "", "Listen address (default from "+config.ConfigFileName+")")
	cmd.Flags().StringVarP(&flags.configPath, "config", "c", "", "Path to "+config.ConfigFileName)
	cmd.Flags().StringVar(&flags.contentPath, "content", "", "Event content YAML file")
	cmd.Flags().BoolVar(&flags.dev, "dev", false, "Development mode: debug logging, no asset caching")

	return cmd
}

// loadConfig resolves the configuration and applies flag overrides.
func loadConfig(flags serveFlags) (*config.Config, error) {
	cfg, err := config.Resolve(flags.configPath)
	if err != nil {
		return nil, err
	}

	if flags.addr != "" {
		cfg.Server.Addr = flags.addr
	}
	if flags.contentPath != "" {
		cfg.Content.Path = flags.contentPath
	}
	if flags.dev {
		cfg.DevMode = true
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// buildSite wires content, metrics and the submitter into a site.
func buildSite(cfg *config.Config, logger *slog.Logger) (*site.Site, error) {
	ev, err := content.Load(cfg.Content.Path)
	if err != nil {
		return nil, err
	}

	opts := site.Options{
		Event:      ev,
		Submitter:  rsvp.Simulated{Delay: cfg.Submit.Delay.Std()},
		Logger:     logger,
		Tracing:    cfg.Telemetry.Tracing,
		TracerName: cfg.Telemetry.ServiceName,
		Live:       cfg.Live.Enabled,
		LiveConfig: live.Config{
			ReadTimeout:       cfg.Live.ReadTimeout.Std(),
			HeartbeatInterval: cfg.Live.HeartbeatInterval.Std(),
			WriteTimeout:      cfg.Live.WriteTimeout.Std(),
			MaxMessageSize:    cfg.Live.MaxMessageSize,
		},
		CacheControl: cfg.CacheControl(),
		FormTTL:      cfg.Submit.FormTTL.Std(),
	}

	if cfg.Telemetry.Metrics {
		reg := prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		opts.Metrics = middleware.NewMetrics(
			middleware.WithNamespace(cfg.Telemetry.ServiceName),
			middleware.WithRegistry(reg),
		)
		opts.Gatherer = reg
	}

	return site.New(opts)
}

func runServe(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	s, err := buildSite(cfg, logger)
	if err != nil {
		return err
	}
	defer s.Close()

	ln, err := net.Listen("tcp", cfg.Server.Addr)
	if err != nil {
		return errors.New(errors.CodeServerListen).
			Wrap(err).
			WithSuggestion(fmt.Sprintf("Check that %s is free, or pass --addr", cfg.Server.Addr))
	}

	srv := &http.Server{
		Handler:           s,
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout.Std(),
		ErrorLog:          slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	logger.Info("listening",
		"addr", ln.Addr().String(),
		"dev", cfg.DevMode,
		"live", cfg.Live.Enabled,
		"metrics", cfg.Telemetry.Metrics)

	return serve(ctx, srv, ln, cfg.Server.ShutdownTimeout.Std(), logger)
}

// serve runs srv on ln until ctx is done, then shuts it down gracefully.
func serve(ctx context.Context, srv *http.Server, ln net.Listener, shutdownTimeout time.Duration, logger *slog.Logger) error {
	errc := make(chan error, 1)
	go func() {
		errc <- srv.Serve(ln)
	}()

	select {
	case err := <-errc:
		return errors.New(errors.CodeServerListen).Wrap(err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	if shutdownTimeout <= 0 {
		shutdownTimeout = 10 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return errors.New(errors.CodeServerShutdown).Wrap(err)
	}
	if err := <-errc; err != nil && !stderrors.Is(err, http.ErrServerClosed) {
		return errors.New(errors.CodeServerListen).Wrap(err)
	}
	return nil
}
