package config

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/vmtco/funday/internal/errors"
)

const (
	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "funday.json"

	// DefaultAddr is the default HTTP listen address.
	DefaultAddr = ":8080"

	// DefaultSubmitDelay is the simulated submission round-trip.
	DefaultSubmitDelay = 1500 * time.Millisecond

	// DefaultFormTTL is how long an idle rendered form keeps its state.
	DefaultFormTTL = 30 * time.Minute

	// DefaultServiceName names the service in traces and metrics.
	DefaultServiceName = "funday"
)

// Static cache modes.
const (
	CacheNone       = "none"
	CacheProduction = "production"
)

// Log formats.
const (
	LogFormatAuto = "auto"
	LogFormatText = "text"
	LogFormatJSON = "json"
)

// Config represents the complete funday.json configuration.
type Config struct {
	// Server contains HTTP server settings.
	Server ServerConfig `json:"server"`

	// Log contains logging settings.
	Log LogConfig `json:"log"`

	// Submit contains RSVP submission settings.
	Submit SubmitConfig `json:"submit"`

	// Content points at the event content file.
	Content ContentConfig `json:"content"`

	// Static contains static asset settings.
	Static StaticConfig `json:"static"`

	// Live contains live form channel settings.
	Live LiveConfig `json:"live"`

	// Telemetry contains metrics and tracing settings.
	Telemetry TelemetryConfig `json:"telemetry"`

	// DevMode disables asset caching and enables debug logging.
	DevMode bool `json:"dev,omitempty" env:"FUNDAY_DEV"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	// Addr is the listen address (host:port).
	Addr string `json:"addr,omitempty" env:"FUNDAY_ADDR"`

	// ReadHeaderTimeout bounds how long reading request headers may take.
	ReadHeaderTimeout Duration `json:"readHeaderTimeout,omitempty"`

	// ShutdownTimeout bounds graceful shutdown.
	ShutdownTimeout Duration `json:"shutdownTimeout,omitempty"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `json:"level,omitempty" env:"FUNDAY_LOG_LEVEL"`

	// Format is one of auto, text, json. Auto picks text on a terminal.
	Format string `json:"format,omitempty" env:"FUNDAY_LOG_FORMAT"`
}

// SubmitConfig contains RSVP submission settings.
type SubmitConfig struct {
	// Delay is the simulated submission round-trip.
	Delay Duration `json:"delay,omitempty" env:"FUNDAY_SUBMIT_DELAY"`

	// FormTTL is how long an idle rendered form keeps its controller.
	FormTTL Duration `json:"formTTL,omitempty" env:"FUNDAY_FORM_TTL"`
}

// ContentConfig points at the event content file.
type ContentConfig struct {
	// Path is a YAML content file. Empty uses the built-in event.
	Path string `json:"path,omitempty" env:"FUNDAY_CONTENT"`
}

// StaticConfig contains static asset settings.
type StaticConfig struct {
	// CacheControl is "none" or "production".
	CacheControl string `json:"cacheControl,omitempty" env:"FUNDAY_STATIC_CACHE"`
}

// LiveConfig contains live form channel settings.
type LiveConfig struct {
	// Enabled mounts the /live websocket endpoint.
	Enabled bool `json:"enabled" env:"FUNDAY_LIVE"`

	// ReadTimeout is the maximum time to wait for a client message.
	ReadTimeout Duration `json:"readTimeout,omitempty"`

	// HeartbeatInterval is the time between server pings on an idle channel.
	HeartbeatInterval Duration `json:"heartbeatInterval,omitempty"`

	// WriteTimeout is the maximum time to wait when sending a message.
	WriteTimeout Duration `json:"writeTimeout,omitempty"`

	// MaxMessageSize is the maximum size of an incoming message.
	MaxMessageSize int64 `json:"maxMessageSize,omitempty"`
}

// TelemetryConfig contains metrics and tracing settings.
type TelemetryConfig struct {
	// Metrics exposes Prometheus metrics on /metrics.
	Metrics bool `json:"metrics" env:"FUNDAY_METRICS"`

	// Tracing wraps requests in OpenTelemetry spans.
	Tracing bool `json:"tracing" env:"FUNDAY_TRACING"`

	// ServiceName names the tracer and the metrics namespace.
	ServiceName string `json:"serviceName,omitempty"`
}

// New creates a new Config with default values.
func New() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:              DefaultAddr,
			ReadHeaderTimeout: Duration(5 * time.Second),
			ShutdownTimeout:   Duration(10 * time.Second),
		},
		Log: LogConfig{
			Level:  "info",
			Format: LogFormatAuto,
		},
		Submit: SubmitConfig{
			Delay:   Duration(DefaultSubmitDelay),
			FormTTL: Duration(DefaultFormTTL),
		},
		Static: StaticConfig{
			CacheControl: CacheProduction,
		},
		Live: LiveConfig{
			Enabled:           true,
			ReadTimeout:       Duration(60 * time.Second),
			HeartbeatInterval: Duration(30 * time.Second),
			WriteTimeout:      Duration(10 * time.Second),
			MaxMessageSize:    16 * 1024,
		},
		Telemetry: TelemetryConfig{
			Metrics:     true,
			Tracing:     false,
			ServiceName: DefaultServiceName,
		},
	}
}

// Load reads configuration from funday.json in the specified directory.
func Load(dir string) (*Config, error) {
	return LoadFile(filepath.Join(dir, ConfigFileName))
}

// LoadFile reads configuration from the specified file path.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New(errors.CodeConfigParse).
				WithSource(path).
				WithDetail("file does not exist").
				WithSuggestion("Create " + ConfigFileName + " or omit --config to use defaults")
		}
		return nil, errors.New(errors.CodeConfigParse).WithSource(path).Wrap(err)
	}

	cfg := New()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, errors.New(errors.CodeConfigParse).
			WithSource(path).
			Wrap(err).
			WithSuggestion("Check that " + filepath.Base(path) + " is valid JSON")
	}

	cfg.configPath = path
	cfg.applyDefaults()

	return cfg, nil
}

// Resolve builds the effective configuration. An explicit path must exist;
// with an empty path, funday.json in the working directory is used when
// present. Environment variables are applied on top and the result is
// validated.
func Resolve(path string) (*Config, error) {
	var (
		cfg *Config
		err error
	)
	switch {
	case path != "":
		cfg, err = LoadFile(path)
	case Exists("."):
		cfg, err = Load(".")
	default:
		cfg = New()
	}
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv overlays FUNDAY_* environment variables onto the configuration.
func (c *Config) ApplyEnv() error {
	if err := env.Parse(c); err != nil {
		return errors.New(errors.CodeConfigEnv).Wrap(err)
	}
	c.applyDefaults()
	return nil
}

// Path returns the path where the config was loaded from.
func (c *Config) Path() string {
	return c.configPath
}

// applyDefaults fills in default values for empty fields.
func (c *Config) applyDefaults() {
	if c.Server.Addr == "" {
		c.Server.Addr = DefaultAddr
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = LogFormatAuto
	}
	if c.Submit.FormTTL == 0 {
		c.Submit.FormTTL = Duration(DefaultFormTTL)
	}
	if c.Static.CacheControl == "" {
		c.Static.CacheControl = CacheProduction
	}
	if c.Live.MaxMessageSize == 0 {
		c.Live.MaxMessageSize = 16 * 1024
	}
	if c.Telemetry.ServiceName == "" {
		c.Telemetry.ServiceName = DefaultServiceName
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	invalid := func(detail string) error {
		return errors.New(errors.CodeConfigInvalid).WithSource(c.source()).WithDetail(detail)
	}

	_, port, err := net.SplitHostPort(c.Server.Addr)
	if err != nil {
		return invalid(fmt.Sprintf("server address %q must be host:port", c.Server.Addr))
	}
	if n, err := strconv.Atoi(port); err != nil || n < 0 || n > 65535 {
		return invalid("port must be between 0 and 65535")
	}

	durations := []struct {
		name  string
		value Duration
	}{
		{"server.readHeaderTimeout", c.Server.ReadHeaderTimeout},
		{"server.shutdownTimeout", c.Server.ShutdownTimeout},
		{"submit.delay", c.Submit.Delay},
		{"submit.formTTL", c.Submit.FormTTL},
		{"live.readTimeout", c.Live.ReadTimeout},
		{"live.heartbeatInterval", c.Live.HeartbeatInterval},
		{"live.writeTimeout", c.Live.WriteTimeout},
	}
	for _, d := range durations {
		if d.value < 0 {
			return invalid(d.name + " must not be negative")
		}
	}

	if _, ok := parseLevel(c.Log.Level); !ok {
		return invalid("log level must be one of debug, info, warn, error")
	}
	switch c.Log.Format {
	case LogFormatAuto, LogFormatText, LogFormatJSON:
	default:
		return invalid("log format must be one of auto, text, json")
	}
	switch c.Static.CacheControl {
	case CacheNone, CacheProduction:
	default:
		return invalid("static cacheControl must be none or production")
	}
	if c.Live.MaxMessageSize < 0 {
		return invalid("live maxMessageSize must not be negative")
	}
	return nil
}

func (c *Config) source() string {
	if c.configPath != "" {
		return c.configPath
	}
	return "configuration"
}

// LogLevel returns the configured slog level. DevMode forces debug.
func (c *Config) LogLevel() slog.Level {
	if c.DevMode {
		return slog.LevelDebug
	}
	level, _ := parseLevel(c.Log.Level)
	return level
}

// CacheControl returns the effective static cache mode. DevMode disables caching.
func (c *Config) CacheControl() string {
	if c.DevMode {
		return CacheNone
	}
	return c.Static.CacheControl
}

func parseLevel(s string) (slog.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, true
	case "info", "":
		return slog.LevelInfo, true
	case "warn", "warning":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	default:
		return slog.LevelInfo, false
	}
}

// Exists checks if a config file exists in the given directory.
func Exists(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, ConfigFileName))
	return err == nil
}
