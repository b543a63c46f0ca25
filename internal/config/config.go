package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	gcal "google.golang.org/api/calendar/v3"
)

// Environment variables read by Load.
const (
	EnvClientID         = "GOOGLE_CALENDAR_CLIENT_ID"
	EnvClientSecret     = "GOOGLE_CALENDAR_CLIENT_SECRET"
	EnvBaseURL          = "GOOGLE_CALENDAR_BASE_URL"
	EnvTransport        = "MCP_TRANSPORT"
	EnvHTTPAddr         = "MCP_HTTP_ADDR"
	EnvReadOnly         = "MCP_READ_ONLY"
	EnvDisableStreaming = "MCP_DISABLE_STREAMING"
	EnvStateless        = "MCP_STATELESS"
	EnvDebug            = "MCP_DEBUG"
	EnvLogFormat        = "MCP_LOG_FORMAT"
	EnvMetricsEnabled   = "METRICS_ENABLED"
	EnvMetricsAddr      = "METRICS_ADDR"
)

// Supported transports.
const (
	TransportStdio          = "stdio"
	TransportStreamableHTTP = "streamable-http"
)

// Config is the complete server configuration.
type Config struct {
	Google  GoogleConfig  `toml:"google"`
	Server  ServerConfig  `toml:"server"`
	Logging LoggingConfig `toml:"logging"`
	Metrics MetricsConfig `toml:"metrics"`
}

// GoogleConfig holds the OAuth client registration and the API location.
type GoogleConfig struct {
	ClientID     string `toml:"client_id"`
	ClientSecret string `toml:"client_secret"`

	// BaseURL overrides the Calendar API base URL. Empty means the public API.
	BaseURL string `toml:"base_url"`
}

// ServerConfig selects and tunes the MCP transport.
type ServerConfig struct {
	Transport        string `toml:"transport"`
	HTTPAddr         string `toml:"http_addr"`
	ReadOnly         bool   `toml:"read_only"`
	DisableStreaming bool   `toml:"disable_streaming"`
	Stateless        bool   `toml:"stateless"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Debug  bool   `toml:"debug"`
	Format string `toml:"format"`
}

// MetricsConfig holds configuration for the metrics server.
type MetricsConfig struct {
	Enabled bool   `toml:"enabled"`
	Addr    string `toml:"addr"`
}

// NewDefaultConfig creates a configuration with default values.
func NewDefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Transport: TransportStdio,
			HTTPAddr:  ":8080",
		},
		Logging: LoggingConfig{
			Format: "text",
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Addr:    ":9090",
		},
	}
}

// LoadDotEnv loads the given .env files, or ".env" when none are given, into
// the process environment. Missing files are skipped and existing variables
// are never overwritten.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, path := range paths {
		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			return fmt.Errorf("failed to load env file %s: %w", path, err)
		}
	}
	return nil
}

// Load builds the configuration from defaults, the TOML file at path (if
// path is not empty) and the environment.
func Load(path string) (*Config, error) {
	cfg := NewDefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnvOverrides(cfg *Config) error {
	setString(&cfg.Google.ClientID, EnvClientID)
	setString(&cfg.Google.ClientSecret, EnvClientSecret)
	setString(&cfg.Google.BaseURL, EnvBaseURL)
	setString(&cfg.Server.Transport, EnvTransport)
	setString(&cfg.Server.HTTPAddr, EnvHTTPAddr)
	setString(&cfg.Logging.Format, EnvLogFormat)
	setString(&cfg.Metrics.Addr, EnvMetricsAddr)

	bools := []struct {
		dst *bool
		env string
	}{
		{&cfg.Server.ReadOnly, EnvReadOnly},
		{&cfg.Server.DisableStreaming, EnvDisableStreaming},
		{&cfg.Server.Stateless, EnvStateless},
		{&cfg.Logging.Debug, EnvDebug},
		{&cfg.Metrics.Enabled, EnvMetricsEnabled},
	}
	for _, b := range bools {
		if err := setBool(b.dst, b.env); err != nil {
			return err
		}
	}
	return nil
}

func setString(dst *string, env string) {
	if v := strings.TrimSpace(os.Getenv(env)); v != "" {
		*dst = v
	}
}

func setBool(dst *bool, env string) error {
	v := strings.TrimSpace(os.Getenv(env))
	if v == "" {
		return nil
	}
	parsed, err := strconv.ParseBool(v)
	if err != nil {
		return fmt.Errorf("invalid value %q for %s (expected true/false): %w", v, env, err)
	}
	*dst = parsed
	return nil
}

// Validate reports missing or malformed settings. The OAuth client
// credentials are required even though requests use the caller's token.
func (c *Config) Validate() error {
	var errs []error
	if c.Google.ClientID == "" {
		errs = append(errs, fmt.Errorf("%s is required", EnvClientID))
	}
	if c.Google.ClientSecret == "" {
		errs = append(errs, fmt.Errorf("%s is required", EnvClientSecret))
	}

	switch c.Server.Transport {
	case TransportStdio, TransportStreamableHTTP:
	default:
		errs = append(errs, fmt.Errorf("unsupported transport type: %s (supported: %s, %s)",
			c.Server.Transport, TransportStdio, TransportStreamableHTTP))
	}

	switch strings.ToLower(c.Logging.Format) {
	case "", "text", "json":
	default:
		errs = append(errs, fmt.Errorf("unsupported log format %q (supported: text, json)", c.Logging.Format))
	}

	return errors.Join(errs...)
}

// OAuth2Config returns the OAuth client registration for the Calendar scope.
func (c *Config) OAuth2Config() *oauth2.Config {
	return &oauth2.Config{
		ClientID:     c.Google.ClientID,
		ClientSecret: c.Google.ClientSecret,
		Endpoint:     google.Endpoint,
		Scopes:       []string{gcal.CalendarScope},
	}
}
