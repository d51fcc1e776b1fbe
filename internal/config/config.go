// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() initializer to build a Config with defaults.
// - Load layers file and environment values on top of New().
// - Validation errors wrap ErrInvalidConfig.
package config

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"
)

// Backend names accepted by the "backend" key.
const (
	BackendPostgREST = "postgrest"
	BackendPostgres  = "postgres"
	BackendSQLite    = "sqlite"
)

// metricName is the legacy Prometheus name charset, without colons.
var metricName = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogJSON switches log output to JSON lines.
	LogJSON bool `koanf:"log_json"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// Backend selects the read gateway: postgrest, postgres or sqlite.
	Backend string `koanf:"backend"`

	// Endpoint is the base URL of the PostgREST backend.
	Endpoint string `koanf:"endpoint"`

	// Credential is the access key sent to the PostgREST backend.
	// It is opaque and never logged.
	Credential string `koanf:"credential"`

	// DatabaseURL is the connection string of the postgres backend.
	DatabaseURL string `koanf:"database_url"`

	// SQLitePath is the snapshot file read by the sqlite backend.
	SQLitePath string `koanf:"sqlite_path"`

	// FetchTimeoutMS bounds each read gateway call. Zero disables the bound.
	FetchTimeoutMS int `koanf:"fetch_timeout_ms"`

	// SessionIdleTTLS evicts shell sessions idle for longer than this many seconds.
	SessionIdleTTLS int `koanf:"session_idle_ttl_s"`

	// MaxSessions caps the number of tracked shell sessions.
	MaxSessions int `koanf:"max_sessions"`

	// MetricsNamespace and MetricsSubsystem prefix every Prometheus series,
	// e.g. govdash_dashboard_http_requests_total.
	MetricsNamespace string `koanf:"metrics_namespace"`
	MetricsSubsystem string `koanf:"metrics_subsystem"`

	// OTelEndpoint is the OTLP/HTTP collector URL. Empty disables tracing.
	OTelEndpoint string `koanf:"otel_endpoint"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:        "info",
		Addr:            ":9080",
		Backend:         BackendPostgREST,
		FetchTimeoutMS:  10_000,
		SessionIdleTTLS: 1800,
		MaxSessions:     10_000,

		MetricsNamespace: "govdash",
		MetricsSubsystem: "dashboard",
	}
}

// FetchTimeout returns the per-fetch bound as a duration.
func (c *Config) FetchTimeout() time.Duration {
	return time.Duration(c.FetchTimeoutMS) * time.Millisecond
}

// SessionIdleTTL returns the session eviction age as a duration.
func (c *Config) SessionIdleTTL() time.Duration {
	return time.Duration(c.SessionIdleTTLS) * time.Second
}

// Validate checks that the selected backend has what it needs. Error
// messages name the missing key, never its value.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Addr) == "" {
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	if c.FetchTimeoutMS < 0 {
		return fmt.Errorf("%w: fetch_timeout_ms must not be negative", ErrInvalidConfig)
	}
	if c.SessionIdleTTLS <= 0 {
		return fmt.Errorf("%w: session_idle_ttl_s must be positive", ErrInvalidConfig)
	}
	if c.MaxSessions <= 0 {
		return fmt.Errorf("%w: max_sessions must be positive", ErrInvalidConfig)
	}
	if !metricName.MatchString(c.MetricsNamespace) {
		return fmt.Errorf("%w: metrics_namespace must match %s", ErrInvalidConfig, metricName)
	}
	if !metricName.MatchString(c.MetricsSubsystem) {
		return fmt.Errorf("%w: metrics_subsystem must match %s", ErrInvalidConfig, metricName)
	}
	if c.OTelEndpoint != "" {
		u, err := url.Parse(c.OTelEndpoint)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("%w: otel_endpoint must be an http(s) URL", ErrInvalidConfig)
		}
	}
	switch c.Backend {
	case BackendPostgREST:
		if strings.TrimSpace(c.Endpoint) == "" {
			return fmt.Errorf("%w: endpoint is required for the postgrest backend", ErrInvalidConfig)
		}
		u, err := url.Parse(c.Endpoint)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("%w: endpoint must be an http(s) URL", ErrInvalidConfig)
		}
		if strings.TrimSpace(c.Credential) == "" {
			return fmt.Errorf("%w: credential is required for the postgrest backend", ErrInvalidConfig)
		}
	case BackendPostgres:
		if strings.TrimSpace(c.DatabaseURL) == "" {
			return fmt.Errorf("%w: database_url is required for the postgres backend", ErrInvalidConfig)
		}
	case BackendSQLite:
		if strings.TrimSpace(c.SQLitePath) == "" {
			return fmt.Errorf("%w: sqlite_path is required for the sqlite backend", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown backend %q", ErrInvalidConfig, c.Backend)
	}
	return nil
}
