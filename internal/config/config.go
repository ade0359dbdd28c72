// Package config loads runtime settings for the internsite binaries: built-in
// defaults, then an optional YAML file, then INTERNSITE_* environment
// overrides.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "INTERNSITE_"

// Gateway modes.
const (
	GatewayStub = "stub"
	GatewayHTTP = "http"
)

var (
	// ErrInvalid wraps every validation failure.
	ErrInvalid = errors.New("config: invalid")
)

// Config holds all configuration for the site and terminal binaries.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Log       LogConfig       `yaml:"log"`
	Gateway   GatewayConfig   `yaml:"gateway"`
	Form      FormConfig      `yaml:"form"`
	Session   SessionConfig   `yaml:"session"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Redis     RedisConfig     `yaml:"redis"`
	Theme     ThemeConfig     `yaml:"theme"`
	Intake    IntakeConfig    `yaml:"intake"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Host            string        `yaml:"host"`
	Port            int           `yaml:"port"`
	RequestTimeout  time.Duration `yaml:"request_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	AllowedOrigins  []string      `yaml:"allowed_origins"`
}

// LogConfig selects the slog handler.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// GatewayConfig selects where submissions go.
type GatewayConfig struct {
	Mode     string        `yaml:"mode"`
	Delay    time.Duration `yaml:"delay"`
	BaseURL  string        `yaml:"base_url"`
	OpenAPI  string        `yaml:"openapi"`
	Timeout  time.Duration `yaml:"timeout"`
	Sanitize bool          `yaml:"sanitize"`
}

// FormConfig tunes the form controllers.
type FormConfig struct {
	FormatChecks  bool          `yaml:"format_checks"`
	SubmitTimeout time.Duration `yaml:"submit_timeout"`
}

// SessionConfig controls visitor sessions.
type SessionConfig struct {
	CookieName   string        `yaml:"cookie_name"`
	IdleTimeout  time.Duration `yaml:"idle_timeout"`
	CookieSecure bool          `yaml:"cookie_secure"`
}

// RateLimitConfig bounds submit actions per client IP. Requests of zero
// disables limiting.
type RateLimitConfig struct {
	Requests int           `yaml:"requests"`
	Window   time.Duration `yaml:"window"`
}

// RedisConfig enables the shared rate limiter when URL is set.
type RedisConfig struct {
	URL string `yaml:"url"`
}

// ThemeConfig picks the go-theme theme and variant.
type ThemeConfig struct {
	Name    string `yaml:"name"`
	Variant string `yaml:"variant"`
}

// IntakeConfig mounts the reference receiving endpoint on the site.
type IntakeConfig struct {
	Enabled bool `yaml:"enabled"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8080,
			RequestTimeout:  30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			AllowedOrigins:  []string{"*"},
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
		Gateway: GatewayConfig{
			Mode:     GatewayStub,
			Delay:    2 * time.Second,
			Timeout:  15 * time.Second,
			Sanitize: true,
		},
		Session: SessionConfig{
			CookieName:  "internsite_session",
			IdleTimeout: 30 * time.Minute,
		},
		RateLimit: RateLimitConfig{
			Requests: 10,
			Window:   time.Minute,
		},
		Theme: ThemeConfig{
			Name:    "internsite",
			Variant: "light",
		},
		Intake: IntakeConfig{
			Enabled: true,
		},
	}
}

// Load reads path (when non-empty), applies environment overrides and
// validates the result.
func Load(path string) (*Config, error) {
	return LoadWith(path, os.LookupEnv)
}

// LoadWith is Load with an injectable environment lookup.
func LoadWith(path string, lookup func(string) (string, bool)) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err := cfg.decodeYAML(data); err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}
	if lookup != nil {
		if err := cfg.applyEnv(lookup); err != nil {
			return nil, err
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) decodeYAML(data []byte) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	env := envReader{lookup: lookup}

	env.stringVar("HOST", &c.Server.Host)
	env.intVar("PORT", &c.Server.Port)
	env.durationVar("REQUEST_TIMEOUT", &c.Server.RequestTimeout)
	env.durationVar("SHUTDOWN_TIMEOUT", &c.Server.ShutdownTimeout)
	env.listVar("CORS_ORIGINS", &c.Server.AllowedOrigins)

	env.stringVar("LOG_LEVEL", &c.Log.Level)
	env.stringVar("LOG_FORMAT", &c.Log.Format)

	env.stringVar("GATEWAY_MODE", &c.Gateway.Mode)
	env.durationVar("GATEWAY_DELAY", &c.Gateway.Delay)
	env.stringVar("GATEWAY_URL", &c.Gateway.BaseURL)
	env.stringVar("GATEWAY_OPENAPI", &c.Gateway.OpenAPI)
	env.durationVar("GATEWAY_TIMEOUT", &c.Gateway.Timeout)
	env.boolVar("GATEWAY_SANITIZE", &c.Gateway.Sanitize)

	env.boolVar("FORMAT_CHECKS", &c.Form.FormatChecks)
	env.durationVar("SUBMIT_TIMEOUT", &c.Form.SubmitTimeout)

	env.stringVar("SESSION_COOKIE", &c.Session.CookieName)
	env.durationVar("SESSION_TTL", &c.Session.IdleTimeout)
	env.boolVar("COOKIE_SECURE", &c.Session.CookieSecure)

	env.intVar("RATE_LIMIT", &c.RateLimit.Requests)
	env.durationVar("RATE_WINDOW", &c.RateLimit.Window)

	env.stringVar("REDIS_URL", &c.Redis.URL)

	env.stringVar("THEME", &c.Theme.Name)
	env.stringVar("THEME_VARIANT", &c.Theme.Variant)

	env.boolVar("INTAKE", &c.Intake.Enabled)

	return errors.Join(env.errs...)
}

// Validate rejects settings the binaries cannot start with.
func (c *Config) Validate() error {
	var errs []error
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("%w: server port %d", ErrInvalid, c.Server.Port))
	}
	if c.Server.RequestTimeout < 0 || c.Server.ShutdownTimeout < 0 {
		errs = append(errs, fmt.Errorf("%w: negative server timeout", ErrInvalid))
	}
	if _, err := parseLevel(c.Log.Level); err != nil {
		errs = append(errs, err)
	}
	switch c.Log.Format {
	case "json", "text":
	default:
		errs = append(errs, fmt.Errorf("%w: log format %q", ErrInvalid, c.Log.Format))
	}
	switch c.Gateway.Mode {
	case GatewayStub:
	case GatewayHTTP:
		if c.Gateway.BaseURL != "" {
			if u, err := url.Parse(c.Gateway.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
				errs = append(errs, fmt.Errorf("%w: gateway base_url %q", ErrInvalid, c.Gateway.BaseURL))
			}
		}
	default:
		errs = append(errs, fmt.Errorf("%w: gateway mode %q", ErrInvalid, c.Gateway.Mode))
	}
	if c.Gateway.Delay < 0 || c.Gateway.Timeout < 0 || c.Form.SubmitTimeout < 0 {
		errs = append(errs, fmt.Errorf("%w: negative gateway timing", ErrInvalid))
	}
	if strings.TrimSpace(c.Session.CookieName) == "" {
		errs = append(errs, fmt.Errorf("%w: session cookie_name is required", ErrInvalid))
	}
	if c.Session.IdleTimeout <= 0 {
		errs = append(errs, fmt.Errorf("%w: session idle_timeout must be positive", ErrInvalid))
	}
	if c.RateLimit.Requests < 0 {
		errs = append(errs, fmt.Errorf("%w: rate_limit requests %d", ErrInvalid, c.RateLimit.Requests))
	}
	if c.RateLimit.Requests > 0 && c.RateLimit.Window <= 0 {
		errs = append(errs, fmt.Errorf("%w: rate_limit window must be positive", ErrInvalid))
	}
	return errors.Join(errs...)
}

// Addr returns the listen address.
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Server.Host, strconv.Itoa(c.Server.Port))
}

// NewLogger builds the slog logger described by the log section.
func (l LogConfig) NewLogger(w io.Writer) *slog.Logger {
	level, err := parseLevel(l.Level)
	if err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if l.Format == "text" {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelInfo, fmt.Errorf("%w: log level %q", ErrInvalid, s)
	}
	return level, nil
}

type envReader struct {
	lookup func(string) (string, bool)
	errs   []error
}

func (e *envReader) get(key string) (string, bool) {
	v, ok := e.lookup(EnvPrefix + key)
	if !ok {
		return "", false
	}
	return strings.TrimSpace(v), true
}

func (e *envReader) stringVar(key string, dst *string) {
	if v, ok := e.get(key); ok {
		*dst = v
	}
}

func (e *envReader) listVar(key string, dst *[]string) {
	v, ok := e.get(key)
	if !ok {
		return
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	*dst = out
}

func (e *envReader) intVar(key string, dst *int) {
	v, ok := e.get(key)
	if !ok {
		return
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		e.errs = append(e.errs, fmt.Errorf("%w: %s%s=%q is not an integer", ErrInvalid, EnvPrefix, key, v))
		return
	}
	*dst = n
}

func (e *envReader) boolVar(key string, dst *bool) {
	v, ok := e.get(key)
	if !ok {
		return
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		e.errs = append(e.errs, fmt.Errorf("%w: %s%s=%q is not a boolean", ErrInvalid, EnvPrefix, key, v))
		return
	}
	*dst = b
}

func (e *envReader) durationVar(key string, dst *time.Duration) {
	v, ok := e.get(key)
	if !ok {
		return
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		e.errs = append(e.errs, fmt.Errorf("%w: %s%s=%q is not a duration", ErrInvalid, EnvPrefix, key, v))
		return
	}
	*dst = d
}
