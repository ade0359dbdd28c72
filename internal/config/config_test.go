package config_test

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-internsite/internal/config"
)

func envMap(values map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := values[key]
		return v, ok
	}
}

func TestLoad_DefaultsAreValid(t *testing.T) {
	cfg, err := config.LoadWith("", envMap(nil))
	if err != nil {
		t.Fatalf("load defaults: %v", err)
	}
	if diff := cmp.Diff(config.Default(), cfg); diff != "" {
		t.Fatalf("defaults mismatch (-want +got):\n%s", diff)
	}
	if cfg.Addr() != "0.0.0.0:8080" {
		t.Fatalf("addr = %q", cfg.Addr())
	}
}

func TestLoad_FileThenEnv(t *testing.T) {
	cfg, err := config.LoadWith(filepath.Join("testdata", "site.yaml"), envMap(map[string]string{
		"INTERNSITE_PORT":         "7070",
		"INTERNSITE_CORS_ORIGINS": "https://a.test, https://b.test",
		"INTERNSITE_RATE_LIMIT":   "0",
	}))
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	want := config.Default()
	want.Server.Port = 7070
	want.Server.AllowedOrigins = []string{"https://a.test", "https://b.test"}
	want.Log = config.LogConfig{Level: "debug", Format: "text"}
	want.Gateway.Mode = config.GatewayHTTP
	want.Gateway.BaseURL = "https://api.example.com/intake"
	want.Gateway.Timeout = 5 * time.Second
	want.Session.IdleTimeout = 10 * time.Minute
	want.Redis.URL = "redis://localhost:6379/0"
	want.RateLimit.Requests = 0

	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Fatalf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_RejectsUnknownYAMLKeys(t *testing.T) {
	if _, err := config.LoadWith(filepath.Join("testdata", "unknown.yaml"), envMap(nil)); err == nil {
		t.Fatalf("expected unknown key error")
	}
}

func TestLoad_RejectsMalformedEnv(t *testing.T) {
	_, err := config.LoadWith("", envMap(map[string]string{
		"INTERNSITE_PORT":        "eighty",
		"INTERNSITE_SESSION_TTL": "soon",
	}))
	if !errors.Is(err, config.ErrInvalid) {
		t.Fatalf("err = %v, want ErrInvalid", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
	}{
		{name: "port", mutate: func(c *config.Config) { c.Server.Port = 70000 }},
		{name: "gateway mode", mutate: func(c *config.Config) { c.Gateway.Mode = "carrier-pigeon" }},
		{name: "gateway url", mutate: func(c *config.Config) {
			c.Gateway.Mode = config.GatewayHTTP
			c.Gateway.BaseURL = "not a url"
		}},
		{name: "log level", mutate: func(c *config.Config) { c.Log.Level = "loud" }},
		{name: "log format", mutate: func(c *config.Config) { c.Log.Format = "xml" }},
		{name: "session ttl", mutate: func(c *config.Config) { c.Session.IdleTimeout = 0 }},
		{name: "cookie name", mutate: func(c *config.Config) { c.Session.CookieName = " " }},
		{name: "rate window", mutate: func(c *config.Config) { c.RateLimit.Window = 0 }},
		{name: "negative delay", mutate: func(c *config.Config) { c.Gateway.Delay = -time.Second }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := config.Default()
			tc.mutate(cfg)
			if err := cfg.Validate(); !errors.Is(err, config.ErrInvalid) {
				t.Fatalf("err = %v, want ErrInvalid", err)
			}
		})
	}
}
