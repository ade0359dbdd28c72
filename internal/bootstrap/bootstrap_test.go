package bootstrap_test

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-internsite/internal/bootstrap"
	"github.com/goliatone/go-internsite/internal/config"
	"github.com/goliatone/go-internsite/pkg/gateway"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestGatewayModes(t *testing.T) {
	ctx := context.Background()

	stub, err := bootstrap.Gateway(ctx, config.GatewayConfig{Mode: config.GatewayStub}, quietLogger())
	if err != nil {
		t.Fatalf("stub gateway: %v", err)
	}
	if _, ok := stub.(*gateway.Stub); !ok {
		t.Fatalf("stub mode built %T", stub)
	}

	httpGW, err := bootstrap.Gateway(ctx, config.GatewayConfig{
		Mode:    config.GatewayHTTP,
		BaseURL: "https://api.example.test",
	}, quietLogger())
	if err != nil {
		t.Fatalf("http gateway: %v", err)
	}
	if _, ok := httpGW.(*gateway.HTTP); !ok {
		t.Fatalf("http mode built %T", httpGW)
	}

	wrapped, err := bootstrap.Gateway(ctx, config.GatewayConfig{Mode: config.GatewayStub, Sanitize: true}, nil)
	if err != nil {
		t.Fatalf("sanitized gateway: %v", err)
	}
	if _, ok := wrapped.(*gateway.Stub); ok {
		t.Fatalf("sanitize did not wrap the stub")
	}
}

func TestGatewayRejectsBadSettings(t *testing.T) {
	ctx := context.Background()
	cases := []config.GatewayConfig{
		{Mode: "carrier-pigeon"},
		{Mode: config.GatewayHTTP, BaseURL: "not a url"},
		{Mode: config.GatewayHTTP, BaseURL: "https://api.example.test", OpenAPI: filepath.Join(t.TempDir(), "missing.yaml")},
	}
	for _, cfg := range cases {
		if _, err := bootstrap.Gateway(ctx, cfg, quietLogger()); err == nil {
			t.Fatalf("expected error for %+v", cfg)
		}
	}
}

func TestLoadConfigReadsEnvFile(t *testing.T) {
	const key = "INTERNSITE_THEME_VARIANT"
	if _, set := os.LookupEnv(key); set {
		t.Skipf("%s already set in the environment", key)
	}
	t.Cleanup(func() { os.Unsetenv(key) })

	envFile := filepath.Join(t.TempDir(), "test.env")
	if err := os.WriteFile(envFile, []byte(key+"=dark\n"), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}

	cfg, err := bootstrap.LoadConfig("", envFile)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if diff := cmp.Diff("dark", cfg.Theme.Variant); diff != "" {
		t.Fatalf("theme variant mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadConfigToleratesMissingEnvFile(t *testing.T) {
	cfg, err := bootstrap.LoadConfig("", filepath.Join(t.TempDir(), "absent.env"))
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Server.Port != config.Default().Server.Port {
		t.Fatalf("unexpected port %d", cfg.Server.Port)
	}
}
