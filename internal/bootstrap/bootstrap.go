// Package bootstrap holds the wiring shared by the website and the terminal
// binaries: environment loading and gateway construction from config.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/joho/godotenv"

	"github.com/goliatone/go-internsite/internal/config"
	"github.com/goliatone/go-internsite/pkg/gateway"
	"github.com/goliatone/go-internsite/pkg/stepform"
)

// LoadConfig reads an optional .env file from the working directory into the
// process environment and then loads the configuration at path. A missing
// .env file is not an error.
func LoadConfig(path string, envFiles ...string) (*config.Config, error) {
	if err := godotenv.Load(envFiles...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("bootstrap: load env: %w", err)
	}
	return config.Load(path)
}

// Gateway builds the submission gateway described by cfg.
func Gateway(ctx context.Context, cfg config.GatewayConfig, logger *slog.Logger) (stepform.Gateway, error) {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "gateway")

	var gw stepform.Gateway
	switch cfg.Mode {
	case config.GatewayHTTP:
		opts := []gateway.HTTPOption{
			gateway.WithTimeout(cfg.Timeout),
			gateway.WithHTTPLogger(logger),
		}
		if cfg.OpenAPI != "" {
			endpoints, err := gateway.LoadEndpointsFrom(ctx, cfg.OpenAPI)
			if err != nil {
				return nil, fmt.Errorf("bootstrap: endpoints: %w", err)
			}
			opts = append(opts, gateway.WithEndpoints(endpoints))
		}
		h, err := gateway.NewHTTP(cfg.BaseURL, opts...)
		if err != nil {
			return nil, err
		}
		gw = h
	case config.GatewayStub, "":
		gw = gateway.NewStub(gateway.WithDelay(cfg.Delay), gateway.WithStubLogger(logger))
	default:
		return nil, fmt.Errorf("bootstrap: unknown gateway mode %q", cfg.Mode)
	}

	if cfg.Sanitize {
		gw = gateway.Sanitize(gw)
	}
	return gw, nil
}
