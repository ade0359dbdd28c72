package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/goliatone/go-internsite/internal/bootstrap"
	"github.com/goliatone/go-internsite/internal/intake"
	"github.com/goliatone/go-internsite/internal/site"
)

func main() {
	configPath := flag.String("config", "", "Path to a YAML config file")
	flag.Parse()

	cfg, err := bootstrap.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "internsite: %v\n", err)
		os.Exit(1)
	}

	logger := cfg.Log.NewLogger(os.Stdout)
	slog.SetDefault(logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	gw, err := bootstrap.Gateway(ctx, cfg.Gateway, logger)
	if err != nil {
		logger.Error("failed to build gateway", "error", err)
		os.Exit(1)
	}

	opts := []site.Option{
		site.WithLogger(logger),
		site.WithGateway(gw),
	}

	if cfg.Redis.URL != "" {
		limiter, err := site.NewRedisLimiterFromURL(ctx, cfg.Redis.URL, logger)
		if err != nil {
			logger.Warn("redis unavailable, using in-memory rate limiting", "error", err)
		} else {
			defer limiter.Close()
			opts = append(opts, site.WithLimiter(limiter))
			logger.Info("rate limiting backed by redis")
		}
	}

	if cfg.Intake.Enabled {
		h, err := intake.New(
			intake.WithLogger(logger.With("component", "intake")),
			intake.WithFormatChecks(cfg.Form.FormatChecks),
		)
		if err != nil {
			logger.Error("failed to build intake handler", "error", err)
			os.Exit(1)
		}
		opts = append(opts, site.WithMount(h.Mount))
	}

	srv, err := site.NewServer(*cfg, opts...)
	if err != nil {
		logger.Error("failed to build server", "error", err)
		os.Exit(1)
	}

	go srv.RunJanitor(ctx, time.Minute)

	httpServer := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      srv.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.Server.RequestTimeout + 5*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server starting",
			"addr", httpServer.Addr,
			"gateway", cfg.Gateway.Mode,
			"theme", cfg.Theme.Name,
			"intake", cfg.Intake.Enabled,
		)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}

	logger.Info("server stopped")
}
