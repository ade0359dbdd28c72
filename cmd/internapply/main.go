package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	internsite "github.com/goliatone/go-internsite"
	"github.com/goliatone/go-internsite/internal/bootstrap"
	"github.com/goliatone/go-internsite/pkg/application"
	"github.com/goliatone/go-internsite/pkg/renderers/tui"
	"github.com/goliatone/go-internsite/pkg/stepform"
)

func main() {
	var (
		variantFlag = flag.String("variant", string(application.VariantIndividual), "Application type: individual, institute or enquiry")
		format      = flag.String("format", string(tui.OutputFormatPrettyText), "Summary printed after submission: pretty, json, form or none")
		configPath  = flag.String("config", "", "Path to a YAML config file")
	)
	flag.Parse()

	if err := run(*variantFlag, *format, *configPath); err != nil {
		if errors.Is(err, tui.ErrAborted) || errors.Is(err, context.Canceled) {
			fmt.Fprintln(os.Stderr, "internapply: aborted")
			os.Exit(130)
		}
		fmt.Fprintf(os.Stderr, "internapply: %v\n", err)
		os.Exit(1)
	}
}

func run(variantName, format, configPath string) error {
	cfg, err := bootstrap.LoadConfig(configPath)
	if err != nil {
		return err
	}
	logger := cfg.Log.NewLogger(os.Stderr)

	variant, err := application.ParseVariant(variantName)
	if err != nil {
		return err
	}

	outputFormat, err := parseFormat(format)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	gw, err := bootstrap.Gateway(ctx, cfg.Gateway, logger)
	if err != nil {
		return err
	}

	ctrl, err := internsite.NewSession(variant, gw,
		stepform.WithLogger(logger),
		stepform.WithSubmitTimeout(cfg.Form.SubmitTimeout),
		stepform.WithFormatChecks(cfg.Form.FormatChecks),
	)
	if err != nil {
		return err
	}

	runner, err := tui.New(tui.WithOutputFormat(outputFormat))
	if err != nil {
		return err
	}
	_, err = runner.Run(ctx, ctrl)
	return err
}

func parseFormat(raw string) (tui.OutputFormat, error) {
	switch f := tui.OutputFormat(raw); f {
	case tui.OutputFormatNone, tui.OutputFormatJSON, tui.OutputFormatFormURLEncoded, tui.OutputFormatPrettyText:
		return f, nil
	default:
		return "", fmt.Errorf("unknown output format %q", raw)
	}
}
