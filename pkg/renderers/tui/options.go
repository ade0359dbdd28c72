package tui

import (
	"io"
	"os"
)

// OutputFormat controls how the submitted record is echoed after a
// successful submission.
type OutputFormat string

const (
	// OutputFormatNone prints only the confirmation banner.
	OutputFormatNone OutputFormat = "none"
	// OutputFormatJSON emits the JSON payload sent to the gateway.
	OutputFormatJSON OutputFormat = "json"
	// OutputFormatFormURLEncoded emits application/x-www-form-urlencoded pairs.
	OutputFormatFormURLEncoded OutputFormat = "form"
	// OutputFormatPrettyText emits a human-friendly summary grouped by step.
	OutputFormatPrettyText OutputFormat = "pretty"
)

// Theme captures optional prefixes the runner applies to driver messages.
type Theme struct {
	PromptPrefix string
	InfoPrefix   string
	ErrorPrefix  string
}

// DefaultTheme is applied when no theme is configured.
var DefaultTheme = Theme{
	InfoPrefix:  "›",
	ErrorPrefix: "✗",
}

// Option configures the runner.
type Option func(*Runner)

// WithPromptDriver overrides the prompt driver used by the runner.
func WithPromptDriver(driver PromptDriver) Option {
	return func(r *Runner) {
		if driver != nil {
			r.driver = driver
		}
	}
}

// WithOutputFormat selects how the submitted record is echoed.
func WithOutputFormat(format OutputFormat) Option {
	return func(r *Runner) {
		if format != "" {
			r.outputFormat = format
		}
	}
}

// WithOutput sets the writer used for banners and summaries.
func WithOutput(w io.Writer) Option {
	return func(r *Runner) {
		if w != nil {
			r.out = w
		}
	}
}

// WithFileReader overrides how attachment paths are read from disk.
func WithFileReader(read func(path string) ([]byte, error)) Option {
	return func(r *Runner) {
		if read != nil {
			r.readFile = read
		}
	}
}

// WithTheme applies message prefixes.
func WithTheme(theme Theme) Option {
	return func(r *Runner) {
		r.theme = theme
	}
}

func defaultReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}
