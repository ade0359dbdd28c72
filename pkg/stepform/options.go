package stepform

import (
	"log/slog"
	"time"

	"github.com/goliatone/go-internsite/pkg/visibility"
)

// Option customises a Controller.
type Option func(*Controller)

// WithLogger routes controller logs to logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithSubmitTimeout bounds each gateway call. Zero waits indefinitely.
func WithSubmitTimeout(d time.Duration) Option {
	return func(c *Controller) {
		if d >= 0 {
			c.timeout = d
		}
	}
}

// WithClock overrides the time source used for submission timestamps.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) {
		if now != nil {
			c.now = now
		}
	}
}

// WithFormatChecks enables syntax and catalog checks in addition to the
// presence rules.
func WithFormatChecks(enabled bool) Option {
	return func(c *Controller) {
		c.validatorOpts = append(c.validatorOpts, WithFormats(enabled))
	}
}

// WithRule attaches an extra validation rule to a step.
func WithRule(step int, rule Rule) Option {
	return func(c *Controller) {
		c.validatorOpts = append(c.validatorOpts, WithStepRule(step, rule))
	}
}

// WithVisibility swaps the evaluator used for conditional fields.
func WithVisibility(eval visibility.Evaluator) Option {
	return func(c *Controller) {
		if eval != nil {
			c.visibility = eval
			c.validatorOpts = append(c.validatorOpts, WithVisibilityEvaluator(eval))
		}
	}
}
