package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/goliatone/go-internsite/pkg/application"
	"github.com/goliatone/go-internsite/pkg/stepform"
)

// Runner walks a stepform.Controller through a terminal session: it prompts
// for every visible field of the displayed step, then offers navigation and
// submission actions until the gateway accepts the application.
type Runner struct {
	driver       PromptDriver
	outputFormat OutputFormat
	out          io.Writer
	readFile     func(path string) ([]byte, error)
	theme        Theme
	styles       styles
}

type action int

const (
	actionNext action = iota
	actionSubmit
	actionBack
	actionReset
)

// New constructs a runner with defaults (survey driver, stdout, pretty
// summary).
func New(options ...Option) (*Runner, error) {
	r := &Runner{
		outputFormat: OutputFormatPrettyText,
		out:          os.Stdout,
		readFile:     defaultReadFile,
		theme:        DefaultTheme,
		styles:       newStyles(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}
	if r.driver == nil {
		r.driver = NewSurveyDriver(r.out)
	}
	return r, nil
}

// Run drives the controller until the application is accepted, the context is
// cancelled or the driver fails (ErrAborted on Ctrl+C).
func (r *Runner) Run(ctx context.Context, c *stepform.Controller) (stepform.Receipt, error) {
	if ctx == nil {
		return stepform.Receipt{}, errors.New("tui: context is required")
	}
	if c == nil {
		return stepform.Receipt{}, ErrNoController
	}

	r.printBanner(c.Schema())
	for {
		if err := ctx.Err(); err != nil {
			return stepform.Receipt{}, err
		}
		r.printStep(c)
		if err := r.promptStep(ctx, c); err != nil {
			return stepform.Receipt{}, err
		}

		act, err := r.chooseAction(ctx, c)
		if err != nil {
			return stepform.Receipt{}, err
		}

		switch act {
		case actionBack:
			if err := c.Prev(); err != nil {
				return stepform.Receipt{}, err
			}
		case actionReset:
			if err := c.Reset(); err != nil {
				return stepform.Receipt{}, err
			}
		case actionNext:
			errs, err := c.Next()
			if err != nil {
				return stepform.Receipt{}, err
			}
			r.reportErrors(ctx, c, errs)
		case actionSubmit:
			receipt, err := c.Submit(ctx)
			if err == nil {
				r.printReceipt(c, receipt)
				return receipt, nil
			}
			var subErr *stepform.SubmissionError
			switch {
			case errors.Is(err, stepform.ErrValidation):
				r.reportErrors(ctx, c, c.Errors())
			case errors.As(err, &subErr):
				r.warn(ctx, c.Notice())
				r.reportErrors(ctx, c, c.Errors())
			default:
				return stepform.Receipt{}, err
			}
		}
	}
}

// promptStep re-reads the visible field list after every answer so fields
// revealed by an earlier answer on the same step are asked for too.
func (r *Runner) promptStep(ctx context.Context, c *stepform.Controller) error {
	for i := 0; ; i++ {
		fields := c.VisibleFields()
		if i >= len(fields) {
			return nil
		}
		field := fields[i]
		if msg, ok := c.Errors()[field.Name]; ok {
			r.warn(ctx, msg)
		}
		if err := r.promptField(ctx, c, field); err != nil {
			return err
		}
	}
}

func (r *Runner) promptField(ctx context.Context, c *stepform.Controller, field application.FieldSpec) error {
	current, _ := c.Value(field.Name)
	label := r.theme.PromptPrefix + displayLabel(field)

	switch field.Kind {
	case application.KindText:
		var (
			resp string
			err  error
		)
		if field.Multiline {
			resp, err = r.driver.TextArea(ctx, TextAreaConfig{
				Message: label,
				Default: current.String(),
				Help:    field.Placeholder,
			})
		} else {
			resp, err = r.driver.Input(ctx, InputConfig{
				Message:     label,
				Default:     current.String(),
				Placeholder: field.Placeholder,
			})
		}
		if err != nil {
			return err
		}
		return c.Set(field.Name, application.Text(strings.TrimRight(resp, "\n")))

	case application.KindChoice:
		options := optionLabels(field.Options)
		offset := 0
		if !field.Required {
			options = append([]string{"Skip"}, options...)
			offset = 1
		}
		defaultIdx := -1
		for i, opt := range field.Options {
			if opt.Value == current.String() {
				defaultIdx = i + offset
			}
		}
		for {
			idx, err := r.driver.Select(ctx, SelectConfig{
				Message:      label,
				Options:      options,
				DefaultIndex: defaultIdx,
			})
			if err != nil {
				return err
			}
			if idx < 0 || idx >= len(options) {
				r.warn(ctx, fmt.Sprintf("Invalid %s selection", strings.ToLower(field.Label)))
				continue
			}
			if idx < offset {
				return c.Set(field.Name, application.Choice(""))
			}
			return c.Set(field.Name, application.Choice(field.Options[idx-offset].Value))
		}

	case application.KindSet:
		options := optionLabels(field.Options)
		var defaults []int
		for i, opt := range field.Options {
			if current.Contains(opt.Value) {
				defaults = append(defaults, i)
			}
		}
		indices, err := r.driver.MultiSelect(ctx, SelectConfig{
			Message:  label,
			Options:  options,
			Defaults: defaults,
			Help:     "Select all that apply",
		})
		if err != nil {
			return err
		}
		values := make([]string, 0, len(indices))
		for _, idx := range indices {
			if idx >= 0 && idx < len(field.Options) {
				values = append(values, field.Options[idx].Value)
			}
		}
		return c.Set(field.Name, application.Set(values...))

	case application.KindFlag:
		resp, err := r.driver.Confirm(ctx, ConfirmConfig{
			Message: label,
			Default: current.Bool(),
		})
		if err != nil {
			return err
		}
		return c.Set(field.Name, application.Flag(resp))

	case application.KindFile:
		return r.promptAttachment(ctx, c, field, label, current)

	default:
		return fmt.Errorf("tui: field %q has unsupported kind %s", field.Name, field.Kind)
	}
}

func (r *Runner) promptAttachment(ctx context.Context, c *stepform.Controller, field application.FieldSpec, label string, current application.Value) error {
	help := fmt.Sprintf("Path to a %s file (max %d MB). Leave empty to skip.",
		strings.Join(application.AcceptedExtensions(), ", "), application.MaxResumeSize>>20)
	for {
		path, err := r.driver.FilePath(ctx, FileConfig{
			Message:    label,
			Default:    current.String(),
			Help:       help,
			Extensions: application.AcceptedExtensions(),
		})
		if err != nil {
			return err
		}
		if path == "" {
			return c.Set(field.Name, application.File(nil))
		}
		if current.Attachment() != nil && path == current.String() {
			return nil
		}
		data, err := r.readFile(path)
		if err != nil {
			r.warn(ctx, fmt.Sprintf("Could not read %s: %v", path, err))
			continue
		}
		att, err := application.NewAttachment(filepath.Base(path), "", data)
		if err != nil {
			r.warn(ctx, err.Error())
			continue
		}
		return c.Set(field.Name, application.File(att))
	}
}

func (r *Runner) chooseAction(ctx context.Context, c *stepform.Controller) (action, error) {
	var (
		labels  []string
		actions []action
	)
	if c.IsLast() {
		labels, actions = append(labels, "Submit application"), append(actions, actionSubmit)
	} else {
		labels, actions = append(labels, "Continue"), append(actions, actionNext)
	}
	if !c.IsFirst() {
		labels, actions = append(labels, "Back"), append(actions, actionBack)
	}
	labels, actions = append(labels, "Start over"), append(actions, actionReset)

	for {
		idx, err := r.driver.Select(ctx, SelectConfig{
			Message:      "What next?",
			Options:      labels,
			DefaultIndex: 0,
		})
		if err != nil {
			return 0, err
		}
		if idx >= 0 && idx < len(actions) {
			return actions[idx], nil
		}
	}
}

func (r *Runner) reportErrors(ctx context.Context, c *stepform.Controller, errs stepform.Errors) {
	if len(errs) == 0 {
		return
	}
	schema := c.Schema()
	for _, name := range errs.Fields() {
		label := name
		if spec, _, ok := schema.Field(name); ok {
			label = spec.Label
		}
		r.warn(ctx, fmt.Sprintf("%s: %s", label, errs[name]))
	}
}

func (r *Runner) warn(ctx context.Context, msg string) {
	if msg == "" {
		return
	}
	_ = r.driver.Info(ctx, strings.TrimSpace(r.theme.ErrorPrefix+" "+msg))
}

func displayLabel(field application.FieldSpec) string {
	if field.Required {
		return field.Label + " *"
	}
	return field.Label
}

func optionLabels(options []application.Option) []string {
	out := make([]string, len(options))
	for i, opt := range options {
		out[i] = opt.Label
	}
	return out
}

type styles struct {
	title    lipgloss.Style
	subtitle lipgloss.Style
	step     lipgloss.Style
	receipt  lipgloss.Style
	label    lipgloss.Style
}

func newStyles() styles {
	return styles{
		title:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#2563EB")),
		subtitle: lipgloss.NewStyle().Faint(true),
		step:     lipgloss.NewStyle().Bold(true).MarginTop(1),
		receipt: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#16A34A")).
			Padding(0, 2),
		label: lipgloss.NewStyle().Bold(true),
	}
}

func (r *Runner) printBanner(schema *application.Schema) {
	fmt.Fprintln(r.out, r.styles.title.Render(schema.Title))
	if schema.Description != "" {
		fmt.Fprintln(r.out, r.styles.subtitle.Render(schema.Description))
	}
}

func (r *Runner) printStep(c *stepform.Controller) {
	step := c.CurrentStep()
	header := fmt.Sprintf("Step %d of %d · %s", c.Step(), c.TotalSteps(), step.Title)
	fmt.Fprintln(r.out, r.styles.step.Render(header))
	fmt.Fprintf(r.out, "%s %d%%\n", progressBar(c.Progress(), 20), c.Progress())
	if step.Description != "" {
		fmt.Fprintln(r.out, r.styles.subtitle.Render(step.Description))
	}
}

func (r *Runner) printReceipt(c *stepform.Controller, receipt stepform.Receipt) {
	body := fmt.Sprintf("%s\nReference: %s",
		r.styles.label.Render("Application submitted successfully!"), receipt.Reference)
	fmt.Fprintln(r.out, r.styles.receipt.Render(body))

	summary, err := Summarize(c.Schema(), c.Record(), r.outputFormat)
	if err != nil {
		fmt.Fprintf(r.out, "%s %v\n", r.theme.ErrorPrefix, err)
		return
	}
	if summary != "" {
		fmt.Fprintln(r.out, summary)
	}
}

func progressBar(percent, width int) string {
	filled := percent * width / 100
	if filled > width {
		filled = width
	}
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}
