package stepform

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/goliatone/go-internsite/pkg/application"
	"github.com/goliatone/go-internsite/pkg/visibility"
	"github.com/goliatone/go-internsite/pkg/visibility/expr"
)

// Phase is the lifecycle position of a form session.
type Phase int

const (
	PhaseEditing Phase = iota
	PhaseSubmitting
	PhaseSubmitted
)

func (p Phase) String() string {
	switch p {
	case PhaseEditing:
		return "editing"
	case PhaseSubmitting:
		return "submitting"
	case PhaseSubmitted:
		return "submitted"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// MarshalText renders the phase name in JSON payloads.
func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// Controller drives one form session: field edits go to the Store, Next and
// Prev move the Navigator, and Submit hands the record to the Gateway.
type Controller struct {
	mu sync.Mutex

	schema     *application.Schema
	store      *Store
	validator  *Validator
	nav        *Navigator
	gateway    Gateway
	visibility visibility.Evaluator
	logger     *slog.Logger
	timeout    time.Duration
	now        func() time.Time

	validatorOpts []ValidatorOption

	phase    Phase
	notice   string
	receipt  Receipt
	attempts int
}

// NewController builds a controller for the variant with an empty store.
func NewController(variant application.Variant, gateway Gateway, opts ...Option) (*Controller, error) {
	if gateway == nil {
		return nil, ErrNoGateway
	}
	store, err := NewStore(variant)
	if err != nil {
		return nil, err
	}
	c := &Controller{
		schema:     store.schema,
		store:      store,
		nav:        NewNavigator(store.schema.TotalSteps()),
		gateway:    gateway,
		visibility: expr.New(),
		logger:     slog.Default(),
		now:        time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	c.validator = NewValidator(c.schema, c.validatorOpts...)
	c.logger = c.logger.With("variant", string(variant))
	return c, nil
}

// Variant reports the application variant of the session.
func (c *Controller) Variant() application.Variant {
	return c.schema.Variant
}

// Schema returns the step layout. Callers must not mutate it.
func (c *Controller) Schema() *application.Schema {
	return c.schema
}

// Set replaces a field value and clears that field's error.
func (c *Controller) Set(field string, v application.Value) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.editable(); err != nil {
		return err
	}
	return c.store.Set(field, v)
}

// Toggle adds or removes one member of a set-valued field.
func (c *Controller) Toggle(field, item string, checked bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.editable(); err != nil {
		return err
	}
	return c.store.Toggle(field, item, checked)
}

// Next validates the displayed step. With no errors it advances (clamped to
// the last step) and clears the mapping; otherwise the step stays put and the
// returned mapping is recorded for display.
func (c *Controller) Next() (Errors, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.editable(); err != nil {
		return nil, err
	}
	step := c.nav.Current()
	errs := c.validator.Validate(step, c.store.record)
	c.store.setErrors(errs)
	c.notice = ""
	if len(errs) > 0 {
		c.logger.Debug("step blocked by validation", "step", step, "fields", errs.Fields())
		return errs.clone(), nil
	}
	if c.nav.Advance() {
		c.logger.Debug("step advanced", "from", step, "to", c.nav.Current())
	}
	return Errors{}, nil
}

// Prev moves back one step without validating. Recorded errors belong to the
// step being left and are dropped.
func (c *Controller) Prev() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.editable(); err != nil {
		return err
	}
	from := c.nav.Current()
	if c.nav.Back() {
		c.store.setErrors(nil)
		c.notice = ""
		c.logger.Debug("step reversed", "from", from, "to", c.nav.Current())
	}
	return nil
}

// Submit re-validates the last step and hands the record to the gateway.
// The controller is busy until the gateway returns. On failure the session
// stays on the last step with its data intact, a notice is recorded and a
// *SubmissionError is returned; calling Submit again retries with the same
// data.
func (c *Controller) Submit(ctx context.Context) (Receipt, error) {
	sub, err := c.beginSubmit()
	if err != nil {
		return Receipt{}, err
	}

	c.logger.Info("submitting application", "attempt", sub.Attempt)
	receipt, gwErr := c.callGateway(ctx, sub)

	c.mu.Lock()
	defer c.mu.Unlock()
	if gwErr != nil {
		c.phase = PhaseEditing
		c.notice = FailureNotice
		c.mergeGatewayErrors(gwErr)
		c.logger.Warn("submission failed", "attempt", sub.Attempt, "error", gwErr)
		return Receipt{}, &SubmissionError{Attempt: sub.Attempt, Err: gwErr}
	}
	if receipt.AcceptedAt.IsZero() {
		receipt.AcceptedAt = c.now()
	}
	c.phase = PhaseSubmitted
	c.notice = ""
	c.receipt = receipt
	c.store.setErrors(nil)
	c.logger.Info("application submitted", "attempt", sub.Attempt, "reference", receipt.Reference)
	return receipt, nil
}

func (c *Controller) beginSubmit() (Submission, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.editable(); err != nil {
		return Submission{}, err
	}
	if !c.nav.IsLast() {
		return Submission{}, ErrNotLastStep
	}
	step := c.nav.Current()
	errs := c.validator.Validate(step, c.store.record)
	c.store.setErrors(errs)
	if len(errs) > 0 {
		c.notice = ""
		return Submission{}, fmt.Errorf("%w: step %d", ErrValidation, step)
	}
	c.phase = PhaseSubmitting
	c.notice = ""
	c.attempts++
	return Submission{
		Variant:     c.schema.Variant,
		Record:      c.store.record.Clone(),
		SubmittedAt: c.now(),
		Attempt:     c.attempts,
	}, nil
}

func (c *Controller) callGateway(ctx context.Context, sub Submission) (receipt Receipt, err error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("stepform: gateway panic: %v", r)
		}
	}()
	return c.gateway.Submit(ctx, sub)
}

// mergeGatewayErrors records field errors reported by the receiving side for
// fields on the displayed step.
func (c *Controller) mergeGatewayErrors(err error) {
	var fe FieldErrorer
	if !errors.As(err, &fe) {
		return
	}
	step, _ := c.schema.Step(c.nav.Current())
	onStep := make(map[string]struct{}, len(step.Fields))
	for _, f := range step.Fields {
		onStep[f.Name] = struct{}{}
	}
	merged := c.store.errors.clone()
	for field, msg := range fe.FieldErrors() {
		if _, ok := onStep[field]; ok {
			merged[field] = msg
		}
	}
	c.store.setErrors(merged)
}

// Reset discards the record and returns to step 1 ("submit another
// application").
func (c *Controller) Reset() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.phase == PhaseSubmitting {
		return ErrBusy
	}
	c.store.Reset()
	c.nav.Reset()
	c.phase = PhaseEditing
	c.notice = ""
	c.receipt = Receipt{}
	c.attempts = 0
	c.logger.Debug("form reset")
	return nil
}

func (c *Controller) editable() error {
	switch c.phase {
	case PhaseSubmitting:
		return ErrBusy
	case PhaseSubmitted:
		return ErrAlreadySubmitted
	}
	return nil
}

// Step reports the displayed step index.
func (c *Controller) Step() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.nav.Current()
}

// TotalSteps reports the number of steps of the variant.
func (c *Controller) TotalSteps() int {
	return c.nav.Total()
}

// CurrentStep returns the schema of the displayed step.
func (c *Controller) CurrentStep() application.Step {
	c.mu.Lock()
	defer c.mu.Unlock()
	step, _ := c.schema.Step(c.nav.Current())
	return step
}

// Progress reports the completion percentage of the displayed step.
func (c *Controller) Progress() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.nav.Progress()
}

// IsFirst reports whether the first step is displayed.
func (c *Controller) IsFirst() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.nav.IsFirst()
}

// IsLast reports whether the last step is displayed.
func (c *Controller) IsLast() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.nav.IsLast()
}

// Errors returns a copy of the error mapping for the displayed step.
func (c *Controller) Errors() Errors {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.store.Errors()
}

// Notice returns the session-level failure notice, if any.
func (c *Controller) Notice() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.notice
}

func (c *Controller) Phase() Phase {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.phase
}

func (c *Controller) Submitting() bool { return c.Phase() == PhaseSubmitting }

func (c *Controller) Submitted() bool { return c.Phase() == PhaseSubmitted }

// Receipt returns the gateway receipt once submitted.
func (c *Controller) Receipt() (Receipt, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.receipt, c.phase == PhaseSubmitted
}

// Attempts reports how many submissions were started since the last reset.
func (c *Controller) Attempts() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.attempts
}

// Value returns the current value of a field.
func (c *Controller) Value(field string) (application.Value, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.store.Value(field)
}

// Record returns a deep copy of the current record.
func (c *Controller) Record() application.Record {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.store.Record()
}

// VisibleFields returns the fields of the displayed step whose visibility
// rules hold for the current values.
func (c *Controller) VisibleFields() []application.FieldSpec {
	c.mu.Lock()
	defer c.mu.Unlock()
	step, _ := c.schema.Step(c.nav.Current())
	return c.visibleLocked(step)
}

func (c *Controller) visibleLocked(step application.Step) []application.FieldSpec {
	ctx := visibility.FromRecord(c.store.record)
	out := make([]application.FieldSpec, 0, len(step.Fields))
	for _, f := range step.Fields {
		if f.VisibleWhen != "" {
			if ok, err := c.visibility.Eval(f.Name, f.VisibleWhen, ctx); err == nil && !ok {
				continue
			}
		}
		out = append(out, f)
	}
	return out
}

// State is a read-only snapshot of a session for renderers and APIs.
type State struct {
	Variant    application.Variant     `json:"variant"`
	Phase      Phase                   `json:"phase"`
	Step       int                     `json:"step"`
	TotalSteps int                     `json:"totalSteps"`
	Progress   int                     `json:"progress"`
	Title      string                  `json:"title"`
	Subtitle   string                  `json:"subtitle,omitempty"`
	Fields     []application.FieldSpec `json:"fields"`
	Values     map[string]any          `json:"values"`
	Errors     Errors                  `json:"errors"`
	Notice     string                  `json:"notice,omitempty"`
	Reference  string                  `json:"reference,omitempty"`
}

// Snapshot captures the session state atomically.
func (c *Controller) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	step, _ := c.schema.Step(c.nav.Current())
	return State{
		Variant:    c.schema.Variant,
		Phase:      c.phase,
		Step:       c.nav.Current(),
		TotalSteps: c.nav.Total(),
		Progress:   c.nav.Progress(),
		Title:      step.Title,
		Subtitle:   step.Description,
		Fields:     c.visibleLocked(step),
		Values:     application.Values(c.store.record),
		Errors:     c.store.Errors(),
		Notice:     c.notice,
		Reference:  c.receipt.Reference,
	}
}
