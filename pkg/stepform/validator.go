package stepform

import (
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"

	"github.com/goliatone/go-internsite/pkg/application"
	"github.com/goliatone/go-internsite/pkg/visibility"
	"github.com/goliatone/go-internsite/pkg/visibility/expr"
)

// Rule is an extra per-step check. It returns the errors it finds; an empty
// or nil mapping means the record passes.
type Rule func(rec application.Record) Errors

// Validator checks one step of a record against its schema. Validate is pure:
// it never mutates the record and returns the same mapping for the same
// input.
type Validator struct {
	schema     *application.Schema
	visibility visibility.Evaluator
	formats    bool
	checker    *validator.Validate
	rules      map[int][]Rule
}

// ValidatorOption customises a Validator.
type ValidatorOption func(*Validator)

// WithFormats enables syntax checks (email, phone, URL, dates, numbers) on
// non-empty values and catalog checks on choices. Presence is always checked.
func WithFormats(enabled bool) ValidatorOption {
	return func(v *Validator) {
		v.formats = enabled
	}
}

// WithStepRule attaches an extra check to a step.
func WithStepRule(step int, rule Rule) ValidatorOption {
	return func(v *Validator) {
		if rule == nil {
			return
		}
		v.rules[step] = append(v.rules[step], rule)
	}
}

// WithVisibilityEvaluator replaces the rule evaluator used for conditional
// fields.
func WithVisibilityEvaluator(eval visibility.Evaluator) ValidatorOption {
	return func(v *Validator) {
		if eval != nil {
			v.visibility = eval
		}
	}
}

// NewValidator builds a validator for the schema.
func NewValidator(schema *application.Schema, opts ...ValidatorOption) *Validator {
	v := &Validator{
		schema:     schema,
		visibility: expr.New(),
		rules:      make(map[int][]Rule),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(v)
		}
	}
	if v.formats {
		v.checker = newChecker()
	}
	return v
}

// Validate checks the fields of step against rec. Hidden conditional fields
// are skipped. Steps outside the schema yield an empty mapping.
func (v *Validator) Validate(step int, rec application.Record) Errors {
	errs := Errors{}
	spec, ok := v.schema.Step(step)
	if !ok || rec == nil {
		return errs
	}
	var ctx visibility.Context
	for _, field := range spec.Fields {
		if field.VisibleWhen != "" {
			if ctx.Values == nil {
				ctx = visibility.FromRecord(rec)
			}
			if visible, err := v.visibility.Eval(field.Name, field.VisibleWhen, ctx); err == nil && !visible {
				continue
			}
		}
		value, ok := rec.Field(field.Name)
		if !ok {
			continue
		}
		if !value.Present() {
			if field.Required {
				errs[field.Name] = requiredMessage(field)
			}
			continue
		}
		if v.formats {
			if msg, bad := v.checkFormat(field, value); bad {
				errs[field.Name] = msg
			}
		}
	}
	for _, rule := range v.rules[step] {
		for field, msg := range rule(rec) {
			if _, exists := errs[field]; !exists {
				errs[field] = msg
			}
		}
	}
	return errs
}

// ValidateAll runs every step and merges the results; used where a complete
// record arrives in one piece.
func (v *Validator) ValidateAll(rec application.Record) Errors {
	all := Errors{}
	for step := 1; step <= v.schema.TotalSteps(); step++ {
		for field, msg := range v.Validate(step, rec) {
			all[field] = msg
		}
	}
	return all
}

func requiredMessage(field application.FieldSpec) string {
	if field.Message != "" {
		return field.Message
	}
	return field.Label + " is required"
}

func (v *Validator) checkFormat(field application.FieldSpec, value application.Value) (string, bool) {
	switch value.Kind() {
	case application.KindChoice:
		if !field.HasOption(value.String()) {
			return "Select a valid option", true
		}
	case application.KindSet:
		for _, item := range value.Items() {
			if !field.HasOption(item) {
				return "Select valid options only", true
			}
		}
	case application.KindText:
		if field.Format == "" {
			return "", false
		}
		if err := v.checker.Var(strings.TrimSpace(value.String()), field.Format); err != nil {
			return formatMessage(field), true
		}
	}
	return "", false
}

func formatMessage(field application.FieldSpec) string {
	tag := field.Format
	switch {
	case tag == "email":
		return "Enter a valid email address"
	case tag == "phone":
		return "Enter a valid phone number"
	case tag == "url":
		return "Enter a valid URL"
	case strings.HasPrefix(tag, "datetime="):
		return "Enter a valid date (YYYY-MM-DD)"
	case strings.HasPrefix(tag, "numeric"):
		return field.Label + " must be a number"
	default:
		return field.Label + " is invalid"
	}
}

func newChecker() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return validPhone(fl.Field().String())
	})
	return v
}

// validPhone accepts 10 to 15 digits with an optional leading plus and the
// usual separators.
func validPhone(raw string) bool {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, "+")
	digits := 0
	for _, r := range raw {
		switch {
		case unicode.IsDigit(r):
			digits++
		case r == ' ' || r == '-' || r == '(' || r == ')':
		default:
			return false
		}
	}
	return digits >= 10 && digits <= 15
}
