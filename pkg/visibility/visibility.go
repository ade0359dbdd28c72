// Package visibility decides whether conditional form fields are shown. Rules
// are small boolean expressions over the current record values, for example
// `hasExperience == "yes"`.
package visibility

import "github.com/goliatone/go-internsite/pkg/application"

// Evaluator determines whether a field should be visible based on a rule
// string and the current values of the form.
type Evaluator interface {
	Eval(field, rule string, ctx Context) (bool, error)
}

// Context provides inputs to an Evaluator. Values holds the record snapshot
// keyed by field name.
type Context struct {
	Values map[string]any
}

// FromRecord snapshots a record into an evaluation context.
func FromRecord(rec application.Record) Context {
	if rec == nil {
		return Context{}
	}
	return Context{Values: application.Values(rec)}
}

// EvaluatorFunc adapts a function into an Evaluator.
type EvaluatorFunc func(field, rule string, ctx Context) (bool, error)

// Eval delegates to the underlying function.
func (fn EvaluatorFunc) Eval(field, rule string, ctx Context) (bool, error) {
	return fn(field, rule, ctx)
}

// Always treats every field as visible.
var Always Evaluator = EvaluatorFunc(func(string, string, Context) (bool, error) {
	return true, nil
})
