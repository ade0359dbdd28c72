package stepform

import (
	"errors"
	"fmt"
	"sort"
)

var (
	// ErrBusy is returned by every mutating call while a submission is in
	// flight.
	ErrBusy = errors.New("stepform: submission in progress")
	// ErrNotLastStep is returned when Submit is called before the final step.
	ErrNotLastStep = errors.New("stepform: submit is only available on the last step")
	// ErrAlreadySubmitted is returned once the application was accepted; only
	// Reset is allowed afterwards.
	ErrAlreadySubmitted = errors.New("stepform: application already submitted")
	// ErrValidation is returned by Submit when the last step fails
	// validation. The error mapping is recorded on the controller.
	ErrValidation = errors.New("stepform: step has validation errors")
	// ErrNoGateway is returned when a controller is built without a gateway.
	ErrNoGateway = errors.New("stepform: gateway is required")
	// ErrUnknownOption is returned when a choice or set value is not part of
	// the field's catalog.
	ErrUnknownOption = errors.New("stepform: value is not a known option")
)

// FailureNotice is the session-level message shown after a failed submission.
const FailureNotice = "We couldn't submit your application. Please try again."

// Errors maps field names to a single display message.
type Errors map[string]string

// Has reports whether field has a recorded error.
func (e Errors) Has(field string) bool {
	_, ok := e[field]
	return ok
}

// Fields returns the fields with errors in sorted order.
func (e Errors) Fields() []string {
	out := make([]string, 0, len(e))
	for field := range e {
		out = append(out, field)
	}
	sort.Strings(out)
	return out
}

func (e Errors) clone() Errors {
	out := make(Errors, len(e))
	for k, v := range e {
		out[k] = v
	}
	return out
}

// SubmissionError wraps a gateway failure. The controller stays on the last
// step with its data intact so the same submission can be retried.
type SubmissionError struct {
	Attempt int
	Err     error
}

func (e *SubmissionError) Error() string {
	return fmt.Sprintf("stepform: submission attempt %d failed: %v", e.Attempt, e.Err)
}

func (e *SubmissionError) Unwrap() error {
	return e.Err
}
