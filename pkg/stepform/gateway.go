package stepform

import (
	"context"
	"time"

	"github.com/goliatone/go-internsite/pkg/application"
)

// Submission is what the controller hands to a Gateway: the variant tag and
// a snapshot of the complete record.
type Submission struct {
	Variant     application.Variant
	Record      application.Record
	SubmittedAt time.Time
	Attempt     int
}

// Receipt acknowledges an accepted submission.
type Receipt struct {
	Reference  string    `json:"reference"`
	AcceptedAt time.Time `json:"acceptedAt"`
}

// Gateway receives completed applications. Submit blocks until the
// submission is accepted or rejected; any error is treated as a recoverable
// submission failure.
type Gateway interface {
	Submit(ctx context.Context, sub Submission) (Receipt, error)
}

// GatewayFunc adapts a function into a Gateway.
type GatewayFunc func(ctx context.Context, sub Submission) (Receipt, error)

// Submit delegates to the underlying function.
func (fn GatewayFunc) Submit(ctx context.Context, sub Submission) (Receipt, error) {
	return fn(ctx, sub)
}

// FieldErrorer is implemented by gateway errors that carry per-field
// messages reported by the receiving side.
type FieldErrorer interface {
	FieldErrors() map[string]string
}
