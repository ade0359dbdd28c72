package gateway

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-internsite/pkg/application"
	"github.com/goliatone/go-internsite/pkg/stepform"
)

// DefaultStubDelay mirrors the simulated network latency of the site.
const DefaultStubDelay = 2 * time.Second

// Stub accepts every submission after a fixed delay and logs the payload
// that a real backend would receive. Nothing is transmitted.
type Stub struct {
	delay  time.Duration
	logger *slog.Logger
	fail   func(stepform.Submission) error
	newID  func() string
	now    func() time.Time
}

var _ stepform.Gateway = (*Stub)(nil)

// StubOption customises a Stub.
type StubOption func(*Stub)

// WithDelay sets the simulated latency.
func WithDelay(d time.Duration) StubOption {
	return func(s *Stub) {
		if d >= 0 {
			s.delay = d
		}
	}
}

// WithStubLogger routes the payload log to logger.
func WithStubLogger(logger *slog.Logger) StubOption {
	return func(s *Stub) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithFailure makes the stub reject submissions for which fn returns an
// error, to exercise the failure path in demos and tests.
func WithFailure(fn func(stepform.Submission) error) StubOption {
	return func(s *Stub) {
		s.fail = fn
	}
}

// NewStub returns a stub with the default two second delay.
func NewStub(opts ...StubOption) *Stub {
	s := &Stub{
		delay:  DefaultStubDelay,
		logger: slog.Default(),
		newID:  uuid.NewString,
		now:    time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Submit waits for the delay or ctx, logs the payload and returns a receipt
// with a random reference.
func (s *Stub) Submit(ctx context.Context, sub stepform.Submission) (stepform.Receipt, error) {
	if sub.Record == nil {
		return stepform.Receipt{}, ErrNoRecord
	}
	if s.delay > 0 {
		timer := time.NewTimer(s.delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return stepform.Receipt{}, ctx.Err()
		case <-timer.C:
		}
	}
	if s.fail != nil {
		if err := s.fail(sub); err != nil {
			return stepform.Receipt{}, err
		}
	}
	payload, err := application.MarshalPayload(sub.Record)
	if err != nil {
		return stepform.Receipt{}, err
	}
	receipt := stepform.Receipt{Reference: s.newID(), AcceptedAt: s.now()}
	s.logger.Info("application data to be sent to backend",
		"variant", string(sub.Variant),
		"attempt", sub.Attempt,
		"reference", receipt.Reference,
		"payload", json.RawMessage(payload),
	)
	return receipt, nil
}
