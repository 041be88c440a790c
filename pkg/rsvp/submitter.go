package rsvp

import (
	"context"
	"time"
)

// DefaultDelay is how long the simulated submission takes.
const DefaultDelay = 1500 * time.Millisecond

// Submitter transmits a validated form. It receives a snapshot; later edits
// to the controller do not affect it.
type Submitter interface {
	Submit(ctx context.Context, state FormState) error
}

// SubmitterFunc adapts a function to Submitter.
type SubmitterFunc func(ctx context.Context, state FormState) error

func (f SubmitterFunc) Submit(ctx context.Context, state FormState) error {
	return f(ctx, state)
}

// Simulated accepts every form after Delay. It performs no I/O.
// A zero Delay uses DefaultDelay; a negative Delay returns immediately.
type Simulated struct {
	Delay time.Duration
}

func (s Simulated) Submit(ctx context.Context, _ FormState) error {
	d := s.Delay
	if d == 0 {
		d = DefaultDelay
	}
	if d < 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
