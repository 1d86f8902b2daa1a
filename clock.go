package queuectl

import (
	"context"
	"time"
)

// Clock abstracts wall-clock time so that backoff scheduling and poll
// intervals can be tested without real sleeps.
type Clock interface {
	// NowUTC returns the current time in UTC.
	NowUTC() time.Time

	// SleepUntil blocks until deadline is reached or ctx is cancelled,
	// whichever happens first. It returns ctx.Err() if cancellation woke
	// it early, and nil if the deadline was reached normally. A deadline
	// that has already passed returns immediately.
	SleepUntil(ctx context.Context, deadline time.Time) error
}

// realClock is the production Clock backed by the system clock.
type realClock struct{}

// NewRealClock returns a Clock backed by the system wall clock.
func NewRealClock() Clock {
	return realClock{}
}

func (realClock) NowUTC() time.Time {
	return time.Now().UTC()
}

func (realClock) SleepUntil(ctx context.Context, deadline time.Time) error {
	d := time.Until(deadline)
	if d <= 0 {
		return nil
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
