package queuectl_test

import (
	"context"
	"sync"
	"time"
)

// fakeClock is a manually-advanced Clock for deterministic tests: NowUTC
// reports whatever time the last Advance set, and SleepUntil blocks until
// a subsequent Advance crosses its deadline or ctx is cancelled — the
// same cancellable-select idiom internal.TimerTask uses for its own
// periodic tick.
type fakeClock struct {
	mu   sync.Mutex
	now  time.Time
	subs []chan struct{}
}

func newFakeClock(start time.Time) *fakeClock {
	return &fakeClock{now: start}
}

func (c *fakeClock) NowUTC() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward by d and wakes every SleepUntil call
// currently blocked, so each can re-check whether its deadline passed.
func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	subs := c.subs
	c.subs = nil
	c.mu.Unlock()
	for _, ch := range subs {
		close(ch)
	}
}

func (c *fakeClock) SleepUntil(ctx context.Context, deadline time.Time) error {
	for {
		c.mu.Lock()
		if !c.now.Before(deadline) {
			c.mu.Unlock()
			return nil
		}
		wake := make(chan struct{})
		c.subs = append(c.subs, wake)
		c.mu.Unlock()
		select {
		case <-wake:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// pumpFakeClock advances clock by step every tick of real time until ctx
// is cancelled, turning logical backoff/poll delays into a small, bounded
// amount of real wall-clock wait in tests.
func pumpFakeClock(ctx context.Context, clock *fakeClock, tick time.Duration, step time.Duration) {
	ticker := time.NewTicker(tick)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			clock.Advance(step)
		}
	}
}
