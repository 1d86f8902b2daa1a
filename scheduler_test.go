package queuectl_test

import (
	"testing"
	"time"

	"github.com/aidarkhanov/queuectl"
)

func TestDecideSucceededAlwaysCompletes(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	d := queuectl.Decide(queuectl.Outcome{Kind: queuectl.Succeeded}, 5, 0, 2, now)
	if d.Kind != queuectl.Complete {
		t.Fatalf("expected Complete, got %v", d.Kind)
	}
}

func TestDecideMaxRetriesZeroBuriesOnFirstFailure(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	d := queuectl.Decide(queuectl.Outcome{Kind: queuectl.Failed}, 1, 0, 2, now)
	if d.Kind != queuectl.Bury {
		t.Fatalf("expected max_retries=0 to bury directly, got %v", d.Kind)
	}
}

func TestDecideRetriesWithinBudget(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for _, outcome := range []queuectl.Outcome{
		{Kind: queuectl.Failed},
		{Kind: queuectl.TimedOut},
		{Kind: queuectl.Unlaunchable},
	} {
		d := queuectl.Decide(outcome, 1, 1, 2, now)
		if d.Kind != queuectl.Retry {
			t.Fatalf("outcome %v: expected Retry, got %v", outcome.Kind, d.Kind)
		}
		want := now.Add(2 * time.Second)
		if !d.NextRunAt.Equal(want) {
			t.Fatalf("outcome %v: expected next run at %v, got %v", outcome.Kind, want, d.NextRunAt)
		}
	}
}

func TestDecideBuriesOnceBudgetExhausted(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	d := queuectl.Decide(queuectl.Outcome{Kind: queuectl.Failed}, 2, 1, 2, now)
	if d.Kind != queuectl.Bury {
		t.Fatalf("attempts > max_retries should bury, got %v", d.Kind)
	}
}

func TestDecideBackoffBaseOneIsConstantDelay(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for attempts := uint32(1); attempts <= 3; attempts++ {
		d := queuectl.Decide(queuectl.Outcome{Kind: queuectl.Failed}, attempts, 5, 1, now)
		want := now.Add(time.Second)
		if !d.NextRunAt.Equal(want) {
			t.Fatalf("attempts=%d: backoff_base=1 should always delay 1s, got %v", attempts, d.NextRunAt.Sub(now))
		}
	}
}

func TestDecideBackoffIsMonotonicAcrossRetries(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	var prev time.Duration
	for attempts := uint32(1); attempts <= 4; attempts++ {
		d := queuectl.Decide(queuectl.Outcome{Kind: queuectl.Failed}, attempts, 10, 2, now)
		delay := d.NextRunAt.Sub(now)
		if delay <= prev {
			t.Fatalf("attempts=%d: expected delay to grow past %v, got %v", attempts, prev, delay)
		}
		prev = delay
	}
}

func TestDecideBackoffCappedAtMaxBackoff(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	d := queuectl.Decide(queuectl.Outcome{Kind: queuectl.Failed}, 64, 100, 10, now)
	if delay := d.NextRunAt.Sub(now); delay != queuectl.MaxBackoff {
		t.Fatalf("expected delay capped at MaxBackoff (%v), got %v", queuectl.MaxBackoff, delay)
	}
}
