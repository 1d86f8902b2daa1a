package queuectl

import (
	"math"
	"time"
)

// MaxBackoff caps the computed retry delay so a single poison job cannot
// starve the rest of the queue indefinitely. spec.md allows (but does not
// require) a ceiling; an hour was chosen as a reasonable bound for a
// single-host queue. See DESIGN.md for the open-question decision.
const MaxBackoff = time.Hour

// backoffDelay computes the retry delay for a job that has just completed
// its attempts-th execution, per spec.md §4.4:
//
//	delay_seconds = backoff_base ^ attempts
//	next_run_at   = now + delay_seconds
//
// attempts is the post-claim attempt count (the value Store.ClaimOne just
// incremented), so the first failure (attempts=1) schedules a delay of
// backoff_base^1. backoffBase < 1 is treated as 1 (no-op power).
func backoffDelay(backoffBase uint32, attempts uint32) time.Duration {
	if backoffBase < 1 {
		backoffBase = 1
	}
	seconds := math.Pow(float64(backoffBase), float64(attempts))
	if seconds >= MaxBackoff.Seconds() {
		// compare before converting: for large exponents both the
		// float64->Duration conversion and the multiplication by
		// time.Second overflow, so the ceiling is applied in seconds.
		return MaxBackoff
	}
	return time.Duration(seconds) * time.Second
}
