package queuectl

import "time"

// DecisionKind classifies what a Worker should do with a job after an
// Executor outcome, as computed by Decide.
type DecisionKind uint8

const (
	// Complete means the job succeeded and should be marked Completed.
	Complete DecisionKind = iota
	// Retry means the job should return to Pending with a future RunAt.
	Retry
	// Bury means the job has exhausted its retry budget and should
	// transition to Dead.
	Bury
)

// Decision is the pure result of applying spec.md's scheduling rules to
// an Executor Outcome and a job's post-claim attempt count.
type Decision struct {
	Kind      DecisionKind
	NextRunAt time.Time // meaningful only when Kind == Retry
}

// Decide classifies an Outcome into a Decision, given the job's
// post-claim attempts, its retry budget, and its backoff base.
//
// A Succeeded outcome always yields Complete. Any other outcome
// (Failed, TimedOut, Unlaunchable) consumes one unit of retry budget:
// if attempts <= maxRetries the job is retried after
// backoff_base^attempts; otherwise it is buried. maxRetries = 0 means the
// first failure buries the job directly.
func Decide(outcome Outcome, attempts uint32, maxRetries uint32, backoffBase uint32, now time.Time) Decision {
	if outcome.Kind == Succeeded {
		return Decision{Kind: Complete}
	}
	if attempts > maxRetries {
		return Decision{Kind: Bury}
	}
	delay := backoffDelay(backoffBase, attempts)
	return Decision{Kind: Retry, NextRunAt: now.Add(delay)}
}
