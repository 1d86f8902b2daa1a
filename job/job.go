package job

import (
	"time"
)

// Job represents a single shell-command job managed by the queue storage.
//
// CreatedAt records when the job was initially enqueued and never changes.
// UpdatedAt records the last state transition or modification.
//
// State represents the current state in the job lifecycle.
// Attempts counts how many executions have been claimed for this job,
// incremented the moment a worker claims it (before the command runs).
// MaxRetries is the number of retries allowed after the first attempt;
// BackoffBase is the per-job override of the exponential-backoff base.
// TimeoutSeconds is the hard wall-clock limit on one execution; nil means
// no per-job override is set.
//
// LockedBy holds the identity of the worker currently holding the job,
// non-nil if and only if State is Processing.
// RunAt specifies the earliest time the job may be claimed.
// LastError and OutputLog are bounded, human-readable excerpts of the
// most recent execution; both may be nil.
//
// Job values are snapshots of storage state. Mutating a returned Job does
// not change the underlying queue state; transitions must be performed
// through store.Store.
type Job struct {
	ID      string
	Command string

	CreatedAt time.Time
	UpdatedAt time.Time
	RunAt     time.Time

	State       Status
	Attempts    uint32
	MaxRetries  uint32
	BackoffBase uint32

	TimeoutSeconds *int

	LockedBy  *string
	LastError *string
	OutputLog *string
}
