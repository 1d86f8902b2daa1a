// Package store defines the durable persistence contract used by
// queuectl: atomic job claiming, state transitions, and administrative
// inspection. Implementations must provide single-writer serialisation
// and durable commit for every operation below; store/sqlstore satisfies
// this using SQLite (via bun) in WAL mode.
package store

import (
	"context"
	"time"

	"github.com/aidarkhanov/queuectl/job"
)

// JobSpec is the input to Enqueue: the fields a caller may set when
// submitting a new job. Zero values fall back to store-level defaults.
type JobSpec struct {
	ID             string
	Command        string
	MaxRetries     uint32
	BackoffBase    uint32
	TimeoutSeconds *int
}

// Store is the full persistence contract for the job queue: enqueueing,
// atomic claiming, terminal transitions, administrative inspection, and
// stale-lock recovery.
//
// Every method is atomic with respect to concurrent callers against the
// same backing store. Implementations MAY serialise writers internally
// (for example, a single-writer SQLite connection) as long as the
// per-operation atomicity described on each method holds.
type Store interface {
	// Enqueue inserts a new job in state Pending with Attempts = 0 and
	// RunAt = now. It returns ErrAlreadyExists if spec.ID is set and
	// collides with an existing row, and ErrInvalidJob if spec.Command is
	// empty or spec.TimeoutSeconds is non-nil and <= 0.
	Enqueue(ctx context.Context, spec JobSpec) (string, error)

	// ClaimOne atomically selects the oldest eligible Pending job (RunAt
	// <= now, ties broken by CreatedAt then ID) and transitions it to
	// Processing, incrementing Attempts and setting LockedBy to workerID.
	// It returns (nil, nil) if no job is eligible. This is the only
	// operation that increments Attempts.
	ClaimOne(ctx context.Context, workerID string, now time.Time) (*job.Job, error)

	// Complete transitions a Processing job to Completed and stores
	// outputLog. It returns ErrIllegalTransition if the job is not
	// currently Processing.
	Complete(ctx context.Context, id string, outputLog string) error

	// Retry transitions a Processing job back to Pending, sets RunAt to
	// nextRunAt, and records lastError. It returns ErrJobLost if the job
	// is not currently Processing.
	Retry(ctx context.Context, id string, nextRunAt time.Time, lastError string) error

	// Bury transitions a Processing job to Dead and records lastError.
	// It returns ErrJobLost if the job is not currently Processing.
	Bury(ctx context.Context, id string, lastError string) error

	// PromoteDead transitions a Dead job back to Pending, resetting
	// Attempts to 0, RunAt to now, and clearing LastError. It returns
	// (false, nil) if the job is not currently Dead.
	PromoteDead(ctx context.Context, id string) (bool, error)

	// CountsByState returns an approximate aggregate snapshot of job
	// counts per state. The snapshot need not be taken inside a single
	// transaction.
	CountsByState(ctx context.Context) (map[job.Status]int64, error)

	// List returns up to limit jobs ordered by CreatedAt ascending,
	// optionally filtered to a single state. A zero or negative limit
	// returns all matching jobs. job.Unknown disables the state filter.
	List(ctx context.Context, state job.Status, limit int) ([]*job.Job, error)

	// Get returns the job identified by id, or (nil, nil) if it does not
	// exist.
	Get(ctx context.Context, id string) (*job.Job, error)

	// Purge permanently deletes jobs in the given terminal state whose
	// UpdatedAt is at or before before. job.Unknown targets both
	// Completed and Dead. It returns ErrBadStatus if state is not a
	// terminal state, and the number of rows deleted otherwise. Purge
	// must never delete a Pending or Processing row.
	Purge(ctx context.Context, state job.Status, before *time.Time) (int64, error)

	// Reap transitions every Processing job whose UpdatedAt is older
	// than olderThan back to Pending, recording
	// "reaped: worker presumed dead" as LastError. Reap is idempotent and
	// safe to call concurrently with claims and other reaps. It returns
	// the number of rows reaped.
	Reap(ctx context.Context, olderThan time.Time) (int64, error)
}

// ConfigStore is the persistence contract for the flat key/value config
// table described in spec.md §3. It is a separate interface from Store
// because not every deployment of a Store needs config persistence (for
// example, a fake Store used in Worker tests).
type ConfigStore interface {
	// GetConfig returns the stored value for key and whether it was
	// present. A missing key is not an error.
	GetConfig(ctx context.Context, key string) (string, bool, error)

	// SetConfig persists key=value, overwriting any previous value.
	SetConfig(ctx context.Context, key, value string) error

	// AllConfig returns every persisted key/value pair.
	AllConfig(ctx context.Context) (map[string]string, error)
}
