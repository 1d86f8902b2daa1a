// Package queuectl provides a durable, single-host background job queue.
//
// # Overview
//
// queuectl accepts shell-command jobs submitted through a CLI, persists
// them in an embedded SQLite store, and dispatches them to a pool of
// worker goroutines that run each command with a hard timeout,
// exponential-backoff retries, and a terminal dead-letter state for jobs
// that exhaust their retry budget.
//
// The package does not mandate a particular storage backend. store.Store
// is the contract every component depends on; store/sqlstore is the
// bun-backed SQLite implementation used by the CLI.
//
// # Delivery Semantics
//
// queuectl provides at-least-once processing guarantees.
//
// A job may be executed more than once if:
//
//   - a worker crashes mid-execution (the reaper recovers it)
//   - a command times out and retry budget remains
//
// User commands must therefore be idempotent.
//
// # State Machine
//
// Jobs follow this lifecycle:
//
//	Pending    -> Processing
//	Processing -> Completed
//	Processing -> Pending   (via Retry)
//	Processing -> Dead      (via Bury)
//	Dead       -> Pending   (via PromoteDead)
//
// Completed and Dead are terminal: no further mutation except an explicit
// re-promotion from Dead back to Pending.
//
// # Retry Policy
//
// Retry behavior is controlled by a job's BackoffBase and MaxRetries.
//
// When an execution fails, times out, or cannot be launched:
//
//   - if attempts <= max_retries, the job is rescheduled with delay
//     backoff_base^attempts
//   - otherwise, the job is buried (Dead)
//
// Attempts is incremented the moment a job is claimed, before execution,
// so a worker that crashes mid-run still consumes retry budget.
//
// # Components
//
// Worker coordinates claiming, executing, classifying and persisting one
// job at a time. Manager owns a fixed pool of Workers and a single
// shutdown token shared by signal handling and the stop-flag file.
//
// Worker does not guarantee exactly-once delivery.
//
// # Concurrency Model
//
// Any number of Workers may run concurrently against one Store. Workers
// share nothing but the Store and the shutdown context. Within one
// Worker, state transitions for a given job occur strictly in sequence.
//
// Shutdown is cooperative: a running command is allowed to finish (or
// hit its own timeout); there is no mechanism to cancel an in-flight
// command, so a processing row is never abandoned mid-mutation.
package queuectl
