package queuectl

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aidarkhanov/queuectl/job"
	"github.com/aidarkhanov/queuectl/store"
)

// MetricsSink receives best-effort, fire-and-forget execution events. A
// write failure inside a MetricsSink implementation must never reach the
// Worker loop; see package metrics for the production implementations.
type MetricsSink interface {
	Emit(event, jobID, status string)
}

type noopSink struct{}

func (noopSink) Emit(string, string, string) {}

// WorkerConfig configures a single Worker.
type WorkerConfig struct {
	// PollInterval is how long a Worker sleeps after an empty claim
	// before trying again. Cancellable by the shutdown context.
	PollInterval time.Duration

	// DefaultTimeout is used for jobs without a per-job TimeoutSeconds
	// override. Zero means "no limit".
	DefaultTimeout time.Duration

	Metrics MetricsSink
}

// Worker is a long-running unit of scheduling: it repeatedly claims the
// oldest eligible job, executes its command, classifies the outcome, and
// persists the resulting state. A Worker holds no state shared with any
// other Worker except the Store.
//
// Worker's identity is a plain string, generated by the Manager and
// persisted into a claimed job's LockedBy field, decoupled from any OS
// process or thread identifier — the reaper only needs a staleness
// timestamp, never pid liveness.
type Worker struct {
	id       string
	store    store.Store
	executor *Executor
	clock    Clock
	cfg      WorkerConfig
	log      *slog.Logger
}

// NewWorker creates a Worker identified by id.
func NewWorker(id string, st store.Store, executor *Executor, clock Clock, cfg WorkerConfig, log *slog.Logger) *Worker {
	if cfg.Metrics == nil {
		cfg.Metrics = noopSink{}
	}
	if log == nil {
		log = slog.Default()
	}
	return &Worker{
		id:       id,
		store:    st,
		executor: executor,
		clock:    clock,
		cfg:      cfg,
		log:      log.With("worker", id),
	}
}

// Run executes the claim -> execute -> classify -> persist loop until ctx
// is cancelled. Run checks the shutdown signal between jobs and during
// the idle poll sleep, but never mid-mutation: once a job is claimed, Run
// commits its terminal state before checking ctx again, so shutdown can
// never abandon a Store mutation in flight.
func (w *Worker) Run(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			return
		}
		jb, err := w.store.ClaimOne(ctx, w.id, w.clock.NowUTC())
		if err != nil {
			w.handleInternalError(ctx, err)
			continue
		}
		if jb == nil {
			if err := w.clock.SleepUntil(ctx, w.clock.NowUTC().Add(w.cfg.PollInterval)); err != nil {
				return
			}
			continue
		}
		w.process(jb)
	}
}

func (w *Worker) timeoutFor(jb *job.Job) time.Duration {
	if jb.TimeoutSeconds != nil {
		return time.Duration(*jb.TimeoutSeconds) * time.Second
	}
	return w.cfg.DefaultTimeout
}

// process runs one claimed job to its terminal Store mutation. The
// commit always uses a background context: a cancelled shutdown context
// must never abort a mutation mid-flight and leave a row stuck in
// Processing (spec.md §4.5 step 6).
func (w *Worker) process(jb *job.Job) {
	w.cfg.Metrics.Emit("start", jb.ID, "")

	outcome := w.executor.Execute(context.Background(), jb.Command, w.timeoutFor(jb))
	now := w.clock.NowUTC()
	decision := Decide(outcome, jb.Attempts, jb.MaxRetries, jb.BackoffBase, now)
	commitCtx := context.Background()

	switch decision.Kind {
	case Complete:
		if err := w.store.Complete(commitCtx, jb.ID, outcomeLog(outcome)); err != nil {
			w.log.Error("cannot complete job", "id", jb.ID, "err", err)
		}
		w.cfg.Metrics.Emit("complete", jb.ID, "completed")
	case Retry:
		if err := w.store.Retry(commitCtx, jb.ID, decision.NextRunAt, outcomeError(outcome)); err != nil {
			w.log.Error("cannot retry job", "id", jb.ID, "err", err)
		}
		w.cfg.Metrics.Emit("complete", jb.ID, "retry")
	case Bury:
		if err := w.store.Bury(commitCtx, jb.ID, outcomeError(outcome)); err != nil {
			w.log.Error("cannot bury job", "id", jb.ID, "err", err)
		}
		w.cfg.Metrics.Emit("complete", jb.ID, "dead")
	}
}

// handleInternalError logs a Store failure during claim and backs off
// briefly before the outer loop retries. Per spec.md §7, a Store error
// here is not a reason to exit: the worker sleeps and retries, relying on
// the reaper as the backstop if it cannot recover the job itself.
func (w *Worker) handleInternalError(ctx context.Context, err error) {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return
	}
	w.log.Error("claim failed", "err", err)
	_ = w.clock.SleepUntil(ctx, w.clock.NowUTC().Add(w.cfg.PollInterval))
}

func outcomeError(o Outcome) string {
	switch o.Kind {
	case Failed:
		return fmt.Sprintf("Exit Code %d: %s", o.ExitCode, o.Stderr)
	case TimedOut:
		return fmt.Sprintf("timeout after %s", o.Duration)
	case Unlaunchable:
		return fmt.Sprintf("unlaunchable: %s", o.Reason)
	default:
		return ""
	}
}

func outcomeLog(o Outcome) string {
	return fmt.Sprintf("exit=%d duration=%s\nstdout:\n%s\nstderr:\n%s", o.ExitCode, o.Duration, o.Stdout, o.Stderr)
}
