package queuectl

import (
	"context"
	"log/slog"
	"time"

	"github.com/aidarkhanov/queuectl/internal"
	"github.com/aidarkhanov/queuectl/store"
)

// ReapWorker periodically recovers jobs stuck in Processing because the
// worker that held them died without committing a terminal transition
// (crash, kill -9, host reboot). It is the backstop referenced by
// Worker.handleInternalError and by spec.md's stale-lock recovery
// requirement.
type ReapWorker struct {
	lcBase

	store    store.Store
	interval time.Duration
	maxAge   time.Duration
	clock    Clock
	log      *slog.Logger

	task internal.TimerTask
}

// NewReapWorker returns a ReapWorker that, once started, reaps every
// interval any job whose Processing lock is older than maxAge.
func NewReapWorker(st store.Store, interval, maxAge time.Duration, clock Clock, log *slog.Logger) *ReapWorker {
	if log == nil {
		log = slog.Default()
	}
	if clock == nil {
		clock = NewRealClock()
	}
	return &ReapWorker{
		store:    st,
		interval: interval,
		maxAge:   maxAge,
		clock:    clock,
		log:      log.With("component", "reaper"),
	}
}

func (r *ReapWorker) tick(ctx context.Context) {
	cutoff := r.clock.NowUTC().Add(-r.maxAge)
	n, err := r.store.Reap(ctx, cutoff)
	if err != nil {
		r.log.Error("reap failed", "err", err)
		return
	}
	if n > 0 {
		r.log.Warn("reaped stale jobs", "count", n, "cutoff", cutoff)
	}
}

// Start begins the periodic reap loop. It returns ErrDoubleStarted if
// already running.
func (r *ReapWorker) Start(ctx context.Context) error {
	if err := r.tryStart(); err != nil {
		return err
	}
	r.task.Start(ctx, r.tick, r.interval)
	return nil
}

// Stop halts the reap loop, waiting up to timeout for the in-flight tick
// to finish. It returns ErrDoubleStopped if not running, or
// ErrStopTimeout if the deadline elapses first.
func (r *ReapWorker) Stop(timeout time.Duration) error {
	return r.tryStop(timeout, r.task.Stop)
}
