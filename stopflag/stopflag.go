// Package stopflag implements the on-disk shutdown marker of spec.md
// §6: a zero-or-more-byte regular file whose existence means "shut
// down" and whose absence means "run". It is an alternate, out-of-band
// channel with identical semantics to SIGINT/SIGTERM, for environments
// where sending a signal to the right process is inconvenient (for
// example, a process supervisor that only manages files).
package stopflag

import (
	"context"
	"os"
	"time"

	"github.com/aidarkhanov/queuectl/internal"
)

// Exists reports whether the stop-flag file at path is present.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// Create creates the stop-flag file at path if it does not already
// exist. It corresponds to the `worker stop` CLI command.
func Create(path string) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	return f.Close()
}

// Remove deletes the stop-flag file at path, if present. The `worker
// start` CLI command calls this before starting the Manager, so a stale
// flag from a previous run does not immediately shut down a freshly
// started set of workers.
func Remove(path string) error {
	err := os.Remove(path)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// Watch polls for the stop-flag file's existence every interval and
// calls shutdown the first time it is observed. It keeps polling after
// that (a cleared-then-recreated flag re-triggers shutdown, though the
// shutdown token itself is expected to be monotone and ignore repeats).
// Watch returns immediately; the caller stops the returned task the same
// way it would stop a ReapWorker's internal.TimerTask.
func Watch(ctx context.Context, path string, interval time.Duration, shutdown context.CancelFunc) *internal.TimerTask {
	task := &internal.TimerTask{}
	task.Start(ctx, func(context.Context) {
		if Exists(path) {
			shutdown()
		}
	}, interval)
	return task
}
