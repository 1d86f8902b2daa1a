// Package heartbeat implements the on-disk liveness marker that backs
// the status command's worker-liveness report (spec.md §6): a file the
// Manager touches on a fixed interval for as long as its workers are
// running, and removes on a clean shutdown. A caller with no running
// Manager in this process (a separate "queuectl status" invocation)
// infers liveness purely from the marker's modification time, since the
// worker pool itself is a set of goroutines with no OS-level identity to
// query.
package heartbeat

import (
	"context"
	"os"
	"time"

	"github.com/aidarkhanov/queuectl/internal"
)

// Touch writes the current time to the heartbeat file at path, creating
// it if necessary.
func Touch(path string) error {
	return os.WriteFile(path, []byte(time.Now().UTC().Format(time.RFC3339Nano)), 0o644)
}

// Remove deletes the heartbeat file at path, if present. The Manager
// calls this on a clean shutdown so a stale heartbeat never outlives the
// process that wrote it.
func Remove(path string) error {
	err := os.Remove(path)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// Alive reports whether the heartbeat file at path was touched within
// maxAge of now. A missing file is never alive.
func Alive(path string, maxAge time.Duration) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return time.Since(info.ModTime()) <= maxAge
}

// Watch touches the heartbeat file at path once immediately and then on
// every tick of interval until ctx is cancelled. The caller stops the
// returned task the same way it would stop a ReapWorker's
// internal.TimerTask.
func Watch(ctx context.Context, path string, interval time.Duration) *internal.TimerTask {
	task := &internal.TimerTask{}
	task.Start(ctx, func(context.Context) {
		_ = Touch(path)
	}, interval)
	return task
}
