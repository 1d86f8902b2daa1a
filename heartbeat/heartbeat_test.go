package heartbeat_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/aidarkhanov/queuectl/heartbeat"
)

func TestWatchKeepsFileAlive(t *testing.T) {
	path := filepath.Join(t.TempDir(), "worker.heartbeat")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	task := heartbeat.Watch(ctx, path, 10*time.Millisecond)
	defer task.Stop()

	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if heartbeat.Alive(path, 100*time.Millisecond) {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("heartbeat file never became alive")
}

func TestAliveFalseAfterStaleOrMissing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "worker.heartbeat")

	if heartbeat.Alive(path, time.Second) {
		t.Fatal("expected a missing heartbeat file to be not alive")
	}

	if err := heartbeat.Touch(path); err != nil {
		t.Fatal(err)
	}
	if !heartbeat.Alive(path, time.Second) {
		t.Fatal("expected a freshly touched heartbeat file to be alive")
	}
	if heartbeat.Alive(path, 0) {
		t.Fatal("expected a zero max age to treat any past touch as stale")
	}
}

func TestRemoveIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "worker.heartbeat")
	if err := heartbeat.Remove(path); err != nil {
		t.Fatalf("expected Remove on a missing file to be a no-op, got %v", err)
	}
	if err := heartbeat.Touch(path); err != nil {
		t.Fatal(err)
	}
	if err := heartbeat.Remove(path); err != nil {
		t.Fatal(err)
	}
	if heartbeat.Alive(path, time.Hour) {
		t.Fatal("expected heartbeat file to be gone after Remove")
	}
}
