package queuectl_test

import (
	"context"
	"database/sql"
	"log/slog"
	"testing"
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"

	_ "modernc.org/sqlite"

	"github.com/aidarkhanov/queuectl"
	"github.com/aidarkhanov/queuectl/job"
	"github.com/aidarkhanov/queuectl/store"
	"github.com/aidarkhanov/queuectl/store/sqlstore"
)

func newTestDB(t *testing.T) *bun.DB {
	t.Helper()
	sqlDB, err := sql.Open("sqlite", "file::memory:?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		t.Fatal(err)
	}
	sqlDB.SetMaxOpenConns(1)
	db := bun.NewDB(sqlDB, sqlitedialect.New())
	if err := sqlstore.InitSchema(context.Background(), db); err != nil {
		t.Fatal(err)
	}
	return db
}

func TestWorkerProcessesJob(t *testing.T) {
	db := newTestDB(t)
	st := sqlstore.New(db)
	logger := slog.Default()

	// Enqueue stamps RunAt/CreatedAt from the real wall clock, so the fake
	// clock must start ahead of it for the job to be immediately eligible.
	clock := newFakeClock(time.Now().UTC().Add(time.Hour))
	w := queuectl.NewWorker("worker-0", st, queuectl.NewExecutor(), clock, queuectl.WorkerConfig{
		PollInterval:   20 * time.Millisecond,
		DefaultTimeout: time.Second,
	}, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go w.Run(ctx)
	go pumpFakeClock(ctx, clock, 5*time.Millisecond, time.Second)

	id, err := st.Enqueue(ctx, store.JobSpec{Command: "true"})
	if err != nil {
		t.Fatal(err)
	}

	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		jb, err := st.Get(ctx, id)
		if err != nil {
			t.Fatal(err)
		}
		if jb.State == job.Completed {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("job did not complete in time")
}

func TestWorkerRetriesThenBuries(t *testing.T) {
	db := newTestDB(t)
	st := sqlstore.New(db)
	logger := slog.Default()

	// The backoff between the two attempts (backoff_base=1 => 1s) would
	// otherwise force this test to wait out real seconds; pumping the
	// fake clock forward lets Decide's real scheduling decision run
	// while the wall-clock wait stays in the low milliseconds.
	clock := newFakeClock(time.Now().UTC().Add(time.Hour))
	w := queuectl.NewWorker("worker-0", st, queuectl.NewExecutor(), clock, queuectl.WorkerConfig{
		PollInterval:   10 * time.Millisecond,
		DefaultTimeout: time.Second,
	}, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go w.Run(ctx)
	go pumpFakeClock(ctx, clock, 5*time.Millisecond, time.Second)

	// "exit 1" always fails, exhausting its single retry and ending Dead,
	// which is deterministic (unlike a command that fails only once).
	id, err := st.Enqueue(ctx, store.JobSpec{Command: "exit 1", MaxRetries: 1, BackoffBase: 1})
	if err != nil {
		t.Fatal(err)
	}

	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		jb, err := st.Get(ctx, id)
		if err != nil {
			t.Fatal(err)
		}
		if jb.State == job.Dead {
			if jb.Attempts != 2 {
				t.Fatalf("expected 2 attempts before burying, got %d", jb.Attempts)
			}
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("job was not buried in time")
}

func TestWorkerTimeout(t *testing.T) {
	db := newTestDB(t)
	st := sqlstore.New(db)
	logger := slog.Default()

	w := queuectl.NewWorker("worker-0", st, queuectl.NewExecutor(), queuectl.NewRealClock(), queuectl.WorkerConfig{
		PollInterval:   10 * time.Millisecond,
		DefaultTimeout: time.Second,
	}, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go w.Run(ctx)

	timeout := 1
	id, err := st.Enqueue(ctx, store.JobSpec{
		Command:        "sleep 5",
		MaxRetries:     0,
		TimeoutSeconds: &timeout,
	})
	if err != nil {
		t.Fatal(err)
	}

	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		jb, err := st.Get(ctx, id)
		if err != nil {
			t.Fatal(err)
		}
		if jb.State == job.Dead {
			return
		}
		time.Sleep(50 * time.Millisecond)
	}
	t.Fatal("timed-out job was not buried in time")
}
