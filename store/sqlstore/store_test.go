package sqlstore_test

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"

	_ "modernc.org/sqlite"

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

func TestEnqueueAndClaim(t *testing.T) {
	db := newTestDB(t)
	st := sqlstore.New(db)
	ctx := context.Background()

	id, err := st.Enqueue(ctx, store.JobSpec{Command: "true"})
	if err != nil {
		t.Fatal(err)
	}

	jb, err := st.ClaimOne(ctx, "worker-0", time.Now().UTC())
	if err != nil {
		t.Fatal(err)
	}
	if jb == nil {
		t.Fatal("expected a claimed job")
	}
	if jb.ID != id {
		t.Fatalf("expected id %s, got %s", id, jb.ID)
	}
	if jb.State != job.Processing {
		t.Fatalf("expected Processing, got %v", jb.State)
	}
	if jb.Attempts != 1 {
		t.Fatalf("expected attempts=1, got %d", jb.Attempts)
	}
	if jb.LockedBy == nil || *jb.LockedBy != "worker-0" {
		t.Fatal("expected locked_by to be set")
	}
}

func TestClaimSkipsFutureRunAt(t *testing.T) {
	db := newTestDB(t)
	st := sqlstore.New(db)
	ctx := context.Background()

	if _, err := st.Enqueue(ctx, store.JobSpec{Command: "true"}); err != nil {
		t.Fatal(err)
	}
	now := time.Now().UTC()
	jb, err := st.ClaimOne(ctx, "worker-0", now)
	if err != nil {
		t.Fatal(err)
	}
	if err := st.Retry(ctx, jb.ID, now.Add(time.Hour), "boom"); err != nil {
		t.Fatal(err)
	}

	again, err := st.ClaimOne(ctx, "worker-0", now)
	if err != nil {
		t.Fatal(err)
	}
	if again != nil {
		t.Fatal("expected no eligible job before run_at")
	}
}

func TestCompleteRejectsNonProcessing(t *testing.T) {
	db := newTestDB(t)
	st := sqlstore.New(db)
	ctx := context.Background()

	id, err := st.Enqueue(ctx, store.JobSpec{Command: "true"})
	if err != nil {
		t.Fatal(err)
	}

	if err := st.Complete(ctx, id, "ok"); err == nil {
		t.Fatal("expected error completing a Pending job")
	}
}

func TestBuryAndPromote(t *testing.T) {
	db := newTestDB(t)
	st := sqlstore.New(db)
	ctx := context.Background()

	id, err := st.Enqueue(ctx, store.JobSpec{Command: "false"})
	if err != nil {
		t.Fatal(err)
	}
	jb, err := st.ClaimOne(ctx, "worker-0", time.Now().UTC())
	if err != nil {
		t.Fatal(err)
	}
	if err := st.Bury(ctx, jb.ID, "exit 1"); err != nil {
		t.Fatal(err)
	}

	promoted, err := st.PromoteDead(ctx, id)
	if err != nil {
		t.Fatal(err)
	}
	if !promoted {
		t.Fatal("expected PromoteDead to succeed")
	}

	again, err := st.Get(ctx, id)
	if err != nil {
		t.Fatal(err)
	}
	if again.State != job.Pending || again.Attempts != 0 {
		t.Fatalf("expected Pending with attempts reset, got %v attempts=%d", again.State, again.Attempts)
	}
}

func TestReapRecoversStaleProcessing(t *testing.T) {
	db := newTestDB(t)
	st := sqlstore.New(db)
	ctx := context.Background()

	if _, err := st.Enqueue(ctx, store.JobSpec{Command: "sleep 100"}); err != nil {
		t.Fatal(err)
	}
	if _, err := st.ClaimOne(ctx, "worker-0", time.Now().UTC()); err != nil {
		t.Fatal(err)
	}

	n, err := st.Reap(ctx, time.Now().UTC().Add(time.Hour))
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Fatalf("expected 1 reaped job, got %d", n)
	}

	counts, err := st.CountsByState(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if counts[job.Pending] != 1 {
		t.Fatalf("expected 1 pending job after reap, got %d", counts[job.Pending])
	}
}

func TestClaimOneIsExclusiveUnderConcurrency(t *testing.T) {
	db := newTestDB(t)
	st := sqlstore.New(db)
	ctx := context.Background()

	const numJobs = 50
	const numWorkers = 8

	for i := 0; i < numJobs; i++ {
		if _, err := st.Enqueue(ctx, store.JobSpec{Command: fmt.Sprintf("true %d", i)}); err != nil {
			t.Fatal(err)
		}
	}

	var mu sync.Mutex
	claimed := make(map[string]int)
	var wg sync.WaitGroup
	for w := 0; w < numWorkers; w++ {
		wg.Add(1)
		workerID := fmt.Sprintf("worker-%d", w)
		go func() {
			defer wg.Done()
			for {
				jb, err := st.ClaimOne(ctx, workerID, time.Now().UTC())
				if err != nil {
					t.Error(err)
					return
				}
				if jb == nil {
					return
				}
				mu.Lock()
				claimed[jb.ID]++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if len(claimed) != numJobs {
		t.Fatalf("expected %d distinct jobs claimed, got %d", numJobs, len(claimed))
	}
	for id, n := range claimed {
		if n != 1 {
			t.Fatalf("job %s was claimed %d times, expected exactly once", id, n)
		}
	}
}

func TestPurgeOnlyTerminal(t *testing.T) {
	db := newTestDB(t)
	st := sqlstore.New(db)
	ctx := context.Background()

	if _, err := st.Enqueue(ctx, store.JobSpec{Command: "true"}); err != nil {
		t.Fatal(err)
	}

	if _, err := st.Purge(ctx, job.Pending, nil); err == nil {
		t.Fatal("expected ErrBadStatus purging a non-terminal state")
	}

	n, err := st.Purge(ctx, job.Unknown, nil)
	if err != nil {
		t.Fatal(err)
	}
	if n != 0 {
		t.Fatalf("expected no terminal jobs to purge, got %d", n)
	}
}
