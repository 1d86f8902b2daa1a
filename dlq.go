package queuectl

import (
	"context"
	"time"

	"github.com/aidarkhanov/queuectl/job"
	"github.com/aidarkhanov/queuectl/store"
)

// DLQ is the administrative control surface for dead-lettered jobs: list,
// retry (promote back to Pending), and purge. It performs no scheduling
// of its own and never touches a Pending or Processing row.
type DLQ struct {
	store store.Store
}

// NewDLQ wraps a Store with dead-letter administrative operations.
func NewDLQ(st store.Store) *DLQ {
	return &DLQ{store: st}
}

// List returns up to limit Dead jobs, oldest first.
func (d *DLQ) List(ctx context.Context, limit int) ([]*job.Job, error) {
	return d.store.List(ctx, job.Dead, limit)
}

// Retry promotes a single Dead job back to Pending, resetting its
// attempt count. It reports whether the job was found in Dead state.
func (d *DLQ) Retry(ctx context.Context, id string) (bool, error) {
	return d.store.PromoteDead(ctx, id)
}

// Purge permanently deletes Dead jobs whose UpdatedAt is at or before
// before. A nil before deletes all Dead jobs. It returns the number of
// rows deleted.
func (d *DLQ) Purge(ctx context.Context, before *time.Time) (int64, error) {
	return d.store.Purge(ctx, job.Dead, before)
}

// PurgeOlderThan is a convenience wrapper computing before as now minus
// age.
func (d *DLQ) PurgeOlderThan(ctx context.Context, age time.Duration) (int64, error) {
	cutoff := time.Now().UTC().Add(-age)
	return d.Purge(ctx, &cutoff)
}
