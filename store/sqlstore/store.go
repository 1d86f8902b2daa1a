package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/aidarkhanov/queuectl"
	"github.com/aidarkhanov/queuectl/job"
	"github.com/aidarkhanov/queuectl/store"
)

// Store implements store.Store on top of a *bun.DB. The caller is
// responsible for opening the database (see Open) and running
// InitSchema before first use.
type Store struct {
	db *bun.DB
}

// New wraps db as a store.Store. db must already have its schema
// initialized via InitSchema.
func New(db *bun.DB) *Store {
	return &Store{db: db}
}

var _ store.Store = (*Store)(nil)

func (s *Store) Enqueue(ctx context.Context, spec store.JobSpec) (string, error) {
	if spec.Command == "" {
		return "", queuectl.ErrInvalidJob
	}
	if spec.TimeoutSeconds != nil && *spec.TimeoutSeconds <= 0 {
		return "", queuectl.ErrInvalidJob
	}
	id := spec.ID
	if id == "" {
		id = uuid.NewString()
	}
	backoffBase := spec.BackoffBase
	if backoffBase == 0 {
		backoffBase = 2
	}
	now := time.Now().UTC()
	model := &jobModel{
		ID:             id,
		Command:        spec.Command,
		CreatedAt:      now,
		UpdatedAt:      now,
		RunAt:          now,
		State:          job.Pending,
		MaxRetries:     spec.MaxRetries,
		BackoffBase:    backoffBase,
		TimeoutSeconds: spec.TimeoutSeconds,
	}
	_, err := s.db.NewInsert().Model(model).Exec(ctx)
	if err != nil {
		if isUniqueViolation(err) {
			return "", queuectl.ErrAlreadyExists
		}
		return "", err
	}
	return id, nil
}

// ClaimOne atomically selects the oldest eligible Pending job and
// transitions it to Processing in one UPDATE ... RETURNING statement, so
// two workers racing for the same row can never both win.
func (s *Store) ClaimOne(ctx context.Context, workerID string, now time.Time) (*job.Job, error) {
	subQuery := s.db.NewSelect().
		Model((*jobModel)(nil)).
		Column("id").
		Where("state = ?", job.Pending).
		Where("run_at <= ?", now).
		Order("run_at ASC", "created_at ASC", "id ASC").
		Limit(1)

	var rows []*jobModel
	err := s.db.NewUpdate().
		Model((*jobModel)(nil)).
		Set("state = ?", job.Processing).
		Set("attempts = attempts + 1").
		Set("locked_by = ?", workerID).
		Set("updated_at = ?", now).
		Where("id IN (?)", subQuery).
		Where("state = ?", job.Pending).
		Returning("*").
		Scan(ctx, &rows)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0].toJob(), nil
}

func (s *Store) Complete(ctx context.Context, id string, outputLog string) error {
	now := time.Now().UTC()
	res, err := s.db.NewUpdate().
		Model((*jobModel)(nil)).
		Set("state = ?", job.Completed).
		Set("locked_by = NULL").
		Set("output_log = ?", outputLog).
		Set("updated_at = ?", now).
		Where("id = ?", id).
		Where("state = ?", job.Processing).
		Exec(ctx)
	if err != nil {
		return err
	}
	if !isAffected(res) {
		return queuectl.ErrIllegalTransition
	}
	return nil
}

func (s *Store) Retry(ctx context.Context, id string, nextRunAt time.Time, lastError string) error {
	now := time.Now().UTC()
	res, err := s.db.NewUpdate().
		Model((*jobModel)(nil)).
		Set("state = ?", job.Pending).
		Set("run_at = ?", nextRunAt).
		Set("locked_by = NULL").
		Set("last_error = ?", lastError).
		Set("updated_at = ?", now).
		Where("id = ?", id).
		Where("state = ?", job.Processing).
		Exec(ctx)
	if err != nil {
		return err
	}
	if !isAffected(res) {
		return queuectl.ErrJobLost
	}
	return nil
}

func (s *Store) Bury(ctx context.Context, id string, lastError string) error {
	now := time.Now().UTC()
	res, err := s.db.NewUpdate().
		Model((*jobModel)(nil)).
		Set("state = ?", job.Dead).
		Set("locked_by = NULL").
		Set("last_error = ?", lastError).
		Set("updated_at = ?", now).
		Where("id = ?", id).
		Where("state = ?", job.Processing).
		Exec(ctx)
	if err != nil {
		return err
	}
	if !isAffected(res) {
		return queuectl.ErrJobLost
	}
	return nil
}

func (s *Store) PromoteDead(ctx context.Context, id string) (bool, error) {
	now := time.Now().UTC()
	res, err := s.db.NewUpdate().
		Model((*jobModel)(nil)).
		Set("state = ?", job.Pending).
		Set("attempts = 0").
		Set("run_at = ?", now).
		Set("last_error = NULL").
		Set("updated_at = ?", now).
		Where("id = ?", id).
		Where("state = ?", job.Dead).
		Exec(ctx)
	if err != nil {
		return false, err
	}
	return isAffected(res), nil
}

func (s *Store) CountsByState(ctx context.Context) (map[job.Status]int64, error) {
	var rows []struct {
		State job.Status `bun:"state"`
		Count int64      `bun:"count"`
	}
	err := s.db.NewSelect().
		Model((*jobModel)(nil)).
		ColumnExpr("state").
		ColumnExpr("count(*) AS count").
		Group("state").
		Scan(ctx, &rows)
	if err != nil {
		return nil, err
	}
	ret := make(map[job.Status]int64, len(rows))
	for _, r := range rows {
		ret[r.State] = r.Count
	}
	return ret, nil
}

func (s *Store) List(ctx context.Context, state job.Status, limit int) ([]*job.Job, error) {
	var rows []*jobModel
	query := s.db.NewSelect().Model(&rows).Order("created_at ASC")
	if state != job.Unknown {
		query = query.Where("state = ?", state)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Scan(ctx); err != nil {
		return nil, err
	}
	ret := make([]*job.Job, len(rows))
	for i, r := range rows {
		ret[i] = r.toJob()
	}
	return ret, nil
}

func (s *Store) Get(ctx context.Context, id string) (*job.Job, error) {
	var row jobModel
	err := s.db.NewSelect().Model(&row).Where("id = ?", id).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return row.toJob(), nil
}

func (s *Store) Purge(ctx context.Context, state job.Status, before *time.Time) (int64, error) {
	if state != job.Unknown && state != job.Completed && state != job.Dead {
		return 0, queuectl.ErrBadStatus
	}
	query := s.db.NewDelete().Model((*jobModel)(nil))
	if state != job.Unknown {
		query = query.Where("state = ?", state)
	} else {
		query = query.Where("state IN (?, ?)", job.Completed, job.Dead)
	}
	if before != nil {
		query = query.Where("updated_at <= ?", *before)
	}
	res, err := query.Exec(ctx)
	if err != nil {
		return 0, err
	}
	return getAffected(res), nil
}

// Reap transitions every Processing job whose UpdatedAt predates
// olderThan back to Pending, as if it had failed with no output: the
// worker that held it is presumed dead, so its claim is never treated as
// a logged Outcome, only as a lock that expired.
func (s *Store) Reap(ctx context.Context, olderThan time.Time) (int64, error) {
	now := time.Now().UTC()
	res, err := s.db.NewUpdate().
		Model((*jobModel)(nil)).
		Set("state = ?", job.Pending).
		Set("locked_by = NULL").
		Set("last_error = ?", "reaped: worker presumed dead").
		Set("updated_at = ?", now).
		Where("state = ?", job.Processing).
		Where("updated_at < ?", olderThan).
		Exec(ctx)
	if err != nil {
		return 0, err
	}
	return getAffected(res), nil
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
