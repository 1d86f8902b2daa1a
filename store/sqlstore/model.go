package sqlstore

import (
	"time"

	"github.com/uptrace/bun"

	"github.com/aidarkhanov/queuectl/job"
)

type jobModel struct {
	bun.BaseModel `bun:"table:jobs"`

	ID      string `bun:"id,pk"`
	Command string `bun:"command,notnull"`

	CreatedAt time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
	UpdatedAt time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
	RunAt     time.Time `bun:"run_at,nullzero,notnull"`

	State       job.Status `bun:"state,notnull,default:1"`
	Attempts    uint32     `bun:"attempts,notnull,default:0"`
	MaxRetries  uint32     `bun:"max_retries,notnull,default:0"`
	BackoffBase uint32     `bun:"backoff_base,notnull,default:2"`

	TimeoutSeconds *int `bun:"timeout_seconds"`

	LockedBy  *string `bun:"locked_by"`
	LastError *string `bun:"last_error"`
	OutputLog *string `bun:"output_log"`
}

func (jm *jobModel) toJob() *job.Job {
	return &job.Job{
		ID:             jm.ID,
		Command:        jm.Command,
		CreatedAt:      jm.CreatedAt,
		UpdatedAt:      jm.UpdatedAt,
		RunAt:          jm.RunAt,
		State:          jm.State,
		Attempts:       jm.Attempts,
		MaxRetries:     jm.MaxRetries,
		BackoffBase:    jm.BackoffBase,
		TimeoutSeconds: jm.TimeoutSeconds,
		LockedBy:       jm.LockedBy,
		LastError:      jm.LastError,
		OutputLog:      jm.OutputLog,
	}
}
