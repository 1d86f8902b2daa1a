package queuectl

import (
	"context"
	"strconv"
	"strings"

	"github.com/aidarkhanov/queuectl/store"
)

// Enqueuer defines the write-side entry point of the queue: submitting a
// new shell-command job for future execution.
type Enqueuer interface {
	// Submit inserts a new job in Pending state, immediately eligible to
	// be claimed. It returns the job's ID, generating one if spec.ID is
	// empty. Submit returns ErrAlreadyExists if spec.ID collides with an
	// existing job, and ErrInvalidJob if spec.Command is empty.
	Submit(ctx context.Context, spec store.JobSpec) (string, error)
}

// QueueEnqueuer is the Store-backed Enqueuer used in production.
type QueueEnqueuer struct {
	store store.Store
}

// NewEnqueuer wraps a Store as an Enqueuer.
func NewEnqueuer(st store.Store) *QueueEnqueuer {
	return &QueueEnqueuer{store: st}
}

// Submit enqueues spec as-is via the underlying Store.
func (e *QueueEnqueuer) Submit(ctx context.Context, spec store.JobSpec) (string, error) {
	return e.store.Enqueue(ctx, spec)
}

// ParseFreeForm parses the CLI's free-form "<id> <command>" convenience
// syntax, where the leading token is only treated as an explicit ID if it
// passes isValidID and is followed by a space and at least one more
// token; otherwise, including a bare single-token input, the whole input
// is the command with no ID.
// Submitters that need an explicit empty ID should populate JobSpec
// directly instead.
func ParseFreeForm(input string) store.JobSpec {
	trimmed := strings.TrimSpace(input)
	fields := strings.SplitN(trimmed, " ", 2)
	if len(fields) != 2 {
		return store.JobSpec{Command: trimmed}
	}
	id, rest := fields[0], strings.TrimSpace(fields[1])
	if rest == "" || !isValidID(id) {
		return store.JobSpec{Command: trimmed}
	}
	return store.JobSpec{ID: id, Command: rest}
}

// isValidID restricts free-form leading tokens that are promoted to an
// explicit ID to alphanumerics, '-' and '_'. A leading token with any
// other character (a path, a quote, an assignment) keeps the whole input
// as the command; a leading plain word such as "echo" is accepted as an
// ID.
func isValidID(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r >= '0' && r <= '9' {
			continue
		}
		if r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' {
			continue
		}
		if r == '-' || r == '_' {
			continue
		}
		return false
	}
	return true
}

// FormatInt is used by CLI table/output formatting where a plain decimal
// rendering of a count is wanted (no rich table dependency per
// spec.md's Non-goals).
func FormatInt(n int64) string {
	return strconv.FormatInt(n, 10)
}
