package job

import "fmt"

// Status represents the current lifecycle state of a Job.
//
// The state machine is:
//
//	Pending    -> Processing
//	Processing -> Completed
//	Processing -> Pending   (via Retry)
//	Processing -> Dead      (via Bury)
//	Dead       -> Pending   (via PromoteDead)
//
// There is no distinct Failed state: a job that has failed at least once
// but still has retry budget remaining is Pending with a future RunAt.
// Callers that need to observe "has failed before" should check
// Attempts > 0 rather than Status.
//
// Unknown is reserved as a zero value and may be used to indicate
// an unspecified or invalid state in filtering contexts.
type Status uint8

const (
	// Unknown represents an unspecified or invalid job state.
	// It is the zero value of Status.
	Unknown Status = iota

	// Pending indicates that the job is available for claiming.
	// A Pending job may have a future RunAt, delaying execution.
	Pending

	// Processing indicates that the job has been claimed and is currently
	// owned by a worker, identified by LockedBy.
	Processing

	// Completed indicates successful execution. The job will not be
	// executed again unless explicitly re-queued by administrative action.
	Completed

	// Dead indicates that the job has exhausted its retry budget and will
	// not be retried unless explicitly promoted back to Pending.
	Dead
)

func statusToString(status Status) string {
	switch status {
	case Pending:
		return "pending"
	case Processing:
		return "processing"
	case Completed:
		return "completed"
	case Dead:
		return "dead"
	default:
		return "unknown"
	}
}

func statusFromString(status string) (Status, error) {
	switch status {
	case "pending":
		return Pending, nil
	case "processing":
		return Processing, nil
	case "completed":
		return Completed, nil
	case "dead":
		return Dead, nil
	case "unknown", "":
		return Unknown, nil
	default:
		return 0, fmt.Errorf("unknown status: %s", status)
	}
}

// ParseStatus converts a string representation of a status into a Status value.
//
// Recognized values are:
//
//	"pending"
//	"processing"
//	"completed"
//	"dead"
//	"unknown"
//
// An error is returned for unrecognized strings.
func ParseStatus(s string) (Status, error) {
	return statusFromString(s)
}

// MarshalText implements encoding.TextMarshaler.
//
// Status values are encoded using their canonical string names.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(statusToString(s)), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
//
// The textual form must match one of the canonical status names.
func (s *Status) UnmarshalText(text []byte) error {
	status, err := statusFromString(string(text))
	if err != nil {
		return err
	}
	*s = status
	return nil
}

// String returns the canonical string representation of the status.
func (s Status) String() string {
	return statusToString(s)
}
