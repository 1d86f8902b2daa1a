package queuectl

import "errors"

var (
	// ErrAlreadyExists is returned by Store.Enqueue when a caller-supplied
	// job ID collides with an existing row.
	ErrAlreadyExists = errors.New("queuectl: job already exists")

	// ErrInvalidJob is returned by Store.Enqueue when a job spec is
	// malformed: an empty command, or a non-positive timeout.
	ErrInvalidJob = errors.New("queuectl: invalid job")

	// ErrIllegalTransition is returned by Complete when the job is not
	// currently Processing. Unlike a lost claim race, this indicates a
	// bug in the caller and should be logged at high severity.
	ErrIllegalTransition = errors.New("queuectl: illegal state transition")

	// ErrJobLost indicates that the referenced job no longer exists, or
	// is no longer in the state the caller expected, typically because
	// it was concurrently reaped or transitioned by another actor.
	ErrJobLost = errors.New("queuectl: job lost")

	// ErrBadStatus indicates that a non-terminal status was supplied to
	// an operation that only operates on terminal jobs (Purge).
	ErrBadStatus = errors.New("queuectl: bad job status")
)
