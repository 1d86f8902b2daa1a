// Package job defines the stateful representation of a queued shell
// command within the queuectl lifecycle.
//
// A Job carries both the command to run and the delivery/scheduling
// metadata (Status, Attempts, lock information, timestamps) maintained by
// the queue storage and worker logic.
//
// Job values are typically returned by claim operations and passed back
// to the storage layer for state transitions (Complete, Retry, Bury,
// PromoteDead).
//
// Job is not intended to be constructed manually by user code outside of
// tests. Its fields reflect the authoritative state stored by the queue
// backend.
package job
