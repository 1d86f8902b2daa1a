// Package sqlstore provides a bun-based implementation of store.Store
// backed by modernc.org/sqlite.
//
// # Overview
//
// The SQLite backend provides:
//
//   - durable persistence of jobs in a single "jobs" table
//   - atomic claiming using UPDATE ... WHERE id IN (subquery) RETURNING
//   - indexes supporting efficient claim and reap queries
//
// # Concurrency Model
//
// ClaimOne is implemented as a single atomic UPDATE statement with a
// subquery, selecting the oldest eligible row (ORDER BY run_at,
// created_at, id) and transitioning it to Processing in the same
// statement, so two concurrent workers can never claim the same row.
//
// SQLite's single-writer model means concurrent writers block rather
// than conflict; Open configures the pool for exactly one writer
// connection in WAL mode, which in practice serializes every mutating
// statement and turns what would otherwise be SQLITE_BUSY errors into
// ordinary queuing at the database/sql pool level.
//
// # Schema
//
// InitSchema creates the jobs table and its indexes if they do not
// already exist. It is idempotent and runs inside a transaction.
// Schema evolution beyond additive index creation is not handled here.
//
// # Database Lifecycle
//
// Open configures and returns a ready-to-use *bun.DB. The caller owns
// its lifetime and must Close it.
package sqlstore
