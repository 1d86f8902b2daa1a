package sqlstore

import (
	"context"
	"database/sql"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	_ "modernc.org/sqlite"
)

// Open opens the SQLite database at path and wraps it as a *bun.DB
// configured for this package's single-writer concurrency model: WAL
// journaling (so readers never block on the writer) plus exactly one
// open connection, which serializes every statement issued through the
// returned handle and turns SQLite's SQLITE_BUSY contention into
// ordinary connection-pool queuing instead of retryable errors.
//
// The caller owns the returned *bun.DB and must Close it. InitSchema
// must be called once before first use.
func Open(path string) (*bun.DB, error) {
	sqldb, err := sql.Open("sqlite", path+"?_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, err
	}
	sqldb.SetMaxOpenConns(1)

	db := bun.NewDB(sqldb, sqlitedialect.New())
	if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}
