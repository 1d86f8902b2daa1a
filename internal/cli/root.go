// Package cli implements the command-line surface of spec.md §6 as a
// cobra command tree. Every subcommand is a thin adapter over the
// queuectl, store/sqlstore, config, heartbeat, metrics, and stopflag
// packages; no business logic lives here.
package cli

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/uptrace/bun"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/aidarkhanov/queuectl/store/sqlstore"
)

// Exit codes shared across subcommands, per spec.md §6.
const (
	ExitOK         = 0
	ExitIOError    = 1
	ExitMalformed  = 2
	ExitStoreWrite = 3
	ExitInternal   = 4
)

type env struct {
	installDir string
	db         *bun.DB
	log        *slog.Logger
}

func (e *env) dbPath() string {
	return filepath.Join(e.installDir, "queuectl.db")
}

func (e *env) stopFlagPath() string {
	return filepath.Join(e.installDir, "stop.flag")
}

func (e *env) configFilePath() string {
	return filepath.Join(e.installDir, "config.json")
}

func (e *env) logPath() string {
	return filepath.Join(e.installDir, "queuectl.log")
}

func (e *env) heartbeatPath() string {
	return filepath.Join(e.installDir, "worker.heartbeat")
}

func (e *env) metricsFilePath() string {
	return filepath.Join(e.installDir, "metrics.jsonl")
}

func (e *env) openLogger() *slog.Logger {
	if e.log != nil {
		return e.log
	}
	rotator := &lumberjack.Logger{
		Filename:   e.logPath(),
		MaxSize:    10,
		MaxBackups: 3,
		MaxAge:     28,
	}
	e.log = slog.New(slog.NewTextHandler(rotator, nil))
	return e.log
}

func (e *env) openStore() (*sqlstore.Store, error) {
	if e.db == nil {
		db, err := sqlstore.Open(e.dbPath())
		if err != nil {
			return nil, err
		}
		e.db = db
	}
	return sqlstore.New(e.db), nil
}

// NewRoot builds the top-level "queuectl" cobra command with every
// subcommand wired. installDir is the directory holding the SQLite
// file, the stop-flag file, the optional config.json, and the rotated
// log file.
func NewRoot(installDir string) *cobra.Command {
	e := &env{installDir: installDir}

	root := &cobra.Command{
		Use:           "queuectl",
		Short:         "A durable, single-host background job queue.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	root.AddCommand(
		newInitDBCmd(e),
		newEnqueueCmd(e),
		newStatusCmd(e),
		newListCmd(e),
		newWorkerCmd(e),
		newDLQCmd(e),
		newConfigCmd(e),
	)
	return root
}

func fail(code int, format string, args ...any) error {
	return &cliError{code: code, msg: fmt.Sprintf(format, args...)}
}

type cliError struct {
	code int
	msg  string
}

func (e *cliError) Error() string { return e.msg }

// ExitCode extracts the process exit code associated with err, or
// ExitInternal if err was not produced by this package's fail helper.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	if ce, ok := err.(*cliError); ok {
		return ce.code
	}
	return ExitInternal
}
