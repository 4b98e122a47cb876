// Copyright 2026 The Gridgate Authors
// SPDX-License-Identifier: Apache-2.0

package audit

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"

	"github.com/gridgate-foundation/gridgate/lib/clock"
	"github.com/gridgate-foundation/gridgate/lib/sqlitepool"
)

// "group_name" rather than "group": GROUP is an SQL keyword.
const schemaSQL = `
CREATE TABLE IF NOT EXISTS commands (
    id         INTEGER PRIMARY KEY AUTOINCREMENT,
    at         INTEGER NOT NULL,
    group_name TEXT    NOT NULL,
    command    TEXT    NOT NULL,
    success    INTEGER NOT NULL,
    detail     TEXT    NOT NULL,
    elapsed_ms INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS commands_at ON commands (at);
`

// Entry is one recorded command outcome.
type Entry struct {
	At      time.Time
	Group   string
	Command string
	Success bool
	Detail  string
	Elapsed time.Duration
}

// RecorderConfig holds the parameters for opening a Recorder.
type RecorderConfig struct {
	// Path is the SQLite database file. Required.
	Path string

	// Clock provides row timestamps. Defaults to the real clock.
	Clock clock.Clock

	// Logger is used for structured logging. If nil, slog.Default()
	// is used.
	Logger *slog.Logger
}

// Recorder writes command outcomes to a SQLite audit trail.
type Recorder struct {
	pool   *sqlitepool.Pool
	clock  clock.Clock
	logger *slog.Logger
}

// Open creates the audit database if needed and returns a Recorder.
// The caller must Close it when done.
func Open(cfg RecorderConfig) (*Recorder, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("audit: Path is required")
	}
	clk := cfg.Clock
	if clk == nil {
		clk = clock.Real()
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	pool, err := sqlitepool.Open(sqlitepool.Config{
		Path:   cfg.Path,
		Logger: logger,
		OnConnect: func(conn *sqlite.Conn) error {
			return sqlitex.ExecuteScript(conn, schemaSQL, nil)
		},
	})
	if err != nil {
		return nil, fmt.Errorf("audit: %w", err)
	}
	return &Recorder{pool: pool, clock: clk, logger: logger}, nil
}

// Record writes one outcome row. Implements the dispatcher's auditor
// surface: failures are logged, never returned, so a broken audit
// trail cannot fail commands.
func (r *Recorder) Record(ctx context.Context, group, command string, success bool, detail string, elapsed time.Duration) {
	conn, err := r.pool.Take(ctx)
	if err != nil {
		r.logger.Warn("audit record dropped", "group", group, "command", command, "error", err)
		return
	}
	defer r.pool.Put(conn)

	err = sqlitex.Execute(conn,
		`INSERT INTO commands (at, group_name, command, success, detail, elapsed_ms)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		&sqlitex.ExecOptions{
			Args: []any{
				r.clock.Now().UnixMilli(),
				group,
				command,
				boolInt(success),
				detail,
				elapsed.Milliseconds(),
			},
		})
	if err != nil {
		r.logger.Warn("audit record dropped", "group", group, "command", command, "error", err)
	}
}

// Recent returns up to limit entries, newest first.
func (r *Recorder) Recent(ctx context.Context, limit int) ([]Entry, error) {
	conn, err := r.pool.Take(ctx)
	if err != nil {
		return nil, fmt.Errorf("audit: %w", err)
	}
	defer r.pool.Put(conn)

	var entries []Entry
	err = sqlitex.Execute(conn,
		`SELECT at, group_name, command, success, detail, elapsed_ms
		 FROM commands ORDER BY at DESC, id DESC LIMIT ?`,
		&sqlitex.ExecOptions{
			Args: []any{limit},
			ResultFunc: func(stmt *sqlite.Stmt) error {
				entries = append(entries, Entry{
					At:      time.UnixMilli(stmt.ColumnInt64(0)),
					Group:   stmt.ColumnText(1),
					Command: stmt.ColumnText(2),
					Success: stmt.ColumnInt64(3) != 0,
					Detail:  stmt.ColumnText(4),
					Elapsed: time.Duration(stmt.ColumnInt64(5)) * time.Millisecond,
				})
				return nil
			},
		})
	if err != nil {
		return nil, fmt.Errorf("audit: querying recent commands: %w", err)
	}
	return entries, nil
}

// Close closes the underlying pool.
func (r *Recorder) Close() error {
	return r.pool.Close()
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
