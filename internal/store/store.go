// Package store opens the local sqlite session store and applies embedded
// goose migrations. It also centralizes driver-specific error and timestamp
// handling so repositories stay free of sqlite details.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/Ghost-Rider-gu/CLI-buddy/internal/store/migrations"

	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"
)

// Open opens (creating if necessary) the sqlite database at path and brings
// its schema up to date. The connection is configured for concurrent CLI
// invocations: WAL journal, enforced foreign keys, and a busy timeout so a
// brief lock held by another process does not fail immediately.
func Open(ctx context.Context, path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", DSN(path))
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate store: %w", err)
	}

	return db, nil
}

// DSN builds the sqlite connection string for a store path. Memory DSNs used
// by tests are passed through unchanged.
func DSN(path string) string {
	if path == ":memory:" || strings.Contains(path, "mode=memory") {
		return path
	}
	return path + "?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=5000&_synchronous=NORMAL"
}

// RunMigrations applies all pending schema migrations. It is safe to call on
// every process start; goose tracks applied versions in the database.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.FS)
	goose.SetLogger(goose.NopLogger())

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}

	return goose.UpContext(ctx, db, ".")
}
