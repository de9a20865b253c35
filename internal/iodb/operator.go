// Package iodb implements the record store operator over SQLite.
// This is an impure I/O package that implements contracts defined
// in pkg/.
package iodb

import (
	"context"
	"database/sql"

	"github.com/birddex/birddex/pkg/config"
	"github.com/birddex/birddex/pkg/db"
	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGo)
)

// sqliteOperator implements db.Operator using database/sql with the
// modernc SQLite driver.
type sqliteOperator struct {
	db *sql.DB
}

// NewSqliteOperator creates a new record store operator
// (without connecting).
func NewSqliteOperator() db.Operator {
	return &sqliteOperator{}
}

// Connect opens the SQLite file and applies pragmas. The store
// supports a small number of concurrent readers; the operation
// coordinator is responsible for bounding read traffic.
func (s *sqliteOperator) Connect(
	ctx context.Context,
	cfg *config.DatabaseConfig,
) error {
	handle, err := sql.Open("sqlite", cfg.Path)
	if err != nil {
		return ConnectionError(cfg.Path, err)
	}

	// WAL allows readers to proceed while ingestion writes; the busy
	// timeout covers short write lock contention instead of failing.
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, err := handle.ExecContext(ctx, pragma); err != nil {
			handle.Close()
			return ConnectionError(cfg.Path, err)
		}
	}

	// Verify connection
	if err := handle.PingContext(ctx); err != nil {
		handle.Close()
		return ConnectionError(cfg.Path, err)
	}

	s.db = handle
	return nil
}

// Close releases the database handle.
func (s *sqliteOperator) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// DB returns the underlying sql.DB for specialized operations.
func (s *sqliteOperator) DB() *sql.DB {
	return s.db
}

// TableExists checks if a table exists in the database.
func (s *sqliteOperator) TableExists(
	ctx context.Context,
	tableName string,
) (bool, error) {
	if s.db == nil {
		return false, NotConnectedError()
	}

	query := `
		SELECT EXISTS (
			SELECT 1 FROM sqlite_master
			WHERE type = 'table'
			AND name = ?
		)
	`

	var exists bool
	err := s.db.QueryRowContext(ctx, query, tableName).Scan(&exists)
	if err != nil {
		return false, TableExistsCheckError(tableName, err)
	}

	return exists, nil
}
