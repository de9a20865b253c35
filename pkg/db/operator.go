// Package db defines the record store contract. The store is an
// embedded transactional SQLite database; higher-level components
// (SchemaManager, Pipeline, Querier) execute their specialized SQL
// through the handle this interface exposes.
package db

import (
	"context"
	"database/sql"

	"github.com/birddex/birddex/pkg/config"
)

// Operator defines basic record store management operations.
// It provides connection lifecycle management and exposes the sql.DB
// handle for components to run transactions and queries internally.
//
// Design rationale:
// - Keeps interface minimal to avoid bloat with mixed semantics
// - DB() enables components to use transactions and prepared statements
// - Schema DDL is owned by the SchemaManager, not the operator
type Operator interface {
	// Connect opens the database file and applies connection pragmas.
	Connect(ctx context.Context, cfg *config.DatabaseConfig) error

	// Close closes the database handle.
	Close() error

	// DB returns the underlying handle for components to execute
	// specialized SQL operations.
	DB() *sql.DB

	// TableExists checks if a table exists in the database. Used for
	// probing the externally-owned user log table, which this
	// subsystem never creates.
	TableExists(ctx context.Context, tableName string) (bool, error)
}
