// Package ioschema implements the SchemaManager interface for the
// species dictionary. This is an impure I/O package executing DDL
// generated from the models in pkg/species.
package ioschema

import (
	"context"
	"log/slog"

	"github.com/birddex/birddex/pkg/birddex"
	"github.com/birddex/birddex/pkg/db"
	"github.com/birddex/birddex/pkg/species"
)

// manager implements the birddex.SchemaManager interface.
type manager struct {
	operator db.Operator
}

// NewManager creates a new SchemaManager.
func NewManager(op db.Operator) birddex.SchemaManager {
	return &manager{operator: op}
}

// EnsureSchema creates the metadata table if absent and
// unconditionally drops and recreates the species table. Ingestion
// always runs from a clean slate once a version mismatch is detected,
// so there is nothing to preserve.
func (m *manager) EnsureSchema(ctx context.Context) error {
	handle := m.operator.DB()
	if handle == nil {
		return NotConnectedError()
	}

	meta := species.Meta{}
	exists, err := m.operator.TableExists(ctx, meta.TableName())
	if err != nil {
		return err
	}
	if !exists {
		if _, err := handle.ExecContext(ctx, meta.TableDDL()); err != nil {
			return SchemaCreateError(meta.TableName(), err)
		}
	}

	rec := species.Record{}
	drop := "DROP TABLE IF EXISTS " + rec.TableName()
	if _, err := handle.ExecContext(ctx, drop); err != nil {
		return SchemaCreateError(rec.TableName(), err)
	}
	if _, err := handle.ExecContext(ctx, rec.TableDDL()); err != nil {
		return SchemaCreateError(rec.TableName(), err)
	}

	slog.Debug("Schema ensured",
		"tables", []string{meta.TableName(), rec.TableName()})
	return nil
}

// BuildIndexes creates the case-insensitive secondary indexes over
// the name and classification columns, then refreshes the query
// planner statistics. A failing ANALYZE is logged but does not fail
// the pipeline; index creation failures propagate.
func (m *manager) BuildIndexes(ctx context.Context) error {
	handle := m.operator.DB()
	if handle == nil {
		return NotConnectedError()
	}

	rec := species.Record{}
	for _, stmt := range rec.IndexDDL() {
		if _, err := handle.ExecContext(ctx, stmt); err != nil {
			return IndexBuildError(stmt, err)
		}
	}

	// Optimizer hint; losing it degrades plans, not correctness.
	if _, err := handle.ExecContext(ctx, "ANALYZE"); err != nil {
		slog.Warn("Statistics refresh failed after index build",
			"error", err)
	}

	slog.Debug("Secondary indexes built", "count", len(rec.IndexDDL()))
	return nil
}
