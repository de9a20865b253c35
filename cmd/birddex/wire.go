package main

import (
	"context"
	"fmt"

	"github.com/birddex/birddex/internal/iocoord"
	"github.com/birddex/birddex/internal/iodb"
	"github.com/birddex/birddex/internal/ioingest"
	"github.com/birddex/birddex/internal/ioquery"
	"github.com/birddex/birddex/internal/ioschema"
	"github.com/birddex/birddex/pkg/birddex"
	"github.com/birddex/birddex/pkg/db"
)

// subsystem is the composition root: it owns the lifetimes of the
// explicitly constructed service objects. No hidden globals; "one
// pipeline per process" holds because main wires exactly one.
type subsystem struct {
	operator    db.Operator
	pipeline    birddex.Pipeline
	querier     birddex.Querier
	coordinator birddex.Coordinator
}

// newSubsystem connects the record store and wires the dictionary
// services together.
func newSubsystem(ctx context.Context) (*subsystem, error) {
	cfg := getConfig()

	op := iodb.NewSqliteOperator()
	if err := op.Connect(ctx, &cfg.Database); err != nil {
		return nil, fmt.Errorf("failed to connect to record store: %w", err)
	}

	schema := ioschema.NewManager(op)
	loader := ioingest.NewLoader(op, cfg.Ingest.BatchSize, cfg.Ingest.YieldEvery)
	pipeline := ioingest.New(cfg, op, schema, loader)
	querier := ioquery.New(op)
	coordinator := iocoord.New(cfg.Coordinator.Options())

	return &subsystem{
		operator:    op,
		pipeline:    pipeline,
		querier:     querier,
		coordinator: coordinator,
	}, nil
}

// close tears the subsystem down: pending coordinator work is
// drained, then the store handle closes.
func (s *subsystem) close() {
	s.coordinator.Close()
	s.operator.Close()
}
