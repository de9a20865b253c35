package ioingest

import (
	"context"
	"fmt"
	"runtime"
	"strings"

	"github.com/birddex/birddex/pkg/birddex"
	"github.com/birddex/birddex/pkg/db"
	"github.com/birddex/birddex/pkg/species"
)

// loader implements birddex.Loader: transactional batch inserts with
// periodic scheduler yields so a large ingestion cannot monopolize
// its goroutine's thread.
type loader struct {
	operator   db.Operator
	batchSize  int
	yieldEvery int
}

// NewLoader creates a chunked loader. batchSize rows commit per
// transaction; the loader yields after every yieldEvery batches.
func NewLoader(op db.Operator, batchSize, yieldEvery int) birddex.Loader {
	if batchSize <= 0 {
		batchSize = 500
	}
	if yieldEvery <= 0 {
		yieldEvery = 4
	}
	return &loader{
		operator:   op,
		batchSize:  batchSize,
		yieldEvery: yieldEvery,
	}
}

// LoadBatches commits rows in transactional batches. Each batch is
// atomic: all rows in it succeed or the whole batch fails and
// propagates. The loader reports committed totals to onCommitted and
// leaves progress attribution to the caller.
func (l *loader) LoadBatches(
	ctx context.Context,
	rows []species.Record,
	onCommitted func(committed int),
) error {
	handle := l.operator.DB()
	if handle == nil {
		return NotConnectedError()
	}

	insertSQL := buildInsertSQL()

	committed := 0
	batchNum := 0
	for start := 0; start < len(rows); start += l.batchSize {
		select {
		case <-ctx.Done():
			return TransactionError(batchNum, ctx.Err())
		default:
		}

		end := start + l.batchSize
		if end > len(rows) {
			end = len(rows)
		}
		batch := rows[start:end]
		batchNum++

		if err := l.commitBatch(ctx, insertSQL, batch); err != nil {
			return TransactionError(batchNum, err)
		}

		committed += len(batch)
		if onCommitted != nil {
			onCommitted(committed)
		}

		if batchNum%l.yieldEvery == 0 {
			runtime.Gosched()
		}
	}

	return nil
}

func (l *loader) commitBatch(
	ctx context.Context,
	insertSQL string,
	batch []species.Record,
) error {
	tx, err := l.operator.DB().BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	stmt, err := tx.PrepareContext(ctx, insertSQL)
	if err != nil {
		tx.Rollback()
		return err
	}

	for i := range batch {
		if _, err := stmt.ExecContext(ctx, batch[i].Values()...); err != nil {
			stmt.Close()
			tx.Rollback()
			return err
		}
	}

	stmt.Close()
	return tx.Commit()
}

func buildInsertSQL() string {
	rec := species.Record{}
	cols := rec.Columns()
	placeholders := strings.TrimSuffix(
		strings.Repeat("?, ", len(cols)), ", ")
	return fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s)",
		rec.TableName(),
		strings.Join(cols, ", "),
		placeholders,
	)
}
