package ioingest

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/birddex/birddex/internal/iodb"
	"github.com/birddex/birddex/internal/ioschema"
	"github.com/birddex/birddex/pkg/config"
	"github.com/birddex/birddex/pkg/db"
	"github.com/birddex/birddex/pkg/errcode"
	"github.com/birddex/birddex/pkg/species"
	"github.com/gnames/gn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func connectWithSchema(t *testing.T) db.Operator {
	t.Helper()
	ctx := context.Background()
	op := iodb.NewSqliteOperator()
	cfg := &config.DatabaseConfig{
		Path: filepath.Join(t.TempDir(), "dict.db"),
	}
	require.NoError(t, op.Connect(ctx, cfg))
	t.Cleanup(func() { op.Close() })
	require.NoError(t, ioschema.NewManager(op).EnsureSchema(ctx))
	return op
}

func testRecord(code string) species.Record {
	return species.Record{
		SpeciesCode:    code,
		PrimaryName:    "Bird " + code,
		ScientificName: "Avius " + code,
		Category:       "species",
		Family:         "Testidae",
		TaxonOrder:     "Testiformes",
		DatasetVersion: species.DatasetVersion,
		IngestedAt:     "2026-01-01T00:00:00Z",
	}
}

func TestLoadBatches(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that uses SQLite file in short mode")
	}

	ctx := context.Background()
	op := connectWithSchema(t)
	ldr := NewLoader(op, 2, 1)

	rows := []species.Record{
		testRecord("a1"), testRecord("a2"), testRecord("a3"),
	}

	var totals []int
	err := ldr.LoadBatches(ctx, rows, func(committed int) {
		totals = append(totals, committed)
	})
	require.NoError(t, err)

	// Batch size 2 over 3 rows: a full batch, then the remainder.
	assert.Equal(t, []int{2, 3}, totals)

	var count int
	require.NoError(t, op.DB().QueryRowContext(ctx,
		"SELECT COUNT(*) FROM species").Scan(&count))
	assert.Equal(t, 3, count)
}

func TestLoadBatchesEmpty(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that uses SQLite file in short mode")
	}

	op := connectWithSchema(t)
	ldr := NewLoader(op, 2, 1)

	err := ldr.LoadBatches(context.Background(), nil, nil)
	assert.NoError(t, err)
}

func TestLoadBatchesAtomicity(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that uses SQLite file in short mode")
	}

	ctx := context.Background()
	op := connectWithSchema(t)
	ldr := NewLoader(op, 2, 1)

	// The second batch violates the primary key and must roll back as
	// a unit while the first batch stays committed.
	rows := []species.Record{
		testRecord("b1"), testRecord("b2"),
		testRecord("b3"), testRecord("b1"),
	}

	err := ldr.LoadBatches(ctx, rows, nil)
	require.Error(t, err)

	gnErr, ok := err.(*gn.Error)
	require.True(t, ok, "Error should be of type *gn.Error")
	assert.Equal(t, errcode.TransactionError, gnErr.Code)

	var count int
	require.NoError(t, op.DB().QueryRowContext(ctx,
		"SELECT COUNT(*) FROM species").Scan(&count))
	assert.Equal(t, 2, count, "failed batch must not partially commit")
}

func TestLoadBatchesCancelled(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that uses SQLite file in short mode")
	}

	op := connectWithSchema(t)
	ldr := NewLoader(op, 1, 1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := ldr.LoadBatches(ctx, []species.Record{testRecord("c1")}, nil)
	require.Error(t, err)

	gnErr, ok := err.(*gn.Error)
	require.True(t, ok)
	assert.Equal(t, errcode.TransactionError, gnErr.Code)
}

func TestLoadBatchesNotConnected(t *testing.T) {
	ldr := NewLoader(iodb.NewSqliteOperator(), 2, 1)

	err := ldr.LoadBatches(context.Background(),
		[]species.Record{testRecord("d1")}, nil)
	require.Error(t, err)

	gnErr, ok := err.(*gn.Error)
	require.True(t, ok)
	assert.Equal(t, errcode.DBNotConnectedError, gnErr.Code)
}

func TestBuildInsertSQL(t *testing.T) {
	sql := buildInsertSQL()
	assert.Contains(t, sql, "INSERT INTO species")
	assert.Contains(t, sql, `"species_code"`)
	assert.Contains(t, sql, `"order"`)

	cols := species.Record{}.Columns()
	placeholders := 0
	for _, r := range sql {
		if r == '?' {
			placeholders++
		}
	}
	assert.Equal(t, len(cols), placeholders,
		fmt.Sprintf("one placeholder per column in %s", sql))
}
