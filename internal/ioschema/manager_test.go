package ioschema

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/birddex/birddex/internal/iodb"
	"github.com/birddex/birddex/pkg/birddex"
	"github.com/birddex/birddex/pkg/config"
	"github.com/birddex/birddex/pkg/db"
	"github.com/birddex/birddex/pkg/errcode"
	"github.com/gnames/gn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManagerImplementsInterface(t *testing.T) {
	op := iodb.NewSqliteOperator()
	var _ birddex.SchemaManager = NewManager(op)
}

func connectTestStore(t *testing.T) db.Operator {
	t.Helper()
	op := iodb.NewSqliteOperator()
	cfg := &config.DatabaseConfig{
		Path: filepath.Join(t.TempDir(), "dict.db"),
	}
	require.NoError(t, op.Connect(context.Background(), cfg))
	t.Cleanup(func() { op.Close() })
	return op
}

func TestEnsureSchema(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that uses SQLite file in short mode")
	}

	ctx := context.Background()
	op := connectTestStore(t)
	mgr := NewManager(op)

	require.NoError(t, mgr.EnsureSchema(ctx))

	for _, table := range []string{"meta", "species"} {
		exists, err := op.TableExists(ctx, table)
		require.NoError(t, err)
		assert.True(t, exists, table)
	}
}

func TestEnsureSchemaRecreatesSpecies(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that uses SQLite file in short mode")
	}

	ctx := context.Background()
	op := connectTestStore(t)
	mgr := NewManager(op)

	require.NoError(t, mgr.EnsureSchema(ctx))

	_, err := op.DB().ExecContext(ctx, `
		INSERT INTO species
		("species_code", "primary_name", "scientific_name", "category",
		 "dataset_version", "ingested_at")
		VALUES ('stale1', 'Stale Bird', 'Stalus stalus', 'species',
		 'v0', '2020-01-01T00:00:00Z')`)
	require.NoError(t, err)

	// Meta survives; species starts from a clean slate.
	_, err = op.DB().ExecContext(ctx,
		"INSERT INTO meta (key, value) VALUES ('probe', 'kept')")
	require.NoError(t, err)

	require.NoError(t, mgr.EnsureSchema(ctx))

	var speciesCount, metaCount int
	require.NoError(t, op.DB().QueryRowContext(ctx,
		"SELECT COUNT(*) FROM species").Scan(&speciesCount))
	require.NoError(t, op.DB().QueryRowContext(ctx,
		"SELECT COUNT(*) FROM meta").Scan(&metaCount))

	assert.Equal(t, 0, speciesCount)
	assert.Equal(t, 1, metaCount)
}

func TestBuildIndexes(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that uses SQLite file in short mode")
	}

	ctx := context.Background()
	op := connectTestStore(t)
	mgr := NewManager(op)

	require.NoError(t, mgr.EnsureSchema(ctx))
	require.NoError(t, mgr.BuildIndexes(ctx))

	rows, err := op.DB().QueryContext(ctx, `
		SELECT name FROM sqlite_master
		WHERE type = 'index' AND name LIKE 'idx_species_%'`)
	require.NoError(t, err)
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		require.NoError(t, rows.Scan(&name))
		names = append(names, name)
	}
	require.NoError(t, rows.Err())

	assert.Contains(t, names, "idx_species_primary_name")
	assert.Contains(t, names, "idx_species_scientific_name")
	assert.Contains(t, names, "idx_species_category")
	assert.Contains(t, names, "idx_species_family")
	assert.Contains(t, names, "idx_species_name_fr")
}

func TestBuildIndexesWithoutSchema(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that uses SQLite file in short mode")
	}

	ctx := context.Background()
	op := connectTestStore(t)
	mgr := NewManager(op)

	// No species table yet: index creation must fail loudly.
	err := mgr.BuildIndexes(ctx)
	require.Error(t, err)

	gnErr, ok := err.(*gn.Error)
	require.True(t, ok, "Error should be of type *gn.Error")
	assert.Equal(t, errcode.IndexBuildError, gnErr.Code)
}

func TestNotConnected(t *testing.T) {
	mgr := NewManager(iodb.NewSqliteOperator())

	err := mgr.EnsureSchema(context.Background())
	require.Error(t, err)

	gnErr, ok := err.(*gn.Error)
	require.True(t, ok)
	assert.Equal(t, errcode.DBNotConnectedError, gnErr.Code)
}
