package iodb

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/birddex/birddex/pkg/config"
	"github.com/birddex/birddex/pkg/db"
	"github.com/birddex/birddex/pkg/errcode"
	"github.com/gnames/gn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOperatorImplementsInterface(t *testing.T) {
	var _ db.Operator = NewSqliteOperator()
}

func TestConnect(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that uses SQLite file in short mode")
	}

	ctx := context.Background()
	op := NewSqliteOperator()
	cfg := &config.DatabaseConfig{
		Path: filepath.Join(t.TempDir(), "dict.db"),
	}

	require.NoError(t, op.Connect(ctx, cfg))
	defer op.Close()

	require.NotNil(t, op.DB())
	assert.NoError(t, op.DB().PingContext(ctx))
}

func TestTableExists(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that uses SQLite file in short mode")
	}

	ctx := context.Background()
	op := NewSqliteOperator()
	cfg := &config.DatabaseConfig{
		Path: filepath.Join(t.TempDir(), "dict.db"),
	}
	require.NoError(t, op.Connect(ctx, cfg))
	defer op.Close()

	exists, err := op.TableExists(ctx, "species")
	require.NoError(t, err)
	assert.False(t, exists)

	_, err = op.DB().ExecContext(ctx, "CREATE TABLE species (id TEXT)")
	require.NoError(t, err)

	exists, err = op.TableExists(ctx, "species")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestNotConnected(t *testing.T) {
	op := NewSqliteOperator()

	_, err := op.TableExists(context.Background(), "species")
	require.Error(t, err)

	gnErr, ok := err.(*gn.Error)
	require.True(t, ok, "Error should be of type *gn.Error")
	assert.Equal(t, errcode.DBNotConnectedError, gnErr.Code)
}

func TestCloseWithoutConnect(t *testing.T) {
	op := NewSqliteOperator()
	assert.NoError(t, op.Close())
}
