package ioingest

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/birddex/birddex/pkg/species"
)

// storedVersion reads the dataset version tag from the metadata
// table. An absent table or key returns an empty version, not an
// error: both simply mean ingestion has to run.
func storedVersion(ctx context.Context, handle *sql.DB) (string, error) {
	var exists bool
	probe := `
		SELECT EXISTS (
			SELECT 1 FROM sqlite_master
			WHERE type = 'table' AND name = ?
		)
	`
	meta := species.Meta{}
	if err := handle.QueryRowContext(
		ctx, probe, meta.TableName()).Scan(&exists); err != nil {
		return "", err
	}
	if !exists {
		return "", nil
	}

	var version string
	q := "SELECT value FROM meta WHERE key = ?"
	err := handle.QueryRowContext(
		ctx, q, species.MetaKeyVersion).Scan(&version)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return version, nil
}

// speciesCount returns the number of persisted species rows.
func speciesCount(ctx context.Context, handle *sql.DB) (int, error) {
	var count int
	q := "SELECT COUNT(*) FROM species"
	if err := handle.QueryRowContext(ctx, q).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

// writeMetadata stamps the dataset version and ingestion timestamp.
// Uses INSERT OR REPLACE so a retry after a failed finalize is
// idempotent.
func writeMetadata(
	ctx context.Context,
	handle *sql.DB,
	now time.Time,
) error {
	tx, err := handle.BeginTx(ctx, nil)
	if err != nil {
		return MetadataError(err)
	}

	q := "INSERT OR REPLACE INTO meta (key, value) VALUES (?, ?)"
	pairs := [][2]string{
		{species.MetaKeyVersion, species.DatasetVersion},
		{species.MetaKeyInitializedAt, now.UTC().Format(time.RFC3339)},
	}
	for _, kv := range pairs {
		if _, err := tx.ExecContext(ctx, q, kv[0], kv[1]); err != nil {
			tx.Rollback()
			return MetadataError(err)
		}
	}

	if err := tx.Commit(); err != nil {
		return MetadataError(err)
	}
	return nil
}
