package ioingest

import (
	"fmt"
	"strings"

	"github.com/birddex/birddex/pkg/errcode"
	"github.com/gnames/gn"
)

// NotConnectedError creates an error for ingestion attempted without
// a record store connection.
func NotConnectedError() error {
	msg := "Ingestion attempted without database connection"

	return &gn.Error{
		Code: errcode.DBNotConnectedError,
		Msg:  msg,
		Vars: nil,
		Err:  fmt.Errorf("not connected to database"),
	}
}

// AssetReadError creates an error for an unreachable or unreadable
// dataset asset.
func AssetReadError(path string, err error) error {
	msg := `Cannot read the reference dataset

<em>Dataset path:</em> %s

<em>Possible causes:</em>
  - Dataset asset missing from the deployment
  - Incorrect dataset path in configuration

<em>How to fix:</em>
  1. Verify the dataset path
  2. Re-run ingestion with retry`

	vars := []any{path}

	return &gn.Error{
		Code: errcode.AssetReadError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("failed to read dataset %s: %w", path, err),
	}
}

// ParseError creates an error for a malformed row stream.
func ParseError(line int, err error) error {
	msg := `Malformed row in the reference dataset

<em>Line:</em> %d`

	vars := []any{line}

	return &gn.Error{
		Code: errcode.ParseError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("parse failure at line %d: %w", line, err),
	}
}

// MissingColumnsError creates an error for a dataset header that
// lacks required columns. Fails fast at parse time instead of
// producing empty-string fields.
func MissingColumnsError(missing []string) error {
	msg := `Reference dataset header lacks required columns

<em>Missing:</em> %s`

	vars := []any{strings.Join(missing, ", ")}

	return &gn.Error{
		Code: errcode.ParseError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("dataset missing columns: %s",
			strings.Join(missing, ", ")),
	}
}

// TransactionError creates an error for a failed batch commit.
func TransactionError(batch int, err error) error {
	msg := `A transactional batch failed to commit

<em>Batch:</em> %d`

	vars := []any{batch}

	return &gn.Error{
		Code: errcode.TransactionError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("batch %d failed: %w", batch, err),
	}
}

// MetadataError creates an error for a failed version/timestamp
// write into the metadata table.
func MetadataError(err error) error {
	msg := "Cannot record the dataset version after ingestion"

	return &gn.Error{
		Code: errcode.MetadataError,
		Msg:  msg,
		Vars: nil,
		Err:  fmt.Errorf("metadata write: %w", err),
	}
}

func errFieldCount(want, got int) error {
	return fmt.Errorf("expected %d fields, got %d", want, got)
}
