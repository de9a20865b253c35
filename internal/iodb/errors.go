package iodb

import (
	"fmt"

	"github.com/birddex/birddex/pkg/errcode"
	"github.com/gnames/gn"
)

// ConnectionError creates an error for a failed record store open.
func ConnectionError(path string, err error) error {
	msg := `Cannot open the record store

<em>Database path:</em> %s

<em>Possible causes:</em>
  - Directory does not exist or is not writable
  - File is not a SQLite database
  - File is locked by another process

<em>How to fix:</em>
  1. Verify the database path in the configuration
  2. Check directory permissions`

	vars := []any{path}

	return &gn.Error{
		Code: errcode.DBConnectionError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("failed to open database %s: %w", path, err),
	}
}

// NotConnectedError creates an error for operations attempted before
// Connect.
func NotConnectedError() error {
	msg := "Record store operation attempted without a connection"

	return &gn.Error{
		Code: errcode.DBNotConnectedError,
		Msg:  msg,
		Vars: nil,
		Err:  fmt.Errorf("not connected to database"),
	}
}

// TableExistsCheckError creates an error for a failed table probe.
func TableExistsCheckError(tableName string, err error) error {
	msg := `Cannot check if table <em>%s</em> exists`

	vars := []any{tableName}

	return &gn.Error{
		Code: errcode.DBTableCheckError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("table check for %s: %w", tableName, err),
	}
}
