package ioschema

import (
	"fmt"

	"github.com/birddex/birddex/pkg/errcode"
	"github.com/gnames/gn"
)

// NotConnectedError creates an error for schema operations attempted
// without a record store connection.
func NotConnectedError() error {
	msg := "Schema operation attempted without database connection"

	return &gn.Error{
		Code: errcode.DBNotConnectedError,
		Msg:  msg,
		Vars: nil,
		Err:  fmt.Errorf("not connected to database"),
	}
}

// SchemaCreateError creates an error for a failed table create or
// drop. Table creation failures are fatal to the current ingestion
// attempt.
func SchemaCreateError(tableName string, err error) error {
	msg := `Cannot create the <em>%s</em> table

<em>How to fix:</em>
  1. Check the database file is writable
  2. Retry ingestion; a retry drops and recreates all tables`

	vars := []any{tableName}

	return &gn.Error{
		Code: errcode.SchemaError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("schema create for %s: %w", tableName, err),
	}
}

// IndexBuildError creates an error for a failed secondary index
// creation. The pipeline logs this and continues: the dictionary
// stays queryable, just unindexed.
func IndexBuildError(stmt string, err error) error {
	msg := `Cannot build a secondary index

<em>Statement:</em> %s`

	vars := []any{stmt}

	return &gn.Error{
		Code: errcode.IndexBuildError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("index build: %w", err),
	}
}
