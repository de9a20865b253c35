package ioquery

import (
	"fmt"
	"strings"

	"github.com/birddex/birddex/pkg/errcode"
	"github.com/birddex/birddex/pkg/species"
	"github.com/gnames/gn"
)

// NotConnectedError creates an error for queries attempted without a
// record store connection.
func NotConnectedError() error {
	msg := "Query attempted without database connection"

	return &gn.Error{
		Code: errcode.DBNotConnectedError,
		Msg:  msg,
		Vars: nil,
		Err:  fmt.Errorf("not connected to database"),
	}
}

// InvalidSortKeyError creates an error for a sort key outside of the
// whitelist. This is a hard precondition failure, never a silent
// fallback to a default ordering.
func InvalidSortKeyError(key string) error {
	msg := `Sort key <em>%s</em> is not supported

<em>Valid sort keys:</em> %s`

	vars := []any{key, strings.Join(species.SortKeys(), ", ")}

	return &gn.Error{
		Code: errcode.InvalidSortKeyError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("invalid sort key %q", key),
	}
}

// QueryError creates an error for a failed read operation.
func QueryError(op string, err error) error {
	msg := `Dictionary query failed

<em>Operation:</em> %s`

	vars := []any{op}

	return &gn.Error{
		Code: errcode.QueryError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("%s: %w", op, err),
	}
}

// RecordScanError creates an error for a row that does not scan into
// the record struct.
func RecordScanError(err error) error {
	msg := "Cannot read a species record from the store"

	return &gn.Error{
		Code: errcode.RecordScanError,
		Msg:  msg,
		Vars: nil,
		Err:  fmt.Errorf("record scan: %w", err),
	}
}
