package iocoord

import (
	"fmt"
	"time"

	"github.com/birddex/birddex/pkg/errcode"
	"github.com/gnames/gn"
)

// QueueFullError creates an error for scheduling past the queue
// limit. The existing queue is left untouched.
func QueueFullError(id string, limit int) error {
	msg := `Operation queue is at capacity

<em>Operation:</em> %s
<em>Queue limit:</em> %d`

	vars := []any{id, limit}

	return &gn.Error{
		Code: errcode.QueueFullError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("queue full (limit %d), rejected %s", limit, id),
	}
}

// TimeoutError creates an error for an operation that lost the race
// against the coordinator timeout.
func TimeoutError(id string, timeout time.Duration) error {
	msg := `Operation timed out

<em>Operation:</em> %s
<em>Timeout:</em> %s`

	vars := []any{id, timeout}

	return &gn.Error{
		Code: errcode.OperationTimeoutError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("operation %s timed out after %s", id, timeout),
	}
}

// CancelledError creates an error for an operation cancelled before
// activation: superseded by a newer same-id call, drained by
// CancelPending, or abandoned by its caller.
func CancelledError(id, reason string) error {
	msg := `Operation cancelled

<em>Operation:</em> %s
<em>Reason:</em> %s`

	vars := []any{id, reason}

	return &gn.Error{
		Code: errcode.OperationCancelledError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("operation %s cancelled: %s", id, reason),
	}
}

// ClosedError creates an error for scheduling against a coordinator
// that has been shut down.
func ClosedError() error {
	msg := "Operation coordinator is closed"

	return &gn.Error{
		Code: errcode.CoordinatorClosedError,
		Msg:  msg,
		Vars: nil,
		Err:  fmt.Errorf("coordinator closed"),
	}
}
