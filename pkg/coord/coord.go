// Package coord defines the value types of the operation coordinator:
// priorities, scheduling options, and the thunk signature wrapped by
// scheduled operations.
package coord

import (
	"context"
	"time"
)

// Priority orders queued operations. Higher priorities dequeue first;
// within a priority band operations dequeue oldest-first.
type Priority int

const (
	Low Priority = iota
	Medium
	High
)

// String returns a human-readable priority name.
func (p Priority) String() string {
	switch p {
	case High:
		return "high"
	case Medium:
		return "medium"
	case Low:
		return "low"
	default:
		return "unknown"
	}
}

// Thunk is the deferred operation wrapped by a scheduled entry.
// The context is cancelled when the coordinator shuts down; timeout
// is a race at the coordinator level, not a kill signal, so a thunk
// that ignores the context may outlive its caller's result.
type Thunk func(ctx context.Context) (any, error)

// Options tunes a coordinator instance. Zero values fall back to the
// defaults below.
type Options struct {
	// MaxConcurrent bounds the number of concurrently active
	// operations. Lower it on resource-constrained targets.
	MaxConcurrent int

	// QueueLimit bounds queued (not yet active) operations; scheduling
	// past it is rejected immediately.
	QueueLimit int

	// Timeout is the per-operation settle deadline.
	Timeout time.Duration

	// DebounceWindow is how long a debounced operation waits for a
	// superseding call with the same id before enqueueing.
	DebounceWindow time.Duration
}

const (
	DefaultMaxConcurrent  = 4
	DefaultQueueLimit     = 64
	DefaultTimeout        = 10 * time.Second
	DefaultDebounceWindow = 250 * time.Millisecond
)

// Normalize fills zero fields with defaults.
func (o Options) Normalize() Options {
	if o.MaxConcurrent <= 0 {
		o.MaxConcurrent = DefaultMaxConcurrent
	}
	if o.QueueLimit <= 0 {
		o.QueueLimit = DefaultQueueLimit
	}
	if o.Timeout <= 0 {
		o.Timeout = DefaultTimeout
	}
	if o.DebounceWindow <= 0 {
		o.DebounceWindow = DefaultDebounceWindow
	}
	return o
}
