// Package birddex defines the contracts of the local species
// dictionary subsystem. Implementations live under internal/io*;
// this package stays free of I/O.
package birddex

import (
	"context"

	"github.com/birddex/birddex/pkg/coord"
	"github.com/birddex/birddex/pkg/ingest"
	"github.com/birddex/birddex/pkg/species"
)

// Pipeline orchestrates the one-time bulk ingestion of the reference
// dataset into the record store.
type Pipeline interface {
	// Initialize runs ingestion exactly once. Concurrent callers share
	// a single in-flight run and settle together. When the stored
	// dataset version already matches the current revision the call
	// returns after a metadata check without re-running the loader.
	Initialize(ctx context.Context) error

	// Retry resets state to Uninitialized and re-invokes Initialize.
	// Intended for use after a failed attempt; a call racing an
	// in-flight attempt joins it without resetting.
	Retry(ctx context.Context) error

	// Subscribe registers a state observer. The callback is invoked
	// synchronously with the current state before Subscribe returns,
	// and thereafter on every transition.
	Subscribe(fn ingest.Subscriber) ingest.Unsubscribe

	// State returns a snapshot of the current ingestion state.
	State() ingest.State
}

// SchemaManager creates and validates the dictionary schema.
type SchemaManager interface {
	// EnsureSchema creates the metadata table if absent and
	// unconditionally drops and recreates the species table.
	EnsureSchema(ctx context.Context) error

	// BuildIndexes creates the case-insensitive secondary indexes and
	// refreshes the storage engine's statistics. A failing statistics
	// refresh is logged, not fatal.
	BuildIndexes(ctx context.Context) error
}

// Loader commits normalized rows to the record store in bounded
// transactional batches, yielding to the scheduler between batches.
type Loader interface {
	// LoadBatches commits rows in batches; each batch is atomic.
	// onCommitted, when non-nil, receives the running total of
	// committed rows after each batch. Progress attribution is the
	// caller's responsibility.
	LoadBatches(
		ctx context.Context,
		rows []species.Record,
		onCommitted func(committed int),
	) error
}

// ListQuery parameterizes a paged listing.
type ListQuery struct {
	// Filter is an optional case-insensitive substring matched against
	// the primary and scientific names. Empty matches everything.
	Filter string

	// SortKey must be one of species.SortKeys; anything else is
	// rejected with an InvalidSortKeyError.
	SortKey string

	// Ascending selects the sort direction for SortKey. Records
	// present in the user log always order first regardless.
	Ascending bool

	// PageSize and PageNumber select the page; PageNumber is 1-based.
	PageSize   int
	PageNumber int

	// Category is an optional category equality filter;
	// species.CategoryAll or empty disables it.
	Category string
}

// Querier provides parameterized reads against the record store.
// Failures propagate as typed errors; degrading to empty results is
// the caller's decision, not the query layer's.
type Querier interface {
	// PagedList returns one page of records, logged records first,
	// then ordered by the requested key and direction.
	PagedList(ctx context.Context, q ListQuery) ([]species.Record, error)

	// RowCount counts records matching the same predicate as PagedList.
	RowCount(ctx context.Context, filter, category string) (int, error)

	// SearchByName matches a term case-insensitively across the
	// primary, scientific, and every localized name column, logged
	// records first, capped at limit.
	SearchByName(
		ctx context.Context,
		term string,
		limit int,
		category string,
	) ([]species.Record, error)

	// GetByKey fetches a single record by species code. Absence is not
	// an error: the record is nil and err is nil.
	GetByKey(ctx context.Context, speciesCode string) (*species.Record, error)

	// AvailableCategories returns distinct non-empty categories with
	// record counts, descending by count.
	AvailableCategories(ctx context.Context) ([]species.CategoryCount, error)
}

// Coordinator arbitrates priority, concurrency, timeout, and
// cancellation for operations against the record store.
type Coordinator interface {
	// Schedule enqueues a thunk and blocks until it settles, times
	// out, or is cancelled. An empty id gets a generated one.
	// Enqueueing replaces any queued entry sharing the same id.
	// When debounce is true and the priority is below High, the call
	// waits out the debounce window and is superseded by a newer call
	// with the same id arriving within it.
	Schedule(
		ctx context.Context,
		id string,
		priority coord.Priority,
		debounce bool,
		thunk coord.Thunk,
	) (any, error)

	// CancelPending rejects every queued (not yet active) entry whose
	// priority differs from exclude, and clears pending debounce
	// timers. A nil exclude drains everything.
	CancelPending(exclude *coord.Priority)

	// Close drains the queue, cancels active operation contexts, and
	// rejects all further scheduling.
	Close()
}
