// Package ingest defines the observable state of the ingestion
// pipeline. The state is transient and in-memory only; it is owned
// and mutated exclusively by the pipeline and observed through
// subscriptions.
package ingest

// Status is the lifecycle phase of the ingestion pipeline.
type Status int

const (
	Uninitialized Status = iota
	Initializing
	Ready
	StatusError
)

// String returns a human-readable status name.
func (s Status) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Initializing:
		return "initializing"
	case Ready:
		return "ready"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}

// State is a snapshot of the pipeline. Subscribers receive a full
// snapshot on every transition; the first delivery is synchronous
// with the current state.
type State struct {
	// Status is the current lifecycle phase.
	Status Status

	// Progress runs 0-100 and is monotonically non-decreasing within
	// a single ingestion attempt.
	Progress int

	// TotalRecords is the number of valid rows in the dataset.
	TotalRecords int

	// LoadedRecords is the number of rows committed so far.
	LoadedRecords int

	// CurrentOperation is a short description of the running phase.
	CurrentOperation string

	// Error holds a human-readable message when Status is StatusError.
	Error string
}

// Subscriber receives state snapshots. Callbacks run synchronously on
// the pipeline's transition path and must return quickly.
type Subscriber func(State)

// Unsubscribe removes a subscription; safe to call more than once.
type Unsubscribe func()
