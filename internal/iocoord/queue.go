package iocoord

import (
	"container/heap"
	"time"

	"github.com/birddex/birddex/pkg/coord"
)

// opResult settles a scheduled operation.
type opResult struct {
	value any
	err   error
}

// scheduledOp is one transient queue entry. It is created on
// schedule and destroyed on completion, rejection, timeout, or
// cancellation.
type scheduledOp struct {
	id       string
	priority coord.Priority
	thunk    coord.Thunk
	enqueued time.Time
	seq      uint64

	// result is buffered so delivery never blocks the executor even
	// when the caller has abandoned the wait.
	result chan opResult

	index int // heap index, maintained by opQueue
}

func newScheduledOp(
	id string,
	priority coord.Priority,
	thunk coord.Thunk,
	seq uint64,
) *scheduledOp {
	return &scheduledOp{
		id:       id,
		priority: priority,
		thunk:    thunk,
		enqueued: time.Now(),
		seq:      seq,
		result:   make(chan opResult, 1),
		index:    -1,
	}
}

// deliver settles the operation. The buffered channel means exactly
// the first delivery wins; later deliveries are dropped.
func (op *scheduledOp) deliver(value any, err error) {
	select {
	case op.result <- opResult{value: value, err: err}:
	default:
	}
}

// opQueue is a heap ordered by priority descending, then by enqueue
// order ascending, so no operation starves within its priority band.
type opQueue []*scheduledOp

var _ heap.Interface = (*opQueue)(nil)

func (q opQueue) Len() int { return len(q) }

func (q opQueue) Less(i, j int) bool {
	if q[i].priority != q[j].priority {
		return q[i].priority > q[j].priority
	}
	return q[i].seq < q[j].seq
}

func (q opQueue) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
	q[i].index = i
	q[j].index = j
}

func (q *opQueue) Push(x any) {
	op := x.(*scheduledOp)
	op.index = len(*q)
	*q = append(*q, op)
}

func (q *opQueue) Pop() any {
	old := *q
	n := len(old)
	op := old[n-1]
	old[n-1] = nil
	op.index = -1
	*q = old[:n-1]
	return op
}
