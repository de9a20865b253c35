// Package iocoord implements the operation coordinator: a generic
// priority/concurrency/timeout/cancellation scheduler wrapping
// asynchronous operations against the record store so interactive
// callers never stampede the storage engine.
package iocoord

import (
	"container/heap"
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/birddex/birddex/pkg/birddex"
	"github.com/birddex/birddex/pkg/coord"
	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"
)

// coordinator implements birddex.Coordinator. Per scheduled
// operation the state machine is:
//
//	Queued → (Active → {Resolved | Rejected | TimedOut}) | Cancelled
type coordinator struct {
	opts coord.Options

	// sem bounds concurrently active operations; the record store is
	// assumed to sustain at most this many concurrent calls.
	sem *semaphore.Weighted

	// baseCtx parents every active operation; Close cancels it.
	baseCtx context.Context
	cancel  context.CancelFunc

	mu       sync.Mutex
	queue    opQueue
	queued   map[string]*scheduledOp
	debounce map[string]*debounceEntry
	seq      uint64
	closed   bool
}

// debounceEntry holds an operation waiting out its debounce window.
type debounceEntry struct {
	op    *scheduledOp
	timer *time.Timer
}

// New creates an operation coordinator. The composition root owns
// its lifetime and must Close it on teardown.
func New(opts coord.Options) birddex.Coordinator {
	opts = opts.Normalize()
	ctx, cancel := context.WithCancel(context.Background())
	return &coordinator{
		opts:     opts,
		sem:      semaphore.NewWeighted(int64(opts.MaxConcurrent)),
		baseCtx:  ctx,
		cancel:   cancel,
		queue:    make(opQueue, 0, opts.QueueLimit),
		queued:   make(map[string]*scheduledOp),
		debounce: make(map[string]*debounceEntry),
	}
}

// Schedule enqueues a thunk and blocks the caller until it settles,
// times out, or is cancelled. High priority bypasses debounce
// entirely and enqueues immediately.
func (c *coordinator) Schedule(
	ctx context.Context,
	id string,
	priority coord.Priority,
	debounce bool,
	thunk coord.Thunk,
) (any, error) {
	if id == "" {
		id = uuid.NewString()
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil, ClosedError()
	}
	c.seq++
	op := newScheduledOp(id, priority, thunk, c.seq)

	if debounce && priority < coord.High {
		c.holdForDebounce(op)
		c.mu.Unlock()
	} else {
		if err := c.enqueueLocked(op); err != nil {
			c.mu.Unlock()
			return nil, err
		}
		c.mu.Unlock()
		c.dispatch()
	}

	return c.await(ctx, op)
}

// holdForDebounce parks the operation for the debounce window. A
// newer call with the same id arriving within the window supersedes
// it; only the latest survives. Caller holds c.mu.
func (c *coordinator) holdForDebounce(op *scheduledOp) {
	if prev, ok := c.debounce[op.id]; ok {
		prev.timer.Stop()
		prev.op.deliver(nil, CancelledError(op.id, "superseded by a newer call"))
	}

	entry := &debounceEntry{op: op}
	entry.timer = time.AfterFunc(c.opts.DebounceWindow, func() {
		c.mu.Lock()
		if c.debounce[op.id] != entry {
			// Superseded or cancelled while the timer fired.
			c.mu.Unlock()
			return
		}
		delete(c.debounce, op.id)
		err := c.enqueueLocked(op)
		c.mu.Unlock()
		if err != nil {
			op.deliver(nil, err)
			return
		}
		c.dispatch()
	})
	c.debounce[op.id] = entry
}

// enqueueLocked adds the operation to the priority queue. An existing
// queued entry with the same id is replaced, latest wins; scheduling
// past the queue limit is rejected without touching the queue.
// Caller holds c.mu.
func (c *coordinator) enqueueLocked(op *scheduledOp) error {
	if c.closed {
		return ClosedError()
	}

	if prev, ok := c.queued[op.id]; ok {
		heap.Remove(&c.queue, prev.index)
		delete(c.queued, op.id)
		prev.deliver(nil, CancelledError(op.id, "replaced by a newer call"))
	} else if len(c.queue) >= c.opts.QueueLimit {
		return QueueFullError(op.id, c.opts.QueueLimit)
	}

	heap.Push(&c.queue, op)
	c.queued[op.id] = op
	return nil
}

// dispatch activates queued operations while capacity remains.
func (c *coordinator) dispatch() {
	for {
		if !c.sem.TryAcquire(1) {
			return
		}

		c.mu.Lock()
		if len(c.queue) == 0 {
			c.mu.Unlock()
			c.sem.Release(1)
			return
		}
		op := heap.Pop(&c.queue).(*scheduledOp)
		delete(c.queued, op.id)
		c.mu.Unlock()

		go c.execute(op)
	}
}

// execute races the thunk against the coordinator timeout. Whichever
// settles first wins; timeout rejects the caller even if the thunk
// later completes. The race does not kill the thunk -- cancellation
// here is cooperative.
func (c *coordinator) execute(op *scheduledOp) {
	defer func() {
		c.sem.Release(1)
		c.dispatch()
	}()

	done := make(chan opResult, 1)
	go func() {
		value, err := op.thunk(c.baseCtx)
		done <- opResult{value: value, err: err}
	}()

	timer := time.NewTimer(c.opts.Timeout)
	defer timer.Stop()

	select {
	case res := <-done:
		op.deliver(res.value, res.err)
	case <-timer.C:
		slog.Warn("Scheduled operation timed out",
			"id", op.id,
			"priority", op.priority.String(),
			"timeout", c.opts.Timeout)
		op.deliver(nil, TimeoutError(op.id, c.opts.Timeout))
	}
}

// await blocks until the operation settles or the caller's context
// ends. Abandoning the wait does not abort an operation already
// handed to the store.
func (c *coordinator) await(
	ctx context.Context,
	op *scheduledOp,
) (any, error) {
	select {
	case res := <-op.result:
		return res.value, res.err
	case <-ctx.Done():
		return nil, CancelledError(op.id, ctx.Err().Error())
	}
}

// CancelPending rejects and drains every queued (not yet active)
// entry whose priority does not match exclude, clearing pending
// debounce timers. Active operations are untouched.
func (c *coordinator) CancelPending(exclude *coord.Priority) {
	c.mu.Lock()

	var victims []*scheduledOp
	keep := make(opQueue, 0, len(c.queue))
	for _, op := range c.queue {
		if exclude != nil && op.priority == *exclude {
			keep = append(keep, op)
			continue
		}
		delete(c.queued, op.id)
		victims = append(victims, op)
	}
	c.queue = keep
	// Survivors moved to new slots; their heap indices must follow
	// before heap.Init, which only touches elements it swaps.
	for i, op := range c.queue {
		op.index = i
	}
	heap.Init(&c.queue)

	for id, entry := range c.debounce {
		if exclude != nil && entry.op.priority == *exclude {
			continue
		}
		entry.timer.Stop()
		delete(c.debounce, id)
		victims = append(victims, entry.op)
	}
	c.mu.Unlock()

	for _, op := range victims {
		op.deliver(nil, CancelledError(op.id, "pending operations cancelled"))
	}
}

// Close drains the queue, cancels active operation contexts, and
// rejects all further scheduling.
func (c *coordinator) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true

	victims := make([]*scheduledOp, 0, len(c.queue)+len(c.debounce))
	for _, op := range c.queue {
		delete(c.queued, op.id)
		victims = append(victims, op)
	}
	c.queue = c.queue[:0]
	for id, entry := range c.debounce {
		entry.timer.Stop()
		delete(c.debounce, id)
		victims = append(victims, entry.op)
	}
	c.mu.Unlock()

	c.cancel()
	for _, op := range victims {
		op.deliver(nil, ClosedError())
	}
}
