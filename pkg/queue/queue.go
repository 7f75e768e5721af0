// Package queue implements the fixed-capacity multi-producer/multi-consumer
// FIFO queue of spec.md section 4.4: blocking Put, blocking Get and a
// timed Get with an absolute deadline.
//
// The original C design holds a ring buffer of entry_size*depth bytes
// guarded by a free-slot and a filled-slot counting semaphore, plus a
// mutex serializing buffer mutation. This port keeps that exact shape but
// generalizes "fixed-size opaque entry" from a raw byte blob to a Go type
// parameter: Queue[T] stores T values in a ring buffer of length depth,
// and the two counting semaphores are golang.org/x/sync/semaphore.Weighted
// instances of weight depth, starting with depth and 0 units available
// respectively, matching the teacher
// corpus's general reach for x/sync over hand-rolled semaphores in
// concurrent services.
package queue

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sync/semaphore"

	"github.com/shermanyin/erasure-code/pkg/ecerr"
)

// Queue is a bounded FIFO of depth entries of type T.
type Queue[T any] struct {
	depth int

	buf  []T
	head int
	tail int
	mu   sync.Mutex

	free   *semaphore.Weighted // counts empty slots
	filled *semaphore.Weighted // counts occupied slots
}

// New creates a queue of the given depth. Each T put into the queue must
// be a value the caller no longer mutates afterward (the queue copies the
// Go value, which for a slice or pointer field means the caller owns a
// fresh value per Put — the combination enumerator in pkg/harness does
// exactly this).
func New[T any](depth int) (*Queue[T], error) {
	if depth <= 0 {
		return nil, errors.Wrapf(ecerr.InvalidParameter, "queue depth %d must be positive", depth)
	}

	filled := semaphore.NewWeighted(int64(depth))
	// NewWeighted starts with its full weight available for Acquire; the
	// filled-slot semaphore must instead start at zero, so drain it
	// immediately. This can never block: nothing else holds a reference
	// to filled yet.
	_ = filled.Acquire(context.Background(), int64(depth))

	return &Queue[T]{
		depth:  depth,
		buf:    make([]T, depth),
		free:   semaphore.NewWeighted(int64(depth)),
		filled: filled,
	}, nil
}

// Put blocks until a slot is free, then enqueues entry.
func (q *Queue[T]) Put(ctx context.Context, entry T) error {
	if err := q.free.Acquire(ctx, 1); err != nil {
		return err
	}
	q.mu.Lock()
	q.buf[q.tail] = entry
	q.tail = (q.tail + 1) % q.depth
	q.mu.Unlock()
	q.filled.Release(1)
	return nil
}

// Get blocks until an entry is available, then dequeues it.
func (q *Queue[T]) Get(ctx context.Context) (T, error) {
	var zero T
	if err := q.filled.Acquire(ctx, 1); err != nil {
		return zero, err
	}
	q.mu.Lock()
	entry := q.buf[q.head]
	q.buf[q.head] = zero
	q.head = (q.head + 1) % q.depth
	q.mu.Unlock()
	q.free.Release(1)
	return entry, nil
}

// TimedGet behaves like Get but fails with ecerr.Timeout if no entry
// becomes available before deadline. On timeout neither the buffer nor
// the semaphores are modified.
func (q *Queue[T]) TimedGet(deadline time.Time) (T, error) {
	ctx, cancel := context.WithDeadline(context.Background(), deadline)
	defer cancel()

	v, err := q.Get(ctx)
	if err != nil {
		var zero T
		return zero, ecerr.Timeout
	}
	return v, nil
}
