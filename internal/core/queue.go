package core

import (
	"context"
	"sync"
)

// Queue is an unbounded concurrent FIFO with blocking, cancellable Pop.
//
// The two pipeline queues are the only structures mutated by more than
// one goroutine during steady state. Pop blocks while the queue is empty
// and wakes either when an item arrives or when the caller's context is
// cancelled, which is how a stop request reaches a stage that is waiting
// for work.
type Queue[T any] struct {
	mu    sync.Mutex
	items []T

	// wait is closed by Push to wake blocked Pop callers, then replaced
	// lazily by the next Pop that finds the queue empty.
	wait chan struct{}
}

// NewQueue creates an empty queue.
func NewQueue[T any]() *Queue[T] {
	return &Queue[T]{}
}

// Push appends an item and wakes any blocked Pop.
func (q *Queue[T]) Push(item T) {
	q.mu.Lock()
	q.items = append(q.items, item)
	if q.wait != nil {
		close(q.wait)
		q.wait = nil
	}
	q.mu.Unlock()
}

// Pop removes and returns the oldest item. It blocks while the queue is
// empty and returns ctx.Err() when the context is cancelled first.
func (q *Queue[T]) Pop(ctx context.Context) (T, error) {
	for {
		q.mu.Lock()
		if len(q.items) > 0 {
			item := q.items[0]
			q.items = q.items[1:]
			q.mu.Unlock()
			return item, nil
		}
		if q.wait == nil {
			q.wait = make(chan struct{})
		}
		wait := q.wait
		q.mu.Unlock()

		select {
		case <-ctx.Done():
			var zero T
			return zero, ctx.Err()
		case <-wait:
		}
	}
}

// Len returns the current number of queued items.
func (q *Queue[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}
