// Package queue provides the mutation buffer between the interaction
// machine and the persistence worker. Pushes happen on the pointer
// path, drains happen on the flush loop, so every method locks.
package queue

import "sync"

// Queue is an ordered FIFO buffer safe for concurrent use.
type Queue[T any] struct {
	mu    sync.Mutex
	items []T
}

// New returns an empty queue.
func New[T any]() *Queue[T] {
	return &Queue[T]{}
}

// Push appends items in order.
func (q *Queue[T]) Push(items ...T) {
	q.mu.Lock()
	q.items = append(q.items, items...)
	q.mu.Unlock()
}

// Pop removes and returns the oldest item, or the zero value when the
// queue is empty.
func (q *Queue[T]) Pop() (item T) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.items) == 0 {
		return item
	}
	item = q.items[0]
	q.items = q.items[1:]
	return item
}

// GetAndEmpty hands the caller the whole backlog in one slice and
// resets the queue. The flush loop drains with this so coalescing sees
// every pending write at once.
func (q *Queue[T]) GetAndEmpty() []T {
	q.mu.Lock()
	defer q.mu.Unlock()
	drained := q.items
	q.items = nil
	return drained
}

// Len reports the number of buffered items.
func (q *Queue[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Empty reports whether nothing is buffered.
func (q *Queue[T]) Empty() bool {
	return q.Len() == 0
}

// Clear discards all buffered items.
func (q *Queue[T]) Clear() {
	q.mu.Lock()
	q.items = nil
	q.mu.Unlock()
}
