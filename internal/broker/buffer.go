package broker

import (
	"context"
	"sync"
)

// queue is an unbounded FIFO ring that doubles its capacity once it is 70%
// full. Receivers block until an item arrives, the queue closes, or their
// context ends.
type queue[T any] struct {
	mu     sync.Mutex
	cond   *sync.Cond
	ring   []T
	head   int
	count  int
	closed bool

	enqueued int64
	dequeued int64
	resizes  int
}

// QueueStats describes a queue.
type QueueStats struct {
	Depth    int   `json:"depth"`
	Capacity int   `json:"capacity"`
	Enqueued int64 `json:"enqueued"`
	Dequeued int64 `json:"dequeued"`
	Resizes  int   `json:"resizes"`
}

func newQueue[T any](capacity int) *queue[T] {
	if capacity < 2 {
		capacity = 2
	}
	q := &queue[T]{ring: make([]T, capacity)}
	q.cond = sync.NewCond(&q.mu)
	return q
}

// push appends item. It returns false once the queue is closed.
func (q *queue[T]) push(item T) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return false
	}
	if (q.count+1)*10 >= len(q.ring)*7 {
		q.grow()
	}

	q.ring[(q.head+q.count)%len(q.ring)] = item
	q.count++
	q.enqueued++
	q.cond.Signal()
	return true
}

// pop removes the oldest item, blocking while the queue is empty.
func (q *queue[T]) pop(ctx context.Context) (T, error) {
	stop := context.AfterFunc(ctx, func() {
		q.mu.Lock()
		q.cond.Broadcast()
		q.mu.Unlock()
	})
	defer stop()

	q.mu.Lock()
	defer q.mu.Unlock()

	for q.count == 0 && !q.closed && ctx.Err() == nil {
		q.cond.Wait()
	}

	var zero T
	if q.count == 0 {
		if q.closed {
			return zero, ErrClosed
		}
		return zero, ctx.Err()
	}

	item := q.ring[q.head]
	q.ring[q.head] = zero
	q.head = (q.head + 1) % len(q.ring)
	q.count--
	q.dequeued++
	return item, nil
}

// close wakes every receiver. Items already queued can still be popped.
func (q *queue[T]) close() {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.closed = true
	q.cond.Broadcast()
}

func (q *queue[T]) stats() QueueStats {
	q.mu.Lock()
	defer q.mu.Unlock()

	return QueueStats{
		Depth:    q.count,
		Capacity: len(q.ring),
		Enqueued: q.enqueued,
		Dequeued: q.dequeued,
		Resizes:  q.resizes,
	}
}

// grow doubles the ring. Must be called with the lock held.
func (q *queue[T]) grow() {
	next := make([]T, len(q.ring)*2)
	for i := 0; i < q.count; i++ {
		next[i] = q.ring[(q.head+i)%len(q.ring)]
	}
	q.ring = next
	q.head = 0
	q.resizes++
}
