package util

import (
	"container/heap"
	"context"
	"errors"
	"sync"
	"time"
)

var (
	ErrPriorityQueueClosed = errors.New("priority queue closed")
	ErrPriorityQueueEmpty  = errors.New("priority queue empty")
)

// PriorityItem pairs a value with its scheduling priority. Higher numbers
// dequeue first.
type PriorityItem[T any] struct {
	Value    T
	Priority int
	Index    int
}

// PriorityQueue is a mutex-guarded binary heap. Safe for concurrent use.
type PriorityQueue[T any] struct {
	items  []*PriorityItem[T]
	mu     sync.Mutex
	cond   *sync.Cond
	closed bool
}

func NewPriorityQueue[T any]() *PriorityQueue[T] {
	pq := &PriorityQueue[T]{}
	pq.cond = sync.NewCond(&pq.mu)
	heap.Init(pq)
	return pq
}

// Len implements heap.Interface.
func (pq *PriorityQueue[T]) Len() int { return len(pq.items) }

// Less implements heap.Interface; higher priority first.
func (pq *PriorityQueue[T]) Less(i, j int) bool {
	return pq.items[i].Priority > pq.items[j].Priority
}

// Swap implements heap.Interface.
func (pq *PriorityQueue[T]) Swap(i, j int) {
	pq.items[i], pq.items[j] = pq.items[j], pq.items[i]
	pq.items[i].Index = i
	pq.items[j].Index = j
}

// Push implements heap.Interface.
func (pq *PriorityQueue[T]) Push(x interface{}) {
	item := x.(*PriorityItem[T])
	item.Index = len(pq.items)
	pq.items = append(pq.items, item)
}

// Pop implements heap.Interface.
func (pq *PriorityQueue[T]) Pop() interface{} {
	old := pq.items
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	item.Index = -1
	pq.items = old[:n-1]
	return item
}

// PushItem enqueues a value.
func (pq *PriorityQueue[T]) PushItem(value T, priority int) error {
	pq.mu.Lock()
	defer pq.mu.Unlock()

	if pq.closed {
		return ErrPriorityQueueClosed
	}
	heap.Push(pq, &PriorityItem[T]{Value: value, Priority: priority})
	pq.cond.Signal()
	return nil
}

// PopItem dequeues the highest-priority value, waiting up to timeout for one
// to arrive. A zero timeout means non-blocking.
func (pq *PriorityQueue[T]) PopItem(ctx context.Context, timeout time.Duration) (T, error) {
	var zero T

	deadline := time.Now().Add(timeout)

	pq.mu.Lock()
	defer pq.mu.Unlock()

	for len(pq.items) == 0 {
		if pq.closed {
			return zero, ErrPriorityQueueClosed
		}
		if timeout <= 0 || !time.Now().Before(deadline) {
			return zero, ErrPriorityQueueEmpty
		}
		if err := ctx.Err(); err != nil {
			return zero, err
		}

		// cond has no deadline support, so waiters are woken periodically
		// to re-check the clock and the context.
		waker := time.AfterFunc(50*time.Millisecond, pq.cond.Broadcast)
		pq.cond.Wait()
		waker.Stop()
	}

	item := heap.Pop(pq).(*PriorityItem[T])
	return item.Value, nil
}

// Close rejects further pushes and releases all blocked waiters.
func (pq *PriorityQueue[T]) Close() {
	pq.mu.Lock()
	pq.closed = true
	pq.mu.Unlock()
	pq.cond.Broadcast()
}

func (pq *PriorityQueue[T]) IsEmpty() bool {
	pq.mu.Lock()
	defer pq.mu.Unlock()
	return len(pq.items) == 0
}
