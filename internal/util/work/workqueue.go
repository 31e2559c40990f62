package work

import (
	"context"
	"errors"
	"sync"
	"time"

	"lookbook-server-go/internal/util"
)

var (
	ErrWorkQueueClosed = errors.New("work queue closed")
)

// Handler processes one work item. A non-nil error triggers a retry when the
// item still has budget.
type Handler[T any] func(item T) error

// Item carries a unit of work plus its retry state.
type Item[T any] struct {
	Data       T
	Priority   int
	Retries    int
	MaxRetries int
	LastError  error
	CreatedAt  time.Time
}

// Queue is a priority work queue backed by a fixed set of worker goroutines.
// Failed items are retried with a fixed delay up to their retry budget.
type Queue[T any] struct {
	queue      *util.PriorityQueue[*Item[T]]
	handler    Handler[T]
	retryDelay time.Duration
	stopChan   chan struct{}
	wg         sync.WaitGroup
	mu         sync.Mutex
	stopped    bool
}

// NewQueue starts numWorkers workers draining the queue through handler.
func NewQueue[T any](numWorkers int, retryDelay time.Duration, handler Handler[T]) *Queue[T] {
	if numWorkers <= 0 {
		numWorkers = 1
	}

	q := &Queue[T]{
		queue:      util.NewPriorityQueue[*Item[T]](),
		handler:    handler,
		retryDelay: retryDelay,
		stopChan:   make(chan struct{}),
	}

	for i := 0; i < numWorkers; i++ {
		q.wg.Add(1)
		go q.worker()
	}
	return q
}

// Submit enqueues an item with no retry budget.
func (q *Queue[T]) Submit(data T, priority int) error {
	return q.SubmitWithRetries(data, priority, 0)
}

// SubmitWithRetries enqueues an item that may be re-run up to maxRetries
// times after a failure.
func (q *Queue[T]) SubmitWithRetries(data T, priority int, maxRetries int) error {
	q.mu.Lock()
	stopped := q.stopped
	q.mu.Unlock()
	if stopped {
		return ErrWorkQueueClosed
	}

	return q.queue.PushItem(&Item[T]{
		Data:       data,
		Priority:   priority,
		MaxRetries: maxRetries,
		CreatedAt:  time.Now(),
	}, priority)
}

// Stop shuts the queue down and waits for in-flight items to finish.
func (q *Queue[T]) Stop() {
	q.mu.Lock()
	if q.stopped {
		q.mu.Unlock()
		return
	}
	q.stopped = true
	q.mu.Unlock()

	close(q.stopChan)
	q.queue.Close()
	q.wg.Wait()
}

func (q *Queue[T]) IsStopped() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.stopped
}

func (q *Queue[T]) worker() {
	defer q.wg.Done()

	ctx := context.Background()
	for {
		select {
		case <-q.stopChan:
			return
		default:
		}

		item, err := q.queue.PopItem(ctx, time.Second)
		if err != nil {
			if errors.Is(err, util.ErrPriorityQueueClosed) {
				return
			}
			continue
		}
		q.process(item)
	}
}

// process runs one item, retrying with a fixed delay until its budget is
// spent. Indefinite retry is never allowed.
func (q *Queue[T]) process(item *Item[T]) {
	for {
		err := q.handler(item.Data)
		if err == nil {
			return
		}

		item.LastError = err
		item.Retries++
		if item.Retries > item.MaxRetries {
			return
		}

		delay := q.retryDelay
		if delay <= 0 {
			delay = time.Second
		}

		select {
		case <-time.After(delay):
		case <-q.stopChan:
			return
		}
	}
}
