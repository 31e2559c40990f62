package work

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("condition not reached within timeout")
}

func TestQueue_ProcessesItems(t *testing.T) {
	var (
		mu   sync.Mutex
		seen []string
	)
	q := NewQueue(2, time.Millisecond, func(item string) error {
		mu.Lock()
		seen = append(seen, item)
		mu.Unlock()
		return nil
	})
	defer q.Stop()

	for _, item := range []string{"a", "b", "c"} {
		if err := q.Submit(item, 0); err != nil {
			t.Fatalf("submit failed: %v", err)
		}
	}

	waitFor(t, 2*time.Second, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(seen) == 3
	})
}

func TestQueue_RetriesWithFixedDelay(t *testing.T) {
	var attempts atomic.Int32
	q := NewQueue(1, 10*time.Millisecond, func(item int) error {
		if attempts.Add(1) < 3 {
			return errors.New("transient")
		}
		return nil
	})
	defer q.Stop()

	if err := q.SubmitWithRetries(1, 0, 5); err != nil {
		t.Fatalf("submit failed: %v", err)
	}

	waitFor(t, 2*time.Second, func() bool { return attempts.Load() == 3 })

	// The item succeeded on attempt three; the remaining budget is unused.
	time.Sleep(50 * time.Millisecond)
	if got := attempts.Load(); got != 3 {
		t.Errorf("attempts = %d, expected exactly 3", got)
	}
}

func TestQueue_RetryBudgetIsBounded(t *testing.T) {
	var attempts atomic.Int32
	q := NewQueue(1, time.Millisecond, func(item int) error {
		attempts.Add(1)
		return errors.New("always fails")
	})
	defer q.Stop()

	if err := q.SubmitWithRetries(1, 0, 2); err != nil {
		t.Fatalf("submit failed: %v", err)
	}

	// One initial attempt plus two retries, then the item is discarded.
	waitFor(t, 2*time.Second, func() bool { return attempts.Load() == 3 })
	time.Sleep(50 * time.Millisecond)
	if got := attempts.Load(); got != 3 {
		t.Errorf("attempts = %d, expected exactly 3", got)
	}
}

func TestQueue_SubmitAfterStop(t *testing.T) {
	q := NewQueue(1, time.Millisecond, func(item int) error { return nil })
	q.Stop()

	if err := q.Submit(1, 0); err != ErrWorkQueueClosed {
		t.Errorf("err = %v, expected ErrWorkQueueClosed", err)
	}
	if !q.IsStopped() {
		t.Error("queue should report stopped")
	}
}
