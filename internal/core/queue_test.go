package core

import (
	"context"
	"sync"
	"testing"
	"time"
)

// TestQueuePushPop tests FIFO ordering.
func TestQueuePushPop(t *testing.T) {
	t.Parallel()

	q := NewQueue[int]()
	q.Push(1)
	q.Push(2)
	q.Push(3)

	if q.Len() != 3 {
		t.Errorf("Len = %d, want 3", q.Len())
	}

	ctx := context.Background()
	for want := 1; want <= 3; want++ {
		got, err := q.Pop(ctx)
		if err != nil {
			t.Fatalf("Pop failed: %v", err)
		}
		if got != want {
			t.Errorf("Pop = %d, want %d", got, want)
		}
	}
}

// TestQueuePopBlocks tests that Pop waits for a push.
func TestQueuePopBlocks(t *testing.T) {
	t.Parallel()

	q := NewQueue[string]()

	go func() {
		time.Sleep(20 * time.Millisecond)
		q.Push("late")
	}()

	got, err := q.Pop(context.Background())
	if err != nil {
		t.Fatalf("Pop failed: %v", err)
	}
	if got != "late" {
		t.Errorf("Pop = %q, want %q", got, "late")
	}
}

// TestQueuePopCancellation tests that a stop request wakes a blocked Pop.
func TestQueuePopCancellation(t *testing.T) {
	t.Parallel()

	q := NewQueue[string]()
	ctx, cancel := context.WithCancel(context.Background())

	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	if _, err := q.Pop(ctx); err != context.Canceled {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

// TestQueueConcurrent tests safe concurrent push/pop.
func TestQueueConcurrent(t *testing.T) {
	t.Parallel()

	const producers = 4
	const perProducer = 50

	q := NewQueue[int]()
	var wg sync.WaitGroup

	for range producers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range perProducer {
				q.Push(i)
			}
		}()
	}

	received := make(chan int, producers*perProducer)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var consumers sync.WaitGroup
	for range 2 {
		consumers.Add(1)
		go func() {
			defer consumers.Done()
			for {
				v, err := q.Pop(ctx)
				if err != nil {
					return
				}
				received <- v
				if len(received) == cap(received) {
					cancel()
					return
				}
			}
		}()
	}

	wg.Wait()
	consumers.Wait()

	if len(received) != producers*perProducer {
		t.Errorf("received %d items, want %d", len(received), producers*perProducer)
	}
}
