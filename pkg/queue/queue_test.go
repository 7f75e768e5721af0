package queue

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shermanyin/erasure-code/pkg/ecerr"
)

func TestPutGetSingleProducerConsumer(t *testing.T) {
	q, err := New[int](4)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	ctx := context.Background()

	if err := q.Put(ctx, 42); err != nil {
		t.Fatalf("Put: %v", err)
	}
	got, err := q.Get(ctx)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != 42 {
		t.Fatalf("got %d, want 42", got)
	}
}

func TestPutBlocksWhenFull(t *testing.T) {
	q, err := New[int](2)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	ctx := context.Background()

	if err := q.Put(ctx, 1); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := q.Put(ctx, 2); err != nil {
		t.Fatalf("Put: %v", err)
	}

	done := make(chan struct{})
	go func() {
		_ = q.Put(ctx, 3)
		close(done)
	}()

	select {
	case <-done:
		t.Fatalf("third put should have blocked while queue is full")
	case <-time.After(100 * time.Millisecond):
	}

	if _, err := q.Get(ctx); err != nil {
		t.Fatalf("Get: %v", err)
	}

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("third put did not unblock after a get")
	}
}

func TestTimedGetOnEmptyQueueTimesOut(t *testing.T) {
	q, err := New[int](2)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	start := time.Now()
	_, err = q.TimedGet(start.Add(200 * time.Millisecond))
	elapsed := time.Since(start)

	if !errors.Is(err, ecerr.Timeout) {
		t.Fatalf("expected ecerr.Timeout, got %v", err)
	}
	if elapsed < 150*time.Millisecond {
		t.Fatalf("timed out too early: %v", elapsed)
	}
}

func TestTimedGetLeavesQueueUsable(t *testing.T) {
	q, err := New[int](2)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if _, err := q.TimedGet(time.Now().Add(50 * time.Millisecond)); !errors.Is(err, ecerr.Timeout) {
		t.Fatalf("expected timeout, got %v", err)
	}

	ctx := context.Background()
	if err := q.Put(ctx, 7); err != nil {
		t.Fatalf("Put after timeout: %v", err)
	}
	got, err := q.Get(ctx)
	if err != nil {
		t.Fatalf("Get after timeout: %v", err)
	}
	if got != 7 {
		t.Fatalf("got %d, want 7", got)
	}
}

func TestMultipleProducersConsumersDeliverMultiset(t *testing.T) {
	q, err := New[int](8)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	ctx := context.Background()

	const producers = 4
	const perProducer = 50
	total := producers * perProducer

	var wg sync.WaitGroup
	for p := 0; p < producers; p++ {
		wg.Add(1)
		go func(base int) {
			defer wg.Done()
			for i := 0; i < perProducer; i++ {
				if err := q.Put(ctx, base*perProducer+i); err != nil {
					t.Errorf("Put: %v", err)
					return
				}
			}
		}(p)
	}

	received := make(chan int, total)
	var consumerWG sync.WaitGroup
	for c := 0; c < producers; c++ {
		consumerWG.Add(1)
		go func() {
			defer consumerWG.Done()
			for i := 0; i < perProducer; i++ {
				v, err := q.Get(ctx)
				if err != nil {
					t.Errorf("Get: %v", err)
					return
				}
				received <- v
			}
		}()
	}

	wg.Wait()
	consumerWG.Wait()
	close(received)

	seen := make(map[int]bool)
	count := 0
	for v := range received {
		seen[v] = true
		count++
	}
	if count != total {
		t.Fatalf("received %d values, want %d", count, total)
	}
	for i := 0; i < total; i++ {
		if !seen[i] {
			t.Fatalf("value %d was never received", i)
		}
	}
}
