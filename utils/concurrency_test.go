package utils

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestWorkerPoolRunsAllJobs(t *testing.T) {
	pool := NewWorkerPool(4)

	var done int64
	for i := 0; i < 100; i++ {
		pool.Submit(func() {
			atomic.AddInt64(&done, 1)
		})
	}
	pool.Wait()

	if done != 100 {
		t.Errorf("expected 100 completed jobs, got %d", done)
	}
}

func TestWorkerPoolBoundsConcurrency(t *testing.T) {
	const limit = 3
	pool := NewWorkerPool(limit)

	var mu sync.Mutex
	active, peak := 0, 0

	for i := 0; i < 20; i++ {
		pool.Submit(func() {
			mu.Lock()
			active++
			if active > peak {
				peak = active
			}
			mu.Unlock()

			time.Sleep(5 * time.Millisecond)

			mu.Lock()
			active--
			mu.Unlock()
		})
	}
	pool.Wait()

	if peak > limit {
		t.Errorf("observed %d concurrent jobs, limit is %d", peak, limit)
	}
	if peak == 0 {
		t.Error("no job ever ran")
	}
}

func TestWorkerPoolClampsInvalidSize(t *testing.T) {
	pool := NewWorkerPool(0)

	ran := false
	pool.Submit(func() { ran = true })
	pool.Wait()

	if !ran {
		t.Error("pool with clamped size should still run jobs")
	}
}

func TestRetrySucceedsAfterTransientFailures(t *testing.T) {
	r := &RetryConfig{MaxAttempts: 3, BaseDelay: time.Millisecond, Logger: NewLogger(false)}

	attempts := 0
	err := r.Do("flaky", func() error {
		attempts++
		if attempts < 3 {
			return errors.New("transient")
		}
		return nil
	})

	if err != nil {
		t.Fatalf("expected recovery, got %v", err)
	}
	if attempts != 3 {
		t.Errorf("expected 3 attempts, got %d", attempts)
	}
}

func TestRetryGivesUpAndWrapsError(t *testing.T) {
	r := &RetryConfig{MaxAttempts: 2, BaseDelay: time.Millisecond, Logger: NewLogger(false)}

	sentinel := errors.New("permanent")
	err := r.Do("doomed", func() error { return sentinel })

	if err == nil {
		t.Fatal("expected failure after exhausting attempts")
	}
	if !errors.Is(err, sentinel) {
		t.Errorf("underlying error should be preserved, got %v", err)
	}
}
