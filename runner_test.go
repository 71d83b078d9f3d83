package glean

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func TestDefaultRunner(t *testing.T) {
	runner := DefaultRunner(context.Background())
	if runner == nil {
		t.Fatal("DefaultRunner returned nil")
	}
	if _, ok := runner.(*errGroupRunner); !ok {
		t.Errorf("DefaultRunner should return *errGroupRunner, got %T", runner)
	}
}

func TestErrGroupRunner_Go_Success(t *testing.T) {
	runner := DefaultRunner(context.Background())

	var counter int32
	for i := 0; i < 5; i++ {
		runner.Go(func() error {
			atomic.AddInt32(&counter, 1)
			return nil
		})
	}

	if err := runner.Wait(); err != nil {
		t.Errorf("Expected no error, got %v", err)
	}
	if atomic.LoadInt32(&counter) != 5 {
		t.Errorf("Expected counter to be 5, got %d", atomic.LoadInt32(&counter))
	}
}

func TestErrGroupRunner_Go_WithError(t *testing.T) {
	runner := DefaultRunner(context.Background())

	expectedErr := errors.New("test error")
	runner.Go(func() error {
		time.Sleep(10 * time.Millisecond)
		return nil
	})
	runner.Go(func() error {
		return expectedErr
	})

	if err := runner.Wait(); err != expectedErr {
		t.Errorf("Expected %v, got %v", expectedErr, err)
	}
}

func TestErrGroupRunner_EmptyRunner(t *testing.T) {
	runner := DefaultRunner(context.Background())
	if err := runner.Wait(); err != nil {
		t.Errorf("Expected no error for empty runner, got %v", err)
	}
}

func TestLimitedRunner_BoundsConcurrency(t *testing.T) {
	const limit = 2
	runner := NewLimitedRunner(context.Background(), limit)

	var current, peak int32
	for i := 0; i < 20; i++ {
		runner.Go(func() error {
			n := atomic.AddInt32(&current, 1)
			for {
				p := atomic.LoadInt32(&peak)
				if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
					break
				}
			}
			time.Sleep(time.Millisecond)
			atomic.AddInt32(&current, -1)
			return nil
		})
	}

	if err := runner.Wait(); err != nil {
		t.Errorf("Expected no error, got %v", err)
	}
	if p := atomic.LoadInt32(&peak); p > limit {
		t.Errorf("Expected at most %d concurrent tasks, observed %d", limit, p)
	}
}

func TestErrGroupRunner_ConcurrentAccess(t *testing.T) {
	runner := DefaultRunner(context.Background())

	var counter int32
	const numGoroutines = 100
	for i := 0; i < numGoroutines; i++ {
		runner.Go(func() error {
			atomic.AddInt32(&counter, 1)
			time.Sleep(time.Millisecond)
			return nil
		})
	}

	if err := runner.Wait(); err != nil {
		t.Errorf("Expected no error, got %v", err)
	}
	if atomic.LoadInt32(&counter) != int32(numGoroutines) {
		t.Errorf("Expected counter to be %d, got %d", numGoroutines, atomic.LoadInt32(&counter))
	}
}

func BenchmarkErrGroupRunner(b *testing.B) {
	ctx := context.Background()

	b.Run("Sequential", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			runner := DefaultRunner(ctx)
			runner.Go(func() error { return nil })
			_ = runner.Wait()
		}
	})

	b.Run("Concurrent", func(b *testing.B) {
		runner := DefaultRunner(ctx)
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			runner.Go(func() error { return nil })
		}
		_ = runner.Wait()
	})
}
