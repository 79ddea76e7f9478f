package batch

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestRunKeepsItemOrder(t *testing.T) {
	items := []int{5, 4, 3, 2, 1, 0}
	results := Run(context.Background(), items, Options{Size: 3}, func(_ context.Context, n int) (int, error) {
		time.Sleep(time.Duration(n) * time.Millisecond)
		return n * 10, nil
	})

	if len(results) != len(items) {
		t.Fatalf("Run() returned %d results, want %d", len(results), len(items))
	}
	for i, r := range results {
		if r.Err != nil {
			t.Errorf("Run() result %d error = %v", i, r.Err)
		}
		if r.Value != items[i]*10 {
			t.Errorf("Run() result %d = %d, want %d", i, r.Value, items[i]*10)
		}
	}
}

func TestRunPartialFailure(t *testing.T) {
	errBoom := errors.New("boom")
	results := Run(context.Background(), []string{"ok", "fail", "ok"}, Options{Size: 2}, func(_ context.Context, s string) (string, error) {
		if s == "fail" {
			return "", errBoom
		}
		return s, nil
	})

	values, errs := Values(results)
	if len(values) != 2 {
		t.Errorf("Values() = %v, want 2 values", values)
	}
	if len(errs) != 1 || !errors.Is(errs[0], errBoom) {
		t.Errorf("Values() errors = %v, want [boom]", errs)
	}
}

func TestRunBoundsConcurrency(t *testing.T) {
	var inFlight, peak int32
	var mu sync.Mutex
	items := make([]int, 10)

	Run(context.Background(), items, Options{Size: 3}, func(_ context.Context, _ int) (struct{}, error) {
		n := atomic.AddInt32(&inFlight, 1)
		mu.Lock()
		if n > peak {
			peak = n
		}
		mu.Unlock()
		time.Sleep(5 * time.Millisecond)
		atomic.AddInt32(&inFlight, -1)
		return struct{}{}, nil
	})

	if peak > 3 {
		t.Errorf("peak concurrency = %d, want <= 3", peak)
	}
}

func TestRunDelaysBetweenBatches(t *testing.T) {
	start := time.Now()
	Run(context.Background(), []int{1, 2, 3}, Options{Size: 1, Delay: 20 * time.Millisecond}, func(_ context.Context, n int) (int, error) {
		return n, nil
	})

	if elapsed := time.Since(start); elapsed < 40*time.Millisecond {
		t.Errorf("Run() took %v, want at least 40ms for two delays", elapsed)
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	var calls int32

	results := Run(ctx, []int{1, 2, 3, 4}, Options{Size: 2}, func(_ context.Context, n int) (int, error) {
		atomic.AddInt32(&calls, 1)
		cancel()
		return n, nil
	})

	if calls != 2 {
		t.Errorf("calls = %d, want 2", calls)
	}
	for i := 2; i < 4; i++ {
		if !errors.Is(results[i].Err, context.Canceled) {
			t.Errorf("result %d error = %v, want context.Canceled", i, results[i].Err)
		}
	}
}
