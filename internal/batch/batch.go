// Package batch runs bounded groups of independent calls against rate-limited sources.
package batch

import (
	"context"
	"sync"
	"time"
)

type Options struct {
	// Size is the number of calls in flight at once. Values below 1 run one at a time.
	Size int
	// Delay is the pause between consecutive batches.
	Delay time.Duration
}

type Result[R any] struct {
	Value R
	Err   error
}

// Run calls fn for every item, Size at a time, pausing Delay between batches.
// Results are returned at the index of their item. A failed call does not affect the
// others. Once ctx is done no new batch starts and the remaining items get ctx.Err().
func Run[T, R any](ctx context.Context, items []T, opts Options, fn func(context.Context, T) (R, error)) []Result[R] {
	size := opts.Size
	if size < 1 {
		size = 1
	}
	results := make([]Result[R], len(items))

	for start := 0; start < len(items); start += size {
		if start > 0 && opts.Delay > 0 {
			timer := time.NewTimer(opts.Delay)
			select {
			case <-ctx.Done():
				timer.Stop()
			case <-timer.C:
			}
		}
		if err := ctx.Err(); err != nil {
			for i := start; i < len(items); i++ {
				results[i].Err = err
			}
			break
		}

		end := min(start+size, len(items))
		var wg sync.WaitGroup
		for i := start; i < end; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				v, err := fn(ctx, items[i])
				results[i] = Result[R]{Value: v, Err: err}
			}(i)
		}
		wg.Wait()
	}
	return results
}

// Values returns the successful results in item order and the errors of the failed ones.
func Values[R any](results []Result[R]) ([]R, []error) {
	var values []R
	var errs []error
	for _, r := range results {
		if r.Err != nil {
			errs = append(errs, r.Err)
			continue
		}
		values = append(values, r.Value)
	}
	return values, errs
}
