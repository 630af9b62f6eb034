// Package worker provides the background and fan-out job helpers used by the
// AeroHealth services.
package worker

import (
	"context"
	"sync"
)

// DefaultConcurrency is the worker count used when FanOut is given zero.
const DefaultConcurrency = 5

// Result is the outcome of one fanned-out task. Index is the position of the
// input item, so results can be matched back to their inputs.
type Result[R any] struct {
	Index int
	Value R
	Err   error
}

// FanOut runs fn for every item on a bounded pool of concurrency workers and
// returns one Result per item, in input order. A failing item never stops the
// others. Items not yet started when ctx is cancelled report ctx.Err().
func FanOut[T, R any](ctx context.Context, concurrency int, items []T, fn func(ctx context.Context, item T) (R, error)) []Result[R] {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	if concurrency > len(items) {
		concurrency = len(items)
	}

	results := make([]Result[R], len(items))
	jobs := make(chan int, len(items))

	var wg sync.WaitGroup
	for i := 0; i < concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				results[idx] = run(ctx, idx, items[idx], fn)
			}
		}()
	}

	for i := range items {
		jobs <- i
	}
	close(jobs)

	wg.Wait()
	return results
}

func run[T, R any](ctx context.Context, idx int, item T, fn func(context.Context, T) (R, error)) Result[R] {
	select {
	case <-ctx.Done():
		return Result[R]{Index: idx, Err: ctx.Err()}
	default:
	}

	v, err := fn(ctx, item)
	return Result[R]{Index: idx, Value: v, Err: err}
}
