// Package asyncx provides small concurrency helpers: fire-and-forget
// goroutines, futures and structured fan-out.
package asyncx

import (
	"context"
	"sync"
)

type result[T any] struct {
	value T
	err   error
}

// Future is a value that becomes available asynchronously. Create one with
// Run and read it with Await.
type Future[T any] struct {
	ch  chan result[T]
	res *result[T]
	mu  sync.Mutex
}

// Run starts fn in a goroutine immediately and returns its Future.
func Run[T any](fn func() (T, error)) *Future[T] {
	f := &Future[T]{ch: make(chan result[T], 1)}
	go func() {
		v, err := fn()
		f.ch <- result[T]{value: v, err: err}
	}()
	return f
}

// Await blocks until the Future resolves. Safe to call repeatedly; later
// calls return the cached result.
func (f *Future[T]) Await() (T, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.res == nil {
		r := <-f.ch
		f.res = &r
	}
	return f.res.value, f.res.err
}

// Do fires fn in a goroutine and forgets it. The function owns its own
// error handling; nothing is awaited.
func Do(fn func()) {
	go fn()
}

// All runs every fn concurrently and waits for all of them. Results keep
// the input order. The first non-nil error is returned, but every goroutine
// is awaited before returning.
func All[T any](ctx context.Context, fns ...func(context.Context) (T, error)) ([]T, error) {
	results := make([]T, len(fns))
	errs := make([]error, len(fns))

	var wg sync.WaitGroup
	wg.Add(len(fns))
	for i, fn := range fns {
		go func(i int, fn func(context.Context) (T, error)) {
			defer wg.Done()
			results[i], errs[i] = fn(ctx)
		}(i, fn)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return results, nil
}
