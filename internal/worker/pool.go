// Package worker runs CPU-bound work on a bounded set of goroutines so
// that it never competes with request acceptance for more than Size
// concurrent slots.
package worker

import (
	"context"
	"fmt"

	"golang.org/x/sync/semaphore"
)

// Pool bounds the number of tasks running at once.
type Pool struct {
	sem  *semaphore.Weighted
	size int64
}

// NewPool returns a pool with size slots. Sizes below one are raised to one.
func NewPool(size int) *Pool {
	if size < 1 {
		size = 1
	}
	return &Pool{sem: semaphore.NewWeighted(int64(size)), size: int64(size)}
}

// Size is the number of tasks that may run concurrently.
func (p *Pool) Size() int {
	return int(p.size)
}

// Do waits for a free slot, runs fn on its own goroutine and returns its
// result. If ctx ends first, Do returns ctx.Err(); a task that already
// started keeps its slot until it finishes.
func (p *Pool) Do(ctx context.Context, fn func() error) error {
	if err := p.sem.Acquire(ctx, 1); err != nil {
		return err
	}

	done := make(chan error, 1)
	go func() {
		defer p.sem.Release(1)
		defer func() {
			if r := recover(); r != nil {
				done <- fmt.Errorf("worker task panicked: %v", r)
			}
		}()
		done <- fn()
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Shutdown waits until every running task has finished or ctx ends.
// The pool accepts new tasks again once Shutdown returns.
func (p *Pool) Shutdown(ctx context.Context) error {
	if err := p.sem.Acquire(ctx, p.size); err != nil {
		return err
	}
	p.sem.Release(p.size)
	return nil
}
