package glean

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Runner schedules the nested fan-out with any concurrency model. Callers
// that need strict sequencing or their own pool can supply one.
type Runner interface {
	Go(fn func() error) // schedule
	Wait() error        // join, propagate first error
}

// DefaultRunner returns the errgroup-backed runner.
func DefaultRunner(ctx context.Context) Runner {
	return newErrGroupRunner(ctx, runtime.NumCPU())
}

// NewLimitedRunner creates a runner with bounded concurrency.
func NewLimitedRunner(ctx context.Context, maxConcurrency int) Runner {
	return newErrGroupRunner(ctx, maxConcurrency)
}

type errGroupRunner struct {
	eg  *errgroup.Group
	sem chan struct{} // concurrency gate
}

func newErrGroupRunner(parent context.Context, maxConcurrency int) *errGroupRunner {
	eg, _ := errgroup.WithContext(parent)
	return &errGroupRunner{
		eg:  eg,
		sem: make(chan struct{}, maxConcurrency),
	}
}

func (r *errGroupRunner) Go(fn func() error) {
	r.eg.Go(func() error {
		r.sem <- struct{}{}        // acquire
		defer func() { <-r.sem }() // release
		return fn()
	})
}

func (r *errGroupRunner) Wait() error { return r.eg.Wait() }
