// Package async implements the sync-over-async bridge that lets a
// blocking ODBC call drive a cancellable operation against the TDS
// client, serialized through a single background worker so that
// concurrent TDS operations across handles never run concurrently
// against the wire.
package async

import (
	"context"
	"sync"

	"go.uber.org/atomic"
)

// Bridge is the process-wide cooperative task executor: one worker
// goroutine drains jobs submitted on an unbuffered channel, so no two
// TDS operations ever run concurrently against the network. There is
// exactly one Bridge per loaded driver instance; repeated allocation
// from multiple SQLAllocHandle(SQL_HANDLE_ENV, ...) calls in the same
// process must share it, which Get enforces.
type Bridge struct {
	jobs chan job
}

type job struct {
	fn   func() (any, error)
	resC chan result
}

type result struct {
	val any
	err error
}

var (
	shared     *Bridge
	sharedOnce sync.Once
)

// Get returns the process-wide Bridge, starting its worker on first
// use. This is the idempotent start-up any number of concurrent
// SQLAllocHandle(SQL_HANDLE_ENV) calls must observe as the same
// executor.
func Get() *Bridge {
	sharedOnce.Do(func() {
		shared = &Bridge{jobs: make(chan job)}
		go shared.loop()
	})
	return shared
}

// loop is the single worker: it runs exactly one job at a time for the
// lifetime of the process, never returning.
func (b *Bridge) loop() {
	for j := range b.jobs {
		v, err := j.fn()
		j.resC <- result{val: v, err: err}
	}
}

// Run submits fn to the worker and blocks until it completes or ctx is
// cancelled. If ctx is cancelled before submission or before a result
// arrives, Run returns ctx.Err() immediately; the job, once handed to
// the worker, always runs to completion and its result is simply
// discarded by the buffered, abandoned result channel.
func Run[T any](b *Bridge, ctx context.Context, fn func() (T, error)) (T, error) {
	resC := make(chan result, 1)
	j := job{fn: func() (any, error) { return fn() }, resC: resC}

	select {
	case b.jobs <- j:
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}

	select {
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	case r := <-resC:
		if r.err != nil {
			var zero T
			return zero, r.err
		}
		v, _ := r.val.(T)
		return v, nil
	}
}

// RunCancellable is like Run but takes no ctx: it returns a cancel func
// the caller can invoke out-of-band instead, routing the work through
// the same single worker Run uses.
func RunCancellable[T any](b *Bridge, fn func() (T, error)) (done <-chan T, errs <-chan error, cancel func()) {
	valCh := make(chan T, 1)
	errCh := make(chan error, 1)
	cancelled := atomic.NewBool(false)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		resC := make(chan result, 1)
		b.jobs <- job{fn: func() (any, error) { return fn() }, resC: resC}
		r := <-resC
		if cancelled.Load() {
			return
		}
		if r.err != nil {
			var zero T
			valCh <- zero
			errCh <- r.err
			return
		}
		v, _ := r.val.(T)
		valCh <- v
		errCh <- nil
	}()
	cancel = func() {
		if cancelled.CompareAndSwap(false, true) {
			wg.Wait()
		}
	}
	return valCh, errCh, cancel
}
