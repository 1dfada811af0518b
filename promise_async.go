// Copyright 2026 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

package corotask

import (
	"context"
	"sync"
	"sync/atomic"
)

// AsyncPromise is a single-slot, cross-goroutine future: exactly one
// producer calls Set/SetError. One consumer may be parked in Await before
// the promise is set and is woken once; any number of Await calls made
// after it is set return the result immediately.
type AsyncPromise[T any] struct {
	ready atomic.Bool
	mu    sync.Mutex
	value T
	err   error
	waker chan struct{}

	rt *Runtime
}

// NewAsyncPromise constructs an unset AsyncPromise bound to rt, used to
// hand the awaiting goroutine back to rt's scheduler at resume time.
func NewAsyncPromise[T any](rt *Runtime) *AsyncPromise[T] {
	return &AsyncPromise[T]{rt: rt, waker: make(chan struct{}, 1)}
}

// Set resolves the promise with value. Only the first Set or SetError call
// has an effect; later calls are no-ops.
func (a *AsyncPromise[T]) Set(value T) {
	a.mu.Lock()
	if !a.ready.CompareAndSwap(false, true) {
		a.mu.Unlock()
		return
	}
	a.value = value
	a.mu.Unlock()
	a.wake()
}

// SetError resolves the promise with a terminal error.
func (a *AsyncPromise[T]) SetError(err error) {
	a.mu.Lock()
	if !a.ready.CompareAndSwap(false, true) {
		a.mu.Unlock()
		return
	}
	a.err = err
	a.mu.Unlock()
	a.wake()
}

// wake hands the waiter's continuation back to the scheduler rather than
// waking it inline on the setter's own goroutine, honoring the invariant
// that a resume is always dispatched through the scheduler.
func (a *AsyncPromise[T]) wake() {
	send := func() {
		select {
		case a.waker <- struct{}{}:
		default:
		}
	}
	if a.rt == nil {
		send()
		return
	}
	h := newTaskHandle(0, send, func() {}, func() promiseState {
		if a.ready.Load() {
			return promiseFulfilled
		}
		return promisePending
	}, func(error) {})
	a.rt.submit(h)
}

// Await suspends the calling goroutine (parked on a channel read, per the
// green-thread translation note) until Set/SetError is called or ctx is
// done.
func (a *AsyncPromise[T]) Await(ctx context.Context) (T, error) {
	if a.ready.Load() {
		a.mu.Lock()
		defer a.mu.Unlock()
		return a.value, a.err
	}
	select {
	case <-a.waker:
		a.mu.Lock()
		defer a.mu.Unlock()
		return a.value, a.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Ready reports whether Set/SetError has been called.
func (a *AsyncPromise[T]) Ready() bool { return a.ready.Load() }
