// Copyright 2026 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

package corotask

import (
	"context"
	"sync/atomic"
	"time"
)

// SleepFor suspends the calling goroutine until d elapses or ctx is done.
// The wakeup is driven by rt's timer subsystem and dispatched through the
// scheduler, so resumption is never inline on the timer goroutine. d <= 0
// is a no-op that returns immediately without suspending.
func SleepFor(ctx context.Context, rt *Runtime, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	ch := make(chan struct{}, 1)
	entry := rt.timers.schedule(d, func() {
		h := newTaskHandle(0, func() {
			select {
			case ch <- struct{}{}:
			default:
			}
		}, func() {}, func() promiseState { return promiseFulfilled }, func(error) {})
		rt.submit(h)
	})

	select {
	case <-ch:
		return nil
	case <-ctx.Done():
		entry.Cancel()
		return ctx.Err()
	}
}

// Yield suspends the calling goroutine for one scheduler round-trip,
// always suspending and being rescheduled through the Runtime.
func Yield(ctx context.Context, rt *Runtime) error {
	ch := make(chan struct{}, 1)
	h := newTaskHandle(0, func() {
		select {
		case ch <- struct{}{}:
		default:
		}
	}, func() {}, func() promiseState { return promiseFulfilled }, func(error) {})
	rt.submit(h)

	select {
	case <-ch:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// YieldBatch only actually suspends every interval-th call (default 100).
// Callers share a *atomic.Uint64 counter across repeated calls in a loop body.
func YieldBatch(ctx context.Context, rt *Runtime, counter *atomic.Uint64, interval uint64) error {
	if interval == 0 {
		interval = 100
	}
	if counter.Add(1)%interval != 0 {
		return nil
	}
	return Yield(ctx, rt)
}
