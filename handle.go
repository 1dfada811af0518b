// Copyright 2026 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

package corotask

import "sync/atomic"

// taskHandle is the safe, non-generic coroutine handle backing every
// Task[T]. It owns the CAS-guarded idempotent destroy sequence and the
// callbacks a generic Task[T] closes over to interact with its goroutine
// and promise without the registry or scheduler needing to know T.
//
// It pairs an atomic valid flag with a destroy-once guarantee, standing in
// for an RAII destructor via an explicit destroy callback since Go has no
// destructors.
type taskHandle struct {
	valid atomic.Bool // true while the underlying goroutine may still run

	// resume wakes the parked goroutine at its current suspension point.
	// Must be non-blocking and safe to call from any worker.
	resume func()

	// destroy tears down the task: cancels its context and releases any
	// resources it holds. Called at most once, guaranteed by the CAS on
	// valid below.
	destroy func()

	// state reports the promise's settlement state for registry scavenging.
	state func() promiseState

	// reject forces a pending promise to a terminal error state, used by
	// RejectAll during Runtime shutdown.
	reject func(error)

	id uint64
}

func newTaskHandle(id uint64, resume, destroy func(), state func() promiseState, reject func(error)) *taskHandle {
	h := &taskHandle{resume: resume, destroy: destroy, state: state, reject: reject, id: id}
	h.valid.Store(true)
	return h
}

// Valid reports whether the handle has not yet been destroyed.
func (h *taskHandle) Valid() bool { return h.valid.Load() }

// Resume invokes the resume callback, waking the parked goroutine. Workers
// call it for handles the scheduler hands them. No-op if the handle has
// already been destroyed.
func (h *taskHandle) Resume() {
	if h.valid.Load() {
		h.resume()
	}
}

// Destroy idempotently tears the handle down. Only the first caller's
// destroy callback actually runs; subsequent calls are no-ops.
func (h *taskHandle) Destroy() {
	if h.valid.CompareAndSwap(true, false) {
		h.destroy()
	}
}

// State reports the current promise state, used by the registry scavenger.
func (h *taskHandle) State() promiseState { return h.state() }

// Reject forces the handle's promise into a terminal error state.
func (h *taskHandle) Reject(err error) { h.reject(err) }
