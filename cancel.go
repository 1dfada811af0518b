// Copyright 2026 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

package corotask

import (
	"sync/atomic"
	"time"
)

// maxCancellationCallbacks bounds the number of OnCancel registrations a
// single CancellationState may hold. This is a fixed invariant of the
// type, not a runtime-tunable.
const maxCancellationCallbacks = 16

// CancellationState is the shared, lock-free heart of a
// CancellationSource/CancellationToken pair, following the
// AbortController/AbortSignal pattern with a bounded, lock-free
// fixed-array callback registry in place of an unbounded, mutex-guarded
// slice.
type CancellationState struct {
	cancelled atomic.Bool
	reason    atomic.Pointer[error]

	callbacks [maxCancellationCallbacks]atomic.Pointer[func(error)]
	count     atomic.Int32
}

func newCancellationState() *CancellationState {
	return &CancellationState{}
}

// IsCancelled reports whether cancellation has been requested.
func (c *CancellationState) IsCancelled() bool { return c.cancelled.Load() }

// Reason returns the error cancellation was requested with, or nil.
func (c *CancellationState) Reason() error {
	if p := c.reason.Load(); p != nil {
		return *p
	}
	return nil
}

// requestCancellation is lock-free: the transition from not-cancelled to
// cancelled happens at most once (CAS-guarded), and every already
// registered callback slot is invoked exactly once, outside of any lock.
func (c *CancellationState) requestCancellation(reason error) {
	if reason == nil {
		reason = ErrCancelled
	}
	if !c.cancelled.CompareAndSwap(false, true) {
		return
	}
	c.reason.Store(&reason)

	n := c.count.Load()
	for i := int32(0); i < n && i < maxCancellationCallbacks; i++ {
		if fp := c.callbacks[i].Swap(nil); fp != nil {
			(*fp)(reason)
		}
	}
}

// registerCallback appends cb to the bounded callback array. If the state
// is already cancelled, cb is invoked immediately instead. Returns false if
// the array is full and the state is not yet cancelled; callers should
// treat this as a capacity error.
func (c *CancellationState) registerCallback(cb func(error)) bool {
	if cb == nil {
		return true
	}
	if c.cancelled.Load() {
		cb(c.Reason())
		return true
	}
	slot := c.count.Add(1) - 1
	if slot >= maxCancellationCallbacks {
		c.count.Add(-1)
		return false
	}
	c.callbacks[slot].Store(&cb)
	// re-check: a concurrent requestCancellation may have already swept
	// past this slot before the store above landed.
	if c.cancelled.Load() {
		if fp := c.callbacks[slot].Swap(nil); fp != nil {
			(*fp)(c.Reason())
		}
	}
	return true
}

// CancellationSource is the producer side of cooperative cancellation,
// analogous to an AbortController.
type CancellationSource struct {
	state *CancellationState
}

// NewCancellationSource creates a fresh, not-yet-cancelled source.
func NewCancellationSource() *CancellationSource {
	return &CancellationSource{state: newCancellationState()}
}

// Token returns the CancellationToken consumers should observe.
func (s *CancellationSource) Token() *CancellationToken {
	return &CancellationToken{state: s.state}
}

// Cancel requests cancellation with reason (ErrCancelled if nil). Safe to
// call more than once and from any goroutine; only the first call has an
// effect.
func (s *CancellationSource) Cancel(reason error) {
	s.state.requestCancellation(reason)
}

// CancellationToken is the consumer side handed to tasks and awaitables.
type CancellationToken struct {
	state *CancellationState
}

// IsCancelled reports whether the originating source has cancelled.
func (t *CancellationToken) IsCancelled() bool {
	return t != nil && t.state.IsCancelled()
}

// Err returns the reason the source was cancelled with (ErrCancelled if no
// reason is recorded), or nil if not cancelled. Named after
// context.Context.Err for familiarity.
func (t *CancellationToken) Err() error {
	if t == nil || !t.state.IsCancelled() {
		return nil
	}
	if r := t.state.Reason(); r != nil {
		return r
	}
	return ErrCancelled
}

// OnCancel registers cb to run when the token's source cancels. Returns
// false if the bounded callback registry (16 slots) is already full.
func (t *CancellationToken) OnCancel(cb func(error)) bool {
	if t == nil {
		return true
	}
	return t.state.registerCallback(cb)
}

// CombinedToken returns a token that is cancelled when any of toks is
// cancelled, with the reason of whichever cancelled first.
func CombinedToken(toks ...*CancellationToken) *CancellationToken {
	combined := NewCancellationSource()
	for _, t := range toks {
		if t == nil {
			continue
		}
		if t.IsCancelled() {
			combined.Cancel(t.Err())
			return combined.Token()
		}
	}
	for _, t := range toks {
		if t == nil {
			continue
		}
		t.OnCancel(func(reason error) {
			combined.Cancel(reason)
		})
	}
	return combined.Token()
}

// Timeout returns a CancellationSource that automatically cancels after d,
// driven by rt's timer subsystem. The token it hands out surfaces as
// TaskCancelled, consistent with every other cancellation path; callers
// that need to distinguish a timeout from an explicit Cancel should check
// the Task's own completion path instead of the token's error kind.
func (rt *Runtime) Timeout(d time.Duration) *CancellationSource {
	src := NewCancellationSource()
	rt.timers.schedule(d, func() {
		src.Cancel(&Error{Kind: ErrorTaskCancelled, Message: "timeout expired"})
	})
	return src
}
