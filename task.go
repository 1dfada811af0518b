// Copyright 2026 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

package corotask

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// promiseState is the settlement state of a promise[T].
type promiseState int32

const (
	promisePending promiseState = iota
	promiseFulfilled
	promiseRejected
	promiseCancelled
)

// promise[T] is the generic settlement cell behind every Task[T]: a
// mutex-guarded state with subscriber fan-out via channels.
type promise[T any] struct {
	mu      sync.Mutex
	state   promiseState
	value   T
	err     error
	waiters []chan struct{}
}

func newPromise[T any]() *promise[T] { return &promise[T]{} }

func (p *promise[T]) State() promiseState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

func (p *promise[T]) settle(state promiseState, value T, err error) bool {
	p.mu.Lock()
	if p.state != promisePending {
		p.mu.Unlock()
		return false
	}
	p.state = state
	p.value = value
	p.err = err
	waiters := p.waiters
	p.waiters = nil
	p.mu.Unlock()

	for _, ch := range waiters {
		close(ch)
	}
	return true
}

func (p *promise[T]) Resolve(v T) bool { return p.settle(promiseFulfilled, v, nil) }

func (p *promise[T]) Reject(err error) bool {
	var zero T
	state := promiseRejected
	if e, ok := err.(*Error); ok && e.Kind == ErrorTaskCancelled {
		state = promiseCancelled
	}
	return p.settle(state, zero, err)
}

// wait blocks until the promise settles or ctx is done.
func (p *promise[T]) wait(ctx context.Context) (T, error) {
	p.mu.Lock()
	if p.state != promisePending {
		v, err := p.value, p.err
		p.mu.Unlock()
		return v, err
	}
	ch := make(chan struct{})
	p.waiters = append(p.waiters, ch)
	p.mu.Unlock()

	select {
	case <-ch:
		p.mu.Lock()
		v, err := p.value, p.err
		p.mu.Unlock()
		return v, err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Task is the generic, move-only handle to a running or completed
// coroutine body. The body runs on a dedicated goroutine; the scheduler
// governs only the wake ordering of the awaitables that goroutine suspends
// on, not the physical relocation of its stack.
//
// Copying a *Task[T] after Spawn is a bug (the safe handle's destroy must
// run exactly once); noCopy documents this the way Go vet's copylocks
// analysis would for a sync.Mutex field.
type Task[T any] struct {
	handle    *taskHandle
	p         *promise[T]
	source    *CancellationSource
	createdAt time.Time
	id        uint64

	_ noCopy
}

type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}

// TaskFunc is the body a spawned Task runs. It receives a context (cancelled
// when the Task's own CancellationSource fires or the Runtime shuts down)
// and the Task's own CancellationToken for cooperative checks mid-body.
type TaskFunc[T any] func(ctx context.Context, token *CancellationToken) (T, error)

// Spawn starts fn on a new goroutine, tracked by rt's registry, and returns
// a Task[T] handle to observe and control it. Execution is eager: fn begins
// running immediately, exactly like a newly spawned goroutine, rather than
// waiting for a first Await.
func Spawn[T any](rt *Runtime, fn TaskFunc[T]) Task[T] {
	p := newPromise[T]()
	src := NewCancellationSource()
	ctx, cancel := context.WithCancel(context.Background())

	t := Task[T]{p: p, source: src, createdAt: time.Now()}

	h := newTaskHandle(
		0,
		func() {}, // Task bodies aren't externally "resumed"; only awaitables are.
		func() {
			src.Cancel(ErrDestroyed)
			cancel()
		},
		func() promiseState { return p.State() },
		func(err error) {
			p.Reject(err)
			cancel()
		},
	)
	t.handle = h
	t.id = rt.registry.register(h)
	src.Token().OnCancel(func(error) { cancel() })

	rt.stats.tasksCreated.Add(1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				rt.stats.tasksFailed.Add(1)
				p.Reject(&Error{Kind: ErrorInvalidOperation, Message: fmt.Sprintf("task panicked: %v", r)})
			}
			cancel()
		}()

		v, err := fn(ctx, src.Token())

		switch {
		case src.Token().IsCancelled():
			rt.stats.tasksCancelled.Add(1)
			p.Reject(&Error{Kind: ErrorTaskCancelled, Message: "task cancelled"})
		case err != nil:
			if _, ok := err.(*Error); !ok {
				err = (&Error{Kind: ErrorUnknown, Message: err.Error()}).WithCause(err)
			}
			rt.stats.tasksFailed.Add(1)
			p.Reject(err)
		default:
			rt.stats.tasksCompleted.Add(1)
			p.Resolve(v)
		}
	}()

	return t
}

// Await blocks the calling goroutine until the Task settles or ctx is
// done, returning the result or the terminal error (which may be
// ctx.Err()).
func (t *Task[T]) Await(ctx context.Context) (T, error) {
	return t.p.wait(ctx)
}

// Cancel requests cooperative cancellation. The task body observes this via
// its CancellationToken or via ctx.Done() on the context Spawn gave it.
func (t *Task[T]) Cancel() { t.source.Cancel(nil) }

// IsCancelled reports whether Cancel has been requested.
func (t *Task[T]) IsCancelled() bool { return t.source.Token().IsCancelled() }

// IsPending, IsSettled, IsFulfilled, and IsRejected are JS-Promise-style
// state queries over the Task's current settlement state.
func (t *Task[T]) IsPending() bool   { return t.p.State() == promisePending }
func (t *Task[T]) IsSettled() bool   { return t.p.State() != promisePending }
func (t *Task[T]) IsFulfilled() bool { return t.p.State() == promiseFulfilled }
func (t *Task[T]) IsRejected() bool {
	s := t.p.State()
	return s == promiseRejected || s == promiseCancelled
}

// TryResult returns the settled value/error without blocking. ok is false
// if the Task has not yet settled.
func (t *Task[T]) TryResult() (value T, err error, ok bool) {
	t.p.mu.Lock()
	defer t.p.mu.Unlock()
	if t.p.state == promisePending {
		var zero T
		return zero, nil, false
	}
	return t.p.value, t.p.err, true
}

// Age reports how long it has been since Spawn.
func (t *Task[T]) Age() time.Duration { return time.Since(t.createdAt) }

// Drop destroys the handle synchronously if the task is not running, or
// enqueues it for deferred destruction via rt's destroy queue otherwise,
// since Go cannot synchronously inspect whether the goroutine is
// mid-execution.
func (t *Task[T]) Drop(rt *Runtime) {
	if t.IsSettled() {
		t.handle.Destroy()
		return
	}
	rt.destroyQueue.push(t.handle)
}
