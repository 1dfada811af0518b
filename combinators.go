// Copyright 2026 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

package corotask

import (
	"context"
)

// WhenAll awaits every task in tasks and returns their results in order,
// or the first error encountered, after all tasks have settled so that
// no task is left dangling.
func WhenAll[T any](ctx context.Context, tasks []*Task[T]) ([]T, error) {
	results := make([]T, len(tasks))
	var firstErr error
	for i, t := range tasks {
		v, err := t.Await(ctx)
		results[i] = v
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return results, firstErr
}

// WhenAnyResult is the outcome of WhenAny: which task settled first, and
// its value/error.
type WhenAnyResult[T any] struct {
	Index int
	Value T
	Err   error
}

// WhenAny returns as soon as the first of tasks settles, fanning every
// task's completion into one shared channel rather than polling.
func WhenAny[T any](ctx context.Context, tasks []*Task[T]) (WhenAnyResult[T], error) {
	if len(tasks) == 0 {
		var zero WhenAnyResult[T]
		return zero, &Error{Kind: ErrorInvalidOperation, Message: "WhenAny called with no tasks"}
	}

	done := make(chan WhenAnyResult[T], len(tasks))
	for i, t := range tasks {
		i, t := i, t
		go func() {
			v, err := t.Await(ctx)
			select {
			case done <- WhenAnyResult[T]{Index: i, Value: v, Err: err}:
			default:
			}
		}()
	}

	select {
	case r := <-done:
		return r, r.Err
	case <-ctx.Done():
		var zero WhenAnyResult[T]
		return zero, ctx.Err()
	}
}
