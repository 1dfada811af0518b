// Copyright 2026 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

package corotask

import (
	"context"
)

// SyncWait blocks the calling goroutine (which need not be a Task body,
// this is the bridge from ordinary synchronous code into the coroutine
// runtime) until t settles, subject to rt's configured hard deadline
// (default 5s).
func SyncWait[T any](rt *Runtime, t *Task[T]) (T, error) {
	ctx, cancel := context.WithTimeout(context.Background(), rt.cfg.syncWaitDeadline)
	defer cancel()

	v, err := t.Await(ctx)
	if err == context.DeadlineExceeded {
		return v, ErrDeadlineExceeded
	}
	return v, err
}
