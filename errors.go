// Copyright 2026 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

package corotask

import "fmt"

// ErrorKind classifies the reason a Task terminated in error. Every error
// surfaced by awaiting a Task carries one of these kinds.
type ErrorKind int

const (
	ErrorUnknown ErrorKind = iota
	ErrorNetworkTimeout
	ErrorResourceExhausted
	ErrorInvalidOperation
	ErrorTaskCancelled
	ErrorCoroutineDestroyed
	ErrorDeadlineExceeded
	ErrorDatabaseConnectionFailed
)

func (k ErrorKind) String() string {
	switch k {
	case ErrorNetworkTimeout:
		return "NetworkTimeout"
	case ErrorResourceExhausted:
		return "ResourceExhausted"
	case ErrorInvalidOperation:
		return "InvalidOperation"
	case ErrorTaskCancelled:
		return "TaskCancelled"
	case ErrorCoroutineDestroyed:
		return "CoroutineDestroyed"
	case ErrorDeadlineExceeded:
		return "DeadlineExceeded"
	case ErrorDatabaseConnectionFailed:
		return "DatabaseConnectionFailed"
	default:
		return "Unknown"
	}
}

// Error is the concrete error type returned by the runtime. It carries a
// classification (Kind) plus the source location the error was raised at.
type Error struct {
	Kind    ErrorKind
	Message string
	File    string
	Line    int
	cause   error
}

func (e *Error) Error() string {
	if e.File != "" {
		return fmt.Sprintf("%s: %s (%s:%d)", e.Kind, e.Message, e.File, e.Line)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.cause }

// Is reports whether target is an *Error with the same Kind, allowing
// errors.Is(err, &Error{Kind: ErrorTaskCancelled}) style matching.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// WithCause returns a copy of e with cause attached as the wrapped error.
func (e *Error) WithCause(cause error) *Error {
	cp := *e
	cp.cause = cause
	return &cp
}

// ErrCancelled is a sentinel usable with errors.Is to detect cancellation
// regardless of message/location.
var ErrCancelled = &Error{Kind: ErrorTaskCancelled, Message: "task was cancelled"}

// ErrDestroyed is a sentinel for operations against a destroyed handle.
var ErrDestroyed = &Error{Kind: ErrorCoroutineDestroyed, Message: "coroutine handle was destroyed"}

// ErrDeadlineExceeded is a sentinel for SyncWait's hard deadline expiring.
var ErrDeadlineExceeded = &Error{Kind: ErrorDeadlineExceeded, Message: "deadline exceeded while waiting for task"}
