// Copyright 2026 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

package lockfree

import "sync/atomic"

type stackNode[T any] struct {
	value T
	next  *stackNode[T]
}

// Stack is a Treiber lock-free MPMC stack. The scheduler does not use it;
// its pending-destroy queue is the corotask package's own destroyQueue.
type Stack[T any] struct {
	top atomic.Pointer[stackNode[T]]
}

// NewStack constructs an empty stack.
func NewStack[T any]() *Stack[T] { return &Stack[T]{} }

// Push adds value to the top of the stack.
func (s *Stack[T]) Push(value T) {
	n := &stackNode[T]{value: value}
	for {
		old := s.top.Load()
		n.next = old
		if s.top.CompareAndSwap(old, n) {
			return
		}
	}
}

// Pop removes and returns the top value, ok=false if empty.
func (s *Stack[T]) Pop() (value T, ok bool) {
	for {
		old := s.top.Load()
		if old == nil {
			var zero T
			return zero, false
		}
		if s.top.CompareAndSwap(old, old.next) {
			return old.value, true
		}
	}
}
