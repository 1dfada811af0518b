// Copyright 2026 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

package corotask

import "sync/atomic"

// runState represents the lifecycle state of the scheduler (Runtime) or of
// an individual Worker.
//
// State machine:
//
//	StateCreated (0)     -> StateRunning (2)      [Start]
//	StateRunning (2)     -> StateDraining (3)     [Close requested]
//	StateDraining (3)    -> StateStopped (1)      [drain complete]
//	StateStopped (1)     -> (terminal)
//
// Use TryTransition (CAS) for every transition; there is no Store escape
// hatch because multiple goroutines (workers, the timer driver, Close
// callers) race to observe and act on scheduler state and must agree via
// CAS, not last-write-wins.
type runState uint64

const (
	stateCreated runState = iota
	stateStopped
	stateRunning
	stateDraining
)

func (s runState) String() string {
	switch s {
	case stateCreated:
		return "Created"
	case stateRunning:
		return "Running"
	case stateDraining:
		return "Draining"
	case stateStopped:
		return "Stopped"
	default:
		return "Unknown"
	}
}

// fastState is a lock-free state machine with cache-line padding, to avoid
// false sharing between workers that each poll it on their hot path.
type fastState struct { //nolint:govet
	_ [64]byte
	v atomic.Uint64
	_ [56]byte
}

func newFastState() *fastState {
	s := &fastState{}
	s.v.Store(uint64(stateCreated))
	return s
}

func (s *fastState) Load() runState { return runState(s.v.Load()) }

func (s *fastState) TryTransition(from, to runState) bool {
	return s.v.CompareAndSwap(uint64(from), uint64(to))
}

func (s *fastState) IsTerminal() bool { return s.Load() == stateStopped }

func (s *fastState) CanAcceptWork() bool {
	st := s.Load()
	return st == stateCreated || st == stateRunning
}
