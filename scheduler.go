// Copyright 2026 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

package corotask

import "time"

const idleBackoff = 2 * time.Millisecond

func timeAfterIdle() <-chan time.Time { return time.After(idleBackoff) }

// submit hands h to the scheduler for eventual resumption. The load
// balancer picks a target worker; h lands in that worker's inbox, which
// only the worker itself drains onto its local deque, so other idle
// workers can later steal it. If the chosen worker's inbox is already
// backed up, h falls back to the shared global queue instead.
func (rt *Runtime) submit(h *taskHandle) {
	idx := rt.lb.Select()
	rt.lb.IncrementLoad(idx)
	if !rt.workers[idx].tryEnqueue(h) {
		rt.global.Push(h)
	}
	select {
	case rt.workWake <- struct{}{}:
	default:
	}
}
