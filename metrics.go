// Copyright 2026 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

package corotask

import "sync/atomic"

// stats holds the runtime's atomic counters. A Runtime embeds one by value;
// Stats() returns a point-in-time snapshot.
type stats struct {
	tasksCreated         atomic.Uint64
	tasksCompleted       atomic.Uint64
	tasksCancelled       atomic.Uint64
	tasksFailed          atomic.Uint64
	schedulerInvocations atomic.Uint64
	timerEvents          atomic.Uint64
}

// Stats is an immutable snapshot of runtime counters.
type Stats struct {
	TasksCreated         uint64
	TasksCompleted       uint64
	TasksCancelled       uint64
	TasksFailed          uint64
	SchedulerInvocations uint64
	TimerEvents          uint64
}

func (s *stats) snapshot() Stats {
	return Stats{
		TasksCreated:         s.tasksCreated.Load(),
		TasksCompleted:       s.tasksCompleted.Load(),
		TasksCancelled:       s.tasksCancelled.Load(),
		TasksFailed:          s.tasksFailed.Load(),
		SchedulerInvocations: s.schedulerInvocations.Load(),
		TimerEvents:          s.timerEvents.Load(),
	}
}
