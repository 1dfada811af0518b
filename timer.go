// Copyright 2026 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

package corotask

import (
	"container/heap"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// TimerEntry is a single scheduled callback in the timer heap. id is a
// monotonic counter, used as a stable tiebreaker so entries with identical
// deadlines fire in insertion order; diagID is a separate, purely
// observability correlation id populated only when the owning Runtime has
// WithDiagnostics(true) set.
type TimerEntry struct {
	id        uint64
	diagID    string
	when      time.Time
	fn        func()
	cancelled atomic.Bool
}

// Cancel prevents fn from firing if it has not already fired.
func (t *TimerEntry) Cancel() { t.cancelled.Store(true) }

type timerHeap []*TimerEntry

func (h timerHeap) Len() int { return len(h) }
func (h timerHeap) Less(i, j int) bool {
	if h[i].when.Equal(h[j].when) {
		return h[i].id < h[j].id
	}
	return h[i].when.Before(h[j].when)
}
func (h timerHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *timerHeap) Push(x any)        { *h = append(*h, x.(*TimerEntry)) }
func (h *timerHeap) Pop() any {
	old := *h
	n := len(old)
	e := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return e
}

// timerSubsystem drives TimerEntry expiry, either on its own dedicated
// goroutine (TimerDriveDedicatedThread) or by exposing drive() for a worker
// to call each tick (TimerDriveSchedulerIntegrated). Expired entries are
// popped from the heap in a batch under lock, then invoked outside the
// lock so a slow callback cannot stall new schedule() calls.
type timerSubsystem struct {
	mu          sync.Mutex
	heap        timerHeap
	nextID      atomic.Uint64
	batchSize   int
	stats       *stats
	logger      Logger
	diagnostics bool

	wake chan struct{}
	stop chan struct{}
	done chan struct{}
}

func newTimerSubsystem(batchSize int, st *stats, logger Logger, diagnostics bool) *timerSubsystem {
	if batchSize <= 0 {
		batchSize = 32
	}
	return &timerSubsystem{
		batchSize:   batchSize,
		stats:       st,
		logger:      logger,
		diagnostics: diagnostics,
		wake:        make(chan struct{}, 1),
		stop:        make(chan struct{}),
		done:        make(chan struct{}),
	}
}

// schedule inserts a new timer entry firing after d and returns it so
// callers may Cancel() it.
func (t *timerSubsystem) schedule(d time.Duration, fn func()) *TimerEntry {
	e := &TimerEntry{id: t.nextID.Add(1), when: time.Now().Add(d), fn: fn}
	if t.diagnostics {
		e.diagID = uuid.NewString()
	}
	t.mu.Lock()
	heap.Push(&t.heap, e)
	t.mu.Unlock()
	select {
	case t.wake <- struct{}{}:
	default:
	}
	return e
}

// runDedicated drives the heap on its own goroutine until stop() is called.
func (t *timerSubsystem) runDedicated() {
	defer close(t.done)
	timer := time.NewTimer(time.Hour)
	defer timer.Stop()

	for {
		t.mu.Lock()
		var wait time.Duration
		if len(t.heap) == 0 {
			wait = time.Hour
		} else {
			wait = time.Until(t.heap[0].when)
			if wait < 0 {
				wait = 0
			}
		}
		t.mu.Unlock()

		if !timer.Stop() {
			select {
			case <-timer.C:
			default:
			}
		}
		timer.Reset(wait)

		select {
		case <-t.stop:
			return
		case <-t.wake:
			continue
		case <-timer.C:
			t.drive()
		}
	}
}

// drive pops and fires every expired entry, up to batchSize at a time.
func (t *timerSubsystem) drive() {
	for {
		fired := t.popExpiredBatch()
		if len(fired) == 0 {
			return
		}
		for _, e := range fired {
			if !e.cancelled.Load() {
				e.fn()
				if t.stats != nil {
					t.stats.timerEvents.Add(1)
				}
				if t.diagnostics && t.logger != nil {
					t.logger.Debug("timer fired", map[string]any{"timer_id": e.id, "diagnostic_id": e.diagID})
				}
			}
		}
		if len(fired) < t.batchSize {
			return
		}
	}
}

func (t *timerSubsystem) popExpiredBatch() []*TimerEntry {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := time.Now()
	var fired []*TimerEntry
	for len(t.heap) > 0 && len(fired) < t.batchSize && !t.heap[0].when.After(now) {
		fired = append(fired, heap.Pop(&t.heap).(*TimerEntry))
	}
	return fired
}

func (t *timerSubsystem) stopAndWait() {
	close(t.stop)
	<-t.done
}
