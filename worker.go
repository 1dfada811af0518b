// Copyright 2026 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

package corotask

import (
	"sync/atomic"

	"github.com/arcflow/corotask/lockfree"
	"github.com/google/uuid"
)

// inboxHighWatermark bounds how many handles may be queued for a single
// worker before new resumes targeting it fall back to the shared global
// queue instead of waiting on that worker to drain.
const inboxHighWatermark = 256

// worker owns one local work-stealing deque and an inbox other goroutines
// hand resumes to. Only the worker's own run goroutine ever pushes onto
// local, preserving the deque's single-producer contract; external
// producers go through inbox, which the worker drains into local on its
// own turn.
type worker struct {
	idx      int
	rt       *Runtime
	local    *lockfree.Deque[*taskHandle]
	inbox    *lockfree.Queue[*taskHandle]
	inboxLen atomic.Int64
	stop     chan struct{}
	done     chan struct{}
	diagID   string
}

func newWorker(idx int, rt *Runtime) *worker {
	w := &worker{
		idx:   idx,
		rt:    rt,
		local: lockfree.NewDeque[*taskHandle](256),
		inbox: lockfree.NewQueue[*taskHandle](),
		stop:  make(chan struct{}),
		done:  make(chan struct{}),
	}
	if rt.cfg.diagnostics {
		w.diagID = uuid.NewString()
	}
	return w
}

// tryEnqueue hands h to this worker's inbox, returning false if the inbox
// is already backed up past inboxHighWatermark.
func (w *worker) tryEnqueue(h *taskHandle) bool {
	if w.inboxLen.Load() >= inboxHighWatermark {
		return false
	}
	w.inbox.Push(h)
	w.inboxLen.Add(1)
	return true
}

// pushLocal is only safe to call from this worker's own run goroutine.
func (w *worker) pushLocal(h *taskHandle) {
	w.local.PushBottom(h)
}

// drainInbox moves every handle waiting in the inbox onto the local deque.
func (w *worker) drainInbox() {
	for {
		h, ok := w.inbox.Pop()
		if !ok {
			return
		}
		w.inboxLen.Add(-1)
		w.pushLocal(h)
	}
}

func (w *worker) run() {
	defer close(w.done)

	batch := w.rt.cfg.readyBatchSize
	for {
		select {
		case <-w.stop:
			w.drainRemaining()
			return
		default:
		}

		w.drainInbox()

		processed := 0
		for processed < batch {
			h, ok := w.local.PopBottom()
			if !ok {
				h, ok = w.rt.global.Pop()
			}
			if !ok {
				h, ok = w.stealFromPeers()
			}
			if !ok {
				break
			}
			w.rt.lb.DecrementLoad(w.idx)
			w.execute(h)
			processed++
			w.rt.stats.schedulerInvocations.Add(1)
		}

		w.rt.destroyQueue.drain(w.rt.cfg.destroyBatchSize)
		w.rt.registry.Scavenge(64)
		if w.rt.cfg.timerDriveMode == TimerDriveSchedulerIntegrated {
			w.rt.timers.drive()
		}

		if processed == 0 {
			select {
			case <-w.stop:
				w.drainRemaining()
				return
			case <-w.rt.workWake:
			case <-timeAfterIdle():
			}
		}
	}
}

func (w *worker) stealFromPeers() (*taskHandle, bool) {
	for i, peer := range w.rt.workers {
		if i == w.idx {
			continue
		}
		if h, ok := peer.local.Steal(); ok {
			return h, true
		}
	}
	return nil, false
}

func (w *worker) execute(h *taskHandle) {
	defer func() {
		if r := recover(); r != nil {
			fields := map[string]any{"worker": w.idx, "panic": r}
			if w.diagID != "" {
				fields["diagnostic_id"] = w.diagID
			}
			w.rt.logger.Error("task resume panicked", nil, fields)
		}
	}()
	h.Resume()
}

// drainRemaining is called once after stop is signalled, to give queued
// work one last chance to run before shutdown finishes.
func (w *worker) drainRemaining() {
	w.drainInbox()
	for i := 0; i < w.rt.cfg.destroyBatchSize; i++ {
		h, ok := w.local.PopBottom()
		if !ok {
			break
		}
		w.execute(h)
	}
}
