// Copyright 2026 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

package corotask

import "sync"

// destroyChunkSize is the number of handles held per chunk in the
// destroyQueue's chunked linked list.
const destroyChunkSize = 128

type destroyChunk struct {
	handles [destroyChunkSize]*taskHandle
	next    *destroyChunk
	readPos int
	pos     int
}

var destroyChunkPool = sync.Pool{New: func() any { return &destroyChunk{} }}

func newDestroyChunk() *destroyChunk {
	c := destroyChunkPool.Get().(*destroyChunk)
	c.pos, c.readPos, c.next = 0, 0, nil
	return c
}

func returnDestroyChunk(c *destroyChunk) {
	for i := 0; i < c.pos; i++ {
		c.handles[i] = nil
	}
	c.pos, c.readPos, c.next = 0, 0, nil
	destroyChunkPool.Put(c)
}

// destroyQueue is the scheduler's pending-destroy queue: many producer
// goroutines drop Task[T] values, one worker drains it per tick. It uses a
// chunked linked list of pooled chunks, internally mutex-guarded since
// there is no single owning loop thread to hold a lock on producers'
// behalf.
type destroyQueue struct {
	mu     sync.Mutex
	head   *destroyChunk
	tail   *destroyChunk
	length int
}

func newDestroyQueue() *destroyQueue { return &destroyQueue{} }

// push enqueues h for destruction. Safe for concurrent callers.
func (q *destroyQueue) push(h *taskHandle) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.tail == nil {
		q.tail = newDestroyChunk()
		q.head = q.tail
	}
	if q.tail.pos == len(q.tail.handles) {
		nt := newDestroyChunk()
		q.tail.next = nt
		q.tail = nt
	}
	q.tail.handles[q.tail.pos] = h
	q.tail.pos++
	q.length++
}

func (q *destroyQueue) pop() (*taskHandle, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.popLocked()
}

func (q *destroyQueue) popLocked() (*taskHandle, bool) {
	if q.head == nil {
		return nil, false
	}
	if q.head.readPos >= q.head.pos {
		if q.head == q.tail {
			q.head.pos, q.head.readPos = 0, 0
			return nil, false
		}
		old := q.head
		q.head = q.head.next
		returnDestroyChunk(old)
	}
	if q.head.readPos >= q.head.pos {
		return nil, false
	}
	h := q.head.handles[q.head.readPos]
	q.head.handles[q.head.readPos] = nil
	q.head.readPos++
	q.length--
	return h, true
}

// drain pops up to batchSize handles and destroys them.
func (q *destroyQueue) drain(batchSize int) {
	for i := 0; i < batchSize; i++ {
		h, ok := q.pop()
		if !ok {
			return
		}
		h.Destroy()
	}
}
