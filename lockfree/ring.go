// Copyright 2026 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

package lockfree

import (
	"sync"
	"sync/atomic"
)

// Sizing constants for the SPSC ring's default capacity and overflow
// behavior.
const (
	RingBufferSize              = 4096
	ringSeqSkip                 = 1 << 63
	RingOverflowInitCap         = 1024
	RingOverflowCompactThresh   = 512
)

type ringCell[T any] struct {
	seq   atomic.Uint64
	value T
}

// Ring is a single-producer/single-consumer lock-free ring buffer with a
// slice-backed overflow path for bursts beyond RingBufferSize, compacting
// the overflow slice back down once it drains below a threshold. The
// scheduler and the timer subsystem do not use it; the timer's wake
// notifications go through a buffered channel.
type Ring[T any] struct {
	buf  [RingBufferSize]ringCell[T]
	head atomic.Uint64 // consumer cursor
	tail atomic.Uint64 // producer cursor

	overflowMu sync.Mutex
	overflow   []T
}

// NewRing constructs an empty ring, pre-seeding each cell's sequence so the
// classic Vyukov bounded-queue invariant (seq == pos) holds from the start.
func NewRing[T any]() *Ring[T] {
	r := &Ring[T]{}
	for i := range r.buf {
		r.buf[i].seq.Store(uint64(i))
	}
	r.overflow = make([]T, 0, RingOverflowInitCap)
	return r
}

// Push enqueues value, falling back to the overflow slice if the ring is
// momentarily full (the single consumer will drain the ring first, then
// the overflow, in Pop).
func (r *Ring[T]) Push(value T) {
	pos := r.tail.Load()
	cell := &r.buf[pos%RingBufferSize]
	if cell.seq.Load() == pos {
		cell.value = value
		cell.seq.Store(pos + 1)
		r.tail.Store(pos + 1)
		return
	}
	r.overflowMu.Lock()
	r.overflow = append(r.overflow, value)
	r.overflowMu.Unlock()
}

// Pop dequeues the oldest value, checking the ring before the overflow
// slice so FIFO order across the fallback path holds as closely as a
// two-tier structure allows.
func (r *Ring[T]) Pop() (value T, ok bool) {
	pos := r.head.Load()
	cell := &r.buf[pos%RingBufferSize]
	if cell.seq.Load() == pos+1 {
		v := cell.value
		var zero T
		cell.value = zero
		cell.seq.Store(pos + RingBufferSize)
		r.head.Store(pos + 1)
		return v, true
	}

	r.overflowMu.Lock()
	defer r.overflowMu.Unlock()
	if len(r.overflow) == 0 {
		var zero T
		return zero, false
	}
	v := r.overflow[0]
	var zero T
	r.overflow[0] = zero
	r.overflow = r.overflow[1:]
	if cap(r.overflow) > RingOverflowCompactThresh && len(r.overflow) < RingOverflowCompactThresh/2 {
		compacted := make([]T, len(r.overflow), RingOverflowInitCap)
		copy(compacted, r.overflow)
		r.overflow = compacted
	}
	return v, true
}
