// Copyright 2026 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

package corotask

import (
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"
)

// maxLoadBalancerWorkers bounds the number of workers a single loadBalancer
// can track in its fixed-size load array.
const maxLoadBalancerWorkers = 32

// overloadImbalanceThreshold is how far apart the busiest and idlest
// worker's load counters must drift, observed during a full scan, before
// an overload warning is considered for logging.
const overloadImbalanceThreshold = 64

// loadBalancer selects which worker a newly spawned or resumed task should
// land on: round-robin for the common case, with a full minimum-load scan
// every Nth pick (the scanMask bit pattern, default every 16th) to correct
// drift.
type loadBalancer struct {
	load        [maxLoadBalancerWorkers]atomic.Int64
	roundRobin  atomic.Uint64
	workerCount int
	scanMask    uint64

	logger          Logger
	overloadLimiter *rate.Limiter
}

func newLoadBalancer(workerCount int, scanMask uint64, logger Logger) *loadBalancer {
	if workerCount > maxLoadBalancerWorkers {
		workerCount = maxLoadBalancerWorkers
	}
	return &loadBalancer{
		workerCount:     workerCount,
		scanMask:        scanMask,
		logger:          logger,
		overloadLimiter: rate.NewLimiter(rate.Every(time.Second), 1),
	}
}

// Select returns the index of the worker that should receive the next
// task.
func (lb *loadBalancer) Select() int {
	pick := lb.roundRobin.Add(1) - 1

	if pick&lb.scanMask == 0 {
		minIdx, maxIdx := 0, 0
		minLoad, maxLoad := lb.load[0].Load(), lb.load[0].Load()
		for i := 1; i < lb.workerCount; i++ {
			l := lb.load[i].Load()
			if l < minLoad {
				minLoad = l
				minIdx = i
			}
			if l > maxLoad {
				maxLoad = l
				maxIdx = i
			}
		}
		lb.warnIfOverloaded(minIdx, maxIdx, minLoad, maxLoad)
		return minIdx
	}

	return int(pick % uint64(lb.workerCount))
}

// warnIfOverloaded rate-limits a structured warning when a full scan
// observes a wide load gap between the busiest and idlest worker, a signal
// the round-robin fast path is failing to keep work balanced.
func (lb *loadBalancer) warnIfOverloaded(minIdx, maxIdx int, minLoad, maxLoad int64) {
	if lb.logger == nil || maxLoad-minLoad < overloadImbalanceThreshold {
		return
	}
	if !lb.overloadLimiter.Allow() {
		return
	}
	lb.logger.Warn("worker load imbalance detected", map[string]any{
		"busiest_worker": maxIdx, "busiest_load": maxLoad,
		"idlest_worker": minIdx, "idlest_load": minLoad,
	})
}

// IncrementLoad records that idx has taken on one more unit of work.
func (lb *loadBalancer) IncrementLoad(idx int) { lb.load[idx].Add(1) }

// DecrementLoad records that idx has completed one unit of work.
func (lb *loadBalancer) DecrementLoad(idx int) { lb.load[idx].Add(-1) }

// LoadStats returns a snapshot of per-worker load, for diagnostics.
func (lb *loadBalancer) LoadStats() []int64 {
	out := make([]int64, lb.workerCount)
	for i := 0; i < lb.workerCount; i++ {
		out[i] = lb.load[i].Load()
	}
	return out
}
