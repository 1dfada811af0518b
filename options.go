// Copyright 2026 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

package corotask

import (
	"time"
)

// TimerDriveMode selects how the timer subsystem is driven.
type TimerDriveMode int

const (
	// TimerDriveDedicatedThread runs the timer heap on its own goroutine
	// with a single time.Timer reset to the earliest deadline.
	TimerDriveDedicatedThread TimerDriveMode = iota
	// TimerDriveSchedulerIntegrated folds timer draining into each
	// worker's tick instead of using a separate goroutine.
	TimerDriveSchedulerIntegrated
)

// config holds resolved Runtime configuration.
type config struct {
	workerCount         int
	timerDriveMode      TimerDriveMode
	readyBatchSize      int
	destroyBatchSize    int
	timerBatchSize      int
	syncWaitDeadline    time.Duration
	loadBalanceScanMask uint64
	diagnostics         bool
	logger              Logger
}

// Option configures a Runtime at construction time.
type Option interface {
	apply(*config) error
}

type optionFunc func(*config) error

func (f optionFunc) apply(c *config) error { return f(c) }

// WithWorkerCount sets the number of scheduler workers. Defaults to
// runtime.GOMAXPROCS(0).
func WithWorkerCount(n int) Option {
	return optionFunc(func(c *config) error {
		c.workerCount = n
		return nil
	})
}

// WithTimerDriver selects the timer subsystem's drive mode.
func WithTimerDriver(mode TimerDriveMode) Option {
	return optionFunc(func(c *config) error {
		c.timerDriveMode = mode
		return nil
	})
}

// WithReadyBatchSize bounds how many ready tasks a worker drains from its
// local deque/the overflow queue per tick before yielding to timers and
// destroy processing.
func WithReadyBatchSize(n int) Option {
	return optionFunc(func(c *config) error {
		c.readyBatchSize = n
		return nil
	})
}

// WithDestroyBatchSize bounds how many pending-destroy handles a worker
// drains per tick.
func WithDestroyBatchSize(n int) Option {
	return optionFunc(func(c *config) error {
		c.destroyBatchSize = n
		return nil
	})
}

// WithTimerBatchSize bounds how many expired timers are dispatched per
// drive-loop iteration.
func WithTimerBatchSize(n int) Option {
	return optionFunc(func(c *config) error {
		c.timerBatchSize = n
		return nil
	})
}

// WithSyncWaitDeadline overrides SyncWait's hard deadline (default 5s).
func WithSyncWaitDeadline(d time.Duration) Option {
	return optionFunc(func(c *config) error {
		c.syncWaitDeadline = d
		return nil
	})
}

// WithLoadBalanceScanInterval sets how often (every Nth pick) the load
// balancer performs a full minimum-load rescan instead of round-robin.
// N must be a power of two; it is stored as a bitmask (N-1).
func WithLoadBalanceScanInterval(n uint64) Option {
	return optionFunc(func(c *config) error {
		if n == 0 {
			n = 16
		}
		c.loadBalanceScanMask = n - 1
		return nil
	})
}

// WithDiagnostics enables per-worker/per-timer UUID correlation ids in
// structured log output.
func WithDiagnostics(enabled bool) Option {
	return optionFunc(func(c *config) error {
		c.diagnostics = enabled
		return nil
	})
}

// WithLogger overrides the Runtime's structured Logger. Defaults to a
// logiface/stumpy-backed logger writing to os.Stderr.
func WithLogger(l Logger) Option {
	return optionFunc(func(c *config) error {
		c.logger = l
		return nil
	})
}

func resolveOptions(opts []Option) (*config, error) {
	cfg := &config{
		workerCount:         0, // resolved to GOMAXPROCS in New
		timerDriveMode:      TimerDriveDedicatedThread,
		readyBatchSize:      64,
		destroyBatchSize:    32,
		timerBatchSize:      32,
		syncWaitDeadline:    5 * time.Second,
		loadBalanceScanMask: 0xF,
	}
	for _, o := range opts {
		if o == nil {
			continue
		}
		if err := o.apply(cfg); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}
