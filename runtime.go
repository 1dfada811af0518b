// Copyright 2026 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

package corotask

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"github.com/arcflow/corotask/lockfree"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Runtime is the process-wide handle bundling the Scheduler, the Timer
// subsystem, and Stats counters. Constructed via New(...Option); Default()
// lazily provides a convenience singleton for callers that want global
// mutable state without managing a Runtime value themselves.
type Runtime struct {
	cfg          *config
	workers      []*worker
	global       *lockfree.Queue[*taskHandle]
	lb           *loadBalancer
	timers       *timerSubsystem
	registry     *registry
	destroyQueue *destroyQueue
	stats        *stats
	logger       Logger
	workWake     chan struct{}
	state        *fastState

	eg *errgroup.Group
}

// New constructs and starts a Runtime with the given options.
func New(opts ...Option) (*Runtime, error) {
	cfg, err := resolveOptions(opts)
	if err != nil {
		return nil, fmt.Errorf("corotask: resolving options: %w", err)
	}
	if cfg.workerCount <= 0 {
		cfg.workerCount = runtime.GOMAXPROCS(0)
	}
	if cfg.workerCount > maxLoadBalancerWorkers {
		cfg.workerCount = maxLoadBalancerWorkers
	}
	if cfg.logger == nil {
		cfg.logger = defaultLogger()
	}

	st := &stats{}
	rt := &Runtime{
		cfg:          cfg,
		global:       lockfree.NewQueue[*taskHandle](),
		lb:           newLoadBalancer(cfg.workerCount, cfg.loadBalanceScanMask, cfg.logger),
		timers:       newTimerSubsystem(cfg.timerBatchSize, st, cfg.logger, cfg.diagnostics),
		registry:     newRegistry(),
		destroyQueue: newDestroyQueue(),
		stats:        st,
		logger:       cfg.logger,
		workWake:     make(chan struct{}, 1),
		state:        newFastState(),
	}

	rt.workers = make([]*worker, cfg.workerCount)
	for i := range rt.workers {
		rt.workers[i] = newWorker(i, rt)
	}

	if !rt.state.TryTransition(stateCreated, stateRunning) {
		return nil, fmt.Errorf("corotask: runtime already started")
	}

	eg := &errgroup.Group{}
	for _, w := range rt.workers {
		w := w
		eg.Go(func() error {
			w.run()
			return nil
		})
	}
	if cfg.timerDriveMode == TimerDriveDedicatedThread {
		eg.Go(func() error {
			rt.timers.runDedicated()
			return nil
		})
	}
	rt.eg = eg

	startFields := map[string]any{"workers": cfg.workerCount}
	if cfg.diagnostics {
		startFields["instance_id"] = uuid.NewString()
	}
	rt.logger.Info("runtime started", startFields)
	return rt, nil
}

var (
	defaultRuntimeOnce sync.Once
	defaultRuntimeInst *Runtime
	defaultRuntimeErr  error
)

// Default returns a process-wide Runtime, constructing it with default
// options on first use.
func Default() (*Runtime, error) {
	defaultRuntimeOnce.Do(func() {
		defaultRuntimeInst, defaultRuntimeErr = New()
	})
	return defaultRuntimeInst, defaultRuntimeErr
}

// Stats returns a point-in-time snapshot of runtime counters.
func (rt *Runtime) Stats() Stats { return rt.stats.snapshot() }

// LoadStats returns per-worker load counters, for diagnostics.
func (rt *Runtime) LoadStats() []int64 { return rt.lb.LoadStats() }

// Close drains pending work and stops every worker and the timer
// goroutine, then rejects any still-pending promises so no awaiter blocks
// forever: with ErrDestroyed, or, if ctx ends before the workers have
// stopped, with an ErrorInvalidOperation *Error carrying ctx's error
// message.
func (rt *Runtime) Close(ctx context.Context) error {
	if !rt.state.TryTransition(stateRunning, stateDraining) {
		return nil
	}

	for _, w := range rt.workers {
		close(w.stop)
	}
	if rt.cfg.timerDriveMode == TimerDriveDedicatedThread {
		rt.timers.stopAndWait()
	}

	done := make(chan error, 1)
	go func() { done <- rt.eg.Wait() }()

	var err error
	select {
	case err = <-done:
	case <-ctx.Done():
		err = ctx.Err()
	}

	rejectReason := ErrDestroyed
	if err != nil {
		rejectReason = &Error{Kind: ErrorInvalidOperation, Message: err.Error()}
	}
	rt.registry.RejectAll(rejectReason)

	rt.state.TryTransition(stateDraining, stateStopped)
	rt.logger.Info("runtime stopped", map[string]any{"error": err})
	return err
}
