// Copyright 2026 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

package corotask

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRuntime(t *testing.T) *Runtime {
	t.Helper()
	rt, err := New(WithWorkerCount(4))
	require.NoError(t, err)
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = rt.Close(ctx)
	})
	return rt
}

// S1: a spawned Task's result is observable via Await/SyncWait.
func TestScenarioBasicTaskResult(t *testing.T) {
	rt := newTestRuntime(t)

	task := Spawn(rt, func(ctx context.Context, tok *CancellationToken) (int, error) {
		return 42, nil
	})

	v, err := SyncWait(rt, &task)
	require.NoError(t, err)
	assert.Equal(t, 42, v)
	assert.True(t, task.IsFulfilled())
}

// S2: two tasks sleeping for different durations complete in sleep order.
func TestScenarioSleepOrdering(t *testing.T) {
	rt := newTestRuntime(t)

	var mu sync.Mutex
	var order []string

	slow := Spawn(rt, func(ctx context.Context, tok *CancellationToken) (struct{}, error) {
		if err := SleepFor(ctx, rt, 60*time.Millisecond); err != nil {
			return struct{}{}, err
		}
		mu.Lock()
		order = append(order, "slow")
		mu.Unlock()
		return struct{}{}, nil
	})
	fast := Spawn(rt, func(ctx context.Context, tok *CancellationToken) (struct{}, error) {
		if err := SleepFor(ctx, rt, 10*time.Millisecond); err != nil {
			return struct{}{}, err
		}
		mu.Lock()
		order = append(order, "fast")
		mu.Unlock()
		return struct{}{}, nil
	})

	_, err := SyncWait(rt, &slow)
	require.NoError(t, err)
	_, err = SyncWait(rt, &fast)
	require.NoError(t, err)

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, order, 2)
	assert.Equal(t, []string{"fast", "slow"}, order)
}

// S3: WhenAny resolves to whichever task settles earliest.
func TestScenarioWhenAnyPicksEarliest(t *testing.T) {
	rt := newTestRuntime(t)

	ctx := context.Background()
	slow := Spawn(rt, func(ctx context.Context, tok *CancellationToken) (string, error) {
		if err := SleepFor(ctx, rt, 100*time.Millisecond); err != nil {
			return "", err
		}
		return "slow", nil
	})
	fast := Spawn(rt, func(ctx context.Context, tok *CancellationToken) (string, error) {
		if err := SleepFor(ctx, rt, 5*time.Millisecond); err != nil {
			return "", err
		}
		return "fast", nil
	})

	result, err := WhenAny(ctx, []*Task[string]{&slow, &fast})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Index)
	assert.Equal(t, "fast", result.Value)
}

// S4: a Runtime-driven timeout cancels the token a task body observes.
func TestScenarioTimeoutCancellation(t *testing.T) {
	rt := newTestRuntime(t)

	src := rt.Timeout(20 * time.Millisecond)
	tok := src.Token()

	task := Spawn(rt, func(ctx context.Context, _ *CancellationToken) (int, error) {
		ticker := time.NewTicker(2 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return 0, ctx.Err()
			case <-ticker.C:
				if tok.IsCancelled() {
					return 0, tok.Err()
				}
			}
		}
	})

	_, err := SyncWait(rt, &task)
	require.Error(t, err)
	assert.True(t, task.IsRejected())
}

// S5: an AsyncPromise set from a foreign goroutine is observable by an
// awaiting Task body.
func TestScenarioAsyncPromiseCrossThread(t *testing.T) {
	rt := newTestRuntime(t)

	ap := NewAsyncPromise[string](rt)

	task := Spawn(rt, func(ctx context.Context, _ *CancellationToken) (string, error) {
		return ap.Await(ctx)
	})

	go func() {
		time.Sleep(10 * time.Millisecond)
		ap.Set("delivered")
	}()

	v, err := SyncWait(rt, &task)
	require.NoError(t, err)
	assert.Equal(t, "delivered", v)
}

// S6: dropping 1000 concurrently-completing tasks never double-destroys a
// handle and never panics the runtime.
func TestScenarioConcurrentDropNoDoubleDestroy(t *testing.T) {
	rt := newTestRuntime(t)

	const n = 1000
	tasks := make([]Task[int], n)
	for i := 0; i < n; i++ {
		tasks[i] = Spawn(rt, func(ctx context.Context, _ *CancellationToken) (int, error) {
			return 0, nil
		})
	}

	var wg sync.WaitGroup
	wg.Add(n)
	for i := range tasks {
		i := i
		go func() {
			defer wg.Done()
			tasks[i].Drop(rt)
			tasks[i].Drop(rt) // double-drop must be a safe no-op
		}()
	}
	wg.Wait()
}
