// Copyright 2026 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

package corotask

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRuntimeNewDefaultsWorkerCountToGOMAXPROCS(t *testing.T) {
	rt, err := New()
	require.NoError(t, err)
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = rt.Close(ctx)
	}()
	assert.Greater(t, rt.cfg.workerCount, 0)
}

func TestRuntimeStatsCountCreatedAndCompleted(t *testing.T) {
	rt := newTestRuntime(t)

	task := Spawn(rt, func(ctx context.Context, _ *CancellationToken) (int, error) {
		return 1, nil
	})
	_, err := SyncWait(rt, &task)
	require.NoError(t, err)

	snap := rt.Stats()
	assert.Equal(t, uint64(1), snap.TasksCreated)
	assert.Equal(t, uint64(1), snap.TasksCompleted)
}

func TestRuntimeCloseRejectsPendingPromises(t *testing.T) {
	rt, err := New(WithWorkerCount(2))
	require.NoError(t, err)

	blocker := make(chan struct{})
	task := Spawn(rt, func(ctx context.Context, _ *CancellationToken) (int, error) {
		<-blocker
		return 0, nil
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, rt.Close(ctx))

	_, err = task.Await(context.Background())
	assert.Error(t, err, "a never-settled task must be rejected by Close")
	close(blocker)
}

func TestYieldRoundTripsThroughScheduler(t *testing.T) {
	rt := newTestRuntime(t)

	task := Spawn(rt, func(ctx context.Context, _ *CancellationToken) (int, error) {
		for i := 0; i < 5; i++ {
			if err := Yield(ctx, rt); err != nil {
				return 0, err
			}
		}
		return 7, nil
	})

	v, err := SyncWait(rt, &task)
	require.NoError(t, err)
	assert.Equal(t, 7, v)
}
