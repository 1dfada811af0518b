// Copyright 2026 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

package corotask

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveOptionsDefaults(t *testing.T) {
	cfg, err := resolveOptions(nil)
	require.NoError(t, err)
	assert.Equal(t, 5*time.Second, cfg.syncWaitDeadline)
	assert.Equal(t, TimerDriveDedicatedThread, cfg.timerDriveMode)
	assert.Equal(t, uint64(0xF), cfg.loadBalanceScanMask)
}

func TestWithLoadBalanceScanIntervalPowerOfTwoMask(t *testing.T) {
	cfg, err := resolveOptions([]Option{WithLoadBalanceScanInterval(8)})
	require.NoError(t, err)
	assert.Equal(t, uint64(7), cfg.loadBalanceScanMask)
}

func TestWithSyncWaitDeadlineOverride(t *testing.T) {
	cfg, err := resolveOptions([]Option{WithSyncWaitDeadline(250 * time.Millisecond)})
	require.NoError(t, err)
	assert.Equal(t, 250*time.Millisecond, cfg.syncWaitDeadline)
}
