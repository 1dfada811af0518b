// Copyright 2026 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

package corotask

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSettledHandle(state promiseState) *taskHandle {
	return newTaskHandle(0, func() {}, func() {}, func() promiseState { return state }, func(error) {})
}

func TestRegistryScavengeRemovesSettledHandles(t *testing.T) {
	r := newRegistry()

	pending := newSettledHandle(promisePending)
	settled := newSettledHandle(promiseFulfilled)

	idPending := r.register(pending)
	idSettled := r.register(settled)

	r.Scavenge(16)

	r.mu.RLock()
	_, stillHasPending := r.data[idPending]
	_, stillHasSettled := r.data[idSettled]
	r.mu.RUnlock()

	assert.True(t, stillHasPending, "a pending handle must not be scavenged")
	assert.False(t, stillHasSettled, "a settled handle must be scavenged")
}

func TestRegistryRejectAllRejectsPendingOnly(t *testing.T) {
	r := newRegistry()

	var rejectedWith error
	pending := newTaskHandle(0, func() {}, func() {}, func() promiseState { return promisePending }, func(err error) {
		rejectedWith = err
	})
	r.register(pending)

	settledRejected := false
	settled := newTaskHandle(0, func() {}, func() {}, func() promiseState { return promiseFulfilled }, func(error) {
		settledRejected = true
	})
	r.register(settled)

	boom := errors.New("shutdown")
	r.RejectAll(boom)

	require.Error(t, rejectedWith)
	assert.ErrorIs(t, rejectedWith, boom)
	assert.False(t, settledRejected, "a settled handle must not be rejected")

	r.mu.RLock()
	defer r.mu.RUnlock()
	assert.Empty(t, r.data)
}
