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

func TestCancellationSourceCancelOnce(t *testing.T) {
	src := NewCancellationSource()
	tok := src.Token()
	require.False(t, tok.IsCancelled())

	calls := 0
	tok.OnCancel(func(error) { calls++ })

	boom := errors.New("boom")
	src.Cancel(boom)
	src.Cancel(errors.New("second, ignored"))

	assert.True(t, tok.IsCancelled())
	assert.Equal(t, 1, calls)
	assert.ErrorIs(t, tok.Err(), boom)
}

func TestCancellationOnCancelFiresImmediatelyIfAlreadyCancelled(t *testing.T) {
	src := NewCancellationSource()
	src.Cancel(nil)

	fired := false
	ok := src.Token().OnCancel(func(error) { fired = true })
	require.True(t, ok)
	assert.True(t, fired)
}

func TestCancellationCallbackRegistryBounded(t *testing.T) {
	src := NewCancellationSource()
	tok := src.Token()

	for i := 0; i < maxCancellationCallbacks; i++ {
		require.True(t, tok.OnCancel(func(error) {}))
	}
	// the 17th registration must be rejected, not silently dropped
	assert.False(t, tok.OnCancel(func(error) {}))
}

func TestCombinedTokenCancelsOnFirst(t *testing.T) {
	a := NewCancellationSource()
	b := NewCancellationSource()

	combined := CombinedToken(a.Token(), b.Token())
	require.False(t, combined.IsCancelled())

	b.Cancel(errors.New("b went first"))
	assert.True(t, combined.IsCancelled())
}

func TestCombinedTokenAlreadyCancelledInput(t *testing.T) {
	a := NewCancellationSource()
	a.Cancel(errors.New("already gone"))

	combined := CombinedToken(a.Token())
	assert.True(t, combined.IsCancelled())
}
