// Copyright 2026 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

package lockfree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStackLIFO(t *testing.T) {
	s := NewStack[string]()
	_, ok := s.Pop()
	require.False(t, ok)

	s.Push("a")
	s.Push("b")
	s.Push("c")

	v, ok := s.Pop()
	require.True(t, ok)
	assert.Equal(t, "c", v)

	v, ok = s.Pop()
	require.True(t, ok)
	assert.Equal(t, "b", v)

	v, ok = s.Pop()
	require.True(t, ok)
	assert.Equal(t, "a", v)

	_, ok = s.Pop()
	require.False(t, ok)
}
