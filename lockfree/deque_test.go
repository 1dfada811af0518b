// Copyright 2026 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

package lockfree

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDequeOwnerPushPopLIFO(t *testing.T) {
	d := NewDeque[int](8)
	for i := 0; i < 5; i++ {
		d.PushBottom(i)
	}
	for i := 4; i >= 0; i-- {
		v, ok := d.PopBottom()
		require.True(t, ok)
		assert.Equal(t, i, v)
	}
	_, ok := d.PopBottom()
	require.False(t, ok)
}

func TestDequeStealFIFO(t *testing.T) {
	d := NewDeque[int](8)
	for i := 0; i < 5; i++ {
		d.PushBottom(i)
	}
	v, ok := d.Steal()
	require.True(t, ok)
	assert.Equal(t, 0, v)

	v, ok = d.Steal()
	require.True(t, ok)
	assert.Equal(t, 1, v)
}

func TestDequeGrowsUnderLoad(t *testing.T) {
	d := NewDeque[int](2)
	const n = 1000
	for i := 0; i < n; i++ {
		d.PushBottom(i)
	}
	seen := 0
	for {
		if _, ok := d.PopBottom(); !ok {
			break
		}
		seen++
	}
	assert.Equal(t, n, seen)
}

func TestDequeConcurrentStealersDoNotDuplicate(t *testing.T) {
	d := NewDeque[int](16)
	const n = 2000
	for i := 0; i < n; i++ {
		d.PushBottom(i)
	}

	results := make(chan int, n)
	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				if v, ok := d.Steal(); ok {
					results <- v
					continue
				}
				if d.Len() <= 0 {
					return
				}
			}
		}()
	}

	wg.Wait()
	close(results)

	seen := map[int]bool{}
	count := 0
	for v := range results {
		assert.False(t, seen[v], "value %d stolen more than once", v)
		seen[v] = true
		count++
	}
	assert.Equal(t, n, count)
}
