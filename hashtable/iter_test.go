package hashtable

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kardwell/bufkit/membuf"
)

func TestIterators_VisitEveryLiveEntry(t *testing.T) {
	mgr := membuf.NewHeapManager()
	tb := New[uint64, uint64](mgr, "iter", 32)
	want := map[uint64]uint64{}
	for k := uint64(0); k < 24; k++ {
		tb.Set(k, k*7)
		want[k] = k * 7
	}

	got := map[uint64]uint64{}
	for k, v := range tb.Items() {
		got[k] = v
	}
	assert.Equal(t, want, got)

	keys := map[uint64]bool{}
	for k := range tb.Keys() {
		keys[k] = true
	}
	assert.Len(t, keys, len(want))

	var sum uint64
	for v := range tb.Values() {
		sum += v
	}
	var wantSum uint64
	for _, v := range want {
		wantSum += v
	}
	assert.Equal(t, wantSum, sum)
}

// Sequences are restartable: each range starts a fresh walk.
func TestIterators_Restartable(t *testing.T) {
	mgr := membuf.NewHeapManager()
	tb := New[uint64, uint64](mgr, "restart", 16)
	for k := uint64(0); k < 10; k++ {
		tb.Set(k, k)
	}

	items := tb.Items()
	first, second := 0, 0
	for range items {
		first++
	}
	for range items {
		second++
	}
	assert.Equal(t, 10, first)
	assert.Equal(t, first, second)
}

func TestIterators_EarlyBreak(t *testing.T) {
	mgr := membuf.NewHeapManager()
	tb := New[uint64, uint64](mgr, "break", 16)
	for k := uint64(0); k < 10; k++ {
		tb.Set(k, k)
	}
	n := 0
	for range tb.Keys() {
		n++
		if n == 3 {
			break
		}
	}
	assert.Equal(t, 3, n)
}

// Cells exposes the raw physical array (empties included, sentinel
// excluded) for maintenance code.
func TestCells_RawWalk(t *testing.T) {
	mgr := membuf.NewHeapManager()
	tb := New[uint64, uint64](mgr, "cells", 16)
	tb.Set(1, 1)
	tb.Set(2, 2)

	total := 0
	live := 0
	for i, c := range tb.Cells() {
		require.GreaterOrEqual(t, i, 0)
		total++
		if c.Distance != 0 {
			live++
		}
	}
	assert.Equal(t, int(tb.Capacity()+tb.MaxMissDistance()-1), total)
	assert.Equal(t, 2, live)
}
