package hashtable

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kardwell/bufkit/membuf"
)

func TestStats_HistogramAccountsForEveryEntry(t *testing.T) {
	mgr := membuf.NewHeapManager()
	tb := New[uint64, uint64](mgr, "stats", 64)
	for k := uint64(0); k < 40; k++ {
		tb.Set(k, k)
	}

	st := tb.Stats()
	assert.Equal(t, uint64(40), st.Count)
	assert.Equal(t, uint64(64), st.Capacity)
	assert.InDelta(t, 40.0/64.0, st.LoadFactor, 1e-9)
	require.Len(t, st.ProbeHistogram, int(st.MaxMissDistance))

	var sum uint64
	for _, n := range st.ProbeHistogram {
		sum += n
	}
	assert.Equal(t, st.Count, sum, "every live entry has exactly one probe distance")
	assert.LessOrEqual(t, st.MaxProbe, st.MaxMissDistance)
}

func TestStats_EmptyTable(t *testing.T) {
	mgr := membuf.NewHeapManager()
	tb := New[uint64, uint64](mgr, "emptystats", 16)
	st := tb.Stats()
	assert.Zero(t, st.Count)
	assert.Zero(t, st.MaxProbe)
	assert.Zero(t, st.LoadFactor)
}
