package slice

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kardwell/bufkit/membuf"
)

func expectFault(t *testing.T, want error, fn func()) {
	t.Helper()
	defer func() {
		r := recover()
		require.NotNil(t, r, "expected a fault, got normal return")
		err, ok := r.(error)
		require.True(t, ok, "fault payload should be an error, got %T", r)
		require.ErrorIs(t, err, want)
	}()
	fn()
}

func collect[T any](s *Slice[T]) []T {
	var out []T
	for v := range s.Items() {
		out = append(out, v)
	}
	return out
}

func TestSlice_PushAndIndex(t *testing.T) {
	mgr := membuf.NewHeapManager()
	s := New[uint64](mgr, "cmds", 8)

	s.Push(10)
	s.Push(20)
	s.Push(30)
	require.Equal(t, uint64(3), s.Len())
	assert.Equal(t, uint64(10), s.At(0))
	assert.Equal(t, uint64(30), s.At(2))

	s.Set(1, 99)
	assert.Equal(t, []uint64{10, 99, 30}, collect(s))
}

func TestSlice_ConsumeReservesRange(t *testing.T) {
	mgr := membuf.NewHeapManager()
	s := New[uint32](mgr, "reserve", 8)

	start := s.Consume(3)
	assert.Equal(t, uint64(0), start)
	assert.Equal(t, uint64(3), s.Len())

	// Reserved elements are writable through Set.
	for i := uint64(0); i < 3; i++ {
		s.Set(start+i, uint32(i)+1)
	}
	assert.Equal(t, []uint32{1, 2, 3}, collect(s))

	next := s.Consume(2)
	assert.Equal(t, uint64(3), next)
	assert.Equal(t, uint64(5), s.Len())
}

// Consume grows the buffer through the manager when the reservation would
// not fit; existing contents survive the relocation.
func TestSlice_GrowsOnDemand(t *testing.T) {
	mgr := membuf.NewHeapManager()
	s := New[uint64](mgr, "grow", 2)
	s.Push(1)
	s.Push(2)

	before := mgr.Stats().Resizes
	s.Push(3)
	assert.Greater(t, mgr.Stats().Resizes, before)
	assert.GreaterOrEqual(t, s.Cap(), uint64(4), "growth at least doubles")
	assert.Equal(t, []uint64{1, 2, 3}, collect(s))
}

func TestSlice_LargeConsumeBeyondDouble(t *testing.T) {
	mgr := membuf.NewHeapManager()
	s := New[uint64](mgr, "bulk", 2)
	start := s.Consume(100)
	assert.Equal(t, uint64(0), start)
	assert.GreaterOrEqual(t, s.Cap(), uint64(100))
}

func TestSlice_EraseClosesGap(t *testing.T) {
	mgr := membuf.NewHeapManager()
	s := New[uint64](mgr, "gap", 8)
	for v := uint64(0); v < 6; v++ {
		s.Push(v)
	}
	s.Erase(1, 4) // drop 1,2,3
	assert.Equal(t, uint64(3), s.Len())
	assert.Equal(t, []uint64{0, 4, 5}, collect(s))

	// Empty range is a no-op.
	s.Erase(2, 2)
	assert.Equal(t, uint64(3), s.Len())
}

func TestSlice_EraseBadRangeIsFatal(t *testing.T) {
	mgr := membuf.NewHeapManager()
	s := New[uint64](mgr, "badrange", 4)
	s.Push(1)
	expectFault(t, membuf.ErrInvalidMemory, func() {
		s.Erase(0, 2)
	})
}

func TestSlice_AtOutOfRangeIsFatal(t *testing.T) {
	mgr := membuf.NewHeapManager()
	s := New[uint64](mgr, "oob", 4)
	expectFault(t, membuf.ErrInvalidMemory, func() {
		s.At(0)
	})
}

func TestSlice_Reset(t *testing.T) {
	mgr := membuf.NewHeapManager()
	s := New[uint64](mgr, "reset", 4)
	s.Push(1)
	s.Push(2)
	s.Reset()
	assert.Equal(t, uint64(0), s.Len())
	assert.Empty(t, collect(s))
}

func TestSlice_CursorSurvivesFind(t *testing.T) {
	mgr := membuf.NewHeapManager()
	s := New[uint64](mgr, "acrossframes", 4)
	s.Push(7)

	found := mgr.Find("acrossframes")
	require.True(t, found.IsSome())
	again := Attach[uint64](mgr, found.Value())
	assert.Equal(t, uint64(1), again.Len())
	assert.Equal(t, uint64(7), again.At(0))
}

func TestSlice_TypeConfusionIsFatal(t *testing.T) {
	mgr := membuf.NewHeapManager()
	b := mgr.Allocate("confused", 64)
	require.NoError(t, b.Claim(membuf.TypeRing))
	expectFault(t, membuf.ErrInvalidMemory, func() {
		Attach[uint64](mgr, b)
	})
	expectFault(t, membuf.ErrInvalidMemory, func() {
		Init[uint64](mgr, b)
	})
}
