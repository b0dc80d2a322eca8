package stream

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

func TestStream_WriteReadFIFO(t *testing.T) {
	mgr := membuf.NewHeapManager()
	s := New[uint32](mgr, "events", 8)

	s.Write(1)
	s.Write(2)
	s.Write(3)
	require.Equal(t, uint64(3), s.Len())

	assert.Equal(t, uint32(1), s.Read().Value())
	assert.Equal(t, uint32(2), s.Read().Value())
	assert.Equal(t, uint64(1), s.Len())

	// Partial fullness: writes and reads interleave freely.
	s.Write(4)
	assert.Equal(t, uint32(3), s.Read().Value())
	assert.Equal(t, uint32(4), s.Read().Value())
	assert.False(t, s.Read().IsSome(), "drained stream reads empty, not fatal")
}

func TestStream_WrapsAroundCapacity(t *testing.T) {
	mgr := membuf.NewHeapManager()
	s := New[uint32](mgr, "wrap", 4)

	// Interleave so the heads wrap the array end several times.
	for v := uint32(1); v <= 10; v++ {
		s.Write(v)
		if v%2 == 0 {
			got := s.Read()
			require.True(t, got.IsSome())
		}
	}
	var out []uint32
	for v := range s.Items() {
		out = append(out, v)
	}
	assert.Equal(t, []uint32{8, 9, 10}, out)
}

func TestStream_FullStreamDropsOldest(t *testing.T) {
	mgr := membuf.NewHeapManager()
	s := New[uint32](mgr, "full", 3)
	for v := uint32(1); v <= 5; v++ {
		s.Write(v)
	}
	assert.Equal(t, uint64(3), s.Len())
	assert.Equal(t, uint32(3), s.Read().Value(), "oldest unread after overwrite is 3")
	assert.Equal(t, uint32(4), s.Read().Value())
	assert.Equal(t, uint32(5), s.Read().Value())
}

func TestStream_Peek(t *testing.T) {
	mgr := membuf.NewHeapManager()
	s := New[uint32](mgr, "peek", 4)
	assert.False(t, s.Peek().IsSome())
	s.Write(42)
	assert.Equal(t, uint32(42), s.Peek().Value())
	assert.Equal(t, uint64(1), s.Len(), "peek does not consume")
}

// Subscripting at or beyond the write position implicitly extends the
// stream. Deliberately odd, but part of the view's contract.
func TestStream_AtExtendsCount(t *testing.T) {
	mgr := membuf.NewHeapManager()
	s := New[uint32](mgr, "extend", 8)
	s.Write(1)

	_ = s.At(4)
	assert.Equal(t, uint64(5), s.Len(), "subscript beyond write head advances count")

	// The extended elements are readable (contents unspecified, here zeroed
	// because the buffer was fresh).
	assert.Equal(t, uint32(1), s.At(0))
	assert.Equal(t, uint32(0), s.At(3))
}

func TestStream_AtBeyondCapacityIsFatal(t *testing.T) {
	mgr := membuf.NewHeapManager()
	s := New[uint32](mgr, "hardstop", 4)
	expectFault(t, membuf.ErrInvalidMemory, func() {
		s.At(4)
	})
}

func TestStream_Reset(t *testing.T) {
	mgr := membuf.NewHeapManager()
	s := New[uint32](mgr, "reset", 4)
	s.Write(1)
	s.Write(2)
	s.Reset()
	assert.Equal(t, uint64(0), s.Len())
	assert.False(t, s.Read().IsSome())
}

func TestStream_HeaderSurvivesFind(t *testing.T) {
	mgr := membuf.NewHeapManager()
	s := New[uint32](mgr, "persist", 4)
	s.Write(5)
	s.Write(6)
	require.Equal(t, uint32(5), s.Read().Value())

	found := mgr.Find("persist")
	require.True(t, found.IsSome())
	again := Attach[uint32](mgr, found.Value())
	assert.Equal(t, uint64(1), again.Len())
	assert.Equal(t, uint32(6), again.Read().Value())
}

func TestStream_InitTooSmallIsFatal(t *testing.T) {
	mgr := membuf.NewHeapManager()
	b := mgr.Allocate("tiny", 8) // header alone needs 24 bytes
	expectFault(t, membuf.ErrInsufficientMemory, func() {
		Init[uint32](mgr, b)
	})
}

func TestStream_DoubleInitIsFatal(t *testing.T) {
	mgr := membuf.NewHeapManager()
	b := mgr.Allocate("dbl", 128)
	Init[uint32](mgr, b)
	expectFault(t, membuf.ErrReinitialized, func() {
		Init[uint32](mgr, b)
	})
}
