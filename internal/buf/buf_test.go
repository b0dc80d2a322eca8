package buf

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPutRead_RoundTrip(t *testing.T) {
	b := make([]byte, 16)
	PutU64(b, 0, 0x1122334455667788)
	PutU32(b, 8, 0xAABBCCDD)

	assert.Equal(t, uint64(0x1122334455667788), ReadU64(b, 0))
	assert.Equal(t, uint32(0xAABBCCDD), ReadU32(b, 8))

	// Little-endian on the wire.
	assert.Equal(t, byte(0x88), b[0])
	assert.Equal(t, byte(0x11), b[7])
	assert.Equal(t, byte(0xDD), b[8])
}

func TestReads_OutOfBoundsReturnZero(t *testing.T) {
	b := make([]byte, 4)
	assert.Zero(t, ReadU64(b, 0))
	assert.Zero(t, ReadU32(b, 1))
	assert.Zero(t, ReadU32(b, -1))
}

func TestPuts_OutOfBoundsAreDropped(t *testing.T) {
	b := make([]byte, 4)
	PutU64(b, 0, 1)
	PutU32(b, 2, 1)
	assert.Equal(t, []byte{0, 0, 0, 0}, b)
}

func TestAddOverflows(t *testing.T) {
	v, ok := AddOverflows(1, 2)
	require.True(t, ok)
	assert.Equal(t, uint64(3), v)

	_, ok = AddOverflows(math.MaxUint64, 1)
	assert.False(t, ok)
}

func TestMulOverflows(t *testing.T) {
	v, ok := MulOverflows(6, 7)
	require.True(t, ok)
	assert.Equal(t, uint64(42), v)

	_, ok = MulOverflows(math.MaxUint64/2, 3)
	assert.False(t, ok)

	v, ok = MulOverflows(0, math.MaxUint64)
	require.True(t, ok)
	assert.Zero(t, v)
}

func TestCheckArrayBounds(t *testing.T) {
	end, err := CheckArrayBounds(100, 10, 9, 10)
	require.NoError(t, err)
	assert.Equal(t, uint64(100), end)

	_, err = CheckArrayBounds(100, 10, 10, 10)
	assert.Error(t, err, "one element too many")

	_, err = CheckArrayBounds(100, 0, math.MaxUint64, 2)
	assert.Error(t, err, "count*stride overflow")

	_, err = CheckArrayBounds(100, math.MaxUint64, 1, 1)
	assert.Error(t, err, "offset+size overflow")
}

func TestSlice(t *testing.T) {
	b := []byte{1, 2, 3, 4}
	s, ok := Slice(b, 1, 2)
	require.True(t, ok)
	assert.Equal(t, []byte{2, 3}, s)

	_, ok = Slice(b, 3, 2)
	assert.False(t, ok)
	_, ok = Slice(b, math.MaxUint64, 1)
	assert.False(t, ok)
}

func TestZero(t *testing.T) {
	b := []byte{1, 2, 3}
	Zero(b)
	assert.Equal(t, []byte{0, 0, 0}, b)
}
