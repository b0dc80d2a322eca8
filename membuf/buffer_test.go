package membuf

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuffer_ClaimTransitions(t *testing.T) {
	mgr := NewHeapManager()
	b := mgr.Allocate("claims", 16)

	require.NoError(t, b.Claim(TypeRing))
	assert.Equal(t, TypeRing, b.TypeID())

	// Same tag again is a double init.
	assert.ErrorIs(t, b.Claim(TypeRing), ErrReinitialized)
	// A different tag on a typed buffer is type confusion.
	assert.ErrorIs(t, b.Claim(TypeHashTable), ErrInvalidMemory)
}

func TestBuffer_CheckType(t *testing.T) {
	mgr := NewHeapManager()
	b := mgr.Allocate("check", 16)
	assert.ErrorIs(t, b.CheckType(TypeSlice), ErrInvalidMemory)
	require.NoError(t, b.Claim(TypeSlice))
	assert.NoError(t, b.CheckType(TypeSlice))
	assert.ErrorIs(t, b.CheckType(TypeStream), ErrInvalidMemory)
}

func TestBuffer_UserDataSurvivesResize(t *testing.T) {
	mgr := NewHeapManager()
	b := mgr.Allocate("ud", 16)
	b.UserData[0] = 7
	b.UserData[1] = 9
	mgr.Resize(b, 4096)
	assert.Equal(t, uint64(7), b.UserData[0])
	assert.Equal(t, uint64(9), b.UserData[1])
}

func TestTypeID_Strings(t *testing.T) {
	assert.Equal(t, "raw", TypeRaw.String())
	assert.Equal(t, "hashtable", TypeHashTable.String())
	assert.Equal(t, "ring", TypeRing.String())
	assert.Equal(t, "slice", TypeSlice.String())
	assert.Equal(t, "stream", TypeStream.String())
	assert.Equal(t, "unknown", TypeID(99).String())
}
