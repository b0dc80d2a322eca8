// Package layout defines the on-buffer header layouts shared by bufkit views
// and the power-of-two arithmetic the hash table's sizing rules are built on.
//
// All header fields are fixed-width little-endian (see internal/buf). Offsets
// here are the single source of truth; views never hand-compute them.
package layout

import "math/bits"

// Hash table header, at the start of the buffer's data region.
//
//	u64 capacity   // power-of-two natural cell count
//	u64 count      // live entries
//	u64 maxMiss    // max allowed probe distance before mandatory resize
//	u64 flags      // low 32 bits: state flags; high 32 bits: cell stride tag
const (
	HTOffCapacity = 0
	HTOffCount    = 8
	HTOffMaxMiss  = 16
	HTOffFlags    = 24
	HTHeaderSize  = 32
)

// Hash table flag bits (low half of the flags word).
const (
	// HTFlagRehashing marks a rehash in progress. A resize triggered while
	// this is set is a structural impossibility and is treated as fatal.
	HTFlagRehashing = 1 << 0
)

// Stream header. The stream needs three words of bookkeeping, one more than
// the buffer's two user-data slots hold, so it lives in the data region.
//
//	u64 readHead
//	u64 writeHead
//	u64 count
const (
	StreamOffReadHead  = 0
	StreamOffWriteHead = 8
	StreamOffCount     = 16
	StreamHeaderSize   = 24
)

// IsPow2 reports whether v is a power of two. Zero is not.
func IsPow2(v uint64) bool {
	return v != 0 && v&(v-1) == 0
}

// NextPow2 rounds v up to the next power of two. NextPow2(0) == 1.
func NextPow2(v uint64) uint64 {
	if v <= 1 {
		return 1
	}
	return 1 << bits.Len64(v-1)
}

// PrevPow2 rounds v down to a power of two. PrevPow2(0) == 0.
func PrevPow2(v uint64) uint64 {
	if v == 0 {
		return 0
	}
	return 1 << (bits.Len64(v) - 1)
}

// CeilLog2 returns ceil(log2(v)) for v >= 1.
func CeilLog2(v uint64) uint64 {
	if v <= 1 {
		return 0
	}
	return uint64(bits.Len64(v - 1))
}

// MaxMiss returns the maximum allowed probe distance for a table of the
// given power-of-two capacity: ceil(log2(capacity)), clamped to at least 1.
func MaxMiss(capacity uint64) uint64 {
	d := CeilLog2(capacity)
	if d < 1 {
		return 1
	}
	return d
}
