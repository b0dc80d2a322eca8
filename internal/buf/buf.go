// Package buf contains overflow-safe arithmetic and endian-stable field
// access for the byte regions backing bufkit views.
//
// Header fields written through this package are always little-endian and
// fixed-width, so a view's metadata decodes identically regardless of host
// byte order. The typed cell/element regions are NOT covered by this
// guarantee; they use native in-memory layout and are process-local.
package buf

import (
	"encoding/binary"
	"fmt"
	"math"
)

// ReadU32 reads a little-endian uint32 at off. Returns 0 when out of bounds.
func ReadU32(b []byte, off int) uint32 {
	if off < 0 || off+4 > len(b) {
		return 0
	}
	return binary.LittleEndian.Uint32(b[off:])
}

// ReadU64 reads a little-endian uint64 at off. Returns 0 when out of bounds.
func ReadU64(b []byte, off int) uint64 {
	if off < 0 || off+8 > len(b) {
		return 0
	}
	return binary.LittleEndian.Uint64(b[off:])
}

// PutU32 writes v little-endian at off. Out-of-bounds writes are dropped;
// callers are expected to have validated the region size up front.
func PutU32(b []byte, off int, v uint32) {
	if off < 0 || off+4 > len(b) {
		return
	}
	binary.LittleEndian.PutUint32(b[off:], v)
}

// PutU64 writes v little-endian at off. Out-of-bounds writes are dropped.
func PutU64(b []byte, off int, v uint64) {
	if off < 0 || off+8 > len(b) {
		return
	}
	binary.LittleEndian.PutUint64(b[off:], v)
}

// AddOverflows adds a and b, returning ok = false when the sum would
// overflow uint64.
func AddOverflows(a, b uint64) (uint64, bool) {
	if a > math.MaxUint64-b {
		return 0, false
	}
	return a + b, true
}

// MulOverflows multiplies a and b, returning ok = false on uint64 overflow.
// Used for count * elementStride sizing before any allocation happens.
func MulOverflows(a, b uint64) (uint64, bool) {
	if a == 0 || b == 0 {
		return 0, true
	}
	if a > math.MaxUint64/b {
		return 0, false
	}
	return a * b, true
}

// CheckArrayBounds validates that count elements of stride bytes fit in a
// region of bufLen bytes starting at offset. Returns the end offset, or an
// error naming the specific failure (overflow vs. out of bounds).
func CheckArrayBounds(bufLen, offset, count, stride uint64) (uint64, error) {
	total, ok := MulOverflows(count, stride)
	if !ok {
		return 0, fmt.Errorf("buf: overflow: count=%d * stride=%d", count, stride)
	}
	end, ok := AddOverflows(offset, total)
	if !ok {
		return 0, fmt.Errorf("buf: overflow: offset=%d + size=%d", offset, total)
	}
	if end > bufLen {
		return 0, fmt.Errorf("buf: bounds: end=%d > len=%d", end, bufLen)
	}
	return end, nil
}

// Slice returns b[off:off+n] if it fits within len(b).
func Slice(b []byte, off, n uint64) ([]byte, bool) {
	end, ok := AddOverflows(off, n)
	if !ok || end > uint64(len(b)) {
		return nil, false
	}
	return b[off:end], true
}

// Zero clears b in place.
func Zero(b []byte) {
	clear(b)
}
