package ring

import (
	"github.com/kardwell/bufkit/internal/overlay"
	"github.com/kardwell/bufkit/membuf"
)

// Keep selects which end of the ring survives a downsizing resize.
type Keep uint8

const (
	// KeepNewest retains the most recently pushed elements (the tail).
	KeepNewest Keep = iota
	// KeepOldest retains the earliest live elements (the head).
	KeepOldest
)

// Resize changes the ring's capacity. Because the wraparound point moves
// with the array length, elements must be physically rotated into logical
// order; the three cases are:
//
//   - upsize: every element survives, linearized from index 0;
//   - downsize keeping the tail: the newest newCapacity elements survive;
//   - downsize keeping the head: the oldest newCapacity elements survive.
//
// All three run the same way: copy the surviving run in logical order into a
// scratch buffer, let the manager resize (and likely relocate) the primary
// buffer, then write the run back starting at index 0. Cursor and count are
// rewritten to match.
func (r *Ring[T]) Resize(newCapacity uint64, keep Keep) {
	if newCapacity == 0 {
		membuf.Failf(membuf.KindInsufficientMemory, "ring %q: resize to zero capacity", r.buf.Name())
	}
	if newCapacity == r.Capacity() {
		return
	}
	n := r.Len()
	retain := min(n, newCapacity)
	var drop uint64
	if keep == KeepNewest {
		drop = n - retain
	}

	scratch := r.mgr.Allocate(r.buf.Name()+".resize", PrecomputeSize[T](retain))
	ses, err := overlay.Of[T](scratch.Bytes(), retain)
	if err != nil {
		membuf.Failf(membuf.KindInternal, "ring %q: scratch: %v", r.buf.Name(), err)
	}
	for i := uint64(0); i < retain; i++ {
		ses[i] = r.At(drop + i)
	}

	r.mgr.Resize(r.buf, PrecomputeSize[T](newCapacity))
	es := r.elems()
	copy(es[:retain], ses)
	r.buf.UserData[slotCursor] = retain % newCapacity
	r.buf.UserData[slotCount] = retain
	r.mgr.Release(scratch)
}
