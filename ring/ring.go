// Package ring implements a fixed-capacity circular overwrite buffer over a
// membuf.Buffer. Push always succeeds: once the ring is full, the oldest
// element is overwritten.
//
// The ring keeps no header in the data region. Capacity is derived from the
// buffer size, and the two bookkeeping words (write cursor and count) live
// in the buffer's user-data slots, so a ring re-acquired by name via
// Manager.Find in a later frame picks up exactly where it left off.
package ring

import (
	"iter"

	"github.com/kardwell/bufkit/internal/overlay"
	"github.com/kardwell/bufkit/membuf"
)

// User-data slot assignments.
const (
	slotCursor = 0 // next write index, in [0, capacity)
	slotCount  = 1 // live elements, in [0, capacity]
)

// Ring is a view over a buffer holding a circular element array.
type Ring[T any] struct {
	mgr membuf.Manager
	buf *membuf.Buffer
}

func checkElemType[T any](name string) {
	if err := overlay.Check[T](); err != nil {
		membuf.Failf(membuf.KindInvalidMemory, "ring %q: element type not buffer-safe: %v", name, err)
	}
}

// PrecomputeSize returns the buffer size for a ring of the given capacity.
func PrecomputeSize[T any](capacity uint64) uint64 {
	return capacity * overlay.Stride[T]()
}

// Init claims a raw buffer as a ring and resets its cursor and count.
// The capacity is however many whole elements fit in the buffer; a buffer
// too small for even one element is fatal.
func Init[T any](mgr membuf.Manager, b *membuf.Buffer) *Ring[T] {
	checkElemType[T](b.Name())
	if b.Size()/overlay.Stride[T]() == 0 {
		membuf.Failf(membuf.KindInsufficientMemory,
			"ring %q: %d bytes cannot hold one %d-byte element", b.Name(), b.Size(), overlay.Stride[T]())
	}
	if err := b.Claim(membuf.TypeRing); err != nil {
		membuf.Failf(membuf.KindInvalidMemory, "ring %q: init: %v (tag %v)", b.Name(), err, b.TypeID())
	}
	b.UserData[slotCursor] = 0
	b.UserData[slotCount] = 0
	return &Ring[T]{mgr: mgr, buf: b}
}

// Attach re-wraps a buffer already initialized as a ring, preserving its
// cursor and count.
func Attach[T any](mgr membuf.Manager, b *membuf.Buffer) *Ring[T] {
	checkElemType[T](b.Name())
	if err := b.CheckType(membuf.TypeRing); err != nil {
		membuf.Failf(membuf.KindInvalidMemory, "ring %q: attach: %v (tag %v)", b.Name(), err, b.TypeID())
	}
	r := &Ring[T]{mgr: mgr, buf: b}
	if cap := r.Capacity(); b.UserData[slotCursor] >= cap || b.UserData[slotCount] > cap {
		membuf.Failf(membuf.KindInvalidMemory, "ring %q: cursor %d / count %d out of range for capacity %d",
			b.Name(), b.UserData[slotCursor], b.UserData[slotCount], cap)
	}
	return r
}

// New allocates a named buffer and initializes a ring of the given capacity.
func New[T any](mgr membuf.Manager, name string, capacity uint64) *Ring[T] {
	b := mgr.Allocate(name, PrecomputeSize[T](capacity))
	return Init[T](mgr, b)
}

// Buffer returns the underlying buffer handle.
func (r *Ring[T]) Buffer() *membuf.Buffer { return r.buf }

// Capacity returns how many elements the ring holds when full.
func (r *Ring[T]) Capacity() uint64 {
	return r.buf.Size() / overlay.Stride[T]()
}

// Len returns the number of live elements.
func (r *Ring[T]) Len() uint64 {
	return r.buf.UserData[slotCount]
}

func (r *Ring[T]) elems() []T {
	cap := r.Capacity()
	es, err := overlay.Of[T](r.buf.Bytes(), cap)
	if err != nil {
		membuf.Failf(membuf.KindInvalidMemory, "ring %q: %v", r.buf.Name(), err)
	}
	return es
}

// oldest returns the physical index of the logically first element.
// While the ring is filling, writes start at 0; once full, the cursor points
// at the oldest element (the one about to be overwritten).
func (r *Ring[T]) oldest() uint64 {
	if r.Len() < r.Capacity() {
		return 0
	}
	return r.buf.UserData[slotCursor]
}

// Push appends v, overwriting the oldest element when full. Always succeeds.
func (r *Ring[T]) Push(v T) {
	es := r.elems()
	cursor := r.buf.UserData[slotCursor]
	es[cursor] = v
	r.buf.UserData[slotCursor] = (cursor + 1) % r.Capacity()
	if n := r.buf.UserData[slotCount]; n < r.Capacity() {
		r.buf.UserData[slotCount] = n + 1
	}
}

// At returns the i-th element in logical order, oldest first. Indexing at or
// beyond Len is a caller logic error and fatal.
func (r *Ring[T]) At(i uint64) T {
	if i >= r.Len() {
		membuf.Failf(membuf.KindInvalidMemory, "ring %q: index %d out of range (len %d)", r.buf.Name(), i, r.Len())
	}
	es := r.elems()
	return es[(r.oldest()+i)%r.Capacity()]
}

// Items yields live elements oldest to newest. The sequence is restartable;
// mutating the ring mid-iteration is not supported.
func (r *Ring[T]) Items() iter.Seq[T] {
	return func(yield func(T) bool) {
		es := r.elems()
		n := r.Len()
		start := r.oldest()
		cap := r.Capacity()
		for i := uint64(0); i < n; i++ {
			if !yield(es[(start+i)%cap]) {
				return
			}
		}
	}
}
