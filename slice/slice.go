// Package slice implements a linear append-only view over a membuf.Buffer:
// a growable typed array with a cursor, in the spirit of a C++ push-back
// vector, but relocation-safe.
//
// The element count lives in the buffer's first user-data slot, so a slice
// re-acquired by name via Manager.Find continues where it left off. Capacity
// is derived from the buffer size; Consume grows the buffer through the
// Manager (doubling) when a reservation would not fit.
package slice

import (
	"iter"

	"github.com/kardwell/bufkit/internal/overlay"
	"github.com/kardwell/bufkit/membuf"
)

const slotLen = 0 // user-data slot holding the element count

// Slice is a view over a buffer holding a linear element array.
type Slice[T any] struct {
	mgr membuf.Manager
	buf *membuf.Buffer
}

func checkElemType[T any](name string) {
	if err := overlay.Check[T](); err != nil {
		membuf.Failf(membuf.KindInvalidMemory, "slice %q: element type not buffer-safe: %v", name, err)
	}
}

// PrecomputeSize returns the buffer size for a slice of the given capacity.
func PrecomputeSize[T any](capacity uint64) uint64 {
	return capacity * overlay.Stride[T]()
}

// Init claims a raw buffer as a slice view and resets its cursor.
func Init[T any](mgr membuf.Manager, b *membuf.Buffer) *Slice[T] {
	checkElemType[T](b.Name())
	if err := b.Claim(membuf.TypeSlice); err != nil {
		membuf.Failf(membuf.KindInvalidMemory, "slice %q: init: %v (tag %v)", b.Name(), err, b.TypeID())
	}
	b.UserData[slotLen] = 0
	return &Slice[T]{mgr: mgr, buf: b}
}

// Attach re-wraps a buffer already initialized as a slice view.
func Attach[T any](mgr membuf.Manager, b *membuf.Buffer) *Slice[T] {
	checkElemType[T](b.Name())
	if err := b.CheckType(membuf.TypeSlice); err != nil {
		membuf.Failf(membuf.KindInvalidMemory, "slice %q: attach: %v (tag %v)", b.Name(), err, b.TypeID())
	}
	s := &Slice[T]{mgr: mgr, buf: b}
	if s.Len() > s.Cap() {
		membuf.Failf(membuf.KindInvalidMemory, "slice %q: length %d exceeds capacity %d",
			b.Name(), s.Len(), s.Cap())
	}
	return s
}

// New allocates a named buffer and initializes a slice view with room for
// capacity elements.
func New[T any](mgr membuf.Manager, name string, capacity uint64) *Slice[T] {
	b := mgr.Allocate(name, PrecomputeSize[T](capacity))
	return Init[T](mgr, b)
}

// Buffer returns the underlying buffer handle.
func (s *Slice[T]) Buffer() *membuf.Buffer { return s.buf }

// Len returns the number of live elements.
func (s *Slice[T]) Len() uint64 { return s.buf.UserData[slotLen] }

// Cap returns how many elements fit in the buffer without growing.
func (s *Slice[T]) Cap() uint64 {
	return s.buf.Size() / overlay.Stride[T]()
}

func (s *Slice[T]) elems() []T {
	es, err := overlay.Of[T](s.buf.Bytes(), s.Cap())
	if err != nil {
		membuf.Failf(membuf.KindInvalidMemory, "slice %q: %v", s.buf.Name(), err)
	}
	return es
}

// Consume reserves n untyped elements at the cursor and returns the index of
// the first one. Grows the buffer (at least doubling) when the reservation
// would not fit. The reserved elements' contents are unspecified until
// written.
func (s *Slice[T]) Consume(n uint64) uint64 {
	start := s.Len()
	need := start + n
	if cap := s.Cap(); need > cap {
		s.mgr.Resize(s.buf, PrecomputeSize[T](max(cap*2, need)))
	}
	s.buf.UserData[slotLen] = need
	return start
}

// Push appends one element at the cursor, growing as needed.
func (s *Slice[T]) Push(v T) {
	idx := s.Consume(1)
	s.elems()[idx] = v
}

// At returns the element at index i. Out-of-range access is fatal.
func (s *Slice[T]) At(i uint64) T {
	s.check(i)
	return s.elems()[i]
}

// Set overwrites the element at index i. Out-of-range access is fatal.
func (s *Slice[T]) Set(i uint64, v T) {
	s.check(i)
	s.elems()[i] = v
}

func (s *Slice[T]) check(i uint64) {
	if i >= s.Len() {
		membuf.Failf(membuf.KindInvalidMemory, "slice %q: index %d out of range (len %d)",
			s.buf.Name(), i, s.Len())
	}
}

// Erase removes the half-open range [i, j), closing the gap with a single
// move of the trailing elements and rewinding the cursor.
func (s *Slice[T]) Erase(i, j uint64) {
	n := s.Len()
	if i > j || j > n {
		membuf.Failf(membuf.KindInvalidMemory, "slice %q: bad erase range [%d, %d) with len %d",
			s.buf.Name(), i, j, n)
	}
	if i == j {
		return
	}
	es := s.elems()
	copy(es[i:], es[j:n])
	s.buf.UserData[slotLen] = n - (j - i)
}

// Reset rewinds the cursor to zero without touching element storage.
func (s *Slice[T]) Reset() {
	s.buf.UserData[slotLen] = 0
}

// Items yields live elements in index order. Restartable; mutating the
// slice mid-iteration is not supported.
func (s *Slice[T]) Items() iter.Seq[T] {
	return func(yield func(T) bool) {
		es := s.elems()
		for i := uint64(0); i < s.Len(); i++ {
			if !yield(es[i]) {
				return
			}
		}
	}
}
