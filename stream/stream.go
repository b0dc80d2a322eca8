// Package stream implements a circular buffer with independent read and
// write heads over a membuf.Buffer. Unlike the ring, a stream can be
// partially full: elements are produced at the write head and consumed at
// the read head, with a live count in between.
//
// The stream needs three words of bookkeeping (read head, write head,
// count), one more than the buffer's two user-data slots hold, so its header
// lives at the start of the data region (little-endian, see internal/layout)
// and the element array follows it.
package stream

import (
	"iter"

	"github.com/kardwell/bufkit/internal/buf"
	"github.com/kardwell/bufkit/internal/layout"
	"github.com/kardwell/bufkit/internal/overlay"
	"github.com/kardwell/bufkit/membuf"
	"github.com/kardwell/bufkit/optional"
)

// Stream is a view over a buffer holding a header plus circular element
// array.
type Stream[T any] struct {
	mgr membuf.Manager
	buf *membuf.Buffer
}

type header struct {
	readHead  uint64
	writeHead uint64
	count     uint64
}

func readHeader(data []byte) header {
	return header{
		readHead:  buf.ReadU64(data, layout.StreamOffReadHead),
		writeHead: buf.ReadU64(data, layout.StreamOffWriteHead),
		count:     buf.ReadU64(data, layout.StreamOffCount),
	}
}

func writeHeader(data []byte, h header) {
	buf.PutU64(data, layout.StreamOffReadHead, h.readHead)
	buf.PutU64(data, layout.StreamOffWriteHead, h.writeHead)
	buf.PutU64(data, layout.StreamOffCount, h.count)
}

func checkElemType[T any](name string) {
	if err := overlay.Check[T](); err != nil {
		membuf.Failf(membuf.KindInvalidMemory, "stream %q: element type not buffer-safe: %v", name, err)
	}
}

// PrecomputeSize returns the buffer size for a stream of the given capacity.
func PrecomputeSize[T any](capacity uint64) uint64 {
	return layout.StreamHeaderSize + capacity*overlay.Stride[T]()
}

// Init claims a raw buffer as a stream and zeroes its header. Fatal when the
// buffer cannot hold the header plus at least one element.
func Init[T any](mgr membuf.Manager, b *membuf.Buffer) *Stream[T] {
	checkElemType[T](b.Name())
	if b.Size() < PrecomputeSize[T](1) {
		membuf.Failf(membuf.KindInsufficientMemory,
			"stream %q: %d bytes cannot hold header and one element", b.Name(), b.Size())
	}
	if err := b.Claim(membuf.TypeStream); err != nil {
		membuf.Failf(membuf.KindInvalidMemory, "stream %q: init: %v (tag %v)", b.Name(), err, b.TypeID())
	}
	writeHeader(b.Bytes(), header{})
	return &Stream[T]{mgr: mgr, buf: b}
}

// Attach re-wraps a buffer already initialized as a stream.
func Attach[T any](mgr membuf.Manager, b *membuf.Buffer) *Stream[T] {
	checkElemType[T](b.Name())
	if err := b.CheckType(membuf.TypeStream); err != nil {
		membuf.Failf(membuf.KindInvalidMemory, "stream %q: attach: %v (tag %v)", b.Name(), err, b.TypeID())
	}
	s := &Stream[T]{mgr: mgr, buf: b}
	h := readHeader(b.Bytes())
	if cap := s.Capacity(); h.readHead >= cap || h.writeHead >= cap || h.count > cap {
		membuf.Failf(membuf.KindInvalidMemory, "stream %q: corrupt header (r=%d w=%d n=%d cap=%d)",
			b.Name(), h.readHead, h.writeHead, h.count, cap)
	}
	return s
}

// New allocates a named buffer and initializes a stream of the given
// capacity.
func New[T any](mgr membuf.Manager, name string, capacity uint64) *Stream[T] {
	b := mgr.Allocate(name, PrecomputeSize[T](capacity))
	return Init[T](mgr, b)
}

// Buffer returns the underlying buffer handle.
func (s *Stream[T]) Buffer() *membuf.Buffer { return s.buf }

// Capacity returns how many elements the stream holds when full.
func (s *Stream[T]) Capacity() uint64 {
	return (s.buf.Size() - layout.StreamHeaderSize) / overlay.Stride[T]()
}

// Len returns the number of unread elements.
func (s *Stream[T]) Len() uint64 {
	return readHeader(s.buf.Bytes()).count
}

func (s *Stream[T]) state() (header, []T) {
	data := s.buf.Bytes()
	h := readHeader(data)
	es, err := overlay.Of[T](data[layout.StreamHeaderSize:], s.Capacity())
	if err != nil {
		membuf.Failf(membuf.KindInvalidMemory, "stream %q: %v", s.buf.Name(), err)
	}
	return h, es
}

// Write produces one element at the write head. When the stream is full the
// oldest unread element is dropped (the read head advances with the write
// head).
func (s *Stream[T]) Write(v T) {
	h, es := s.state()
	cap := s.Capacity()
	es[h.writeHead] = v
	h.writeHead = (h.writeHead + 1) % cap
	if h.count == cap {
		h.readHead = (h.readHead + 1) % cap
	} else {
		h.count++
	}
	writeHeader(s.buf.Bytes(), h)
}

// Read consumes one element at the read head. Empty stream reports an empty
// optional; absence is a normal result, never fatal.
func (s *Stream[T]) Read() optional.Of[T] {
	h, es := s.state()
	if h.count == 0 {
		return optional.None[T]()
	}
	v := es[h.readHead]
	h.readHead = (h.readHead + 1) % s.Capacity()
	h.count--
	writeHeader(s.buf.Bytes(), h)
	return optional.Some(v)
}

// Peek returns the element at the read head without consuming it.
func (s *Stream[T]) Peek() optional.Of[T] {
	h, es := s.state()
	if h.count == 0 {
		return optional.None[T]()
	}
	return optional.Some(es[h.readHead])
}

// At returns the i-th unread element, counted from the read head.
//
// Indexing at or beyond the current write position implicitly extends the
// stream: count and the write head advance so that index i becomes valid,
// and the uncovered elements keep whatever bytes the region already held.
// This mirrors the subscript affordance of the engine API this package
// reimplements; it is easy to misuse, so prefer Write/Read where possible.
// Indexing at or beyond capacity is fatal.
func (s *Stream[T]) At(i uint64) T {
	cap := s.Capacity()
	if i >= cap {
		membuf.Failf(membuf.KindInvalidMemory, "stream %q: index %d out of range (capacity %d)",
			s.buf.Name(), i, cap)
	}
	h, es := s.state()
	if i >= h.count {
		h.count = i + 1
		h.writeHead = (h.readHead + h.count) % cap
		writeHeader(s.buf.Bytes(), h)
	}
	return es[(h.readHead+i)%cap]
}

// Reset discards all unread elements and rewinds both heads.
func (s *Stream[T]) Reset() {
	writeHeader(s.buf.Bytes(), header{})
}

// Items yields unread elements from the read head to the write head without
// consuming them. Restartable; mutating the stream mid-iteration is not
// supported.
func (s *Stream[T]) Items() iter.Seq[T] {
	return func(yield func(T) bool) {
		h, es := s.state()
		cap := s.Capacity()
		for i := uint64(0); i < h.count; i++ {
			if !yield(es[(h.readHead+i)%cap]) {
				return
			}
		}
	}
}
