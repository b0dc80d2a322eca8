// Package membuf implements bufkit's buffer memory model: named, relocatable
// raw memory regions handed out by a Manager, and the fatal-diagnostic sink
// every view escalates corruption through.
//
// A Buffer is a stable handle to a region whose address is NOT stable: any
// Resize may move the data. Views therefore hold the *Buffer (or just its
// name, re-acquired via Find) and call Bytes again on every operation instead
// of caching the slice.
package membuf

// TypeID tags which view currently owns the interpretation of a buffer's
// bytes. At most one typed interpretation is active at a time; views check
// the tag before overlaying their metadata onto the region.
type TypeID uint32

const (
	TypeRaw TypeID = iota
	TypeHashTable
	TypeRing
	TypeSlice
	TypeStream
)

func (t TypeID) String() string {
	switch t {
	case TypeRaw:
		return "raw"
	case TypeHashTable:
		return "hashtable"
	case TypeRing:
		return "ring"
	case TypeSlice:
		return "slice"
	case TypeStream:
		return "stream"
	}
	return "unknown"
}

// Buffer describes one named relocatable memory region. Buffers are only
// ever produced by a Manager; the zero value is not usable.
type Buffer struct {
	// UserData is two words of scratch storage reserved for the view that
	// owns the buffer (e.g. the ring keeps its write cursor here so the
	// cursor survives re-acquiring the buffer by name across frames).
	UserData [2]uint64

	name     string
	typeID   TypeID
	data     []byte
	released bool
}

// Name returns the stable identifier the buffer was allocated under.
func (b *Buffer) Name() string { return b.name }

// Size returns the current byte length of the data region.
func (b *Buffer) Size() uint64 { return uint64(len(b.data)) }

// TypeID returns the active typed interpretation of the region.
func (b *Buffer) TypeID() TypeID { return b.typeID }

// Released reports whether the buffer has been released by its Manager.
func (b *Buffer) Released() bool { return b.released }

// Bytes returns the current data region. The slice is invalidated by the
// next Resize or Release on this buffer; re-derive it per operation.
func (b *Buffer) Bytes() []byte {
	if b.released {
		Failf(KindInvalidMemory, "buffer %q: access after release", b.name)
	}
	return b.data
}

// Claim tags the buffer as owned by the given view type. Only an untyped
// (raw) buffer can be claimed; re-claiming under the same tag reports a
// double initialization and any other tag reports type confusion. The caller
// turns the returned sentinel into a fatal diagnostic.
func (b *Buffer) Claim(id TypeID) error {
	switch {
	case b.released:
		return ErrInvalidMemory
	case b.typeID == id:
		return ErrReinitialized
	case b.typeID != TypeRaw:
		return ErrInvalidMemory
	}
	b.typeID = id
	return nil
}

// CheckType verifies the buffer is tagged as id, for views re-attaching to
// an already-initialized buffer.
func (b *Buffer) CheckType(id TypeID) error {
	if b.released || b.typeID != id {
		return ErrInvalidMemory
	}
	return nil
}
