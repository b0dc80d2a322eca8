// Package hashtable implements a Robin Hood open-addressing hash table laid
// out directly inside a membuf.Buffer, so the whole table survives the
// buffer being resized and relocated by its Manager.
//
// Layout of the data region:
//
//	header (32 bytes, little-endian, see internal/layout)
//	cells  (capacity + maxMiss elements of Cell[K, V], native layout)
//
// The cell array is over-allocated by maxMiss = max(ceil(log2(capacity)), 1)
// cells beyond the power-of-two capacity. Probing never wraps: a key hashed
// to natural index i can only live in [i, i+maxMiss), and the very last cell
// is a permanently empty sentinel, so probe loops need no bounds checks.
//
// Cell.Distance is a 1-based probe distance; 0 means empty. That encoding is
// deliberate: zero-filling the region makes every cell simultaneously empty,
// with no separate occupancy flag.
//
// Get returns an owning copy of the value, never a reference into the cell
// array. Any Set may displace existing entries (that is the Robin Hood
// rule), and any growth relocates the whole buffer, so a reference-returning
// lookup would be a standing invalidation hazard.
package hashtable

import (
	"errors"

	"github.com/kardwell/bufkit/internal/buf"
	"github.com/kardwell/bufkit/internal/layout"
	"github.com/kardwell/bufkit/internal/overlay"
	"github.com/kardwell/bufkit/membuf"
	"github.com/kardwell/bufkit/optional"
)

// Cell is one slot of the open-addressed array. Distance is the 1-based
// probe distance from the key's natural slot; 0 marks the cell empty.
type Cell[K comparable, V any] struct {
	Key      K
	Value    V
	Distance uint32
}

// Table is a view over a buffer holding a Robin Hood hash table. The handle
// stores only the buffer pointer and the manager used for growth; all cell
// access re-derives the byte region per call, so it stays valid across
// relocations.
type Table[K comparable, V any] struct {
	mgr membuf.Manager
	buf *membuf.Buffer
}

type header struct {
	capacity uint64
	count    uint64
	maxMiss  uint64
	flags    uint64
}

func readHeader(data []byte) header {
	return header{
		capacity: buf.ReadU64(data, layout.HTOffCapacity),
		count:    buf.ReadU64(data, layout.HTOffCount),
		maxMiss:  buf.ReadU64(data, layout.HTOffMaxMiss),
		flags:    buf.ReadU64(data, layout.HTOffFlags),
	}
}

func writeHeader(data []byte, h header) {
	buf.PutU64(data, layout.HTOffCapacity, h.capacity)
	buf.PutU64(data, layout.HTOffCount, h.count)
	buf.PutU64(data, layout.HTOffMaxMiss, h.maxMiss)
	buf.PutU64(data, layout.HTOffFlags, h.flags)
}

// strideTag encodes the cell stride into the upper half of the flags word.
// Attach uses it to catch re-opening a buffer with mismatched K/V types.
func strideTag[K comparable, V any]() uint64 {
	return overlay.Stride[Cell[K, V]]() << 32
}

func checkElemTypes[K comparable, V any](name string) {
	if err := overlay.Check[K](); err != nil {
		membuf.Failf(membuf.KindInvalidMemory, "table %q: key type not buffer-safe: %v", name, err)
	}
	if err := overlay.Check[V](); err != nil {
		membuf.Failf(membuf.KindInvalidMemory, "table %q: value type not buffer-safe: %v", name, err)
	}
}

// PrecomputeSize returns the buffer size needed for a table of at least the
// given capacity: capacity is rounded up to a power of two, and the cell
// array includes the maxMiss over-allocation.
func PrecomputeSize[K comparable, V any](capacity uint64) uint64 {
	if capacity == 0 {
		capacity = 1
	}
	capacity = layout.NextPow2(capacity)
	total := capacity + layout.MaxMiss(capacity)
	cellBytes, ok := buf.MulOverflows(total, overlay.Stride[Cell[K, V]]())
	if !ok {
		membuf.Failf(membuf.KindInsufficientMemory, "hashtable: capacity %d overflows size computation", capacity)
	}
	return layout.HTHeaderSize + cellBytes
}

func neededSize[K comparable, V any](capacity uint64) uint64 {
	return layout.HTHeaderSize +
		(capacity+layout.MaxMiss(capacity))*overlay.Stride[Cell[K, V]]()
}

// practicalCapacity is the largest power-of-two capacity whose header +
// over-allocated cell array fits in size bytes. Returns 0 when not even a
// capacity-1 table fits.
func practicalCapacity[K comparable, V any](size uint64) uint64 {
	if size <= layout.HTHeaderSize {
		return 0
	}
	cap := layout.PrevPow2((size - layout.HTHeaderSize) / overlay.Stride[Cell[K, V]]())
	for cap > 0 && neededSize[K, V](cap) > size {
		cap >>= 1
	}
	return cap
}

// Init constructs a table in-place over a raw buffer: computes the practical
// capacity that fits the buffer (rounded DOWN to a power of two), zero-fills
// the whole region, and claims the buffer's type tag. Double initialization,
// type confusion, and undersized buffers are fatal.
func Init[K comparable, V any](mgr membuf.Manager, b *membuf.Buffer) *Table[K, V] {
	checkElemTypes[K, V](b.Name())
	if err := b.Claim(membuf.TypeHashTable); err != nil {
		kind := membuf.KindInvalidMemory
		if errors.Is(err, membuf.ErrReinitialized) {
			kind = membuf.KindReinitialized
		}
		membuf.Failf(kind, "table %q: init: %v (tag %v)", b.Name(), err, b.TypeID())
	}
	capacity := practicalCapacity[K, V](b.Size())
	if capacity == 0 {
		membuf.Failf(membuf.KindInsufficientMemory,
			"table %q: %d bytes cannot hold header and cells", b.Name(), b.Size())
	}
	data := b.Bytes()
	buf.Zero(data)
	writeHeader(data, header{
		capacity: capacity,
		maxMiss:  layout.MaxMiss(capacity),
		flags:    strideTag[K, V](),
	})
	return &Table[K, V]{mgr: mgr, buf: b}
}

// Attach re-wraps a buffer that already holds a table (typically one
// re-acquired via Manager.Find) without clearing it. The type tag, the
// stride tag, and the header geometry are all verified; mismatches are
// fatal, since they mean the bytes are about to be misread.
func Attach[K comparable, V any](mgr membuf.Manager, b *membuf.Buffer) *Table[K, V] {
	checkElemTypes[K, V](b.Name())
	if err := b.CheckType(membuf.TypeHashTable); err != nil {
		membuf.Failf(membuf.KindInvalidMemory, "table %q: attach: %v (tag %v)", b.Name(), err, b.TypeID())
	}
	h := readHeader(b.Bytes())
	if !layout.IsPow2(h.capacity) || h.maxMiss != layout.MaxMiss(h.capacity) {
		membuf.Failf(membuf.KindInvalidMemory, "table %q: corrupt header (capacity=%d maxMiss=%d)",
			b.Name(), h.capacity, h.maxMiss)
	}
	if h.flags>>32 != strideTag[K, V]()>>32 {
		membuf.Failf(membuf.KindInvalidMemory, "table %q: cell stride mismatch (have %d, want %d)",
			b.Name(), h.flags>>32, strideTag[K, V]()>>32)
	}
	if neededSize[K, V](h.capacity) > b.Size() {
		membuf.Failf(membuf.KindInsufficientMemory, "table %q: buffer shrank below table geometry", b.Name())
	}
	return &Table[K, V]{mgr: mgr, buf: b}
}

// New allocates a named buffer sized for minCapacity and initializes a
// table over it.
func New[K comparable, V any](mgr membuf.Manager, name string, minCapacity uint64) *Table[K, V] {
	b := mgr.Allocate(name, PrecomputeSize[K, V](minCapacity))
	return Init[K, V](mgr, b)
}

// Buffer returns the underlying buffer handle.
func (t *Table[K, V]) Buffer() *membuf.Buffer { return t.buf }

// state re-derives the header and the typed cell array from the buffer's
// current bytes. Must be called fresh in every operation; the returned slice
// dies with the next buffer resize.
func (t *Table[K, V]) state() (header, []Cell[K, V]) {
	data := t.buf.Bytes()
	h := readHeader(data)
	total := h.capacity + h.maxMiss
	region, ok := buf.Slice(data, layout.HTHeaderSize, total*overlay.Stride[Cell[K, V]]())
	if !ok {
		membuf.Failf(membuf.KindInvalidMemory, "table %q: cell region out of bounds", t.buf.Name())
	}
	cells, err := overlay.Of[Cell[K, V]](region, total)
	if err != nil {
		membuf.Failf(membuf.KindInvalidMemory, "table %q: %v", t.buf.Name(), err)
	}
	return h, cells
}

func (t *Table[K, V]) putCount(v uint64) {
	buf.PutU64(t.buf.Bytes(), layout.HTOffCount, v)
}

// Len returns the number of live entries.
func (t *Table[K, V]) Len() uint64 {
	h, _ := t.state()
	return h.count
}

// Capacity returns the power-of-two natural cell count.
func (t *Table[K, V]) Capacity() uint64 {
	h, _ := t.state()
	return h.capacity
}

// MaxMissDistance returns the probe-distance bound that forces a resize.
func (t *Table[K, V]) MaxMissDistance() uint64 {
	h, _ := t.state()
	return h.maxMiss
}

// lookup walks forward from the key's natural slot. The Robin Hood ordering
// lets it stop the moment a cell's stored distance drops below the walked
// distance: the key cannot live beyond that point. Empty cells (distance 0)
// terminate the walk the same way.
func lookup[K comparable, V any](h header, cells []Cell[K, V], key K) (int, bool) {
	idx := int(hashKey(&key) & (h.capacity - 1))
	dist := uint32(1)
	for {
		c := &cells[idx]
		if c.Distance < dist {
			return 0, false
		}
		if c.Distance == dist && c.Key == key {
			return idx, true
		}
		idx++
		dist++
	}
}

// Get returns an owning copy of the value stored under key, or an empty
// optional. Never fatal: absence is a normal result.
func (t *Table[K, V]) Get(key K) optional.Of[V] {
	h, cells := t.state()
	if h.count == 0 {
		return optional.None[V]()
	}
	idx, ok := lookup(h, cells, key)
	if !ok {
		return optional.None[V]()
	}
	return optional.Some(cells[idx].Value)
}

// Contains reports whether key is present.
func (t *Table[K, V]) Contains(key K) bool {
	h, cells := t.state()
	if h.count == 0 {
		return false
	}
	_, ok := lookup(h, cells, key)
	return ok
}

// Set inserts or updates key. Growth is transparent: when an insertion's
// probe distance would exceed the maxMiss bound, the table doubles and the
// insert continues. The retry is an explicit loop rather than recursion.
//
// When trySet gives up mid-chain it hands back the entry it was carrying.
// Every swap writes the carried entry into the table before picking up the
// incumbent, so at the moment the probe budget runs out the table holds
// everything except that one carried entry; growing and re-inserting it
// completes the operation.
func (t *Table[K, V]) Set(key K, value V) {
	for {
		ok, carryK, carryV := t.trySet(key, value)
		if ok {
			return
		}
		h, _ := t.state()
		if h.flags&layout.HTFlagRehashing != 0 {
			// Structurally impossible: maxMiss = log2(capacity) guarantees a
			// freshly doubled table absorbs every replayed entry.
			membuf.Failf(membuf.KindInternal, "table %q: probe budget exhausted during rehash", t.buf.Name())
		}
		t.Resize(0)
		key, value = carryK, carryV
	}
}

func (t *Table[K, V]) trySet(key K, value V) (bool, K, V) {
	h, cells := t.state()
	idx := int(hashKey(&key) & (h.capacity - 1))
	dist := uint32(1)

	// Phase one: update in place if the key already exists. Stops at the
	// first cell that is empty or holds a richer entry.
	for {
		c := &cells[idx]
		if c.Distance < dist {
			break
		}
		if c.Distance == dist && c.Key == key {
			c.Value = value
			return true, key, value
		}
		idx++
		dist++
	}

	// Phase two: insert, displacing richer incumbents as we go.
	for {
		if uint64(dist) > h.maxMiss {
			return false, key, value
		}
		c := &cells[idx]
		if c.Distance == 0 {
			*c = Cell[K, V]{Key: key, Value: value, Distance: dist}
			t.putCount(h.count + 1)
			return true, key, value
		}
		if dist > c.Distance {
			key, c.Key = c.Key, key
			value, c.Value = c.Value, value
			dist, c.Distance = c.Distance, dist
		}
		idx++
		dist++
	}
}

// Erase removes key using backward-shift deletion: followers that are out of
// their natural slot shift one cell back, so no tombstones accumulate and
// probe distances only ever improve. Returns false when key is absent.
func (t *Table[K, V]) Erase(key K) bool {
	h, cells := t.state()
	if h.count == 0 {
		return false
	}
	idx, ok := lookup(h, cells, key)
	if !ok {
		return false
	}
	// The sentinel cell is always empty, so the shift loop terminates
	// without a bounds check.
	for {
		next := cells[idx+1]
		if next.Distance <= 1 {
			break
		}
		cells[idx] = Cell[K, V]{Key: next.Key, Value: next.Value, Distance: next.Distance - 1}
		idx++
	}
	cells[idx] = Cell[K, V]{}
	t.putCount(h.count - 1)
	return true
}

// Resize rebuilds the table at newCapacity (0 means double). Shrinking below
// the current capacity is explicitly unimplemented and fatal. The rebuild
// snapshots the current bytes into a scratch buffer first, because the
// manager's resize is free to relocate the primary region, then replays
// every live entry into the zeroed, larger table.
func (t *Table[K, V]) Resize(newCapacity uint64) {
	h, _ := t.state()
	if h.flags&layout.HTFlagRehashing != 0 {
		membuf.Failf(membuf.KindInternal, "table %q: resize while rehash in progress", t.buf.Name())
	}
	if newCapacity == 0 {
		newCapacity = h.capacity * 2
	}
	newCapacity = layout.NextPow2(newCapacity)
	if newCapacity < h.capacity {
		membuf.Failf(membuf.KindUnimplemented,
			"table %q: shrinking capacity %d -> %d not implemented", t.buf.Name(), h.capacity, newCapacity)
	}
	if newCapacity == h.capacity {
		return
	}

	scratch := t.mgr.Allocate(t.buf.Name()+".rehash", t.buf.Size())
	copy(scratch.Bytes(), t.buf.Bytes())

	t.mgr.Resize(t.buf, PrecomputeSize[K, V](newCapacity))
	data := t.buf.Bytes()
	buf.Zero(data)
	writeHeader(data, header{
		capacity: newCapacity,
		maxMiss:  layout.MaxMiss(newCapacity),
		flags:    strideTag[K, V]() | layout.HTFlagRehashing,
	})

	sdata := scratch.Bytes()
	sh := readHeader(sdata)
	stotal := sh.capacity + sh.maxMiss
	sregion, ok := buf.Slice(sdata, layout.HTHeaderSize, stotal*overlay.Stride[Cell[K, V]]())
	if !ok {
		membuf.Failf(membuf.KindInternal, "table %q: scratch snapshot truncated", t.buf.Name())
	}
	scells, err := overlay.Of[Cell[K, V]](sregion, stotal)
	if err != nil {
		membuf.Failf(membuf.KindInternal, "table %q: scratch snapshot: %v", t.buf.Name(), err)
	}
	for i := range scells {
		if scells[i].Distance == 0 {
			continue
		}
		if ok, _, _ := t.trySet(scells[i].Key, scells[i].Value); !ok {
			membuf.Failf(membuf.KindInternal,
				"table %q: replayed entry exceeded probe budget during rehash", t.buf.Name())
		}
	}

	flags := buf.ReadU64(t.buf.Bytes(), layout.HTOffFlags)
	buf.PutU64(t.buf.Bytes(), layout.HTOffFlags, flags&^uint64(layout.HTFlagRehashing))
	t.mgr.Release(scratch)
}
