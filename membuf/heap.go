package membuf

import (
	"github.com/go-kit/log/level"

	"github.com/kardwell/bufkit/optional"
)

// HeapManager is the default Manager backend, backed by ordinary Go heap
// allocations. Resize always relocates (fresh allocation + prefix copy),
// which makes it a good backend for exercising views' relocation discipline.
type HeapManager struct {
	registry
}

var _ Manager = (*HeapManager)(nil)

// NewHeapManager returns an empty heap-backed manager.
func NewHeapManager(opts ...Option) *HeapManager {
	return &HeapManager{registry: newRegistry(opts)}
}

// Allocate creates a zero-filled region of exactly size bytes.
func (m *HeapManager) Allocate(name string, size uint64) *Buffer {
	b := m.register(name, size)
	b.data = make([]byte, size)
	return b
}

// Resize reallocates the region, copying the prefix. The data address
// changes on every call.
func (m *HeapManager) Resize(b *Buffer, newSize uint64) uint64 {
	m.checkOwned(b, "heap resize")
	old := b.data
	b.data = make([]byte, newSize)
	copy(b.data, old)
	m.noteBytes(uint64(len(old)), newSize)
	m.stats.Resizes++
	if m.opt.trace {
		_ = level.Debug(m.opt.logger).Log("op", "resize", "buffer", b.name,
			"from", len(old), "to", newSize)
	}
	return newSize
}

// Release frees the region and forgets the name.
func (m *HeapManager) Release(b *Buffer) {
	m.checkOwned(b, "heap release")
	m.forget(b)
}

// Find re-acquires a buffer by name.
func (m *HeapManager) Find(name string) optional.Of[*Buffer] {
	return m.find(name)
}
