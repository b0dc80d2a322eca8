//go:build unix

package membuf

import (
	"github.com/go-kit/log/level"
	"golang.org/x/sys/unix"

	"github.com/kardwell/bufkit/optional"
)

// MmapManager backs buffers with anonymous private mappings. Pages come
// straight from the kernel (zero-filled by construction) and are returned on
// Release, which keeps large transient regions out of the Go heap and GC.
//
// Resize maps a fresh region, copies the prefix, and unmaps the old one, so
// relocation is literal: the old address range is gone after the call.
type MmapManager struct {
	registry
}

var _ Manager = (*MmapManager)(nil)

// NewMmapManager returns an empty mmap-backed manager.
func NewMmapManager(opts ...Option) *MmapManager {
	return &MmapManager{registry: newRegistry(opts)}
}

func mmapRegion(name string, size uint64) []byte {
	if size == 0 {
		return []byte{}
	}
	if size > uint64(^uint(0)>>1) {
		Failf(KindInsufficientMemory, "buffer %q: region too large to map (%d bytes)", name, size)
	}
	data, err := unix.Mmap(-1, 0, int(size),
		unix.PROT_READ|unix.PROT_WRITE, unix.MAP_ANON|unix.MAP_PRIVATE)
	if err != nil {
		Failf(KindInsufficientMemory, "buffer %q: mmap of %d bytes failed: %v", name, size, err)
	}
	return data
}

func munmapRegion(name string, data []byte) {
	if len(data) == 0 {
		return
	}
	if err := unix.Munmap(data); err != nil {
		Failf(KindInternal, "buffer %q: munmap failed: %v", name, err)
	}
}

// Allocate creates a zero-filled anonymous mapping of size bytes.
func (m *MmapManager) Allocate(name string, size uint64) *Buffer {
	b := m.register(name, size)
	b.data = mmapRegion(b.name, size)
	return b
}

// Resize maps a new region, copies the prefix, and unmaps the old region.
func (m *MmapManager) Resize(b *Buffer, newSize uint64) uint64 {
	m.checkOwned(b, "mmap resize")
	old := b.data
	b.data = mmapRegion(b.name, newSize)
	copy(b.data, old)
	munmapRegion(b.name, old)
	m.noteBytes(uint64(len(old)), newSize)
	m.stats.Resizes++
	if m.opt.trace {
		_ = level.Debug(m.opt.logger).Log("op", "resize", "buffer", b.name,
			"from", len(old), "to", newSize)
	}
	return newSize
}

// Release unmaps the region and forgets the name.
func (m *MmapManager) Release(b *Buffer) {
	m.checkOwned(b, "mmap release")
	data := b.data
	m.forget(b)
	munmapRegion(b.name, data)
}

// Find re-acquires a buffer by name.
func (m *MmapManager) Find(name string) optional.Of[*Buffer] {
	return m.find(name)
}
