//go:build !unix

package membuf

// MmapManager falls back to heap-backed regions on platforms without
// anonymous mmap support. Semantics are identical; only the page source
// differs.
type MmapManager struct {
	HeapManager
}

// NewMmapManager returns a heap-backed manager on non-unix platforms.
func NewMmapManager(opts ...Option) *MmapManager {
	return &MmapManager{HeapManager: *NewHeapManager(opts...)}
}
