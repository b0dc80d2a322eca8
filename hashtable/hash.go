package hashtable

import (
	"github.com/cespare/xxhash/v2"

	"github.com/kardwell/bufkit/internal/overlay"
)

// hashKey hashes the key's in-memory bytes with xxhash. Keys are plain
// fixed-size types (enforced at construction), so the byte image is the
// identity of the key; fixed strings are NUL-padded, which keeps equal
// strings byte-identical regardless of how they were built.
func hashKey[K comparable](k *K) uint64 {
	return xxhash.Sum64(overlay.ValueBytes(k))
}
