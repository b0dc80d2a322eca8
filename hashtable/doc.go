// Package hashtable implements a Robin Hood hash table stored entirely inside
// a managed byte buffer.
//
// # Layout
//
// The buffer holds a fixed header followed by a cell array:
//
//	[header - 32B] [cell 0] [cell 1] ... [cell capacity+maxMiss-1]
//
// Capacity is always a power of two. The array is over-allocated by the
// maximum miss distance so probe sequences never wrap, and the final cell is
// a sentinel that stays permanently empty, which lets the probe loops run
// without bounds checks.
//
// # Probing
//
// Each occupied cell records its probe distance (1-based; 0 marks an empty
// cell). Lookups walk forward from the home slot and stop as soon as they
// meet a cell whose distance is smaller than the distance probed so far.
// Inserts swap with any poorer resident (classic Robin Hood); when an insert
// would exceed the bounded miss distance the table grows and the displaced
// entry is retried against the larger table. Deletion backward-shifts the
// following run so the distance invariant always holds.
//
// # Relocation Safety
//
// The table holds only a Manager and a Buffer handle. All header fields and
// cell overlays are re-derived from Buffer.Bytes on every operation, so the
// table remains valid across resizes that move the underlying region.
//
// Keys and values must be plain fixed-size types (no pointers, strings,
// slices, or maps); use String32 or String64 for short string keys.
//
// Tables are not safe for concurrent use.
package hashtable
