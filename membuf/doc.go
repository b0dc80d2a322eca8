// Package membuf provides named, relocatable byte buffers and the managers
// that own them.
//
// # Overview
//
// A Buffer is a contiguous byte region identified by a unique name and a type
// tag. Buffers are allocated, resized, and released through a Manager; a
// resize may move the region, so the raw bytes must be re-derived through
// Buffer.Bytes after every operation that can allocate. The view packages
// (hashtable, ring, slice, stream) are built on exactly this discipline.
//
// # Key Types
//
//   - Buffer: a named byte region with a type tag and two UserData words
//     that views may use for state that must survive relocation
//   - Manager: the allocation interface (Allocate, Resize, Release, Find, Stats)
//   - HeapManager: backs buffers with ordinary Go heap slices; every resize
//     relocates, which surfaces stale-pointer bugs early
//   - MmapManager: backs buffers with anonymous memory mappings on Unix,
//     falling back to the heap elsewhere
//
// # The Claim Protocol
//
// A freshly allocated buffer is raw. A view package claims it by calling
// Buffer.Claim with its own type tag; claiming an already-typed buffer fails
// with ErrReinitialized (same tag) or ErrInvalidMemory (different tag). An
// existing typed buffer is re-opened with the view's Attach, which verifies
// the tag via Buffer.CheckType.
//
// # Fault Handling
//
// Structural corruption and API misuse are not recoverable errors; they are
// reported through Failf, which logs a structured record and then panics (or
// aborts the process, under AbortOnFault). Recoverable conditions are plain
// error returns wrapping the package sentinels.
//
// # Thread Safety
//
// Managers and buffers are not synchronized. Callers that share a manager or
// a buffer across goroutines must serialize access externally.
package membuf
