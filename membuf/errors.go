package membuf

import "errors"

var (
	// ErrReinitialized indicates a buffer was initialized twice as the same
	// view type.
	ErrReinitialized = errors.New("membuf: buffer already initialized for this view type")

	// ErrInvalidMemory indicates a type-tag mismatch, access after release,
	// or other evidence the region's interpretation is corrupt.
	ErrInvalidMemory = errors.New("membuf: invalid memory (type tag mismatch or corruption)")

	// ErrInsufficientMemory indicates a buffer too small for the requested
	// metadata and cells, or an allocation failure.
	ErrInsufficientMemory = errors.New("membuf: insufficient memory")

	// ErrUnimplemented marks operations that are explicitly out of scope,
	// such as shrinking a hash table below its current capacity.
	ErrUnimplemented = errors.New("membuf: operation not implemented")

	// ErrInternal marks "structurally impossible" invariant violations,
	// e.g. a resize triggered while a rehash is already in progress.
	ErrInternal = errors.New("membuf: internal invariant violated")
)
