// Package optional provides a small Maybe type used throughout bufkit as the
// non-fatal "absence" result: a lookup that finds nothing returns an empty
// optional rather than an error or a fatal diagnostic.
//
// Two flavors exist:
//
//   - Of[T] owns a copy of the value. This is what view lookups return, so
//     the result stays valid no matter what happens to the view's backing
//     buffer afterward.
//   - Ref[T] wraps a pointer into somebody else's storage. It exists for
//     callers that explicitly want in-place mutability and are prepared to
//     deal with the invalidation hazard (see Ref).
package optional

// Of is a value-owning optional: either empty or holding a T.
// The zero value is empty.
type Of[T any] struct {
	value T
	ok    bool
}

// Some returns an optional holding v.
func Some[T any](v T) Of[T] {
	return Of[T]{value: v, ok: true}
}

// None returns an empty optional.
func None[T any]() Of[T] {
	return Of[T]{}
}

// IsSome reports whether the optional holds a value.
func (o Of[T]) IsSome() bool { return o.ok }

// HasValue is an alias for IsSome.
func (o Of[T]) HasValue() bool { return o.ok }

// Value returns the held value. Accessing an empty optional is a caller
// logic error and panics with ErrBadAccess.
func (o Of[T]) Value() T {
	if !o.ok {
		panic(ErrBadAccess)
	}
	return o.value
}

// ValueOr returns the held value, or def when empty.
func (o Of[T]) ValueOr(def T) T {
	if !o.ok {
		return def
	}
	return o.value
}

// Get returns the value and whether it was present, comma-ok style.
func (o Of[T]) Get() (T, bool) {
	return o.value, o.ok
}

// Ref is a reference-wrapping optional: either empty or pointing at a T that
// lives in storage owned by someone else.
//
// The pointer is only valid until the next operation that may move the
// underlying storage (for buffer-backed views: any mutating call on the same
// view, since inserts can relocate entries and resizes can relocate the whole
// buffer). Callers that need a durable result should use Deref to take an
// owning copy immediately.
type Ref[T any] struct {
	ptr *T
}

// RefOf wraps p. A nil p produces an empty Ref.
func RefOf[T any](p *T) Ref[T] {
	return Ref[T]{ptr: p}
}

// NoRef returns an empty Ref.
func NoRef[T any]() Ref[T] {
	return Ref[T]{}
}

// IsSome reports whether the Ref points at a value.
func (r Ref[T]) IsSome() bool { return r.ptr != nil }

// Ptr returns the wrapped pointer. Panics with ErrBadAccess when empty.
func (r Ref[T]) Ptr() *T {
	if r.ptr == nil {
		panic(ErrBadAccess)
	}
	return r.ptr
}

// Deref converts the Ref into an owning Of by copying the referenced value.
// Returns None for an empty Ref.
func (r Ref[T]) Deref() Of[T] {
	if r.ptr == nil {
		return None[T]()
	}
	return Some(*r.ptr)
}
