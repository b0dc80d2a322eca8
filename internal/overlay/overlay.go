// Package overlay is the single place bufkit reinterprets raw buffer bytes
// as typed element arrays. Every unsafe conversion in the module lives here.
//
// The rules the rest of the module relies on:
//
//   - Element types must be "plain": fixed size, containing no pointers,
//     slices, maps, strings, channels, functions, or interfaces. Plain-ness
//     is validated once, at view construction, via Check.
//   - A typed slice returned by Of borrows the byte region it was derived
//     from. It must never be cached across a call that can resize the
//     underlying buffer; views re-derive it on every operation.
package overlay

import (
	"fmt"
	"reflect"
	"unsafe"
)

// Check validates that T is safe to store in relocatable buffer memory.
// Returns an error naming the offending kind otherwise.
func Check[T any]() error {
	var zero T
	return checkPlain(reflect.TypeOf(&zero).Elem())
}

func checkPlain(t reflect.Type) error {
	switch t.Kind() {
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Uintptr, reflect.Float32, reflect.Float64,
		reflect.Complex64, reflect.Complex128:
		return nil
	case reflect.Array:
		return checkPlain(t.Elem())
	case reflect.Struct:
		for i := range t.NumField() {
			if err := checkPlain(t.Field(i).Type); err != nil {
				return fmt.Errorf("field %s: %w", t.Field(i).Name, err)
			}
		}
		return nil
	default:
		return fmt.Errorf("overlay: %s is not plain (kind %s)", t, t.Kind())
	}
}

// Stride returns the in-memory size of T in bytes.
func Stride[T any]() uint64 {
	var zero T
	return uint64(unsafe.Sizeof(zero))
}

// Align returns the required alignment of T in bytes.
func Align[T any]() uint64 {
	var zero T
	return uint64(unsafe.Alignof(zero))
}

// Of reinterprets b as a []T holding count elements. The region must be long
// enough and correctly aligned for T; violations are reported as errors so
// callers can escalate them through their own diagnostic path.
func Of[T any](b []byte, count uint64) ([]T, error) {
	stride := Stride[T]()
	if need := count * stride; uint64(len(b)) < need {
		return nil, fmt.Errorf("overlay: region too small: have %d bytes, need %d", len(b), need)
	}
	if count == 0 {
		return nil, nil
	}
	p := unsafe.Pointer(&b[0])
	if align := Align[T](); uint64(uintptr(p))%align != 0 {
		return nil, fmt.Errorf("overlay: region misaligned for %T (need %d-byte alignment)", *new(T), align)
	}
	return unsafe.Slice((*T)(p), count), nil
}

// ValueBytes exposes the in-memory bytes of *v, for hashing. The returned
// slice aliases v and must not outlive it.
//
// Struct element types may contain compiler-inserted padding whose content
// is unspecified; keys should be padding-free (integers, byte arrays, or
// tightly packed structs) so that equal keys always hash equally.
func ValueBytes[T any](v *T) []byte {
	return unsafe.Slice((*byte)(unsafe.Pointer(v)), unsafe.Sizeof(*v))
}
