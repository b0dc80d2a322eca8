package hashtable

import "bytes"

// Fixed-capacity NUL-padded string types, for using short names as table
// keys. Go strings cannot live inside a relocatable buffer (they carry a
// pointer), so string keys are stored as fixed byte arrays instead.
//
// Equality is array equality, which for NUL-padded arrays is exactly a byte
// comparison of the string contents. Construction truncates to capacity.

// String32 holds up to 32 bytes of string content.
type String32 [32]byte

// MakeString32 copies s into a NUL-padded String32, truncating at 32 bytes.
func MakeString32(s string) String32 {
	var out String32
	copy(out[:], s)
	return out
}

func (s String32) String() string { return cString(s[:]) }

// String64 holds up to 64 bytes of string content.
type String64 [64]byte

// MakeString64 copies s into a NUL-padded String64, truncating at 64 bytes.
func MakeString64(s string) String64 {
	var out String64
	copy(out[:], s)
	return out
}

func (s String64) String() string { return cString(s[:]) }

func cString(b []byte) string {
	if i := bytes.IndexByte(b, 0); i >= 0 {
		return string(b[:i])
	}
	return string(b)
}
