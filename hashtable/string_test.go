package hashtable

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMakeString32_RoundTrip(t *testing.T) {
	s := MakeString32("entity.transform")
	assert.Equal(t, "entity.transform", s.String())
}

func TestMakeString32_Truncates(t *testing.T) {
	long := "this string is definitely longer than thirty-two bytes"
	s := MakeString32(long)
	assert.Equal(t, long[:32], s.String())
}

func TestString32_EqualityIsByteComparison(t *testing.T) {
	// Two independently built values with the same content must compare
	// equal; the NUL padding makes the arrays byte-identical.
	a := MakeString32("same")
	b := MakeString32("same")
	assert.True(t, a == b)
	assert.NotEqual(t, a, MakeString32("different"))
}

func TestString64_RoundTrip(t *testing.T) {
	s := MakeString64("render.shadowatlas.page0")
	assert.Equal(t, "render.shadowatlas.page0", s.String())
	assert.Equal(t, "", MakeString64("").String())
}

func TestString32_EqualContentsHashEqually(t *testing.T) {
	// Equal contents hash equally because construction zero-fills the tail.
	a, b := MakeString32("abc"), MakeString32("abc")
	assert.Equal(t, hashKey(&a), hashKey(&b))
}
