package hashtable

import "iter"

// Iteration walks the physical cell array front to back. Sequences are
// forward-only, finite, and restartable: each range re-derives the cell
// region, so iterating after a resize sees the current table. Mutating the
// table mid-iteration is not supported.
//
// The sentinel (the guaranteed-empty final cell) is excluded from every
// walk.

// Items yields every live (key, value) pair.
func (t *Table[K, V]) Items() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		_, cells := t.state()
		for i := range cells[:len(cells)-1] {
			if cells[i].Distance == 0 {
				continue
			}
			if !yield(cells[i].Key, cells[i].Value) {
				return
			}
		}
	}
}

// Keys yields every live key.
func (t *Table[K, V]) Keys() iter.Seq[K] {
	return func(yield func(K) bool) {
		for k := range t.Items() {
			if !yield(k) {
				return
			}
		}
	}
}

// Values yields every live value.
func (t *Table[K, V]) Values() iter.Seq[V] {
	return func(yield func(V) bool) {
		_, cells := t.state()
		for i := range cells[:len(cells)-1] {
			if cells[i].Distance == 0 {
				continue
			}
			if !yield(cells[i].Value) {
				return
			}
		}
	}
}

// Cells yields every physical cell (including empty ones) with its index,
// for maintenance and diagnostic code. Cells are copies; writing through
// them does not touch the table.
func (t *Table[K, V]) Cells() iter.Seq2[int, Cell[K, V]] {
	return func(yield func(int, Cell[K, V]) bool) {
		_, cells := t.state()
		for i := range cells[:len(cells)-1] {
			if !yield(i, cells[i]) {
				return
			}
		}
	}
}
