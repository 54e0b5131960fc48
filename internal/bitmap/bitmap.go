// Package bitmap provides a small bitset over row positions. Stages use it
// to mark which rows of a table survive before compacting the slice.
package bitmap

import "math/bits"

// Bitmap represents a bitset backed by a slice of uint64 words.
// Each bit corresponds to a non-negative position.
type Bitmap struct {
	data []uint64
	n    int
}

// New allocates a bitmap for positions in the range [0, n).
//
// If n <= 0, no backing storage is allocated and the bitmap behaves as an
// empty set.
func New(n int) *Bitmap {
	if n <= 0 {
		return &Bitmap{}
	}
	return &Bitmap{
		data: make([]uint64, (n+63)/64),
		n:    n,
	}
}

// Len returns the capacity the bitmap was created with.
func (b *Bitmap) Len() int { return b.n }

// Add sets the bit for pos. Out-of-range positions are ignored.
func (b *Bitmap) Add(pos int) {
	if pos < 0 || pos >= b.n {
		return
	}
	b.data[pos/64] |= 1 << uint(pos%64)
}

// Has reports whether the bit for pos is set. Out-of-range positions are
// never set.
func (b *Bitmap) Has(pos int) bool {
	if pos < 0 || pos >= b.n {
		return false
	}
	return b.data[pos/64]&(1<<uint(pos%64)) != 0
}

// Count returns the number of set bits.
func (b *Bitmap) Count() int {
	c := 0
	for _, w := range b.data {
		c += bits.OnesCount64(w)
	}
	return c
}
