// Package xhash turns a key and a sketch's seed into the three cell
// indices a Count-Min sketch row set needs, using one keyed 128-bit
// MurmurHash3 as the only hash primitive.
package xhash

import "github.com/spaolacci/murmur3"

// Indices computes the three row cell indices for key under seed, against
// a table of the given width. When widthMask is non-zero (width is a
// power of two) it is used in place of the modulo operation.
func Indices(key []byte, seed uint64, width, widthMask uint64) [3]uint64 {
	hLo, hHi := murmur3.Sum128WithSeed(key, uint32(seed))

	if widthMask != 0 {
		return [3]uint64{
			hLo & widthMask,
			hHi & widthMask,
			(hLo + hHi) & widthMask,
		}
	}
	return [3]uint64{
		hLo % width,
		hHi % width,
		(hLo + hHi) % width,
	}
}
