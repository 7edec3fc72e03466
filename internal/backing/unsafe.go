package backing

import "unsafe"

// unsafeWords reinterprets b, whose length must be a multiple of 8, as a
// []uint64 without copying.
func unsafeWords(b []byte) []uint64 {
	if len(b) == 0 {
		return nil
	}
	return unsafe.Slice((*uint64)(unsafe.Pointer(&b[0])), len(b)/8)
}
