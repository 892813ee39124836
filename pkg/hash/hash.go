// Package hash contains 32-bit hash functions for use as placement
// indexes in the order package.
package hash

// DJBInit is the initial accumulator value for DJB hashing.
const DJBInit uint32 = 5381

// DJBCombine folds another 32-bit value into a DJB accumulator.
func DJBCombine(acc, h uint32) uint32 {
	return mul33(acc) + h
}

// DJB hashes a sequence of 32-bit values.
func DJB(hs ...uint32) uint32 {
	acc := DJBInit
	for _, h := range hs {
		acc = DJBCombine(acc, h)
	}
	return acc
}

// UInt32 hashes a 32-bit integer; it is the identity function.
func UInt32(u uint32) uint32 {
	return u
}

// UInt64 folds a 64-bit integer into 32 bits.
func UInt64(u uint64) uint32 {
	return DJB(uint32(u>>32), uint32(u))
}

// UIntPtr hashes a pointer-sized integer.
func UIntPtr(p uintptr) uint32 {
	if ^uintptr(0)>>32 == 0 {
		return UInt32(uint32(p))
	}
	return UInt64(uint64(p))
}

// String hashes a string.
func String(s string) uint32 {
	h := DJBInit
	for i := 0; i < len(s); i++ {
		h = DJBCombine(h, uint32(s[i]))
	}
	return h
}

// Bytes hashes a byte slice.
func Bytes(bs []byte) uint32 {
	h := DJBInit
	for _, b := range bs {
		h = DJBCombine(h, uint32(b))
	}
	return h
}

func mul33(u uint32) uint32 {
	return u<<5 + u
}
