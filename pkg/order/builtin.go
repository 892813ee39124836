package order

import (
	"bytes"
	"reflect"
	"strings"

	"golang.org/x/exp/constraints"

	"ordmap.dev/pkg/hash"
)

// Multi returns the hash multimap order derived from the given indexer:
// every value is considered distinct, so a container built on it keeps
// everything and degrades into a hash multimap of opaque elements.
// Compare is based on the index alone and returns 0 only when the two
// indexes are bit-identical.
func Multi[T any](index Indexer[T]) Order[T] {
	return multiOrder[T]{index}
}

type multiOrder[T any] struct {
	index Indexer[T]
}

func (o multiOrder[T]) Equal(a, b T) bool  { return false }
func (o multiOrder[T]) Compare(a, b T) int { return compareUint32(o.index(a), o.index(b)) }
func (o multiOrder[T]) Index(v T) uint32   { return o.index(v) }
func (o multiOrder[T]) Sub(v T) Order[T]   { return nil }

// Indexed returns the order derived from the given indexer, with Go ==
// as the equivalence. Compare is unsigned comparison of the two
// indexes; a 0 result for unequal values means equal placement, left to
// the container to disambiguate.
func Indexed[T comparable](index Indexer[T]) Order[T] {
	return indexedOrder[T]{index}
}

type indexedOrder[T comparable] struct {
	index Indexer[T]
}

func (o indexedOrder[T]) Equal(a, b T) bool  { return a == b }
func (o indexedOrder[T]) Compare(a, b T) int { return compareUint32(o.index(a), o.index(b)) }
func (o indexedOrder[T]) Index(v T) uint32   { return o.index(v) }
func (o indexedOrder[T]) Sub(v T) Order[T]   { return nil }

// String returns the standard hash order for strings: Go == equivalence
// with hash-based placement. Iteration order is arbitrary but stable.
func String() Order[string] {
	return Indexed(hash.String)
}

// Bytes returns the standard hash order for byte slices: bytes.Equal
// equivalence with hash-based placement. Byte slices are not
// comparable, so this is a bespoke order rather than an Indexed one.
func Bytes() Order[[]byte] {
	return bytesOrder{}
}

type bytesOrder struct{}

func (o bytesOrder) Equal(a, b []byte) bool     { return bytes.Equal(a, b) }
func (o bytesOrder) Compare(a, b []byte) int    { return compareUint32(o.Index(a), o.Index(b)) }
func (o bytesOrder) Index(v []byte) uint32      { return hash.Bytes(v) }
func (o bytesOrder) Sub(v []byte) Order[[]byte] { return nil }

// Lexical returns the lexical order for strings. Placement indexes are
// taken from the string bytes four at a time, big-endian and
// zero-padded, with Sub exposing each successive window; iteration
// follows byte-wise lexical order.
func Lexical() Order[string] {
	return lexicalOrder{0}
}

type lexicalOrder struct {
	offset int
}

func (o lexicalOrder) Equal(a, b string) bool  { return a == b }
func (o lexicalOrder) Compare(a, b string) int { return strings.Compare(a, b) }

func (o lexicalOrder) Index(v string) uint32 {
	var idx uint32
	for i := 0; i < 4; i++ {
		idx <<= 8
		if o.offset+i < len(v) {
			idx |= uint32(v[o.offset+i])
		}
	}
	return idx
}

func (o lexicalOrder) Sub(v string) Order[string] {
	if len(v) > o.offset+4 {
		return lexicalOrder{o.offset + 4}
	}
	return nil
}

// Int returns the natural order for a signed integer type. The
// placement index is the high half of the sign-adjusted 64-bit value;
// Sub refines placement with the low half.
func Int[T constraints.Signed]() Order[T] {
	return intOrder[T]{false}
}

// Uint returns the natural order for an unsigned integer type.
func Uint[T constraints.Unsigned]() Order[T] {
	return uintOrder[T]{false}
}

const signFlip = uint64(1) << 63

type intOrder[T constraints.Signed] struct {
	low bool
}

func (o intOrder[T]) Equal(a, b T) bool { return a == b }

func (o intOrder[T]) Compare(a, b T) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func (o intOrder[T]) Index(v T) uint32 {
	u := uint64(int64(v)) ^ signFlip
	if o.low {
		return uint32(u)
	}
	return uint32(u >> 32)
}

func (o intOrder[T]) Sub(v T) Order[T] {
	if o.low {
		return nil
	}
	return intOrder[T]{true}
}

type uintOrder[T constraints.Unsigned] struct {
	low bool
}

func (o uintOrder[T]) Equal(a, b T) bool { return a == b }

func (o uintOrder[T]) Compare(a, b T) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func (o uintOrder[T]) Index(v T) uint32 {
	if o.low {
		return uint32(uint64(v))
	}
	return uint32(uint64(v) >> 32)
}

func (o uintOrder[T]) Sub(v T) Order[T] {
	if o.low {
		return nil
	}
	return uintOrder[T]{true}
}

// Identity returns the identity order for pointer and channel keys:
// two keys are equivalent only when they are the same reference, and
// placement hashes the reference word. Using it with a key type whose
// value does not carry a pointer word panics on first use.
func Identity[T comparable]() Order[T] {
	return identityOrder[T]{}
}

type identityOrder[T comparable] struct{}

func (o identityOrder[T]) Equal(a, b T) bool  { return a == b }
func (o identityOrder[T]) Compare(a, b T) int { return compareUint32(o.Index(a), o.Index(b)) }

func (o identityOrder[T]) Index(v T) uint32 {
	return hash.UIntPtr(reflect.ValueOf(v).Pointer())
}

func (o identityOrder[T]) Sub(v T) Order[T] { return nil }
