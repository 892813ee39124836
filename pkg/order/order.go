// Package order defines pluggable key ordering strategies.
//
// An Order bundles the three roles a keyed container needs from its key
// type: an equivalence test, a total comparison for iteration, and a
// 32-bit placement index for trie addressing. Implementations are
// stateless values; they may be freely shared across containers, clones
// and views.
package order

import "reflect"

// Order is an ordering strategy over a key type T.
//
// Implementations must satisfy two laws. Equal(a, b) implies
// Compare(a, b) == 0, except for the Multi order, whose Equal is
// constantly false and whose Compare is 0 exactly when the two indexes
// are bit-identical. Compare must be monotone with Index: if
// Compare(a, b) < 0 then Index(a) <= Index(b), and the same holds at
// every refinement level reached through Sub.
//
// Orders are pure functions over the keys they are given; validating
// keys (for example rejecting nil pointers) is the caller's obligation.
type Order[T any] interface {
	// Equal reports whether a and b are equivalent. It is not required
	// to agree with Go equality of T.
	Equal(a, b T) bool
	// Compare returns -1, 0 or 1. A 0 result for keys that are not
	// Equal is legitimate for index-derived orders; the container
	// disambiguates such collisions.
	Compare(a, b T) int
	// Index returns the placement index of v. It need not be injective.
	Index(v T) uint32
	// Sub returns a finer-grained order used to place v at the next
	// structural level, or nil when no refinement remains.
	Sub(v T) Order[T]
}

// Equality is an equivalence test, used for map values.
type Equality[T any] func(a, b T) bool

// Indexer derives a 32-bit placement index from a value.
type Indexer[T any] func(v T) uint32

// EqualNative returns an Equality backed by Go ==.
func EqualNative[T comparable]() Equality[T] {
	return func(a, b T) bool { return a == b }
}

// EqualAny returns an Equality backed by reflect.DeepEqual. It works
// for any value type, at a reflection cost per comparison.
func EqualAny[T any]() Equality[T] {
	return func(a, b T) bool { return reflect.DeepEqual(a, b) }
}

// Func adapts caller-supplied functions into an Order. The sub function
// may be nil, in which case the order has no refinement.
func Func[T any](
	equal Equality[T], compare func(a, b T) int,
	index Indexer[T], sub func(v T) Order[T]) Order[T] {

	return funcOrder[T]{equal, compare, index, sub}
}

type funcOrder[T any] struct {
	equal   Equality[T]
	compare func(a, b T) int
	index   Indexer[T]
	sub     func(v T) Order[T]
}

func (o funcOrder[T]) Equal(a, b T) bool   { return o.equal(a, b) }
func (o funcOrder[T]) Compare(a, b T) int  { return o.compare(a, b) }
func (o funcOrder[T]) Index(v T) uint32    { return o.index(v) }
func (o funcOrder[T]) Sub(v T) Order[T] {
	if o.sub == nil {
		return nil
	}
	return o.sub(v)
}

// compareUint32 compares two indexes as unsigned integers.
func compareUint32(a, b uint32) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
