// Package omap implements an ordered map / multimap whose iteration
// order, key equivalence and placement are all determined by a
// pluggable order.Order, with a set of composable views layered over
// one underlying container.
//
// The base map and its structural views (Unmodifiable, Multi, Linked,
// Reversed, Sub/Head/Tail) are not safe for concurrent use; wrap them
// in Shared or Atomic for that. Keys should not be mutated while
// inside a map; values may be nil or zero, and GetEntry distinguishes
// a zero value from an absent key.
//
// Views are windows, not copies: a view observes mutations made
// through any other view over the same map, except across the Freeze
// boundary and the Atomic view's snapshots.
package omap

import (
	"errors"

	"ordmap.dev/pkg/order"
	"ordmap.dev/pkg/sparse"
)

var (
	// ErrUnmodifiable is the panic value of mutating operations on an
	// unmodifiable view.
	ErrUnmodifiable = errors.New("omap: unmodifiable view")
	// ErrFrozen is the panic value of mutating operations on a frozen
	// map.
	ErrFrozen = errors.New("omap: frozen map")
	// ErrRange is the panic value of range views constructed with
	// inverted bounds, and of mutations outside a range view's bounds.
	ErrRange = errors.New("omap: key outside view range")
)

// Entry is an owned key/value pair occupying one slot of a map. The
// key never changes; the value may be overwritten in place until the
// entry becomes part of a frozen or cloned snapshot.
type Entry[K, V any] struct {
	key    K
	value  V
	frozen bool
}

// NewEntry returns a fresh entry, ready to be added with PutEntry.
func NewEntry[K, V any](key K, value V) *Entry[K, V] {
	return &Entry[K, V]{key: key, value: value}
}

// Key returns the entry's key.
func (e *Entry[K, V]) Key() K { return e.key }

// Value returns the entry's current value.
func (e *Entry[K, V]) Value() V { return e.value }

// Map is the contract shared by the base map and all of its views.
// Mutating operations on unmodifiable, frozen or range-restricted
// views panic with one of the Err values; lookups on missing keys
// return an explicit absence, never an error.
type Map[K, V any] interface {
	// Get returns the value stored under a key equal to key under the
	// map's order.
	Get(key K) (V, bool)
	// GetEntry returns the entry for key, or nil. It lets a caller
	// tell a zero value apart from an absent key.
	GetEntry(key K) *Entry[K, V]
	// Put stores value under key, overwriting in place when an
	// order-equal key is present, and returns the previous value.
	Put(key K, value V) (V, bool)
	// PutEntry inserts entry unconditionally, even when an order-equal
	// key is already present.
	PutEntry(entry *Entry[K, V])
	// PutAll inserts every entry of other through Put.
	PutAll(other Map[K, V])
	// Remove removes one entry whose key is order-equal to key and
	// returns its value.
	Remove(key K) (V, bool)
	// RemoveEntry removes one entry whose key is order-equal to key
	// and returns it, or nil.
	RemoveEntry(key K) *Entry[K, V]
	// UpdateValue replaces the value of an already-resolved entry
	// without a second lookup, returning the previous value.
	UpdateValue(entry *Entry[K, V], value V) V
	// Clear removes all entries.
	Clear()
	// Len returns the number of entries.
	Len() int
	// Empty reports whether the map has no entries.
	Empty() bool
	// KeyOrder returns the map's key order. Orders are stateless and
	// shared across views and clones.
	KeyOrder() order.Order[K]
	// ValueEq returns the map's value equivalence.
	ValueEq() order.Equality[V]
	// Clone returns a structurally independent copy; only the order
	// and equality policies are shared.
	Clone() Map[K, V]
	// Freeze converts the map into an immutable snapshot sharing the
	// storage frozen at this moment. The transition is one-way: every
	// mutator on the result panics with ErrFrozen, and later writes to
	// the source do not reach the snapshot.
	Freeze() Map[K, V]
	// Iterator iterates entries in ascending key order.
	Iterator() Iterator[K, V]
	// IteratorFrom starts at the first entry whose key is not less
	// than key.
	IteratorFrom(key K) Iterator[K, V]
	// DescendingIterator iterates entries in descending key order.
	DescendingIterator() Iterator[K, V]
	// DescendingIteratorFrom starts at the last entry whose key is not
	// greater than key.
	DescendingIteratorFrom(key K) Iterator[K, V]

	// removeExact removes this specific entry, not merely an
	// order-equal one. It backs iterator removal.
	removeExact(entry *Entry[K, V]) bool
}

// Iterator is a stateful entry iterator:
//
//	for it := m.Iterator(); it.HasElem(); it.Next() {
//	    e := it.Elem()
//	    // do something with e...
//	}
//
// Elem must only be called when HasElem reports true. Remove removes
// the current entry from the map and advances to the next one.
// Mutating the map other than through the iterator invalidates it.
type Iterator[K, V any] interface {
	HasElem() bool
	Elem() *Entry[K, V]
	Next()
	Remove()
}

// New returns an empty map with the given key order and the reflect
// based value equivalence.
func New[K, V any](ord order.Order[K]) Map[K, V] {
	return NewWithEquality[K](ord, order.EqualAny[V]())
}

// NewWithEquality returns an empty map with the given key order and
// value equivalence.
func NewWithEquality[K, V any](ord order.Order[K], eq order.Equality[V]) Map[K, V] {
	return &coreMap[K, V]{
		ord:     ord,
		eq:      eq,
		entries: sparse.New[*Entry[K, V]](entryOrder[K, V]{ord}),
	}
}

// entryOrder derives the order over entries from the key order; the
// refinement chain follows the key order's.
type entryOrder[K, V any] struct {
	key order.Order[K]
}

func (o entryOrder[K, V]) Equal(a, b *Entry[K, V]) bool {
	return o.key.Equal(a.key, b.key)
}

func (o entryOrder[K, V]) Compare(a, b *Entry[K, V]) int {
	return o.key.Compare(a.key, b.key)
}

func (o entryOrder[K, V]) Index(e *Entry[K, V]) uint32 {
	return o.key.Index(e.key)
}

func (o entryOrder[K, V]) Sub(e *Entry[K, V]) order.Order[*Entry[K, V]] {
	if sub := o.key.Sub(e.key); sub != nil {
		return entryOrder[K, V]{sub}
	}
	return nil
}

// coreMap is the base map: a key order, a value equivalence, and the
// entry container.
type coreMap[K, V any] struct {
	ord     order.Order[K]
	eq      order.Equality[V]
	entries *sparse.Set[*Entry[K, V]]
	frozen  bool
}

func (m *coreMap[K, V]) probe(key K) *Entry[K, V] {
	return &Entry[K, V]{key: key}
}

func (m *coreMap[K, V]) Get(key K) (V, bool) {
	if e := m.GetEntry(key); e != nil {
		return e.value, true
	}
	var zero V
	return zero, false
}

func (m *coreMap[K, V]) GetEntry(key K) *Entry[K, V] {
	e, ok := m.entries.GetAny(m.probe(key))
	if !ok {
		return nil
	}
	return e
}

func (m *coreMap[K, V]) Put(key K, value V) (V, bool) {
	if m.frozen {
		panic(ErrFrozen)
	}
	if e := m.GetEntry(key); e != nil {
		old := e.value
		if e.frozen {
			// The entry belongs to a frozen snapshot; replace it so
			// the snapshot keeps its value. Under an index-derived
			// order this can move the entry to the end of its
			// equal-compare run.
			m.entries.RemoveMatching(e, func(x *Entry[K, V]) bool { return x == e })
			m.entries.Add(NewEntry(key, value), true)
		} else {
			e.value = value
		}
		return old, true
	}
	m.entries.Add(NewEntry(key, value), true)
	var zero V
	return zero, false
}

func (m *coreMap[K, V]) PutEntry(entry *Entry[K, V]) {
	if m.frozen {
		panic(ErrFrozen)
	}
	m.entries.Add(entry, true)
}

func (m *coreMap[K, V]) PutAll(other Map[K, V]) { putAll[K, V](m, other) }

func (m *coreMap[K, V]) Remove(key K) (V, bool) {
	if e := m.RemoveEntry(key); e != nil {
		return e.value, true
	}
	var zero V
	return zero, false
}

func (m *coreMap[K, V]) RemoveEntry(key K) *Entry[K, V] {
	if m.frozen {
		panic(ErrFrozen)
	}
	e, ok := m.entries.RemoveAny(m.probe(key))
	if !ok {
		return nil
	}
	return e
}

func (m *coreMap[K, V]) removeExact(entry *Entry[K, V]) bool {
	if m.frozen {
		panic(ErrFrozen)
	}
	_, ok := m.entries.RemoveMatching(entry,
		func(x *Entry[K, V]) bool { return x == entry })
	return ok
}

func (m *coreMap[K, V]) UpdateValue(entry *Entry[K, V], value V) V {
	if m.frozen {
		panic(ErrFrozen)
	}
	old := entry.value
	if entry.frozen {
		m.entries.RemoveMatching(entry,
			func(x *Entry[K, V]) bool { return x == entry })
		m.entries.Add(NewEntry(entry.key, value), true)
	} else {
		entry.value = value
	}
	return old
}

func (m *coreMap[K, V]) Clear() {
	if m.frozen {
		panic(ErrFrozen)
	}
	m.entries.Clear()
}

func (m *coreMap[K, V]) Len() int { return m.entries.Len() }

func (m *coreMap[K, V]) Empty() bool { return m.entries.Empty() }

func (m *coreMap[K, V]) KeyOrder() order.Order[K] { return m.ord }

func (m *coreMap[K, V]) ValueEq() order.Equality[V] { return m.eq }

func (m *coreMap[K, V]) Clone() Map[K, V] {
	m.freezeEntries()
	return &coreMap[K, V]{ord: m.ord, eq: m.eq, entries: m.entries.Clone()}
}

func (m *coreMap[K, V]) Freeze() Map[K, V] {
	m.freezeEntries()
	return &coreMap[K, V]{ord: m.ord, eq: m.eq, entries: m.entries.Freeze(), frozen: true}
}

// freezeEntries marks every entry frozen, so writes on any handle
// sharing the storage go through replacement instead of mutating a
// value the other side can see.
func (m *coreMap[K, V]) freezeEntries() {
	for it := m.entries.Iterator(); it.HasElem(); it.Next() {
		it.Elem().frozen = true
	}
}

func (m *coreMap[K, V]) Iterator() Iterator[K, V] {
	return &coreIterator[K, V]{m: m, it: m.entries.Iterator()}
}

func (m *coreMap[K, V]) IteratorFrom(key K) Iterator[K, V] {
	return &coreIterator[K, V]{m: m, it: m.entries.IteratorFrom(m.probe(key))}
}

func (m *coreMap[K, V]) DescendingIterator() Iterator[K, V] {
	return &coreIterator[K, V]{m: m, it: m.entries.Descending(), desc: true}
}

func (m *coreMap[K, V]) DescendingIteratorFrom(key K) Iterator[K, V] {
	return &coreIterator[K, V]{m: m, it: m.entries.DescendingFrom(m.probe(key)), desc: true}
}

type coreIterator[K, V any] struct {
	m    *coreMap[K, V]
	it   *sparse.Iterator[*Entry[K, V]]
	desc bool
}

func (it *coreIterator[K, V]) HasElem() bool { return it.it.HasElem() }

func (it *coreIterator[K, V]) Elem() *Entry[K, V] { return it.it.Elem() }

func (it *coreIterator[K, V]) Next() { it.it.Next() }

func (it *coreIterator[K, V]) Remove() {
	e := it.it.Elem()
	peek := it.it.Clone()
	peek.Next()
	it.m.removeExact(e)
	if !peek.HasElem() {
		// Exhausted; the stale peek state reports no element forever.
		it.it = peek
		return
	}
	it.reseek(peek.Elem())
}

// reseek repositions at a specific entry after the container was
// restructured by a removal. Seeking lands at the start (or end, when
// descending) of the entry's equal-compare run; the run is then
// scanned for the entry itself.
func (it *coreIterator[K, V]) reseek(next *Entry[K, V]) {
	ord := entryOrder[K, V]{it.m.ord}
	var nit *sparse.Iterator[*Entry[K, V]]
	if it.desc {
		nit = it.m.entries.DescendingFrom(next)
	} else {
		nit = it.m.entries.IteratorFrom(next)
	}
	for nit.HasElem() && nit.Elem() != next && ord.Compare(nit.Elem(), next) == 0 {
		nit.Next()
	}
	it.it = nit
}

// putAll feeds every entry of src through dst.Put, so dst's own
// semantics (range checks, multimap insertion) apply.
func putAll[K, V any](dst, src Map[K, V]) {
	for it := src.Iterator(); it.HasElem(); it.Next() {
		e := it.Elem()
		dst.Put(e.Key(), e.Value())
	}
}
