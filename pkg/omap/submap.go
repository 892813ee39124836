package omap

import "ordmap.dev/pkg/order"

// Sub returns a view of the portion of m whose keys lie in the
// half-open range [lo, hi). Construction panics with ErrRange when
// lo compares greater than hi. Inserting a key outside the range
// panics with ErrRange; looking up or removing one finds nothing.
func Sub[K, V any](m Map[K, V], lo, hi K) Map[K, V] {
	if m.KeyOrder().Compare(lo, hi) > 0 {
		panic(ErrRange)
	}
	return &rangeMap[K, V]{inner: m, lo: &lo, hi: &hi}
}

// Head returns a view of the portion of m whose keys are less than hi.
func Head[K, V any](m Map[K, V], hi K) Map[K, V] {
	return &rangeMap[K, V]{inner: m, hi: &hi}
}

// Tail returns a view of the portion of m whose keys are not less
// than lo.
func Tail[K, V any](m Map[K, V], lo K) Map[K, V] {
	return &rangeMap[K, V]{inner: m, lo: &lo}
}

// rangeMap restricts a map to [lo, hi); a nil bound is unbounded.
type rangeMap[K, V any] struct {
	inner  Map[K, V]
	lo, hi *K
}

func (m *rangeMap[K, V]) aboveLo(key K) bool {
	return m.lo == nil || m.inner.KeyOrder().Compare(key, *m.lo) >= 0
}

func (m *rangeMap[K, V]) belowHi(key K) bool {
	return m.hi == nil || m.inner.KeyOrder().Compare(key, *m.hi) < 0
}

func (m *rangeMap[K, V]) inRange(key K) bool {
	return m.aboveLo(key) && m.belowHi(key)
}

func (m *rangeMap[K, V]) Get(key K) (V, bool) {
	if !m.inRange(key) {
		var zero V
		return zero, false
	}
	return m.inner.Get(key)
}

func (m *rangeMap[K, V]) GetEntry(key K) *Entry[K, V] {
	if !m.inRange(key) {
		return nil
	}
	return m.inner.GetEntry(key)
}

func (m *rangeMap[K, V]) Put(key K, value V) (V, bool) {
	if !m.inRange(key) {
		panic(ErrRange)
	}
	return m.inner.Put(key, value)
}

func (m *rangeMap[K, V]) PutEntry(entry *Entry[K, V]) {
	if !m.inRange(entry.key) {
		panic(ErrRange)
	}
	m.inner.PutEntry(entry)
}

func (m *rangeMap[K, V]) PutAll(other Map[K, V]) { putAll[K, V](m, other) }

func (m *rangeMap[K, V]) Remove(key K) (V, bool) {
	if !m.inRange(key) {
		var zero V
		return zero, false
	}
	return m.inner.Remove(key)
}

func (m *rangeMap[K, V]) RemoveEntry(key K) *Entry[K, V] {
	if !m.inRange(key) {
		return nil
	}
	return m.inner.RemoveEntry(key)
}

func (m *rangeMap[K, V]) removeExact(entry *Entry[K, V]) bool {
	if !m.inRange(entry.key) {
		return false
	}
	return m.inner.removeExact(entry)
}

func (m *rangeMap[K, V]) UpdateValue(entry *Entry[K, V], value V) V {
	if !m.inRange(entry.key) {
		panic(ErrRange)
	}
	return m.inner.UpdateValue(entry, value)
}

// Clear removes the entries inside the range; the rest of the
// underlying map is untouched.
func (m *rangeMap[K, V]) Clear() {
	for it := m.Iterator(); it.HasElem(); {
		it.Remove()
	}
}

// Len counts the entries inside the range.
func (m *rangeMap[K, V]) Len() int {
	n := 0
	for it := m.Iterator(); it.HasElem(); it.Next() {
		n++
	}
	return n
}

func (m *rangeMap[K, V]) Empty() bool { return !m.Iterator().HasElem() }

func (m *rangeMap[K, V]) KeyOrder() order.Order[K] { return m.inner.KeyOrder() }

func (m *rangeMap[K, V]) ValueEq() order.Equality[V] { return m.inner.ValueEq() }

func (m *rangeMap[K, V]) Clone() Map[K, V] {
	return &rangeMap[K, V]{inner: m.inner.Clone(), lo: m.lo, hi: m.hi}
}

func (m *rangeMap[K, V]) Freeze() Map[K, V] {
	return &rangeMap[K, V]{inner: m.inner.Freeze(), lo: m.lo, hi: m.hi}
}

func (m *rangeMap[K, V]) Iterator() Iterator[K, V] {
	if m.lo != nil {
		return m.bound(m.inner.IteratorFrom(*m.lo), false)
	}
	return m.bound(m.inner.Iterator(), false)
}

func (m *rangeMap[K, V]) IteratorFrom(key K) Iterator[K, V] {
	if !m.aboveLo(key) {
		return m.Iterator()
	}
	return m.bound(m.inner.IteratorFrom(key), false)
}

func (m *rangeMap[K, V]) DescendingIterator() Iterator[K, V] {
	if m.hi != nil {
		return m.bound(m.inner.DescendingIteratorFrom(*m.hi), true)
	}
	return m.bound(m.inner.DescendingIterator(), true)
}

func (m *rangeMap[K, V]) DescendingIteratorFrom(key K) Iterator[K, V] {
	if !m.belowHi(key) {
		return m.DescendingIterator()
	}
	return m.bound(m.inner.DescendingIteratorFrom(key), true)
}

func (m *rangeMap[K, V]) bound(inner Iterator[K, V], desc bool) Iterator[K, V] {
	it := &boundIterator[K, V]{m: m, inner: inner, desc: desc}
	// A descending start clamped to the exclusive upper bound may
	// land on keys equal to the bound; skip past them.
	if desc {
		for inner.HasElem() && !m.belowHi(inner.Elem().key) {
			inner.Next()
		}
	}
	return it
}

// boundIterator stops as soon as the underlying iterator leaves the
// range on its far side.
type boundIterator[K, V any] struct {
	m     *rangeMap[K, V]
	inner Iterator[K, V]
	desc  bool
}

func (it *boundIterator[K, V]) HasElem() bool {
	if !it.inner.HasElem() {
		return false
	}
	if it.desc {
		return it.m.aboveLo(it.inner.Elem().key)
	}
	return it.m.belowHi(it.inner.Elem().key)
}

func (it *boundIterator[K, V]) Elem() *Entry[K, V] { return it.inner.Elem() }

func (it *boundIterator[K, V]) Next() { it.inner.Next() }

func (it *boundIterator[K, V]) Remove() { it.inner.Remove() }
