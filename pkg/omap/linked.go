package omap

import "ordmap.dev/pkg/order"

// Linked returns a view of m that iterates in insertion order rather
// than key order. Only insertions made through the view are tracked;
// overwriting a present key keeps the entry's original position.
// Lookups still go through m's order. To combine with a multimap,
// stack Multi over Linked: Multi(Linked(m)).
//
// Range views (Sub, Head, Tail) assume iteration follows the key
// order; over a linked view they cut the chain where its keys happen
// to cross the bounds, not at the range's true extent.
func Linked[K, V any](m Map[K, V]) Map[K, V] {
	lm := &linkedMap[K, V]{inner: m}
	for it := m.Iterator(); it.HasElem(); it.Next() {
		lm.seq = append(lm.seq, it.Elem())
	}
	return lm
}

type linkedMap[K, V any] struct {
	inner Map[K, V]
	seq   []*Entry[K, V]
}

func (m *linkedMap[K, V]) Get(key K) (V, bool) { return m.inner.Get(key) }

func (m *linkedMap[K, V]) GetEntry(key K) *Entry[K, V] { return m.inner.GetEntry(key) }

func (m *linkedMap[K, V]) Put(key K, value V) (V, bool) {
	before := m.inner.GetEntry(key)
	prev, replaced := m.inner.Put(key, value)
	after := m.inner.GetEntry(key)
	switch {
	case before == nil && after != nil:
		m.seq = append(m.seq, after)
	case before != nil && after != before:
		// A frozen entry was replaced; the new entry keeps the old
		// one's position in the chain.
		m.swap(before, after)
	}
	return prev, replaced
}

func (m *linkedMap[K, V]) PutEntry(entry *Entry[K, V]) {
	m.inner.PutEntry(entry)
	m.seq = append(m.seq, entry)
}

func (m *linkedMap[K, V]) PutAll(other Map[K, V]) { putAll[K, V](m, other) }

func (m *linkedMap[K, V]) Remove(key K) (V, bool) {
	if e := m.RemoveEntry(key); e != nil {
		return e.value, true
	}
	var zero V
	return zero, false
}

func (m *linkedMap[K, V]) RemoveEntry(key K) *Entry[K, V] {
	e := m.inner.RemoveEntry(key)
	if e != nil {
		m.unlink(e)
	}
	return e
}

func (m *linkedMap[K, V]) removeExact(entry *Entry[K, V]) bool {
	if !m.inner.removeExact(entry) {
		return false
	}
	m.unlink(entry)
	return true
}

func (m *linkedMap[K, V]) UpdateValue(entry *Entry[K, V], value V) V {
	old := m.inner.UpdateValue(entry, value)
	if after := m.inner.GetEntry(entry.key); after != nil && after != entry {
		m.swap(entry, after)
	}
	return old
}

func (m *linkedMap[K, V]) Clear() {
	m.inner.Clear()
	m.seq = nil
}

func (m *linkedMap[K, V]) Len() int { return m.inner.Len() }

func (m *linkedMap[K, V]) Empty() bool { return m.inner.Empty() }

func (m *linkedMap[K, V]) KeyOrder() order.Order[K] { return m.inner.KeyOrder() }

func (m *linkedMap[K, V]) ValueEq() order.Equality[V] { return m.inner.ValueEq() }

// Clone copies the underlying map and the insertion chain. Entries
// are shared copy-on-write with the original, so the chain's pointers
// stay valid in the copy until a slot is overwritten, at which point
// Put and UpdateValue patch the chain.
func (m *linkedMap[K, V]) Clone() Map[K, V] {
	return &linkedMap[K, V]{inner: m.inner.Clone(), seq: m.copySeq()}
}

func (m *linkedMap[K, V]) Freeze() Map[K, V] {
	return &linkedMap[K, V]{inner: m.inner.Freeze(), seq: m.copySeq()}
}

func (m *linkedMap[K, V]) copySeq() []*Entry[K, V] {
	return append([]*Entry[K, V](nil), m.seq...)
}

func (m *linkedMap[K, V]) swap(from, to *Entry[K, V]) {
	for i, e := range m.seq {
		if e == from {
			m.seq[i] = to
			return
		}
	}
}

func (m *linkedMap[K, V]) unlink(entry *Entry[K, V]) {
	for i, e := range m.seq {
		if e == entry {
			m.seq = append(m.seq[:i], m.seq[i+1:]...)
			return
		}
	}
}

func (m *linkedMap[K, V]) Iterator() Iterator[K, V] {
	return &linkedIterator[K, V]{m: m, entries: m.copySeq()}
}

// IteratorFrom starts at the entry holding key when one is present;
// otherwise at the first chain entry whose key is not less than key.
func (m *linkedMap[K, V]) IteratorFrom(key K) Iterator[K, V] {
	it := &linkedIterator[K, V]{m: m, entries: m.copySeq()}
	ord := m.KeyOrder()
	fallback := len(it.entries)
	for i, e := range it.entries {
		if ord.Equal(e.key, key) {
			it.i = i
			return it
		}
		if fallback == len(it.entries) && ord.Compare(e.key, key) >= 0 {
			fallback = i
		}
	}
	it.i = fallback
	return it
}

func (m *linkedMap[K, V]) DescendingIterator() Iterator[K, V] {
	return &linkedIterator[K, V]{m: m, entries: m.copySeq(), desc: true}
}

// DescendingIteratorFrom mirrors IteratorFrom over the reversed
// chain, falling back to the first entry whose key is not greater
// than key.
func (m *linkedMap[K, V]) DescendingIteratorFrom(key K) Iterator[K, V] {
	it := &linkedIterator[K, V]{m: m, entries: m.copySeq(), desc: true}
	ord := m.KeyOrder()
	last := len(it.entries)
	fallback := last
	for j := last - 1; j >= 0; j-- {
		e := it.entries[j]
		if ord.Equal(e.key, key) {
			it.i = last - 1 - j
			return it
		}
		if fallback == last && ord.Compare(e.key, key) <= 0 {
			fallback = last - 1 - j
		}
	}
	it.i = fallback
	return it
}

// linkedIterator walks a snapshot of the insertion chain; i counts
// steps from the starting end.
type linkedIterator[K, V any] struct {
	m       *linkedMap[K, V]
	entries []*Entry[K, V]
	i       int
	desc    bool
}

func (it *linkedIterator[K, V]) HasElem() bool { return it.i < len(it.entries) }

func (it *linkedIterator[K, V]) Elem() *Entry[K, V] {
	if it.desc {
		return it.entries[len(it.entries)-1-it.i]
	}
	return it.entries[it.i]
}

func (it *linkedIterator[K, V]) Next() { it.i++ }

func (it *linkedIterator[K, V]) Remove() {
	it.m.removeExact(it.Elem())
	it.i++
}
