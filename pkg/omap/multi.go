package omap

import "ordmap.dev/pkg/order"

// Multi returns a multimap view of m: Put inserts unconditionally
// instead of overwriting, so several entries may share order-equal
// keys. Get and Remove resolve any one entry of the key's run;
// iterating from the key visits the whole run in insertion order.
func Multi[K, V any](m Map[K, V]) Map[K, V] {
	if _, ok := m.(*multiMap[K, V]); ok {
		return m
	}
	return &multiMap[K, V]{m}
}

type multiMap[K, V any] struct {
	inner Map[K, V]
}

func (m *multiMap[K, V]) Get(key K) (V, bool) { return m.inner.Get(key) }

func (m *multiMap[K, V]) GetEntry(key K) *Entry[K, V] { return m.inner.GetEntry(key) }

// Put inserts a fresh entry even when the key is already present. The
// returned previous value is always absent.
func (m *multiMap[K, V]) Put(key K, value V) (V, bool) {
	m.inner.PutEntry(NewEntry(key, value))
	var zero V
	return zero, false
}

func (m *multiMap[K, V]) PutEntry(entry *Entry[K, V]) { m.inner.PutEntry(entry) }

func (m *multiMap[K, V]) PutAll(other Map[K, V]) { putAll[K, V](m, other) }

func (m *multiMap[K, V]) Remove(key K) (V, bool) { return m.inner.Remove(key) }

func (m *multiMap[K, V]) RemoveEntry(key K) *Entry[K, V] { return m.inner.RemoveEntry(key) }

func (m *multiMap[K, V]) removeExact(entry *Entry[K, V]) bool { return m.inner.removeExact(entry) }

func (m *multiMap[K, V]) UpdateValue(entry *Entry[K, V], value V) V {
	return m.inner.UpdateValue(entry, value)
}

func (m *multiMap[K, V]) Clear() { m.inner.Clear() }

func (m *multiMap[K, V]) Len() int { return m.inner.Len() }

func (m *multiMap[K, V]) Empty() bool { return m.inner.Empty() }

func (m *multiMap[K, V]) KeyOrder() order.Order[K] { return m.inner.KeyOrder() }

func (m *multiMap[K, V]) ValueEq() order.Equality[V] { return m.inner.ValueEq() }

func (m *multiMap[K, V]) Clone() Map[K, V] { return &multiMap[K, V]{m.inner.Clone()} }

func (m *multiMap[K, V]) Freeze() Map[K, V] { return &multiMap[K, V]{m.inner.Freeze()} }

func (m *multiMap[K, V]) Iterator() Iterator[K, V] { return m.inner.Iterator() }

func (m *multiMap[K, V]) IteratorFrom(key K) Iterator[K, V] { return m.inner.IteratorFrom(key) }

func (m *multiMap[K, V]) DescendingIterator() Iterator[K, V] { return m.inner.DescendingIterator() }

func (m *multiMap[K, V]) DescendingIteratorFrom(key K) Iterator[K, V] {
	return m.inner.DescendingIteratorFrom(key)
}
