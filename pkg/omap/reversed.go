package omap

import "ordmap.dev/pkg/order"

// Reversed returns a view of m iterating in the opposite direction:
// its ascending iterator is m's descending one and vice versa.
// Reversing a reversed view returns the original.
func Reversed[K, V any](m Map[K, V]) Map[K, V] {
	if r, ok := m.(*reversedMap[K, V]); ok {
		return r.inner
	}
	return &reversedMap[K, V]{m}
}

type reversedMap[K, V any] struct {
	inner Map[K, V]
}

func (m *reversedMap[K, V]) Get(key K) (V, bool) { return m.inner.Get(key) }

func (m *reversedMap[K, V]) GetEntry(key K) *Entry[K, V] { return m.inner.GetEntry(key) }

func (m *reversedMap[K, V]) Put(key K, value V) (V, bool) { return m.inner.Put(key, value) }

func (m *reversedMap[K, V]) PutEntry(entry *Entry[K, V]) { m.inner.PutEntry(entry) }

func (m *reversedMap[K, V]) PutAll(other Map[K, V]) { m.inner.PutAll(other) }

func (m *reversedMap[K, V]) Remove(key K) (V, bool) { return m.inner.Remove(key) }

func (m *reversedMap[K, V]) RemoveEntry(key K) *Entry[K, V] { return m.inner.RemoveEntry(key) }

func (m *reversedMap[K, V]) removeExact(entry *Entry[K, V]) bool { return m.inner.removeExact(entry) }

func (m *reversedMap[K, V]) UpdateValue(entry *Entry[K, V], value V) V {
	return m.inner.UpdateValue(entry, value)
}

func (m *reversedMap[K, V]) Clear() { m.inner.Clear() }

func (m *reversedMap[K, V]) Len() int { return m.inner.Len() }

func (m *reversedMap[K, V]) Empty() bool { return m.inner.Empty() }

func (m *reversedMap[K, V]) KeyOrder() order.Order[K] { return m.inner.KeyOrder() }

func (m *reversedMap[K, V]) ValueEq() order.Equality[V] { return m.inner.ValueEq() }

func (m *reversedMap[K, V]) Clone() Map[K, V] { return &reversedMap[K, V]{m.inner.Clone()} }

func (m *reversedMap[K, V]) Freeze() Map[K, V] { return &reversedMap[K, V]{m.inner.Freeze()} }

func (m *reversedMap[K, V]) Iterator() Iterator[K, V] { return m.inner.DescendingIterator() }

func (m *reversedMap[K, V]) IteratorFrom(key K) Iterator[K, V] {
	return m.inner.DescendingIteratorFrom(key)
}

func (m *reversedMap[K, V]) DescendingIterator() Iterator[K, V] { return m.inner.Iterator() }

func (m *reversedMap[K, V]) DescendingIteratorFrom(key K) Iterator[K, V] {
	return m.inner.IteratorFrom(key)
}
