package omap

import "ordmap.dev/pkg/order"

// Unmodifiable returns a read-only view of m. Every mutating
// operation on the view panics with ErrUnmodifiable; reads forward to
// m and observe later mutations made through m itself. Wrapping an
// already unmodifiable view returns it unchanged.
func Unmodifiable[K, V any](m Map[K, V]) Map[K, V] {
	if _, ok := m.(*unmodifiableMap[K, V]); ok {
		return m
	}
	return &unmodifiableMap[K, V]{m}
}

type unmodifiableMap[K, V any] struct {
	inner Map[K, V]
}

func (m *unmodifiableMap[K, V]) Get(key K) (V, bool) { return m.inner.Get(key) }

func (m *unmodifiableMap[K, V]) GetEntry(key K) *Entry[K, V] { return m.inner.GetEntry(key) }

func (m *unmodifiableMap[K, V]) Put(key K, value V) (V, bool) { panic(ErrUnmodifiable) }

func (m *unmodifiableMap[K, V]) PutEntry(entry *Entry[K, V]) { panic(ErrUnmodifiable) }

func (m *unmodifiableMap[K, V]) PutAll(other Map[K, V]) { panic(ErrUnmodifiable) }

func (m *unmodifiableMap[K, V]) Remove(key K) (V, bool) { panic(ErrUnmodifiable) }

func (m *unmodifiableMap[K, V]) RemoveEntry(key K) *Entry[K, V] { panic(ErrUnmodifiable) }

func (m *unmodifiableMap[K, V]) removeExact(*Entry[K, V]) bool { panic(ErrUnmodifiable) }

func (m *unmodifiableMap[K, V]) UpdateValue(*Entry[K, V], V) V { panic(ErrUnmodifiable) }

func (m *unmodifiableMap[K, V]) Clear() { panic(ErrUnmodifiable) }

func (m *unmodifiableMap[K, V]) Len() int { return m.inner.Len() }

func (m *unmodifiableMap[K, V]) Empty() bool { return m.inner.Empty() }

func (m *unmodifiableMap[K, V]) KeyOrder() order.Order[K] { return m.inner.KeyOrder() }

func (m *unmodifiableMap[K, V]) ValueEq() order.Equality[V] { return m.inner.ValueEq() }

// Clone returns an unmodifiable view over an independent copy.
func (m *unmodifiableMap[K, V]) Clone() Map[K, V] {
	return &unmodifiableMap[K, V]{m.inner.Clone()}
}

func (m *unmodifiableMap[K, V]) Freeze() Map[K, V] { return m.inner.Freeze() }

func (m *unmodifiableMap[K, V]) Iterator() Iterator[K, V] {
	return readOnlyIterator[K, V]{m.inner.Iterator()}
}

func (m *unmodifiableMap[K, V]) IteratorFrom(key K) Iterator[K, V] {
	return readOnlyIterator[K, V]{m.inner.IteratorFrom(key)}
}

func (m *unmodifiableMap[K, V]) DescendingIterator() Iterator[K, V] {
	return readOnlyIterator[K, V]{m.inner.DescendingIterator()}
}

func (m *unmodifiableMap[K, V]) DescendingIteratorFrom(key K) Iterator[K, V] {
	return readOnlyIterator[K, V]{m.inner.DescendingIteratorFrom(key)}
}

// readOnlyIterator forwards traversal but rejects removal.
type readOnlyIterator[K, V any] struct {
	inner Iterator[K, V]
}

func (it readOnlyIterator[K, V]) HasElem() bool { return it.inner.HasElem() }

func (it readOnlyIterator[K, V]) Elem() *Entry[K, V] { return it.inner.Elem() }

func (it readOnlyIterator[K, V]) Next() { it.inner.Next() }

func (it readOnlyIterator[K, V]) Remove() { panic(ErrUnmodifiable) }
