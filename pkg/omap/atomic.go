package omap

import (
	"sync"
	"sync/atomic"

	"ordmap.dev/pkg/order"
)

// Atomic returns a lock-free-read view of m. Reads and iterators work
// on the currently published version without any locking; each
// mutation clones the published version, applies the change and
// publishes the result, with a mutex serializing writers. An iterator
// keeps traversing the version that was current when it was created.
//
// The view starts from a clone, so later changes to m are not seen.
func Atomic[K, V any](m Map[K, V]) Map[K, V] {
	am := &atomicMap[K, V]{}
	am.v.Store(m.Clone())
	return am
}

type atomicMap[K, V any] struct {
	mu sync.Mutex // serializes writers
	v  atomic.Value
}

func (m *atomicMap[K, V]) load() Map[K, V] { return m.v.Load().(Map[K, V]) }

// mutate publishes f's changes as a new version.
func (m *atomicMap[K, V]) mutate(f func(Map[K, V])) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c := m.load().Clone()
	f(c)
	m.v.Store(c)
}

func (m *atomicMap[K, V]) Get(key K) (V, bool) { return m.load().Get(key) }

func (m *atomicMap[K, V]) GetEntry(key K) *Entry[K, V] { return m.load().GetEntry(key) }

func (m *atomicMap[K, V]) Put(key K, value V) (V, bool) {
	var prev V
	var replaced bool
	m.mutate(func(c Map[K, V]) { prev, replaced = c.Put(key, value) })
	return prev, replaced
}

func (m *atomicMap[K, V]) PutEntry(entry *Entry[K, V]) {
	m.mutate(func(c Map[K, V]) { c.PutEntry(entry) })
}

func (m *atomicMap[K, V]) PutAll(other Map[K, V]) {
	m.mutate(func(c Map[K, V]) { putAll[K, V](c, other) })
}

func (m *atomicMap[K, V]) Remove(key K) (V, bool) {
	var prev V
	var removed bool
	m.mutate(func(c Map[K, V]) { prev, removed = c.Remove(key) })
	return prev, removed
}

func (m *atomicMap[K, V]) RemoveEntry(key K) *Entry[K, V] {
	var e *Entry[K, V]
	m.mutate(func(c Map[K, V]) { e = c.RemoveEntry(key) })
	return e
}

func (m *atomicMap[K, V]) removeExact(entry *Entry[K, V]) bool {
	var ok bool
	m.mutate(func(c Map[K, V]) { ok = c.removeExact(entry) })
	return ok
}

func (m *atomicMap[K, V]) UpdateValue(entry *Entry[K, V], value V) V {
	var old V
	m.mutate(func(c Map[K, V]) { old = c.UpdateValue(entry, value) })
	return old
}

func (m *atomicMap[K, V]) Clear() {
	m.mutate(func(c Map[K, V]) { c.Clear() })
}

func (m *atomicMap[K, V]) Len() int { return m.load().Len() }

func (m *atomicMap[K, V]) Empty() bool { return m.load().Empty() }

func (m *atomicMap[K, V]) KeyOrder() order.Order[K] { return m.load().KeyOrder() }

func (m *atomicMap[K, V]) ValueEq() order.Equality[V] { return m.load().ValueEq() }

func (m *atomicMap[K, V]) Clone() Map[K, V] {
	m.mu.Lock()
	defer m.mu.Unlock()
	am := &atomicMap[K, V]{}
	am.v.Store(m.load().Clone())
	return am
}

func (m *atomicMap[K, V]) Freeze() Map[K, V] {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.load().Freeze()
}

func (m *atomicMap[K, V]) Iterator() Iterator[K, V] {
	return &atomicIterator[K, V]{m: m, inner: m.load().Iterator()}
}

func (m *atomicMap[K, V]) IteratorFrom(key K) Iterator[K, V] {
	return &atomicIterator[K, V]{m: m, inner: m.load().IteratorFrom(key)}
}

func (m *atomicMap[K, V]) DescendingIterator() Iterator[K, V] {
	return &atomicIterator[K, V]{m: m, inner: m.load().DescendingIterator()}
}

func (m *atomicMap[K, V]) DescendingIteratorFrom(key K) Iterator[K, V] {
	return &atomicIterator[K, V]{m: m, inner: m.load().DescendingIteratorFrom(key)}
}

// atomicIterator traverses the version published at creation time.
// Remove publishes a new version without the entry; the traversal
// itself keeps seeing the old version.
type atomicIterator[K, V any] struct {
	m     *atomicMap[K, V]
	inner Iterator[K, V]
}

func (it *atomicIterator[K, V]) HasElem() bool { return it.inner.HasElem() }

func (it *atomicIterator[K, V]) Elem() *Entry[K, V] { return it.inner.Elem() }

func (it *atomicIterator[K, V]) Next() { it.inner.Next() }

func (it *atomicIterator[K, V]) Remove() {
	it.m.removeExact(it.inner.Elem())
	it.inner.Next()
}
