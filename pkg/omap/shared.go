package omap

import (
	"sync"

	"ordmap.dev/pkg/order"
)

// Shared returns a view of m that is safe for concurrent use, using a
// readers-writer lock. Iterators run over a snapshot taken when they
// are created, so they never observe a torn state; their Remove still
// applies to the live map.
func Shared[K, V any](m Map[K, V]) Map[K, V] {
	if _, ok := m.(*sharedMap[K, V]); ok {
		return m
	}
	return &sharedMap[K, V]{inner: m}
}

type sharedMap[K, V any] struct {
	mu    sync.RWMutex
	inner Map[K, V]
}

func (m *sharedMap[K, V]) Get(key K) (V, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.inner.Get(key)
}

func (m *sharedMap[K, V]) GetEntry(key K) *Entry[K, V] {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.inner.GetEntry(key)
}

func (m *sharedMap[K, V]) Put(key K, value V) (V, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.inner.Put(key, value)
}

func (m *sharedMap[K, V]) PutEntry(entry *Entry[K, V]) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.inner.PutEntry(entry)
}

func (m *sharedMap[K, V]) PutAll(other Map[K, V]) {
	m.mu.Lock()
	defer m.mu.Unlock()
	putAll[K, V](m.inner, other)
}

func (m *sharedMap[K, V]) Remove(key K) (V, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.inner.Remove(key)
}

func (m *sharedMap[K, V]) RemoveEntry(key K) *Entry[K, V] {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.inner.RemoveEntry(key)
}

func (m *sharedMap[K, V]) removeExact(entry *Entry[K, V]) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.inner.removeExact(entry)
}

func (m *sharedMap[K, V]) UpdateValue(entry *Entry[K, V], value V) V {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.inner.UpdateValue(entry, value)
}

func (m *sharedMap[K, V]) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.inner.Clear()
}

func (m *sharedMap[K, V]) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.inner.Len()
}

func (m *sharedMap[K, V]) Empty() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.inner.Empty()
}

func (m *sharedMap[K, V]) KeyOrder() order.Order[K] { return m.inner.KeyOrder() }

func (m *sharedMap[K, V]) ValueEq() order.Equality[V] { return m.inner.ValueEq() }

// Clone takes the write lock: cloning marks shared storage frozen.
func (m *sharedMap[K, V]) Clone() Map[K, V] {
	m.mu.Lock()
	defer m.mu.Unlock()
	return &sharedMap[K, V]{inner: m.inner.Clone()}
}

// Freeze returns the frozen map unwrapped; an immutable map needs no
// locking.
func (m *sharedMap[K, V]) Freeze() Map[K, V] {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.inner.Freeze()
}

func (m *sharedMap[K, V]) snapshot() Map[K, V] {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.inner.Clone()
}

func (m *sharedMap[K, V]) Iterator() Iterator[K, V] {
	return &sharedIterator[K, V]{m: m, inner: m.snapshot().Iterator()}
}

func (m *sharedMap[K, V]) IteratorFrom(key K) Iterator[K, V] {
	return &sharedIterator[K, V]{m: m, inner: m.snapshot().IteratorFrom(key)}
}

func (m *sharedMap[K, V]) DescendingIterator() Iterator[K, V] {
	return &sharedIterator[K, V]{m: m, inner: m.snapshot().DescendingIterator()}
}

func (m *sharedMap[K, V]) DescendingIteratorFrom(key K) Iterator[K, V] {
	return &sharedIterator[K, V]{m: m, inner: m.snapshot().DescendingIteratorFrom(key)}
}

// sharedIterator traverses a snapshot; Remove forwards to the live
// map by entry identity, which works because snapshots share entries
// copy-on-write.
type sharedIterator[K, V any] struct {
	m     *sharedMap[K, V]
	inner Iterator[K, V]
}

func (it *sharedIterator[K, V]) HasElem() bool { return it.inner.HasElem() }

func (it *sharedIterator[K, V]) Elem() *Entry[K, V] { return it.inner.Elem() }

func (it *sharedIterator[K, V]) Next() { it.inner.Next() }

func (it *sharedIterator[K, V]) Remove() {
	it.m.removeExact(it.inner.Elem())
	it.inner.Next()
}
