package omap

// Keys returns a set-like view of m's keys. It is a window over the
// map: it observes later changes, and removals through it remove the
// corresponding entries.
func Keys[K, V any](m Map[K, V]) KeyView[K, V] { return KeyView[K, V]{m} }

// KeyView projects a map onto its keys.
type KeyView[K, V any] struct {
	m Map[K, V]
}

// Len returns the number of keys, counting order-equal duplicates of
// a multimap separately.
func (s KeyView[K, V]) Len() int { return s.m.Len() }

// Empty reports whether the view has no keys.
func (s KeyView[K, V]) Empty() bool { return s.m.Empty() }

// Has reports whether a key equal to key is present.
func (s KeyView[K, V]) Has(key K) bool { return s.m.GetEntry(key) != nil }

// Add inserts key with the zero value, and reports whether it was
// absent before. The entry behaves like any other: a later Put
// overwrites its value in place.
func (s KeyView[K, V]) Add(key K) bool {
	if s.m.GetEntry(key) != nil {
		return false
	}
	var zero V
	s.m.Put(key, zero)
	return true
}

// Remove removes one entry whose key is equal to key.
func (s KeyView[K, V]) Remove(key K) bool {
	return s.m.RemoveEntry(key) != nil
}

// Iterator iterates the keys in the map's iteration order.
func (s KeyView[K, V]) Iterator() *KeyIterator[K, V] {
	return &KeyIterator[K, V]{s.m.Iterator()}
}

// KeyIterator iterates the keys of a map. Remove removes the entry
// the current key belongs to.
type KeyIterator[K, V any] struct {
	inner Iterator[K, V]
}

func (it *KeyIterator[K, V]) HasElem() bool { return it.inner.HasElem() }

func (it *KeyIterator[K, V]) Elem() K { return it.inner.Elem().Key() }

func (it *KeyIterator[K, V]) Next() { it.inner.Next() }

func (it *KeyIterator[K, V]) Remove() { it.inner.Remove() }

// Values returns a collection view of m's values, in the map's
// iteration order. Like Keys, it is a window, not a copy.
func Values[K, V any](m Map[K, V]) ValueView[K, V] { return ValueView[K, V]{m} }

// ValueView projects a map onto its values.
type ValueView[K, V any] struct {
	m Map[K, V]
}

// Len returns the number of values.
func (s ValueView[K, V]) Len() int { return s.m.Len() }

// Empty reports whether the view has no values.
func (s ValueView[K, V]) Empty() bool { return s.m.Empty() }

// Has reports whether some entry's value is equal to value under the
// map's value equivalence. It scans the whole map.
func (s ValueView[K, V]) Has(value V) bool {
	eq := s.m.ValueEq()
	for it := s.m.Iterator(); it.HasElem(); it.Next() {
		if eq(it.Elem().Value(), value) {
			return true
		}
	}
	return false
}

// Iterator iterates the values in the map's iteration order.
func (s ValueView[K, V]) Iterator() *ValueIterator[K, V] {
	return &ValueIterator[K, V]{s.m.Iterator()}
}

// ValueIterator iterates the values of a map.
type ValueIterator[K, V any] struct {
	inner Iterator[K, V]
}

func (it *ValueIterator[K, V]) HasElem() bool { return it.inner.HasElem() }

func (it *ValueIterator[K, V]) Elem() V { return it.inner.Elem().Value() }

func (it *ValueIterator[K, V]) Next() { it.inner.Next() }
