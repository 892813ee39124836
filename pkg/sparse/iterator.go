package sparse

// Iterator is a stateful iterator over a Set, used like this:
//
//	for it := s.Iterator(); it.HasElem(); it.Next() {
//	    elem := it.Elem()
//	    // do something with elem...
//	}
//
// It keeps the path from the root to the current element, like the
// persistent vector iterator, and recurses into nested sets with a
// child iterator. Mutating the set invalidates all its iterators.
type Iterator[T any] struct {
	set   *Set[T]
	desc  bool
	stack []frame[T]
	leaf  *leaf[T] // nil when exhausted
	li    int      // position in leaf.elems, meaningful when !inSub
	inSub bool
	sub   *Iterator[T]
}

type frame[T any] struct {
	n *node[T]
	i int
}

// Iterator returns an iterator in ascending order.
func (s *Set[T]) Iterator() *Iterator[T] {
	it := &Iterator[T]{set: s}
	if s.root != nil {
		it.descendMin(s.root)
	}
	return it
}

// Descending returns an iterator in descending order.
func (s *Set[T]) Descending() *Iterator[T] {
	it := &Iterator[T]{set: s, desc: true}
	if s.root != nil {
		it.descendMax(s.root)
	}
	return it
}

// IteratorFrom returns an ascending iterator positioned at the first
// element not less than probe.
func (s *Set[T]) IteratorFrom(probe T) *Iterator[T] {
	it := &Iterator[T]{set: s}
	if s.root == nil || !it.seekCeil(s.root, maxShift, s.ord.Index(probe), probe) {
		it.reset()
	}
	return it
}

// DescendingFrom returns a descending iterator positioned at the last
// element not greater than probe.
func (s *Set[T]) DescendingFrom(probe T) *Iterator[T] {
	it := &Iterator[T]{set: s, desc: true}
	if s.root == nil || !it.seekFloor(s.root, maxShift, s.ord.Index(probe), probe) {
		it.reset()
	}
	return it
}

// HasElem reports whether the iterator points to an element.
func (it *Iterator[T]) HasElem() bool { return it.leaf != nil }

// Elem returns the current element.
func (it *Iterator[T]) Elem() T {
	if it.inSub {
		return it.sub.Elem()
	}
	return it.leaf.elems[it.li]
}

// Next moves the iterator to the next position.
func (it *Iterator[T]) Next() {
	if it.leaf == nil {
		return
	}
	if it.desc {
		it.nextDesc()
	} else {
		it.nextAsc()
	}
}

// Clone returns an independent iterator at the same position.
func (it *Iterator[T]) Clone() *Iterator[T] {
	c := *it
	c.stack = append([]frame[T](nil), it.stack...)
	if it.sub != nil {
		c.sub = it.sub.Clone()
	}
	return &c
}

func (it *Iterator[T]) reset() {
	it.stack = nil
	it.leaf = nil
	it.inSub = false
	it.sub = nil
}

func (it *Iterator[T]) nextAsc() {
	l := it.leaf
	if it.inSub {
		it.sub.Next()
		if it.sub.HasElem() {
			return
		}
	} else {
		it.li++
		if it.li < len(l.elems) {
			return
		}
		if l.sub != nil && l.sub.count > 0 {
			it.inSub = true
			it.sub = l.sub.Iterator()
			return
		}
	}
	it.advanceAsc()
}

func (it *Iterator[T]) nextDesc() {
	l := it.leaf
	if it.inSub {
		it.sub.Next()
		if it.sub.HasElem() {
			return
		}
		if len(l.elems) > 0 {
			it.inSub = false
			it.sub = nil
			it.li = len(l.elems) - 1
			return
		}
	} else {
		it.li--
		if it.li >= 0 {
			return
		}
	}
	it.advanceDesc()
}

// advanceAsc leaves the current leaf and moves to the leftmost element
// of the next occupied slot, unwinding the path as needed.
func (it *Iterator[T]) advanceAsc() {
	it.leaf, it.inSub, it.sub = nil, false, nil
	for len(it.stack) > 0 {
		top := len(it.stack) - 1
		f := &it.stack[top]
		f.i++
		if f.i < len(f.n.slots) {
			it.enterSlotMin(f.n.slots[f.i])
			return
		}
		it.stack = it.stack[:top]
	}
}

func (it *Iterator[T]) advanceDesc() {
	it.leaf, it.inSub, it.sub = nil, false, nil
	for len(it.stack) > 0 {
		top := len(it.stack) - 1
		f := &it.stack[top]
		f.i--
		if f.i >= 0 {
			it.enterSlotMax(f.n.slots[f.i])
			return
		}
		it.stack = it.stack[:top]
	}
}

func (it *Iterator[T]) descendMin(n *node[T]) {
	it.stack = append(it.stack, frame[T]{n, 0})
	it.enterSlotMin(n.slots[0])
}

func (it *Iterator[T]) descendMax(n *node[T]) {
	it.stack = append(it.stack, frame[T]{n, len(n.slots) - 1})
	it.enterSlotMax(n.slots[len(n.slots)-1])
}

func (it *Iterator[T]) enterSlotMin(sl slot[T]) {
	for sl.child != nil {
		it.stack = append(it.stack, frame[T]{sl.child, 0})
		sl = sl.child.slots[0]
	}
	it.enterLeafMin(sl.leaf)
}

func (it *Iterator[T]) enterSlotMax(sl slot[T]) {
	for sl.child != nil {
		it.stack = append(it.stack, frame[T]{sl.child, len(sl.child.slots) - 1})
		sl = sl.child.slots[len(sl.child.slots)-1]
	}
	it.enterLeafMax(sl.leaf)
}

// enterLeafMin positions at the smallest element of l: the sorted run
// comes before the nested set, since the order can only refine
// elements that sort after the run's.
func (it *Iterator[T]) enterLeafMin(l *leaf[T]) {
	it.leaf = l
	if len(l.elems) > 0 {
		it.li, it.inSub, it.sub = 0, false, nil
		return
	}
	it.inSub = true
	it.sub = l.sub.Iterator()
}

func (it *Iterator[T]) enterLeafMax(l *leaf[T]) {
	it.leaf = l
	if l.sub != nil && l.sub.count > 0 {
		it.inSub = true
		it.sub = l.sub.Descending()
		return
	}
	it.li, it.inSub, it.sub = len(l.elems)-1, false, nil
}

// seekCeil positions at the first element of n's subtree that is not
// less than probe; it returns false and leaves no state behind when
// the whole subtree is below probe.
func (it *Iterator[T]) seekCeil(n *node[T], shift uint, idx uint32, probe T) bool {
	c := chunk(idx, shift)
	i, ok := n.slotPos(c)
	if ok {
		it.stack = append(it.stack, frame[T]{n, i})
		sl := n.slots[i]
		found := false
		if sl.child != nil {
			found = it.seekCeil(sl.child, shift-chunkBits, idx, probe)
		} else {
			found = it.enterLeafCeil(sl.leaf, idx, probe)
		}
		if found {
			return true
		}
		it.stack = it.stack[:len(it.stack)-1]
		i++
	}
	if i < len(n.slots) {
		it.stack = append(it.stack, frame[T]{n, i})
		it.enterSlotMin(n.slots[i])
		return true
	}
	return false
}

func (it *Iterator[T]) seekFloor(n *node[T], shift uint, idx uint32, probe T) bool {
	c := chunk(idx, shift)
	i, ok := n.slotPos(c)
	if ok {
		it.stack = append(it.stack, frame[T]{n, i})
		sl := n.slots[i]
		found := false
		if sl.child != nil {
			found = it.seekFloor(sl.child, shift-chunkBits, idx, probe)
		} else {
			found = it.enterLeafFloor(sl.leaf, idx, probe)
		}
		if found {
			return true
		}
		it.stack = it.stack[:len(it.stack)-1]
	}
	// Slots at positions below i hold chunks smaller than c.
	if i > 0 {
		it.stack = append(it.stack, frame[T]{n, i - 1})
		it.enterSlotMax(n.slots[i-1])
		return true
	}
	return false
}

func (it *Iterator[T]) enterLeafCeil(l *leaf[T], idx uint32, probe T) bool {
	if l.index < idx {
		return false
	}
	if l.index > idx {
		it.enterLeafMin(l)
		return true
	}
	ord := it.set.ord
	for j, e := range l.elems {
		if ord.Compare(e, probe) >= 0 {
			it.leaf, it.li, it.inSub = l, j, false
			return true
		}
	}
	if l.sub != nil && l.sub.count > 0 {
		st := l.sub.IteratorFrom(probe)
		if st.HasElem() {
			it.leaf, it.inSub, it.sub = l, true, st
			return true
		}
	}
	return false
}

func (it *Iterator[T]) enterLeafFloor(l *leaf[T], idx uint32, probe T) bool {
	if l.index > idx {
		return false
	}
	if l.index < idx {
		it.enterLeafMax(l)
		return true
	}
	ord := it.set.ord
	if l.sub != nil && l.sub.count > 0 {
		st := l.sub.DescendingFrom(probe)
		if st.HasElem() {
			it.leaf, it.inSub, it.sub = l, true, st
			return true
		}
	}
	for j := len(l.elems) - 1; j >= 0; j-- {
		if ord.Compare(l.elems[j], probe) <= 0 {
			it.leaf, it.li, it.inSub = l, j, false
			return true
		}
	}
	return false
}
