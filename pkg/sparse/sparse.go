// Package sparse implements a mutable ordered set backed by a sparse
// trie over 32-bit placement indexes.
//
// Elements are placed by their order's Index, consumed four bits at a
// time starting from the most significant bits, so that in-order
// traversal of the trie yields elements in ascending Compare order.
// Elements sharing one full index live in a leaf: those the order can
// refine further go into a nested set under the sub-order, the rest
// form a run sorted by Compare, with insertion order breaking ties.
//
// A Set is not safe for concurrent use; callers that share one across
// goroutines must synchronize externally. Clone and Freeze mark the
// reachable structure frozen and hand out a new handle; writes on
// either side afterwards copy frozen nodes on write, so the two sides
// never observe each other's mutations.
package sparse

import (
	"errors"

	"ordmap.dev/pkg/order"
)

const (
	chunkBits = 4
	nodeSize  = 1 << chunkBits
	chunkMask = nodeSize - 1
	maxShift  = 32 - chunkBits
)

// ErrFrozen is the panic value of mutating operations on a frozen Set.
var ErrFrozen = errors.New("sparse: set is frozen")

// Set is an ordered set of elements under an order.Order.
//
// The order's Sub is assumed to return the same refinement order for
// every element sharing an index path, and Compare(a, b) == 0 is
// assumed to imply Index(a) == Index(b); all orders in the order
// package satisfy both.
type Set[T any] struct {
	ord    order.Order[T]
	root   *node[T]
	count  int
	frozen bool
}

// node is an internal trie node: a bitmap of occupied chunks and a
// packed slice of slots, one per set bit, in chunk order.
type node[T any] struct {
	frozen bool
	bitmap uint16
	slots  []slot[T]
}

// slot holds either a deeper node or a leaf, never both.
type slot[T any] struct {
	child *node[T]
	leaf  *leaf[T]
}

// leaf holds all elements sharing one full placement index.
type leaf[T any] struct {
	frozen bool
	index  uint32
	elems  []T
	sub    *Set[T]
}

// New returns an empty Set ordered by ord.
func New[T any](ord order.Order[T]) *Set[T] {
	return &Set[T]{ord: ord}
}

// Order returns the set's order.
func (s *Set[T]) Order() order.Order[T] { return s.ord }

// Len returns the number of elements in the set.
func (s *Set[T]) Len() int { return s.count }

// Empty reports whether the set has no elements.
func (s *Set[T]) Empty() bool { return s.count == 0 }

// Frozen reports whether this handle refuses mutation.
func (s *Set[T]) Frozen() bool { return s.frozen }

// Clear removes all elements.
func (s *Set[T]) Clear() {
	if s.frozen {
		panic(ErrFrozen)
	}
	s.root = nil
	s.count = 0
}

// Add inserts v. When allowDuplicate is false and the set already
// contains an element order-equal to v, the set is left unchanged and
// Add returns false.
func (s *Set[T]) Add(v T, allowDuplicate bool) bool {
	if s.frozen {
		panic(ErrFrozen)
	}
	if !allowDuplicate {
		if _, found := s.GetAny(v); found {
			return false
		}
	}
	if s.root == nil {
		s.root = &node[T]{}
	}
	s.root = s.insert(s.root, maxShift, s.ord.Index(v), v)
	s.count++
	return true
}

// GetAny returns an element order-equal to probe, if one exists.
func (s *Set[T]) GetAny(probe T) (T, bool) {
	var zero T
	l := s.findLeaf(s.ord.Index(probe))
	if l == nil {
		return zero, false
	}
	for _, e := range l.elems {
		if s.ord.Equal(e, probe) {
			return e, true
		}
	}
	if l.sub != nil {
		return l.sub.GetAny(probe)
	}
	return zero, false
}

// RemoveAny removes one element order-equal to probe and returns it.
func (s *Set[T]) RemoveAny(probe T) (T, bool) {
	return s.RemoveMatching(probe, func(e T) bool { return s.ord.Equal(e, probe) })
}

// RemoveMatching removes the first element, in iteration order, that
// shares probe's placement and satisfies match. The probe supplies the
// placement index only; match decides the actual element, which lets
// callers remove one specific element among order-equal ones.
func (s *Set[T]) RemoveMatching(probe T, match func(T) bool) (T, bool) {
	var zero T
	if s.frozen {
		panic(ErrFrozen)
	}
	if s.root == nil {
		return zero, false
	}
	removed, ok, newRoot := s.remove(s.root, maxShift, s.ord.Index(probe), probe, match)
	if !ok {
		return zero, false
	}
	s.root = newRoot
	s.count--
	return removed, true
}

// Clone returns a set with the same contents. Both handles remain
// usable and structurally independent: the shared structure is frozen
// and copied on write.
func (s *Set[T]) Clone() *Set[T] {
	markFrozen(s.root)
	return &Set[T]{ord: s.ord, root: s.root, count: s.count}
}

// Freeze marks the structure frozen and returns an immutable handle
// sharing it. The receiver stays writable through copy-on-write; the
// returned handle panics with ErrFrozen on any mutation. The
// transition is one-way.
func (s *Set[T]) Freeze() *Set[T] {
	markFrozen(s.root)
	return &Set[T]{ord: s.ord, root: s.root, count: s.count, frozen: true}
}

func chunk(idx uint32, shift uint) uint16 {
	return uint16(idx>>shift) & chunkMask
}

// slotPos returns the position of chunk c in the packed slot slice and
// whether the chunk is present.
func (n *node[T]) slotPos(c uint16) (int, bool) {
	bit := uint16(1) << c
	return popcount16(n.bitmap & (bit - 1)), n.bitmap&bit != 0
}

func popcount16(b uint16) int {
	n := 0
	for ; b != 0; b &= b - 1 {
		n++
	}
	return n
}

// mutable returns n itself when writable, or a writable copy when n is
// frozen. Children of the copy stay frozen until written themselves.
func (n *node[T]) mutable() *node[T] {
	if !n.frozen {
		return n
	}
	slots := make([]slot[T], len(n.slots))
	copy(slots, n.slots)
	return &node[T]{bitmap: n.bitmap, slots: slots}
}

func (l *leaf[T]) mutable() *leaf[T] {
	if !l.frozen {
		return l
	}
	elems := make([]T, len(l.elems))
	copy(elems, l.elems)
	m := &leaf[T]{index: l.index, elems: elems}
	if l.sub != nil {
		m.sub = &Set[T]{ord: l.sub.ord, root: l.sub.root, count: l.sub.count}
	}
	return m
}

// markFrozen marks every node, leaf and nested set reachable from n as
// frozen. A frozen node's descendants are already frozen, so the walk
// prunes there.
func markFrozen[T any](n *node[T]) {
	if n == nil || n.frozen {
		return
	}
	n.frozen = true
	for i := range n.slots {
		sl := n.slots[i]
		if sl.child != nil {
			markFrozen(sl.child)
		} else if !sl.leaf.frozen {
			sl.leaf.frozen = true
			if sl.leaf.sub != nil {
				markFrozen(sl.leaf.sub.root)
			}
		}
	}
}

func (s *Set[T]) findLeaf(idx uint32) *leaf[T] {
	n := s.root
	for shift := uint(maxShift); n != nil; shift -= chunkBits {
		i, ok := n.slotPos(chunk(idx, shift))
		if !ok {
			return nil
		}
		sl := n.slots[i]
		if sl.leaf != nil {
			if sl.leaf.index == idx {
				return sl.leaf
			}
			return nil
		}
		n = sl.child
	}
	return nil
}

// insert places v under n and returns the node to use in its place
// (a copy if n or any ancestor of the touched path was frozen).
func (s *Set[T]) insert(n *node[T], shift uint, idx uint32, v T) *node[T] {
	n = n.mutable()
	c := chunk(idx, shift)
	i, ok := n.slotPos(c)
	if !ok {
		l := &leaf[T]{index: idx}
		s.leafInsert(l, v)
		n.bitmap |= 1 << c
		n.slots = append(n.slots, slot[T]{})
		copy(n.slots[i+1:], n.slots[i:])
		n.slots[i] = slot[T]{leaf: l}
		return n
	}
	sl := n.slots[i]
	if sl.child != nil {
		n.slots[i].child = s.insert(sl.child, shift-chunkBits, idx, v)
		return n
	}
	if sl.leaf.index == idx {
		l := sl.leaf.mutable()
		s.leafInsert(l, v)
		n.slots[i].leaf = l
		return n
	}
	n.slots[i] = slot[T]{child: s.splitLeaf(shift-chunkBits, sl.leaf, idx, v)}
	return n
}

// splitLeaf builds the subtree distinguishing an existing leaf from a
// new element whose index differs somewhere below the current level.
func (s *Set[T]) splitLeaf(shift uint, old *leaf[T], idx uint32, v T) *node[T] {
	oc := chunk(old.index, shift)
	nc := chunk(idx, shift)
	if oc == nc {
		return &node[T]{
			bitmap: 1 << oc,
			slots:  []slot[T]{{child: s.splitLeaf(shift-chunkBits, old, idx, v)}},
		}
	}
	nl := &leaf[T]{index: idx}
	s.leafInsert(nl, v)
	n := &node[T]{bitmap: 1<<oc | 1<<nc}
	if oc < nc {
		n.slots = []slot[T]{{leaf: old}, {leaf: nl}}
	} else {
		n.slots = []slot[T]{{leaf: nl}, {leaf: old}}
	}
	return n
}

// leafInsert adds v to a writable leaf, either into the nested set
// when the order can refine v further, or into the sorted run.
func (s *Set[T]) leafInsert(l *leaf[T], v T) {
	if sub := s.ord.Sub(v); sub != nil {
		if l.sub == nil {
			l.sub = New(sub)
		}
		l.sub.Add(v, true)
		return
	}
	i := len(l.elems)
	for ; i > 0; i-- {
		if s.ord.Compare(l.elems[i-1], v) <= 0 {
			break
		}
	}
	l.elems = append(l.elems, v)
	copy(l.elems[i+1:], l.elems[i:])
	l.elems[i] = v
}

func (s *Set[T]) remove(n *node[T], shift uint, idx uint32, probe T, match func(T) bool) (T, bool, *node[T]) {
	var zero T
	c := chunk(idx, shift)
	i, ok := n.slotPos(c)
	if !ok {
		return zero, false, n
	}
	sl := n.slots[i]
	if sl.child != nil {
		rv, ok, nc := s.remove(sl.child, shift-chunkBits, idx, probe, match)
		if !ok {
			return zero, false, n
		}
		m := n.mutable()
		if nc == nil {
			m.dropSlot(c, i)
		} else {
			m.slots[i].child = nc
		}
		return rv, true, m.orNil()
	}
	if sl.leaf.index != idx {
		return zero, false, n
	}
	rv, ok, nl := s.leafRemove(sl.leaf, probe, match)
	if !ok {
		return zero, false, n
	}
	m := n.mutable()
	if nl == nil {
		m.dropSlot(c, i)
	} else {
		m.slots[i].leaf = nl
	}
	return rv, true, m.orNil()
}

func (n *node[T]) dropSlot(c uint16, i int) {
	n.bitmap &^= 1 << c
	n.slots = append(n.slots[:i], n.slots[i+1:]...)
}

// orNil collapses an emptied node to nil so ancestors drop it.
func (n *node[T]) orNil() *node[T] {
	if n.bitmap == 0 {
		return nil
	}
	return n
}

func (s *Set[T]) leafRemove(l *leaf[T], probe T, match func(T) bool) (T, bool, *leaf[T]) {
	var zero T
	for j, e := range l.elems {
		if match(e) {
			m := l.mutable()
			m.elems = append(m.elems[:j], m.elems[j+1:]...)
			if len(m.elems) == 0 && (m.sub == nil || m.sub.count == 0) {
				return e, true, nil
			}
			return e, true, m
		}
	}
	if l.sub != nil {
		m := l.mutable()
		rv, ok := m.sub.RemoveMatching(probe, match)
		if !ok {
			return zero, false, l
		}
		if len(m.elems) == 0 && m.sub.count == 0 {
			return rv, true, nil
		}
		return rv, true, m
	}
	return zero, false, l
}
