package omap

import (
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"

	"ordmap.dev/pkg/hash"
	"ordmap.dev/pkg/order"
)

func TestUnmodifiable(t *testing.T) {
	m := newStringMap()
	m.Put("a", 1)
	m.Put("b", 2)
	u := Unmodifiable(m)

	mutations := map[string]func(){
		"Put":         func() { u.Put("c", 3) },
		"PutEntry":    func() { u.PutEntry(NewEntry("c", 3)) },
		"PutAll":      func() { u.PutAll(m) },
		"Remove":      func() { u.Remove("a") },
		"RemoveEntry": func() { u.RemoveEntry("a") },
		"UpdateValue": func() { u.UpdateValue(u.GetEntry("a"), 10) },
		"Clear":       func() { u.Clear() },
		"IterRemove":  func() { u.Iterator().Remove() },
	}
	for name, mutate := range mutations {
		if r := recoverPanic(mutate); r != ErrUnmodifiable {
			t.Errorf("%s panicked with %v, want ErrUnmodifiable", name, r)
		}
	}

	if v, ok := u.Get("a"); !ok || v != 1 {
		t.Errorf("Get(a) through the view -> (%v, %v)", v, ok)
	}
	if u.Len() != 2 {
		t.Errorf("Len through the view = %d, want 2", u.Len())
	}

	// The view is a window, not a copy.
	m.Put("c", 3)
	if v, ok := u.Get("c"); !ok || v != 3 {
		t.Errorf("view does not observe a later insertion: (%v, %v)", v, ok)
	}
	if diff := cmp.Diff([]string{"a", "b", "c"}, collectKeys(u)); diff != "" {
		t.Errorf("view keys (-want +got):\n%s", diff)
	}

	if Unmodifiable(u) != u {
		t.Errorf("wrapping an unmodifiable view again returned a new view")
	}

	c := u.Clone()
	if r := recoverPanic(func() { c.Put("d", 4) }); r != ErrUnmodifiable {
		t.Errorf("clone of an unmodifiable view accepts writes")
	}
	m.Put("d", 4)
	if _, ok := c.Get("d"); ok {
		t.Errorf("clone of the view is not independent of the original")
	}

	f := u.Freeze()
	if r := recoverPanic(func() { f.Put("e", 5) }); r != ErrFrozen {
		t.Errorf("Put on frozen result panicked with %v, want ErrFrozen", r)
	}
}

func TestMulti(t *testing.T) {
	m := Multi(newStringMap())
	if _, ok := m.Put("k", 1); ok {
		t.Errorf("multimap Put reports a replaced value")
	}
	if _, ok := m.Put("k", 2); ok {
		t.Errorf("second multimap Put reports a replaced value")
	}
	m.Put("other", 3)
	if m.Len() != 3 {
		t.Errorf("Len = %d, want 3", m.Len())
	}

	if v, ok := m.Get("k"); !ok || v != 1 {
		t.Errorf("Get(k) -> (%v, %v), want the first inserted value", v, ok)
	}

	var vals []int
	for it := m.IteratorFrom("k"); it.HasElem() && it.Elem().Key() == "k"; it.Next() {
		vals = append(vals, it.Elem().Value())
	}
	if diff := cmp.Diff([]int{1, 2}, vals); diff != "" {
		t.Errorf("values of the duplicate run (-want +got):\n%s", diff)
	}

	if _, ok := m.Remove("k"); !ok {
		t.Errorf("Remove(k) found nothing")
	}
	if m.Len() != 2 {
		t.Errorf("Len = %d after removing one duplicate, want 2", m.Len())
	}
	if _, ok := m.Get("k"); !ok {
		t.Errorf("the remaining duplicate is gone")
	}

	if Multi(m) != m {
		t.Errorf("wrapping a multimap view again returned a new view")
	}
}

func TestLinked(t *testing.T) {
	m := Linked(newStringMap())
	ins := []string{"pear", "apple", "mango", "fig", "cherry"}
	for i, k := range ins {
		m.Put(k, i)
	}
	if diff := cmp.Diff(ins, collectKeys(m)); diff != "" {
		t.Errorf("insertion order (-want +got):\n%s", diff)
	}

	// Overwriting keeps the original position.
	m.Put("apple", 100)
	if diff := cmp.Diff(ins, collectKeys(m)); diff != "" {
		t.Errorf("order after overwrite (-want +got):\n%s", diff)
	}
	if v, _ := m.Get("apple"); v != 100 {
		t.Errorf("overwrite lost: %v", v)
	}

	m.Remove("mango")
	want := []string{"pear", "apple", "fig", "cherry"}
	if diff := cmp.Diff(want, collectKeys(m)); diff != "" {
		t.Errorf("order after removal (-want +got):\n%s", diff)
	}

	var desc []string
	for it := m.DescendingIterator(); it.HasElem(); it.Next() {
		desc = append(desc, it.Elem().Key())
	}
	if diff := cmp.Diff([]string{"cherry", "fig", "apple", "pear"}, desc); diff != "" {
		t.Errorf("reverse insertion order (-want +got):\n%s", diff)
	}

	it := m.IteratorFrom("fig")
	if !it.HasElem() || it.Elem().Key() != "fig" {
		t.Errorf("IteratorFrom does not start at the given key")
	}

	// A frozen entry replaced on overwrite keeps its position.
	f := m.Freeze()
	m.Put("apple", 200)
	if diff := cmp.Diff(want, collectKeys(m)); diff != "" {
		t.Errorf("order after post-freeze overwrite (-want +got):\n%s", diff)
	}
	if v, _ := f.Get("apple"); v != 100 {
		t.Errorf("snapshot sees the overwrite: %v", v)
	}
}

func TestLinkedIteratorFromAbsent(t *testing.T) {
	m := Linked(newStringMap())
	for i, k := range []string{"delta", "alpha", "golf"} {
		m.Put(k, i)
	}

	// No entry holds "beta"; start at the first chain entry whose key
	// is not less than it.
	it := m.IteratorFrom("beta")
	if !it.HasElem() || it.Elem().Key() != "delta" {
		t.Errorf("IteratorFrom on an absent key does not fall back to the first following key")
	}
	if it2 := m.IteratorFrom("zulu"); it2.HasElem() {
		t.Errorf("IteratorFrom past every key is not exhausted")
	}

	dit := m.DescendingIteratorFrom("echo")
	if !dit.HasElem() || dit.Elem().Key() != "alpha" {
		t.Errorf("DescendingIteratorFrom on an absent key does not fall back to the first preceding key")
	}
	if dit2 := m.DescendingIteratorFrom("0"); dit2.HasElem() {
		t.Errorf("DescendingIteratorFrom below every key is not exhausted")
	}
}

func TestLinkedOfPopulated(t *testing.T) {
	m := newStringMap()
	m.Put("b", 2)
	m.Put("a", 1)
	lm := Linked(m)
	lm.Put("0", 0)
	// Entries present before wrapping come first, in key order.
	if diff := cmp.Diff([]string{"a", "b", "0"}, collectKeys(lm)); diff != "" {
		t.Errorf("keys (-want +got):\n%s", diff)
	}
}

func TestReversed(t *testing.T) {
	m := newStringMap()
	for i := 0; i < 10; i++ {
		m.Put(fmt.Sprintf("k%d", i), i)
	}
	r := Reversed(m)
	var want []string
	for i := 9; i >= 0; i-- {
		want = append(want, fmt.Sprintf("k%d", i))
	}
	if diff := cmp.Diff(want, collectKeys(r)); diff != "" {
		t.Errorf("reversed keys (-want +got):\n%s", diff)
	}

	it := r.IteratorFrom("k5")
	if !it.HasElem() || it.Elem().Key() != "k5" {
		t.Errorf("IteratorFrom on reversed view does not start at the key")
	}
	it.Next()
	if it.Elem().Key() != "k4" {
		t.Errorf("reversed iterator advanced to %q, want k4", it.Elem().Key())
	}

	if Reversed(r) != m {
		t.Errorf("reversing twice did not return the original")
	}
}

func TestRange(t *testing.T) {
	m := newStringMap()
	for _, k := range []string{"a", "b", "c", "d", "e", "f"} {
		m.Put(k, int(k[0]))
	}
	s := Sub(m, "b", "e")

	if diff := cmp.Diff([]string{"b", "c", "d"}, collectKeys(s)); diff != "" {
		t.Errorf("range keys (-want +got):\n%s", diff)
	}
	if s.Len() != 3 {
		t.Errorf("Len = %d, want 3", s.Len())
	}
	if _, ok := s.Get("a"); ok {
		t.Errorf("key below the range is visible")
	}
	if _, ok := s.Get("e"); ok {
		t.Errorf("the exclusive upper bound is visible")
	}
	if _, ok := s.Remove("f"); ok {
		t.Errorf("removal outside the range found something")
	}
	if r := recoverPanic(func() { s.Put("a", 0) }); r != ErrRange {
		t.Errorf("Put below the range panicked with %v, want ErrRange", r)
	}
	if r := recoverPanic(func() { s.Put("e", 0) }); r != ErrRange {
		t.Errorf("Put at the upper bound panicked with %v, want ErrRange", r)
	}
	if r := recoverPanic(func() { Sub(m, "z", "a") }); r != ErrRange {
		t.Errorf("inverted bounds panicked with %v, want ErrRange", r)
	}

	var desc []string
	for it := s.DescendingIterator(); it.HasElem(); it.Next() {
		desc = append(desc, it.Elem().Key())
	}
	if diff := cmp.Diff([]string{"d", "c", "b"}, desc); diff != "" {
		t.Errorf("descending range keys (-want +got):\n%s", diff)
	}

	it := s.IteratorFrom("a")
	if !it.HasElem() || it.Elem().Key() != "b" {
		t.Errorf("IteratorFrom below the range does not clamp to the lower bound")
	}

	h := Head(m, "c")
	if diff := cmp.Diff([]string{"a", "b"}, collectKeys(h)); diff != "" {
		t.Errorf("head keys (-want +got):\n%s", diff)
	}
	tl := Tail(m, "d")
	if diff := cmp.Diff([]string{"d", "e", "f"}, collectKeys(tl)); diff != "" {
		t.Errorf("tail keys (-want +got):\n%s", diff)
	}

	s.Clear()
	if s.Len() != 0 {
		t.Errorf("range not empty after Clear")
	}
	if diff := cmp.Diff([]string{"a", "e", "f"}, collectKeys(m)); diff != "" {
		t.Errorf("Clear on the range touched keys outside it (-want +got):\n%s", diff)
	}
}

func TestKeysValues(t *testing.T) {
	m := newStringMap()
	m.Put("a", 1)
	m.Put("b", 2)
	m.Put("c", 3)

	ks := Keys(m)
	if ks.Len() != 3 || !ks.Has("b") || ks.Has("x") {
		t.Errorf("key view misreports membership")
	}
	var keys []string
	for it := ks.Iterator(); it.HasElem(); it.Next() {
		keys = append(keys, it.Elem())
	}
	if diff := cmp.Diff([]string{"a", "b", "c"}, keys); diff != "" {
		t.Errorf("key view iteration (-want +got):\n%s", diff)
	}
	if !ks.Remove("b") {
		t.Errorf("key view removal failed")
	}
	if _, ok := m.Get("b"); ok {
		t.Errorf("removal through the key view did not reach the map")
	}

	vs := Values(m)
	if vs.Len() != 2 || !vs.Has(3) || vs.Has(2) {
		t.Errorf("value view misreports membership")
	}
	var vals []int
	for it := vs.Iterator(); it.HasElem(); it.Next() {
		vals = append(vals, it.Elem())
	}
	if diff := cmp.Diff([]int{1, 3}, vals); diff != "" {
		t.Errorf("value view iteration (-want +got):\n%s", diff)
	}

	if !ks.Add("d") {
		t.Errorf("Add of an absent key failed")
	}
	if v, ok := m.Get("d"); !ok || v != 0 {
		t.Errorf("Add did not insert the zero value: (%v, %v)", v, ok)
	}
	if ks.Add("a") {
		t.Errorf("Add of a present key succeeded")
	}
	if v, _ := m.Get("a"); v != 1 {
		t.Errorf("failed Add clobbered the existing value: %v", v)
	}
}

func TestMultiOrderMap(t *testing.T) {
	// A map over a multi order is a hash multimap without any view:
	// the order never reports keys equal, so Put always inserts.
	m := New[string, int](order.Multi(hash.String))
	if _, ok := m.Put("k", 1); ok {
		t.Errorf("Put under a multi order reports a replaced value")
	}
	if _, ok := m.Put("k", 2); ok {
		t.Errorf("second Put under a multi order reports a replaced value")
	}
	if m.Len() != 2 {
		t.Errorf("Len = %d, want 2", m.Len())
	}
	if e := m.GetEntry("k"); e != nil {
		t.Errorf("GetEntry found %v; a multi order must never match", e)
	}
	n := 0
	for it := m.Iterator(); it.HasElem(); it.Next() {
		if it.Elem().Key() != "k" {
			t.Errorf("unexpected key %q", it.Elem().Key())
		}
		n++
	}
	if n != 2 {
		t.Errorf("iterated %d entries, want 2", n)
	}
}

func TestStackedViews(t *testing.T) {
	// A linked multimap: duplicates allowed, iteration in insertion
	// order.
	m := Multi(Linked(newStringMap()))
	m.Put("x", 1)
	m.Put("a", 2)
	m.Put("x", 3)
	if m.Len() != 3 {
		t.Errorf("Len = %d, want 3", m.Len())
	}
	var got [][2]any
	for it := m.Iterator(); it.HasElem(); it.Next() {
		got = append(got, [2]any{it.Elem().Key(), it.Elem().Value()})
	}
	want := [][2]any{{"x", 1}, {"a", 2}, {"x", 3}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("stacked view iteration (-want +got):\n%s", diff)
	}
}
