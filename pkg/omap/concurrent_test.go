package omap

import (
	"fmt"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"

	"ordmap.dev/pkg/order"
)

func TestSharedConcurrentAccess(t *testing.T) {
	m := Shared(newStringMap())
	const writers = 8
	const perWriter = 100

	var wg sync.WaitGroup
	for w := 0; w < writers; w++ {
		w := w
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perWriter; i++ {
				m.Put(fmt.Sprintf("w%d/%03d", w, i), i)
			}
		}()
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perWriter; i++ {
				m.Get(fmt.Sprintf("w%d/%03d", w, i))
				m.Len()
			}
		}()
		wg.Add(1)
		go func() {
			defer wg.Done()
			for it := m.Iterator(); it.HasElem(); it.Next() {
			}
		}()
	}
	wg.Wait()

	if m.Len() != writers*perWriter {
		t.Errorf("Len = %d, want %d", m.Len(), writers*perWriter)
	}
}

func TestSharedIteratorSnapshot(t *testing.T) {
	m := Shared(newStringMap())
	m.Put("a", 1)
	m.Put("b", 2)

	it := m.Iterator()
	m.Put("c", 3)
	m.Remove("a")

	var keys []string
	for ; it.HasElem(); it.Next() {
		keys = append(keys, it.Elem().Key())
	}
	if diff := cmp.Diff([]string{"a", "b"}, keys); diff != "" {
		t.Errorf("iterator does not run over its snapshot (-want +got):\n%s", diff)
	}
}

func TestSharedIteratorRemove(t *testing.T) {
	m := Shared(newStringMap())
	for i := 0; i < 20; i++ {
		m.Put(fmt.Sprintf("k%02d", i), i)
	}
	for it := m.Iterator(); it.HasElem(); {
		if it.Elem().Value()%2 == 0 {
			it.Remove()
		} else {
			it.Next()
		}
	}
	if m.Len() != 10 {
		t.Errorf("Len = %d after iterator removal, want 10", m.Len())
	}
	if _, ok := m.Get("k00"); ok {
		t.Errorf("removed entry still present")
	}
	if _, ok := m.Get("k01"); !ok {
		t.Errorf("kept entry missing")
	}
}

func TestAtomicIsolatedFromSource(t *testing.T) {
	src := newStringMap()
	src.Put("a", 1)
	m := Atomic(src)
	src.Put("b", 2)
	if _, ok := m.Get("b"); ok {
		t.Errorf("view sees a write to the source made after construction")
	}
	m.Put("c", 3)
	if _, ok := src.Get("c"); ok {
		t.Errorf("write through the view reached the source")
	}
}

func TestAtomicConcurrentAccess(t *testing.T) {
	m := Atomic(newStringMap())
	const writers = 4
	const perWriter = 50

	var wg sync.WaitGroup
	for w := 0; w < writers; w++ {
		w := w
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perWriter; i++ {
				m.Put(fmt.Sprintf("w%d/%02d", w, i), i)
			}
		}()
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perWriter; i++ {
				m.Get(fmt.Sprintf("w%d/%02d", w, i))
				for it := m.Iterator(); it.HasElem(); it.Next() {
				}
			}
		}()
	}
	wg.Wait()

	if m.Len() != writers*perWriter {
		t.Errorf("Len = %d, want %d", m.Len(), writers*perWriter)
	}
}

func TestAtomicPutAllAllOrNothing(t *testing.T) {
	const n = 64
	batch := newStringMap()
	for i := 0; i < n; i++ {
		batch.Put(fmt.Sprintf("k%02d", i), i)
	}
	m := Atomic(newStringMap())

	done := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-done:
				return
			default:
			}
			count := 0
			for it := m.Iterator(); it.HasElem(); it.Next() {
				count++
			}
			if count != 0 && count != n {
				t.Errorf("reader observed %d entries, want 0 or %d", count, n)
				return
			}
		}
	}()
	for i := 0; i < 50; i++ {
		m.PutAll(batch)
		m.Clear()
	}
	close(done)
	wg.Wait()
}

func TestAtomicIteratorSnapshot(t *testing.T) {
	m := Atomic(newStringMap())
	m.Put("a", 1)
	m.Put("b", 2)

	it := m.Iterator()
	m.Put("c", 3)

	var keys []string
	for ; it.HasElem(); it.Next() {
		keys = append(keys, it.Elem().Key())
	}
	if diff := cmp.Diff([]string{"a", "b"}, keys); diff != "" {
		t.Errorf("iterator does not run over its version (-want +got):\n%s", diff)
	}
	if m.Len() != 3 {
		t.Errorf("Len = %d, want 3", m.Len())
	}
}

func TestAtomicIteratorRemove(t *testing.T) {
	m := Atomic(newStringMap())
	m.Put("a", 1)
	m.Put("b", 2)

	it := m.Iterator()
	it.Remove()
	// The removal is published; the traversal keeps its version.
	if !it.HasElem() || it.Elem().Key() != "b" {
		t.Errorf("iterator lost its position after Remove")
	}
	if _, ok := m.Get("a"); ok {
		t.Errorf("removed entry still present in the published version")
	}
}

func TestSharedFreeze(t *testing.T) {
	m := Shared(New[int, string](order.Int[int]()))
	m.Put(1, "one")
	f := m.Freeze()
	m.Put(2, "two")
	if _, ok := f.Get(2); ok {
		t.Errorf("snapshot sees a later write")
	}
	if r := recoverPanic(func() { f.Put(3, "three") }); r != ErrFrozen {
		t.Errorf("Put on frozen result panicked with %v, want ErrFrozen", r)
	}
}
