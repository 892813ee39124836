package order

import (
	"math"
	"math/rand"
	"strings"
	"testing"
)

// checkLaws verifies the contract every order must satisfy for a
// sample of values: equality implies a zero comparison, comparison is
// antisymmetric, and the index never disagrees with the comparison.
func checkLaws[T any](t *testing.T, ord Order[T], vals []T) {
	t.Helper()
	for _, a := range vals {
		for _, b := range vals {
			c := ord.Compare(a, b)
			if ord.Equal(a, b) && c != 0 {
				t.Errorf("Equal(%v, %v) but Compare = %d", a, b, c)
			}
			if got := ord.Compare(b, a); (c < 0 && got <= 0) || (c > 0 && got >= 0) {
				t.Errorf("Compare(%v, %v) = %d but Compare(%v, %v) = %d", a, b, c, b, a, got)
			}
			ia, ib := ord.Index(a), ord.Index(b)
			if c < 0 && ia > ib {
				t.Errorf("Compare(%v, %v) < 0 but Index %#x > %#x", a, b, ia, ib)
			}
			if c == 0 && ia != ib {
				t.Errorf("Compare(%v, %v) = 0 but Index %#x != %#x", a, b, ia, ib)
			}
		}
	}
}

func TestLexical(t *testing.T) {
	vals := []string{"", "a", "ab", "abcd", "abcde", "abce", "b", "ba", strings.Repeat("z", 40)}
	checkLaws(t, Lexical(), vals)

	ord := Lexical()
	if ord.Index("abcd") != ord.Index("abcde") {
		t.Errorf("a shared four-byte prefix does not share an index")
	}
	if ord.Sub("ab") != nil {
		t.Errorf("Sub on a fully indexed string is not nil")
	}
	sub := ord.Sub("abcde")
	if sub == nil {
		t.Fatalf("Sub on a longer string is nil")
	}
	if sub.Compare("abcde", "abcdf") >= 0 {
		t.Errorf("refinement does not order the tail")
	}
}

func TestInt(t *testing.T) {
	vals := []int{math.MinInt, -1 << 40, -100, -1, 0, 1, 100, 1 << 40, math.MaxInt}
	for i := 0; i < 100; i++ {
		vals = append(vals, int(rand.Int63())-int(rand.Int63()))
	}
	checkLaws(t, Int[int](), vals)

	ord := Int[int]()
	sub := ord.Sub(0)
	if sub == nil {
		t.Fatalf("Sub is nil; the low half is never ordered")
	}
	if sub.Compare(1, 2) >= 0 {
		t.Errorf("refinement does not order the low half")
	}
	if sub.Sub(0) != nil {
		t.Errorf("refinement chain does not terminate")
	}
}

func TestUint(t *testing.T) {
	vals := []uint64{0, 1, 100, 1 << 32, 1<<32 + 1, math.MaxUint64}
	checkLaws(t, Uint[uint64](), vals)
}

func TestString(t *testing.T) {
	ord := String()
	if !ord.Equal("foo", "foo") || ord.Equal("foo", "bar") {
		t.Errorf("equality is not value equality")
	}
	if ord.Compare("foo", "foo") != 0 {
		t.Errorf("Compare on equal strings is nonzero")
	}
	if ord.Index("foo") == ord.Index("bar") {
		t.Errorf("distinct strings share a hash index")
	}
}

func TestBytes(t *testing.T) {
	ord := Bytes()
	if !ord.Equal([]byte("foo"), []byte("foo")) {
		t.Errorf("equal slices reported unequal")
	}
	if ord.Equal([]byte("foo"), []byte("bar")) {
		t.Errorf("distinct slices reported equal")
	}
	if ord.Compare([]byte("foo"), []byte("foo")) != 0 {
		t.Errorf("Compare on equal slices is nonzero")
	}
	if ord.Index([]byte("foo")) == ord.Index([]byte("bar")) {
		t.Errorf("distinct slices share a hash index")
	}
	if ord.Sub([]byte("foo")) != nil {
		t.Errorf("a hash order has no refinement")
	}
}

func TestMulti(t *testing.T) {
	ord := Multi[string](func(string) uint32 { return 7 })
	if ord.Equal("x", "x") {
		t.Errorf("a multi order must never report equality")
	}
	if ord.Compare("x", "y") != 0 {
		t.Errorf("values sharing an index must compare equal")
	}
	if ord.Sub("x") != nil {
		t.Errorf("a multi order has no refinement")
	}
}

func TestIdentity(t *testing.T) {
	ord := Identity[*int]()
	a, b := new(int), new(int)
	if !ord.Equal(a, a) || ord.Equal(a, b) {
		t.Errorf("identity equality does not follow the pointer")
	}

	cord := Identity[chan int]()
	c1, c2 := make(chan int), make(chan int)
	if !cord.Equal(c1, c1) || cord.Equal(c1, c2) {
		t.Errorf("identity equality does not follow the channel")
	}
	if cord.Index(c1) == cord.Index(c2) {
		t.Errorf("distinct channels share a placement index")
	}
}
