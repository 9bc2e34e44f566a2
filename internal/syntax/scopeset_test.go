package syntax

import (
	"testing"
)

func TestScopeSetInsertRemove(t *testing.T) {
	ss := EmptySet()
	if ss.Size() != 0 {
		t.Fatalf("empty set size %d", ss.Size())
	}

	a := ss.Insert(3).Insert(1).Insert(2)
	if a.Size() != 3 {
		t.Fatalf("size %d", a.Size())
	}
	for _, s := range []Scope{1, 2, 3} {
		if !a.Contains(s) {
			t.Fatalf("missing %d", s)
		}
	}

	// вставка дубля — no-op
	b := a.Insert(2)
	if !a.Equal(b) {
		t.Fatalf("duplicate insert changed the set")
	}

	c := a.Remove(2)
	if c.Contains(2) || c.Size() != 2 {
		t.Fatalf("remove failed: %v", c)
	}
	// исходный не изменился
	if !a.Contains(2) {
		t.Fatalf("receiver mutated by Remove")
	}
}

func TestScopeSetFlipInvolution(t *testing.T) {
	ss := NewSet(1, 5, 9)
	for _, s := range []Scope{1, 4, 9, 100} {
		twice := ss.Flip(s).Flip(s)
		if !twice.Equal(ss) {
			t.Fatalf("flip %d twice is not identity: %v vs %v", s, twice, ss)
		}
	}
}

func TestScopeSetUnionIntersect(t *testing.T) {
	a := NewSet(1, 2, 3)
	b := NewSet(2, 3, 4)

	u := a.Union(b)
	if u.Size() != 4 {
		t.Fatalf("union size %d", u.Size())
	}

	i := a.Intersect(b)
	if i.Size() != 2 || !i.Contains(2) || !i.Contains(3) {
		t.Fatalf("intersect: %v", i)
	}
}

func TestScopeSetSubset(t *testing.T) {
	a := NewSet(1, 2)
	b := NewSet(1, 2, 3)

	if !a.IsSubsetOf(b) {
		t.Fatalf("a must be subset of b")
	}
	if b.IsSubsetOf(a) {
		t.Fatalf("b must not be subset of a")
	}
	if !EmptySet().IsSubsetOf(a) {
		t.Fatalf("empty set is subset of everything")
	}
	if !a.IsSubsetOf(a) {
		t.Fatalf("set is subset of itself")
	}
}

func TestScopeSetDistinctSameSize(t *testing.T) {
	// два разных множества одинаковой мощности — резолвер на это опирается
	a := NewSet(1, 2)
	b := NewSet(1, 3)
	if a.Equal(b) {
		t.Fatalf("distinct sets reported equal")
	}
	if a.Size() != b.Size() {
		t.Fatalf("sizes differ")
	}
}
