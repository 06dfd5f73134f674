package index

import (
	"math/rand"
	"slices"
	"testing"

	"github.com/akmistry/go-gaps"
)

// Both index types are exercised through the same checks, keyed by an
// insert function and the Ranger it feeds.
func testMissing(t *testing.T, insert func(uint64), r gaps.Ranger[uint64]) {
	checkMissing := func(win gaps.Window[uint64], want []gaps.Span[uint64]) {
		t.Helper()
		got := slices.Collect(gaps.In(r, win))
		if !slices.Equal(got, want) {
			t.Errorf("In(%v) %v != %v", win, got, want)
		}
	}

	// Empty index, whole window missing.
	checkMissing(gaps.Between(uint64(0), uint64(10)), []gaps.Span[uint64]{{Lo: 0, Hi: 10}})
	checkMissing(gaps.All[uint64](), nil)

	for _, id := range []uint64{1, 3, 4} {
		insert(id)
	}

	checkMissing(gaps.Between(uint64(0), uint64(7)),
		[]gaps.Span[uint64]{{Lo: 0, Hi: 1}, {Lo: 2, Hi: 3}, {Lo: 5, Hi: 7}})
	checkMissing(gaps.Between(uint64(1), uint64(5)),
		[]gaps.Span[uint64]{{Lo: 2, Hi: 3}})
	checkMissing(gaps.Between(uint64(3), uint64(5)), nil)
	checkMissing(gaps.From(uint64(0)),
		[]gaps.Span[uint64]{{Lo: 0, Hi: 1}, {Lo: 2, Hi: 3}})
	checkMissing(gaps.Until(uint64(7)),
		[]gaps.Span[uint64]{{Lo: 2, Hi: 3}, {Lo: 5, Hi: 7}})
	checkMissing(gaps.All[uint64](), []gaps.Span[uint64]{{Lo: 2, Hi: 3}})

	insert(2)
	checkMissing(gaps.Between(uint64(1), uint64(5)), nil)
}

func TestSkipIndex_Missing(t *testing.T) {
	x := NewSkipIndex[uint64, string]()
	testMissing(t, func(id uint64) { x.Put(id, "chunk") }, x)
}

func TestTreeIndex_Missing(t *testing.T) {
	x := NewTreeIndex[uint64]()
	testMissing(t, x.Insert, x)
}

func testStress(t *testing.T, insert func(uint64), r gaps.Ranger[uint64]) {
	const MaxID = 10000
	present := make([]bool, MaxID)

	const Inserts = 2000
	for i := 0; i < Inserts; i++ {
		id := uint64(rand.Int63n(MaxID))
		insert(id)
		present[id] = true
	}

	var want []gaps.Span[uint64]
	for id := uint64(0); id < MaxID; {
		if present[id] {
			id++
			continue
		}
		lo := id
		for id < MaxID && !present[id] {
			id++
		}
		want = append(want, gaps.Span[uint64]{Lo: lo, Hi: id})
	}

	got := slices.Collect(gaps.In(r, gaps.Between(uint64(0), uint64(MaxID))))
	if !slices.Equal(got, want) {
		t.Errorf("got %d missing ranges, want %d", len(got), len(want))
	}
}

func TestSkipIndex_Stress(t *testing.T) {
	x := NewSkipIndex[uint64, int]()
	testStress(t, func(id uint64) { x.Put(id, 0) }, x)
}

func TestTreeIndex_Stress(t *testing.T) {
	x := NewTreeIndex[uint64]()
	testStress(t, x.Insert, x)
}

func TestSkipIndex_Ops(t *testing.T) {
	x := NewSkipIndex[uint64, string]()
	x.Put(7, "a")
	x.Put(9, "b")
	if v, ok := x.Get(7); !ok || v != "a" {
		t.Errorf("Get(7) (%q, %v) != (\"a\", true)", v, ok)
	}
	if _, ok := x.Get(8); ok {
		t.Error("Get(8) expected !ok")
	}
	if x.Len() != 2 {
		t.Errorf("Len() %d != 2", x.Len())
	}
	if !x.Delete(7) || x.Delete(7) {
		t.Error("Delete(7) expected true then false")
	}
}

func TestTreeIndex_Ops(t *testing.T) {
	x := NewTreeIndex[uint64]()
	if _, ok := x.Min(); ok {
		t.Error("Min() expected !ok on empty index")
	}
	x.Insert(7)
	x.Insert(9)
	x.Insert(3)
	if !x.Has(7) || x.Has(8) {
		t.Error("unexpected Has() results")
	}
	if min, ok := x.Min(); !ok || min != 3 {
		t.Errorf("Min() (%d, %v) != (3, true)", min, ok)
	}
	if max, ok := x.Max(); !ok || max != 9 {
		t.Errorf("Max() (%d, %v) != (9, true)", max, ok)
	}
	if !x.Delete(7) || x.Delete(7) {
		t.Error("Delete(7) expected true then false")
	}
	if x.Len() != 2 {
		t.Errorf("Len() %d != 2", x.Len())
	}
}
