package index

import (
	"iter"

	"github.com/google/btree"
	"golang.org/x/exp/constraints"

	"github.com/akmistry/go-gaps"
)

const btreeDegree = 32

var _ = (gaps.Ranger[uint64])((*TreeIndex[uint64])(nil))

// TreeIndex is a B-tree backed ID set. Not safe for concurrent use.
type TreeIndex[K constraints.Integer] struct {
	t *btree.BTreeG[K]
}

func NewTreeIndex[K constraints.Integer]() *TreeIndex[K] {
	return &TreeIndex[K]{
		t: btree.NewG[K](btreeDegree, func(a, b K) bool { return a < b }),
	}
}

func (x *TreeIndex[K]) Insert(key K) {
	x.t.ReplaceOrInsert(key)
}

func (x *TreeIndex[K]) Has(key K) bool {
	return x.t.Has(key)
}

func (x *TreeIndex[K]) Delete(key K) bool {
	_, ok := x.t.Delete(key)
	return ok
}

func (x *TreeIndex[K]) Len() int {
	return x.t.Len()
}

func (x *TreeIndex[K]) Min() (K, bool) {
	return x.t.Min()
}

func (x *TreeIndex[K]) Max() (K, bool) {
	return x.t.Max()
}

func (x *TreeIndex[K]) Spans(win gaps.Window[K]) iter.Seq[gaps.Span[K]] {
	return func(yield func(gaps.Span[K]) bool) {
		fn := func(key K) bool {
			return yield(gaps.Span[K]{Lo: key, Hi: key + 1})
		}
		switch {
		case win.HasLo && win.HasHi:
			x.t.AscendRange(win.Lo, win.Hi, fn)
		case win.HasLo:
			x.t.AscendGreaterOrEqual(win.Lo, fn)
		case win.HasHi:
			x.t.AscendLessThan(win.Hi, fn)
		default:
			x.t.Ascend(fn)
		}
	}
}
