// Package index provides ordered indexes over integer keys, with gap
// queries to find runs of missing IDs. Every index satisfies
// gaps.Ranger, with each present key k covering [k, k+1).
package index

import (
	"iter"

	"github.com/zhangyunhao116/skipmap"
	"golang.org/x/exp/constraints"

	"github.com/akmistry/go-gaps"
)

var _ = (gaps.Ranger[uint64])((*SkipIndex[uint64, int])(nil))

// SkipIndex is a skip-list backed index. Safe for concurrent use,
// although gap iteration observes a mutating index on a best-effort
// basis only.
type SkipIndex[K constraints.Integer, V any] struct {
	m *skipmap.FuncMap[K, V]
}

func NewSkipIndex[K constraints.Integer, V any]() *SkipIndex[K, V] {
	return &SkipIndex[K, V]{
		m: skipmap.NewFunc[K, V](func(a, b K) bool { return a < b }),
	}
}

func (x *SkipIndex[K, V]) Put(key K, value V) {
	x.m.Store(key, value)
}

func (x *SkipIndex[K, V]) Get(key K) (V, bool) {
	return x.m.Load(key)
}

func (x *SkipIndex[K, V]) Delete(key K) bool {
	return x.m.Delete(key)
}

func (x *SkipIndex[K, V]) Len() int {
	return x.m.Len()
}

func (x *SkipIndex[K, V]) Spans(win gaps.Window[K]) iter.Seq[gaps.Span[K]] {
	return func(yield func(gaps.Span[K]) bool) {
		x.m.Range(func(key K, _ V) bool {
			if win.HasLo && key < win.Lo {
				return true
			}
			if win.HasHi && key >= win.Hi {
				return false
			}
			return yield(gaps.Span[K]{Lo: key, Hi: key + 1})
		})
	}
}
