// Package gaps computes the uncovered intervals between the items of
// an ordered sequence of ranges. Sources are consumed lazily, one item
// per produced gap at most, so very large (or endless) sequences are
// fine as long as the caller stops pulling.
//
// Items must arrive in non-decreasing order of lower bound. Overlapping
// or touching items are not an error; they simply produce no gap.
package gaps

import (
	"cmp"
	"iter"
)

// Gaps produces the holes between the spans of an ordered sequence,
// restricted to a window. The sequence is consumed lazily and exactly
// once.
//
// A gap is emitted between two consecutive spans only when there is a
// strict hole between the trailing edge (the running maximum of
// consumed upper bounds) and the next span's lower bound. Touching
// spans do not produce a gap. A leading gap below the first span is
// emitted only when the window has an explicit lower bound, and a
// trailing gap after the last span only when the window has an
// explicit upper bound. Spans with a receding upper bound or with
// Hi < Lo are tolerated, never an error.
func Gaps[T cmp.Ordered](spans iter.Seq[Span[T]], win Window[T]) iter.Seq[Span[T]] {
	return func(yield func(Span[T]) bool) {
		edge := win.Lo
		haveEdge := win.HasLo
		for s := range spans {
			lo, hi := s.Lo, s.Hi
			if hi < lo {
				// Malformed span. Clamp instead of failing mid-sequence.
				hi = lo
			}
			if win.HasHi && lo >= win.Hi {
				// Span starts at or past the window's end. Close out the
				// window and stop consuming.
				if haveEdge && edge < win.Hi {
					yield(Span[T]{Lo: edge, Hi: win.Hi})
				}
				return
			}
			if !haveEdge {
				edge = hi
				haveEdge = true
				continue
			}
			if edge < lo && !yield(Span[T]{Lo: edge, Hi: lo}) {
				return
			}
			if hi > edge {
				edge = hi
			}
		}
		if win.HasHi && haveEdge && edge < win.Hi {
			yield(Span[T]{Lo: edge, Hi: win.Hi})
		}
	}
}

// GapsFunc is Gaps over a sequence of arbitrary items, with spanOf
// deriving each item's bound pair.
func GapsFunc[E any, T cmp.Ordered](src iter.Seq[E], spanOf func(E) Span[T], win Window[T]) iter.Seq[Span[T]] {
	return Gaps(func(yield func(Span[T]) bool) {
		for e := range src {
			if !yield(spanOf(e)) {
				return
			}
		}
	}, win)
}

// Iter is an explicit pull handle over a gap sequence. It owns the
// underlying source for its lifetime; once exhausted (or stopped) it
// cannot be restarted.
type Iter[T cmp.Ordered] struct {
	next func() (Span[T], bool)
	stop func()
}

// NewIter starts gap iteration over spans within win.
func NewIter[T cmp.Ordered](spans iter.Seq[Span[T]], win Window[T]) *Iter[T] {
	next, stop := iter.Pull(Gaps(spans, win))
	return &Iter[T]{
		next: next,
		stop: stop,
	}
}

// Next returns the next gap, or ok == false once the source is
// exhausted.
func (it *Iter[T]) Next() (gap Span[T], ok bool) {
	return it.next()
}

// Stop releases the underlying source. Safe to call more than once,
// and safe to abandon iteration at any point.
func (it *Iter[T]) Stop() {
	it.stop()
}
