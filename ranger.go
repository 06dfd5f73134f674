package gaps

import (
	"cmp"
	"iter"
)

// Ranger is the capability an ordered collection needs for gap
// queries: produce the spans covered by its contents within a window,
// in non-decreasing order of lower bound.
//
// The sequence is borrowed by the caller for the duration of
// iteration; mutating the collection while a derived sequence is live
// is a caller error.
type Ranger[T cmp.Ordered] interface {
	Spans(win Window[T]) iter.Seq[Span[T]]
}

// In returns the gaps in r's coverage within win, including a leading
// gap before the first in-window span and a trailing gap after the
// last one, when the corresponding window bound is explicit. A
// collection with no in-window spans yields the whole (bounded)
// window as a single gap.
func In[T cmp.Ordered](r Ranger[T], win Window[T]) iter.Seq[Span[T]] {
	return Gaps(r.Spans(win), win)
}
