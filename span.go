package gaps

import (
	"cmp"
	"fmt"
	"iter"
)

// Span is a half-open interval [Lo, Hi) over an ordered value type.
type Span[T cmp.Ordered] struct {
	Lo, Hi T
}

func (s Span[T]) Empty() bool {
	return s.Hi <= s.Lo
}

func (s Span[T]) Contains(v T) bool {
	return v >= s.Lo && v < s.Hi
}

func (s Span[T]) Overlaps(other Span[T]) bool {
	return s.Lo < other.Hi && other.Lo < s.Hi
}

func (s Span[T]) String() string {
	return fmt.Sprintf("[%v,%v)", s.Lo, s.Hi)
}

// Spanner is any range-like value that can report its own bounds. This
// is the adaptation point for new source item types.
type Spanner[T cmp.Ordered] interface {
	Span() Span[T]
}

// Of extracts the bound pair from each item of a sequence.
func Of[S Spanner[T], T cmp.Ordered](seq iter.Seq[S]) iter.Seq[Span[T]] {
	return func(yield func(Span[T]) bool) {
		for s := range seq {
			if !yield(s.Span()) {
				return
			}
		}
	}
}

// Window restricts gap iteration to a query range. Either end may be
// left unbounded. A leading gap is only produced against an explicit
// Lo, and a trailing gap against an explicit Hi, so every produced gap
// has concrete bounds.
type Window[T cmp.Ordered] struct {
	Lo, Hi       T
	HasLo, HasHi bool
}

// All is the unbounded window. Gap iteration over it yields only the
// holes strictly between items.
func All[T cmp.Ordered]() Window[T] {
	return Window[T]{}
}

// Between bounds iteration to [lo, hi).
func Between[T cmp.Ordered](lo, hi T) Window[T] {
	return Window[T]{Lo: lo, Hi: hi, HasLo: true, HasHi: true}
}

// From bounds iteration below by lo, leaving the top open.
func From[T cmp.Ordered](lo T) Window[T] {
	return Window[T]{Lo: lo, HasLo: true}
}

// Until bounds iteration above by hi, leaving the bottom open.
func Until[T cmp.Ordered](hi T) Window[T] {
	return Window[T]{Hi: hi, HasHi: true}
}

func (w Window[T]) Empty() bool {
	return w.HasLo && w.HasHi && w.Hi <= w.Lo
}

func (w Window[T]) String() string {
	lo, hi := "..", ".."
	if w.HasLo {
		lo = fmt.Sprint(w.Lo)
	}
	if w.HasHi {
		hi = fmt.Sprint(w.Hi)
	}
	return fmt.Sprintf("[%s,%s)", lo, hi)
}
