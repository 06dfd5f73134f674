package sparse

import (
	"io"
	"iter"

	"github.com/akmistry/go-gaps"
)

// DataSpans walks the data extents of h within [win.Lo, win.Hi), in
// order. The walk is lazy, one pair of seeks per extent. A non-nil
// error terminates the sequence.
func DataSpans(h Holey, win gaps.Span[int64]) iter.Seq2[gaps.Span[int64], error] {
	return func(yield func(gaps.Span[int64], error) bool) {
		off := win.Lo
		for off < win.Hi {
			lo, err := h.NextData(off)
			if err == io.EOF {
				return
			} else if err != nil {
				yield(gaps.Span[int64]{}, err)
				return
			}
			if lo >= win.Hi {
				return
			}
			if lo < off {
				lo = off
			}

			hi, err := h.NextHole(lo)
			if err != nil && err != io.EOF {
				yield(gaps.Span[int64]{}, err)
				return
			}
			if err == io.EOF || hi > win.Hi {
				hi = win.Hi
			}
			if !yield(gaps.Span[int64]{Lo: lo, Hi: hi}, nil) {
				return
			}
			off = hi
		}
	}
}

// Holes yields the holes of h within [win.Lo, win.Hi), computed as the
// gaps between its data extents. If the extent walk fails, any gap
// produced after the failure point is suppressed and the error is
// yielded as the final element.
func Holes(h Holey, win gaps.Span[int64]) iter.Seq2[gaps.Span[int64], error] {
	return func(yield func(gaps.Span[int64], error) bool) {
		var walkErr error
		spans := func(yieldSpan func(gaps.Span[int64]) bool) {
			for s, err := range DataSpans(h, win) {
				if err != nil {
					walkErr = err
					return
				}
				if !yieldSpan(s) {
					return
				}
			}
		}

		it := gaps.NewIter(spans, gaps.Between(win.Lo, win.Hi))
		defer it.Stop()
		for {
			g, ok := it.Next()
			if walkErr != nil {
				// The source was cut short, so the gap iterator saw a
				// premature end of coverage.
				yield(gaps.Span[int64]{}, walkErr)
				return
			}
			if !ok {
				return
			}
			if !yield(g, nil) {
				return
			}
		}
	}
}
