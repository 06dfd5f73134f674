package sparse

import (
	"errors"
	"io"
	"testing"

	"github.com/akmistry/go-gaps"
)

// fakeHoley models a sparse file as a per-byte coverage slice.
type fakeHoley struct {
	data []bool
}

func newFakeHoley(size int64, extents ...gaps.Span[int64]) *fakeHoley {
	h := &fakeHoley{data: make([]bool, size)}
	for _, e := range extents {
		for i := e.Lo; i < e.Hi; i++ {
			h.data[i] = true
		}
	}
	return h
}

func (h *fakeHoley) NextData(off int64) (int64, error) {
	for ; off < int64(len(h.data)); off++ {
		if h.data[off] {
			return off, nil
		}
	}
	return 0, io.EOF
}

func (h *fakeHoley) NextHole(off int64) (int64, error) {
	for ; off < int64(len(h.data)); off++ {
		if !h.data[off] {
			return off, nil
		}
	}
	// Implicit hole at EOF.
	return int64(len(h.data)), nil
}

func collectSpans(t *testing.T, seq func(func(gaps.Span[int64], error) bool)) []gaps.Span[int64] {
	t.Helper()
	var spans []gaps.Span[int64]
	for s, err := range seq {
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		spans = append(spans, s)
	}
	return spans
}

func checkSpans(t *testing.T, got, want []gaps.Span[int64]) {
	t.Helper()
	if len(got) != len(want) {
		t.Errorf("spans %v != %v", got, want)
		return
	}
	for i := range got {
		if got[i] != want[i] {
			t.Errorf("spans %v != %v", got, want)
			return
		}
	}
}

func TestDataSpans(t *testing.T) {
	h := newFakeHoley(20, gaps.Span[int64]{Lo: 0, Hi: 5}, gaps.Span[int64]{Lo: 8, Hi: 10}, gaps.Span[int64]{Lo: 15, Hi: 20})

	got := collectSpans(t, DataSpans(h, gaps.Span[int64]{Lo: 0, Hi: 20}))
	checkSpans(t, got, []gaps.Span[int64]{{Lo: 0, Hi: 5}, {Lo: 8, Hi: 10}, {Lo: 15, Hi: 20}})

	// Sub-window, clipping the extents at both ends.
	got = collectSpans(t, DataSpans(h, gaps.Span[int64]{Lo: 3, Hi: 18}))
	checkSpans(t, got, []gaps.Span[int64]{{Lo: 3, Hi: 5}, {Lo: 8, Hi: 10}, {Lo: 15, Hi: 18}})

	// Window entirely inside a hole.
	got = collectSpans(t, DataSpans(h, gaps.Span[int64]{Lo: 11, Hi: 14}))
	checkSpans(t, got, nil)
}

func TestHoles(t *testing.T) {
	h := newFakeHoley(20, gaps.Span[int64]{Lo: 0, Hi: 5}, gaps.Span[int64]{Lo: 8, Hi: 10}, gaps.Span[int64]{Lo: 15, Hi: 20})
	got := collectSpans(t, Holes(h, gaps.Span[int64]{Lo: 0, Hi: 20}))
	checkSpans(t, got, []gaps.Span[int64]{{Lo: 5, Hi: 8}, {Lo: 10, Hi: 15}})

	// Leading and trailing holes.
	h = newFakeHoley(10, gaps.Span[int64]{Lo: 4, Hi: 6})
	got = collectSpans(t, Holes(h, gaps.Span[int64]{Lo: 0, Hi: 10}))
	checkSpans(t, got, []gaps.Span[int64]{{Lo: 0, Hi: 4}, {Lo: 6, Hi: 10}})

	// A file with no data at all is one big hole.
	h = newFakeHoley(10)
	got = collectSpans(t, Holes(h, gaps.Span[int64]{Lo: 0, Hi: 10}))
	checkSpans(t, got, []gaps.Span[int64]{{Lo: 0, Hi: 10}})

	// Fully allocated file.
	h = newFakeHoley(10, gaps.Span[int64]{Lo: 0, Hi: 10})
	got = collectSpans(t, Holes(h, gaps.Span[int64]{Lo: 0, Hi: 10}))
	checkSpans(t, got, nil)
}

var errSeekFailed = errors.New("seek failed")

// failingHoley fails the n-th NextData call.
type failingHoley struct {
	Holey
	failAt int
	calls  int
}

func (h *failingHoley) NextData(off int64) (int64, error) {
	h.calls++
	if h.calls == h.failAt {
		return 0, errSeekFailed
	}
	return h.Holey.NextData(off)
}

func TestHoles_WalkError(t *testing.T) {
	h := &failingHoley{
		Holey:  newFakeHoley(20, gaps.Span[int64]{Lo: 2, Hi: 5}, gaps.Span[int64]{Lo: 8, Hi: 10}),
		failAt: 3,
	}

	var spans []gaps.Span[int64]
	var walkErr error
	for s, err := range Holes(h, gaps.Span[int64]{Lo: 0, Hi: 20}) {
		if err != nil {
			walkErr = err
			continue
		}
		spans = append(spans, s)
	}

	if !errors.Is(walkErr, errSeekFailed) {
		t.Errorf("error %v != %v", walkErr, errSeekFailed)
	}
	// The holes seen before the failure are reported. The would-be
	// trailing hole [10, 20) is not, since the walk never got there.
	checkSpans(t, spans, []gaps.Span[int64]{{Lo: 0, Hi: 2}, {Lo: 5, Hi: 8}})
}
