// Package rangemap provides ordered maps from uint64 extents to
// values, with range-restricted iteration and gap queries.
package rangemap

import (
	"github.com/akmistry/go-gaps"
)

type RangeMap[V any] interface {
	Begin() (begin uint64, ok bool)
	End() (end uint64)

	Add(offset, length uint64, value V)
	// Remove(offset, length uint64)
	Get(offset uint64) (value V, ok bool)

	NextKey(offset uint64) (next uint64, ok bool)
	NextEmpty(offset uint64) (next uint64)

	Iterate(start uint64, iter func(ExtentValue[V]) bool)

	// Spans produces the coverage within a window, making every
	// RangeMap usable with gaps.In.
	gaps.Ranger[uint64]
}

// Extent is a half-open [Lo, Hi) byte range.
type Extent = gaps.Span[uint64]

type ExtentValue[V any] struct {
	Extent
	Value V
}

func (e *ExtentValue[V]) Key() uint64 {
	return e.Lo
}
