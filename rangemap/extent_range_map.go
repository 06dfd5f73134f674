package rangemap

import (
	"iter"
	"log"

	"github.com/akmistry/go-util/radix-tree"

	"github.com/akmistry/go-gaps"
)

var _ = (RangeMap[int])((*ExtentRangeMap[int])(nil))

// ExtentRangeMap stores extents in a radix tree keyed by extent start.
// Adding an extent over existing coverage splits or truncates the old
// extents, so stored extents never overlap.
type ExtentRangeMap[V comparable] struct {
	tree radix.Tree
}

func (m *ExtentRangeMap[V]) Begin() (begin uint64, ok bool) {
	m.tree.Ascend(func(i radix.Item) bool {
		begin = i.(*ExtentValue[V]).Lo
		ok = true
		return false
	})
	return
}

func (m *ExtentRangeMap[V]) End() (end uint64) {
	m.tree.Descend(func(i radix.Item) bool {
		end = i.(*ExtentValue[V]).Hi
		return false
	})
	return
}

func (m *ExtentRangeMap[V]) overlapping(ext Extent) []*ExtentValue[V] {
	var items []*ExtentValue[V]
	m.tree.DescendLessOrEqualI(ext.Hi, func(i radix.Item) bool {
		e := i.(*ExtentValue[V])
		if e.Lo == ext.Hi {
			return true
		} else if !ext.Overlaps(e.Extent) {
			return false
		}
		items = append(items, e)
		return true
	})
	return items
}

func (m *ExtentRangeMap[V]) Get(offset uint64) (value V, ok bool) {
	m.tree.DescendLessOrEqualI(offset, func(i radix.Item) bool {
		e := i.(*ExtentValue[V])
		if e.Contains(offset) {
			value = e.Value
			ok = true
		}
		return false
	})
	return
}

func (m *ExtentRangeMap[V]) GetExtent(offset uint64) (ev ExtentValue[V], ok bool) {
	m.tree.DescendLessOrEqualI(offset, func(i radix.Item) bool {
		e := i.(*ExtentValue[V])
		if e.Contains(offset) {
			ev = *e
			ok = true
		}
		return false
	})
	return
}

func (m *ExtentRangeMap[V]) NextKey(offset uint64) (next uint64, ok bool) {
	_, ok = m.Get(offset)
	if ok {
		return offset, ok
	}

	m.tree.AscendGreaterOrEqualI(offset, func(i radix.Item) bool {
		next = i.(*ExtentValue[V]).Lo
		ok = true
		return false
	})
	return
}

func (m *ExtentRangeMap[V]) NextEmpty(offset uint64) (next uint64) {
	next = offset
	m.tree.DescendLessOrEqualI(offset, func(i radix.Item) bool {
		e := i.(*ExtentValue[V])
		if e.Contains(offset) {
			next = e.Hi
		}
		return false
	})
	if next == offset {
		return
	}

	m.tree.AscendGreaterOrEqualI(next, func(i radix.Item) bool {
		e := i.(*ExtentValue[V])
		if !e.Contains(next) {
			return false
		}
		next = e.Hi
		return true
	})
	return
}

func (m *ExtentRangeMap[V]) Remove(offset, length uint64) {
	if length == 0 {
		return
	}

	ext := Extent{Lo: offset, Hi: offset + length}
	for _, e := range m.overlapping(ext) {
		if e.Lo < ext.Lo {
			if e.Hi > ext.Hi {
				// Old extent straddles the removed range. Keep the part
				// above it as a new extent.
				tail := &ExtentValue[V]{
					Extent: Extent{Lo: ext.Hi, Hi: e.Hi},
					Value:  e.Value,
				}
				old := m.tree.ReplaceOrInsert(tail)
				if old != nil {
					log.Panicf("unexpected old entry: %+v", old)
				}
			}
			// Truncate the old extent instead of deleting and re-inserting.
			e.Hi = ext.Lo
			continue
		}

		if e.Hi > ext.Hi {
			tail := &ExtentValue[V]{
				Extent: Extent{Lo: ext.Hi, Hi: e.Hi},
				Value:  e.Value,
			}
			old := m.tree.ReplaceOrInsert(tail)
			if old != nil {
				log.Panicf("unexpected old entry: %+v", old)
			}
		}
		if m.tree.Delete(e) != e {
			log.Panicf("extent not deleted: %+v", e)
		}
	}
}

func (m *ExtentRangeMap[V]) Add(offset, length uint64, value V) {
	if length == 0 {
		return
	}

	newItem := &ExtentValue[V]{
		Extent: Extent{Lo: offset, Hi: offset + length},
		Value:  value,
	}
	// Punch a hole, and put the new extent at that hole.
	m.Remove(offset, length)

	old := m.tree.ReplaceOrInsert(newItem)
	if old != nil {
		log.Panicf("unexpected old entry: %+v, adding new entry: %v", old, newItem)
	}
}

func (m *ExtentRangeMap[V]) Iterate(start uint64, iter func(ExtentValue[V]) bool) {
	first := start
	if start > 0 {
		m.tree.DescendLessOrEqualI(start, func(i radix.Item) bool {
			e := i.(*ExtentValue[V])
			if e.Contains(start) {
				first = e.Lo
			}
			return false
		})
	}

	var cur ExtentValue[V]
	m.tree.AscendGreaterOrEqualI(first, func(i radix.Item) bool {
		e := i.(*ExtentValue[V])
		if e.Lo < start {
			cur = *e
			cur.Lo = start
			return true
		}

		if cur.Value == e.Value && e.Lo == cur.Hi {
			cur.Hi = e.Hi
		} else {
			if !cur.Empty() && !iter(cur) {
				cur.Hi = cur.Lo
				return false
			}
			cur = *e
		}
		return true
	})
	if !cur.Empty() {
		iter(cur)
	}
}

// Spans yields the covered ranges within win, in order, with
// contiguous extents merged regardless of value.
func (m *ExtentRangeMap[V]) Spans(win gaps.Window[uint64]) iter.Seq[Extent] {
	return func(yield func(Extent) bool) {
		var first uint64
		if win.HasLo {
			first = win.Lo
			m.tree.DescendLessOrEqualI(win.Lo, func(i radix.Item) bool {
				e := i.(*ExtentValue[V])
				if e.Contains(win.Lo) {
					first = e.Lo
				}
				return false
			})
		}

		var cur Extent
		m.tree.AscendGreaterOrEqualI(first, func(i radix.Item) bool {
			ext := i.(*ExtentValue[V]).Extent
			if win.HasLo && ext.Lo < win.Lo {
				ext.Lo = win.Lo
			}
			if win.HasHi {
				if ext.Lo >= win.Hi {
					return false
				}
				if ext.Hi > win.Hi {
					ext.Hi = win.Hi
				}
			}

			if !cur.Empty() && ext.Lo <= cur.Hi {
				if ext.Hi > cur.Hi {
					cur.Hi = ext.Hi
				}
			} else {
				if !cur.Empty() && !yield(cur) {
					cur.Hi = cur.Lo
					return false
				}
				cur = ext
			}
			return true
		})
		if !cur.Empty() {
			yield(cur)
		}
	}
}
