package rangemap

import (
	"iter"
	"log"

	"github.com/akmistry/go-util/bitmap"
	"github.com/bits-and-blooms/bitset"

	"github.com/akmistry/go-gaps"
)

type bitmapLeaf[V comparable] struct {
	bm    bitmap.Bitmap256
	items *[256]V
}

func (l *bitmapLeaf[V]) empty() bool {
	return l.bm.Empty()
}

func (l *bitmapLeaf[V]) full() bool {
	return l.bm.Full()
}

func (l *bitmapLeaf[V]) has(i int) bool {
	return l.bm.Get(uint8(i))
}

func (l *bitmapLeaf[V]) insert(start, length int, value V) {
	for i := start; i < start+length; i++ {
		l.items[i] = value
		l.bm.Set(uint8(i))
	}
}

var _ = (RangeMap[int])((*BitmapRangeMap[int])(nil))

// BitmapRangeMap maps offsets to values with 256-entry bitmap leaves,
// indexed by two bitsets tracking partially and fully populated
// leaves. Dense coverage is far cheaper here than in an extent tree,
// at the cost of O(range) Add.
type BitmapRangeMap[V comparable] struct {
	entries map[uint64]*bitmapLeaf[V]

	fullLeafIndex bitset.BitSet
	partLeafIndex bitset.BitSet
}

func NewBitmapRangeMap[V comparable]() *BitmapRangeMap[V] {
	return &BitmapRangeMap[V]{
		entries: make(map[uint64]*bitmapLeaf[V]),
	}
}

func (m *BitmapRangeMap[V]) init() {
	if m.entries == nil {
		m.entries = make(map[uint64]*bitmapLeaf[V])
	}
}

func (m *BitmapRangeMap[V]) getLeaf(leafIndex uint64) *bitmapLeaf[V] {
	m.init()
	return m.entries[leafIndex]
}

func (m *BitmapRangeMap[V]) getOrCreateLeaf(leafIndex uint64) *bitmapLeaf[V] {
	m.init()
	l := m.entries[leafIndex]
	if l == nil {
		l = &bitmapLeaf[V]{items: new([256]V)}
		m.entries[leafIndex] = l
	}
	return l
}

func (m *BitmapRangeMap[V]) Begin() (uint64, bool) {
	firstLeafIndex, ok := m.partLeafIndex.NextSet(0)
	if !ok {
		return 0, false
	}
	leaf := m.getLeaf(uint64(firstLeafIndex))
	// |leaf| should always be non-nil here. If it is, let the function
	// panic so we can detect this error.
	ffs := leaf.bm.FindFirstSet()
	if ffs < 256 {
		return uint64(ffs) + (uint64(firstLeafIndex) << 8), true
	}

	log.Panicf("Unexpected empty leaf: %d", firstLeafIndex)
	return 0, false
}

func (m *BitmapRangeMap[V]) End() uint64 {
	endLeafIndex := int(m.partLeafIndex.Len()) - 1
	for ; endLeafIndex >= 0 && !m.partLeafIndex.Test(uint(endLeafIndex)); endLeafIndex-- {
	}
	if endLeafIndex < 0 {
		return 0
	}
	lastLeafIndex := uint64(endLeafIndex)
	leaf := m.getLeaf(lastLeafIndex)
	for i := 255; i >= 0; i-- {
		if leaf.has(i) {
			return uint64(i) + (lastLeafIndex << 8) + 1
		}
	}

	log.Panicf("Unexpected empty leaf: %d", lastLeafIndex)
	return 0
}

func (m *BitmapRangeMap[V]) Add(offset, length uint64, value V) {
	end := offset + length
	for offset < end {
		leafIndex := offset >> 8
		leaf := m.getOrCreateLeaf(leafIndex)

		leafCount := 256 - (offset & 0xFF)
		if leafCount > (end - offset) {
			leafCount = end - offset
		}
		if leaf.empty() {
			m.partLeafIndex.Set(uint(leafIndex))
		}
		leaf.insert(int(offset&0xFF), int(leafCount), value)
		offset += leafCount

		if leaf.full() {
			m.fullLeafIndex.Set(uint(leafIndex))
		}
	}
}

func (m *BitmapRangeMap[V]) Get(offset uint64) (value V, ok bool) {
	leaf := m.getLeaf(offset >> 8)
	if leaf == nil {
		return
	}
	if !leaf.has(int(offset & 0xFF)) {
		return
	}
	return leaf.items[uint8(offset)], true
}

func (m *BitmapRangeMap[V]) NextKey(offset uint64) (uint64, bool) {
	leaf := m.getLeaf(offset >> 8)
	if leaf != nil {
		next := leaf.bm.FindNextSet(uint8(offset))
		if next < 256 {
			return (offset & ^uint64(0xFF)) + uint64(next), true
		}
	}

	nextPartial, ok := m.partLeafIndex.NextSet(uint(offset>>8) + 1)
	if !ok {
		return 0, false
	}

	leaf = m.entries[uint64(nextPartial)]
	return uint64(nextPartial<<8) + uint64(leaf.bm.FindFirstSet()), true
}

func (m *BitmapRangeMap[V]) NextEmpty(offset uint64) uint64 {
	leaf := m.getLeaf(offset >> 8)
	if leaf == nil {
		return offset
	}
	next := leaf.bm.FindNextClear(uint8(offset))
	if next < 256 {
		return (offset & ^uint64(0xFF)) + uint64(next)
	}

	clearStart := uint(offset>>8) + 1
	nextNonFull, ok := m.fullLeafIndex.NextClear(clearStart)
	if !ok {
		if clearStart < m.fullLeafIndex.Len() {
			nextNonFull = m.fullLeafIndex.Len()
		} else {
			nextNonFull = clearStart
		}
	}

	nextOff := uint64(nextNonFull << 8)
	leaf = m.getLeaf(uint64(nextNonFull))
	if leaf == nil {
		return nextOff
	}

	if leaf.full() {
		panic("Unexpected full leaf")
	}

	return nextOff + uint64(leaf.bm.FindFirstClear())
}

func (m *BitmapRangeMap[V]) Iterate(start uint64, iter func(ExtentValue[V]) bool) {
	off := start
	var cur ExtentValue[V]
	for {
		leaf := m.getLeaf(off >> 8)
		if leaf == nil {
			next, ok := m.NextKey(off)
			if !ok {
				break
			}
			off = next
			continue
		}

		for j := int(off & 0xFF); j < 256; j++ {
			if !leaf.has(j) {
				off++
				continue
			}
			v := leaf.items[j]
			if cur.Value == v && cur.Hi == off && !cur.Empty() {
				// Coalesce consecutive entries
				cur.Hi++
			} else {
				// New extent. First give the current one.
				if !cur.Empty() && !iter(cur) {
					return
				}
				cur.Lo = off
				cur.Hi = off + 1
				cur.Value = v
			}
			off++
		}
	}
	if !cur.Empty() {
		iter(cur)
	}
}

// Spans walks covered runs using NextKey/NextEmpty, which skip fully
// empty and fully populated leaves without touching individual bits.
func (m *BitmapRangeMap[V]) Spans(win gaps.Window[uint64]) iter.Seq[Extent] {
	return func(yield func(Extent) bool) {
		var off uint64
		if win.HasLo {
			off = win.Lo
		}
		for {
			lo, ok := m.NextKey(off)
			if !ok || (win.HasHi && lo >= win.Hi) {
				return
			}
			ext := Extent{Lo: lo, Hi: m.NextEmpty(lo)}
			if win.HasHi && ext.Hi > win.Hi {
				ext.Hi = win.Hi
			}
			if !yield(ext) {
				return
			}
			off = ext.Hi
		}
	}
}
