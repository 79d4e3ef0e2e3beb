// Package rangemap implements the ordered range-map primitive described in
// the package-level spec: an interval-keyed store supporting overlap
// queries in both directions, a cut that returns the pieces it removed,
// and an insert that merges with a touching neighbour when the stored
// values compare equal.
//
// It is grounded on bufbuild/protocompile's internal/interval.Map, which
// backs an interval map with a github.com/tidwall/btree tree keyed by
// interval bounds; here we use tidwall/btree's item-based BTreeG so the
// ordering can be driven by an arbitrary interval.Domain comparator rather
// than Go's built-in cmp.Ordered, since callers of this module may use a
// point type that is not natively ordered.
package rangemap

import (
	"fmt"

	"github.com/tidwall/btree"

	"github.com/ripytide/gap-query-interval-tree/interval"
)

// Item is a single (interval, value) pair materialized out of a Map.
type Item[T any, V any] struct {
	Interval interval.Interval[T]
	Value    V
}

type entry[T any, V any] struct {
	start, end T
	value      V
}

// Map is an ordered store of pairwise non-overlapping closed intervals,
// each carrying a value of type V.
//
// The zero value is not usable; construct with New.
type Map[T any, V any] struct {
	dom  interval.Domain[T]
	tree *btree.BTreeG[*entry[T, V]]
}

// New constructs an empty Map ordered by dom.
func New[T any, V any](dom interval.Domain[T]) *Map[T, V] {
	less := func(a, b *entry[T, V]) bool {
		return dom.Compare(a.start, b.start) < 0
	}
	return &Map[T, V]{dom: dom, tree: btree.NewBTreeG(less)}
}

func (m *Map[T, V]) toItem(e *entry[T, V]) Item[T, V] {
	return Item[T, V]{Interval: interval.Interval[T]{Start: e.start, End: e.end}, Value: e.value}
}

// Len reports the number of stored intervals.
func (m *Map[T, V]) Len() int {
	return m.tree.Len()
}

// InsertStrict inserts iv => value, panicking if iv overlaps any interval
// already present. Used to seed a SegmentedMap's initial [Min, Max] =>
// empty-set segment, to rebuild a SegmentedMap from a snapshot, and by
// rangeset to store a merged interval after cutting its range.
func (m *Map[T, V]) InsertStrict(iv interval.Interval[T], value V) {
	if len(m.Overlapping(iv)) != 0 {
		panic("rangemap: InsertStrict called with an interval that overlaps an existing entry")
	}
	m.tree.Set(&entry[T, V]{start: iv.Start, end: iv.End, value: value})
}

// InsertMergeTouchingIfValuesEqual inserts iv => value. If the stored
// interval immediately to the left and/or right of iv touches it and its
// value compares equal under equal, that neighbour is absorbed into the
// inserted interval instead of left standing next to an equal-valued
// segment. Returns the (possibly extended) interval and value actually
// stored.
//
// Panics if iv overlaps an existing entry: the caller (SegmentedMap) is
// required to have cut the target range first, so an overlap
// here means the caller has a bug, not the user.
func (m *Map[T, V]) InsertMergeTouchingIfValuesEqual(
	iv interval.Interval[T], value V, equal func(a, b V) bool,
) Item[T, V] {
	if overlap := m.Overlapping(iv); len(overlap) != 0 {
		panic(fmt.Sprintf("rangemap: insert interval %v overlaps existing entry %v", iv, overlap[0].Interval))
	}

	result := interval.Interval[T]{Start: iv.Start, End: iv.End}

	if left, ok := m.floor(iv.Start); ok {
		leftIv := interval.Interval[T]{Start: left.start, End: left.end}
		if interval.Touches(m.dom, leftIv, iv) && equal(left.value, value) {
			result.Start = left.start
			m.tree.Delete(left)
		}
	}

	if m.dom.Compare(iv.End, m.dom.Max()) < 0 {
		rightStart := m.dom.Succ(iv.End)
		if right, ok := m.tree.Get(&entry[T, V]{start: rightStart}); ok {
			rightIv := interval.Interval[T]{Start: right.start, End: right.end}
			if interval.Touches(m.dom, iv, rightIv) && equal(right.value, value) {
				result.End = right.end
				m.tree.Delete(right)
			}
		}
	}

	m.tree.Set(&entry[T, V]{start: result.Start, end: result.End, value: value})
	return Item[T, V]{Interval: result, Value: value}
}

// floor returns the stored entry with the greatest start <= point, if any.
func (m *Map[T, V]) floor(point T) (*entry[T, V], bool) {
	var found *entry[T, V]
	m.tree.Descend(&entry[T, V]{start: point}, func(e *entry[T, V]) bool {
		found = e
		return false
	})
	return found, found != nil
}

// Overlapping returns, in ascending order, every stored (interval, value)
// pair that shares at least one point with iv.
func (m *Map[T, V]) Overlapping(iv interval.Interval[T]) []Item[T, V] {
	var out []Item[T, V]

	first, ok := m.floor(iv.Start)
	if ok && m.dom.Compare(first.end, iv.Start) >= 0 {
		out = append(out, m.toItem(first))
	}

	m.tree.Ascend(&entry[T, V]{start: iv.Start}, func(e *entry[T, V]) bool {
		if ok && e == first {
			return true
		}
		if m.dom.Compare(e.start, iv.End) > 0 {
			return false
		}
		out = append(out, m.toItem(e))
		return true
	})

	return out
}

// OverlappingRev returns the same set of entries as Overlapping, but in
// descending order. Used by the identifier-relative gap query's leftward
// end-gap expansion, which walks backward from interval.start.
func (m *Map[T, V]) OverlappingRev(iv interval.Interval[T]) []Item[T, V] {
	var out []Item[T, V]
	m.tree.Descend(&entry[T, V]{start: iv.End}, func(e *entry[T, V]) bool {
		if m.dom.Compare(e.end, iv.Start) < 0 {
			return false // entries only get smaller from here; we're done
		}
		out = append(out, m.toItem(e))
		return true
	})
	return out
}

// Cut removes every point of iv from the map. Entries that only partly
// overlap iv are split: the out-of-range remainder is written back under
// its original value, and the in-range piece is returned. Pieces are
// returned in ascending order and cover exactly the stored points of iv,
// split at the pre-existing segment boundaries; when the map has no gaps
// inside iv (as in a SegmentedMap), they partition iv.
func (m *Map[T, V]) Cut(iv interval.Interval[T]) []Item[T, V] {
	overlap := m.Overlapping(iv)
	pieces := make([]Item[T, V], 0, len(overlap))

	for _, item := range overlap {
		m.tree.Delete(&entry[T, V]{start: item.Interval.Start})

		if m.dom.Compare(item.Interval.Start, iv.Start) < 0 {
			leftEnd := m.dom.Pred(iv.Start)
			m.tree.Set(&entry[T, V]{start: item.Interval.Start, end: leftEnd, value: item.Value})
		}
		if m.dom.Compare(item.Interval.End, iv.End) > 0 {
			rightStart := m.dom.Succ(iv.End)
			m.tree.Set(&entry[T, V]{start: rightStart, end: item.Interval.End, value: item.Value})
		}

		midStart := item.Interval.Start
		if m.dom.Compare(iv.Start, midStart) > 0 {
			midStart = iv.Start
		}
		midEnd := item.Interval.End
		if m.dom.Compare(iv.End, midEnd) < 0 {
			midEnd = iv.End
		}
		pieces = append(pieces, Item[T, V]{
			Interval: interval.Interval[T]{Start: midStart, End: midEnd},
			Value:    item.Value,
		})
	}

	return pieces
}

// All returns every stored (interval, value) pair in ascending order.
func (m *Map[T, V]) All() []Item[T, V] {
	out := make([]Item[T, V], 0, m.tree.Len())
	m.tree.Scan(func(e *entry[T, V]) bool {
		out = append(out, m.toItem(e))
		return true
	})
	return out
}

// Clear empties the map.
func (m *Map[T, V]) Clear() {
	m.tree = btree.NewBTreeG(func(a, b *entry[T, V]) bool {
		return m.dom.Compare(a.start, b.start) < 0
	})
}
