// Package rangeset implements a coalescing ordered set of intervals,
// layered on top of internal/rangemap the way the original crate's
// DiscreteRangeSet is layered on top of DiscreteRangeMap. It backs
// NaiveMap, the reference oracle described in the package-level spec.
package rangeset

import (
	"github.com/ripytide/gap-query-interval-tree/interval"
	"github.com/ripytide/gap-query-interval-tree/internal/rangemap"
)

// Set is an ordered, pairwise-disjoint, coalesced collection of
// intervals: no two stored intervals touch or overlap.
type Set[T any] struct {
	dom interval.Domain[T]
	m   *rangemap.Map[T, struct{}]
}

// New constructs an empty Set ordered by dom.
func New[T any](dom interval.Domain[T]) *Set[T] {
	return &Set[T]{dom: dom, m: rangemap.New[T, struct{}](dom)}
}

// InsertMergeTouchingOrOverlapping inserts iv, merging with any stored
// interval that touches or overlaps it.
func (s *Set[T]) InsertMergeTouchingOrOverlapping(iv interval.Interval[T]) {
	merged := iv
	for _, item := range s.m.Overlapping(iv) {
		merged = interval.Merge(s.dom, merged, item.Interval)
	}
	// Touching neighbours aren't reported by Overlapping (they don't
	// share a point), so also absorb the immediate left/right touchers.
	if s.dom.Compare(merged.Start, s.dom.Min()) > 0 {
		probe := interval.Interval[T]{Start: s.dom.Pred(merged.Start), End: s.dom.Pred(merged.Start)}
		for _, item := range s.m.Overlapping(probe) {
			merged = interval.Merge(s.dom, merged, item.Interval)
		}
	}
	if s.dom.Compare(merged.End, s.dom.Max()) < 0 {
		probe := interval.Interval[T]{Start: s.dom.Succ(merged.End), End: s.dom.Succ(merged.End)}
		for _, item := range s.m.Overlapping(probe) {
			merged = interval.Merge(s.dom, merged, item.Interval)
		}
	}

	s.m.Cut(merged)
	s.m.InsertStrict(merged, struct{}{})
}

// Cut removes every point of iv from the set.
func (s *Set[T]) Cut(iv interval.Interval[T]) {
	s.m.Cut(iv)
}

// Overlapping returns, in ascending order, every stored interval that
// shares at least one point with iv.
func (s *Set[T]) Overlapping(iv interval.Interval[T]) []interval.Interval[T] {
	items := s.m.Overlapping(iv)
	out := make([]interval.Interval[T], len(items))
	for i, item := range items {
		out[i] = item.Interval
	}
	return out
}

// Contains reports whether p is covered by some stored interval.
func (s *Set[T]) Contains(p T) bool {
	return len(s.Overlapping(interval.Interval[T]{Start: p, End: p})) > 0
}

// All returns every stored interval in ascending order.
func (s *Set[T]) All() []interval.Interval[T] {
	items := s.m.All()
	out := make([]interval.Interval[T], len(items))
	for i, item := range items {
		out[i] = item.Interval
	}
	return out
}

// Gaps returns the complement of the stored intervals inside full, i.e.
// the maximal sub-intervals of full that contain no stored point.
func (s *Set[T]) Gaps(full interval.Interval[T]) []interval.Interval[T] {
	var gaps []interval.Interval[T]
	cursor := full.Start
	covered := false
	for _, iv := range s.Overlapping(full) {
		start := iv.Start
		if s.dom.Compare(start, full.Start) < 0 {
			start = full.Start
		}
		end := iv.End
		if s.dom.Compare(end, full.End) > 0 {
			end = full.End
		}
		if s.dom.Compare(cursor, start) < 0 {
			gaps = append(gaps, interval.Interval[T]{Start: cursor, End: s.dom.Pred(start)})
		}
		if s.dom.Compare(end, full.End) >= 0 {
			covered = true
			break
		}
		cursor = s.dom.Succ(end)
	}
	if !covered && s.dom.Compare(cursor, full.End) <= 0 {
		gaps = append(gaps, interval.Interval[T]{Start: cursor, End: full.End})
	}
	return gaps
}

// Equal reports whether s and other contain exactly the same coalesced
// intervals — used by NaiveMap's equality semantics under the projection
// law.
func (s *Set[T]) Equal(other *Set[T]) bool {
	a, b := s.All(), other.All()
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !interval.Equal(s.dom, a[i], b[i]) {
			return false
		}
	}
	return true
}
