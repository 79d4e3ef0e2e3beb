package gapquery

import (
	"github.com/ripytide/gap-query-interval-tree/idset"
	"github.com/ripytide/gap-query-interval-tree/interval"
	"github.com/ripytide/gap-query-interval-tree/internal/rangeset"
)

// NaiveMap is the reference representation: for each identifier, an
// independent coalesced range-set of the intervals occupied by that
// identifier alone. It is semantically equivalent to SegmentedMap but
// trivially correct, and is O(N) per query — it exists only to oracle
// SegmentedMap in tests (see EqualityHarness).
type NaiveMap[T any, D comparable] struct {
	dom  interval.Domain[T]
	byID map[D]*rangeset.Set[T]
}

// NewNaiveMap constructs an empty NaiveMap over dom.
func NewNaiveMap[T any, D comparable](dom interval.Domain[T]) *NaiveMap[T, D] {
	return &NaiveMap[T, D]{dom: dom, byID: make(map[D]*rangeset.Set[T])}
}

func (n *NaiveMap[T, D]) setFor(d D) *rangeset.Set[T] {
	set, ok := n.byID[d]
	if !ok {
		set = rangeset.New[T](n.dom)
		n.byID[d] = set
	}
	return set
}

// rangesFor returns the stored range-set for d, or a fresh empty one if d
// is absent — absent identifiers are equivalent to identifiers present
// with an empty range-set.
func (n *NaiveMap[T, D]) rangesFor(d D) *rangeset.Set[T] {
	if set, ok := n.byID[d]; ok {
		return set
	}
	return rangeset.New[T](n.dom)
}

// Insert inserts iv into ranges[d] for every d in ids, with touching-or-
// overlapping merge.
func (n *NaiveMap[T, D]) Insert(ids idset.Set[D], iv interval.Interval[T]) {
	for d := range ids {
		n.setFor(d).InsertMergeTouchingOrOverlapping(iv)
	}
}

// Cut removes iv from ranges[d] for every d in the given set, or from
// every identifier when withIdentifiers is nil.
func (n *NaiveMap[T, D]) Cut(withIdentifiers *idset.Set[D], iv interval.Interval[T]) {
	if withIdentifiers != nil {
		for d := range *withIdentifiers {
			if set, ok := n.byID[d]; ok {
				set.Cut(iv)
			}
		}
		return
	}
	for _, set := range n.byID {
		set.Cut(iv)
	}
}

// Append drains other into n by repeated per-identifier insertion,
// leaving other empty.
func (n *NaiveMap[T, D]) Append(other *NaiveMap[T, D]) {
	for d, set := range other.byID {
		for _, iv := range set.All() {
			n.setFor(d).InsertMergeTouchingOrOverlapping(iv)
		}
	}
	other.byID = make(map[D]*rangeset.Set[T])
}

// IdentifiersAtPoint collects every identifier whose range-set contains p.
func (n *NaiveMap[T, D]) IdentifiersAtPoint(p T) idset.Set[D] {
	out := make(idset.Set[D])
	for d, set := range n.byID {
		if set.Contains(p) {
			out[d] = struct{}{}
		}
	}
	return out
}

// GapQuery computes the union of every identifier's intervals other than
// with_identifier (or every identifier's, when nil), complements it
// inside [Min, Max], and returns the gaps overlapping iv.
func (n *NaiveMap[T, D]) GapQuery(withIdentifier *D, iv interval.Interval[T]) []interval.Interval[T] {
	union := rangeset.New[T](n.dom)
	for d, set := range n.byID {
		if withIdentifier != nil && d == *withIdentifier {
			continue
		}
		for _, occupied := range set.All() {
			union.InsertMergeTouchingOrOverlapping(occupied)
		}
	}

	full := interval.Interval[T]{Start: n.dom.Min(), End: n.dom.Max()}
	var out []interval.Interval[T]
	for _, gap := range union.Gaps(full) {
		if interval.Overlaps(n.dom, gap, iv) {
			out = append(out, gap)
		}
	}
	return out
}

// GapQueryAtPoint is the naive equivalent of SegmentedMap.GapQueryAtPoint.
func (n *NaiveMap[T, D]) GapQueryAtPoint(withIdentifier *D, p T) *interval.Interval[T] {
	results := n.GapQuery(withIdentifier, interval.Interval[T]{Start: p, End: p})
	if len(results) == 0 {
		return nil
	}
	return &results[0]
}
