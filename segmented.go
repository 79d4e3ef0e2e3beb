package gapquery

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/ripytide/gap-query-interval-tree/idset"
	"github.com/ripytide/gap-query-interval-tree/interval"
	"github.com/ripytide/gap-query-interval-tree/internal/rangemap"
)

// SegmentedMap is the primary representation described at the top of this
// package: a sorted partition of the full domain [Min, Max] into abutting
// segments, each tagged with the (possibly empty) set of identifiers
// occupying it.
//
// Invariants, maintained after every public method returns:
//
//   - I1 Total coverage: the segments exactly partition [Min, Max].
//   - I2 Adjacency: consecutive segments abut with no gap and no overlap.
//   - I3 Maximal coalescing: no two adjacent segments carry equal
//     IdentifierSets.
//   - I4 Initial state: a freshly constructed map is one segment
//     [Min, Max] => empty set.
type SegmentedMap[T any, D comparable] struct {
	dom interval.Domain[T]
	m   *rangemap.Map[T, idset.Set[D]]
	log *zap.SugaredLogger
}

// Option configures a SegmentedMap at construction. EqualityHarness takes
// HarnessOption instead.
type Option[T any, D comparable] func(*SegmentedMap[T, D])

// WithLogger attaches a logger that receives a structured diagnostic
// immediately before an invariant-violation panic. A nil logger (the
// default) disables this; behavior is otherwise identical.
func WithLogger[T any, D comparable](log *zap.SugaredLogger) Option[T, D] {
	return func(sm *SegmentedMap[T, D]) { sm.log = log }
}

// New constructs a SegmentedMap over dom, initialized per I4: one segment
// [Min, Max] => empty set.
func New[T any, D comparable](dom interval.Domain[T], opts ...Option[T, D]) *SegmentedMap[T, D] {
	sm := &SegmentedMap[T, D]{dom: dom, m: rangemap.New[T, idset.Set[D]](dom)}
	for _, opt := range opts {
		opt(sm)
	}
	sm.reset()
	return sm
}

func (sm *SegmentedMap[T, D]) reset() {
	sm.m.Clear()
	full := interval.Interval[T]{Start: sm.dom.Min(), End: sm.dom.Max()}
	sm.m.InsertStrict(full, idset.Set[D]{})
}

func equalIDSets[D comparable](a, b idset.Set[D]) bool { return a.Equal(b) }

func validForIdentifier[D comparable](d D, ids idset.Set[D]) bool {
	if ids.Empty() {
		return true
	}
	return len(ids) == 1 && ids.Contains(d)
}

// Insert marks every point of iv as additionally occupied by every
// identifier in ids. An empty ids is a valid no-op.
func (sm *SegmentedMap[T, D]) Insert(ids idset.Set[D], iv interval.Interval[T]) {
	if ids.Empty() {
		return
	}
	for _, piece := range sm.m.Cut(iv) {
		extended := piece.Value.Union(ids)
		sm.insertPiece(piece.Interval, extended)
	}
}

// Cut removes every point of iv from the occupancy of the given
// identifiers; if withIdentifiers is nil, interval iv is forced free for
// every identifier.
func (sm *SegmentedMap[T, D]) Cut(withIdentifiers *idset.Set[D], iv interval.Interval[T]) {
	for _, piece := range sm.m.Cut(iv) {
		var remaining idset.Set[D]
		if withIdentifiers != nil {
			remaining = piece.Value.Difference(*withIdentifiers)
		} else {
			remaining = idset.Set[D]{}
		}
		sm.insertPiece(piece.Interval, remaining)
	}
}

func (sm *SegmentedMap[T, D]) insertPiece(iv interval.Interval[T], ids idset.Set[D]) {
	defer func() {
		if r := recover(); r != nil {
			if sm.log != nil {
				sm.log.Errorw("gapquery: invariant violation re-inserting cut piece",
					"interval", iv, "identifiers", ids.Slice(), "recovered", r)
			}
			panic(r)
		}
	}()
	sm.m.InsertMergeTouchingIfValuesEqual(iv, ids, equalIDSets[D])
}

// Append drains every segment of other into sm, leaving other in its
// initial state (I4). Non-empty segments are re-inserted via Insert;
// empty segments contribute nothing.
func (sm *SegmentedMap[T, D]) Append(other *SegmentedMap[T, D]) {
	for _, item := range other.m.All() {
		if !item.Value.Empty() {
			sm.Insert(item.Value, item.Interval)
		}
	}
	other.reset()
}

// IdentifiersAtPoint returns the IdentifierSet of the unique segment
// containing p. Total by I1.
func (sm *SegmentedMap[T, D]) IdentifiersAtPoint(p T) idset.Set[D] {
	at := interval.Interval[T]{Start: p, End: p}
	hits := sm.m.Overlapping(at)
	if len(hits) != 1 {
		panic(fmt.Sprintf("gapquery: point %v matched %d segments, expected exactly 1", p, len(hits)))
	}
	return hits[0].Value
}

// GapQuery returns, in ascending order, the maximally extended free
// intervals overlapping iv, as seen from the given vantage. withIdentifier
// == nil means "globally unoccupied"; withIdentifier == &d means "free or
// reserved by d alone."
func (sm *SegmentedMap[T, D]) GapQuery(withIdentifier *D, iv interval.Interval[T]) []interval.Interval[T] {
	if withIdentifier == nil {
		return sm.gapsGlobal(iv)
	}
	return sm.gapsForIdentifier(*withIdentifier, iv)
}

func (sm *SegmentedMap[T, D]) gapsGlobal(iv interval.Interval[T]) []interval.Interval[T] {
	var out []interval.Interval[T]
	for _, item := range sm.m.Overlapping(iv) {
		if item.Value.Empty() {
			out = append(out, item.Interval)
		}
	}
	return out
}

func (sm *SegmentedMap[T, D]) gapsForIdentifier(d D, iv interval.Interval[T]) []interval.Interval[T] {
	var interiorGaps []interval.Interval[T]
	for _, item := range sm.m.Overlapping(iv) {
		if !validForIdentifier(d, item.Value) {
			continue
		}
		if interval.Contains(sm.dom, item.Interval, iv.Start) || interval.Contains(sm.dom, item.Interval, iv.End) {
			continue
		}
		interiorGaps = append(interiorGaps, item.Interval)
	}

	left, hasLeft := sm.expandLeft(d, iv.Start)
	right, hasRight := sm.expandRight(d, iv.End)

	if hasLeft && hasRight && interval.Overlaps(sm.dom, left, right) {
		left = interval.Merge(sm.dom, left, right)
		hasRight = false
	}

	ordered := make([]interval.Interval[T], 0, len(interiorGaps)+2)
	if hasLeft {
		ordered = append(ordered, left)
	}
	ordered = append(ordered, interiorGaps...)
	if hasRight {
		ordered = append(ordered, right)
	}

	return coalesceTouching(sm.dom, ordered)
}

// expandLeft walks leftward (in descending start order) from the segment
// containing point, merging consecutively-valid segments, stopping at the
// first segment that is not valid for d.
func (sm *SegmentedMap[T, D]) expandLeft(d D, point T) (interval.Interval[T], bool) {
	window := interval.Interval[T]{Start: sm.dom.Min(), End: point}
	var merged interval.Interval[T]
	found := false
	for _, item := range sm.m.OverlappingRev(window) {
		if !validForIdentifier(d, item.Value) {
			break
		}
		if !found {
			merged, found = item.Interval, true
		} else {
			merged = interval.Merge(sm.dom, merged, item.Interval)
		}
	}
	return merged, found
}

// expandRight is the mirror of expandLeft, walking rightward from the
// segment containing point.
func (sm *SegmentedMap[T, D]) expandRight(d D, point T) (interval.Interval[T], bool) {
	window := interval.Interval[T]{Start: point, End: sm.dom.Max()}
	var merged interval.Interval[T]
	found := false
	for _, item := range sm.m.Overlapping(window) {
		if !validForIdentifier(d, item.Value) {
			break
		}
		if !found {
			merged, found = item.Interval, true
		} else {
			merged = interval.Merge(sm.dom, merged, item.Interval)
		}
	}
	return merged, found
}

func coalesceTouching[T any](dom interval.Domain[T], ivs []interval.Interval[T]) []interval.Interval[T] {
	out := make([]interval.Interval[T], 0, len(ivs))
	for _, iv := range ivs {
		if n := len(out); n > 0 && interval.Touches(dom, out[n-1], iv) {
			out[n-1] = interval.Merge(dom, out[n-1], iv)
			continue
		}
		out = append(out, iv)
	}
	return out
}

// GapQueryAtPoint is a convenience for GapQuery with the singleton
// interval [p, p]. By construction a single-point window can be covered
// by at most one maximally-merged gap segment; this is asserted, not
// merely assumed.
func (sm *SegmentedMap[T, D]) GapQueryAtPoint(withIdentifier *D, p T) *interval.Interval[T] {
	results := sm.GapQuery(withIdentifier, interval.Interval[T]{Start: p, End: p})
	if len(results) > 1 {
		panic(fmt.Sprintf("gapquery: gap_at_point matched %d gaps, expected 0 or 1", len(results)))
	}
	if len(results) == 0 {
		return nil
	}
	return &results[0]
}

// segments exposes the full ordered segment list for EqualityHarness's
// projection and for snapshotting; it is not part of the public contract
// since callers only ever need point/range queries, not the raw
// partition.
func (sm *SegmentedMap[T, D]) segments() []rangemap.Item[T, idset.Set[D]] {
	return sm.m.All()
}
