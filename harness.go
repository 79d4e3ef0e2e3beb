package gapquery

import (
	"fmt"

	"github.com/davecgh/go-spew/spew"
	"go.uber.org/zap"

	"github.com/ripytide/gap-query-interval-tree/idset"
	"github.com/ripytide/gap-query-interval-tree/interval"
)

// EqualityHarness wraps one SegmentedMap and one NaiveMap, forwards every
// mutation to both, and after every mutation asserts that projecting the
// SegmentedMap down to per-identifier range-sets yields the NaiveMap.
// Every query is answered by both maps and the answers are asserted equal.
// Assertion failure panics: it indicates a defect in SegmentedMap, not a
// recoverable caller error.
type EqualityHarness[T any, D comparable] struct {
	dom   interval.Domain[T]
	seg   *SegmentedMap[T, D]
	naive *NaiveMap[T, D]
	log   *zap.SugaredLogger
}

// HarnessOption configures an EqualityHarness at construction.
type HarnessOption[T any, D comparable] func(*EqualityHarness[T, D])

// WithHarnessLogger attaches a logger that receives a structured
// diagnostic, including a go-spew dump of both sides, immediately before
// an assertion-failure panic.
func WithHarnessLogger[T any, D comparable](log *zap.SugaredLogger) HarnessOption[T, D] {
	return func(h *EqualityHarness[T, D]) { h.log = log }
}

// NewEqualityHarness constructs a harness holding a fresh SegmentedMap and
// a fresh NaiveMap over dom.
func NewEqualityHarness[T any, D comparable](dom interval.Domain[T], opts ...HarnessOption[T, D]) *EqualityHarness[T, D] {
	h := &EqualityHarness[T, D]{
		dom:   dom,
		seg:   New[T, D](dom),
		naive: NewNaiveMap[T, D](dom),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Insert forwards to both inner maps and re-asserts equivalence.
func (h *EqualityHarness[T, D]) Insert(ids idset.Set[D], iv interval.Interval[T]) {
	h.seg.Insert(ids, iv)
	h.naive.Insert(ids, iv)
	h.assertEqual()
}

// Cut forwards to both inner maps and re-asserts equivalence.
func (h *EqualityHarness[T, D]) Cut(withIdentifiers *idset.Set[D], iv interval.Interval[T]) {
	h.seg.Cut(withIdentifiers, iv)
	h.naive.Cut(withIdentifiers, iv)
	h.assertEqual()
}

// Append forwards to both inner maps and re-asserts equivalence.
func (h *EqualityHarness[T, D]) Append(other *EqualityHarness[T, D]) {
	h.seg.Append(other.seg)
	h.naive.Append(other.naive)
	h.assertEqual()
	other.assertEqual()
}

// IdentifiersAtPoint queries both inner maps, asserts agreement, and
// returns the shared result.
func (h *EqualityHarness[T, D]) IdentifiersAtPoint(p T) idset.Set[D] {
	a := h.seg.IdentifiersAtPoint(p)
	b := h.naive.IdentifiersAtPoint(p)
	if !a.Equal(b) {
		h.fail(fmt.Sprintf("identifiers_at_point(%v) disagreement", p), a, b)
	}
	return a
}

// GapQuery queries both inner maps, asserts agreement, and returns the
// shared result.
func (h *EqualityHarness[T, D]) GapQuery(withIdentifier *D, iv interval.Interval[T]) []interval.Interval[T] {
	a := h.seg.GapQuery(withIdentifier, iv)
	b := h.naive.GapQuery(withIdentifier, iv)
	if !intervalsEqual(h.dom, a, b) {
		h.fail(fmt.Sprintf("gap_query(%v) disagreement", iv), a, b)
	}
	return a
}

// GapQueryAtPoint queries both inner maps, asserts agreement, and returns
// the shared result.
func (h *EqualityHarness[T, D]) GapQueryAtPoint(withIdentifier *D, p T) *interval.Interval[T] {
	a := h.seg.GapQueryAtPoint(withIdentifier, p)
	b := h.naive.GapQueryAtPoint(withIdentifier, p)
	if !pointerIntervalsEqual(h.dom, a, b) {
		h.fail(fmt.Sprintf("gap_at_point(%v) disagreement", p), a, b)
	}
	return a
}

// assertEqual projects the SegmentedMap down to per-identifier range-sets
// (walking every segment, distributing to a fresh NaiveMap) and asserts
// the projection equals the harness's own NaiveMap — the projection
// equivalence law from the package-level spec.
func (h *EqualityHarness[T, D]) assertEqual() {
	projected := NewNaiveMap[T, D](h.dom)
	for _, seg := range h.seg.segments() {
		for d := range seg.Value {
			projected.setFor(d).InsertMergeTouchingOrOverlapping(seg.Interval)
		}
	}

	seen := make(map[D]struct{})
	for d := range projected.byID {
		seen[d] = struct{}{}
	}
	for d := range h.naive.byID {
		seen[d] = struct{}{}
	}

	for d := range seen {
		want := h.naive.rangesFor(d)
		got := projected.rangesFor(d)
		if !got.Equal(want) {
			h.fail(fmt.Sprintf("projection equivalence violated for identifier %v", d), got.All(), want.All())
		}
	}
}

func (h *EqualityHarness[T, D]) fail(reason string, segSide, naiveSide any) {
	if h.log != nil {
		h.log.Errorw("gapquery: equality harness assertion failed",
			"reason", reason,
			"segmented", spew.Sdump(segSide),
			"naive", spew.Sdump(naiveSide),
		)
	}
	panic(fmt.Sprintf("gapquery: equality harness assertion failed: %s", reason))
}

func intervalsEqual[T any](dom interval.Domain[T], a, b []interval.Interval[T]) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !interval.Equal(dom, a[i], b[i]) {
			return false
		}
	}
	return true
}

func pointerIntervalsEqual[T any](dom interval.Domain[T], a, b *interval.Interval[T]) bool {
	if (a == nil) != (b == nil) {
		return false
	}
	if a == nil {
		return true
	}
	return interval.Equal(dom, *a, *b)
}
