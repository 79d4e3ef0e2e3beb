package gapquery

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ripytide/gap-query-interval-tree/idset"
	"github.com/ripytide/gap-query-interval-tree/interval"
)

func ivi(start, end int) interval.Interval[int] { return interval.Interval[int]{Start: start, End: end} }

func ptr[T any](v T) *T { return &v }

// Scenario 1: empty tree.
func TestScenarioEmptyTree(t *testing.T) {
	sm := New[int, int](interval.IntDomain{})

	got := sm.GapQuery(nil, ivi(0, 100))
	want := []interval.Interval[int]{ivi(interval.IntDomain{}.Min(), interval.IntDomain{}.Max())}
	assert.Equal(t, want, got)

	gap := sm.GapQueryAtPoint(nil, 42)
	require.NotNil(t, gap)
	assert.Equal(t, want[0], *gap)

	assert.True(t, sm.IdentifiersAtPoint(0).Empty())
}

// Scenario 2: two disjoint reservations, global gap query.
func TestScenarioTwoReservationsGlobalGap(t *testing.T) {
	sm := New[int, int](interval.IntDomain{})
	sm.Insert(idset.Of(5), ivi(3, 6))
	sm.Insert(idset.Of(9), ivi(12, 28))

	got := sm.GapQuery(nil, ivi(9, 9))
	assert.Equal(t, []interval.Interval[int]{ivi(7, 11)}, got)

	gap := sm.GapQueryAtPoint(nil, 9)
	require.NotNil(t, gap)
	assert.Equal(t, ivi(7, 11), *gap)

	assert.True(t, sm.IdentifiersAtPoint(9).Empty())
	assert.True(t, sm.IdentifiersAtPoint(16).Equal(idset.Of(9)))
}

// Scenario 3: gap query from identifier 5's own vantage treats its own
// reservation as free.
func TestScenarioVantageTreatsOwnReservationAsFree(t *testing.T) {
	sm := New[int, int](interval.IntDomain{})
	sm.Insert(idset.Of(5), ivi(3, 6))
	sm.Insert(idset.Of(9), ivi(12, 28))

	got := sm.GapQuery(ptr(5), ivi(0, 100))
	want := []interval.Interval[int]{
		{Start: interval.IntDomain{}.Min(), End: 11},
		{Start: 29, End: interval.IntDomain{}.Max()},
	}
	assert.Equal(t, want, got)
}

// Scenario 4: cut a sub-range of a single identifier's reservation.
func TestScenarioCutSubrange(t *testing.T) {
	sm := New[int, int](interval.IntDomain{})
	sm.Insert(idset.Of(5), ivi(3, 6))
	sm.Cut(ptr(idset.Of(5)), ivi(4, 5))

	assert.True(t, sm.IdentifiersAtPoint(4).Empty())
	assert.True(t, sm.IdentifiersAtPoint(3).Equal(idset.Of(5)))
	assert.True(t, sm.IdentifiersAtPoint(6).Equal(idset.Of(5)))

	got := sm.GapQuery(nil, ivi(4, 5))
	assert.Equal(t, []interval.Interval[int]{ivi(4, 5)}, got)
}

// Scenario 5: append drains the source tree into an empty state.
func TestScenarioAppend(t *testing.T) {
	tree1 := New[int, int](interval.IntDomain{})
	tree1.Insert(idset.Of(5), ivi(3, 6))

	tree2 := New[int, int](interval.IntDomain{})
	tree2.Insert(idset.Of(9), ivi(12, 28))

	tree1.Append(tree2)

	segs := tree2.segments()
	require.Len(t, segs, 1)
	assert.True(t, segs[0].Value.Empty())
	assert.Equal(t, interval.IntDomain{}.Min(), segs[0].Interval.Start)
	assert.Equal(t, interval.IntDomain{}.Max(), segs[0].Interval.End)

	gap := tree1.GapQueryAtPoint(nil, 9)
	require.NotNil(t, gap)
	assert.Equal(t, ivi(7, 11), *gap)
}

// Scenario 6: cut with no identifiers forces a range free for everyone.
func TestScenarioCutForcesFreeForEveryone(t *testing.T) {
	sm := New[int, int](interval.IntDomain{})
	sm.Insert(idset.Of(1, 2), ivi(0, 10))
	sm.Cut(nil, ivi(4, 6))

	assert.True(t, sm.IdentifiersAtPoint(5).Empty())
	assert.True(t, sm.IdentifiersAtPoint(2).Equal(idset.Of(1, 2)))
	assert.True(t, sm.IdentifiersAtPoint(8).Equal(idset.Of(1, 2)))

	got := sm.GapQuery(ptr(1), ivi(5, 5))
	require.NotEmpty(t, got)
	assert.Equal(t, ivi(4, 6), got[0])
}

func TestInsertEmptyIdentifiersIsNoOp(t *testing.T) {
	sm := New[int, int](interval.IntDomain{})
	sm.Insert(idset.Set[int]{}, ivi(0, 10))

	segs := sm.segments()
	require.Len(t, segs, 1)
	assert.True(t, segs[0].Value.Empty())
}

// P6: cut is idempotent.
func TestCutIdempotent(t *testing.T) {
	sm1 := New[int, int](interval.IntDomain{})
	sm1.Insert(idset.Of(1, 2), ivi(0, 50))
	sm1.Cut(ptr(idset.Of(1)), ivi(10, 20))

	sm2 := New[int, int](interval.IntDomain{})
	sm2.Insert(idset.Of(1, 2), ivi(0, 50))
	sm2.Cut(ptr(idset.Of(1)), ivi(10, 20))
	sm2.Cut(ptr(idset.Of(1)), ivi(10, 20))

	assertSameSegments(t, sm1, sm2)
}

// P7: insert then cut the same (ids, interval) is projection-equivalent
// to the pre-insertion state.
func TestInsertThenCutReturnsToPriorState(t *testing.T) {
	before := New[int, int](interval.IntDomain{})
	before.Insert(idset.Of(9), ivi(12, 28))

	after := New[int, int](interval.IntDomain{})
	after.Insert(idset.Of(9), ivi(12, 28))
	after.Insert(idset.Of(5), ivi(3, 6))
	after.Cut(ptr(idset.Of(5)), ivi(3, 6))

	assertSameSegments(t, before, after)
}

func assertSameSegments(t *testing.T, a, b *SegmentedMap[int, int]) {
	t.Helper()
	as, bs := a.segments(), b.segments()
	require.Len(t, bs, len(as))
	for i := range as {
		assert.Equal(t, as[i].Interval, bs[i].Interval)
		assert.True(t, as[i].Value.Equal(bs[i].Value))
	}
}

func TestIdentifiersAtPointEveryPointInSmallDomain(t *testing.T) {
	dom := interval.Int32Domain{}
	sm := New[int32, int](dom)
	sm.Insert(idset.Of(1), interval.Interval[int32]{Start: -5, End: 5})

	naive := NewNaiveMap[int32, int](dom)
	naive.Insert(idset.Of(1), interval.Interval[int32]{Start: -5, End: 5})

	for p := int32(-10); p <= 10; p++ {
		assert.True(t, sm.IdentifiersAtPoint(p).Equal(naive.IdentifiersAtPoint(p)), "mismatch at %d", p)
	}
}
