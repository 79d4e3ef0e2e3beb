package gapquery

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ripytide/gap-query-interval-tree/idset"
	"github.com/ripytide/gap-query-interval-tree/interval"
)

// The six worked scenarios from the package-level spec, driven through the
// harness so that every mutation also re-asserts projection equivalence
// against the naive oracle.

func TestHarnessScenarioEmptyTree(t *testing.T) {
	h := NewEqualityHarness[int, int](interval.IntDomain{})

	want := []interval.Interval[int]{ivi(interval.IntDomain{}.Min(), interval.IntDomain{}.Max())}
	assert.Equal(t, want, h.GapQuery(nil, ivi(0, 100)))
	assert.True(t, h.IdentifiersAtPoint(0).Empty())
}

func TestHarnessScenarioTwoReservations(t *testing.T) {
	h := NewEqualityHarness[int, int](interval.IntDomain{})
	h.Insert(idset.Of(5), ivi(3, 6))
	h.Insert(idset.Of(9), ivi(12, 28))

	assert.Equal(t, []interval.Interval[int]{ivi(7, 11)}, h.GapQuery(nil, ivi(9, 9)))
	assert.True(t, h.IdentifiersAtPoint(16).Equal(idset.Of(9)))
}

func TestHarnessScenarioVantage(t *testing.T) {
	h := NewEqualityHarness[int, int](interval.IntDomain{})
	h.Insert(idset.Of(5), ivi(3, 6))
	h.Insert(idset.Of(9), ivi(12, 28))

	got := h.GapQuery(ptr(5), ivi(0, 100))
	want := []interval.Interval[int]{
		{Start: interval.IntDomain{}.Min(), End: 11},
		{Start: 29, End: interval.IntDomain{}.Max()},
	}
	assert.Equal(t, want, got)
}

func TestHarnessScenarioCutSubrange(t *testing.T) {
	h := NewEqualityHarness[int, int](interval.IntDomain{})
	h.Insert(idset.Of(5), ivi(3, 6))
	h.Cut(ptr(idset.Of(5)), ivi(4, 5))

	assert.True(t, h.IdentifiersAtPoint(4).Empty())
	assert.True(t, h.IdentifiersAtPoint(3).Equal(idset.Of(5)))
	assert.Equal(t, []interval.Interval[int]{ivi(4, 5)}, h.GapQuery(nil, ivi(4, 5)))
}

func TestHarnessScenarioAppend(t *testing.T) {
	h1 := NewEqualityHarness[int, int](interval.IntDomain{})
	h1.Insert(idset.Of(5), ivi(3, 6))

	h2 := NewEqualityHarness[int, int](interval.IntDomain{})
	h2.Insert(idset.Of(9), ivi(12, 28))

	h1.Append(h2)

	gap := h1.GapQueryAtPoint(nil, 9)
	require.NotNil(t, gap)
	assert.Equal(t, ivi(7, 11), *gap)
}

func TestHarnessScenarioCutForcesFreeForEveryone(t *testing.T) {
	h := NewEqualityHarness[int, int](interval.IntDomain{})
	h.Insert(idset.Of(1, 2), ivi(0, 10))
	h.Cut(nil, ivi(4, 6))

	assert.True(t, h.IdentifiersAtPoint(5).Empty())
	got := h.GapQuery(ptr(1), ivi(5, 5))
	require.NotEmpty(t, got)
	assert.Equal(t, ivi(4, 6), got[0])
}

// TestHarnessRandomizedAgainstNaive throws a long pseudo-random sequence of
// inserts and cuts at the harness; any projection-equivalence violation
// panics the test via EqualityHarness.fail before assertions even run.
func TestHarnessRandomizedAgainstNaive(t *testing.T) {
	dom := interval.Int32Domain{}
	h := NewEqualityHarness[int32, int](dom)
	rng := rand.New(rand.NewSource(7))

	for i := 0; i < 500; i++ {
		start := int32(rng.Intn(200) - 100)
		length := int32(rng.Intn(20))
		iv := interval.Interval[int32]{Start: start, End: start + length}

		ids := idset.Of(rng.Intn(5), rng.Intn(5))

		if rng.Intn(3) == 0 {
			var withIDs *idset.Set[int]
			if rng.Intn(2) == 0 {
				withIDs = &ids
			}
			h.Cut(withIDs, iv)
		} else {
			h.Insert(ids, iv)
		}

		p := int32(rng.Intn(200) - 100)
		h.IdentifiersAtPoint(p)

		var withID *int
		if rng.Intn(2) == 0 {
			id := rng.Intn(5)
			withID = &id
		}
		h.GapQueryAtPoint(withID, p)
	}
}
