package gapquery

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/ripytide/gap-query-interval-tree/idset"
	"github.com/ripytide/gap-query-interval-tree/interval"
)

// Identifiers need only be comparable; uuid.UUID (a [16]byte array) is a
// realistic stand-in for the caller-supplied identifier type a production
// user of this package would reach for instead of a bare int.
func TestSegmentedMapWithUUIDIdentifiers(t *testing.T) {
	alice := uuid.New()
	bob := uuid.New()

	sm := New[int, uuid.UUID](interval.IntDomain{})
	sm.Insert(idset.Of(alice), ivi(3, 6))
	sm.Insert(idset.Of(bob), ivi(12, 28))

	assert.True(t, sm.IdentifiersAtPoint(16).Equal(idset.Of(bob)))
	assert.True(t, sm.IdentifiersAtPoint(9).Empty())

	got := sm.GapQuery(nil, ivi(9, 9))
	assert.Equal(t, []interval.Interval[int]{ivi(7, 11)}, got)
}
