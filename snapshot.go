package gapquery

import (
	"cmp"
	"slices"

	"github.com/go-errors/errors"
	"gopkg.in/yaml.v3"

	"github.com/ripytide/gap-query-interval-tree/idset"
	"github.com/ripytide/gap-query-interval-tree/interval"
	"github.com/ripytide/gap-query-interval-tree/internal/rangemap"
)

// Snapshot is the optional persisted layout from the package-level spec:
// a sequence of (start, end, sorted identifiers) triples that cover
// [Min, Max] exactly once, without gap or overlap.
type Snapshot[T any, D any] struct {
	Segments []SnapshotSegment[T, D] `yaml:"segments"`
}

// SnapshotSegment is one entry of a Snapshot.
type SnapshotSegment[T any, D any] struct {
	Start       T   `yaml:"start"`
	End         T   `yaml:"end"`
	Identifiers []D `yaml:"identifiers"`
}

// ToSnapshot serializes sm into its persisted triple-list form. D must be
// cmp.Ordered so identifiers within a segment can be written out in a
// deterministic order; SegmentedMap itself carries no such constraint, so
// this is a free function rather than a method with a tighter receiver
// constraint than the type declares.
func ToSnapshot[T any, D cmp.Ordered](sm *SegmentedMap[T, D]) Snapshot[T, D] {
	segs := sm.segments()
	out := Snapshot[T, D]{Segments: make([]SnapshotSegment[T, D], len(segs))}
	for i, seg := range segs {
		ids := seg.Value.Slice()
		slices.Sort(ids)
		out.Segments[i] = SnapshotSegment[T, D]{Start: seg.Interval.Start, End: seg.Interval.End, Identifiers: ids}
	}
	return out
}

// MarshalYAML renders snap using the corpus's YAML library.
func MarshalYAML[T any, D any](snap Snapshot[T, D]) ([]byte, error) {
	data, err := yaml.Marshal(snap)
	if err != nil {
		return nil, errors.Wrap(err, 0)
	}
	return data, nil
}

// FromSnapshot reconstructs a SegmentedMap from snap, re-validating I1–I3
// as spec.md §7 requires of a deserializer boundary. A violation is
// reported as a typed *errors.Error carrying a stack trace, never as a
// panic — unlike every other failure path in this package, this one is
// caller-reachable, since the data crossing this boundary may not have
// come from a prior well-behaved SegmentedMap.
func FromSnapshot[T any, D comparable](dom interval.Domain[T], snap Snapshot[T, D]) (*SegmentedMap[T, D], error) {
	if len(snap.Segments) == 0 {
		return nil, errors.Errorf("gapquery: snapshot has no segments")
	}

	sm := &SegmentedMap[T, D]{dom: dom, m: rangemap.New[T, idset.Set[D]](dom)}

	first := snap.Segments[0]
	if dom.Compare(first.Start, dom.Min()) != 0 {
		return nil, errors.Errorf("gapquery: snapshot's first segment starts at %v, want domain minimum", first.Start)
	}

	var prevEnd T
	var prevIDs idset.Set[D]
	for i, seg := range snap.Segments {
		iv := interval.Interval[T]{Start: seg.Start, End: seg.End}
		if dom.Compare(iv.Start, iv.End) > 0 {
			return nil, errors.Errorf("gapquery: snapshot segment %d has start %v after end %v", i, iv.Start, iv.End)
		}
		if i > 0 {
			if dom.Compare(prevEnd, dom.Max()) == 0 || dom.Compare(dom.Succ(prevEnd), iv.Start) != 0 {
				return nil, errors.Errorf("gapquery: snapshot segment %d at %v does not abut the previous segment ending at %v", i, iv.Start, prevEnd)
			}
		}

		ids := idset.Of(seg.Identifiers...)
		if i > 0 && prevIDs.Equal(ids) {
			return nil, errors.Errorf("gapquery: snapshot segments %d and %d carry equal identifier sets and should have been coalesced", i-1, i)
		}

		sm.m.InsertStrict(iv, ids)
		prevEnd, prevIDs = iv.End, ids
	}

	if dom.Compare(prevEnd, dom.Max()) != 0 {
		return nil, errors.Errorf("gapquery: snapshot's last segment ends at %v, want domain maximum", prevEnd)
	}

	return sm, nil
}

// FromSnapshotYAML parses data as YAML into a Snapshot and reconstructs a
// SegmentedMap from it via FromSnapshot.
func FromSnapshotYAML[T any, D comparable](dom interval.Domain[T], data []byte) (*SegmentedMap[T, D], error) {
	var snap Snapshot[T, D]
	if err := yaml.Unmarshal(data, &snap); err != nil {
		return nil, errors.Wrap(err, 0)
	}
	return FromSnapshot(dom, snap)
}
