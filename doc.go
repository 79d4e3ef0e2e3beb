// Package gapquery provides a gap-query optimized interval tree: an
// ordered container that maintains, for each of many independent
// identifiers, a set of closed integer intervals, and answers the dual
// question of where the maximally extended gaps (unoccupied regions) are,
// either globally or from one identifier's vantage.
//
// There are three cooperating types. SegmentedMap is the primary,
// performant representation: a gapless partition of the whole domain into
// abutting segments, each tagged with the set of identifiers occupying
// it. NaiveMap is a reference representation — one coalesced range-set
// per identifier — used only to oracle SegmentedMap in tests.
// EqualityHarness wraps one of each and asserts, after every mutation,
// that projecting the SegmentedMap down to per-identifier range-sets
// yields the NaiveMap.
//
// Insertion, cutting, and global gap queries are O(log N + K), where N is
// the number of stored segments and K is the number of segments actually
// touched. An identifier-relative gap query is O(N): to extend its end
// gaps it materializes every segment from the window's start down to the
// domain minimum and from the window's end up to the domain maximum.
package gapquery
