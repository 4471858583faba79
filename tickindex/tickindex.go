// Package tickindex implements the TickIndex container from spec.md §4.2:
// a strictly-ordered, unique-by-tick store supporting binary search and a
// merge-preserving InsertMany.
package tickindex

import (
	"math/big"
	"sort"
)

// Tick is an integer tick optionally carrying a known liquidity_net delta.
// Known discriminates the spec's Option: false means "initialized per
// bitmap, net-delta not yet fetched".
type Tick struct {
	Tick         int64
	LiquidityNet *big.Int
	Known        bool
}

// TickIndex is a strictly increasing, duplicate-free slice of Tick keyed by
// Tick.Tick. All stored ticks are multiples of the pool's tick spacing.
type TickIndex struct {
	ticks []Tick
}

// New returns an empty TickIndex.
func New() *TickIndex {
	return &TickIndex{}
}

// Len returns the number of stored ticks.
func (idx *TickIndex) Len() int {
	return len(idx.ticks)
}

// Get returns the tick at position i.
func (idx *TickIndex) Get(i int) Tick {
	return idx.ticks[i]
}

// All returns the underlying slice directly; callers must not mutate it.
func (idx *TickIndex) All() []Tick {
	return idx.ticks
}

// BinarySearch returns (index, true) if tick is present, or (insertionPoint,
// false) if not — the insertion point being where tick would be inserted to
// keep the slice sorted.
func (idx *TickIndex) BinarySearch(tick int64) (int, bool) {
	n := len(idx.ticks)
	i := sort.Search(n, func(i int) bool { return idx.ticks[i].Tick >= tick })
	if i < n && idx.ticks[i].Tick == tick {
		return i, true
	}
	return i, false
}

// richer returns whichever of existing and candidate survives a merge: a
// Tick with a known liquidity_net dominates one without, and existing wins
// a tie.
func richer(existing, candidate Tick) Tick {
	if !existing.Known && candidate.Known {
		return candidate
	}
	return existing
}

// InsertMany merges new ticks into the index, preserving order and
// uniqueness by Tick.Tick. On a collision, the richer record (the one with
// a known liquidity_net) wins, so bitmap-discovered ticks can later be
// promoted to net-known ticks without losing their position.
func (idx *TickIndex) InsertMany(ticks []Tick) {
	for _, t := range ticks {
		i, found := idx.BinarySearch(t.Tick)
		if found {
			idx.ticks[i] = richer(idx.ticks[i], t)
			continue
		}
		idx.ticks = append(idx.ticks, Tick{})
		copy(idx.ticks[i+1:], idx.ticks[i:])
		idx.ticks[i] = t
	}
}
