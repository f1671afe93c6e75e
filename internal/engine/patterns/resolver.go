package patterns

import (
	"sort"

	"github.com/habitgrid/grid-engine-go/internal/engine/grid"
)

// ResolveOptions configures conflict resolution for one pass.
type ResolveOptions struct {
	// AdjacencyOverlap permits reward-only Adjacency candidates to overlap
	// shape patterns (Match, TierUp, Transmute). Adjacency represents
	// proximity, not exclusive occupation, so this is the default game
	// mode; accepted Adjacency candidates still stay disjoint from each
	// other, and a consuming rule always joins the global pool because its
	// target cell really is contested occupation.
	AdjacencyOverlap bool
}

// Resolve selects the surviving patterns out of all candidates for a pass.
// Candidates are considered in priority descending order, ties broken by
// larger member count then lowest anchor position, and accepted greedily: a
// candidate survives only if its position set is disjoint from every
// already-accepted candidate's, otherwise it is discarded whole.
// Greedy-by-priority trades the theoretically maximal pattern count for
// near-linear time and the guarantee that higher-priority mechanics always
// win contested blocks.
//
// The returned slice is in execution order: priority descending, then anchor
// ascending. Member count decides acceptance ties only, not execution order.
func Resolve(candidates []Pattern, opts ResolveOptions) []Pattern {
	if len(candidates) == 0 {
		return nil
	}
	ordered := make([]Pattern, len(candidates))
	copy(ordered, candidates)
	sort.SliceStable(ordered, func(i, j int) bool {
		a, b := ordered[i], ordered[j]
		if a.Priority != b.Priority {
			return a.Priority > b.Priority
		}
		if a.Size() != b.Size() {
			return a.Size() > b.Size()
		}
		if a.Anchor() != b.Anchor() {
			return a.Anchor().Less(b.Anchor())
		}
		return a.ID < b.ID
	})

	var accepted []Pattern
	shapeClaimed := make(map[grid.Position]bool)
	adjacencyClaimed := make(map[grid.Position]bool)
	for _, cand := range ordered {
		pool := shapeClaimed
		if opts.AdjacencyOverlap && cand.Variant == VariantAdjacency && !cand.ConsumesTarget {
			pool = adjacencyClaimed
		}
		if overlaps(cand.Positions, pool) {
			continue
		}
		for _, pos := range cand.Positions {
			pool[pos] = true
		}
		accepted = append(accepted, cand)
	}
	sort.SliceStable(accepted, func(i, j int) bool {
		a, b := accepted[i], accepted[j]
		if a.Priority != b.Priority {
			return a.Priority > b.Priority
		}
		if a.Anchor() != b.Anchor() {
			return a.Anchor().Less(b.Anchor())
		}
		return a.ID < b.ID
	})
	return accepted
}

func overlaps(positions []grid.Position, claimed map[grid.Position]bool) bool {
	for _, pos := range positions {
		if claimed[pos] {
			return true
		}
	}
	return false
}
