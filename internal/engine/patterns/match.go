package patterns

import (
	"github.com/habitgrid/grid-engine-go/internal/engine/grid"
)

// MatchRecognizer finds orthogonally-connected same-type components of size
// three or more: the baseline clearing mechanic.
type MatchRecognizer struct{}

// NewMatchRecognizer returns the Match recognizer.
func NewMatchRecognizer() *MatchRecognizer {
	return &MatchRecognizer{}
}

// Variant implements Recognizer.
func (r *MatchRecognizer) Variant() Variant {
	return VariantMatch
}

// Recognize implements Recognizer. The visited set guarantees no block
// appears in two components within one pass; undersized components are
// silently omitted.
func (r *MatchRecognizer) Recognize(snap *grid.Snapshot, ctx Context) []Pattern {
	var out []Pattern
	visited := make(map[grid.Position]bool, snap.Len())
	for _, pos := range snap.OccupiedPositions() {
		if visited[pos] {
			continue
		}
		seed, _ := snap.At(pos)
		if !ctx.Unlocks.IsEnabled(VariantMatch, seed.Type, seed.Tier) {
			visited[pos] = true
			continue
		}
		component := floodFill(snap, pos, visited, func(b grid.Block) bool {
			return b.Type == seed.Type
		})
		if len(component) < 3 {
			continue
		}
		positions, ids := memberColumns(component)
		out = append(out, Pattern{
			ID:        patternID(VariantMatch, positions),
			Variant:   VariantMatch,
			Priority:  PriorityMatch,
			Positions: positions,
			MemberIDs: ids,
		})
	}
	return out
}

// MatchSizeBonus returns the reward multiplier earned by a match of n blocks.
func MatchSizeBonus(n int) float64 {
	switch {
	case n >= 6:
		return 3.0
	case n == 5:
		return 2.0
	case n == 4:
		return 1.5
	default:
		return 1.0
	}
}

// floodFill collects the 4-connected component of blocks accepted by the
// predicate, starting at seed. Every visited cell is recorded in visited,
// including the seed, so callers can scan the board without re-walking
// components.
func floodFill(snap *grid.Snapshot, seed grid.Position, visited map[grid.Position]bool, accept func(grid.Block) bool) []grid.Block {
	seedBlock, ok := snap.At(seed)
	if !ok || !accept(seedBlock) {
		return nil
	}
	visited[seed] = true
	component := []grid.Block{seedBlock}
	frontier := []grid.Position{seed}
	for len(frontier) > 0 {
		pos := frontier[0]
		frontier = frontier[1:]
		for _, n := range pos.Neighbors4() {
			if visited[n] {
				continue
			}
			blk, occupied := snap.At(n)
			if !occupied || !accept(blk) {
				continue
			}
			visited[n] = true
			component = append(component, blk)
			frontier = append(frontier, n)
		}
	}
	return component
}
