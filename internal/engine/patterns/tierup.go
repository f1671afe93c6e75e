package patterns

import (
	"github.com/habitgrid/grid-engine-go/internal/engine/grid"
)

// TierUpRecognizer finds same-type, same-tier components of exactly three
// blocks, the merge that replaces them with one block of the next tier. It is
// gated per (type, tier) by the caller-supplied unlock state; once unlocked it
// outranks Match so the tier upgrades instead of clearing.
type TierUpRecognizer struct{}

// NewTierUpRecognizer returns the TierUp recognizer.
func NewTierUpRecognizer() *TierUpRecognizer {
	return &TierUpRecognizer{}
}

// Variant implements Recognizer.
func (r *TierUpRecognizer) Variant() Variant {
	return VariantTierUp
}

// Recognize implements Recognizer. Components are shape-agnostic: any
// connected arrangement qualifies, but the size must be exactly three.
// Larger or smaller components are omitted, never an error.
func (r *TierUpRecognizer) Recognize(snap *grid.Snapshot, ctx Context) []Pattern {
	var out []Pattern
	visited := make(map[grid.Position]bool, snap.Len())
	for _, pos := range snap.OccupiedPositions() {
		if visited[pos] {
			continue
		}
		seed, _ := snap.At(pos)
		if !ctx.Unlocks.IsEnabled(VariantTierUp, seed.Type, seed.Tier) {
			visited[pos] = true
			continue
		}
		component := floodFill(snap, pos, visited, func(b grid.Block) bool {
			return b.Type == seed.Type && b.Tier == seed.Tier
		})
		if len(component) != 3 {
			continue
		}
		positions, ids := memberColumns(component)
		out = append(out, Pattern{
			ID:        patternID(VariantTierUp, positions),
			Variant:   VariantTierUp,
			Priority:  PriorityTierUp,
			Positions: positions,
			MemberIDs: ids,
		})
	}
	return out
}
