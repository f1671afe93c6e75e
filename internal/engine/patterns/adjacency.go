package patterns

import (
	"github.com/habitgrid/grid-engine-go/internal/engine/grid"
)

// AdjacencyRule declares a proximity-triggered combo: a trigger-type block
// near a target-type block, within a Euclidean radius, optionally requiring a
// clear straight line between the two. Contiguity is not required.
type AdjacencyRule struct {
	Name           string
	TriggerType    grid.BlockType
	TargetType     grid.BlockType
	MaxDistance    float64
	LineOfSight    bool
	ConsumesTarget bool
	Reward         int64
}

// AdjacencyRecognizer evaluates proximity rules against the block at the
// pass's trigger position. Scoping the scan to the trigger keeps the combo
// tied to the action that caused it; a rule that kept re-firing on an
// unchanged board would stall every chain into cycle detection.
type AdjacencyRecognizer struct {
	rules []AdjacencyRule
}

// NewAdjacencyRecognizer returns an Adjacency recognizer over the given rule
// set. Rules are evaluated in declaration order.
func NewAdjacencyRecognizer(rules []AdjacencyRule) *AdjacencyRecognizer {
	return &AdjacencyRecognizer{rules: rules}
}

// Variant implements Recognizer.
func (r *AdjacencyRecognizer) Variant() Variant {
	return VariantAdjacency
}

// Recognize implements Recognizer. Combos are evaluated once, on the pass
// the player action starts; cascade passes never re-fire them. Each rule
// claims at most one target (the nearest, lowest position on ties), and a
// target claimed by one rule is not reused by another in the same pass.
func (r *AdjacencyRecognizer) Recognize(snap *grid.Snapshot, ctx Context) []Pattern {
	if ctx.Depth != 1 {
		return nil
	}
	trigger, ok := snap.At(ctx.Trigger)
	if !ok {
		return nil
	}
	var out []Pattern
	claimed := make(map[grid.Position]bool)
	for _, rule := range r.rules {
		if rule.TriggerType != trigger.Type {
			continue
		}
		if !ctx.Unlocks.IsEnabled(VariantAdjacency, rule.TriggerType, 0) {
			continue
		}
		target, found := r.nearestTarget(snap, trigger.Pos, rule, claimed)
		if !found {
			continue
		}
		positions := grid.SortPositions([]grid.Position{trigger.Pos, target.Pos})
		ids := make([]string, len(positions))
		for i, pos := range positions {
			blk, _ := snap.At(pos)
			ids[i] = blk.ID
		}
		out = append(out, Pattern{
			ID:             patternID(VariantAdjacency, positions),
			Variant:        VariantAdjacency,
			Priority:       PriorityAdjacency,
			Positions:      positions,
			MemberIDs:      ids,
			TriggerPos:     trigger.Pos,
			TargetPos:      target.Pos,
			TargetType:     target.Type,
			ConsumesTarget: rule.ConsumesTarget,
			RewardAmount:   rule.Reward,
		})
		claimed[target.Pos] = true
	}
	return out
}

// nearestTarget picks the closest unclaimed target-type block within range,
// breaking distance ties by lowest position. InRadius returns blocks sorted
// by position, so the first strictly-closer hit wins deterministically.
func (r *AdjacencyRecognizer) nearestTarget(snap *grid.Snapshot, from grid.Position, rule AdjacencyRule, claimed map[grid.Position]bool) (grid.Block, bool) {
	var best grid.Block
	bestDist := rule.MaxDistance + 1
	found := false
	for _, blk := range snap.InRadius(from, rule.MaxDistance) {
		if blk.Type != rule.TargetType || claimed[blk.Pos] {
			continue
		}
		if rule.LineOfSight && !hasLineOfSight(snap, from, blk.Pos) {
			continue
		}
		dist := from.DistanceTo(blk.Pos)
		if !found || dist < bestDist {
			best = blk
			bestDist = dist
			found = true
		}
	}
	return best, found
}

// hasLineOfSight walks the Bresenham line between the endpoints and reports
// whether every intermediate cell is empty.
func hasLineOfSight(snap *grid.Snapshot, from, to grid.Position) bool {
	x0, y0 := from.X, from.Y
	x1, y1 := to.X, to.Y
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx := sign(x1 - x0)
	sy := sign(y1 - y0)
	errAcc := dx + dy
	x, y := x0, y0
	for {
		if x == x1 && y == y1 {
			return true
		}
		e2 := 2 * errAcc
		if e2 >= dy {
			errAcc += dy
			x += sx
		}
		if e2 <= dx {
			errAcc += dx
			y += sy
		}
		if x == x1 && y == y1 {
			return true
		}
		if _, occupied := snap.At(grid.Position{X: x, Y: y}); occupied {
			return false
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}
