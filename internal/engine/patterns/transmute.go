package patterns

import (
	"github.com/habitgrid/grid-engine-go/internal/engine/grid"
)

// TransmuteRecognizer finds triples of three distinct-type blocks matching a
// declared recipe, producing one block of the recipe's output type. Unknown
// type combinations yield no pattern; they are not an error.
type TransmuteRecognizer struct{}

// NewTransmuteRecognizer returns the Transmute recognizer.
func NewTransmuteRecognizer() *TransmuteRecognizer {
	return &TransmuteRecognizer{}
}

// Variant implements Recognizer.
func (r *TransmuteRecognizer) Variant() Variant {
	return VariantTransmute
}

// Recognize implements Recognizer. Every connected triple has at least one
// member adjacent to the other two, so enumeration walks each occupied cell
// as a candidate center with ordered pairs of its occupied neighbors. A
// claimed set keeps any block out of two transmutes in the same pass.
func (r *TransmuteRecognizer) Recognize(snap *grid.Snapshot, ctx Context) []Pattern {
	if ctx.Recipes == nil {
		return nil
	}
	var out []Pattern
	claimed := make(map[grid.Position]bool)
	emitted := make(map[string]bool)
	for _, center := range snap.OccupiedPositions() {
		if claimed[center] {
			continue
		}
		centerBlock, _ := snap.At(center)
		neighbors := snap.Neighbors4(center)
		for i := 0; i < len(neighbors); i++ {
			for j := i + 1; j < len(neighbors); j++ {
				a, b := neighbors[i], neighbors[j]
				if claimed[a.Pos] || claimed[b.Pos] || claimed[center] {
					continue
				}
				if !distinctTypes(centerBlock.Type, a.Type, b.Type) {
					continue
				}
				recipe, ok := ctx.Recipes.RecipeFor([]grid.BlockType{centerBlock.Type, a.Type, b.Type})
				if !ok {
					continue
				}
				if !ctx.Unlocks.IsEnabled(VariantTransmute, recipe.Output, 0) {
					continue
				}
				if recipe.Shape == ShapeLine && !colinear(a.Pos, center, b.Pos) {
					continue
				}
				positions, ids := memberColumns([]grid.Block{centerBlock, a, b})
				id := patternID(VariantTransmute, positions)
				if emitted[id] {
					continue
				}
				spawnPos := positions[0]
				if recipe.Anchor == AnchorCenter {
					spawnPos = center
				}
				out = append(out, Pattern{
					ID:         id,
					Variant:    VariantTransmute,
					Priority:   PriorityTransmute,
					Positions:  positions,
					MemberIDs:  ids,
					OutputType: recipe.Output,
					SpawnPos:   spawnPos,
				})
				emitted[id] = true
				claimed[center] = true
				claimed[a.Pos] = true
				claimed[b.Pos] = true
			}
		}
	}
	return out
}

func distinctTypes(a, b, c grid.BlockType) bool {
	return a != b && a != c && b != c
}

// colinear reports whether the three positions form a straight contiguous
// line with center in the middle.
func colinear(a, center, b grid.Position) bool {
	sameColumn := a.X == center.X && b.X == center.X
	sameRow := a.Y == center.Y && b.Y == center.Y
	return sameColumn || sameRow
}
