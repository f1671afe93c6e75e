package engine

import (
	"testing"

	"github.com/habitgrid/grid-engine-go/internal/engine/grid"
)

func mustSnapshot(t *testing.T, blocks []grid.Block, width, height int) *grid.Snapshot {
	t.Helper()
	snap, err := grid.NewSnapshot(blocks, grid.Bounds{Width: width, Height: height})
	if err != nil {
		t.Fatalf("failed to build snapshot: %v", err)
	}
	return snap
}

func block(id string, blockType grid.BlockType, tier, x, y int) grid.Block {
	return grid.Block{ID: id, Type: blockType, Tier: tier, Pos: grid.Position{X: x, Y: y}}
}

func pos(x, y int) grid.Position {
	return grid.Position{X: x, Y: y}
}
