// Package boardfile loads YAML board fixtures for the simulator and tests.
package boardfile

import (
	"fmt"
	"os"

	"github.com/habitgrid/grid-engine-go/internal/engine/grid"
	"gopkg.in/yaml.v3"
)

// Board is the on-disk layout of a starting board.
type Board struct {
	Width  int          `yaml:"width"`
	Height int          `yaml:"height"`
	Blocks []BoardBlock `yaml:"blocks"`
}

// BoardBlock is one block entry. Tier defaults to 1 when omitted.
type BoardBlock struct {
	X    int    `yaml:"x"`
	Y    int    `yaml:"y"`
	Type string `yaml:"type"`
	Tier int    `yaml:"tier"`
}

// Load reads and parses a board fixture file.
func Load(path string) (*Board, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read board file: %w", err)
	}
	return Parse(data)
}

// Parse decodes board YAML.
func Parse(data []byte) (*Board, error) {
	var board Board
	if err := yaml.Unmarshal(data, &board); err != nil {
		return nil, fmt.Errorf("failed to parse board file: %w", err)
	}
	if board.Width <= 0 || board.Height <= 0 {
		return nil, fmt.Errorf("board must declare positive width and height, got %dx%d", board.Width, board.Height)
	}
	return &board, nil
}

// Snapshot converts the fixture into a grid snapshot, assigning sequential
// block IDs.
func (b *Board) Snapshot() (*grid.Snapshot, error) {
	blocks := make([]grid.Block, 0, len(b.Blocks))
	for i, bb := range b.Blocks {
		blockType, err := grid.ParseBlockType(bb.Type)
		if err != nil {
			return nil, fmt.Errorf("block %d: %w", i, err)
		}
		tier := bb.Tier
		if tier == 0 {
			tier = 1
		}
		blocks = append(blocks, grid.Block{
			ID:   fmt.Sprintf("board-%d", i),
			Type: blockType,
			Tier: tier,
			Pos:  grid.Position{X: bb.X, Y: bb.Y},
		})
	}
	return grid.NewSnapshot(blocks, grid.Bounds{Width: b.Width, Height: b.Height})
}
