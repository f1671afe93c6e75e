package boardfile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/habitgrid/grid-engine-go/internal/engine/grid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleBoard = `
width: 4
height: 3
blocks:
  - {x: 0, y: 0, type: work}
  - {x: 1, y: 0, type: work, tier: 2}
  - {x: 2, y: 1, type: social}
`

func TestParseAndSnapshot(t *testing.T) {
	board, err := Parse([]byte(sampleBoard))
	require.NoError(t, err)
	assert.Equal(t, 4, board.Width)
	assert.Equal(t, 3, board.Height)
	require.Len(t, board.Blocks, 3)

	snap, err := board.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, 3, snap.Len())

	first, ok := snap.At(grid.Position{X: 0, Y: 0})
	require.True(t, ok)
	assert.Equal(t, grid.BlockWork, first.Type)
	assert.Equal(t, 1, first.Tier, "tier defaults to 1")

	second, ok := snap.At(grid.Position{X: 1, Y: 0})
	require.True(t, ok)
	assert.Equal(t, 2, second.Tier)
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "board.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleBoard), 0644))

	board, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, board.Blocks, 3)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestParseRejectsBadInput(t *testing.T) {
	cases := map[string]string{
		"not yaml":       "{{{{",
		"missing bounds": "blocks: []",
		"zero width":     "width: 0\nheight: 3",
	}
	for name, input := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(input))
			assert.Error(t, err)
		})
	}
}

func TestSnapshotRejectsUnknownTypeAndOutOfBounds(t *testing.T) {
	board, err := Parse([]byte("width: 2\nheight: 2\nblocks:\n  - {x: 0, y: 0, type: chores}\n"))
	require.NoError(t, err)
	_, err = board.Snapshot()
	assert.Error(t, err)

	board, err = Parse([]byte("width: 2\nheight: 2\nblocks:\n  - {x: 5, y: 0, type: work}\n"))
	require.NoError(t, err)
	_, err = board.Snapshot()
	assert.Error(t, err)
}
