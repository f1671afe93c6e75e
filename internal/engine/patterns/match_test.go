package patterns

import (
	"testing"

	"github.com/habitgrid/grid-engine-go/internal/engine/grid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatchRecognizesHorizontalTriple(t *testing.T) {
	snap := mustSnapshot(t, []grid.Block{
		block("a", grid.BlockWork, 1, 0, 0),
		block("b", grid.BlockWork, 1, 1, 0),
		block("c", grid.BlockWork, 1, 2, 0),
	}, 6, 6)

	found := NewMatchRecognizer().Recognize(snap, baseContext(pos(1, 0)))
	require.Len(t, found, 1)
	p := found[0]
	assert.Equal(t, VariantMatch, p.Variant)
	assert.Equal(t, PriorityMatch, p.Priority)
	assert.Equal(t, []grid.Position{pos(0, 0), pos(1, 0), pos(2, 0)}, p.Positions)
	assert.Equal(t, []string{"a", "b", "c"}, p.MemberIDs)
	assert.Equal(t, pos(0, 0), p.Anchor())
}

func TestMatchIgnoresUndersizedAndDisconnected(t *testing.T) {
	snap := mustSnapshot(t, []grid.Block{
		block("a", grid.BlockWork, 1, 0, 0),
		block("b", grid.BlockWork, 1, 1, 0),
		// Same type but disconnected from the pair.
		block("c", grid.BlockWork, 1, 3, 3),
		// Diagonal adjacency does not connect.
		block("d", grid.BlockWork, 1, 2, 1),
	}, 6, 6)

	found := NewMatchRecognizer().Recognize(snap, baseContext(pos(0, 0)))
	assert.Empty(t, found)
}

func TestMatchStableBoardIsIdempotentlyEmpty(t *testing.T) {
	snap := mustSnapshot(t, []grid.Block{
		block("a", grid.BlockWork, 1, 0, 0),
		block("b", grid.BlockStudy, 1, 1, 0),
		block("c", grid.BlockWork, 1, 2, 0),
	}, 6, 6)

	rec := NewMatchRecognizer()
	for i := 0; i < 3; i++ {
		assert.Empty(t, rec.Recognize(snap, baseContext(pos(0, 0))))
	}
}

func TestMatchMixedTiersStillMatchByType(t *testing.T) {
	snap := mustSnapshot(t, []grid.Block{
		block("a", grid.BlockWork, 1, 0, 0),
		block("b", grid.BlockWork, 2, 1, 0),
		block("c", grid.BlockWork, 1, 2, 0),
	}, 6, 6)

	found := NewMatchRecognizer().Recognize(snap, baseContext(pos(0, 0)))
	require.Len(t, found, 1)
	assert.Equal(t, 3, found[0].Size())
}

func TestMatchNoBlockAppearsTwiceInOnePass(t *testing.T) {
	// A plus-shaped component of five blocks is one candidate, not several
	// overlapping ones.
	snap := mustSnapshot(t, []grid.Block{
		block("a", grid.BlockWork, 1, 1, 0),
		block("b", grid.BlockWork, 1, 0, 1),
		block("c", grid.BlockWork, 1, 1, 1),
		block("d", grid.BlockWork, 1, 2, 1),
		block("e", grid.BlockWork, 1, 1, 2),
	}, 6, 6)

	found := NewMatchRecognizer().Recognize(snap, baseContext(pos(1, 1)))
	require.Len(t, found, 1)
	assert.Equal(t, 5, found[0].Size())
}

func TestMatchSizeBonus(t *testing.T) {
	assert.Equal(t, 1.0, MatchSizeBonus(3))
	assert.Equal(t, 1.5, MatchSizeBonus(4))
	assert.Equal(t, 2.0, MatchSizeBonus(5))
	assert.Equal(t, 3.0, MatchSizeBonus(6))
	assert.Equal(t, 3.0, MatchSizeBonus(9))
}
