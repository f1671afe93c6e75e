package patterns

import (
	"testing"

	"github.com/habitgrid/grid-engine-go/internal/engine/grid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tierUpContext(trigger grid.Position, blockType grid.BlockType, tier int) Context {
	unlocks := &StaticUnlocks{}
	unlocks.UnlockTierUp(blockType, tier)
	ctx := baseContext(trigger)
	ctx.Unlocks = unlocks
	return ctx
}

func TestTierUpRequiresUnlock(t *testing.T) {
	snap := mustSnapshot(t, []grid.Block{
		block("a", grid.BlockWork, 1, 0, 0),
		block("b", grid.BlockWork, 1, 1, 0),
		block("c", grid.BlockWork, 1, 2, 0),
	}, 6, 6)

	rec := NewTierUpRecognizer()
	assert.Empty(t, rec.Recognize(snap, baseContext(pos(1, 0))), "locked tier should yield nothing")

	found := rec.Recognize(snap, tierUpContext(pos(1, 0), grid.BlockWork, 1))
	require.Len(t, found, 1)
	assert.Equal(t, VariantTierUp, found[0].Variant)
	assert.Equal(t, PriorityTierUp, found[0].Priority)
}

func TestTierUpUnlockIsTierScoped(t *testing.T) {
	snap := mustSnapshot(t, []grid.Block{
		block("a", grid.BlockWork, 2, 0, 0),
		block("b", grid.BlockWork, 2, 1, 0),
		block("c", grid.BlockWork, 2, 2, 0),
	}, 6, 6)

	// Tier 1 unlocked, the board holds tier 2 blocks.
	found := NewTierUpRecognizer().Recognize(snap, tierUpContext(pos(1, 0), grid.BlockWork, 1))
	assert.Empty(t, found)
}

func TestTierUpAcceptsLShape(t *testing.T) {
	snap := mustSnapshot(t, []grid.Block{
		block("a", grid.BlockWork, 1, 0, 0),
		block("b", grid.BlockWork, 1, 0, 1),
		block("c", grid.BlockWork, 1, 1, 1),
	}, 6, 6)

	found := NewTierUpRecognizer().Recognize(snap, tierUpContext(pos(0, 0), grid.BlockWork, 1))
	require.Len(t, found, 1)
	assert.Equal(t, 3, found[0].Size())
}

func TestTierUpRejectsWrongComponentSizes(t *testing.T) {
	// Four connected: too many.
	four := mustSnapshot(t, []grid.Block{
		block("a", grid.BlockWork, 1, 0, 0),
		block("b", grid.BlockWork, 1, 1, 0),
		block("c", grid.BlockWork, 1, 2, 0),
		block("d", grid.BlockWork, 1, 3, 0),
	}, 6, 6)
	assert.Empty(t, NewTierUpRecognizer().Recognize(four, tierUpContext(pos(0, 0), grid.BlockWork, 1)))

	// Two connected: too few.
	two := mustSnapshot(t, []grid.Block{
		block("a", grid.BlockWork, 1, 0, 0),
		block("b", grid.BlockWork, 1, 1, 0),
	}, 6, 6)
	assert.Empty(t, NewTierUpRecognizer().Recognize(two, tierUpContext(pos(0, 0), grid.BlockWork, 1)))
}

func TestTierUpComponentsSplitByTier(t *testing.T) {
	// Three tier-1 blocks plus a connected tier-2 block: the tier-2 block
	// does not join the component, so the triple still qualifies.
	snap := mustSnapshot(t, []grid.Block{
		block("a", grid.BlockWork, 1, 0, 0),
		block("b", grid.BlockWork, 1, 1, 0),
		block("c", grid.BlockWork, 1, 2, 0),
		block("d", grid.BlockWork, 2, 3, 0),
	}, 6, 6)

	found := NewTierUpRecognizer().Recognize(snap, tierUpContext(pos(0, 0), grid.BlockWork, 1))
	require.Len(t, found, 1)
	assert.Equal(t, []grid.Position{pos(0, 0), pos(1, 0), pos(2, 0)}, found[0].Positions)
}
