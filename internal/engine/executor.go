package engine

import (
	"fmt"
	"math"

	"github.com/google/uuid"
	"github.com/habitgrid/grid-engine-go/internal/engine/grid"
	"github.com/habitgrid/grid-engine-go/internal/engine/patterns"
)

// Executor converts one accepted pattern into a PatternOutcome against the
// snapshot it was detected on. Execution is all-or-nothing: on any defect an
// error is returned and no partial outcome escapes.
type Executor struct {
	rewards *RewardTable
}

// NewExecutor builds an executor over the given reward table.
func NewExecutor(rewards *RewardTable) *Executor {
	return &Executor{rewards: rewards}
}

// Execute transforms the pattern. The variant switch is exhaustive over the
// closed set; an unknown variant is a defect, not a fallthrough.
func (e *Executor) Execute(p patterns.Pattern, snap *grid.Snapshot, ctx patterns.Context) (PatternOutcome, error) {
	members, err := e.members(p, snap)
	if err != nil {
		return PatternOutcome{}, err
	}

	out := PatternOutcome{
		PatternID: p.ID,
		Variant:   p.Variant,
		Depth:     ctx.Depth,
		Rewards:   make(RewardLedger),
	}

	switch p.Variant {
	case patterns.VariantMatch:
		if len(members) < 3 {
			return PatternOutcome{}, fmt.Errorf("match of %d members: %w", len(members), ErrInvalidPatternShape)
		}
		out.Removed = p.Positions
		bonus := patterns.MatchSizeBonus(len(members))
		// Sum base values per type before applying the size bonus, so a
		// match of N uniform blocks pays exactly base*N*bonus*3^(tier-1)
		// with a single rounding per type.
		base := make(map[grid.BlockType]int64, 1)
		for _, blk := range members {
			base[blk.Type] += e.rewards.BaseValue(blk.Type) * tierMultiplier(blk.Tier)
		}
		for blockType, total := range base {
			out.Rewards.Add(blockType, int64(math.Round(float64(total)*bonus)))
		}

	case patterns.VariantTierUp:
		if len(members) != 3 {
			return PatternOutcome{}, fmt.Errorf("tier-up of %d members: %w", len(members), ErrInvalidPatternShape)
		}
		seed := members[0]
		for _, blk := range members[1:] {
			if blk.Type != seed.Type || blk.Tier != seed.Tier {
				return PatternOutcome{}, fmt.Errorf("tier-up members differ in type or tier: %w", ErrInvalidPatternShape)
			}
		}
		out.Removed = p.Positions
		spawnPos := p.Positions[0]
		if p.Contains(ctx.Trigger) {
			spawnPos = ctx.Trigger
		}
		out.Spawned = []grid.SpawnedBlock{
			spawnBlock(spawnPos, seed.Type, seed.Tier+1, ctx.Depth),
		}

	case patterns.VariantTransmute:
		if len(members) != 3 {
			return PatternOutcome{}, fmt.Errorf("transmute of %d members: %w", len(members), ErrInvalidPatternShape)
		}
		if !p.Contains(p.SpawnPos) {
			return PatternOutcome{}, fmt.Errorf("transmute anchor %s outside members: %w", p.SpawnPos, ErrInvalidPatternShape)
		}
		minTier := members[0].Tier
		for _, blk := range members[1:] {
			if blk.Tier < minTier {
				minTier = blk.Tier
			}
		}
		out.Removed = p.Positions
		out.Spawned = []grid.SpawnedBlock{
			spawnBlock(p.SpawnPos, p.OutputType, minTier, ctx.Depth),
		}

	case patterns.VariantAdjacency:
		if len(members) != 2 {
			return PatternOutcome{}, fmt.Errorf("adjacency of %d members: %w", len(members), ErrInvalidPatternShape)
		}
		if p.ConsumesTarget {
			out.Removed = []grid.Position{p.TargetPos}
		}
		out.Rewards.Add(p.TargetType, p.RewardAmount)

	default:
		return PatternOutcome{}, fmt.Errorf("variant %q: %w", p.Variant, ErrInvalidPatternShape)
	}

	return out, nil
}

// members resolves every claimed position to its block, enforcing the
// executor's defensive occupancy check.
func (e *Executor) members(p patterns.Pattern, snap *grid.Snapshot) ([]grid.Block, error) {
	if len(p.Positions) == 0 {
		return nil, fmt.Errorf("pattern %s has no positions: %w", p.ID, ErrInvalidPatternShape)
	}
	members := make([]grid.Block, 0, len(p.Positions))
	for _, pos := range p.Positions {
		blk, ok := snap.At(pos)
		if !ok {
			return nil, fmt.Errorf("pattern %s at %s: %w", p.ID, pos, ErrConflict)
		}
		members = append(members, blk)
	}
	return members, nil
}

// spawnBlock creates a spawned block with a deterministic ID so two runs of
// the same chain produce bit-identical results.
func spawnBlock(pos grid.Position, blockType grid.BlockType, tier, depth int) grid.SpawnedBlock {
	seed := fmt.Sprintf("spawn|%d,%d|%s|%d|%d", pos.X, pos.Y, blockType, tier, depth)
	return grid.SpawnedBlock{
		ID:   uuid.NewSHA1(uuid.NameSpaceOID, []byte(seed)).String(),
		Type: blockType,
		Tier: tier,
		Pos:  pos,
	}
}
