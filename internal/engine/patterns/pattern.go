package patterns

import (
	"bytes"
	"fmt"

	"github.com/google/uuid"
	"github.com/habitgrid/grid-engine-go/internal/engine/grid"
)

// Variant identifies the kind of a pattern. The set is closed; the executor
// switches over it exhaustively and treats anything else as a defect.
type Variant string

const (
	VariantMatch     Variant = "MATCH"
	VariantTierUp    Variant = "TIER_UP"
	VariantTransmute Variant = "TRANSMUTE"
	VariantAdjacency Variant = "ADJACENCY"
)

// Resolver priorities per variant. Higher wins contested positions; once a
// tier-up is unlocked for a tier, that tier no longer clears via Match.
const (
	PriorityMatch     = 10
	PriorityTierUp    = 20
	PriorityTransmute = 30
	PriorityAdjacency = 40
)

// Pattern is one candidate transformation detected against a snapshot. It is
// a pass-scoped value object: created by a recognizer, filtered by the
// resolver, consumed by the executor, then discarded.
type Pattern struct {
	ID        string
	Variant   Variant
	Priority  int
	Positions []grid.Position // sorted ascending, distinct, in-bounds
	MemberIDs []string        // block IDs in Positions order

	// Transmute only: recipe output and its declared landing cell.
	OutputType grid.BlockType
	SpawnPos   grid.Position

	// Adjacency only.
	TriggerPos     grid.Position
	TargetPos      grid.Position
	TargetType     grid.BlockType
	ConsumesTarget bool
	RewardAmount   int64
}

// Anchor returns the pattern's lowest position, the deterministic tie-break
// anchor used by the resolver and the executor ordering.
func (p Pattern) Anchor() grid.Position {
	return p.Positions[0]
}

// Size returns the number of member positions.
func (p Pattern) Size() int {
	return len(p.Positions)
}

// Contains reports whether the pattern claims the given position.
func (p Pattern) Contains(pos grid.Position) bool {
	return grid.ContainsPosition(p.Positions, pos)
}

// patternID derives a stable UUID for a candidate from its variant and
// claimed positions. Recognition must be reproducible bit-for-bit, so IDs are
// content-addressed rather than random.
func patternID(variant Variant, positions []grid.Position) string {
	var buf bytes.Buffer
	buf.WriteString(string(variant))
	for _, pos := range positions {
		fmt.Fprintf(&buf, "|%d,%d", pos.X, pos.Y)
	}
	return uuid.NewSHA1(uuid.NameSpaceOID, buf.Bytes()).String()
}

// memberColumns extracts sorted positions and matching block IDs from a
// component of blocks.
func memberColumns(blocks []grid.Block) ([]grid.Position, []string) {
	positions := make([]grid.Position, len(blocks))
	for i, blk := range blocks {
		positions[i] = blk.Pos
	}
	grid.SortPositions(positions)
	byPos := make(map[grid.Position]string, len(blocks))
	for _, blk := range blocks {
		byPos[blk.Pos] = blk.ID
	}
	ids := make([]string, len(positions))
	for i, pos := range positions {
		ids[i] = byPos[pos]
	}
	return positions, ids
}

// Recognizer detects candidate patterns on a snapshot. Implementations are
// pure and deterministic: identical (snapshot, context) inputs must produce
// identical output, with no side effects and no package-level state.
type Recognizer interface {
	// Variant reports the single pattern kind this recognizer produces.
	Variant() Variant

	// Recognize scans the snapshot and returns zero or more candidates.
	// "Nothing found" is an empty result, never an error.
	Recognize(snap *grid.Snapshot, ctx Context) []Pattern
}
