package grid

import "fmt"

// BlockType represents the kind of a block. The set is closed: gameplay rules
// switch over it exhaustively and unknown values are rejected at the edges.
type BlockType string

const (
	BlockWork   BlockType = "work"
	BlockStudy  BlockType = "study"
	BlockHealth BlockType = "health"
	BlockPlay   BlockType = "play"
	BlockSocial BlockType = "social"
)

// BlockTypes returns all valid block types in declaration order.
func BlockTypes() []BlockType {
	return []BlockType{BlockWork, BlockStudy, BlockHealth, BlockPlay, BlockSocial}
}

// ParseBlockType converts external input (config files, board fixtures) into
// a BlockType, rejecting anything outside the closed set.
func ParseBlockType(s string) (BlockType, error) {
	switch BlockType(s) {
	case BlockWork, BlockStudy, BlockHealth, BlockPlay, BlockSocial:
		return BlockType(s), nil
	}
	return "", fmt.Errorf("unknown block type %q", s)
}

// Block is a single occupied cell: a typed, tiered game piece. Tier starts at
// 1 and is unbounded upward.
type Block struct {
	ID   string
	Type BlockType
	Tier int
	Pos  Position
}

// SpawnedBlock describes a block created by executing a pattern.
type SpawnedBlock struct {
	ID   string
	Type BlockType
	Tier int
	Pos  Position
}

// Block converts the spawn record into a live block.
func (s SpawnedBlock) Block() Block {
	return Block{ID: s.ID, Type: s.Type, Tier: s.Tier, Pos: s.Pos}
}
