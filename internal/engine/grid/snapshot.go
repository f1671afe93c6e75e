package grid

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
)

// Bounds describes the rectangular extent of the board, origin (0,0).
type Bounds struct {
	Width  int
	Height int
}

// Contains reports whether the position lies inside the board.
func (b Bounds) Contains(p Position) bool {
	return p.X >= 0 && p.X < b.Width && p.Y >= 0 && p.Y < b.Height
}

// Snapshot is an immutable, indexed view of block occupancy for one
// recognition pass. It is built once per pass in O(occupied cells), never
// mutated, and discarded when the pass ends; successor boards are produced
// with Apply.
type Snapshot struct {
	bounds Bounds
	cells  map[Position]Block
}

// NewSnapshot builds a snapshot from the given blocks. It rejects blocks that
// are out of bounds, below tier 1, or stacked on an occupied cell.
func NewSnapshot(blocks []Block, bounds Bounds) (*Snapshot, error) {
	if bounds.Width <= 0 || bounds.Height <= 0 {
		return nil, fmt.Errorf("invalid bounds %dx%d", bounds.Width, bounds.Height)
	}
	cells := make(map[Position]Block, len(blocks))
	for _, blk := range blocks {
		if !bounds.Contains(blk.Pos) {
			return nil, fmt.Errorf("block %s at %s is out of bounds", blk.ID, blk.Pos)
		}
		if blk.Tier < 1 {
			return nil, fmt.Errorf("block %s has invalid tier %d", blk.ID, blk.Tier)
		}
		if _, taken := cells[blk.Pos]; taken {
			return nil, fmt.Errorf("duplicate block at %s", blk.Pos)
		}
		cells[blk.Pos] = blk
	}
	return &Snapshot{bounds: bounds, cells: cells}, nil
}

// Bounds returns the board extent.
func (s *Snapshot) Bounds() Bounds {
	return s.bounds
}

// Len returns the number of occupied cells.
func (s *Snapshot) Len() int {
	return len(s.cells)
}

// At returns the block occupying the position, if any.
func (s *Snapshot) At(p Position) (Block, bool) {
	blk, ok := s.cells[p]
	return blk, ok
}

// Neighbors4 returns the blocks orthogonally adjacent to the position, in a
// fixed (up, left, right, down) order.
func (s *Snapshot) Neighbors4(p Position) []Block {
	var out []Block
	for _, n := range p.Neighbors4() {
		if blk, ok := s.cells[n]; ok {
			out = append(out, blk)
		}
	}
	return out
}

// InRadius returns all blocks within Euclidean distance r of center,
// excluding the center cell itself, sorted ascending by position.
func (s *Snapshot) InRadius(center Position, r float64) []Block {
	var out []Block
	for pos, blk := range s.cells {
		if pos == center {
			continue
		}
		if center.DistanceTo(pos) <= r {
			out = append(out, blk)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Pos.Less(out[j].Pos) })
	return out
}

// OccupiedPositions returns every occupied position sorted ascending, so
// iteration order is deterministic across runs.
func (s *Snapshot) OccupiedPositions() []Position {
	out := make([]Position, 0, len(s.cells))
	for pos := range s.cells {
		out = append(out, pos)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Less(out[j]) })
	return out
}

// Blocks returns all blocks sorted ascending by position.
func (s *Snapshot) Blocks() []Block {
	out := make([]Block, 0, len(s.cells))
	for _, pos := range s.OccupiedPositions() {
		out = append(out, s.cells[pos])
	}
	return out
}

// Apply produces the successor snapshot after removing and spawning blocks.
// The receiver is untouched. Removing an empty cell or spawning onto a cell
// that remains occupied is an error; the resolver's disjointness guarantee
// makes either a defect upstream.
func (s *Snapshot) Apply(delta StateDelta) (*Snapshot, error) {
	cells := make(map[Position]Block, len(s.cells))
	for pos, blk := range s.cells {
		cells[pos] = blk
	}
	for _, pos := range delta.Removed {
		if _, ok := cells[pos]; !ok {
			return nil, fmt.Errorf("delta removes unoccupied cell %s", pos)
		}
		delete(cells, pos)
	}
	for _, sp := range delta.Spawned {
		if !s.bounds.Contains(sp.Pos) {
			return nil, fmt.Errorf("delta spawns out of bounds at %s", sp.Pos)
		}
		if _, taken := cells[sp.Pos]; taken {
			return nil, fmt.Errorf("delta spawns onto occupied cell %s", sp.Pos)
		}
		if sp.Tier < 1 {
			return nil, fmt.Errorf("delta spawns invalid tier %d at %s", sp.Tier, sp.Pos)
		}
		cells[sp.Pos] = sp.Block()
	}
	return &Snapshot{bounds: s.bounds, cells: cells}, nil
}

// Diff returns the net StateDelta that transforms the before board into the
// after board: cells occupied before but vacant (or holding a different
// type/tier) after are removed, and blocks present after but absent (or
// different) before are spawned. Both listings are sorted by position, and
// before.Apply(Diff(before, after)) always reproduces after's occupancy.
func Diff(before, after *Snapshot) StateDelta {
	var delta StateDelta
	for _, pos := range before.OccupiedPositions() {
		old := before.cells[pos]
		now, ok := after.cells[pos]
		if !ok || now.Type != old.Type || now.Tier != old.Tier {
			delta.Removed = append(delta.Removed, pos)
		}
	}
	for _, pos := range after.OccupiedPositions() {
		now := after.cells[pos]
		old, ok := before.cells[pos]
		if !ok || old.Type != now.Type || old.Tier != now.Tier {
			delta.Spawned = append(delta.Spawned, SpawnedBlock{
				ID:   now.ID,
				Type: now.Type,
				Tier: now.Tier,
				Pos:  pos,
			})
		}
	}
	return delta
}

// Signature computes a deterministic digest of board occupancy: the SHA-256
// of the sorted canonical (position, type, tier) listing. Two boards with the
// same occupancy always produce the same signature regardless of block IDs or
// construction order, which is what chain cycle detection needs.
func (s *Snapshot) Signature() string {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "BOUNDS:%d|%d\n", s.bounds.Width, s.bounds.Height)
	for _, pos := range s.OccupiedPositions() {
		blk := s.cells[pos]
		fmt.Fprintf(&buf, "CELL:%d|%d|%s|%d\n", pos.X, pos.Y, blk.Type, blk.Tier)
	}
	sum := sha256.Sum256(buf.Bytes())
	return hex.EncodeToString(sum[:])
}
