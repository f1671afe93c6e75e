package grid

import (
	"fmt"
	"math"
)

// Position identifies a single cell on the board.
type Position struct {
	X int
	Y int
}

// Less orders positions row-major: by Y first, then X. Everywhere the engine
// speaks of "the lowest position" it means this ordering, so tie-breaks stay
// consistent between the resolver, the executor, and spawn placement.
func (p Position) Less(o Position) bool {
	if p.Y != o.Y {
		return p.Y < o.Y
	}
	return p.X < o.X
}

// DistanceTo returns the Euclidean distance between two positions.
func (p Position) DistanceTo(o Position) float64 {
	dx := float64(p.X - o.X)
	dy := float64(p.Y - o.Y)
	return math.Sqrt(dx*dx + dy*dy)
}

// Neighbors4 returns the four orthogonal neighbors in a fixed order
// (up, left, right, down). Callers are responsible for bounds checks.
func (p Position) Neighbors4() [4]Position {
	return [4]Position{
		{X: p.X, Y: p.Y - 1},
		{X: p.X - 1, Y: p.Y},
		{X: p.X + 1, Y: p.Y},
		{X: p.X, Y: p.Y + 1},
	}
}

func (p Position) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// SortPositions orders a slice of positions ascending in place and returns it.
func SortPositions(ps []Position) []Position {
	for i := 1; i < len(ps); i++ {
		for j := i; j > 0 && ps[j].Less(ps[j-1]); j-- {
			ps[j], ps[j-1] = ps[j-1], ps[j]
		}
	}
	return ps
}

// LowestPosition returns the smallest position in the slice per Less.
// The slice must be non-empty.
func LowestPosition(ps []Position) Position {
	lowest := ps[0]
	for _, p := range ps[1:] {
		if p.Less(lowest) {
			lowest = p
		}
	}
	return lowest
}

// ContainsPosition reports whether the slice contains the given position.
func ContainsPosition(ps []Position, target Position) bool {
	for _, p := range ps {
		if p == target {
			return true
		}
	}
	return false
}
