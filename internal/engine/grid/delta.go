package grid

// StateDelta is the net board change produced by executing one or more
// patterns: cells to clear plus blocks to create. Deltas are plain data; the
// external grid-state owner applies them to the authoritative board.
type StateDelta struct {
	Removed []Position
	Spawned []SpawnedBlock
}

// IsEmpty reports whether the delta changes nothing.
func (d StateDelta) IsEmpty() bool {
	return len(d.Removed) == 0 && len(d.Spawned) == 0
}

// Merge appends another delta's changes onto this one.
func (d *StateDelta) Merge(other StateDelta) {
	d.Removed = append(d.Removed, other.Removed...)
	d.Spawned = append(d.Spawned, other.Spawned...)
}
