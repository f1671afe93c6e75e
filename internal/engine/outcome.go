package engine

import (
	"github.com/habitgrid/grid-engine-go/internal/engine/grid"
	"github.com/habitgrid/grid-engine-go/internal/engine/patterns"
)

// PatternOutcome is the state delta and reward produced by executing one
// accepted pattern. Rewards here are pre-chain-bonus; the controller scales
// them into the chain ledger.
type PatternOutcome struct {
	PatternID string
	Variant   patterns.Variant
	Depth     int
	Removed   []grid.Position
	Spawned   []grid.SpawnedBlock
	Rewards   RewardLedger
}

// Delta returns the outcome's board change.
func (o PatternOutcome) Delta() grid.StateDelta {
	return grid.StateDelta{Removed: o.Removed, Spawned: o.Spawned}
}

// ChainResult is the sole artifact that survives a ProcessTrigger call: the
// full outcome history, the total reward ledger with chain bonuses applied,
// the net board delta the caller should apply, and why the chain stopped.
// It is plain, gob-serializable data.
type ChainResult struct {
	ChainID        string
	Trigger        grid.Position
	TotalDepth     int
	Outcomes       []PatternOutcome
	Rewards        RewardLedger
	Termination    TerminationReason
	Delta          grid.StateDelta
	FinalSignature string
}
