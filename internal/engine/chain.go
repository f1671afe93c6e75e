package engine

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/habitgrid/grid-engine-go/internal/engine/grid"
	"github.com/habitgrid/grid-engine-go/internal/engine/patterns"
	"go.uber.org/zap"
)

// DefaultMaxChainDepth bounds how many passes a single chain may run.
const DefaultMaxChainDepth = 10

// GridProvider supplies the board the engine works against. The engine never
// owns the authoritative grid: it reads one snapshot per chain and returns a
// delta; the provider's owner applies it and serializes ProcessTrigger calls.
type GridProvider interface {
	Snapshot() (*grid.Snapshot, error)
}

// SnapshotFunc adapts a plain function to GridProvider.
type SnapshotFunc func() (*grid.Snapshot, error)

// Snapshot implements GridProvider.
func (f SnapshotFunc) Snapshot() (*grid.Snapshot, error) {
	return f()
}

// RewardSink receives the chain's total ledger once the chain terminates in a
// non-defect state.
type RewardSink interface {
	ApplyRewards(ledger RewardLedger)
}

// chainPhase tracks the controller's position in the
// Idle → Recognizing → Executing → Terminated state machine. A chain never
// cycles back to Idle mid-call.
type chainPhase int

const (
	phaseIdle chainPhase = iota
	phaseRecognizing
	phaseExecuting
	phaseTerminated
)

// ChainController drives recognize → resolve → execute passes until the board
// stabilizes, the depth limit is hit, or a board state repeats. It is
// single-threaded and synchronous; callers must not interleave ProcessTrigger
// invocations against the same grid.
type ChainController struct {
	grid        GridProvider
	recognizers []patterns.Recognizer
	unlocks     patterns.Unlocks
	recipes     patterns.RecipeBook
	executor    *Executor
	maxDepth    int
	resolveOpts patterns.ResolveOptions
	rewardSink  RewardSink
	recorder    *ChainRecorder
	logger      *zap.Logger
}

// ControllerOption customizes a ChainController.
type ControllerOption func(*ChainController)

// WithMaxDepth overrides the default chain depth limit.
func WithMaxDepth(depth int) ControllerOption {
	return func(c *ChainController) {
		if depth > 0 {
			c.maxDepth = depth
		}
	}
}

// WithResolveOptions sets the resolver configuration.
func WithResolveOptions(opts patterns.ResolveOptions) ControllerOption {
	return func(c *ChainController) { c.resolveOpts = opts }
}

// WithRewardSink attaches a sink that receives each chain's total ledger.
func WithRewardSink(sink RewardSink) ControllerOption {
	return func(c *ChainController) { c.rewardSink = sink }
}

// WithRecorder attaches a replay recorder.
func WithRecorder(recorder *ChainRecorder) ControllerOption {
	return func(c *ChainController) { c.recorder = recorder }
}

// NewChainController wires a controller. A nil logger is replaced with a
// no-op logger.
func NewChainController(
	provider GridProvider,
	recognizers []patterns.Recognizer,
	unlocks patterns.Unlocks,
	recipes patterns.RecipeBook,
	executor *Executor,
	logger *zap.Logger,
	opts ...ControllerOption,
) *ChainController {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &ChainController{
		grid:        provider,
		recognizers: recognizers,
		unlocks:     unlocks,
		recipes:     recipes,
		executor:    executor,
		maxDepth:    DefaultMaxChainDepth,
		resolveOpts: patterns.ResolveOptions{AdjacencyOverlap: true},
		logger:      logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ProcessTrigger runs one full chain starting from the player action at the
// trigger position and returns the terminal ChainResult. It never panics and
// never propagates an error: internal defects come back as an InternalError
// result with an empty delta, leaving the caller's board untouched since
// chain start.
func (c *ChainController) ProcessTrigger(trigger grid.Position) ChainResult {
	snap, err := c.grid.Snapshot()
	if err != nil {
		c.logger.Error("grid snapshot unavailable", zap.Error(err))
		return ChainResult{
			Trigger:     trigger,
			Termination: TerminationInternalError,
		}
	}

	start := snap
	result := ChainResult{
		ChainID: chainID(snap.Signature(), trigger),
		Trigger: trigger,
		Rewards: make(RewardLedger),
	}

	if c.recorder != nil && c.recorder.IsRecording(result.ChainID) {
		c.recorder.RecordPass(result.ChainID, ChainPass{Depth: 0, Signature: snap.Signature(), Blocks: snap.Blocks()})
	}

	// Per-chain visited-signature accumulator; discarded when the chain
	// ends.
	seen := map[string]bool{snap.Signature(): true}
	phase := phaseRecognizing
	depth := 1

	for phase != phaseTerminated {
		// Recognizing: all enabled recognizers over the current board.
		ctx := patterns.Context{
			Trigger: trigger,
			Depth:   depth,
			Unlocks: c.unlocks,
			Recipes: c.recipes,
		}
		var candidates []patterns.Pattern
		for _, rec := range c.recognizers {
			candidates = append(candidates, rec.Recognize(snap, ctx)...)
		}
		accepted := patterns.Resolve(candidates, c.resolveOpts)
		if len(accepted) == 0 {
			result.TotalDepth = depth - 1
			result.Termination = TerminationNoMorePatterns
			phase = phaseTerminated
			continue
		}

		// Executing: fold each outcome into the working board; rewards
		// earn the chain bonus for this depth.
		phase = phaseExecuting
		bonus := chainBonus(depth)
		next := snap
		passOutcomes := make([]PatternOutcome, 0, len(accepted))
		passDelta := grid.StateDelta{}
		passRewards := make(RewardLedger)
		for _, p := range accepted {
			outcome, execErr := c.executor.Execute(p, snap, ctx)
			if execErr != nil {
				return c.abort(result, depth, execErr)
			}
			next, execErr = next.Apply(outcome.Delta())
			if execErr != nil {
				return c.abort(result, depth, execErr)
			}
			passOutcomes = append(passOutcomes, outcome)
			passDelta.Merge(outcome.Delta())
			passRewards.MergeScaled(outcome.Rewards, 1)
		}

		sig := next.Signature()
		if seen[sig] {
			if passDelta.IsEmpty() {
				// Reward-only pass on an unchanged board: nothing can
				// cascade from it, so commit it and stop cleanly.
				result.Outcomes = append(result.Outcomes, passOutcomes...)
				result.Rewards.MergeScaled(passRewards, bonus)
				result.TotalDepth = depth
				result.Termination = TerminationNoMorePatterns
				result.FinalSignature = sig
				phase = phaseTerminated
				continue
			}
			// The pass reproduced an earlier board: keep the forward
			// progress committed so far and discard the looping tail.
			result.TotalDepth = depth
			result.Termination = TerminationCycleDetected
			result.FinalSignature = snap.Signature()
			c.logger.Debug("chain cycle detected",
				zap.String("chain_id", result.ChainID),
				zap.Int("depth", depth),
				zap.String("signature", sig),
			)
			phase = phaseTerminated
			continue
		}

		// Commit the pass.
		result.Outcomes = append(result.Outcomes, passOutcomes...)
		result.Rewards.MergeScaled(passRewards, bonus)
		result.FinalSignature = sig
		seen[sig] = true
		snap = next

		if c.recorder != nil && c.recorder.IsRecording(result.ChainID) {
			c.recorder.RecordPass(result.ChainID, ChainPass{
				Depth:     depth,
				Signature: sig,
				Blocks:    snap.Blocks(),
				Outcomes:  passOutcomes,
			})
		}

		if depth >= c.maxDepth {
			result.TotalDepth = depth
			result.Termination = TerminationDepthLimit
			phase = phaseTerminated
			continue
		}
		depth++
		phase = phaseRecognizing
	}

	if result.FinalSignature == "" {
		result.FinalSignature = snap.Signature()
	}
	// The per-pass deltas overlap (a block spawned in one pass may be
	// consumed in a later one), so the caller-facing delta is the net diff
	// between the starting board and the last committed board. Applying it
	// to the starting board reproduces FinalSignature.
	result.Delta = grid.Diff(start, snap)
	if c.rewardSink != nil && result.Termination != TerminationInternalError {
		c.rewardSink.ApplyRewards(result.Rewards.Clone())
	}
	c.logger.Info("chain terminated",
		zap.String("chain_id", result.ChainID),
		zap.String("reason", string(result.Termination)),
		zap.Int("total_depth", result.TotalDepth),
		zap.Int("outcomes", len(result.Outcomes)),
		zap.Int64("total_reward", result.Rewards.Total()),
	)
	return result
}

// abort rolls the chain back to its starting state after an internal defect.
// The defect is logged once; the returned result carries an empty delta so
// the caller's board is left exactly as it was before the chain.
func (c *ChainController) abort(result ChainResult, depth int, err error) ChainResult {
	c.logger.Error("chain aborted by internal defect",
		zap.String("chain_id", result.ChainID),
		zap.Int("depth", depth),
		zap.Error(err),
	)
	return ChainResult{
		ChainID:     result.ChainID,
		Trigger:     result.Trigger,
		TotalDepth:  depth,
		Rewards:     make(RewardLedger),
		Termination: TerminationInternalError,
	}
}

// chainBonus returns 2^(depth-1): depth 1 earns x1, depth 2 x2, depth 3 x4.
// Depths beyond 63 saturate at 2^62 so a misconfigured depth limit cannot
// shift the bonus to zero or overflow.
func chainBonus(depth int) int64 {
	if depth > 63 {
		depth = 63
	}
	return int64(1) << (depth - 1)
}

// chainID derives a stable identifier from the starting board and the
// trigger, keeping ChainResult bit-identical across reruns of the same input.
func chainID(signature string, trigger grid.Position) string {
	seed := fmt.Sprintf("chain|%s|%d,%d", signature, trigger.X, trigger.Y)
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(seed)).String()
}
