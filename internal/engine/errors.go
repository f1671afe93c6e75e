package engine

import "errors"

// Engine defect taxonomy. Both errors indicate bugs upstream, never player
// input: the chain controller converts them into an InternalError termination
// with the whole chain rolled back, so a corrupted board is never exposed.
var (
	// ErrConflict is returned by the executor when a pattern's claimed
	// position is no longer occupied in the snapshot it was detected
	// against. The resolver's disjointness guarantee makes this a resolver
	// defect.
	ErrConflict = errors.New("pattern claims an unoccupied position")

	// ErrInvalidPatternShape is returned when a recognizer's internal
	// invariant failed: empty positions, wrong member count, or a variant
	// outside the closed set.
	ErrInvalidPatternShape = errors.New("invalid pattern shape")
)

// TerminationReason explains why a chain stopped. Only InternalError marks a
// defect; the other three are expected terminal states.
type TerminationReason string

const (
	TerminationNoMorePatterns TerminationReason = "NO_MORE_PATTERNS"
	TerminationDepthLimit     TerminationReason = "DEPTH_LIMIT"
	TerminationCycleDetected  TerminationReason = "CYCLE_DETECTED"
	TerminationInternalError  TerminationReason = "INTERNAL_ERROR"
)
