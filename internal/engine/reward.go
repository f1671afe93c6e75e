package engine

import (
	"bytes"
	"encoding/gob"
	"sort"

	"github.com/habitgrid/grid-engine-go/internal/engine/grid"
)

// RewardLedger accumulates earned resources, keyed by the block type that
// produced them.
type RewardLedger map[grid.BlockType]int64

// Add credits an amount to the ledger.
func (l RewardLedger) Add(resource grid.BlockType, amount int64) {
	if amount == 0 {
		return
	}
	l[resource] += amount
}

// MergeScaled folds another ledger into this one, multiplying every amount by
// the given factor. The chain controller uses this to apply the chain bonus
// per depth.
func (l RewardLedger) MergeScaled(other RewardLedger, factor int64) {
	for resource, amount := range other {
		l[resource] += amount * factor
	}
}

// Total returns the sum across all resources.
func (l RewardLedger) Total() int64 {
	var total int64
	for _, amount := range l {
		total += amount
	}
	return total
}

// Clone returns an independent copy.
func (l RewardLedger) Clone() RewardLedger {
	out := make(RewardLedger, len(l))
	for resource, amount := range l {
		out[resource] = amount
	}
	return out
}

// rewardEntry is the wire form of one ledger line.
type rewardEntry struct {
	Resource grid.BlockType
	Amount   int64
}

// GobEncode serializes the ledger as a key-sorted entry list. Plain map
// encoding follows randomized iteration order, which would make two encodings
// of the same ChainResult differ byte for byte and break the determinism
// check.
func (l RewardLedger) GobEncode() ([]byte, error) {
	entries := make([]rewardEntry, 0, len(l))
	for resource, amount := range l {
		entries = append(entries, rewardEntry{Resource: resource, Amount: amount})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Resource < entries[j].Resource })
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(entries); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// GobDecode restores a ledger written by GobEncode.
func (l *RewardLedger) GobDecode(data []byte) error {
	var entries []rewardEntry
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&entries); err != nil {
		return err
	}
	*l = make(RewardLedger, len(entries))
	for _, e := range entries {
		(*l)[e.Resource] = e.Amount
	}
	return nil
}

// RewardTable provides the per-type base value used by reward arithmetic.
// Values come from configuration; types without an entry fall back to a
// default so a missing config line never zeroes a mechanic silently.
type RewardTable struct {
	base         map[grid.BlockType]int64
	defaultValue int64
}

// DefaultBaseValue is used for block types without a configured base value.
const DefaultBaseValue = 10

// NewRewardTable builds a reward table from configured base values.
func NewRewardTable(base map[grid.BlockType]int64) *RewardTable {
	copied := make(map[grid.BlockType]int64, len(base))
	for t, v := range base {
		copied[t] = v
	}
	return &RewardTable{base: copied, defaultValue: DefaultBaseValue}
}

// BaseValue returns the configured base value for a block type.
func (t *RewardTable) BaseValue(blockType grid.BlockType) int64 {
	if v, ok := t.base[blockType]; ok {
		return v
	}
	return t.defaultValue
}

// tierMultiplier returns 3^(tier-1), the reward scaling for higher tiers.
func tierMultiplier(tier int) int64 {
	mult := int64(1)
	for i := 1; i < tier; i++ {
		mult *= 3
	}
	return mult
}
