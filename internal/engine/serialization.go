package engine

import (
	"bytes"
	"encoding/gob"
	"fmt"

	"github.com/habitgrid/grid-engine-go/internal/engine/grid"
)

// SnapshotChecksum is a deterministic digest of board occupancy, used to
// guard against divergent states across replays.
type SnapshotChecksum struct {
	Hash    string
	Version int
}

// ChecksumSnapshot computes the checksum of a board. Two boards with the same
// occupancy always produce the same hash regardless of block IDs or
// construction order.
func ChecksumSnapshot(snap *grid.Snapshot) SnapshotChecksum {
	return SnapshotChecksum{Hash: snap.Signature(), Version: 1}
}

// VerifyChecksum reports whether the snapshot still matches a previously
// computed checksum.
func VerifyChecksum(snap *grid.Snapshot, expected SnapshotChecksum) bool {
	return ChecksumSnapshot(snap).Hash == expected.Hash
}

// EncodeChainResult serializes a ChainResult with gob, the format used for
// replay files and diff-based determinism checks.
func EncodeChainResult(result ChainResult) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(result); err != nil {
		return nil, fmt.Errorf("failed to encode chain result: %w", err)
	}
	return buf.Bytes(), nil
}

// DecodeChainResult deserializes a gob-encoded ChainResult.
func DecodeChainResult(data []byte) (ChainResult, error) {
	var result ChainResult
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&result); err != nil {
		return ChainResult{}, fmt.Errorf("failed to decode chain result: %w", err)
	}
	return result, nil
}

// ValidateResultRoundtrip checks that a ChainResult survives serialization
// without loss by re-encoding the decoded copy and comparing bytes.
func ValidateResultRoundtrip(result ChainResult) error {
	data, err := EncodeChainResult(result)
	if err != nil {
		return err
	}
	decoded, err := DecodeChainResult(data)
	if err != nil {
		return err
	}
	redata, err := EncodeChainResult(decoded)
	if err != nil {
		return fmt.Errorf("failed to re-encode decoded result: %w", err)
	}
	if !bytes.Equal(data, redata) {
		return fmt.Errorf("chain result roundtrip mismatch for chain %s", result.ChainID)
	}
	return nil
}
