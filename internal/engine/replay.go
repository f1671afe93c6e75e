package engine

import (
	"compress/gzip"
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/habitgrid/grid-engine-go/internal/engine/grid"
	"go.uber.org/zap"
)

// ChainPass is one recorded step of a chain: the board after the pass plus
// the outcomes that produced it. Depth 0 records the starting board.
type ChainPass struct {
	Depth     int
	Signature string
	Blocks    []grid.Block
	Outcomes  []PatternOutcome
}

// ChainReplay is a recorded chain with sequential pass snapshots for
// playback: step through the cascade a pass at a time to debug or verify a
// reported result.
type ChainReplay struct {
	ChainID      string
	Passes       []ChainPass
	CurrentIndex int
	mu           sync.RWMutex
}

// NewChainReplay creates an empty replay for a chain.
func NewChainReplay(chainID string) *ChainReplay {
	return &ChainReplay{ChainID: chainID}
}

// RecordPass appends a pass to the replay.
func (r *ChainReplay) RecordPass(pass ChainPass) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Passes = append(r.Passes, pass)
}

// Start resets playback to the beginning.
func (r *ChainReplay) Start() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.CurrentIndex = 0
}

// Next advances playback and returns the next pass, or nil at the end.
func (r *ChainReplay) Next() *ChainPass {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.CurrentIndex < len(r.Passes) {
		pass := r.Passes[r.CurrentIndex]
		r.CurrentIndex++
		return &pass
	}
	return nil
}

// Previous steps playback backwards and returns that pass, or nil at the
// start.
func (r *ChainReplay) Previous() *ChainPass {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.CurrentIndex > 0 {
		r.CurrentIndex--
		pass := r.Passes[r.CurrentIndex]
		return &pass
	}
	return nil
}

// Skip moves playback by count passes in either direction, clamped to the
// recorded range, and returns the pass at the new index.
func (r *ChainReplay) Skip(count int) *ChainPass {
	r.mu.Lock()
	defer r.mu.Unlock()
	newIndex := r.CurrentIndex + count
	if newIndex >= len(r.Passes) {
		newIndex = len(r.Passes) - 1
	}
	if newIndex < 0 {
		newIndex = 0
	}
	r.CurrentIndex = newIndex
	if r.CurrentIndex < len(r.Passes) {
		pass := r.Passes[r.CurrentIndex]
		return &pass
	}
	return nil
}

// Size returns the number of recorded passes.
func (r *ChainReplay) Size() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.Passes)
}

// SaveToFile writes the replay to a gzipped gob file in the directory.
func (r *ChainReplay) SaveToFile(directory string) error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if err := os.MkdirAll(directory, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	filename := filepath.Join(directory, fmt.Sprintf("%s.replay", r.ChainID))
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	gzipWriter := gzip.NewWriter(file)
	defer gzipWriter.Close()

	encoder := gob.NewEncoder(gzipWriter)
	metadata := replayMetadata{
		ChainID:   r.ChainID,
		Timestamp: time.Now(),
		Version:   1,
		PassCount: len(r.Passes),
	}
	if err := encoder.Encode(&metadata); err != nil {
		return fmt.Errorf("failed to encode metadata: %w", err)
	}
	for i, pass := range r.Passes {
		if err := encoder.Encode(&pass); err != nil {
			return fmt.Errorf("failed to encode pass %d: %w", i, err)
		}
	}
	return nil
}

// LoadChainReplayFromFile reads a replay previously written by SaveToFile.
func LoadChainReplayFromFile(directory, chainID string) (*ChainReplay, error) {
	filename := filepath.Join(directory, fmt.Sprintf("%s.replay", chainID))
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	gzipReader, err := gzip.NewReader(file)
	if err != nil {
		return nil, fmt.Errorf("failed to create gzip reader: %w", err)
	}
	defer gzipReader.Close()

	decoder := gob.NewDecoder(gzipReader)
	var metadata replayMetadata
	if err := decoder.Decode(&metadata); err != nil {
		return nil, fmt.Errorf("failed to decode metadata: %w", err)
	}
	if metadata.Version != 1 {
		return nil, fmt.Errorf("unsupported replay version: %d", metadata.Version)
	}

	replay := NewChainReplay(metadata.ChainID)
	for i := 0; i < metadata.PassCount; i++ {
		var pass ChainPass
		if err := decoder.Decode(&pass); err != nil {
			return nil, fmt.Errorf("failed to decode pass %d: %w", i, err)
		}
		replay.Passes = append(replay.Passes, pass)
	}
	return replay, nil
}

type replayMetadata struct {
	ChainID   string
	Timestamp time.Time
	Version   int
	PassCount int
}

// ChainRecorder manages replay recording across chains.
type ChainRecorder struct {
	logger  *zap.Logger
	mu      sync.RWMutex
	replays map[string]*ChainReplay
	enabled map[string]bool
	saveDir string

	// recordAll records every chain without an explicit StartRecording
	// call; the simulator uses this.
	recordAll bool
}

// NewChainRecorder creates a recorder that saves replay files under saveDir.
func NewChainRecorder(logger *zap.Logger, saveDir string) *ChainRecorder {
	return &ChainRecorder{
		logger:  logger,
		replays: make(map[string]*ChainReplay),
		enabled: make(map[string]bool),
		saveDir: saveDir,
	}
}

// RecordAll enables recording for every chain the controller runs.
func (cr *ChainRecorder) RecordAll() {
	cr.mu.Lock()
	defer cr.mu.Unlock()
	cr.recordAll = true
}

// StartRecording begins recording a chain.
func (cr *ChainRecorder) StartRecording(chainID string) {
	cr.mu.Lock()
	defer cr.mu.Unlock()
	cr.replays[chainID] = NewChainReplay(chainID)
	cr.enabled[chainID] = true
	if cr.logger != nil {
		cr.logger.Info("started chain recording", zap.String("chain_id", chainID))
	}
}

// StopRecording stops recording a chain, keeping what was recorded.
func (cr *ChainRecorder) StopRecording(chainID string) {
	cr.mu.Lock()
	defer cr.mu.Unlock()
	cr.enabled[chainID] = false
	if cr.logger != nil {
		cr.logger.Info("stopped chain recording", zap.String("chain_id", chainID))
	}
}

// RecordPass records one pass if recording is enabled for the chain.
func (cr *ChainRecorder) RecordPass(chainID string, pass ChainPass) {
	cr.mu.Lock()
	enabled := cr.enabled[chainID] || cr.recordAll
	replay := cr.replays[chainID]
	if enabled && replay == nil {
		replay = NewChainReplay(chainID)
		cr.replays[chainID] = replay
	}
	cr.mu.Unlock()

	if !enabled || replay == nil {
		return
	}
	replay.RecordPass(pass)
	if cr.logger != nil {
		cr.logger.Debug("recorded chain pass",
			zap.String("chain_id", chainID),
			zap.Int("depth", pass.Depth),
			zap.Int("pass_count", replay.Size()),
		)
	}
}

// IsRecording reports whether passes for the chain will be recorded.
func (cr *ChainRecorder) IsRecording(chainID string) bool {
	cr.mu.RLock()
	defer cr.mu.RUnlock()
	return cr.recordAll || cr.enabled[chainID]
}

// GetReplay returns the in-memory replay for a chain.
func (cr *ChainRecorder) GetReplay(chainID string) (*ChainReplay, bool) {
	cr.mu.RLock()
	defer cr.mu.RUnlock()
	replay, exists := cr.replays[chainID]
	return replay, exists
}

// SaveReplay writes a chain's replay to disk and drops it from memory.
func (cr *ChainRecorder) SaveReplay(chainID string) error {
	cr.mu.Lock()
	replay, exists := cr.replays[chainID]
	if !exists {
		cr.mu.Unlock()
		return fmt.Errorf("no replay found for chain %s", chainID)
	}
	delete(cr.replays, chainID)
	delete(cr.enabled, chainID)
	cr.mu.Unlock()

	if err := replay.SaveToFile(cr.saveDir); err != nil {
		return fmt.Errorf("failed to save replay: %w", err)
	}
	if cr.logger != nil {
		cr.logger.Info("saved chain replay",
			zap.String("chain_id", chainID),
			zap.Int("pass_count", replay.Size()),
			zap.String("directory", cr.saveDir),
		)
	}
	return nil
}

// LoadReplay reads a chain's replay back from disk.
func (cr *ChainRecorder) LoadReplay(chainID string) (*ChainReplay, error) {
	replay, err := LoadChainReplayFromFile(cr.saveDir, chainID)
	if err != nil {
		return nil, err
	}
	if cr.logger != nil {
		cr.logger.Info("loaded chain replay",
			zap.String("chain_id", chainID),
			zap.Int("pass_count", replay.Size()),
		)
	}
	return replay, nil
}

// ClearReplay drops a chain's replay from memory without saving.
func (cr *ChainRecorder) ClearReplay(chainID string) {
	cr.mu.Lock()
	defer cr.mu.Unlock()
	delete(cr.replays, chainID)
	delete(cr.enabled, chainID)
}
