package engine

import (
	"testing"

	"github.com/habitgrid/grid-engine-go/internal/engine/grid"
	"github.com/habitgrid/grid-engine-go/internal/engine/patterns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func samplePass(depth int) ChainPass {
	return ChainPass{
		Depth:     depth,
		Signature: "sig",
		Blocks:    []grid.Block{block("a", grid.BlockWork, 1, depth, 0)},
	}
}

func TestReplayPlaybackNavigation(t *testing.T) {
	replay := NewChainReplay("chain-1")
	for i := 0; i < 3; i++ {
		replay.RecordPass(samplePass(i))
	}
	require.Equal(t, 3, replay.Size())

	replay.Start()
	first := replay.Next()
	require.NotNil(t, first)
	assert.Equal(t, 0, first.Depth)
	second := replay.Next()
	require.NotNil(t, second)
	assert.Equal(t, 1, second.Depth)

	back := replay.Previous()
	require.NotNil(t, back)
	assert.Equal(t, 1, back.Depth)

	last := replay.Skip(10)
	require.NotNil(t, last)
	assert.Equal(t, 2, last.Depth)

	replay.Start()
	assert.Nil(t, replay.Previous())
}

func TestReplaySaveLoadRoundtrip(t *testing.T) {
	dir := t.TempDir()

	replay := NewChainReplay("chain-roundtrip")
	replay.RecordPass(ChainPass{
		Depth:     0,
		Signature: "start",
		Blocks: []grid.Block{
			block("a", grid.BlockWork, 1, 0, 0),
			block("b", grid.BlockWork, 1, 1, 0),
		},
	})
	replay.RecordPass(ChainPass{
		Depth:     1,
		Signature: "after",
		Outcomes: []PatternOutcome{{
			PatternID: "p1",
			Variant:   patterns.VariantMatch,
			Depth:     1,
			Removed:   []grid.Position{pos(0, 0), pos(1, 0)},
			Rewards:   RewardLedger{grid.BlockWork: 30},
		}},
	})
	require.NoError(t, replay.SaveToFile(dir))

	loaded, err := LoadChainReplayFromFile(dir, "chain-roundtrip")
	require.NoError(t, err)
	assert.Equal(t, "chain-roundtrip", loaded.ChainID)
	require.Equal(t, 2, loaded.Size())
	assert.Equal(t, replay.Passes[0].Blocks, loaded.Passes[0].Blocks)
	assert.Equal(t, replay.Passes[1].Outcomes, loaded.Passes[1].Outcomes)
}

func TestReplayLoadMissingFile(t *testing.T) {
	_, err := LoadChainReplayFromFile(t.TempDir(), "nope")
	assert.Error(t, err)
}

func TestRecorderSelectiveRecording(t *testing.T) {
	recorder := NewChainRecorder(nil, t.TempDir())

	recorder.RecordPass("unknown", samplePass(0))
	_, exists := recorder.GetReplay("unknown")
	assert.False(t, exists)

	recorder.StartRecording("chain-a")
	assert.True(t, recorder.IsRecording("chain-a"))
	recorder.RecordPass("chain-a", samplePass(0))
	recorder.RecordPass("chain-a", samplePass(1))

	recorder.StopRecording("chain-a")
	assert.False(t, recorder.IsRecording("chain-a"))
	recorder.RecordPass("chain-a", samplePass(2))

	replay, exists := recorder.GetReplay("chain-a")
	require.True(t, exists)
	assert.Equal(t, 2, replay.Size())
}

func TestRecorderRecordAll(t *testing.T) {
	recorder := NewChainRecorder(nil, t.TempDir())
	recorder.RecordAll()

	recorder.RecordPass("any-chain", samplePass(0))
	replay, exists := recorder.GetReplay("any-chain")
	require.True(t, exists)
	assert.Equal(t, 1, replay.Size())
}

func TestRecorderSaveAndReload(t *testing.T) {
	recorder := NewChainRecorder(nil, t.TempDir())
	recorder.StartRecording("chain-b")
	recorder.RecordPass("chain-b", samplePass(0))
	recorder.RecordPass("chain-b", samplePass(1))

	require.NoError(t, recorder.SaveReplay("chain-b"))
	_, exists := recorder.GetReplay("chain-b")
	assert.False(t, exists, "saved replay should leave memory")

	loaded, err := recorder.LoadReplay("chain-b")
	require.NoError(t, err)
	assert.Equal(t, 2, loaded.Size())

	assert.Error(t, recorder.SaveReplay("chain-b"))
}

func TestControllerRecordsPasses(t *testing.T) {
	blocks := []grid.Block{
		block("a", grid.BlockWork, 1, 0, 0),
		block("b", grid.BlockWork, 1, 1, 0),
		block("c", grid.BlockWork, 1, 2, 0),
	}
	recorder := NewChainRecorder(nil, t.TempDir())
	recorder.RecordAll()
	c := newController(t, blocks, &patterns.StaticUnlocks{}, nil, allRecognizers(), WithRecorder(recorder))

	result := c.ProcessTrigger(pos(1, 0))

	replay, exists := recorder.GetReplay(result.ChainID)
	require.True(t, exists)
	// Depth 0 records the starting board, then one pass per depth.
	require.Equal(t, 2, replay.Size())
	assert.Equal(t, 0, replay.Passes[0].Depth)
	assert.Len(t, replay.Passes[0].Blocks, 3)
	assert.Equal(t, 1, replay.Passes[1].Depth)
	assert.Empty(t, replay.Passes[1].Blocks)
	assert.Equal(t, result.FinalSignature, replay.Passes[1].Signature)
}
