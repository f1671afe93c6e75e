package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/habitgrid/grid-engine-go/internal/engine"
	"github.com/habitgrid/grid-engine-go/internal/engine/grid"
	"github.com/habitgrid/grid-engine-go/internal/engine/patterns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, engine.DefaultMaxChainDepth, cfg.Engine.MaxChainDepth)
	assert.True(t, cfg.Engine.AdjacencyOverlap)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "console", cfg.Logging.Format)
}

func TestLoadFullConfig(t *testing.T) {
	path := writeConfig(t, `
engine:
  max_chain_depth: 6
  adjacency_overlap: false
rewards:
  base_values:
    work: 40
    study: 20
recipes:
  - name: balance
    inputs: [work, study, health]
    output: play
    shape: line
    anchor: lowest
    unlocked: true
adjacency:
  - name: recharge
    trigger: health
    target: social
    max_distance: 3
    reward: 25
    unlocked: true
unlocks:
  tier_up:
    work: [1, 2]
logging:
  level: debug
  format: json
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 6, cfg.Engine.MaxChainDepth)
	assert.False(t, cfg.Engine.AdjacencyOverlap)
	assert.Equal(t, "debug", cfg.Logging.Level)

	table := cfg.RewardTable()
	assert.Equal(t, int64(40), table.BaseValue(grid.BlockWork))
	assert.Equal(t, int64(engine.DefaultBaseValue), table.BaseValue(grid.BlockPlay))

	book, err := cfg.RecipeBook()
	require.NoError(t, err)
	recipe, ok := book.RecipeFor([]grid.BlockType{grid.BlockHealth, grid.BlockWork, grid.BlockStudy})
	require.True(t, ok, "recipe lookup is order independent")
	assert.Equal(t, grid.BlockPlay, recipe.Output)
	assert.Equal(t, patterns.ShapeLine, recipe.Shape)
	assert.Equal(t, patterns.AnchorLowest, recipe.Anchor)

	rules, err := cfg.AdjacencyRules()
	require.NoError(t, err)
	require.Len(t, rules, 1)
	assert.Equal(t, grid.BlockHealth, rules[0].TriggerType)
	assert.Equal(t, float64(3), rules[0].MaxDistance)

	unlocks, err := cfg.UnlockState()
	require.NoError(t, err)
	assert.True(t, unlocks.IsEnabled(patterns.VariantTierUp, grid.BlockWork, 1))
	assert.True(t, unlocks.IsEnabled(patterns.VariantTierUp, grid.BlockWork, 2))
	assert.False(t, unlocks.IsEnabled(patterns.VariantTierUp, grid.BlockWork, 3))
	assert.True(t, unlocks.IsEnabled(patterns.VariantTransmute, grid.BlockPlay, 0))
	assert.True(t, unlocks.IsEnabled(patterns.VariantAdjacency, grid.BlockHealth, 0))
	assert.True(t, unlocks.IsEnabled(patterns.VariantMatch, grid.BlockWork, 0))
}

func TestLoadRejectsInvalidDepth(t *testing.T) {
	path := writeConfig(t, "engine:\n  max_chain_depth: 0\n")
	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadRejectsUnknownBlockType(t *testing.T) {
	path := writeConfig(t, "rewards:\n  base_values:\n    chores: 5\n")
	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadRejectsMalformedRecipe(t *testing.T) {
	path := writeConfig(t, `
recipes:
  - name: broken
    inputs: [work, study]
    output: play
`)
	_, err := Load(path)
	assert.Error(t, err)
}

func TestRecipeDefaultsShapeAndAnchor(t *testing.T) {
	cfg := &Config{Recipes: []RecipeConfig{{
		Name:   "plain",
		Inputs: []string{"work", "study", "health"},
		Output: "play",
	}}}
	book, err := cfg.RecipeBook()
	require.NoError(t, err)
	recipe, ok := book.RecipeFor([]grid.BlockType{grid.BlockWork, grid.BlockStudy, grid.BlockHealth})
	require.True(t, ok)
	assert.Equal(t, patterns.ShapeConnected, recipe.Shape)
	assert.Equal(t, patterns.AnchorCenter, recipe.Anchor)
}

func TestAdjacencyRulesRejectNonPositiveDistance(t *testing.T) {
	cfg := &Config{Adjacency: []AdjacencyRuleConfig{{
		Name:    "bad",
		Trigger: "health",
		Target:  "social",
	}}}
	_, err := cfg.AdjacencyRules()
	assert.Error(t, err)
}

func TestMissingConfigFileFails(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}
