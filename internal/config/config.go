package config

import (
	"fmt"
	"strings"

	"github.com/habitgrid/grid-engine-go/internal/engine"
	"github.com/habitgrid/grid-engine-go/internal/engine/grid"
	"github.com/habitgrid/grid-engine-go/internal/engine/patterns"
	"github.com/spf13/viper"
)

// Config is the engine's full tuning surface: chain limits, reward tables,
// transmute recipes, adjacency rules, default unlock state, and logging.
type Config struct {
	Engine    EngineConfig          `mapstructure:"engine"`
	Rewards   RewardsConfig         `mapstructure:"rewards"`
	Recipes   []RecipeConfig        `mapstructure:"recipes"`
	Adjacency []AdjacencyRuleConfig `mapstructure:"adjacency"`
	Unlocks   UnlocksConfig         `mapstructure:"unlocks"`
	Logging   LoggingConfig         `mapstructure:"logging"`
}

// EngineConfig tunes the chain controller and resolver.
type EngineConfig struct {
	MaxChainDepth    int  `mapstructure:"max_chain_depth"`
	AdjacencyOverlap bool `mapstructure:"adjacency_overlap"`
}

// RewardsConfig holds per-type base values.
type RewardsConfig struct {
	BaseValues map[string]int64 `mapstructure:"base_values"`
}

// RecipeConfig declares one transmute recipe.
type RecipeConfig struct {
	Name     string   `mapstructure:"name"`
	Inputs   []string `mapstructure:"inputs"`
	Output   string   `mapstructure:"output"`
	Shape    string   `mapstructure:"shape"`
	Anchor   string   `mapstructure:"anchor"`
	Unlocked bool     `mapstructure:"unlocked"`
}

// AdjacencyRuleConfig declares one proximity combo rule.
type AdjacencyRuleConfig struct {
	Name           string  `mapstructure:"name"`
	Trigger        string  `mapstructure:"trigger"`
	Target         string  `mapstructure:"target"`
	MaxDistance    float64 `mapstructure:"max_distance"`
	LineOfSight    bool    `mapstructure:"line_of_sight"`
	ConsumesTarget bool    `mapstructure:"consumes_target"`
	Reward         int64   `mapstructure:"reward"`
	Unlocked       bool    `mapstructure:"unlocked"`
}

// UnlocksConfig is the default unlock state the simulator starts from. In the
// game proper this state is owned by progression and supplied per call.
type UnlocksConfig struct {
	// TierUp maps block type to the tiers with tier-up unlocked.
	TierUp map[string][]int `mapstructure:"tier_up"`
}

// LoggingConfig configures the zap logger.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from the given file, applying defaults and
// HABITGRID_* environment overrides.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	v.SetEnvPrefix("HABITGRID")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("engine.max_chain_depth", engine.DefaultMaxChainDepth)
	v.SetDefault("engine.adjacency_overlap", true)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
}

func (c *Config) validate() error {
	if c.Engine.MaxChainDepth < 1 {
		return fmt.Errorf("engine.max_chain_depth must be >= 1, got %d", c.Engine.MaxChainDepth)
	}
	for name := range c.Rewards.BaseValues {
		if _, err := grid.ParseBlockType(name); err != nil {
			return fmt.Errorf("rewards.base_values: %w", err)
		}
	}
	for _, r := range c.Recipes {
		if len(r.Inputs) != 3 {
			return fmt.Errorf("recipe %q must declare exactly 3 inputs, got %d", r.Name, len(r.Inputs))
		}
	}
	return nil
}

// RewardTable builds the executor's reward table.
func (c *Config) RewardTable() *engine.RewardTable {
	base := make(map[grid.BlockType]int64, len(c.Rewards.BaseValues))
	for name, value := range c.Rewards.BaseValues {
		base[grid.BlockType(name)] = value
	}
	return engine.NewRewardTable(base)
}

// RecipeBook builds the transmute recipe book from configuration.
func (c *Config) RecipeBook() (*patterns.StaticRecipeBook, error) {
	recipes := make([]patterns.Recipe, 0, len(c.Recipes))
	for _, rc := range c.Recipes {
		recipe, err := rc.toRecipe()
		if err != nil {
			return nil, err
		}
		recipes = append(recipes, recipe)
	}
	return patterns.NewStaticRecipeBook(recipes), nil
}

func (rc RecipeConfig) toRecipe() (patterns.Recipe, error) {
	var inputs [3]grid.BlockType
	for i, name := range rc.Inputs {
		t, err := grid.ParseBlockType(name)
		if err != nil {
			return patterns.Recipe{}, fmt.Errorf("recipe %q: %w", rc.Name, err)
		}
		inputs[i] = t
	}
	output, err := grid.ParseBlockType(rc.Output)
	if err != nil {
		return patterns.Recipe{}, fmt.Errorf("recipe %q: %w", rc.Name, err)
	}
	shape := patterns.ShapeRule(rc.Shape)
	switch shape {
	case "":
		shape = patterns.ShapeConnected
	case patterns.ShapeConnected, patterns.ShapeLine:
	default:
		return patterns.Recipe{}, fmt.Errorf("recipe %q: unknown shape %q", rc.Name, rc.Shape)
	}
	anchor := patterns.AnchorPolicy(rc.Anchor)
	switch anchor {
	case "":
		anchor = patterns.AnchorCenter
	case patterns.AnchorCenter, patterns.AnchorLowest:
	default:
		return patterns.Recipe{}, fmt.Errorf("recipe %q: unknown anchor %q", rc.Name, rc.Anchor)
	}
	return patterns.Recipe{
		Name:   rc.Name,
		Inputs: inputs,
		Output: output,
		Shape:  shape,
		Anchor: anchor,
	}, nil
}

// AdjacencyRules builds the adjacency recognizer's rule set.
func (c *Config) AdjacencyRules() ([]patterns.AdjacencyRule, error) {
	rules := make([]patterns.AdjacencyRule, 0, len(c.Adjacency))
	for _, ac := range c.Adjacency {
		trigger, err := grid.ParseBlockType(ac.Trigger)
		if err != nil {
			return nil, fmt.Errorf("adjacency rule %q: %w", ac.Name, err)
		}
		target, err := grid.ParseBlockType(ac.Target)
		if err != nil {
			return nil, fmt.Errorf("adjacency rule %q: %w", ac.Name, err)
		}
		if ac.MaxDistance <= 0 {
			return nil, fmt.Errorf("adjacency rule %q: max_distance must be > 0", ac.Name)
		}
		rules = append(rules, patterns.AdjacencyRule{
			Name:           ac.Name,
			TriggerType:    trigger,
			TargetType:     target,
			MaxDistance:    ac.MaxDistance,
			LineOfSight:    ac.LineOfSight,
			ConsumesTarget: ac.ConsumesTarget,
			Reward:         ac.Reward,
		})
	}
	return rules, nil
}

// UnlockState builds the default unlock state: tier-ups from the unlocks
// section, transmutes and adjacency combos from their rules' unlocked flags.
func (c *Config) UnlockState() (*patterns.StaticUnlocks, error) {
	unlocks := &patterns.StaticUnlocks{}
	for name, tiers := range c.Unlocks.TierUp {
		t, err := grid.ParseBlockType(name)
		if err != nil {
			return nil, fmt.Errorf("unlocks.tier_up: %w", err)
		}
		for _, tier := range tiers {
			unlocks.UnlockTierUp(t, tier)
		}
	}
	for _, rc := range c.Recipes {
		if !rc.Unlocked {
			continue
		}
		output, err := grid.ParseBlockType(rc.Output)
		if err != nil {
			return nil, fmt.Errorf("recipe %q: %w", rc.Name, err)
		}
		unlocks.UnlockTransmute(output)
	}
	for _, ac := range c.Adjacency {
		if !ac.Unlocked {
			continue
		}
		trigger, err := grid.ParseBlockType(ac.Trigger)
		if err != nil {
			return nil, fmt.Errorf("adjacency rule %q: %w", ac.Name, err)
		}
		unlocks.UnlockAdjacency(trigger)
	}
	return unlocks, nil
}
