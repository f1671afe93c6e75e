package patterns

import (
	"sort"
	"strings"

	"github.com/habitgrid/grid-engine-go/internal/engine/grid"
)

// Context carries the per-pass inputs recognizers need. Unlock state and
// recipe definitions arrive here on every call instead of living in module
// state, which keeps recognizers pure functions.
type Context struct {
	Trigger grid.Position
	Depth   int
	Unlocks Unlocks
	Recipes RecipeBook
}

// Unlocks answers whether a pattern variant is enabled for a type and tier.
// Tier is ignored for variants that are not tier-scoped (pass 0).
type Unlocks interface {
	IsEnabled(variant Variant, blockType grid.BlockType, tier int) bool
}

// ShapeRule constrains how a transmute recipe's three members must sit on the
// board.
type ShapeRule string

const (
	// ShapeConnected accepts any orthogonally-connected arrangement.
	ShapeConnected ShapeRule = "connected"
	// ShapeLine requires the three members to be colinear and contiguous.
	ShapeLine ShapeRule = "line"
)

// AnchorPolicy picks which member cell receives a transmute's output block.
type AnchorPolicy string

const (
	// AnchorCenter lands the output on the member adjacent to both others,
	// falling back to the lowest member for non-chain arrangements.
	AnchorCenter AnchorPolicy = "center"
	// AnchorLowest lands the output on the lowest-coordinate member.
	AnchorLowest AnchorPolicy = "lowest"
)

// Recipe is a fixed transmute definition: three distinct input types combine
// into one output block.
type Recipe struct {
	Name   string
	Inputs [3]grid.BlockType // distinct
	Output grid.BlockType
	Shape  ShapeRule
	Anchor AnchorPolicy
}

// RecipeBook resolves a type combination to its recipe, if one is declared.
// Unknown combinations are simply absent, never an error.
type RecipeBook interface {
	RecipeFor(types []grid.BlockType) (Recipe, bool)
}

// recipeKey builds an order-independent lookup key from a type combination.
func recipeKey(types []grid.BlockType) string {
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = string(t)
	}
	sort.Strings(names)
	return strings.Join(names, "+")
}

// StaticRecipeBook is a fixed, map-backed RecipeBook.
type StaticRecipeBook struct {
	recipes map[string]Recipe
}

// NewStaticRecipeBook indexes the given recipes by their input combination.
func NewStaticRecipeBook(recipes []Recipe) *StaticRecipeBook {
	book := &StaticRecipeBook{recipes: make(map[string]Recipe, len(recipes))}
	for _, r := range recipes {
		book.recipes[recipeKey(r.Inputs[:])] = r
	}
	return book
}

// RecipeFor implements RecipeBook.
func (b *StaticRecipeBook) RecipeFor(types []grid.BlockType) (Recipe, bool) {
	if len(types) != 3 {
		return Recipe{}, false
	}
	r, ok := b.recipes[recipeKey(types)]
	return r, ok
}

// StaticUnlocks is a fixed, map-backed Unlocks implementation, convenient for
// configuration-driven capability state and for tests.
type StaticUnlocks struct {
	// TierUp holds unlocked tiers per block type.
	TierUp map[grid.BlockType]map[int]bool
	// Transmute holds unlocked recipe output types.
	Transmute map[grid.BlockType]bool
	// Adjacency holds unlocked adjacency trigger types.
	Adjacency map[grid.BlockType]bool
	// MatchEnabled disables the baseline Match variant when set false-able;
	// Match is always on in practice, so the zero value enables it.
	MatchDisabled bool
}

// IsEnabled implements Unlocks.
func (u *StaticUnlocks) IsEnabled(variant Variant, blockType grid.BlockType, tier int) bool {
	switch variant {
	case VariantMatch:
		return !u.MatchDisabled
	case VariantTierUp:
		return u.TierUp[blockType][tier]
	case VariantTransmute:
		return u.Transmute[blockType]
	case VariantAdjacency:
		return u.Adjacency[blockType]
	}
	return false
}

// UnlockTierUp marks tier-up as available for the given type and tier.
func (u *StaticUnlocks) UnlockTierUp(blockType grid.BlockType, tier int) {
	if u.TierUp == nil {
		u.TierUp = make(map[grid.BlockType]map[int]bool)
	}
	if u.TierUp[blockType] == nil {
		u.TierUp[blockType] = make(map[int]bool)
	}
	u.TierUp[blockType][tier] = true
}

// UnlockTransmute marks the recipe producing the given output type as
// available.
func (u *StaticUnlocks) UnlockTransmute(output grid.BlockType) {
	if u.Transmute == nil {
		u.Transmute = make(map[grid.BlockType]bool)
	}
	u.Transmute[output] = true
}

// UnlockAdjacency marks adjacency rules with the given trigger type as
// available.
func (u *StaticUnlocks) UnlockAdjacency(trigger grid.BlockType) {
	if u.Adjacency == nil {
		u.Adjacency = make(map[grid.BlockType]bool)
	}
	u.Adjacency[trigger] = true
}
