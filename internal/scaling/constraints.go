package scaling

import (
	"math"

	"github.com/google/uuid"
)

// ConstraintResult is a recipe adapted to the stock of its scarcest ingredient.
type ConstraintResult struct {
	RecipeID             uuid.UUID          `json:"recipe_id"`
	RecipeName           string             `json:"recipe_name"`
	Multiplier           float64            `json:"multiplier"`
	LimitingIngredientID uuid.UUID          `json:"limiting_ingredient_id"`
	Ingredients          []ScaledIngredient `json:"ingredients"`
	SubRecipes           []*Node            `json:"subrecipes,omitempty"`
	SourceVolume         *float64           `json:"source_volume,omitempty"`
	TargetVolume         *float64           `json:"target_volume,omitempty"`
}

type candidate struct {
	multiplier   float64
	ingredientID uuid.UUID
}

// AdaptByConstraints scales recipe so that no constrained ingredient exceeds
// its available quantity. The smallest available/required ratio wins.
// Only root ingredient lines are considered and scaled unless recursive is
// set, in which case the whole tree is searched and scaled uniformly.
func (c *Calculator) AdaptByConstraints(recipe *Recipe, constraints map[uuid.UUID]float64, recursive bool) (*ConstraintResult, error) {
	if recipe == nil {
		return nil, newError(KindInvalidConstraint, "no recipe given")
	}
	if len(constraints) == 0 {
		return nil, newError(KindInvalidConstraint, "no ingredient constraints given")
	}
	for id, qty := range constraints {
		if qty <= 0 || math.IsNaN(qty) || math.IsInf(qty, 0) {
			return nil, newError(KindInvalidConstraint, "available quantity for ingredient %s must be positive, got %g", id, qty)
		}
	}

	var (
		best  *candidate
		found bool
	)
	if recursive {
		if !hasIngredients(recipe, 0, c.maxDepth) {
			return nil, newError(KindInvalidConstraint, "recipe %q has no ingredients", recipe.Name)
		}
		b, err := c.limitingInTree(recipe, constraints, 0)
		if err != nil {
			return nil, err
		}
		best, found = b, b != nil
	} else {
		if len(recipe.Ingredients) == 0 {
			return nil, newError(KindInvalidConstraint, "recipe %q has no ingredients", recipe.Name)
		}
		best = limitingInLines(recipe.Ingredients, constraints)
		found = best != nil
	}
	if !found {
		return nil, newError(KindNoMatchingIngredient, "none of the constrained ingredients are used by recipe %q", recipe.Name)
	}

	result := &ConstraintResult{
		RecipeID:             recipe.ID,
		RecipeName:           recipe.Name,
		Multiplier:           best.multiplier,
		LimitingIngredientID: best.ingredientID,
	}
	if recursive {
		node, err := c.ScaleUniform(recipe, best.multiplier, ModeConstraint)
		if err != nil {
			return nil, err
		}
		result.Ingredients = node.Ingredients
		result.SubRecipes = node.SubRecipes
	} else {
		result.Ingredients = scaleIngredients(recipe.Ingredients, best.multiplier)
	}

	src, ok, err := c.SourceVolume(recipe)
	if err != nil {
		return nil, err
	}
	if ok {
		s := Round2(src)
		t := Round2(src * best.multiplier)
		result.SourceVolume = &s
		result.TargetVolume = &t
	}
	return result, nil
}

func limitingInLines(lines []IngredientLine, constraints map[uuid.UUID]float64) *candidate {
	var best *candidate
	for _, l := range lines {
		available, ok := constraints[l.IngredientID]
		if !ok || l.Quantity <= 0 {
			continue
		}
		m := available / l.Quantity
		if best == nil || m < best.multiplier {
			best = &candidate{multiplier: m, ingredientID: l.IngredientID}
		}
	}
	return best
}

func (c *Calculator) limitingInTree(recipe *Recipe, constraints map[uuid.UUID]float64, depth int) (*candidate, error) {
	if depth > c.maxDepth {
		return nil, newError(KindNestingTooDeep, "sub-recipes nest deeper than %d levels", c.maxDepth)
	}
	best := limitingInLines(recipe.Ingredients, constraints)
	for _, link := range recipe.SubRecipes {
		if link.Recipe == nil {
			continue
		}
		sub, err := c.limitingInTree(link.Recipe, constraints, depth+1)
		if err != nil {
			return nil, err
		}
		if sub != nil && (best == nil || sub.multiplier < best.multiplier) {
			best = sub
		}
	}
	return best, nil
}

func hasIngredients(recipe *Recipe, depth, maxDepth int) bool {
	if len(recipe.Ingredients) > 0 {
		return true
	}
	if depth >= maxDepth {
		return false
	}
	for _, link := range recipe.SubRecipes {
		if link.Recipe != nil && hasIngredients(link.Recipe, depth+1, maxDepth) {
			return true
		}
	}
	return false
}
