package scaling

import (
	"github.com/google/uuid"
)

// Scale resolves the root multiplier for recipe and applies it to the whole
// tree. Each sub-recipe gets its own multiplier from the quantity its parent
// needs and the sub-recipe's own yield.
func (c *Calculator) Scale(recipe *Recipe, t Targets) (*Node, error) {
	res, err := c.Resolve(recipe, t)
	if err != nil {
		return nil, err
	}
	return c.ScaleWithMultiplier(recipe, res.Multiplier, res.Mode)
}

// ScaleWithMultiplier scales recipe by multiplier at the root and derives
// sub-recipe multipliers from their links.
func (c *Calculator) ScaleWithMultiplier(recipe *Recipe, multiplier float64, mode Mode) (*Node, error) {
	if recipe == nil {
		return nil, newError(KindUnresolvable, "no recipe given")
	}
	w := walker{calc: c, mode: mode, child: derivedMultiplier, path: map[uuid.UUID]bool{}}
	return w.walk(recipe, multiplier, 0)
}

// ScaleUniform applies the same multiplier to every level of the tree.
func (c *Calculator) ScaleUniform(recipe *Recipe, multiplier float64, mode Mode) (*Node, error) {
	if recipe == nil {
		return nil, newError(KindUnresolvable, "no recipe given")
	}
	w := walker{calc: c, mode: mode, child: uniformMultiplier, path: map[uuid.UUID]bool{}}
	return w.walk(recipe, multiplier, 0)
}

type childMultiplierFunc func(c *Calculator, link SubRecipeLink, parent float64) (float64, error)

type walker struct {
	calc  *Calculator
	mode  Mode
	child childMultiplierFunc
	path  map[uuid.UUID]bool
}

func (w *walker) walk(recipe *Recipe, multiplier float64, depth int) (*Node, error) {
	if depth > w.calc.maxDepth {
		return nil, newError(KindNestingTooDeep, "sub-recipes nest deeper than %d levels", w.calc.maxDepth)
	}
	if recipe.ID != uuid.Nil {
		if w.path[recipe.ID] {
			return nil, newError(KindNestingTooDeep, "recipe %q contains itself", recipe.Name)
		}
		w.path[recipe.ID] = true
		defer delete(w.path, recipe.ID)
	}

	node := &Node{
		RecipeID:    recipe.ID,
		RecipeName:  recipe.Name,
		Multiplier:  multiplier,
		Mode:        w.mode,
		Ingredients: scaleIngredients(recipe.Ingredients, multiplier),
		SubRecipes:  make([]*Node, 0, len(recipe.SubRecipes)),
	}

	for _, link := range recipe.SubRecipes {
		if link.Recipe == nil {
			continue
		}
		childMult, err := w.child(w.calc, link, multiplier)
		if err != nil {
			return nil, err
		}
		child, err := w.walk(link.Recipe, childMult, depth+1)
		if err != nil {
			return nil, err
		}
		scaled := Round2(link.Quantity * multiplier)
		original := link.Quantity
		child.Quantity = &scaled
		child.OriginalQuantity = &original
		child.Unit = link.Unit
		node.SubRecipes = append(node.SubRecipes, child)
	}
	return node, nil
}

func scaleIngredients(lines []IngredientLine, multiplier float64) []ScaledIngredient {
	out := make([]ScaledIngredient, 0, len(lines))
	for _, l := range lines {
		out = append(out, ScaledIngredient{
			IngredientID:     l.IngredientID,
			IngredientName:   l.Name,
			DisplayName:      l.DisplayName,
			OriginalQuantity: l.Quantity,
			Quantity:         Round2(l.Quantity * multiplier),
			Unit:             l.Unit,
		})
	}
	return out
}

func derivedMultiplier(c *Calculator, link SubRecipeLink, parent float64) (float64, error) {
	need, ok := BaseAmount(link.Quantity, link.Unit)
	if !ok {
		return 0, newError(KindUnresolvable, "sub-recipe %q is needed in %q, which cannot be compared with what it yields", link.Recipe.Name, link.Unit)
	}
	yield, err := c.Yield(link.Recipe)
	if err != nil {
		return 0, err
	}
	return need * parent / yield, nil
}

func uniformMultiplier(_ *Calculator, _ SubRecipeLink, parent float64) (float64, error) {
	return parent, nil
}

// Yield is what one unscaled batch of recipe produces, in grams with 1 g
// taken as 1 ml: the declared total quantity, else the volume of its own
// pan, else the sum of its ingredient lines and sub-recipe links. The sum
// only applies when every line is a mass or a volume.
func (c *Calculator) Yield(recipe *Recipe) (float64, error) {
	if recipe.TotalQuantity > 0 {
		return recipe.TotalQuantity, nil
	}
	if recipe.Pan != nil {
		return c.sourcePanVolume(recipe, *recipe.Pan)
	}

	var sum float64
	for _, l := range recipe.Ingredients {
		v, ok := BaseAmount(l.Quantity, l.Unit)
		if !ok {
			return 0, newError(KindUnresolvable, "cannot derive the yield of %q: %q is measured in %q", recipe.Name, l.Name, l.Unit)
		}
		sum += v
	}
	for _, link := range recipe.SubRecipes {
		v, ok := BaseAmount(link.Quantity, link.Unit)
		if !ok {
			return 0, newError(KindUnresolvable, "cannot derive the yield of %q: a sub-recipe is measured in %q", recipe.Name, link.Unit)
		}
		sum += v
	}
	if sum <= 0 {
		return 0, newError(KindUnresolvable, "sub-recipe %q declares no yield to scale against", recipe.Name)
	}
	return sum, nil
}
