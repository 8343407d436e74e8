// Package seed loads a YAML catalogue of pans, ingredients and recipes
// through the regular services, so every record gets the same validation
// and volume caching as one created over HTTP.
package seed

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/pageza/pastry-scaler/backend/internal/model"
	"github.com/pageza/pastry-scaler/backend/internal/service"
	"github.com/pageza/pastry-scaler/backend/internal/types"
)

// Catalogue is the fixture file layout. Recipes reference pans,
// ingredients and earlier recipes by name.
type Catalogue struct {
	Pans        []Pan    `yaml:"pans"`
	Ingredients []string `yaml:"ingredients"`
	Recipes     []Recipe `yaml:"recipes"`
}

type Pan struct {
	Name          string   `yaml:"name"`
	Brand         string   `yaml:"brand"`
	Type          string   `yaml:"type"`
	Diameter      *float64 `yaml:"diameter"`
	Height        *float64 `yaml:"height"`
	Length        *float64 `yaml:"length"`
	Width         *float64 `yaml:"width"`
	Volume        *float64 `yaml:"volume"`
	Unit          string   `yaml:"unit"`
	IsTotalVolume bool     `yaml:"is_total_volume"`
	UnitsInMold   int      `yaml:"units_in_mold"`
}

func (p Pan) model() *model.Pan {
	return &model.Pan{
		PanName:       p.Name,
		PanBrand:      p.Brand,
		PanType:       p.Type,
		Diameter:      p.Diameter,
		Height:        p.Height,
		Length:        p.Length,
		Width:         p.Width,
		VolumeRaw:     p.Volume,
		Unit:          p.Unit,
		IsTotalVolume: p.IsTotalVolume,
		UnitsInMold:   p.UnitsInMold,
	}
}

type Recipe struct {
	Name                string   `yaml:"name"`
	Chef                string   `yaml:"chef"`
	Description         string   `yaml:"description"`
	Pan                 string   `yaml:"pan"`
	PanQuantity         int      `yaml:"pan_quantity"`
	ServingsMin         *int     `yaml:"servings_min"`
	ServingsMax         *int     `yaml:"servings_max"`
	TotalRecipeQuantity *float64 `yaml:"total_recipe_quantity"`
	Steps               []string `yaml:"steps"`
	Ingredients         []Line   `yaml:"ingredients"`
	SubRecipes          []Line   `yaml:"subrecipes"`
}

// Line is an ingredient or sub-recipe line; Ref names the referenced record.
type Line struct {
	Ref         string  `yaml:"ref"`
	Quantity    float64 `yaml:"quantity"`
	Unit        string  `yaml:"unit"`
	DisplayName string  `yaml:"display_name"`
}

// Parse decodes a catalogue, rejecting unknown keys.
func Parse(r io.Reader) (*Catalogue, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var c Catalogue
	if err := dec.Decode(&c); err != nil {
		return nil, fmt.Errorf("failed to parse catalogue: %w", err)
	}
	return &c, nil
}

// Summary counts what a Load created and skipped.
type Summary struct {
	Created int
	Skipped int
}

// Loader writes a catalogue through the services.
type Loader struct {
	pans        service.IPanService
	ingredients service.IIngredientService
	recipes     service.IRecipeService
	log         *zap.Logger
}

func NewLoader(pans service.IPanService, ingredients service.IIngredientService, recipes service.IRecipeService, log *zap.Logger) *Loader {
	return &Loader{pans: pans, ingredients: ingredients, recipes: recipes, log: log}
}

func key(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Load creates every record of c that does not exist yet. Records are
// matched by case-insensitive name, so running it twice is harmless.
func (l *Loader) Load(ctx context.Context, c *Catalogue) (Summary, error) {
	var sum Summary

	pans, err := l.existingPans(ctx)
	if err != nil {
		return sum, err
	}
	for _, p := range c.Pans {
		if _, ok := pans[key(p.Name)]; ok {
			sum.Skipped++
			continue
		}
		pan, err := l.pans.CreatePan(ctx, p.model())
		if err != nil {
			return sum, fmt.Errorf("pan %q: %w", p.Name, err)
		}
		pans[key(pan.PanName)] = pan.ID
		sum.Created++
	}

	ingredients, err := l.existingIngredients(ctx)
	if err != nil {
		return sum, err
	}
	for _, name := range c.Ingredients {
		if _, ok := ingredients[key(name)]; ok {
			sum.Skipped++
			continue
		}
		ing, err := l.ingredients.CreateIngredient(ctx, &model.Ingredient{IngredientName: name})
		if err != nil {
			return sum, fmt.Errorf("ingredient %q: %w", name, err)
		}
		ingredients[key(ing.IngredientName)] = ing.ID
		sum.Created++
	}

	recipes, err := l.existingRecipes(ctx)
	if err != nil {
		return sum, err
	}
	for _, r := range c.Recipes {
		if _, ok := recipes[key(r.Name)]; ok {
			sum.Skipped++
			continue
		}
		req, err := r.request(pans, ingredients, recipes)
		if err != nil {
			return sum, err
		}
		recipe, err := l.recipes.CreateRecipe(ctx, req.ToModel())
		if err != nil {
			return sum, fmt.Errorf("recipe %q: %w", r.Name, err)
		}
		recipes[key(recipe.RecipeName)] = recipe.ID
		sum.Created++
	}

	l.log.Info("catalogue loaded", zap.Int("created", sum.Created), zap.Int("skipped", sum.Skipped))
	return sum, nil
}

func (r Recipe) request(pans, ingredients, recipes map[string]uuid.UUID) (*types.RecipeRequest, error) {
	req := &types.RecipeRequest{
		RecipeName:          r.Name,
		ChefName:            r.Chef,
		Description:         r.Description,
		PanQuantity:         r.PanQuantity,
		ServingsMin:         r.ServingsMin,
		ServingsMax:         r.ServingsMax,
		TotalRecipeQuantity: r.TotalRecipeQuantity,
		Steps:               r.Steps,
	}
	if r.Pan != "" {
		id, ok := pans[key(r.Pan)]
		if !ok {
			return nil, fmt.Errorf("recipe %q: unknown pan %q", r.Name, r.Pan)
		}
		req.PanID = &id
	}
	for _, line := range r.Ingredients {
		id, ok := ingredients[key(line.Ref)]
		if !ok {
			return nil, fmt.Errorf("recipe %q: unknown ingredient %q", r.Name, line.Ref)
		}
		req.Ingredients = append(req.Ingredients, types.RecipeIngredientRequest{
			IngredientID: id,
			Quantity:     line.Quantity,
			Unit:         line.Unit,
			DisplayName:  line.DisplayName,
		})
	}
	for _, line := range r.SubRecipes {
		id, ok := recipes[key(line.Ref)]
		if !ok {
			return nil, fmt.Errorf("recipe %q: sub-recipe %q must be defined earlier", r.Name, line.Ref)
		}
		req.SubRecipes = append(req.SubRecipes, types.SubRecipeRequest{
			SubRecipeID: id,
			Quantity:    line.Quantity,
			Unit:        line.Unit,
		})
	}
	return req, nil
}

func (l *Loader) existingPans(ctx context.Context) (map[string]uuid.UUID, error) {
	list, err := l.pans.ListPans(ctx)
	if err != nil {
		return nil, err
	}
	out := make(map[string]uuid.UUID, len(list))
	for _, p := range list {
		out[key(p.PanName)] = p.ID
	}
	return out, nil
}

func (l *Loader) existingIngredients(ctx context.Context) (map[string]uuid.UUID, error) {
	list, err := l.ingredients.ListIngredients(ctx)
	if err != nil {
		return nil, err
	}
	out := make(map[string]uuid.UUID, len(list))
	for _, i := range list {
		out[key(i.IngredientName)] = i.ID
	}
	return out, nil
}

func (l *Loader) existingRecipes(ctx context.Context) (map[string]uuid.UUID, error) {
	list, err := l.recipes.ListRecipes(ctx, "")
	if err != nil {
		return nil, err
	}
	out := make(map[string]uuid.UUID, len(list))
	for _, r := range list {
		out[key(r.RecipeName)] = r.ID
	}
	return out, nil
}
