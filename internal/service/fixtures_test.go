package service

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/pageza/pastry-scaler/backend/internal/model"
	"github.com/pageza/pastry-scaler/backend/internal/scaling"
	"github.com/pageza/pastry-scaler/backend/internal/testhelpers"
	"github.com/pageza/pastry-scaler/backend/internal/types"
)

func floatPtr(v float64) *float64 { return &v }
func intPtr(v int) *int           { return &v }

type services struct {
	db          *gorm.DB
	calc        *scaling.Calculator
	cache       *recordingCache
	pans        *PanService
	ingredients *IngredientService
	recipes     *RecipeService
	scaling     *ScalingService
}

func newServices(t *testing.T, db *gorm.DB) *services {
	t.Helper()
	log := zap.NewNop()
	calc := scaling.New(scaling.Config{})
	cache := newRecordingCache()
	pans := NewPanService(db, calc, cache, log)
	recipes := NewRecipeService(db, calc.MaxDepth(), log)
	return &services{
		db:          db,
		calc:        calc,
		cache:       cache,
		pans:        pans,
		ingredients: NewIngredientService(db, log),
		recipes:     recipes,
		scaling:     NewScalingService(calc, pans, recipes, cache, nil, log),
	}
}

func setupServices(t *testing.T) *services {
	return newServices(t, testhelpers.SetupSQLite(t))
}

// bakery holds a small catalogue: two pans, three ingredients, a pastry
// base and a tart that uses it.
type bakery struct {
	cercle, cadre        *model.Pan
	flour, butter, sugar *model.Ingredient
	pate, tarte          *model.Recipe
}

func seedBakery(t *testing.T, s *services) *bakery {
	t.Helper()
	ctx := context.Background()
	b := &bakery{}
	var err error

	b.cercle, err = s.pans.CreatePan(ctx, &model.Pan{
		PanName: "Cercle 20", PanType: "ROUND", Diameter: floatPtr(20), Height: floatPtr(5),
	})
	require.NoError(t, err)
	b.cadre, err = s.pans.CreatePan(ctx, &model.Pan{
		PanName: "Cadre 30x20", PanType: "RECTANGLE", Length: floatPtr(30), Width: floatPtr(20), Height: floatPtr(5),
	})
	require.NoError(t, err)

	for _, ing := range []**model.Ingredient{&b.flour, &b.butter, &b.sugar} {
		*ing = &model.Ingredient{}
	}
	b.flour.IngredientName = "Farine"
	b.butter.IngredientName = "Beurre"
	b.sugar.IngredientName = "Sucre"
	for _, ing := range []*model.Ingredient{b.flour, b.butter, b.sugar} {
		_, err := s.ingredients.CreateIngredient(ctx, ing)
		require.NoError(t, err)
	}

	b.pate, err = s.recipes.CreateRecipe(ctx, (&types.RecipeRequest{
		RecipeName: "Pâte sucrée",
		Ingredients: []types.RecipeIngredientRequest{
			{IngredientID: b.flour.ID, Quantity: 300, Unit: "g"},
			{IngredientID: b.butter.ID, Quantity: 200, Unit: "g"},
		},
	}).ToModel())
	require.NoError(t, err)

	b.tarte, err = s.recipes.CreateRecipe(ctx, (&types.RecipeRequest{
		RecipeName:  "Tarte au citron",
		PanID:       &b.cercle.ID,
		ServingsMin: intPtr(8),
		ServingsMax: intPtr(10),
		Ingredients: []types.RecipeIngredientRequest{
			{IngredientID: b.sugar.ID, Quantity: 100, Unit: "g"},
		},
		SubRecipes: []types.SubRecipeRequest{
			{SubRecipeID: b.pate.ID, Quantity: 250, Unit: "g"},
		},
	}).ToModel())
	require.NoError(t, err)

	return b
}

type recordingCache struct {
	mu            sync.Mutex
	data          map[int][]types.PanSuggestion
	version       int64
	hits, sets    int
	invalidations int
}

func newRecordingCache() *recordingCache {
	return &recordingCache{data: make(map[int][]types.PanSuggestion)}
}

func (c *recordingCache) Get(_ context.Context, target int) ([]types.PanSuggestion, int64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, ok := c.data[target]
	if ok {
		c.hits++
	}
	return s, c.version, ok
}

// Set drops lists computed under an older version, as the redis keys would
// never be read again.
func (c *recordingCache) Set(_ context.Context, version int64, target int, s []types.PanSuggestion) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sets++
	if version != c.version {
		return
	}
	c.data[target] = s
}

func (c *recordingCache) Invalidate(context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.invalidations++
	c.version++
	c.data = make(map[int][]types.PanSuggestion)
}
