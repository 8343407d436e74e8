package seed

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/pageza/pastry-scaler/backend/internal/scaling"
	"github.com/pageza/pastry-scaler/backend/internal/service"
	"github.com/pageza/pastry-scaler/backend/internal/testhelpers"
)

func newLoader(t *testing.T) (*Loader, *service.RecipeService, *service.PanService) {
	t.Helper()
	db := testhelpers.SetupSQLite(t)
	log := zap.NewNop()
	calc := scaling.New(scaling.Config{})
	pans := service.NewPanService(db, calc, service.NoopSuggestionCache{}, log)
	recipes := service.NewRecipeService(db, calc.MaxDepth(), log)
	return NewLoader(pans, service.NewIngredientService(db, log), recipes, log), recipes, pans
}

func fixturePath(t *testing.T) string {
	_, file, _, ok := runtime.Caller(0)
	require.True(t, ok)
	return filepath.Join(filepath.Dir(file), "..", "..", "fixtures", "pastry.yaml")
}

func TestLoadRepositoryFixtures(t *testing.T) {
	f, err := os.Open(fixturePath(t))
	require.NoError(t, err)
	defer f.Close()

	cat, err := Parse(f)
	require.NoError(t, err)
	require.Len(t, cat.Pans, 5)

	loader, recipes, pans := newLoader(t)
	ctx := context.Background()

	sum, err := loader.Load(ctx, cat)
	require.NoError(t, err)
	assert.Equal(t, 5+9+4, sum.Created)
	assert.Zero(t, sum.Skipped)

	found, err := recipes.ListRecipes(ctx, "tarte")
	require.NoError(t, err)
	require.Len(t, found, 1)
	tarte, err := recipes.GetRecipe(ctx, found[0].ID)
	require.NoError(t, err)
	require.NotNil(t, tarte.Pan)
	assert.Equal(t, "cercle 22", tarte.Pan.PanName)
	assert.Len(t, tarte.SubRecipes, 2)

	list, err := pans.ListPans(ctx)
	require.NoError(t, err)
	for _, p := range list {
		if p.PanName == "moule 12 financiers" {
			assert.Equal(t, 360.0, p.VolumeCM3Cache)
		}
	}

	again, err := loader.Load(ctx, cat)
	require.NoError(t, err)
	assert.Zero(t, again.Created)
	assert.Equal(t, sum.Created, again.Skipped)
}

func TestParseRejectsUnknownKeys(t *testing.T) {
	_, err := Parse(strings.NewReader("pans:\n  - name: Cercle\n    colour: red\n"))
	assert.Error(t, err)
}

func TestLoadUnknownReference(t *testing.T) {
	cat, err := Parse(strings.NewReader(`
ingredients: [Farine]
recipes:
  - name: Tarte
    subrecipes:
      - { ref: Pâte, quantity: 200, unit: g }
`))
	require.NoError(t, err)

	loader, _, _ := newLoader(t)
	_, err = loader.Load(context.Background(), cat)
	assert.ErrorContains(t, err, `sub-recipe "Pâte" must be defined earlier`)
}
