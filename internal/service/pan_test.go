package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/pastry-scaler/backend/internal/model"
	"github.com/pageza/pastry-scaler/backend/internal/scaling"
)

func TestCreatePanComputesVolume(t *testing.T) {
	s := setupServices(t)
	b := seedBakery(t, s)

	assert.Equal(t, "cercle 20", b.cercle.PanName)
	assert.Equal(t, 1570.8, b.cercle.VolumeCM3Cache)
	assert.Equal(t, 3000.0, b.cadre.VolumeCM3Cache)
	assert.Equal(t, 2, s.cache.invalidations)
}

func TestCreatePanCustomPerUnit(t *testing.T) {
	s := setupServices(t)
	pan, err := s.pans.CreatePan(context.Background(), &model.Pan{
		PanName:     "Moule 6 muffins",
		PanType:     "custom",
		VolumeRaw:   floatPtr(0.1),
		Unit:        "L",
		UnitsInMold: 6,
	})
	require.NoError(t, err)
	assert.Equal(t, "CUSTOM", pan.PanType)
	assert.Equal(t, 600.0, pan.VolumeCM3Cache)
}

func TestCreatePanRejectsBadGeometry(t *testing.T) {
	s := setupServices(t)
	_, err := s.pans.CreatePan(context.Background(), &model.Pan{PanName: "Cercle", PanType: "ROUND", Diameter: floatPtr(20)})
	assert.ErrorIs(t, err, scaling.ErrInvalidGeometry)
	assert.Zero(t, s.cache.invalidations)
}

func TestCreatePanDuplicateName(t *testing.T) {
	s := setupServices(t)
	seedBakery(t, s)

	_, err := s.pans.CreatePan(context.Background(), &model.Pan{
		PanName: "  CERCLE 20 ", PanType: "ROUND", Diameter: floatPtr(22), Height: floatPtr(4),
	})
	assert.ErrorIs(t, err, ErrConflict)
}

func TestUpdatePanRefreshesVolume(t *testing.T) {
	s := setupServices(t)
	b := seedBakery(t, s)
	ctx := context.Background()

	updated, err := s.pans.UpdatePan(ctx, b.cadre.ID, &model.Pan{
		PanName: "Cadre 30x20", PanType: "RECTANGLE", Length: floatPtr(30), Width: floatPtr(20), Height: floatPtr(4),
	})
	require.NoError(t, err)
	assert.Equal(t, b.cadre.ID, updated.ID)
	assert.Equal(t, 2400.0, updated.VolumeCM3Cache)

	_, err = s.pans.UpdatePan(ctx, uuid.New(), &model.Pan{PanName: "x", PanType: "ROUND"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeletePanDetachesRecipes(t *testing.T) {
	s := setupServices(t)
	b := seedBakery(t, s)
	ctx := context.Background()

	require.NoError(t, s.pans.DeletePan(ctx, b.cercle.ID))

	recipe, err := s.recipes.GetRecipe(ctx, b.tarte.ID)
	require.NoError(t, err)
	assert.Nil(t, recipe.PanID)

	assert.ErrorIs(t, s.pans.DeletePan(ctx, b.cercle.ID), ErrNotFound)
}

func TestListScalingPans(t *testing.T) {
	s := setupServices(t)
	seedBakery(t, s)

	pans, err := s.pans.ListScalingPans(context.Background())
	require.NoError(t, err)
	require.Len(t, pans, 2)
	assert.Equal(t, "cadre 30x20", pans[0].Name)
	assert.IsType(t, scaling.RectangleShape{}, pans[0].Shape)
	assert.Equal(t, 3000.0, pans[0].VolumeCache)
}

func TestDeleteIngredientInUse(t *testing.T) {
	s := setupServices(t)
	b := seedBakery(t, s)
	ctx := context.Background()

	assert.ErrorIs(t, s.ingredients.DeleteIngredient(ctx, b.flour.ID), ErrConflict)

	unused, err := s.ingredients.CreateIngredient(ctx, &model.Ingredient{IngredientName: "Sel"})
	require.NoError(t, err)
	require.NoError(t, s.ingredients.DeleteIngredient(ctx, unused.ID))
	assert.ErrorIs(t, s.ingredients.DeleteIngredient(ctx, unused.ID), ErrNotFound)

	_, err = s.ingredients.CreateIngredient(ctx, &model.Ingredient{IngredientName: "FARINE"})
	assert.ErrorIs(t, err, ErrConflict)
}
