package model

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/pageza/pastry-scaler/backend/internal/scaling"
)

func f(v float64) *float64 { return &v }

func TestPanShape(t *testing.T) {
	round := Pan{PanType: "round", Diameter: f(20), Height: f(5)}
	assert.Equal(t, scaling.RoundShape{Diameter: 20, Height: 5}, round.Shape())

	square := Pan{PanType: "SQUARE", Length: f(20), Width: f(20), Height: f(4)}
	assert.Equal(t, scaling.RectangleShape{Length: 20, Width: 20, Height: 4}, square.Shape())

	custom := Pan{PanType: "CUSTOM", VolumeRaw: f(1.2), Unit: "L", UnitsInMold: 6}
	assert.Equal(t, scaling.CustomShape{VolumeRaw: 1.2, Unit: "L"}, custom.Shape())

	custom.Unit = ""
	assert.Equal(t, scaling.UnitCM3, custom.Shape().(scaling.CustomShape).Unit)

	assert.Nil(t, (&Pan{PanType: "HEXAGON"}).Shape())
}

func TestPanToScaling(t *testing.T) {
	id := uuid.New()
	p := Pan{ID: id, PanName: "cercle 20", PanType: "ROUND", Diameter: f(20), Height: f(5), UnitsInMold: 1, VolumeCM3Cache: 1570.8}

	sp := p.ToScaling()
	assert.Equal(t, id, sp.ID)
	assert.Equal(t, "cercle 20", sp.Name)
	assert.Equal(t, 1570.8, sp.VolumeCache)
	assert.Equal(t, scaling.PanRound, sp.Shape.Type())
}

func TestNameEmbedding(t *testing.T) {
	a := NameEmbedding("Tarte au citron")
	b := NameEmbedding("tarte  au CITRON")
	assert.Equal(t, a.Slice(), b.Slice())
	assert.Len(t, a.Slice(), EmbeddingDims)

	empty := NameEmbedding("")
	assert.Equal(t, float32(1), empty.Slice()[0])
}

func TestJSONBStringArray(t *testing.T) {
	var a JSONBStringArray
	require.NoError(t, a.Scan(`["mix","bake"]`))
	assert.Equal(t, JSONBStringArray{"mix", "bake"}, a)

	require.NoError(t, a.Scan(nil))
	assert.Empty(t, a)

	v, err := JSONBStringArray{}.Value()
	require.NoError(t, err)
	assert.Equal(t, "[]", v)

	assert.Error(t, a.Scan(42))
}

func TestRecipeRoundTripSQLite(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(All()...))

	pan := Pan{PanName: "  Moule Rond ", PanType: "round", Diameter: f(20), Height: f(5)}
	require.NoError(t, db.Create(&pan).Error)
	assert.Equal(t, "moule rond", pan.PanName)
	assert.Equal(t, "ROUND", pan.PanType)
	assert.Equal(t, 1, pan.UnitsInMold)

	sugar := Ingredient{IngredientName: "Sucre"}
	require.NoError(t, db.Create(&sugar).Error)

	lo, hi := 6, 8
	recipe := Recipe{
		RecipeName:  "Genoise",
		PanID:       &pan.ID,
		ServingsMin: &lo,
		ServingsMax: &hi,
		Steps:       JSONBStringArray{"whisk", "bake"},
		Ingredients: []RecipeIngredient{{IngredientID: sugar.ID, Quantity: 125, Unit: "g"}},
	}
	require.NoError(t, db.Create(&recipe).Error)
	assert.Equal(t, 1, recipe.PanQuantity)

	var loaded Recipe
	require.NoError(t, db.Preload("Pan").Preload("Ingredients.Ingredient").First(&loaded, "id = ?", recipe.ID).Error)
	assert.Equal(t, JSONBStringArray{"whisk", "bake"}, loaded.Steps)
	assert.Equal(t, NameEmbedding("Genoise").Slice(), loaded.Embedding.Slice())

	sr := loaded.ToScaling()
	require.NotNil(t, sr.Pan)
	assert.Equal(t, "moule rond", sr.Pan.Name)
	require.Len(t, sr.Ingredients, 1)
	assert.Equal(t, "sucre", sr.Ingredients[0].Name)
	assert.Equal(t, 7.0, float64(*sr.ServingsMin+*sr.ServingsMax)/2)
}
