package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/pageza/pastry-scaler/backend/internal/model"
	"github.com/pageza/pastry-scaler/backend/internal/scaling"
	"github.com/pageza/pastry-scaler/backend/internal/service"
	"github.com/pageza/pastry-scaler/backend/internal/testhelpers"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// testAPI is a gin engine wired to sqlite-backed services.
type testAPI struct {
	router      *gin.Engine
	pans        *service.PanService
	ingredients *service.IngredientService
	recipes     *service.RecipeService
}

func setupTestAPI(t *testing.T) *testAPI {
	t.Helper()
	db := testhelpers.SetupSQLite(t)
	log := zap.NewNop()
	calc := scaling.New(scaling.Config{})
	cache := service.NoopSuggestionCache{}

	pans := service.NewPanService(db, calc, cache, log)
	ingredients := service.NewIngredientService(db, log)
	recipes := service.NewRecipeService(db, calc.MaxDepth(), log)
	scalingSvc := service.NewScalingService(calc, pans, recipes, cache, nil, log)

	router := gin.New()
	v1 := router.Group("/api/v1")
	NewPanHandler(pans, log).RegisterRoutes(v1)
	NewIngredientHandler(ingredients, log).RegisterRoutes(v1)
	NewRecipeHandler(recipes, log).RegisterRoutes(v1)
	NewScalingHandler(scalingSvc, nil, log).RegisterRoutes(v1)

	return &testAPI{router: router, pans: pans, ingredients: ingredients, recipes: recipes}
}

func (a *testAPI) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	return serve(t, a.router, method, path, body)
}

func serve(t *testing.T, router http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if raw, ok := body.(string); ok {
			buf.WriteString(raw)
		} else {
			require.NoError(t, json.NewEncoder(&buf).Encode(body))
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), out))
}

func floatPtr(v float64) *float64 { return &v }

// fixtures mirrors a small pastry kitchen: a round ring, a frame, and a
// lemon tart built on a sweet crust.
type fixtures struct {
	cercle, cadre *model.Pan
	flour, butter *model.Ingredient
	sugar         *model.Ingredient
	pate, tarte   *model.Recipe
}

func (a *testAPI) seed(t *testing.T) *fixtures {
	t.Helper()
	f := &fixtures{}

	w := a.do(t, http.MethodPost, "/api/v1/pans", gin.H{
		"pan_name": "Cercle 20", "pan_type": "round", "diameter": 20, "height": 5,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	decode(t, w, &f.cercle)

	w = a.do(t, http.MethodPost, "/api/v1/pans", gin.H{
		"pan_name": "Cadre 30x20", "pan_type": "RECTANGLE", "length": 30, "width": 20, "height": 5,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	decode(t, w, &f.cadre)

	for name, dst := range map[string]**model.Ingredient{"Farine": &f.flour, "Beurre": &f.butter, "Sucre": &f.sugar} {
		w = a.do(t, http.MethodPost, "/api/v1/ingredients", gin.H{"ingredient_name": name})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		decode(t, w, dst)
	}

	w = a.do(t, http.MethodPost, "/api/v1/recipes", gin.H{
		"recipe_name": "Pâte sucrée",
		"ingredients": []gin.H{
			{"ingredient_id": f.flour.ID, "quantity": 300, "unit": "g"},
			{"ingredient_id": f.butter.ID, "quantity": 200, "unit": "g"},
		},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	decode(t, w, &f.pate)

	w = a.do(t, http.MethodPost, "/api/v1/recipes", gin.H{
		"recipe_name":  "Tarte au citron",
		"pan_id":       f.cercle.ID,
		"servings_min": 8,
		"servings_max": 10,
		"ingredients":  []gin.H{{"ingredient_id": f.sugar.ID, "quantity": 100, "unit": "g"}},
		"subrecipes":   []gin.H{{"sub_recipe_id": f.pate.ID, "quantity": 250, "unit": "g"}},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	decode(t, w, &f.tarte)

	return f
}
