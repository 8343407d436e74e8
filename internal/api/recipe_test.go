package api

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/pastry-scaler/backend/internal/model"
)

func TestRecipeEndpoints(t *testing.T) {
	a := setupTestAPI(t)
	f := a.seed(t)

	require.NotNil(t, f.tarte.Pan)
	assert.Equal(t, f.cercle.ID, f.tarte.Pan.ID)
	require.Len(t, f.tarte.SubRecipes, 1)

	w := a.do(t, http.MethodGet, "/api/v1/recipes?q=citron", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list struct {
		Recipes []model.Recipe `json:"recipes"`
	}
	decode(t, w, &list)
	require.Len(t, list.Recipes, 1)
	assert.Equal(t, "Tarte au citron", list.Recipes[0].RecipeName)

	w = a.do(t, http.MethodPut, "/api/v1/recipes/"+f.pate.ID.String(), gin.H{
		"recipe_name": "Pâte sablée",
		"steps":       []string{"Sabler", "Fraser"},
		"ingredients": []gin.H{{"ingredient_id": f.flour.ID, "quantity": 250, "unit": "g"}},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var updated model.Recipe
	decode(t, w, &updated)
	assert.Equal(t, "Pâte sablée", updated.RecipeName)
	assert.Len(t, updated.Ingredients, 1)

	w = a.do(t, http.MethodDelete, "/api/v1/recipes/"+f.pate.ID.String(), nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = a.do(t, http.MethodDelete, "/api/v1/recipes/"+f.tarte.ID.String(), nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = a.do(t, http.MethodGet, "/api/v1/recipes/"+f.tarte.ID.String(), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateRecipeValidation(t *testing.T) {
	a := setupTestAPI(t)
	f := a.seed(t)

	tests := []struct {
		name     string
		body     gin.H
		contains string
	}{
		{
			name:     "missing name",
			body:     gin.H{"ingredients": []gin.H{{"ingredient_id": f.sugar.ID, "quantity": 1, "unit": "g"}}},
			contains: "recipe_name is required",
		},
		{
			name:     "unknown unit",
			body:     gin.H{"recipe_name": "Crème", "ingredients": []gin.H{{"ingredient_id": f.sugar.ID, "quantity": 1, "unit": "pinch"}}},
			contains: "unit",
		},
		{
			name:     "zero quantity",
			body:     gin.H{"recipe_name": "Crème", "ingredients": []gin.H{{"ingredient_id": f.sugar.ID, "quantity": 0, "unit": "g"}}},
			contains: "quantity",
		},
		{
			name: "unknown ingredient",
			body: gin.H{"recipe_name": "Crème", "ingredients": []gin.H{{"ingredient_id": uuid.New(), "quantity": 1, "unit": "g"}}},
		},
		{
			name: "no lines",
			body: gin.H{"recipe_name": "Vide"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := a.do(t, http.MethodPost, "/api/v1/recipes", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
			if tt.contains != "" {
				assert.Contains(t, w.Body.String(), tt.contains)
			}
		})
	}
}
