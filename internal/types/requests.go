package types

import (
	"github.com/google/uuid"

	"github.com/pageza/pastry-scaler/backend/internal/model"
)

// PanRequest is the body for creating or replacing a pan
type PanRequest struct {
	PanName       string   `json:"pan_name" binding:"required,max=200"`
	PanBrand      string   `json:"pan_brand" binding:"max=100"`
	PanType       string   `json:"pan_type" binding:"required,pan_type"`
	Diameter      *float64 `json:"diameter" binding:"omitempty,gt=0"`
	Height        *float64 `json:"height" binding:"omitempty,gt=0"`
	Length        *float64 `json:"length" binding:"omitempty,gt=0"`
	Width         *float64 `json:"width" binding:"omitempty,gt=0"`
	VolumeRaw     *float64 `json:"volume_raw" binding:"omitempty,gt=0"`
	Unit          string   `json:"unit" binding:"omitempty,volume_unit"`
	IsTotalVolume bool     `json:"is_total_volume"`
	UnitsInMold   int      `json:"units_in_mold" binding:"omitempty,min=1"`
}

func (r *PanRequest) ToModel() *model.Pan {
	return &model.Pan{
		PanName:       r.PanName,
		PanBrand:      r.PanBrand,
		PanType:       r.PanType,
		Diameter:      r.Diameter,
		Height:        r.Height,
		Length:        r.Length,
		Width:         r.Width,
		VolumeRaw:     r.VolumeRaw,
		Unit:          r.Unit,
		IsTotalVolume: r.IsTotalVolume,
		UnitsInMold:   r.UnitsInMold,
	}
}

// IngredientRequest is the body for creating an ingredient
type IngredientRequest struct {
	IngredientName string `json:"ingredient_name" binding:"required,max=200"`
}

func (r *IngredientRequest) ToModel() *model.Ingredient {
	return &model.Ingredient{IngredientName: r.IngredientName}
}

type RecipeIngredientRequest struct {
	IngredientID uuid.UUID `json:"ingredient_id" binding:"required"`
	Quantity     float64   `json:"quantity" binding:"required,gt=0"`
	Unit         string    `json:"unit" binding:"required,unit"`
	DisplayName  string    `json:"display_name" binding:"max=200"`
}

type SubRecipeRequest struct {
	SubRecipeID uuid.UUID `json:"sub_recipe_id" binding:"required"`
	Quantity    float64   `json:"quantity" binding:"required,gt=0"`
	Unit        string    `json:"unit" binding:"required,unit"`
}

// RecipeRequest is the body for creating or replacing a recipe. Lines keep
// the order they are sent in.
type RecipeRequest struct {
	RecipeName          string                    `json:"recipe_name" binding:"required,max=200"`
	ChefName            string                    `json:"chef_name" binding:"max=200"`
	Description         string                    `json:"description"`
	PanID               *uuid.UUID                `json:"pan_id"`
	PanQuantity         int                       `json:"pan_quantity" binding:"omitempty,min=1"`
	ServingsMin         *int                      `json:"servings_min" binding:"omitempty,min=1"`
	ServingsMax         *int                      `json:"servings_max" binding:"omitempty,min=1"`
	TotalRecipeQuantity *float64                  `json:"total_recipe_quantity" binding:"omitempty,gt=0"`
	Steps               []string                  `json:"steps"`
	Ingredients         []RecipeIngredientRequest `json:"ingredients" binding:"dive"`
	SubRecipes          []SubRecipeRequest        `json:"subrecipes" binding:"dive"`
}

func (r *RecipeRequest) ToModel() *model.Recipe {
	recipe := &model.Recipe{
		RecipeName:          r.RecipeName,
		ChefName:            r.ChefName,
		Description:         r.Description,
		PanID:               r.PanID,
		PanQuantity:         r.PanQuantity,
		ServingsMin:         r.ServingsMin,
		ServingsMax:         r.ServingsMax,
		TotalRecipeQuantity: r.TotalRecipeQuantity,
		Steps:               model.JSONBStringArray(r.Steps),
	}
	for i, ing := range r.Ingredients {
		recipe.Ingredients = append(recipe.Ingredients, model.RecipeIngredient{
			IngredientID: ing.IngredientID,
			Quantity:     ing.Quantity,
			Unit:         ing.Unit,
			DisplayName:  ing.DisplayName,
			Position:     i,
		})
	}
	for i, sub := range r.SubRecipes {
		recipe.SubRecipes = append(recipe.SubRecipes, model.SubRecipe{
			SubRecipeID: sub.SubRecipeID,
			Quantity:    sub.Quantity,
			Unit:        sub.Unit,
			Position:    i,
		})
	}
	return recipe
}

// AdaptRecipeRequest is the body of POST /recipes/adapt/
type AdaptRecipeRequest struct {
	RecipeID        *uuid.UUID `json:"recipe_id" binding:"required"`
	SourcePanID     *uuid.UUID `json:"source_pan_id"`
	TargetPanID     *uuid.UUID `json:"target_pan_id"`
	InitialServings *int       `json:"initial_servings"`
	TargetServings  *int       `json:"target_servings"`
}

// PanEstimationRequest names a stored pan or describes one inline.
type PanEstimationRequest struct {
	PanID         *uuid.UUID `json:"pan_id"`
	PanType       string     `json:"pan_type" binding:"omitempty,pan_type"`
	Diameter      *float64   `json:"diameter"`
	Height        *float64   `json:"height"`
	Length        *float64   `json:"length"`
	Width         *float64   `json:"width"`
	VolumeRaw     *float64   `json:"volume_raw"`
	Unit          string     `json:"unit" binding:"omitempty,volume_unit"`
	UnitsInMold   *int       `json:"units_in_mold" binding:"omitempty,min=1"`
	IsTotalVolume bool       `json:"is_total_volume"`
}

// IsEmpty reports whether the request carries neither a pan id nor any
// dimension.
func (r *PanEstimationRequest) IsEmpty() bool {
	return r.PanID == nil && r.PanType == "" && r.Diameter == nil && r.Height == nil &&
		r.Length == nil && r.Width == nil && r.VolumeRaw == nil
}

// ToModel builds an unsaved pan from the inline dimensions. A missing type
// with a raw volume means a custom pan.
func (r *PanEstimationRequest) ToModel() *model.Pan {
	panType := r.PanType
	if panType == "" && r.VolumeRaw != nil {
		panType = "CUSTOM"
	}
	units := 1
	if r.UnitsInMold != nil {
		units = *r.UnitsInMold
	}
	return &model.Pan{
		PanType:       panType,
		Diameter:      r.Diameter,
		Height:        r.Height,
		Length:        r.Length,
		Width:         r.Width,
		VolumeRaw:     r.VolumeRaw,
		Unit:          r.Unit,
		IsTotalVolume: r.IsTotalVolume,
		UnitsInMold:   units,
	}
}

type PanSuggestionRequest struct {
	TargetServings *int `json:"target_servings" binding:"required"`
}

// AdaptByIngredientRequest is the body of POST /recipes/adapt/by-ingredient/.
// Constraint keys are ingredient ids.
type AdaptByIngredientRequest struct {
	RecipeID              *uuid.UUID         `json:"recipe_id" binding:"required"`
	IngredientConstraints map[string]float64 `json:"ingredient_constraints" binding:"required"`
	Recursive             bool               `json:"recursive"`
}
