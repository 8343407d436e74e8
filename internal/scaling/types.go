// Package scaling adapts pastry recipes to a new pan, a new serving count or
// a limited ingredient stock. Everything here is pure computation over an
// already-loaded recipe graph.
package scaling

import (
	"github.com/google/uuid"
)

// PanType names the shape family of a pan.
type PanType string

const (
	PanRound     PanType = "ROUND"
	PanRectangle PanType = "RECTANGLE"
	PanCustom    PanType = "CUSTOM"
)

// Volume units accepted for custom pans.
const (
	UnitCM3   = "cm3"
	UnitLiter = "L"
)

// Shape is one of RoundShape, RectangleShape or CustomShape.
type Shape interface {
	Type() PanType
}

type RoundShape struct {
	Diameter float64
	Height   float64
}

func (RoundShape) Type() PanType { return PanRound }

type RectangleShape struct {
	Length float64
	Width  float64
	Height float64
}

func (RectangleShape) Type() PanType { return PanRectangle }

// CustomShape is a manufacturer-declared volume. IsTotal reports whether
// VolumeRaw already covers every cavity of the mold.
type CustomShape struct {
	VolumeRaw float64
	Unit      string
	IsTotal   bool
}

func (CustomShape) Type() PanType { return PanCustom }

// Pan is a baking mold. VolumeCache is the stored volume in cm³, if any.
type Pan struct {
	ID          uuid.UUID
	Name        string
	Shape       Shape
	UnitsInMold int
	VolumeCache float64
}

// IngredientLine is one ingredient quantity of a recipe.
type IngredientLine struct {
	IngredientID uuid.UUID
	Name         string
	DisplayName  string
	Quantity     float64
	Unit         string
}

// SubRecipeLink says the parent needs Quantity (in Unit) of Recipe's output.
type SubRecipeLink struct {
	Quantity float64
	Unit     string
	Recipe   *Recipe
}

// Recipe is the read-only view of a recipe tree the engine works on.
// PanQuantity and TotalQuantity are unset when zero.
type Recipe struct {
	ID            uuid.UUID
	Name          string
	Pan           *Pan
	PanQuantity   int
	ServingsMin   *int
	ServingsMax   *int
	TotalQuantity float64
	Ingredients   []IngredientLine
	SubRecipes    []SubRecipeLink
}

// Mode records which family of signal drove a scaling.
type Mode string

const (
	ModePan        Mode = "pan"
	ModeServings   Mode = "servings"
	ModeConstraint Mode = "ingredient_constraint"
)

// Targets carries the optional overrides and targets of a scaling request.
// SourcePan and SourceServings replace the recipe's own pan and servings.
type Targets struct {
	SourcePan      *Pan
	TargetPan      *Pan
	SourceServings *int
	TargetServings *int
}

// Servings is an estimated serving range for a volume.
type Servings struct {
	Standard int `json:"standard"`
	Min      int `json:"min"`
	Max      int `json:"max"`
}

// ScaledIngredient is an ingredient line after scaling.
type ScaledIngredient struct {
	IngredientID     uuid.UUID `json:"ingredient_id"`
	IngredientName   string    `json:"ingredient_name"`
	DisplayName      string    `json:"display_name,omitempty"`
	OriginalQuantity float64   `json:"original_quantity"`
	Quantity         float64   `json:"quantity"`
	Unit             string    `json:"unit"`
}

// Node is one level of a scaled recipe tree. Quantity, OriginalQuantity and
// Unit are only set on sub-recipe nodes and describe the link from the parent.
type Node struct {
	RecipeID         uuid.UUID          `json:"recipe_id"`
	RecipeName       string             `json:"recipe_name"`
	Multiplier       float64            `json:"scaling_multiplier"`
	Mode             Mode               `json:"scaling_mode"`
	Quantity         *float64           `json:"quantity,omitempty"`
	OriginalQuantity *float64           `json:"original_quantity,omitempty"`
	Unit             string             `json:"unit,omitempty"`
	Ingredients      []ScaledIngredient `json:"ingredients"`
	SubRecipes       []*Node            `json:"subrecipes"`
}
