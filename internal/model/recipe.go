package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	pgvector "github.com/pgvector/pgvector-go"
	"gorm.io/gorm"

	"github.com/pageza/pastry-scaler/backend/internal/scaling"
)

// JSONBStringArray is a custom type for handling string arrays in JSONB
type JSONBStringArray []string

// Value implements the driver.Valuer interface
func (a JSONBStringArray) Value() (driver.Value, error) {
	if len(a) == 0 {
		return "[]", nil
	}
	b, err := json.Marshal(a)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements the sql.Scanner interface
func (a *JSONBStringArray) Scan(value interface{}) error {
	if value == nil {
		*a = JSONBStringArray{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return fmt.Errorf("unsupported type for JSONBStringArray: %T", value)
	}

	return json.Unmarshal(bytes, a)
}

// Recipe is a stored recipe. A recipe fills PanQuantity pans of Pan, or
// declares a serving range, or both.
type Recipe struct {
	ID                  uuid.UUID          `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt           time.Time          `json:"created_at"`
	UpdatedAt           time.Time          `json:"updated_at"`
	DeletedAt           gorm.DeletedAt     `gorm:"index" json:"-"`
	RecipeName          string             `gorm:"size:200;not null;index" json:"recipe_name"`
	ChefName            string             `gorm:"size:200" json:"chef_name,omitempty"`
	Description         string             `gorm:"type:text" json:"description,omitempty"`
	PanID               *uuid.UUID         `gorm:"type:uuid;index" json:"pan_id,omitempty"`
	Pan                 *Pan               `gorm:"constraint:OnDelete:SET NULL" json:"pan,omitempty"`
	PanQuantity         int                `gorm:"not null;default:1" json:"pan_quantity"`
	ServingsMin         *int               `json:"servings_min,omitempty"`
	ServingsMax         *int               `json:"servings_max,omitempty"`
	TotalRecipeQuantity *float64           `json:"total_recipe_quantity,omitempty"`
	Steps               JSONBStringArray   `gorm:"type:jsonb;not null;default:'[]'" json:"steps"`
	ImageURL            string             `gorm:"size:512" json:"image_url,omitempty"`
	Embedding           pgvector.Vector    `gorm:"type:vector(8)" json:"-"`
	Ingredients         []RecipeIngredient `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE" json:"ingredients"`
	SubRecipes          []SubRecipe        `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE" json:"subrecipes"`
}

// BeforeCreate assigns an ID when none was set.
func (r *Recipe) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	if r.PanQuantity < 1 {
		r.PanQuantity = 1
	}
	return nil
}

// BeforeSave keeps the name embedding in sync with the name.
func (r *Recipe) BeforeSave(tx *gorm.DB) error {
	r.Embedding = NameEmbedding(r.RecipeName)
	return nil
}

// RecipeIngredient is one ingredient line of a recipe.
type RecipeIngredient struct {
	ID           uuid.UUID   `gorm:"type:uuid;primaryKey" json:"id"`
	RecipeID     uuid.UUID   `gorm:"type:uuid;not null;index" json:"recipe_id"`
	IngredientID uuid.UUID   `gorm:"type:uuid;not null;index" json:"ingredient_id"`
	Ingredient   *Ingredient `gorm:"constraint:OnDelete:RESTRICT" json:"ingredient,omitempty"`
	Quantity     float64     `gorm:"not null" json:"quantity"`
	Unit         string      `gorm:"size:10;not null" json:"unit"`
	DisplayName  string      `gorm:"size:200" json:"display_name,omitempty"`
	Position     int         `gorm:"not null;default:0" json:"position"`
}

func (ri *RecipeIngredient) BeforeCreate(tx *gorm.DB) error {
	if ri.ID == uuid.Nil {
		ri.ID = uuid.New()
	}
	return nil
}

// SubRecipe links a recipe to another recipe it uses, with the quantity of
// the child's output the parent needs.
type SubRecipe struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	RecipeID    uuid.UUID `gorm:"type:uuid;not null;index" json:"recipe_id"`
	SubRecipeID uuid.UUID `gorm:"type:uuid;not null;index" json:"sub_recipe_id"`
	SubRecipe   *Recipe   `gorm:"foreignKey:SubRecipeID;constraint:OnDelete:RESTRICT" json:"-"`
	Quantity    float64   `gorm:"not null" json:"quantity"`
	Unit        string    `gorm:"size:10;not null" json:"unit"`
	Position    int       `gorm:"not null;default:0" json:"position"`
}

func (SubRecipe) TableName() string {
	return "sub_recipes"
}

func (s *SubRecipe) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// ToScaling converts the recipe's own fields and ingredient lines. Sub-recipe
// links are left to the caller, which owns graph loading.
func (r *Recipe) ToScaling() *scaling.Recipe {
	out := &scaling.Recipe{
		ID:          r.ID,
		Name:        r.RecipeName,
		PanQuantity: r.PanQuantity,
		ServingsMin: r.ServingsMin,
		ServingsMax: r.ServingsMax,
		Ingredients: make([]scaling.IngredientLine, 0, len(r.Ingredients)),
	}
	if r.TotalRecipeQuantity != nil {
		out.TotalQuantity = *r.TotalRecipeQuantity
	}
	if r.Pan != nil {
		p := r.Pan.ToScaling()
		out.Pan = &p
	}
	for _, ri := range r.Ingredients {
		line := scaling.IngredientLine{
			IngredientID: ri.IngredientID,
			DisplayName:  ri.DisplayName,
			Quantity:     ri.Quantity,
			Unit:         ri.Unit,
		}
		if ri.Ingredient != nil {
			line.Name = ri.Ingredient.IngredientName
		}
		out.Ingredients = append(out.Ingredients, line)
	}
	return out
}
