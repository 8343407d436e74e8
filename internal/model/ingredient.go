package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Ingredient struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
	IngredientName string    `gorm:"size:200;not null;uniqueIndex" json:"ingredient_name"`
}

func (i *Ingredient) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

func (i *Ingredient) BeforeSave(tx *gorm.DB) error {
	i.IngredientName = strings.ToLower(strings.TrimSpace(i.IngredientName))
	return nil
}

// All lists every model, in dependency order, for auto-migration.
func All() []interface{} {
	return []interface{}{
		&Pan{},
		&Ingredient{},
		&Recipe{},
		&RecipeIngredient{},
		&SubRecipe{},
	}
}
