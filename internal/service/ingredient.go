package service

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/pageza/pastry-scaler/backend/internal/model"
)

// IngredientService handles ingredient operations
type IngredientService struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewIngredientService(db *gorm.DB, log *zap.Logger) *IngredientService {
	return &IngredientService{db: db, log: log}
}

func (s *IngredientService) CreateIngredient(ctx context.Context, ingredient *model.Ingredient) (*model.Ingredient, error) {
	if err := s.db.WithContext(ctx).Create(ingredient).Error; err != nil {
		return nil, dbError("create ingredient", err)
	}
	return ingredient, nil
}

func (s *IngredientService) GetIngredient(ctx context.Context, id uuid.UUID) (*model.Ingredient, error) {
	var ingredient model.Ingredient
	if err := s.db.WithContext(ctx).First(&ingredient, "id = ?", id).Error; err != nil {
		return nil, dbError("get ingredient", err)
	}
	return &ingredient, nil
}

func (s *IngredientService) ListIngredients(ctx context.Context) ([]*model.Ingredient, error) {
	var ingredients []*model.Ingredient
	if err := s.db.WithContext(ctx).Order("ingredient_name").Find(&ingredients).Error; err != nil {
		return nil, dbError("list ingredients", err)
	}
	return ingredients, nil
}

// DeleteIngredient refuses to delete an ingredient used by a recipe.
func (s *IngredientService) DeleteIngredient(ctx context.Context, id uuid.UUID) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var used int64
		if err := tx.Model(&model.RecipeIngredient{}).Where("ingredient_id = ?", id).Count(&used).Error; err != nil {
			return err
		}
		if used > 0 {
			return ErrConflict
		}
		res := tx.Delete(&model.Ingredient{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if err == ErrConflict {
		s.log.Debug("ingredient still in use", zap.String("ingredient_id", id.String()))
		return err
	}
	return dbError("delete ingredient", err)
}
