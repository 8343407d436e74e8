package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pageza/pastry-scaler/backend/internal/model"
	"github.com/pageza/pastry-scaler/backend/internal/scaling"
)

// searchDistance is the largest embedding distance still treated as a match
// on postgres.
const searchDistance = 1.0

// RecipeService handles recipe operations
type RecipeService struct {
	db       *gorm.DB
	maxDepth int
	log      *zap.Logger
}

// NewRecipeService creates a new RecipeService instance. maxDepth bounds
// the sub-recipe levels LoadTree follows.
func NewRecipeService(db *gorm.DB, maxDepth int, log *zap.Logger) *RecipeService {
	if maxDepth <= 0 {
		maxDepth = scaling.DefaultMaxDepth
	}
	return &RecipeService{db: db, maxDepth: maxDepth, log: log}
}

// CreateRecipe stores a recipe with its ingredient lines and sub-recipe links
func (s *RecipeService) CreateRecipe(ctx context.Context, recipe *model.Recipe) (*model.Recipe, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if recipe.ID == uuid.Nil {
			recipe.ID = uuid.New()
		}
		if err := s.validate(tx, recipe); err != nil {
			return err
		}
		return tx.Create(recipe).Error
	})
	if err != nil {
		if errors.Is(err, ErrInvalid) {
			return nil, err
		}
		return nil, dbError("create recipe", err)
	}
	s.log.Info("recipe created", zap.String("recipe_id", recipe.ID.String()), zap.String("recipe_name", recipe.RecipeName))
	return s.GetRecipe(ctx, recipe.ID)
}

// GetRecipe retrieves a recipe by ID with its pan and ordered lines
func (s *RecipeService) GetRecipe(ctx context.Context, id uuid.UUID) (*model.Recipe, error) {
	var recipe model.Recipe
	err := s.db.WithContext(ctx).
		Preload("Pan").
		Preload("Ingredients", func(db *gorm.DB) *gorm.DB { return db.Order("position") }).
		Preload("Ingredients.Ingredient").
		Preload("SubRecipes", func(db *gorm.DB) *gorm.DB { return db.Order("position") }).
		First(&recipe, "id = ?", id).Error
	if err != nil {
		return nil, dbError("get recipe", err)
	}
	return &recipe, nil
}

// UpdateRecipe replaces the recipe fields and all of its lines.
func (s *RecipeService) UpdateRecipe(ctx context.Context, id uuid.UUID, recipe *model.Recipe) (*model.Recipe, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing model.Recipe
		if err := tx.First(&existing, "id = ?", id).Error; err != nil {
			return err
		}
		recipe.ID = id
		recipe.CreatedAt = existing.CreatedAt
		if recipe.ImageURL == "" {
			recipe.ImageURL = existing.ImageURL
		}
		if recipe.PanQuantity < 1 {
			recipe.PanQuantity = 1
		}
		if err := s.validate(tx, recipe); err != nil {
			return err
		}

		if err := tx.Where("recipe_id = ?", id).Delete(&model.RecipeIngredient{}).Error; err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", id).Delete(&model.SubRecipe{}).Error; err != nil {
			return err
		}
		if err := tx.Omit(clause.Associations).Save(recipe).Error; err != nil {
			return err
		}
		for i := range recipe.Ingredients {
			recipe.Ingredients[i].ID = uuid.Nil
			recipe.Ingredients[i].RecipeID = id
		}
		for i := range recipe.SubRecipes {
			recipe.SubRecipes[i].ID = uuid.Nil
			recipe.SubRecipes[i].RecipeID = id
		}
		if len(recipe.Ingredients) > 0 {
			if err := tx.Omit("Ingredient").Create(&recipe.Ingredients).Error; err != nil {
				return err
			}
		}
		if len(recipe.SubRecipes) > 0 {
			if err := tx.Omit("SubRecipe").Create(&recipe.SubRecipes).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrInvalid) {
			return nil, err
		}
		return nil, dbError("update recipe", err)
	}
	return s.GetRecipe(ctx, id)
}

// DeleteRecipe deletes a recipe unless another recipe uses it as a sub-recipe
func (s *RecipeService) DeleteRecipe(ctx context.Context, id uuid.UUID) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var recipe model.Recipe
		if err := tx.First(&recipe, "id = ?", id).Error; err != nil {
			return err
		}

		var parents int64
		if err := tx.Model(&model.SubRecipe{}).
			Joins("JOIN recipes ON recipes.id = sub_recipes.recipe_id AND recipes.deleted_at IS NULL").
			Where("sub_recipes.sub_recipe_id = ?", id).
			Count(&parents).Error; err != nil {
			return err
		}
		if parents > 0 {
			return ErrConflict
		}
		return tx.Delete(&recipe).Error
	})
	if errors.Is(err, ErrConflict) {
		return err
	}
	return dbError("delete recipe", err)
}

// ListRecipes returns recipes ordered by name. A non-empty query filters by
// name; on postgres the name embedding also matches close names and orders
// the results by distance.
func (s *RecipeService) ListRecipes(ctx context.Context, query string) ([]*model.Recipe, error) {
	var recipes []*model.Recipe
	dbQuery := s.db.WithContext(ctx).Preload("Pan")

	query = strings.TrimSpace(query)
	if query != "" {
		like := "%" + strings.ToLower(query) + "%"
		if s.db.Dialector.Name() == "postgres" {
			vec := model.NameEmbedding(query)
			dbQuery = dbQuery.
				Where("LOWER(recipe_name) LIKE ? OR embedding <-> ? < ?", like, vec, searchDistance).
				Clauses(clause.OrderBy{
					Expression: clause.Expr{SQL: "embedding <-> ?", Vars: []interface{}{vec}, WithoutParentheses: true},
				})
		} else {
			dbQuery = dbQuery.Where("LOWER(recipe_name) LIKE ?", like)
		}
	}

	if err := dbQuery.Order("recipe_name").Find(&recipes).Error; err != nil {
		return nil, dbError("list recipes", err)
	}
	return recipes, nil
}

// SetImageURL records the storage key of the recipe's image
func (s *RecipeService) SetImageURL(ctx context.Context, id uuid.UUID, imageURL string) error {
	res := s.db.WithContext(ctx).Model(&model.Recipe{}).Where("id = ?", id).Update("image_url", imageURL)
	if res.Error != nil {
		return dbError("set recipe image", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// LoadTree loads a recipe and its sub-recipes as an engine value. Recipes
// reached more than once share one value, so a cycle in the data shows up
// as a cycle in the tree for the scaler to reject.
func (s *RecipeService) LoadTree(ctx context.Context, id uuid.UUID) (*scaling.Recipe, error) {
	return s.loadTree(ctx, id, 0, make(map[uuid.UUID]*scaling.Recipe))
}

func (s *RecipeService) loadTree(ctx context.Context, id uuid.UUID, depth int, loaded map[uuid.UUID]*scaling.Recipe) (*scaling.Recipe, error) {
	if r, ok := loaded[id]; ok {
		return r, nil
	}
	if depth > s.maxDepth {
		return nil, scaling.NewError(scaling.KindNestingTooDeep, "sub-recipes nest deeper than %d levels", s.maxDepth)
	}

	recipe, err := s.GetRecipe(ctx, id)
	if err != nil {
		return nil, err
	}
	out := recipe.ToScaling()
	loaded[id] = out

	for _, link := range recipe.SubRecipes {
		child, err := s.loadTree(ctx, link.SubRecipeID, depth+1, loaded)
		if err != nil {
			return nil, err
		}
		out.SubRecipes = append(out.SubRecipes, scaling.SubRecipeLink{
			Quantity: link.Quantity,
			Unit:     link.Unit,
			Recipe:   child,
		})
	}
	return out, nil
}

// validate enforces the recipe rules the engine relies on and checks that
// every referenced record exists.
func (s *RecipeService) validate(tx *gorm.DB, recipe *model.Recipe) error {
	if strings.TrimSpace(recipe.RecipeName) == "" {
		return invalidf("recipe_name is required")
	}
	if len(recipe.Ingredients) == 0 && len(recipe.SubRecipes) == 0 {
		return invalidf("a recipe needs at least one ingredient or sub-recipe")
	}
	if recipe.ServingsMin != nil && recipe.ServingsMax != nil && *recipe.ServingsMin > *recipe.ServingsMax {
		return invalidf("servings_min (%d) cannot exceed servings_max (%d)", *recipe.ServingsMin, *recipe.ServingsMax)
	}

	if recipe.PanID != nil {
		if err := expectExisting(tx, &model.Pan{}, []uuid.UUID{*recipe.PanID}, "pan"); err != nil {
			return err
		}
	}

	ingredientIDs := make([]uuid.UUID, 0, len(recipe.Ingredients))
	for _, line := range recipe.Ingredients {
		if line.Quantity <= 0 {
			return invalidf("ingredient quantities must be positive")
		}
		ingredientIDs = append(ingredientIDs, line.IngredientID)
	}
	if err := expectExisting(tx, &model.Ingredient{}, ingredientIDs, "ingredient"); err != nil {
		return err
	}

	subIDs := make([]uuid.UUID, 0, len(recipe.SubRecipes))
	for _, link := range recipe.SubRecipes {
		if link.SubRecipeID == recipe.ID {
			return invalidf("a recipe cannot contain itself")
		}
		if link.Quantity <= 0 {
			return invalidf("sub-recipe quantities must be positive")
		}
		subIDs = append(subIDs, link.SubRecipeID)
	}
	return expectExisting(tx, &model.Recipe{}, subIDs, "sub-recipe")
}

func expectExisting(tx *gorm.DB, table interface{}, ids []uuid.UUID, what string) error {
	if len(ids) == 0 {
		return nil
	}
	unique := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		unique[id] = struct{}{}
	}
	distinct := make([]uuid.UUID, 0, len(unique))
	for id := range unique {
		distinct = append(distinct, id)
	}

	var count int64
	if err := tx.Model(table).Where("id IN ?", distinct).Count(&count).Error; err != nil {
		return err
	}
	if int(count) != len(distinct) {
		return invalidf("unknown %s referenced", what)
	}
	return nil
}
