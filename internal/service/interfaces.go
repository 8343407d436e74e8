package service

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/pageza/pastry-scaler/backend/internal/model"
	"github.com/pageza/pastry-scaler/backend/internal/scaling"
	"github.com/pageza/pastry-scaler/backend/internal/types"
)

// IPanService defines the interface for pan operations
type IPanService interface {
	CreatePan(ctx context.Context, pan *model.Pan) (*model.Pan, error)
	GetPan(ctx context.Context, id uuid.UUID) (*model.Pan, error)
	ListPans(ctx context.Context) ([]*model.Pan, error)
	UpdatePan(ctx context.Context, id uuid.UUID, pan *model.Pan) (*model.Pan, error)
	DeletePan(ctx context.Context, id uuid.UUID) error
	GetScalingPan(ctx context.Context, id uuid.UUID) (scaling.Pan, error)
	ListScalingPans(ctx context.Context) ([]scaling.Pan, error)
}

// IIngredientService defines the interface for ingredient operations
type IIngredientService interface {
	CreateIngredient(ctx context.Context, ingredient *model.Ingredient) (*model.Ingredient, error)
	GetIngredient(ctx context.Context, id uuid.UUID) (*model.Ingredient, error)
	ListIngredients(ctx context.Context) ([]*model.Ingredient, error)
	DeleteIngredient(ctx context.Context, id uuid.UUID) error
}

// IRecipeService defines the interface for recipe operations
type IRecipeService interface {
	CreateRecipe(ctx context.Context, recipe *model.Recipe) (*model.Recipe, error)
	GetRecipe(ctx context.Context, id uuid.UUID) (*model.Recipe, error)
	UpdateRecipe(ctx context.Context, id uuid.UUID, recipe *model.Recipe) (*model.Recipe, error)
	DeleteRecipe(ctx context.Context, id uuid.UUID) error
	ListRecipes(ctx context.Context, query string) ([]*model.Recipe, error)
	LoadTree(ctx context.Context, id uuid.UUID) (*scaling.Recipe, error)
	SetImageURL(ctx context.Context, id uuid.UUID, imageURL string) error
}

// IScalingService defines the interface for the scaling endpoints
type IScalingService interface {
	AdaptRecipe(ctx context.Context, req *types.AdaptRecipeRequest) (*types.AdaptRecipeResponse, error)
	EstimatePan(ctx context.Context, req *types.PanEstimationRequest) (*types.PanEstimationResponse, error)
	SuggestPans(ctx context.Context, targetServings int) ([]types.PanSuggestion, error)
	AdaptByIngredient(ctx context.Context, req *types.AdaptByIngredientRequest) (*scaling.ConstraintResult, error)
}

// IImageService defines the interface for recipe image storage
type IImageService interface {
	UploadRecipeImage(ctx context.Context, recipeID uuid.UUID, filename, contentType string, body io.Reader) (*types.RecipeImageResponse, error)
}

// ObjectStore is the subset of an S3 bucket the image service needs.
type ObjectStore interface {
	PutObject(ctx context.Context, key, contentType string, body io.Reader) error
	GeneratePresignedURL(ctx context.Context, key string, ttl time.Duration) (string, error)
}
