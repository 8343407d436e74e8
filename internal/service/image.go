package service

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pageza/pastry-scaler/backend/internal/types"
)

var imageExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

// ImageService stores recipe pictures in an object store
type ImageService struct {
	store      ObjectStore
	recipes    IRecipeService
	presignTTL time.Duration
	log        *zap.Logger
}

// NewImageService creates a new ImageService instance. A nil store makes
// every upload fail with ErrStorageDisabled.
func NewImageService(store ObjectStore, recipes IRecipeService, presignTTL time.Duration, log *zap.Logger) *ImageService {
	if presignTTL <= 0 {
		presignTTL = 15 * time.Minute
	}
	return &ImageService{store: store, recipes: recipes, presignTTL: presignTTL, log: log}
}

// UploadRecipeImage stores body under recipes/<id>/<uuid><ext>, records the
// key on the recipe and returns a presigned download URL.
func (s *ImageService) UploadRecipeImage(ctx context.Context, recipeID uuid.UUID, filename, contentType string, body io.Reader) (*types.RecipeImageResponse, error) {
	if s.store == nil {
		return nil, ErrStorageDisabled
	}

	contentType = strings.ToLower(strings.TrimSpace(strings.SplitN(contentType, ";", 2)[0]))
	ext, ok := imageExtensions[contentType]
	if !ok {
		return nil, invalidf("unsupported image type %q", contentType)
	}
	if fileExt := strings.ToLower(path.Ext(filename)); fileExt == ".jpeg" || fileExt == ext {
		ext = fileExt
	}

	if _, err := s.recipes.GetRecipe(ctx, recipeID); err != nil {
		return nil, err
	}

	key := fmt.Sprintf("recipes/%s/%s%s", recipeID, uuid.NewString(), ext)
	if err := s.store.PutObject(ctx, key, contentType, body); err != nil {
		return nil, err
	}
	if err := s.recipes.SetImageURL(ctx, recipeID, key); err != nil {
		return nil, err
	}

	url, err := s.store.GeneratePresignedURL(ctx, key, s.presignTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to presign %s: %w", key, err)
	}

	s.log.Info("recipe image stored", zap.String("recipe_id", recipeID.String()), zap.String("key", key))
	return &types.RecipeImageResponse{RecipeID: recipeID, ImageURL: key, PresignedURL: url}, nil
}
