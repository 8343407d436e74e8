package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/pageza/pastry-scaler/backend/internal/mocks"
	"github.com/pageza/pastry-scaler/backend/internal/model"
)

func TestUploadRecipeImage(t *testing.T) {
	ctx := context.Background()
	recipeID := uuid.New()

	store := new(mocks.MockObjectStore)
	recipes := new(mocks.MockRecipeService)

	recipes.On("GetRecipe", ctx, recipeID).Return(&model.Recipe{ID: recipeID}, nil)
	keyPrefix := "recipes/" + recipeID.String() + "/"
	isKey := mock.MatchedBy(func(key string) bool {
		return strings.HasPrefix(key, keyPrefix) && strings.HasSuffix(key, ".png")
	})
	store.On("PutObject", ctx, isKey, "image/png", []byte("png-bytes")).Return(nil)
	recipes.On("SetImageURL", ctx, recipeID, isKey).Return(nil)
	store.On("GeneratePresignedURL", ctx, isKey, 5*time.Minute).Return("https://bucket/signed", nil)

	svc := NewImageService(store, recipes, 5*time.Minute, zap.NewNop())
	resp, err := svc.UploadRecipeImage(ctx, recipeID, "tarte.png", "image/png; charset=binary", strings.NewReader("png-bytes"))
	require.NoError(t, err)

	assert.Equal(t, recipeID, resp.RecipeID)
	assert.True(t, strings.HasPrefix(resp.ImageURL, keyPrefix))
	assert.Equal(t, "https://bucket/signed", resp.PresignedURL)
	store.AssertExpectations(t)
	recipes.AssertExpectations(t)
}

func TestUploadRecipeImageRejectsNonImage(t *testing.T) {
	store := new(mocks.MockObjectStore)
	recipes := new(mocks.MockRecipeService)
	svc := NewImageService(store, recipes, 0, zap.NewNop())

	_, err := svc.UploadRecipeImage(context.Background(), uuid.New(), "notes.txt", "text/plain", strings.NewReader("x"))
	assert.ErrorIs(t, err, ErrInvalid)
	store.AssertNotCalled(t, "PutObject", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestUploadRecipeImageUnknownRecipe(t *testing.T) {
	ctx := context.Background()
	id := uuid.New()
	store := new(mocks.MockObjectStore)
	recipes := new(mocks.MockRecipeService)
	recipes.On("GetRecipe", ctx, id).Return(nil, ErrNotFound)

	svc := NewImageService(store, recipes, 0, zap.NewNop())
	_, err := svc.UploadRecipeImage(ctx, id, "a.jpg", "image/jpeg", strings.NewReader("x"))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUploadRecipeImageStoreFailure(t *testing.T) {
	ctx := context.Background()
	id := uuid.New()
	store := new(mocks.MockObjectStore)
	recipes := new(mocks.MockRecipeService)
	recipes.On("GetRecipe", ctx, id).Return(&model.Recipe{ID: id}, nil)
	store.On("PutObject", ctx, mock.Anything, "image/jpeg", mock.Anything).Return(errors.New("bucket unavailable"))

	svc := NewImageService(store, recipes, 0, zap.NewNop())
	_, err := svc.UploadRecipeImage(ctx, id, "a.jpeg", "image/jpeg", strings.NewReader("x"))
	assert.ErrorContains(t, err, "bucket unavailable")
	recipes.AssertNotCalled(t, "SetImageURL", mock.Anything, mock.Anything, mock.Anything)
}

func TestUploadRecipeImageDisabled(t *testing.T) {
	svc := NewImageService(nil, new(mocks.MockRecipeService), 0, zap.NewNop())
	_, err := svc.UploadRecipeImage(context.Background(), uuid.New(), "a.jpg", "image/jpeg", strings.NewReader("x"))
	assert.ErrorIs(t, err, ErrStorageDisabled)
}
