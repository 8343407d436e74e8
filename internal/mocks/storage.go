package mocks

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/pageza/pastry-scaler/backend/internal/types"
)

// MockObjectStore is a mock implementation of the object store
type MockObjectStore struct {
	mock.Mock
}

// PutObject mocks the PutObject method. The body is drained so callers see
// a realistic read.
func (m *MockObjectStore) PutObject(ctx context.Context, key, contentType string, body io.Reader) error {
	data, _ := io.ReadAll(body)
	args := m.Called(ctx, key, contentType, data)
	return args.Error(0)
}

// GeneratePresignedURL mocks the GeneratePresignedURL method
func (m *MockObjectStore) GeneratePresignedURL(ctx context.Context, key string, ttl time.Duration) (string, error) {
	args := m.Called(ctx, key, ttl)
	return args.String(0), args.Error(1)
}

// MockImageService is a mock implementation of the image service
type MockImageService struct {
	mock.Mock
}

// UploadRecipeImage mocks the UploadRecipeImage method. The body is passed
// to Called as bytes.
func (m *MockImageService) UploadRecipeImage(ctx context.Context, recipeID uuid.UUID, filename, contentType string, body io.Reader) (*types.RecipeImageResponse, error) {
	data, _ := io.ReadAll(body)
	args := m.Called(ctx, recipeID, filename, contentType, data)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.RecipeImageResponse), args.Error(1)
}
