package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/pageza/pastry-scaler/backend/internal/scaling"
	"github.com/pageza/pastry-scaler/backend/internal/types"
)

// MockScalingService is a mock implementation of the scaling service
type MockScalingService struct {
	mock.Mock
}

func (m *MockScalingService) AdaptRecipe(ctx context.Context, req *types.AdaptRecipeRequest) (*types.AdaptRecipeResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.AdaptRecipeResponse), args.Error(1)
}

func (m *MockScalingService) EstimatePan(ctx context.Context, req *types.PanEstimationRequest) (*types.PanEstimationResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.PanEstimationResponse), args.Error(1)
}

func (m *MockScalingService) SuggestPans(ctx context.Context, targetServings int) ([]types.PanSuggestion, error) {
	args := m.Called(ctx, targetServings)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.PanSuggestion), args.Error(1)
}

func (m *MockScalingService) AdaptByIngredient(ctx context.Context, req *types.AdaptByIngredientRequest) (*scaling.ConstraintResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*scaling.ConstraintResult), args.Error(1)
}
