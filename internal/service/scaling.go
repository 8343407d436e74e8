package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pageza/pastry-scaler/backend/internal/metrics"
	"github.com/pageza/pastry-scaler/backend/internal/scaling"
	"github.com/pageza/pastry-scaler/backend/internal/types"
)

// ScalingService loads recipes and pans and runs them through the scaling
// engine. It never writes.
type ScalingService struct {
	calc    *scaling.Calculator
	pans    IPanService
	recipes IRecipeService
	cache   SuggestionCache
	metrics *metrics.Metrics
	log     *zap.Logger
}

func NewScalingService(calc *scaling.Calculator, pans IPanService, recipes IRecipeService, cache SuggestionCache, m *metrics.Metrics, log *zap.Logger) *ScalingService {
	if cache == nil {
		cache = NoopSuggestionCache{}
	}
	return &ScalingService{
		calc:    calc,
		pans:    pans,
		recipes: recipes,
		cache:   cache,
		metrics: m,
		log:     log,
	}
}

func (s *ScalingService) observe(operation string, start time.Time, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
		if se, ok := scaling.AsError(err); ok {
			outcome = string(se.Kind)
		}
	}
	elapsed := time.Since(start)
	s.metrics.ObserveScaling(operation, outcome, elapsed)
	s.log.Debug("scaling operation",
		zap.String("operation", operation),
		zap.String("outcome", outcome),
		zap.Duration("elapsed", elapsed),
	)
}

// AdaptRecipe scales a recipe to a target pan or serving count. Suggested
// pans are attached unless the adaptation went from one pan to another.
func (s *ScalingService) AdaptRecipe(ctx context.Context, req *types.AdaptRecipeRequest) (resp *types.AdaptRecipeResponse, err error) {
	defer func(start time.Time) { s.observe("adapt", start, err) }(time.Now())

	recipe, err := s.recipes.LoadTree(ctx, *req.RecipeID)
	if err != nil {
		return nil, err
	}

	targets := scaling.Targets{
		SourceServings: req.InitialServings,
		TargetServings: req.TargetServings,
	}
	if targets.SourcePan, err = s.optionalPan(ctx, req.SourcePanID); err != nil {
		return nil, err
	}
	if targets.TargetPan, err = s.optionalPan(ctx, req.TargetPanID); err != nil {
		return nil, err
	}

	res, err := s.calc.Resolve(recipe, targets)
	if err != nil {
		return nil, err
	}
	node, err := s.calc.ScaleWithMultiplier(recipe, res.Multiplier, res.Mode)
	if err != nil {
		return nil, err
	}

	resp = &types.AdaptRecipeResponse{Node: node}
	if res.PanToPan(targets) {
		return resp, nil
	}

	target := 0
	if req.TargetServings != nil {
		target = *req.TargetServings
	} else if servings, err := s.calc.EstimateServings(res.TargetVolume); err == nil {
		target = servings.Standard
	}
	if target < 1 {
		target = 1
	}
	suggestions, err := s.suggest(ctx, target)
	if err != nil {
		return nil, err
	}
	resp.SuggestedPans = &suggestions
	return resp, nil
}

func (s *ScalingService) optionalPan(ctx context.Context, id *uuid.UUID) (*scaling.Pan, error) {
	if id == nil {
		return nil, nil
	}
	pan, err := s.pans.GetScalingPan(ctx, *id)
	if err != nil {
		return nil, err
	}
	return &pan, nil
}

// EstimatePan computes volume and serving range for a stored or inline pan.
func (s *ScalingService) EstimatePan(ctx context.Context, req *types.PanEstimationRequest) (resp *types.PanEstimationResponse, err error) {
	defer func(start time.Time) { s.observe("estimate", start, err) }(time.Now())

	if req.IsEmpty() {
		return nil, scaling.NewError(scaling.KindInvalidInput, "pan_id or pan dimensions are required")
	}

	resp = &types.PanEstimationResponse{}
	var volume float64
	if req.PanID != nil {
		pan, err := s.pans.GetScalingPan(ctx, *req.PanID)
		if err != nil {
			return nil, err
		}
		if volume, err = s.calc.VolumeCached(pan); err != nil {
			return nil, err
		}
		resp.PanID = &pan.ID
		resp.PanName = pan.Name
	} else {
		p := req.ToModel().ToScaling()
		if volume, err = s.calc.Volume(p); err != nil {
			return nil, err
		}
	}

	servings, err := s.calc.EstimateServings(volume)
	if err != nil {
		return nil, err
	}
	resp.VolumeCM3 = scaling.Round2(volume)
	resp.EstimatedServingsStandard = servings.Standard
	resp.EstimatedServingsMin = servings.Min
	resp.EstimatedServingsMax = servings.Max
	return resp, nil
}

// SuggestPans lists the pans that fit targetServings, best fit first.
func (s *ScalingService) SuggestPans(ctx context.Context, targetServings int) (out []types.PanSuggestion, err error) {
	defer func(start time.Time) { s.observe("suggest", start, err) }(time.Now())
	return s.suggest(ctx, targetServings)
}

func (s *ScalingService) suggest(ctx context.Context, target int) ([]types.PanSuggestion, error) {
	if target < 1 {
		return nil, scaling.NewError(scaling.KindInvalidInput, "target servings must be at least 1, got %d", target)
	}
	cached, version, ok := s.cache.Get(ctx, target)
	if ok {
		return cached, nil
	}

	pans, err := s.pans.ListScalingPans(ctx)
	if err != nil {
		return nil, err
	}
	suggestions, err := s.calc.SuggestPans(target, pans)
	if err != nil {
		return nil, err
	}

	out := types.NewPanSuggestions(suggestions)
	s.cache.Set(ctx, version, target, out)
	return out, nil
}

// AdaptByIngredient scales a recipe to the available stock of its
// constrained ingredients.
func (s *ScalingService) AdaptByIngredient(ctx context.Context, req *types.AdaptByIngredientRequest) (res *scaling.ConstraintResult, err error) {
	defer func(start time.Time) { s.observe("adapt_by_ingredient", start, err) }(time.Now())

	constraints := make(map[uuid.UUID]float64, len(req.IngredientConstraints))
	for key, qty := range req.IngredientConstraints {
		id, err := uuid.Parse(key)
		if err != nil {
			return nil, scaling.NewError(scaling.KindInvalidConstraint, "invalid ingredient id %q", key)
		}
		constraints[id] = qty
	}

	recipe, err := s.recipes.LoadTree(ctx, *req.RecipeID)
	if err != nil {
		return nil, err
	}
	return s.calc.AdaptByConstraints(recipe, constraints, req.Recursive)
}
