package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pageza/pastry-scaler/backend/internal/middleware"
	"github.com/pageza/pastry-scaler/backend/internal/service"
	"github.com/pageza/pastry-scaler/backend/internal/types"
)

// ScalingHandler serves the recipe adaptation and pan endpoints
type ScalingHandler struct {
	scaling     service.IScalingService
	rateLimiter *middleware.RateLimiter
	log         *zap.Logger
}

// NewScalingHandler creates a new scaling handler. rateLimiter may be nil.
func NewScalingHandler(scaling service.IScalingService, rateLimiter *middleware.RateLimiter, log *zap.Logger) *ScalingHandler {
	RegisterValidators()
	return &ScalingHandler{scaling: scaling, rateLimiter: rateLimiter, log: log}
}

// RegisterRoutes registers the scaling routes
func (h *ScalingHandler) RegisterRoutes(router *gin.RouterGroup) {
	routes := router.Group("")
	if h.rateLimiter != nil {
		routes.Use(h.rateLimiter.RateLimitMiddleware())
	}
	{
		routes.POST("/recipes/adapt/", h.AdaptRecipe)
		routes.POST("/recipes/adapt/by-ingredient/", h.AdaptByIngredient)
		routes.POST("/pan-estimation/", h.EstimatePan)
		routes.POST("/pan-suggestion/", h.SuggestPans)
	}
	router.GET("/rate-limits/scaling", h.RateLimitStatus)
}

// RateLimitStatus reports the caller's remaining budget on the scaling
// endpoints without spending a request.
func (h *ScalingHandler) RateLimitStatus(c *gin.Context) {
	if h.rateLimiter == nil || !h.rateLimiter.Enabled() {
		c.JSON(http.StatusOK, gin.H{"enabled": false})
		return
	}

	remaining, resetTime, err := h.rateLimiter.GetRemainingRequests(c.Request.Context(), c.ClientIP())
	if err != nil {
		h.log.Warn("rate limit status failed", zap.String("client_ip", c.ClientIP()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to check rate limit"})
		return
	}

	cfg := h.rateLimiter.Config()
	c.Header("X-RateLimit-Limit", strconv.Itoa(cfg.Limit))
	c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
	c.JSON(http.StatusOK, gin.H{
		"enabled":    true,
		"limit":      cfg.Limit,
		"remaining":  remaining,
		"reset_time": resetTime.Unix(),
		"window":     cfg.Window.String(),
	})
}

// AdaptRecipe scales a recipe to a target pan or serving count
func (h *ScalingHandler) AdaptRecipe(c *gin.Context) {
	var req types.AdaptRecipeRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.scaling.AdaptRecipe(c.Request.Context(), &req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// EstimatePan returns volume and servings of a stored or described pan
func (h *ScalingHandler) EstimatePan(c *gin.Context) {
	var req types.PanEstimationRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.scaling.EstimatePan(c.Request.Context(), &req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// SuggestPans lists the pans fitting a serving count
func (h *ScalingHandler) SuggestPans(c *gin.Context) {
	var req types.PanSuggestionRequest
	if !bindJSON(c, &req) {
		return
	}

	suggestions, err := h.scaling.SuggestPans(c.Request.Context(), *req.TargetServings)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, suggestions)
}

// AdaptByIngredient scales a recipe to the available ingredient stock
func (h *ScalingHandler) AdaptByIngredient(c *gin.Context) {
	var req types.AdaptByIngredientRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.scaling.AdaptByIngredient(c.Request.Context(), &req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
