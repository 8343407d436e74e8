package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pageza/pastry-scaler/backend/internal/service"
	"github.com/pageza/pastry-scaler/backend/internal/types"
)

type IngredientHandler struct {
	ingredients service.IIngredientService
	log         *zap.Logger
}

func NewIngredientHandler(ingredients service.IIngredientService, log *zap.Logger) *IngredientHandler {
	RegisterValidators()
	return &IngredientHandler{ingredients: ingredients, log: log}
}

func (h *IngredientHandler) RegisterRoutes(router *gin.RouterGroup) {
	ingredients := router.Group("/ingredients")
	{
		ingredients.GET("", h.ListIngredients)
		ingredients.GET("/:id", h.GetIngredient)
		ingredients.POST("", h.CreateIngredient)
		ingredients.DELETE("/:id", h.DeleteIngredient)
	}
}

func (h *IngredientHandler) ListIngredients(c *gin.Context) {
	ingredients, err := h.ingredients.ListIngredients(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ingredients": ingredients})
}

func (h *IngredientHandler) GetIngredient(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	ingredient, err := h.ingredients.GetIngredient(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, ingredient)
}

func (h *IngredientHandler) CreateIngredient(c *gin.Context) {
	var req types.IngredientRequest
	if !bindJSON(c, &req) {
		return
	}
	ingredient, err := h.ingredients.CreateIngredient(c.Request.Context(), req.ToModel())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, ingredient)
}

// DeleteIngredient answers 409 while a recipe still uses the ingredient
func (h *IngredientHandler) DeleteIngredient(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.ingredients.DeleteIngredient(c.Request.Context(), id); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}
