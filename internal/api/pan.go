package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pageza/pastry-scaler/backend/internal/service"
	"github.com/pageza/pastry-scaler/backend/internal/types"
)

type PanHandler struct {
	pans service.IPanService
	log  *zap.Logger
}

func NewPanHandler(pans service.IPanService, log *zap.Logger) *PanHandler {
	RegisterValidators()
	return &PanHandler{pans: pans, log: log}
}

func (h *PanHandler) RegisterRoutes(router *gin.RouterGroup) {
	pans := router.Group("/pans")
	{
		pans.GET("", h.ListPans)
		pans.GET("/:id", h.GetPan)
		pans.POST("", h.CreatePan)
		pans.PUT("/:id", h.UpdatePan)
		pans.DELETE("/:id", h.DeletePan)
	}
}

func (h *PanHandler) ListPans(c *gin.Context) {
	pans, err := h.pans.ListPans(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"pans": pans})
}

func (h *PanHandler) GetPan(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	pan, err := h.pans.GetPan(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, pan)
}

func (h *PanHandler) CreatePan(c *gin.Context) {
	var req types.PanRequest
	if !bindJSON(c, &req) {
		return
	}
	pan, err := h.pans.CreatePan(c.Request.Context(), req.ToModel())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, pan)
}

func (h *PanHandler) UpdatePan(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req types.PanRequest
	if !bindJSON(c, &req) {
		return
	}
	pan, err := h.pans.UpdatePan(c.Request.Context(), id, req.ToModel())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, pan)
}

// DeletePan removes a pan. Recipes baked in it keep existing without a pan.
func (h *PanHandler) DeletePan(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.pans.DeletePan(c.Request.Context(), id); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}
