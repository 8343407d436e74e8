package api

import (
	"io"
	"net/http"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pageza/pastry-scaler/backend/internal/scaling"
	"github.com/pageza/pastry-scaler/backend/internal/service"
)

// ImageHandler handles recipe picture uploads
type ImageHandler struct {
	images         service.IImageService
	maxUploadBytes int64
	log            *zap.Logger
}

// NewImageHandler creates a new image handler
func NewImageHandler(images service.IImageService, maxUploadBytes int64, log *zap.Logger) *ImageHandler {
	if maxUploadBytes <= 0 {
		maxUploadBytes = 5 << 20
	}
	return &ImageHandler{images: images, maxUploadBytes: maxUploadBytes, log: log}
}

// RegisterRoutes registers the image routes
func (h *ImageHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/recipes/:id/image", h.UploadRecipeImage)
}

// UploadRecipeImage stores the multipart "image" field for a recipe. The
// content type is sniffed from the bytes, not taken from the client.
func (h *ImageHandler) UploadRecipeImage(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes+1<<10)
	header, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "image file is required", "kind": scaling.KindInvalidInput})
		return
	}
	if header.Size > h.maxUploadBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "image is too large"})
		return
	}

	file, err := header.Open()
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	defer file.Close()

	mtype, err := mimetype.DetectReader(file)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		respondError(c, h.log, err)
		return
	}

	resp, err := h.images.UploadRecipeImage(c.Request.Context(), id, header.Filename, mtype.String(), file)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}
