package router

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pageza/pastry-scaler/backend/internal/api"
	"github.com/pageza/pastry-scaler/backend/internal/metrics"
	"github.com/pageza/pastry-scaler/backend/internal/middleware"
)

// Handlers groups everything SetupRouter mounts under /api/v1.
type Handlers struct {
	Pans        *api.PanHandler
	Ingredients *api.IngredientHandler
	Recipes     *api.RecipeHandler
	Scaling     *api.ScalingHandler
	Images      *api.ImageHandler
}

// Options configures the engine around the handlers.
type Options struct {
	AllowedOrigins []string
	Metrics        *metrics.Metrics
	Logger         *zap.Logger
	// Health reports whether backing stores are reachable. Nil means always healthy.
	Health func(ctx context.Context) error
}

// SetupRouter configures the application routes
func SetupRouter(h Handlers, opts Options) *gin.Engine {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	router := gin.New()
	router.Use(
		middleware.RequestID(),
		middleware.Recovery(log),
		middleware.Logger(log, "/health", "/metrics"),
		middleware.CORS(opts.AllowedOrigins),
	)
	if opts.Metrics != nil {
		router.Use(middleware.Metrics(opts.Metrics))
		router.GET("/metrics", gin.WrapH(opts.Metrics.Handler()))
	}

	router.GET("/health", func(c *gin.Context) {
		if opts.Health != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			if err := opts.Health(ctx); err != nil {
				log.Warn("health check failed", zap.Error(err))
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := router.Group("/api/v1")
	if h.Pans != nil {
		h.Pans.RegisterRoutes(v1)
	}
	if h.Ingredients != nil {
		h.Ingredients.RegisterRoutes(v1)
	}
	if h.Recipes != nil {
		h.Recipes.RegisterRoutes(v1)
	}
	if h.Scaling != nil {
		h.Scaling.RegisterRoutes(v1)
	}
	if h.Images != nil {
		h.Images.RegisterRoutes(v1)
	}

	return router
}
