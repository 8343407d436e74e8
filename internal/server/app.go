package server

import (
	"context"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/pageza/pastry-scaler/backend/config"
	"github.com/pageza/pastry-scaler/backend/internal/api"
	"github.com/pageza/pastry-scaler/backend/internal/database"
	"github.com/pageza/pastry-scaler/backend/internal/metrics"
	"github.com/pageza/pastry-scaler/backend/internal/middleware"
	"github.com/pageza/pastry-scaler/backend/internal/router"
	"github.com/pageza/pastry-scaler/backend/internal/scaling"
	"github.com/pageza/pastry-scaler/backend/internal/service"
)

// Build connects the backing stores, runs migrations and wires the
// services and routes. The returned server owns the connections and
// closes them when it stops.
func Build(ctx context.Context, cfg *config.Config, log *zap.Logger) (*Server, error) {
	db, err := database.New(cfg.Database, log)
	if err != nil {
		return nil, err
	}
	cleanup := []func(){func() { closeDB(db, log) }}
	fail := func(err error) (*Server, error) {
		for i := len(cleanup) - 1; i >= 0; i-- {
			cleanup[i]()
		}
		return nil, err
	}

	if err := database.RunMigrations(ctx, db, cfg.Database.MigrationsDir, log); err != nil {
		return fail(err)
	}

	redisClient, err := database.NewRedisClient(ctx, cfg.Redis, log)
	if err != nil {
		return fail(err)
	}
	if redisClient != nil {
		cleanup = append(cleanup, func() { _ = redisClient.Close() })
	}

	var store service.ObjectStore
	if cfg.Storage.Enabled {
		s3, err := config.NewS3Config(ctx, cfg.Storage)
		if err != nil {
			return fail(err)
		}
		store = s3
	}

	m := metrics.New()
	calc := scaling.New(scaling.Config{
		ServingVolumeML:        cfg.Scaling.ServingVolumeML,
		MaxDepth:               cfg.Scaling.MaxDepth,
		SuggestClosestFallback: cfg.Scaling.SuggestClosestFallback,
	})
	cache := service.NewSuggestionCache(redisClient, cfg.Scaling.SuggestionCacheTTL, m, log)

	pans := service.NewPanService(db, calc, cache, log)
	ingredients := service.NewIngredientService(db, log)
	recipes := service.NewRecipeService(db, calc.MaxDepth(), log)
	scalingSvc := service.NewScalingService(calc, pans, recipes, cache, m, log)
	images := service.NewImageService(store, recipes, cfg.Storage.PresignTTL, log)

	var limiter *middleware.RateLimiter
	if cfg.RateLimit.Enabled {
		limiter = middleware.NewRateLimiter(redisClient, middleware.RateLimitConfig{
			Window:    cfg.RateLimit.Window,
			Limit:     cfg.RateLimit.Limit,
			KeyPrefix: "pastry:rate_limit:scaling",
		}, log)
	}

	engine := router.SetupRouter(router.Handlers{
		Pans:        api.NewPanHandler(pans, log),
		Ingredients: api.NewIngredientHandler(ingredients, log),
		Recipes:     api.NewRecipeHandler(recipes, log),
		Scaling:     api.NewScalingHandler(scalingSvc, limiter, log),
		Images:      api.NewImageHandler(images, cfg.Server.MaxUploadBytes, log),
	}, router.Options{
		AllowedOrigins: cfg.Server.AllowedOrigins,
		Metrics:        m,
		Logger:         log,
		Health: func(ctx context.Context) error {
			if err := database.HealthCheck(ctx, db); err != nil {
				return err
			}
			if redisClient != nil {
				return redisClient.Ping(ctx).Err()
			}
			return nil
		},
	})

	srv := NewServer(cfg.Server, engine, log)
	srv.cleanup = cleanup
	return srv, nil
}

func closeDB(db *gorm.DB, log *zap.Logger) {
	sqlDB, err := db.DB()
	if err != nil {
		log.Warn("failed to get database handle", zap.Error(err))
		return
	}
	if err := sqlDB.Close(); err != nil {
		log.Warn("failed to close database", zap.Error(err))
	}
}
