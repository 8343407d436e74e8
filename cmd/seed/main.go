package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/pageza/pastry-scaler/backend/config"
	"github.com/pageza/pastry-scaler/backend/internal/database"
	"github.com/pageza/pastry-scaler/backend/internal/logger"
	"github.com/pageza/pastry-scaler/backend/internal/scaling"
	"github.com/pageza/pastry-scaler/backend/internal/seed"
	"github.com/pageza/pastry-scaler/backend/internal/service"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config file")
	fixtures := flag.String("file", "fixtures/pastry.yaml", "catalogue to load")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})
	defer func() { _ = log.Sync() }()

	f, err := os.Open(*fixtures)
	if err != nil {
		log.Fatal("failed to open catalogue", zap.Error(err))
	}
	defer f.Close()

	catalogue, err := seed.Parse(f)
	if err != nil {
		log.Fatal("invalid catalogue", zap.String("file", *fixtures), zap.Error(err))
	}

	ctx := context.Background()
	db, err := database.New(cfg.Database, log)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	if err := database.RunMigrations(ctx, db, cfg.Database.MigrationsDir, log); err != nil {
		log.Fatal("failed to migrate database", zap.Error(err))
	}

	redisClient, err := database.NewRedisClient(ctx, cfg.Redis, log)
	if err != nil {
		log.Warn("redis unavailable, suggestion cache will not be invalidated", zap.Error(err))
	}

	calc := scaling.New(scaling.Config{
		ServingVolumeML: cfg.Scaling.ServingVolumeML,
		MaxDepth:        cfg.Scaling.MaxDepth,
	})
	cache := service.NewSuggestionCache(redisClient, cfg.Scaling.SuggestionCacheTTL, nil, log)
	loader := seed.NewLoader(
		service.NewPanService(db, calc, cache, log),
		service.NewIngredientService(db, log),
		service.NewRecipeService(db, calc.MaxDepth(), log),
		log,
	)

	sum, err := loader.Load(ctx, catalogue)
	if err != nil {
		log.Fatal("seeding failed", zap.Error(err))
	}
	log.Info("seeding complete", zap.Int("created", sum.Created), zap.Int("skipped", sum.Skipped))
}
