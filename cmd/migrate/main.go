package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/pageza/pastry-scaler/backend/config"
	"github.com/pageza/pastry-scaler/backend/internal/database"
	"github.com/pageza/pastry-scaler/backend/internal/logger"
)

func main() {
	rollback := flag.Bool("rollback", false, "Rollback the last migration")
	configPath := flag.String("config", "", "path to a YAML config file")
	dir := flag.String("dir", "", "migrations directory (defaults to database.migrations_dir)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})
	defer func() { _ = log.Sync() }()

	if cfg.Database.Driver != "postgres" {
		log.Fatal("migrations run against postgres only; sqlite schemas are created on startup",
			zap.String("driver", cfg.Database.Driver))
	}

	migrationsDir := cfg.Database.MigrationsDir
	if *dir != "" {
		migrationsDir = *dir
	}

	db, err := database.NewSQL(cfg.Database)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	ctx := context.Background()
	m := database.NewMigrator(db, migrationsDir, log)

	if *rollback {
		name, err := m.Rollback(ctx)
		if errors.Is(err, database.ErrNothingToRollback) {
			log.Info("no migrations to rollback")
			return
		}
		if err != nil {
			log.Fatal("rollback failed", zap.Error(err))
		}
		log.Info("rolled back migration", zap.String("migration", name))
		return
	}

	applied, err := m.Up(ctx)
	if err != nil {
		log.Fatal("migration failed", zap.Error(err))
	}
	log.Info("all migrations applied", zap.Strings("applied", applied))
}
