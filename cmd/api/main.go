package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/pageza/pastry-scaler/backend/config"
	"github.com/pageza/pastry-scaler/backend/internal/logger"
	"github.com/pageza/pastry-scaler/backend/internal/server"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Config{
		Level:       cfg.Log.Level,
		Format:      cfg.Log.Format,
		Development: cfg.Environment == config.Development,
	})
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv, err := server.Build(ctx, cfg, log)
	if err != nil {
		log.Fatal("failed to build server", zap.Error(err))
	}

	log.Info("starting server",
		zap.String("environment", string(cfg.Environment)),
		zap.String("addr", cfg.Server.Addr()),
	)
	if err := srv.Start(ctx); err != nil {
		log.Fatal("server error", zap.Error(err))
	}
	log.Info("server stopped")
}
