package main

import (
	"log"

	"farmadmin/internal/access"
	"farmadmin/internal/config"
	"farmadmin/internal/database"
	"farmadmin/internal/server"

	"go.uber.org/zap"
)

func main() {
	cfg, warnings, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger, err := config.NewLogger(cfg.LogLevel, cfg.IsProduction())
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	for _, w := range warnings {
		logger.Warn(w)
	}

	if err := database.Init(cfg.DatabaseDSN); err != nil {
		logger.Fatal("database", zap.Error(err))
	}
	if err := access.Seed(database.DB); err != nil {
		logger.Fatal("seed permissions", zap.Error(err))
	}

	app := server.New(cfg, logger)

	logger.Info("listening", zap.String("port", cfg.HTTPPort), zap.String("env", cfg.Env))
	if err := app.Listen(":" + cfg.HTTPPort); err != nil {
		logger.Fatal("listen", zap.Error(err))
	}
}
