package main

import (
	"context"
	"log"

	"rentpos-backend/internal/cache"
	"rentpos-backend/internal/config"
	"rentpos-backend/internal/database"
	"rentpos-backend/internal/logger"

	"go.uber.org/zap"
)

func main() {
	cfg := config.Load()

	zl, err := logger.New(cfg.Env, cfg.LogLevel)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer zl.Sync() //nolint:errcheck

	if err := cfg.ValidateServer(); err != nil {
		zl.Fatal("invalid configuration", zap.Error(err))
	}
	for _, w := range cfg.Warnings() {
		zl.Warn(w)
	}

	db, err := database.Open(cfg)
	if err != nil {
		zl.Fatal("database", zap.Error(err))
	}
	if err := database.Migrate(db, zl); err != nil {
		zl.Fatal("migration", zap.Error(err))
	}

	monthCache := cache.Connect(context.Background(), cfg.RedisAddr, cfg.CacheTTL, zl)
	defer monthCache.Close() //nolint:errcheck

	app := newApp(cfg, db, monthCache, zl)

	zl.Info("server listening", zap.String("port", cfg.HTTPPort), zap.String("env", cfg.Env))
	if err := app.Listen(":" + cfg.HTTPPort); err != nil {
		zl.Fatal("server stopped", zap.Error(err))
	}
}
