package main

import (
	"context"
	"fmt"
	"os"

	"rentpos-backend/internal/commands"
	"rentpos-backend/internal/config"
	"rentpos-backend/internal/database"
	"rentpos-backend/internal/logger"

	"gorm.io/gorm"
)

func main() {
	cfg := config.Load()

	log, err := logger.New(cfg.Env, cfg.LogLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer log.Sync() //nolint:errcheck

	env := &commands.Env{
		Log: log,
		Open: func() (*gorm.DB, error) {
			if err := cfg.ValidateDatabase(); err != nil {
				return nil, err
			}
			return database.Open(cfg)
		},
	}

	if err := commands.Root(env).ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
