// Command seed loads the demo fixture data into the database. It is
// idempotent: a database that already has users is left untouched.
package main

import (
	"fmt"
	"os"

	"chapterfund/internal/config"
	"chapterfund/internal/database"
	"chapterfund/internal/fixtures"
	"chapterfund/internal/logger"
)

func main() {
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Seed error: %v", err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	dbManager, err := database.NewManager(cfg)
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}

	if err := dbManager.RunMigrations(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	return fixtures.Seed(dbManager.DB())
}
