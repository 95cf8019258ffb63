package main

import (
	"log"

	"color-notes-be/internal/config"
	"color-notes-be/internal/model"
	"color-notes-be/pkg/database"

	"github.com/fatih/color"
)

func main() {
	// 1. Load Environment Variables
	cfg := config.Load()

	if cfg.Database.Connection == "" {
		color.Red("Error: DB_CONNECTION_STRING is not set")
		log.Fatal("migration aborted")
	}

	// 2. Connect to Database using existing GORM helpers
	db, err := database.NewGormDBFromDSN(cfg.Database.Connection, database.GormOptions{})
	if err != nil {
		color.Red("Error: Failed to connect to database: %v", err)
		log.Fatal("migration aborted")
	}

	// 3. Pre-Migration: Extensions
	color.Cyan("Step 1: Setting up extensions...")
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS pgcrypto;`).Error; err != nil {
		color.Yellow("Warn: Failed to create pgcrypto extension: %v. Continuing...", err)
	}

	// 4. AutoMigrate
	models := []interface{}{
		&model.User{},
		&model.Note{},
	}
	color.Cyan("Step 2: Running AutoMigrate for %d tables...", len(models))
	if err := db.AutoMigrate(models...); err != nil {
		color.Red("Error: AutoMigrate failed: %v", err)
		log.Fatal("migration aborted")
	}

	color.Green("✅ Success: Database migration completed successfully via GORM.")
}
