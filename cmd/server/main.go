// Package main implements the entry point for the AI interviewer API
// server, which runs practice interview sessions and orchestrates
// asynchronous question generation and feedback analysis.
package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log"

	"github.com/nickunderhill/ai-interviewer/internal/config"
	"github.com/nickunderhill/ai-interviewer/internal/migrations"
	"github.com/nickunderhill/ai-interviewer/internal/platform/logger"
)

func main() {
	migrateCmd := flag.String("migrate", "", "run a migration command (up, down, status) and exit")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logr, err := logger.Setup(cfg.Server)
	if err != nil {
		log.Fatalf("Failed to set up logger: %v", err)
	}

	logr.Info("server configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel)

	db, err := setupAppDatabase(cfg, logr)
	if err != nil {
		logr.Error("failed to set up database", "error", err)
		log.Fatalf("Failed to set up database: %v", err)
	}

	if *migrateCmd != "" {
		if err := runMigrationCommand(db, *migrateCmd); err != nil {
			logr.Error("migration failed", "command", *migrateCmd, "error", err)
			log.Fatalf("Migration failed: %v", err)
		}
		logr.Info("migration command completed", "command", *migrateCmd)
		return
	}

	if err := migrations.Up(db); err != nil {
		logr.Error("failed to apply migrations", "error", err)
		log.Fatalf("Failed to apply migrations: %v", err)
	}

	ctx := context.Background()
	app, err := newApplication(ctx, cfg, logr, db)
	if err != nil {
		logr.Error("failed to initialize application", "error", err)
		log.Fatalf("Failed to initialize application: %v", err)
	}

	if err := app.Run(ctx); err != nil {
		logr.Error("server exited with error", "error", err)
		log.Fatalf("Server error: %v", err)
	}
}

// runMigrationCommand dispatches a -migrate flag value.
func runMigrationCommand(db *sql.DB, command string) error {
	switch command {
	case "up":
		return migrations.Up(db)
	case "down":
		return migrations.Down(db)
	case "status":
		return migrations.Status(db)
	default:
		return fmt.Errorf("unknown migration command %q (want up, down or status)", command)
	}
}
