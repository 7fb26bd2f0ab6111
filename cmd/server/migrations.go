package main

import (
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/pressly/goose/v3"
)

// migrationsDir is the migrations directory relative to the working
// directory.
const migrationsDir = "migrations"

// runMigrations executes a goose migration command against the given
// database. Supported commands are up, down, and status.
func runMigrations(db *sql.DB, command string, logger *slog.Logger) error {
	dir, err := findMigrationsDir()
	if err != nil {
		return err
	}

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	logger.Info("running migrations",
		"command", command,
		"dir", dir)

	switch command {
	case "up":
		err = goose.Up(db, dir)
	case "down":
		err = goose.Down(db, dir)
	case "status":
		err = goose.Status(db, dir)
	default:
		return fmt.Errorf("unknown migration command %q (want up, down, or status)", command)
	}
	if err != nil {
		return fmt.Errorf("migration %s failed: %w", command, err)
	}

	logger.Info("migrations completed", "command", command)
	return nil
}

// findMigrationsDir locates the migrations directory, checking the working
// directory first and then the executable's directory.
func findMigrationsDir() (string, error) {
	if info, err := os.Stat(migrationsDir); err == nil && info.IsDir() {
		return migrationsDir, nil
	}

	exe, err := os.Executable()
	if err == nil {
		alt := filepath.Join(filepath.Dir(exe), migrationsDir)
		if info, err := os.Stat(alt); err == nil && info.IsDir() {
			return alt, nil
		}
	}

	return "", fmt.Errorf("migrations directory %q not found", migrationsDir)
}
