// Package main seeds the PartyDeck database with game content.
//
// It imports the dice, pose and task fixtures (JSON or YAML), the built-in
// story element lists, and creates the default admin.
//
// Usage:
//
//	go run ./cmd/seed -dice touzi.json -poses zishi.json -tasks 18.json
//	go run ./cmd/seed -story -reset -db ./data/partydeck.db
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/partydeck/partydeck-server/internal/config"
	"github.com/partydeck/partydeck-server/internal/logger"
	"github.com/partydeck/partydeck-server/internal/service"
	"github.com/partydeck/partydeck-server/internal/store/sqlite"
	"github.com/partydeck/partydeck-server/internal/validation"
)

func main() {
	dbPath := flag.String("db", "", "SQLite database path (default: from DATABASE_PATH / DATA_PATH)")
	dicePath := flag.String("dice", "", "Dice fixture with actions and parts")
	posesPath := flag.String("poses", "", "Pose fixture with places, times, poses and poseDetails")
	tasksPath := flag.String("tasks", "", "Task fixture with tasks[].description")
	story := flag.Bool("story", false, "Replace story elements with the built-in lists")
	reset := flag.Bool("reset", false, "Clear all content tables before importing")
	flag.Parse()

	cfg, err := config.Load(nil)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *dbPath != "" {
		cfg.Storage.DatabasePath = *dbPath
	}

	if err := os.MkdirAll(filepath.Dir(cfg.Storage.DatabasePath), 0o755); err != nil {
		log.Fatalf("Failed to create database directory: %v", err)
	}

	fmt.Printf("Opening database at: %s\n", cfg.Storage.DatabasePath)

	st, err := sqlite.Open(cfg.Storage.DatabasePath, logger.Discard())
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer st.Close()

	ctx := context.Background()
	s := &seeder{store: st, out: os.Stdout}

	if *reset {
		if err := s.reset(ctx); err != nil {
			log.Fatalf("Failed to reset content: %v", err)
		}
	}

	steps := []struct {
		path string
		run  func(context.Context, string) error
	}{
		{*dicePath, s.importDice},
		{*posesPath, s.importPoses},
		{*tasksPath, s.importTasks},
	}
	for _, step := range steps {
		if step.path == "" {
			continue
		}
		if err := step.run(ctx, step.path); err != nil {
			log.Fatalf("Import failed: %v", err)
		}
	}

	if *story {
		if err := s.importStory(ctx); err != nil {
			log.Fatalf("Story import failed: %v", err)
		}
	}

	authService := service.NewAuthService(st, validation.New(), cfg.Auth, logger.Discard())
	created, err := authService.EnsureDefaultAdmin(ctx)
	if err != nil {
		log.Fatalf("Failed to create default admin: %v", err)
	}
	if created {
		fmt.Printf("Default admin created (username: %s)\n", cfg.Auth.DefaultAdminUsername)
	}

	if err := s.printCounts(ctx); err != nil {
		log.Fatalf("Failed to count rows: %v", err)
	}
}
