package main

import (
	"flag"
	"log"

	"github.com/johnquangdev/sales-assistant/internal/infrastructure/database"
	"github.com/johnquangdev/sales-assistant/pkg/config"
)

func main() {
	down := flag.Int("down", 0, "Roll back this many migrations instead of applying")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Each relational store gets the schema once
	seen := map[string]bool{}
	for _, dsn := range []string{cfg.Store.LoginURI, cfg.Store.TranscriptURI} {
		if !config.IsRelational(dsn) || seen[dsn] {
			continue
		}
		seen[dsn] = true

		db, err := database.NewPostgresDB(dsn, cfg)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}

		if *down > 0 {
			n, err := database.Rollback(db, *down)
			if err != nil {
				log.Fatalf("Failed to roll back migrations: %v", err)
			}
			log.Printf("✅ Rolled back %d migration(s)", n)
		} else if err := database.Migrate(db); err != nil {
			log.Fatalf("Failed to apply migrations: %v", err)
		}

		if err := database.CloseDB(db); err != nil {
			log.Printf("⚠️  %v", err)
		}
	}

	if len(seen) == 0 {
		log.Println("ℹ️  No postgres store configured; MongoDB needs no migrations")
	}
}
