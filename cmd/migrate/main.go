package main

import (
	"flag"
	"log"
	"log/slog"
	"os"

	"mergerscan/db"
	"mergerscan/internal/config"
)

func main() {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	steps := flag.Int("steps", 0, "migrate this many steps (negative to roll back); 0 applies all pending")
	version := flag.Bool("version", false, "print the current schema version and exit")
	flag.Parse()

	cfg := config.Load()

	err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("error connecting to DB: %v", err)
	}
	defer db.Close()

	if *version {
		v, dirty, err := db.MigrationVersion(db.DB)
		if err != nil {
			log.Fatalf("error reading schema version: %v", err)
		}
		slog.Info("schema version", "version", v, "dirty", dirty)
		return
	}

	if err := db.Migrate(db.DB, *steps); err != nil {
		log.Fatalf("error migrating: %v", err)
	}

	v, _, err := db.MigrationVersion(db.DB)
	if err != nil {
		log.Fatalf("error reading schema version: %v", err)
	}
	slog.Info("migration finished", "version", v)
}
