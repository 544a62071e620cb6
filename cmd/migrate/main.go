package main

import (
	"context"
	"flag"
	"log"
	"time"

	"github.com/pressly/goose/v3"

	"github.com/shestakov-dev/ClassCompassServer/pkg/config"
	"github.com/shestakov-dev/ClassCompassServer/pkg/database"
)

func main() {
	dir := flag.String("dir", "migrations", "directory with migration files")
	command := flag.String("command", "up", "goose command: up, down, status, version")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	defer db.Close()

	if err := goose.SetDialect("postgres"); err != nil {
		log.Fatalf("failed to set goose dialect: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	switch *command {
	case "up":
		err = goose.UpContext(ctx, db.DB, *dir)
	case "down":
		err = goose.DownContext(ctx, db.DB, *dir)
	case "status":
		err = goose.StatusContext(ctx, db.DB, *dir)
	case "version":
		var version int64
		version, err = goose.GetDBVersionContext(ctx, db.DB)
		if err == nil {
			log.Printf("current migration version: %d", version)
		}
	default:
		log.Fatalf("unknown command %q", *command)
	}
	if err != nil {
		log.Fatalf("migration %s failed: %v", *command, err)
	}
}
