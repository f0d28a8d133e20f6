// Command migrate manages the embedded schema without starting the API.
//
//	migrate              apply pending migrations
//	migrate status       print every migration and whether it is applied
//	migrate down-to N    roll back to version N
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"

	"resume-analyzer/internal/shared/config"
	"resume-analyzer/internal/shared/storage/db"
)

func main() {
	if err := run(context.Background(), os.Args[1:]); err != nil {
		log.Printf("migrate: %v", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	cfg := config.Load()
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, db.DefaultMigrateOptions().WithPool(cfg.DBPool))
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer sqlDB.Close()

	cmd := "up"
	if len(args) > 0 {
		cmd = args[0]
	}
	switch cmd {
	case "up":
		if err := db.RunMigrations(ctx, sqlDB); err != nil {
			return err
		}
	case "status":
		return db.MigrationStatus(ctx, sqlDB)
	case "down-to":
		if len(args) != 2 {
			return fmt.Errorf("usage: migrate down-to <version>")
		}
		version, err := strconv.ParseInt(args[1], 10, 64)
		if err != nil || version < 0 {
			return fmt.Errorf("invalid version %q", args[1])
		}
		if err := db.RollbackTo(ctx, sqlDB, version); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown command %q (want up, status or down-to)", cmd)
	}

	version, err := db.MigrationVersion(ctx, sqlDB)
	if err != nil {
		return err
	}
	log.Printf("schema at version %d", version)
	return nil
}
