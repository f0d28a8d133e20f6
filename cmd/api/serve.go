package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"resume-analyzer/internal/bootstrap"
	"resume-analyzer/internal/shared/config"
	"resume-analyzer/internal/shared/server"
	"resume-analyzer/internal/shared/storage/db"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	RunE:  runServe,
}

var serveSkipMigrations bool

func init() {
	serveCmd.Flags().BoolVar(&serveSkipMigrations, "skip-migrations", false, "Do not apply pending migrations on start")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.Load()
	app, err := bootstrap.Build(ctx, cfg)
	if err != nil {
		return fmt.Errorf("bootstrap: %w", err)
	}
	defer app.Close()

	if app.DB != nil && !serveSkipMigrations {
		if err := db.RunMigrations(ctx, app.DB); err != nil {
			return fmt.Errorf("run migrations: %w", err)
		}
	}
	if app.DB == nil {
		// In-memory mode starts empty; load the reference data so market
		// lookups answer out of the box.
		if _, err := seedAll(ctx, app); err != nil {
			log.Printf("seed reference data: %v", err)
		}
	}

	return server.Run(ctx, server.Addr(cfg.Port), app.Router)
}

func withApp(ctx context.Context, fn func(ctx context.Context, app *bootstrap.App) error) error {
	app, err := bootstrap.Build(ctx, config.Load())
	if err != nil {
		return fmt.Errorf("bootstrap: %w", err)
	}
	defer app.Close()
	return fn(ctx, app)
}
