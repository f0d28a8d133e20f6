package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"resume-analyzer/internal/bootstrap"
	"resume-analyzer/internal/market"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load market reference data and default cover letter templates",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withApp(cmd.Context(), func(ctx context.Context, app *bootstrap.App) error {
			counts, err := seedAll(ctx, app)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "seeded %d skill sets, %d trends, %d salaries, %d demand rows, %d career paths\n",
				counts.SkillSets, counts.Trends, counts.Salaries, counts.Demand, counts.CareerPaths)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)
}

func seedAll(ctx context.Context, app *bootstrap.App) (market.SeedCounts, error) {
	if err := app.CoverLetterService.EnsureDefaults(ctx); err != nil {
		return market.SeedCounts{}, fmt.Errorf("cover letter templates: %w", err)
	}
	counts, err := market.Seed(ctx, app.MarketService)
	if err != nil {
		return market.SeedCounts{}, fmt.Errorf("market data: %w", err)
	}
	return counts, nil
}
