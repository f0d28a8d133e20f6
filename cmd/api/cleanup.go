package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"resume-analyzer/internal/bootstrap"
	"resume-analyzer/internal/privacy"
)

var (
	retentionDays int
	cleanupDryRun bool
)

var cleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Delete data exports and uploaded resume files older than the retention period",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withApp(cmd.Context(), func(ctx context.Context, app *bootstrap.App) error {
			return runCleanup(ctx, app, retentionDays, cleanupDryRun, cmd.OutOrStdout())
		})
	},
}

func init() {
	cleanupCmd.Flags().IntVar(&retentionDays, "retention-days", privacy.DefaultRetentionDays, "delete data older than this many days")
	cleanupCmd.Flags().BoolVar(&cleanupDryRun, "dry-run", false, "report what would be deleted without deleting it")
	rootCmd.AddCommand(cleanupCmd)
}

func runCleanup(ctx context.Context, app *bootstrap.App, days int, dryRun bool, out io.Writer) error {
	res, err := app.PrivacyService.CleanupExpired(ctx, days, dryRun)
	if err != nil {
		return err
	}
	verb := "deleted"
	if dryRun {
		verb = "would delete"
	}
	fmt.Fprintf(out, "%s %d exports and %d resume files created before %s\n",
		verb, res.Exports, res.ResumeFiles, res.Cutoff.Format("2006-01-02T15:04:05Z"))
	if res.ObjectsFailed > 0 {
		return fmt.Errorf("%d stored objects could not be removed", res.ObjectsFailed)
	}
	return nil
}
