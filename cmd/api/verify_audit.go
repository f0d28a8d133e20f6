package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"resume-analyzer/internal/bootstrap"
)

var verifyAuditCmd = &cobra.Command{
	Use:   "verify-audit",
	Short: "Walk the audit log hash chain and report the first broken entry",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withApp(cmd.Context(), func(ctx context.Context, app *bootstrap.App) error {
			res, err := app.Audit.Verify(ctx)
			if err != nil {
				return err
			}
			if !res.Valid {
				return fmt.Errorf("audit chain broken at seq %d (%d entries checked)", res.BrokenSeq, res.Checked)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "audit chain valid (%d entries)\n", res.Checked)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(verifyAuditCmd)
}
