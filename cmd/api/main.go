// Command api runs the resume analyzer HTTP API and its maintenance tasks.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "api",
	Short: "Resume analyzer API server",
	Long:  "Resume analyzer parses resumes, scores them against job requirements and serves reports, market data, cover letters and privacy operations over HTTP.",
	// Running without a subcommand starts the server.
	RunE: runServe,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
