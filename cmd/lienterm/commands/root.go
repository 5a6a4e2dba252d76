package commands

import (
	"context"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "lienterm",
	Short: "lienterm fetches and normalizes county tax lien auction records.",
}

// ExecuteContext runs the command tree and returns its error so the caller
// can flush telemetry before exiting.
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}
