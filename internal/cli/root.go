package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	cfgFile  string
	dryRun   bool
	logLevel string
	version  = "dev"
)

var rootCmd = &cobra.Command{
	Use:   "gh-devpool",
	Short: "Bounty issue mirror for the devpool directory",
	Long: `gh-devpool mirrors priced issues from partner repositories into a
single devpool repository and keeps title, labels and open/closed state in
step with the partner issue.

Each run also publishes reward and task statistics for the devpool.`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file path")
	rootCmd.PersistentFlags().BoolVar(&dryRun, "dry-run", false, "log intended changes without writing to GitHub")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")

	rootCmd.AddCommand(newSyncCmd())
	rootCmd.AddCommand(newStatsCmd())
	rootCmd.AddCommand(newProjectsCmd())
	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newVersionCmd())
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "gh-devpool version %s\n", version)
		},
	}
}
