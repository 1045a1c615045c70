package cli

import (
	"fmt"

	"github.com/Kavirubc/gh-devpool/internal/stats"
	"github.com/spf13/cobra"
)

func newStatsCmd() *cobra.Command {
	var publish bool

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Compute reward and task statistics for the devpool",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			logger, counter, err := newLogger(cmd.ErrOrStderr(), cfg)
			if err != nil {
				return err
			}

			gh, err := newGitHubClient(cfg)
			if err != nil {
				return fmt.Errorf("failed to create GitHub client: %w", err)
			}
			defer gh.Close()

			mirrors, err := gh.ListAllIssues(ctx, cfg.Devpool.Owner, cfg.Devpool.Repo)
			if err != nil {
				return fmt.Errorf("failed to fetch devpool issues: %w", err)
			}

			st := stats.Aggregate(mirrors, logger)
			content, err := stats.Encode(st)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), string(content))

			if publish {
				if dryRun {
					logger.Info("[DRY RUN] would publish statistics", "path", cfg.Statistics.Path)
				} else {
					p := stats.NewPublisher(gh, cfg.Devpool.Owner, cfg.Devpool.Repo, cfg.Statistics.Path, cfg.Statistics.Branch)
					written, err := p.Publish(ctx, st)
					if err != nil {
						return fmt.Errorf("failed to publish statistics: %w", err)
					}
					logger.Info("statistics published", "path", cfg.Statistics.Path, "written", written)
				}
			}

			if n := counter.Errors(); n > 0 {
				return fmt.Errorf("statistics computed with %d errors", n)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&publish, "publish", false, "write the statistics file to the devpool repository")

	return cmd
}
