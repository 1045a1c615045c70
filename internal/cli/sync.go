package cli

import (
	"encoding/json"
	"fmt"

	"github.com/Kavirubc/gh-devpool/internal/pipeline"
	"github.com/Kavirubc/gh-devpool/internal/social"
	"github.com/Kavirubc/gh-devpool/internal/xref"
	"github.com/spf13/cobra"
)

func newSyncCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Mirror partner issues into the devpool and publish statistics",
		Long: `Run one full reconciliation pass: create mirrors for new priced
issues, update title/body/labels of existing mirrors, open or close mirrors
according to the partner issue, and publish the statistics file.

Exits non-zero when any error was logged during the run.`,
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

			if err := checkConfig(cfg, logger); err != nil {
				return err
			}

			gh, err := newGitHubClient(cfg)
			if err != nil {
				return fmt.Errorf("failed to create GitHub client: %w", err)
			}
			defer gh.Close()

			// With posting disabled, announcements go to a no-op poster and
			// the cross-reference map stays in memory.
			var poster social.Poster = social.NopPoster{}
			posts := xref.NewMemoryStore()
			if cfg.Social.Enabled {
				poster = social.NewWebhookPoster(cfg.Social.Endpoint, cfg.Social.Token)
				posts, err = xref.Load(cfg.Xref.Path)
				if err != nil {
					logger.Error("starting with an empty cross-reference map", "path", cfg.Xref.Path, "error", err)
				}
			}

			syncer := pipeline.NewSyncer(cfg, gh, pipeline.Options{
				Poster: poster,
				Posts:  posts,
				Logger: logger,
				DryRun: dryRun,
			})

			result, err := syncer.Run(ctx)
			if err != nil {
				return fmt.Errorf("sync failed: %w", err)
			}

			if jsonOutput {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				if err := enc.Encode(result); err != nil {
					return err
				}
			} else {
				pipeline.PrintRunResult(cmd.OutOrStdout(), result)
			}

			if n := counter.Errors(); n > 0 {
				return fmt.Errorf("sync finished with %d errors", n)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "print the run summary as JSON")

	return cmd
}
