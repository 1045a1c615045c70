package cli

import (
	"fmt"

	"github.com/Kavirubc/gh-devpool/internal/labels"
	"github.com/Kavirubc/gh-devpool/internal/projects"
	"github.com/Kavirubc/gh-devpool/internal/xref"
	"github.com/spf13/cobra"
)

func newProjectsCmd() *cobra.Command {
	var check bool

	cmd := &cobra.Command{
		Use:   "projects",
		Short: "List the partner repositories a sync would visit",
		Long: `Expand organization URLs and apply include/exclude filters,
then print every partner repository with its category label.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			logger, _, err := newLogger(cmd.ErrOrStderr(), cfg)
			if err != nil {
				return err
			}

			gh, err := newGitHubClient(cfg)
			if err != nil {
				return fmt.Errorf("failed to create GitHub client: %w", err)
			}
			defer gh.Close()

			reconciler := labels.NewReconciler(cfg.Projects.Categories)
			// Skipped entries are already logged; list what did resolve.
			urls, _ := projects.NewRegistry(&cfg.Projects).Resolve(cmd.Context(), gh, logger)

			out := cmd.OutOrStdout()
			missing := 0
			for _, u := range urls {
				if check {
					owner, repo, err := xref.ParseRepoURL(u)
					if err != nil {
						return err
					}
					exists, err := gh.RepoExists(cmd.Context(), owner, repo)
					if err != nil {
						return fmt.Errorf("failed to check %s: %w", u, err)
					}
					if !exists {
						fmt.Fprintf(out, "%s\tMISSING\n", u)
						missing++
						continue
					}
				}
				if category := reconciler.Category(u); category != "" {
					fmt.Fprintf(out, "%s\t%s\n", u, category)
					continue
				}
				fmt.Fprintln(out, u)
			}
			fmt.Fprintf(out, "\n%d projects\n", len(urls))
			if missing > 0 {
				return fmt.Errorf("%d projects not found", missing)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&check, "check", false, "verify that every project repository exists")

	return cmd
}
