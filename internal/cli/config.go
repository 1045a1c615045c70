package cli

import (
	"fmt"

	"github.com/Kavirubc/gh-devpool/internal/config"
	"github.com/spf13/cobra"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management commands",
	}

	cmd.AddCommand(newConfigValidateCmd())
	return cmd
}

func newConfigValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			cfgPath := config.FindConfigPath(cfgFile)
			if cfgPath == "" {
				return fmt.Errorf("config file not found")
			}

			fmt.Fprintf(out, "Validating config: %s\n", cfgPath)

			cfg, err := config.Load(cfgPath)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			errs := config.Validate(cfg)
			if len(errs) > 0 {
				fmt.Fprintln(out, "\nValidation errors:")
				for _, e := range errs {
					fmt.Fprintf(out, "  - %v\n", e)
				}
				return fmt.Errorf("configuration is invalid")
			}

			fmt.Fprintln(out, "\nConfiguration is valid!")
			fmt.Fprintf(out, "  - Devpool: %s\n", cfg.DevpoolURL())
			fmt.Fprintf(out, "  - Projects: %d configured\n", len(cfg.Projects.URLs))
			fmt.Fprintf(out, "  - Categories: %d\n", len(cfg.Projects.Categories))
			fmt.Fprintf(out, "  - Statistics: %s\n", cfg.Statistics.Path)
			if cfg.Social.Enabled {
				fmt.Fprintf(out, "  - Social: %s\n", cfg.Social.Endpoint)
			}

			return nil
		},
	}
}
