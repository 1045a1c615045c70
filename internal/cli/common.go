package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/Kavirubc/gh-devpool/internal/config"
	"github.com/Kavirubc/gh-devpool/internal/github"
	"github.com/Kavirubc/gh-devpool/internal/logging"
)

func loadConfig() (*config.Config, error) {
	cfgPath := config.FindConfigPath(cfgFile)
	if cfgPath == "" {
		return nil, fmt.Errorf("config file not found")
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

// newLogger resolves the level from flag, environment and config, in that order
func newLogger(w io.Writer, cfg *config.Config) (*slog.Logger, *logging.CountingHandler, error) {
	raw, source := logging.SelectLevel(logLevel, os.Getenv(logging.EnvLevel), cfg.LogLevel)
	level, err := logging.ParseLevel(raw)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", source, err)
	}

	logger, counter := logging.New(w, level)
	if dryRun {
		logger = logger.With("dry_run", true)
	}
	return logger, counter, nil
}

// checkConfig fails on fatal validation errors. Bad project URLs only
// warn: the sync skips those projects and carries on.
func checkConfig(cfg *config.Config, logger *slog.Logger) error {
	var fatal int
	for _, err := range config.Validate(cfg) {
		var ve config.ValidationError
		if errors.As(err, &ve) && strings.HasPrefix(ve.Field, "projects.urls[") {
			logger.Warn("config warning", "error", err)
			continue
		}
		logger.Error("config error", "error", err)
		fatal++
	}
	if fatal > 0 {
		return fmt.Errorf("invalid configuration")
	}
	return nil
}

func newGitHubClient(cfg *config.Config) (*github.Client, error) {
	if cfg.Devpool.Token != "" {
		return github.NewClientWithToken(cfg.Devpool.Token)
	}
	return github.NewClient()
}
