package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Config represents the full application configuration
type Config struct {
	LogLevel   string           `yaml:"log_level" toml:"log_level"`
	Devpool    DevpoolConfig    `yaml:"devpool" toml:"devpool"`
	Projects   ProjectsConfig   `yaml:"projects" toml:"projects"`
	Statistics StatisticsConfig `yaml:"statistics" toml:"statistics"`
	Social     SocialConfig     `yaml:"social" toml:"social"`
	Xref       XrefConfig       `yaml:"xref" toml:"xref"`
}

// DevpoolConfig names the aggregator repository
type DevpoolConfig struct {
	Owner string `yaml:"owner" toml:"owner"`
	Repo  string `yaml:"repo" toml:"repo"`
	// RewriteBodies authorizes this run to set mirror bodies to the partner URL.
	// Forks of the devpool leave it off so partner issues get no backlinks.
	RewriteBodies bool   `yaml:"rewrite_bodies" toml:"rewrite_bodies"`
	Token         string `yaml:"token" toml:"token"`
}

// ProjectsConfig is the partner project registry
type ProjectsConfig struct {
	URLs       []string          `yaml:"urls" toml:"urls"`
	Categories map[string]string `yaml:"categories,omitempty" toml:"categories,omitempty"`
	Include    []string          `yaml:"include,omitempty" toml:"include,omitempty"`
	Exclude    []string          `yaml:"exclude,omitempty" toml:"exclude,omitempty"`
}

// StatisticsConfig controls where statistics are published
type StatisticsConfig struct {
	Path   string `yaml:"path" toml:"path"`
	Branch string `yaml:"branch" toml:"branch"`
}

// SocialConfig controls announcements of new mirrors
type SocialConfig struct {
	Enabled  bool   `yaml:"enabled" toml:"enabled"`
	Endpoint string `yaml:"endpoint" toml:"endpoint"`
	Token    string `yaml:"token" toml:"token"`
}

// XrefConfig locates the mirror -> social post map
type XrefConfig struct {
	Path string `yaml:"path" toml:"path"`
}

// Load reads and parses config from the given path.
// Files ending in .toml are decoded as TOML, everything else as YAML.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	} else {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	expandConfigEnvVars(&cfg)
	applyDefaults(&cfg)

	return &cfg, nil
}

// FindConfigPath looks for config in common locations
func FindConfigPath(explicit string) string {
	if explicit != "" {
		return explicit
	}

	paths := []string{
		".github/devpool.yaml",
		".github/devpool.yml",
		"devpool.yaml",
		"devpool.yml",
		"devpool.toml",
	}

	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	if home, err := os.UserHomeDir(); err == nil {
		homePath := filepath.Join(home, ".config", "gh-devpool", "config.yaml")
		if _, err := os.Stat(homePath); err == nil {
			return homePath
		}
	}

	return ""
}

// applyDefaults sets default values for unset fields
func applyDefaults(cfg *Config) {
	if cfg.Devpool.Owner == "" {
		cfg.Devpool.Owner = "ubiquity"
	}
	if cfg.Devpool.Repo == "" {
		cfg.Devpool.Repo = "devpool-directory"
	}
	if cfg.Statistics.Path == "" {
		cfg.Statistics.Path = "devpool-statistics.json"
	}
	if cfg.Xref.Path == "" {
		cfg.Xref.Path = "twitter-map.json"
	}
}

// DevpoolURL returns the html URL of the aggregator repository
func (cfg *Config) DevpoolURL() string {
	return fmt.Sprintf("https://github.com/%s/%s", cfg.Devpool.Owner, cfg.Devpool.Repo)
}
