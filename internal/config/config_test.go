package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestExpandEnvVars(t *testing.T) {
	os.Setenv("TEST_VAR", "test-value")
	defer os.Unsetenv("TEST_VAR")

	tests := []struct {
		name   string
		input  string
		expect string
	}{
		{
			name:   "expands env var",
			input:  "${TEST_VAR}",
			expect: "test-value",
		},
		{
			name:   "keeps unset var",
			input:  "${UNSET_VAR}",
			expect: "${UNSET_VAR}",
		},
		{
			name:   "expands in string",
			input:  "https://${TEST_VAR}.example.com",
			expect: "https://test-value.example.com",
		},
		{
			name:   "fallback for unset var",
			input:  "${UNSET_VAR:-xref.json}",
			expect: "xref.json",
		},
		{
			name:   "set var beats fallback",
			input:  "${TEST_VAR:-other}",
			expect: "test-value",
		},
		{
			name:   "unterminated reference",
			input:  "token-${TEST_VAR",
			expect: "token-${TEST_VAR",
		},
		{
			name:   "no vars",
			input:  "plain string",
			expect: "plain string",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := expandEnvVars(tt.input)
			if result != tt.expect {
				t.Errorf("expandEnvVars(%q) = %q, want %q", tt.input, result, tt.expect)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	tmpDir := t.TempDir()
	cfgPath := filepath.Join(tmpDir, "devpool.yaml")

	t.Setenv("TEST_SOCIAL_TOKEN", "s3cret")

	content := `
devpool:
  owner: "ubiquity"
  repo: "devpool-directory"
  rewrite_bodies: true

projects:
  urls:
    - https://github.com/acme/widgets
    - https://github.com/gizmos
  categories:
    https://github.com/acme/widgets: "Category: hardware"
  exclude: [gizmos]
  include: [gizmos/keep]

social:
  enabled: true
  endpoint: "https://hooks.example.com/post"
  token: "${TEST_SOCIAL_TOKEN}"
`

	if err := os.WriteFile(cfgPath, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write temp config: %v", err)
	}

	cfg, err := Load(cfgPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if !cfg.Devpool.RewriteBodies {
		t.Errorf("Devpool.RewriteBodies = false, want true")
	}

	if len(cfg.Projects.URLs) != 2 {
		t.Errorf("len(Projects.URLs) = %d, want 2", len(cfg.Projects.URLs))
	}

	if got := cfg.Projects.Categories["https://github.com/acme/widgets"]; got != "Category: hardware" {
		t.Errorf("category = %q, want Category: hardware", got)
	}

	if cfg.Social.Token != "s3cret" {
		t.Errorf("Social.Token = %q, want s3cret", cfg.Social.Token)
	}

	if cfg.Statistics.Path != "devpool-statistics.json" {
		t.Errorf("Statistics.Path = %q, want default", cfg.Statistics.Path)
	}

	if errs := Validate(cfg); len(errs) != 0 {
		t.Errorf("Validate() = %v, want no errors", errs)
	}
}

func TestLoadTOML(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "devpool.toml")

	content := `
log_level = "debug"

[devpool]
owner = "acme"
repo = "pool"

[projects]
urls = ["https://github.com/acme/widgets"]

[projects.categories]
"https://github.com/acme/widgets" = "Category: hardware"

[statistics]
branch = "__STORAGE__"
`

	if err := os.WriteFile(cfgPath, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write temp config: %v", err)
	}

	cfg, err := Load(cfgPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want debug", cfg.LogLevel)
	}
	if cfg.Devpool.Owner != "acme" || cfg.Devpool.Repo != "pool" {
		t.Errorf("Devpool = %+v, want acme/pool", cfg.Devpool)
	}
	if cfg.Statistics.Branch != "__STORAGE__" {
		t.Errorf("Statistics.Branch = %q, want __STORAGE__", cfg.Statistics.Branch)
	}
	if cfg.Projects.Categories["https://github.com/acme/widgets"] != "Category: hardware" {
		t.Errorf("Categories = %v", cfg.Projects.Categories)
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := &Config{}
	applyDefaults(cfg)

	if cfg.Devpool.Owner != "ubiquity" || cfg.Devpool.Repo != "devpool-directory" {
		t.Errorf("Devpool = %+v, want ubiquity/devpool-directory", cfg.Devpool)
	}

	if cfg.Xref.Path != "twitter-map.json" {
		t.Errorf("Xref.Path = %v, want twitter-map.json", cfg.Xref.Path)
	}

	if cfg.DevpoolURL() != "https://github.com/ubiquity/devpool-directory" {
		t.Errorf("DevpoolURL() = %v", cfg.DevpoolURL())
	}
}

func TestValidate(t *testing.T) {
	cfg := &Config{
		Projects: ProjectsConfig{
			URLs:    []string{"https://github.com/acme/widgets", "not a url"},
			Exclude: []string{"a/b/c"},
		},
		Social: SocialConfig{Enabled: true, Endpoint: "${UNSET_ENDPOINT}"},
	}
	applyDefaults(cfg)

	errs := Validate(cfg)

	fields := map[string]bool{}
	for _, e := range errs {
		if ve, ok := e.(ValidationError); ok {
			fields[ve.Field] = true
		}
	}

	for _, want := range []string{"projects.urls[1]", "projects.exclude[0]", "social.endpoint"} {
		if !fields[want] {
			t.Errorf("Validate() missing error for %s, got %v", want, errs)
		}
	}
	if fields["projects.urls[0]"] {
		t.Errorf("Validate() flagged a valid project URL")
	}
}
