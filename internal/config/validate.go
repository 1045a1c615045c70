package config

import (
	"fmt"
	"strings"

	"github.com/Kavirubc/gh-devpool/internal/xref"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate checks the configuration for errors.
// A malformed project URL is reported here but only skips that project at sync time.
func Validate(cfg *Config) []error {
	var errs []error

	if cfg.Devpool.Owner == "" {
		errs = append(errs, ValidationError{"devpool.owner", "required"})
	}
	if cfg.Devpool.Repo == "" {
		errs = append(errs, ValidationError{"devpool.repo", "required"})
	}

	if len(cfg.Projects.URLs) == 0 {
		errs = append(errs, ValidationError{"projects.urls", "at least one project required"})
	}
	for i, u := range cfg.Projects.URLs {
		if _, _, err := xref.ParseProjectURL(u); err != nil {
			errs = append(errs, ValidationError{fmt.Sprintf("projects.urls[%d]", i), err.Error()})
		}
	}

	for u, category := range cfg.Projects.Categories {
		if strings.TrimSpace(category) == "" {
			errs = append(errs, ValidationError{fmt.Sprintf("projects.categories[%s]", u), "empty category label"})
		}
	}

	errs = append(errs, validateSlugs("projects.include", cfg.Projects.Include)...)
	errs = append(errs, validateSlugs("projects.exclude", cfg.Projects.Exclude)...)

	if cfg.Social.Enabled {
		if cfg.Social.Endpoint == "" || strings.Contains(cfg.Social.Endpoint, "${") {
			errs = append(errs, ValidationError{"social.endpoint", "required when social posting is enabled"})
		} else if !strings.HasPrefix(cfg.Social.Endpoint, "http://") && !strings.HasPrefix(cfg.Social.Endpoint, "https://") {
			errs = append(errs, ValidationError{"social.endpoint", "must be an http(s) URL"})
		}
	}

	if strings.Contains(cfg.Statistics.Path, "..") {
		errs = append(errs, ValidationError{"statistics.path", "must not contain '..'"})
	}

	return errs
}

// validateSlugs checks include/exclude entries are "owner" or "owner/repo"
func validateSlugs(field string, slugs []string) []error {
	var errs []error
	for i, s := range slugs {
		parts := strings.Split(s, "/")
		if len(parts) > 2 || parts[0] == "" || (len(parts) == 2 && parts[1] == "") {
			errs = append(errs, ValidationError{fmt.Sprintf("%s[%d]", field, i), "must be in format 'owner' or 'owner/repo'"})
		}
	}
	return errs
}
