package projects

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Kavirubc/gh-devpool/internal/config"
	"github.com/Kavirubc/gh-devpool/internal/github"
	"github.com/Kavirubc/gh-devpool/internal/xref"
)

// RepoLister lists the repositories of an organization or user
type RepoLister interface {
	ListOwnerRepos(ctx context.Context, owner string) ([]github.Repository, error)
}

// Registry is the static list of partner projects and filters
type Registry struct {
	urls    []string
	include []string
	exclude []string
}

// NewRegistry creates a registry from configuration
func NewRegistry(cfg *config.ProjectsConfig) *Registry {
	return &Registry{
		urls:    cfg.URLs,
		include: cfg.Include,
		exclude: cfg.Exclude,
	}
}

// Resolve expands organization URLs into repository URLs and applies the
// include/exclude filters. Entries that fail to parse or expand are logged
// and skipped; the rest are returned in configuration order without duplicates.
// The returned error joins every skipped entry, so a nil error means the list
// is complete.
func (r *Registry) Resolve(ctx context.Context, lister RepoLister, logger *slog.Logger) ([]string, error) {
	var result []string
	var errs []error
	seen := make(map[string]struct{})

	add := func(owner, repo, url string) {
		key := strings.ToLower(owner + "/" + repo)
		if _, ok := seen[key]; ok {
			return
		}
		if !r.Allowed(owner, repo) {
			logger.Debug("project excluded", "project", owner+"/"+repo)
			return
		}
		seen[key] = struct{}{}
		result = append(result, url)
	}

	for _, raw := range r.urls {
		owner, repo, err := xref.ParseProjectURL(raw)
		if err != nil {
			logger.Error("skipping project", "url", raw, "error", err)
			errs = append(errs, err)
			continue
		}

		if repo != "" {
			add(owner, repo, strings.TrimSuffix(raw, "/"))
			continue
		}

		repos, err := lister.ListOwnerRepos(ctx, owner)
		if err != nil {
			logger.Error("failed to expand organization", "owner", owner, "error", err)
			errs = append(errs, fmt.Errorf("failed to expand %s: %w", owner, err))
			continue
		}
		for _, rp := range repos {
			if rp.Archived {
				continue
			}
			url := rp.HTMLURL
			if url == "" {
				url = fmt.Sprintf("https://github.com/%s/%s", owner, rp.Name)
			}
			add(owner, rp.Name, url)
		}
	}

	return result, errors.Join(errs...)
}

// Allowed reports whether owner/repo passes the filters; include wins over exclude
func (r *Registry) Allowed(owner, repo string) bool {
	if !matchesAny(r.exclude, owner, repo) {
		return true
	}
	return matchesAny(r.include, owner, repo)
}

// matchesAny checks slugs of the form "owner" or "owner/repo" (case-insensitive)
func matchesAny(slugs []string, owner, repo string) bool {
	full := owner + "/" + repo
	for _, s := range slugs {
		s = strings.Trim(strings.TrimSpace(s), "/")
		if strings.Contains(s, "/") {
			if strings.EqualFold(s, full) {
				return true
			}
			continue
		}
		if strings.EqualFold(s, owner) {
			return true
		}
	}
	return false
}
