package github

import (
	"context"
	"fmt"
	"net/http"
)

// Repository is the subset of repository fields used for project expansion
type Repository struct {
	Name     string `json:"name"`
	FullName string `json:"full_name"`
	HTMLURL  string `json:"html_url"`
	Archived bool   `json:"archived"`
	Fork     bool   `json:"fork"`
}

// ListOwnerRepos lists every repository of an organization, falling back
// to the user endpoint when owner is not an organization
func (c *Client) ListOwnerRepos(ctx context.Context, owner string) ([]Repository, error) {
	repos, err := c.listRepos(ctx, "orgs/%s/repos?type=public&per_page=%d&page=%d", owner)
	if IsNotFound(err) {
		repos, err = c.listRepos(ctx, "users/%s/repos?type=owner&per_page=%d&page=%d", owner)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list repositories of %s: %w", owner, err)
	}
	return repos, nil
}

func (c *Client) listRepos(ctx context.Context, pattern, owner string) ([]Repository, error) {
	var all []Repository
	page := 1

	for {
		var repos []Repository
		endpoint := fmt.Sprintf(pattern, owner, defaultPerPage, page)
		if err := c.do(ctx, http.MethodGet, endpoint, nil, &repos); err != nil {
			return nil, err
		}

		all = append(all, repos...)

		if len(repos) < defaultPerPage {
			break
		}
		page++
	}

	return all, nil
}

// RepoExists checks if a repository exists
func (c *Client) RepoExists(ctx context.Context, org, repo string) (bool, error) {
	var result struct{}
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("repos/%s/%s", org, repo), nil, &result)
	if err != nil {
		if IsNotFound(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
