package github

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/Kavirubc/gh-devpool/pkg/models"
	"github.com/cli/go-gh/v2/pkg/api"
)

// Client wraps GitHub API operations
type Client struct {
	rest *api.RESTClient
}

// NewClient creates a client using the gh CLI / GH_TOKEN credentials
func NewClient() (*Client, error) {
	rest, err := api.DefaultRESTClient()
	if err != nil {
		return nil, fmt.Errorf("failed to create REST client: %w", err)
	}

	return &Client{rest: rest}, nil
}

// NewClientWithToken creates a client authenticated with an explicit token
func NewClientWithToken(token string) (*Client, error) {
	rest, err := api.NewRESTClient(api.ClientOptions{
		AuthToken: token,
		Timeout:   30 * time.Second,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create REST client: %w", err)
	}

	return &Client{rest: rest}, nil
}

// Close releases resources
func (c *Client) Close() error {
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader, response interface{}) error {
	return c.rest.DoWithContext(ctx, method, path, body, response)
}

// IsNotFound reports whether err is a 404 from the API
func IsNotFound(err error) bool {
	var httpErr *api.HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode == http.StatusNotFound
	}
	return false
}

// Issue represents a GitHub issue from the API
type Issue struct {
	NodeID      string       `json:"node_id"`
	Number      int          `json:"number"`
	Title       string       `json:"title"`
	Body        string       `json:"body"`
	State       string       `json:"state"`
	HTMLURL     string       `json:"html_url"`
	Assignee    *User        `json:"assignee"`
	Assignees   []User       `json:"assignees"`
	Labels      []Label      `json:"labels"`
	PullRequest *PullRequest `json:"pull_request"`
}

// User represents a GitHub user
type User struct {
	Login string `json:"login"`
}

// Label represents a GitHub label
type Label struct {
	Name string `json:"name"`
}

// PullRequest is the pull_request stub the issues endpoint attaches to PRs
type PullRequest struct {
	MergedAt *time.Time `json:"merged_at"`
}

// ToModel converts API Issue to models.Issue
func (i *Issue) ToModel(org, repo string) *models.Issue {
	labels := make([]models.Label, len(i.Labels))
	for j, l := range i.Labels {
		labels[j] = models.Label{Name: l.Name}
	}

	return &models.Issue{
		ID:          i.NodeID,
		Org:         org,
		Repo:        repo,
		Number:      i.Number,
		Title:       i.Title,
		Body:        i.Body,
		State:       models.State(i.State),
		Assigned:    i.Assignee != nil || len(i.Assignees) > 0,
		Labels:      labels,
		PullRequest: i.PullRequest != nil,
		Merged:      i.PullRequest != nil && i.PullRequest.MergedAt != nil,
		URL:         i.HTMLURL,
	}
}
