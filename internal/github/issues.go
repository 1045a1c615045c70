package github

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/Kavirubc/gh-devpool/pkg/models"
)

const defaultPerPage = 100

// ListOptions configures issue listing
type ListOptions struct {
	State   string // "open", "closed", "all"
	PerPage int
	Page    int
}

// ListIssues fetches one page of issues from a repository
func (c *Client) ListIssues(ctx context.Context, org, repo string, opts ListOptions) ([]*models.Issue, error) {
	if opts.PerPage == 0 {
		opts.PerPage = defaultPerPage
	}
	if opts.State == "" {
		opts.State = "all"
	}
	if opts.Page == 0 {
		opts.Page = 1
	}

	params := url.Values{}
	params.Set("state", opts.State)
	params.Set("per_page", strconv.Itoa(opts.PerPage))
	params.Set("page", strconv.Itoa(opts.Page))
	params.Set("sort", "created")
	params.Set("direction", "asc")

	endpoint := fmt.Sprintf("repos/%s/%s/issues?%s", org, repo, params.Encode())

	var apiIssues []Issue
	if err := c.do(ctx, http.MethodGet, endpoint, nil, &apiIssues); err != nil {
		return nil, fmt.Errorf("failed to list issues of %s/%s: %w", org, repo, err)
	}

	issues := make([]*models.Issue, 0, len(apiIssues))
	for i := range apiIssues {
		issues = append(issues, apiIssues[i].ToModel(org, repo))
	}

	return issues, nil
}

// ListAllIssues fetches all issues of a repository using pagination.
// Pull requests are kept and flagged; callers decide whether to skip them.
func (c *Client) ListAllIssues(ctx context.Context, org, repo string) ([]*models.Issue, error) {
	var allIssues []*models.Issue
	page := 1

	for {
		issues, err := c.ListIssues(ctx, org, repo, ListOptions{
			State:   "all",
			PerPage: defaultPerPage,
			Page:    page,
		})
		if err != nil {
			return nil, err
		}

		allIssues = append(allIssues, issues...)

		if len(issues) < defaultPerPage {
			break
		}
		page++
	}

	return allIssues, nil
}

// NewIssue is the payload for creating an issue
type NewIssue struct {
	Title  string   `json:"title"`
	Body   string   `json:"body"`
	Labels []string `json:"labels"`
}

// CreateIssue opens a new issue and returns it
func (c *Client) CreateIssue(ctx context.Context, org, repo string, issue NewIssue) (*models.Issue, error) {
	endpoint := fmt.Sprintf("repos/%s/%s/issues", org, repo)

	jsonBody, err := json.Marshal(issue)
	if err != nil {
		return nil, err
	}

	var created Issue
	if err := c.do(ctx, http.MethodPost, endpoint, bytes.NewReader(jsonBody), &created); err != nil {
		return nil, fmt.Errorf("failed to create issue: %w", err)
	}

	return created.ToModel(org, repo), nil
}

// IssueUpdate carries the fields to change; nil fields are left untouched
type IssueUpdate struct {
	Title  *string   `json:"title,omitempty"`
	Body   *string   `json:"body,omitempty"`
	Labels *[]string `json:"labels,omitempty"`
}

// Empty reports whether the update changes nothing
func (u IssueUpdate) Empty() bool {
	return u.Title == nil && u.Body == nil && u.Labels == nil
}

// UpdateIssue patches title, body and labels in a single call
func (c *Client) UpdateIssue(ctx context.Context, org, repo string, number int, update IssueUpdate) error {
	if update.Empty() {
		return nil
	}

	endpoint := fmt.Sprintf("repos/%s/%s/issues/%d", org, repo, number)

	jsonBody, err := json.Marshal(update)
	if err != nil {
		return err
	}

	if err := c.do(ctx, http.MethodPatch, endpoint, bytes.NewReader(jsonBody), nil); err != nil {
		return fmt.Errorf("failed to update issue: %w", err)
	}

	return nil
}

// SetIssueState closes or reopens an issue
func (c *Client) SetIssueState(ctx context.Context, org, repo string, number int, state models.State) error {
	endpoint := fmt.Sprintf("repos/%s/%s/issues/%d", org, repo, number)

	payload := map[string]string{"state": string(state)}
	if state == models.StateClosed {
		payload["state_reason"] = "completed"
	}

	jsonBody, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	if err := c.do(ctx, http.MethodPatch, endpoint, bytes.NewReader(jsonBody), nil); err != nil {
		return fmt.Errorf("failed to set issue state to %s: %w", state, err)
	}

	return nil
}
