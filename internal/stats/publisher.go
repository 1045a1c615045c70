package stats

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/Kavirubc/gh-devpool/internal/github"
	"github.com/Kavirubc/gh-devpool/pkg/models"
)

// FileStore reads and writes repository files
type FileStore interface {
	GetFile(ctx context.Context, org, repo, path, branch string) (*github.FileContent, error)
	PutFile(ctx context.Context, org, repo, path, branch, sha, message string, content []byte) error
}

// Publisher writes the statistics document into the devpool repository
type Publisher struct {
	files  FileStore
	org    string
	repo   string
	path   string
	branch string
}

// NewPublisher creates a publisher for org/repo at path on branch (default branch when empty)
func NewPublisher(files FileStore, org, repo, path, branch string) *Publisher {
	return &Publisher{files: files, org: org, repo: repo, path: path, branch: branch}
}

// Encode renders statistics as the published JSON document
func Encode(s models.Statistics) ([]byte, error) {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode statistics: %w", err)
	}
	return append(data, '\n'), nil
}

// Publish overwrites the statistics file. It returns false without writing
// when the stored document is already identical.
func (p *Publisher) Publish(ctx context.Context, s models.Statistics) (bool, error) {
	content, err := Encode(s)
	if err != nil {
		return false, err
	}

	current, err := p.files.GetFile(ctx, p.org, p.repo, p.path, p.branch)
	if err != nil {
		return false, err
	}

	sha := ""
	if current != nil {
		if bytes.Equal(bytes.TrimSpace(current.Content), bytes.TrimSpace(content)) {
			return false, nil
		}
		sha = current.SHA
	}

	msg := fmt.Sprintf("chore: update statistics (%d tasks, %d total rewards)", s.Tasks.Total, s.Rewards.Total)
	if err := p.files.PutFile(ctx, p.org, p.repo, p.path, p.branch, sha, msg, content); err != nil {
		return false, err
	}
	return true, nil
}
