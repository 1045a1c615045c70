package github

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// FileContent is a file fetched through the contents API
type FileContent struct {
	SHA     string
	Content []byte
}

type contentResponse struct {
	SHA      string `json:"sha"`
	Content  string `json:"content"`
	Encoding string `json:"encoding"`
}

func contentsEndpoint(org, repo, path string) string {
	return fmt.Sprintf("repos/%s/%s/contents/%s", org, repo, strings.TrimPrefix(path, "/"))
}

// GetFile reads a file; a missing file returns (nil, nil)
func (c *Client) GetFile(ctx context.Context, org, repo, path, branch string) (*FileContent, error) {
	endpoint := contentsEndpoint(org, repo, path)
	if branch != "" {
		endpoint += "?ref=" + url.QueryEscape(branch)
	}

	var resp contentResponse
	if err := c.do(ctx, http.MethodGet, endpoint, nil, &resp); err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get %s: %w", path, err)
	}

	fc := &FileContent{SHA: resp.SHA}
	if resp.Encoding == "base64" {
		decoded, err := base64.StdEncoding.DecodeString(strings.ReplaceAll(resp.Content, "\n", ""))
		if err != nil {
			return nil, fmt.Errorf("failed to decode %s: %w", path, err)
		}
		fc.Content = decoded
	} else {
		fc.Content = []byte(resp.Content)
	}

	return fc, nil
}

// PutFile creates or overwrites a file. sha must be the current blob sha
// when the file already exists.
func (c *Client) PutFile(ctx context.Context, org, repo, path, branch, sha, message string, content []byte) error {
	payload := map[string]string{
		"message": message,
		"content": base64.StdEncoding.EncodeToString(content),
	}
	if sha != "" {
		payload["sha"] = sha
	}
	if branch != "" {
		payload["branch"] = branch
	}

	jsonBody, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	if err := c.do(ctx, http.MethodPut, contentsEndpoint(org, repo, path), bytes.NewReader(jsonBody), nil); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	return nil
}
