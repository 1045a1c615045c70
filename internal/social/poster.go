package social

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// Poster publishes free text and returns the remote post id
type Poster interface {
	Post(ctx context.Context, text string) (string, error)
}

// NopPoster accepts every post without sending it anywhere
type NopPoster struct{}

// Post returns a locally generated id
func (NopPoster) Post(_ context.Context, text string) (string, error) {
	return "local-" + uuid.NewSHA1(uuid.NameSpaceURL, []byte(text)).String(), nil
}

// WebhookPoster sends posts as JSON to an HTTP endpoint that relays them
// to the social network and answers with {"id": "..."}
type WebhookPoster struct {
	endpoint string
	token    string
	client   *http.Client
}

// NewWebhookPoster creates a poster for endpoint; token is sent as a bearer token
func NewWebhookPoster(endpoint, token string) *WebhookPoster {
	return &WebhookPoster{
		endpoint: endpoint,
		token:    token,
		client:   &http.Client{Timeout: 30 * time.Second},
	}
}

type postRequest struct {
	Text string `json:"text"`
}

type postResponse struct {
	ID   json.RawMessage `json:"id"`
	Data struct {
		ID string `json:"id"`
	} `json:"data"`
}

// Post sends text and returns the id reported by the endpoint
func (p *WebhookPoster) Post(ctx context.Context, text string) (string, error) {
	body, err := json.Marshal(postRequest{Text: text})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build post request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if p.token != "" {
		req.Header.Set("Authorization", "Bearer "+p.token)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send post: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("failed to read post response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("post rejected: %s: %s", resp.Status, bytes.TrimSpace(data))
	}

	var pr postResponse
	if err := json.Unmarshal(data, &pr); err != nil {
		return "", fmt.Errorf("failed to parse post response: %w", err)
	}

	if id := rawID(pr.ID); id != "" {
		return id, nil
	}
	if pr.Data.ID != "" {
		return pr.Data.ID, nil
	}
	return "", fmt.Errorf("post response has no id")
}

// rawID accepts both string and numeric ids
func rawID(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		if _, err := strconv.ParseInt(n.String(), 10, 64); err == nil {
			return n.String()
		}
	}
	return ""
}
