package social

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Kavirubc/gh-devpool/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestText(t *testing.T) {
	tests := []struct {
		name   string
		labels []string
		url    string
		want   string
	}{
		{
			name:   "price and time",
			labels: []string{"Pricing: 100", "Time: <3 Hours"},
			url:    "http://x/y",
			want:   "100 for <3 Hours\n\nhttp://x/y",
		},
		{
			name:   "missing time",
			labels: []string{"Pricing: 100 USD", "bug"},
			url:    "http://x/y",
			want:   "100 USD for \n\nhttp://x/y",
		},
		{
			name: "nothing set",
			url:  "http://x/y",
			want: " for \n\nhttp://x/y",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Text(models.NewLabels(tt.labels...), tt.url))
		})
	}
}

func TestNopPoster_Deterministic(t *testing.T) {
	a, err := NopPoster{}.Post(context.Background(), "hello")
	require.NoError(t, err)
	b, err := NopPoster{}.Post(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestWebhookPoster_Post(t *testing.T) {
	var got postRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"data":{"id":"1790000000000000000"}}`))
	}))
	defer srv.Close()

	id, err := NewWebhookPoster(srv.URL, "secret").Post(context.Background(), "100 for <1 Hour\n\nhttp://x/y")

	require.NoError(t, err)
	assert.Equal(t, "1790000000000000000", id)
	assert.Equal(t, "100 for <1 Hour\n\nhttp://x/y", got.Text)
}

func TestWebhookPoster_NumericID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id":42}`))
	}))
	defer srv.Close()

	id, err := NewWebhookPoster(srv.URL, "").Post(context.Background(), "x")

	require.NoError(t, err)
	assert.Equal(t, "42", id)
}

func TestWebhookPoster_Errors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{name: "rejected", status: http.StatusForbidden, body: `{"error":"nope"}`},
		{name: "no id", status: http.StatusOK, body: `{}`},
		{name: "bad json", status: http.StatusOK, body: `not json`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := NewWebhookPoster(srv.URL, "").Post(context.Background(), "x")
			assert.Error(t, err)
		})
	}
}
