// Package cleanup is a client for an optional text cleanup service that
// post-processes rendered Markdown (boilerplate removal, LLM rewriting).
package cleanup

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// ErrDisabled is returned by Clean when no service URL is configured.
var ErrDisabled = errors.New("cleanup service not configured")

// Client posts Markdown to a cleanup service and reads back the result.
type Client struct {
	client *http.Client
	url    string
}

// NewClient creates a client for the service at serviceURL. An empty URL
// yields a disabled client.
func NewClient(serviceURL string) *Client {
	return &Client{
		client: &http.Client{Timeout: 60 * time.Second},
		url:    serviceURL,
	}
}

// Enabled reports whether a service URL is configured.
func (c *Client) Enabled() bool {
	return c != nil && c.url != ""
}

type payload struct {
	Text string `json:"text"`
}

// Clean sends markdown to the service and returns the cleaned text.
func (c *Client) Clean(ctx context.Context, markdown string) (string, error) {
	if !c.Enabled() {
		return "", ErrDisabled
	}

	body, err := json.Marshal(payload{Text: markdown})
	if err != nil {
		return "", fmt.Errorf("failed to marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("unexpected status code: %d, body: %s", resp.StatusCode, string(bodyBytes))
	}

	var result payload
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	if result.Text == "" {
		return "", fmt.Errorf("empty text returned")
	}

	return result.Text, nil
}
