package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/preston-bernstein/fake-soccer-service/internal/notify"
)

// Config controls how the client reaches the chat bridge.
type Config struct {
	URL        string
	Token      string
	HTTPClient *http.Client
}

// Client posts notices as JSON to a chat bridge that owns the platform connection.
type Client struct {
	url        string
	token      string
	httpClient httpDoer
	now        func() time.Time
}

// NewClient constructs a webhook client with the provided configuration.
func NewClient(cfg Config) *Client {
	return &Client{
		url:        normalizeURL(cfg.URL),
		token:      cfg.Token,
		httpClient: resolveHTTPClient(cfg.HTTPClient),
		now:        time.Now,
	}
}

// Notify delivers a single notice. A 429 comes back as notify.RateLimitError.
func (c *Client) Notify(ctx context.Context, n notify.Notice) error {
	if c.url == "" {
		return notify.ErrNotifierUnavailable
	}
	req, err := c.buildRequest(ctx, n)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	msg := strings.TrimSpace(string(body))
	if resp.StatusCode == http.StatusTooManyRequests {
		return &notify.RateLimitError{
			StatusCode: resp.StatusCode,
			RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After"), c.now()),
			Message:    msg,
		}
	}
	return fmt.Errorf("webhook: unexpected status %d: %s", resp.StatusCode, msg)
}

func (c *Client) buildRequest(ctx context.Context, n notify.Notice) (*http.Request, error) {
	payload, err := json.Marshal(n)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	return req, nil
}
