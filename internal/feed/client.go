// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package feed

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/pdiddy/paper-feed/internal/httputil"
	"github.com/pdiddy/paper-feed/pkg/types"
)

// maxFeedBytes bounds a single feed response.
const maxFeedBytes = 64 << 20

// Client fetches raw feed documents from the arXiv query API.
type Client struct {
	HTTP       *http.Client
	BaseURL    string
	UserAgent  string
	MaxRetries int
	Logger     *zap.Logger
}

// NewClient returns a Client for cfg against base (DefaultAPIBase if empty).
func NewClient(httpClient *http.Client, base string, cfg types.HTTPConfig, logger *zap.Logger) *Client {
	if base == "" {
		base = DefaultAPIBase
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		HTTP:       httpClient,
		BaseURL:    base,
		UserAgent:  httputil.UserAgent(cfg),
		MaxRetries: cfg.MaxRetries,
		Logger:     logger,
	}
}

// Fetch performs the GET for q and returns the response body. Any transport
// error or non-200 status is returned as an error.
func (c *Client) Fetch(ctx context.Context, q Query) ([]byte, error) {
	url := q.URL(c.BaseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.UserAgent)
	req.Header.Set("Accept", "application/atom+xml")

	c.Logger.Debug("fetching feed", zap.String("url", url))
	resp, err := httputil.DoWithRetry(ctx, c.HTTP, req, c.MaxRetries, c.Logger)
	if err != nil {
		return nil, fmt.Errorf("arXiv API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{StatusCode: resp.StatusCode, URL: url}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxFeedBytes))
	if err != nil {
		return nil, fmt.Errorf("reading arXiv response: %w", err)
	}
	return body, nil
}

// FetchPapers fetches and parses the feed for q.
func (c *Client) FetchPapers(ctx context.Context, q Query) ([]types.Paper, error) {
	body, err := c.Fetch(ctx, q)
	if err != nil {
		return nil, err
	}
	return ParseBytes(body)
}
