// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package httputil

import (
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/pdiddy/paper-feed/pkg/types"
)

const (
	// DefaultTimeout applies when HTTPConfig.Timeout is zero.
	DefaultTimeout = 60 * time.Second
	// DefaultUserAgent applies when HTTPConfig.UserAgent is empty.
	DefaultUserAgent = "paper-feed/0.1"
)

// NewClient builds the HTTP client for a run from cfg. An empty Proxy uses
// the environment's proxy settings.
func NewClient(cfg types.HTTPConfig) (*http.Client, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	if cfg.Proxy != "" {
		proxyURL, err := url.Parse(cfg.Proxy)
		if err != nil {
			return nil, fmt.Errorf("parsing proxy %q: %w", cfg.Proxy, err)
		}
		if proxyURL.Scheme == "" || proxyURL.Host == "" {
			return nil, fmt.Errorf("parsing proxy %q: missing scheme or host", cfg.Proxy)
		}
		transport.Proxy = http.ProxyURL(proxyURL)
	}

	return &http.Client{Timeout: timeout, Transport: transport}, nil
}

// UserAgent returns cfg.UserAgent or the default.
func UserAgent(cfg types.HTTPConfig) string {
	if cfg.UserAgent != "" {
		return cfg.UserAgent
	}
	return DefaultUserAgent
}
