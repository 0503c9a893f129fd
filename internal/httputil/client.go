// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides HTTP helpers shared across stages.
package httputil

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

// DefaultTimeout bounds each web fetch; a stalled request delays the
// run by at most this long.
const DefaultTimeout = 30 * time.Second

// NewClient returns an HTTP client with the given timeout, falling
// back to DefaultTimeout when zero.
func NewClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &http.Client{Timeout: timeout}
}

// Get issues a GET for url with the given User-Agent and any extra
// headers. It returns the response unconditionally on transport
// success; callers decide how to treat non-2xx statuses and must close
// the body. Requests are never retried.
func Get(ctx context.Context, client *http.Client, url, userAgent string, headers map[string]string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request for %s: %w", url, err)
	}
	if userAgent != "" {
		req.Header.Set("User-Agent", userAgent)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("HTTP request to %s: %w", url, err)
	}
	return resp, nil
}
