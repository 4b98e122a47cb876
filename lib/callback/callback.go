// Copyright 2026 The Gridgate Authors
// SPDX-License-Identifier: Apache-2.0

package callback

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gridgate-foundation/gridgate/lib/wire"
)

// Client posts payloads to callback and notification URLs.
type Client struct {
	httpClient *http.Client
	timeout    time.Duration
	logger     *slog.Logger
}

// ClientConfig holds configuration for creating a Client.
type ClientConfig struct {
	// HTTPClient is used for all requests. If nil, http.DefaultClient
	// is used.
	HTTPClient *http.Client

	// Timeout bounds each delivery attempt. Required.
	Timeout time.Duration

	// Logger is used for structured logging. If nil, slog.Default()
	// is used.
	Logger *slog.Logger
}

// NewClient creates a delivery client.
func NewClient(config ClientConfig) (*Client, error) {
	if config.Timeout <= 0 {
		return nil, fmt.Errorf("callback: Timeout is required")
	}
	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{httpClient: httpClient, timeout: config.Timeout, logger: logger}, nil
}

// Post escapes and encodes fields and POSTs them to url as a form
// body. Success means the request round-tripped with a 2xx status;
// the response body is discarded unread beyond draining.
func (c *Client) Post(ctx context.Context, url string, fields map[string]string) error {
	body := wire.Encode(wire.Escape(fields))

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, url, strings.NewReader(body))
	if err != nil {
		return fmt.Errorf("callback: building request for %s: %w", url, err)
	}
	request.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	response, err := c.httpClient.Do(request)
	if err != nil {
		return fmt.Errorf("callback: delivering to %s: %w", url, err)
	}
	defer response.Body.Close()
	io.Copy(io.Discard, response.Body)

	if response.StatusCode < 200 || response.StatusCode > 299 {
		return fmt.Errorf("callback: %s returned status %d", url, response.StatusCode)
	}
	return nil
}
