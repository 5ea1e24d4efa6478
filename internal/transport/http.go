package transport

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/muurk/ledpanel/internal/logging"
	"github.com/muurk/ledpanel/internal/version"
)

const (
	// TogglePath is the HTTP route that flips the LED
	TogglePath = "/led/toggle"

	// StatePath is the HTTP route that reports the LED state
	StatePath = "/led/state"
)

// HTTPClient talks to the device's HTTP API
type HTTPClient struct {
	// BaseURL is the base URL for the device (e.g., "http://192.168.0.187:1234")
	BaseURL string

	// HTTPClient is the underlying HTTP client
	HTTPClient *http.Client

	// Timeout bounds each command
	Timeout time.Duration
}

// NewHTTPClient creates a client for the device at host:port
func NewHTTPClient(address string, timeout time.Duration) *HTTPClient {
	return NewHTTPClientWithURL("http://"+address, timeout)
}

// NewHTTPClientWithURL creates a client with a full base URL
// baseURL: Full base URL (e.g., "http://127.0.0.1:8080")
func NewHTTPClientWithURL(baseURL string, timeout time.Duration) *HTTPClient {
	timeout = clampTimeout(timeout)
	return &HTTPClient{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{Timeout: timeout},
		Timeout:    timeout,
	}
}

// Name implements Client
func (c *HTTPClient) Name() string { return "http" }

// Endpoint implements Client
func (c *HTTPClient) Endpoint() string { return c.BaseURL }

// Close implements Client
func (c *HTTPClient) Close() error {
	c.HTTPClient.CloseIdleConnections()
	return nil
}

// Execute sends cmd and parses the state the device reports
func (c *HTTPClient) Execute(ctx context.Context, cmd Command) Outcome {
	ctx, cancel := context.WithTimeout(ctx, c.Timeout)
	defer cancel()

	method, path := http.MethodGet, StatePath
	if cmd == Toggle {
		method, path = http.MethodPost, TogglePath
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, nil)
	if err != nil {
		return Failure(Classify(fmt.Errorf("failed to create request: %w", err), cmd.String(), c.BaseURL))
	}
	req.Header.Set("Accept", "application/json, text/plain")
	req.Header.Set("User-Agent", version.UserAgent())

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return Failure(Classify(err, cmd.String(), c.BaseURL))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxReplySize))
	if err != nil {
		return Failure(Classify(err, cmd.String(), c.BaseURL))
	}
	logging.LogRawReply(cmd.String(), body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		e := malformed(cmd.String(), c.BaseURL, fmt.Sprintf("unexpected status code: %d", resp.StatusCode), nil)
		e.StatusCode = resp.StatusCode
		return Failure(e)
	}

	on, err := ParseStateBody(body)
	if err != nil {
		return Failure(malformed(cmd.String(), c.BaseURL, "unparsable reply", err))
	}
	return Success(on)
}
