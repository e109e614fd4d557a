// Package crmrest implements the outbound CRM transport over plain HTTP
// with JSON bodies, bearer or basic authentication and bounded retries.
package crmrest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"math/rand/v2"
	"net/http"
	"strings"
	"time"

	"log/slog"

	"github.com/priceflex/intercept/internal/logging"
)

// RetryConfig controls retry behavior for failed requests. Only transport
// errors and retryable statuses (5xx, 429) are retried.
type RetryConfig struct {
	MaxAttempts     int
	InitialInterval time.Duration
	MaxInterval     time.Duration
}

// Config holds the settings for a CRM REST client.
type Config struct {
	// BaseURL is the CRM host, e.g. "https://corp.my.salesforce.com".
	BaseURL string

	// BearerToken is sent as an Authorization: Bearer header when set.
	BearerToken string

	// BasicUser and BasicPassword select basic authentication. Ignored when
	// BearerToken is set.
	BasicUser     string
	BasicPassword string

	// Headers are added to every request.
	Headers map[string]string

	// Timeout bounds one attempt. Zero means 30 seconds.
	Timeout time.Duration

	Retry  RetryConfig
	Logger *slog.Logger
}

// Client implements ports.CRMTransport.
type Client struct {
	client *http.Client
	config Config
	logger *slog.Logger
}

// NewClient creates a client for the configured CRM host.
func NewClient(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("base url is required")
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.Retry.MaxAttempts <= 0 {
		cfg.Retry.MaxAttempts = 1
	}
	if cfg.Retry.InitialInterval <= 0 {
		cfg.Retry.InitialInterval = 200 * time.Millisecond
	}
	if cfg.Retry.MaxInterval <= 0 {
		cfg.Retry.MaxInterval = 30 * time.Second
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logging.NewNop()
	}

	return &Client{
		client: &http.Client{Timeout: cfg.Timeout},
		config: cfg,
		logger: logger,
	}, nil
}

// Do executes one request against the CRM and returns the decoded JSON
// response body, nil for empty responses.
func (c *Client) Do(ctx context.Context, method, path string, body any) (any, error) {
	var payload []byte
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		payload = data
	}

	started := time.Now()
	var lastErr error
	for attempt := 0; attempt < c.config.Retry.MaxAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, fmt.Errorf("canceled during retry backoff: %w", ctx.Err())
			case <-time.After(c.backoff(attempt)):
			}
		}

		out, err := c.doRequest(ctx, method, path, payload)
		if err == nil {
			c.logger.Debug("crm request", "method", method, "path", path,
				"took", time.Since(started))
			return out, nil
		}
		lastErr = err
		if isPermanent(err) {
			return nil, err
		}
	}
	if c.config.Retry.MaxAttempts > 1 {
		return nil, fmt.Errorf("crm request failed after %d attempts: %w",
			c.config.Retry.MaxAttempts, lastErr)
	}
	return nil, lastErr
}

func (c *Client) doRequest(ctx context.Context, method, path string, payload []byte) (any, error) {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.config.BaseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range c.config.Headers {
		req.Header.Set(k, v)
	}
	switch {
	case c.config.BearerToken != "":
		req.Header.Set("Authorization", "Bearer "+c.config.BearerToken)
	case c.config.BasicUser != "":
		req.SetBasicAuth(c.config.BasicUser, c.config.BasicPassword)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{Code: resp.StatusCode, Body: truncate(string(data), 512)}
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}

	var out any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return out, nil
}

func (c *Client) backoff(attempt int) time.Duration {
	base := float64(c.config.Retry.InitialInterval) * math.Pow(2, float64(attempt-1))
	if base > float64(c.config.Retry.MaxInterval) {
		base = float64(c.config.Retry.MaxInterval)
	}
	// ±20% jitter keeps retries from aligning across sessions.
	jitter := base * 0.2 * (2*rand.Float64() - 1)
	return time.Duration(base + jitter)
}

// Close releases idle connections.
func (c *Client) Close() error {
	c.client.CloseIdleConnections()
	return nil
}

// StatusError is a non-2xx CRM response.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("crm returned status %d", e.Code)
	}
	return fmt.Sprintf("crm returned status %d: %s", e.Code, e.Body)
}

// isPermanent reports client errors (4xx) except 429 Too Many Requests.
func isPermanent(err error) bool {
	var se *StatusError
	if !errors.As(err, &se) {
		return false
	}
	return se.Code >= 400 && se.Code < 500 && se.Code != http.StatusTooManyRequests
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
