package screengrab

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/screengrab-dev/screengrab-go/internal/version"
)

// DefaultBaseURL is the production origin of the Screengrab API.
const DefaultBaseURL = "https://api.screengrab.dev"

// API paths.
const (
	screenshotPath = "/v1/screenshot"
	usagePath      = "/v1/usage"
)

const defaultTimeout = 60 * time.Second

// Client talks to the Screengrab API. It is safe for concurrent use.
type Client struct {
	apiKey     string
	baseURL    string
	userAgent  string
	httpClient *http.Client
	ownsClient bool
	logger     *slog.Logger

	// rateLimit is the last-writer-wins snapshot of the most recently
	// processed response's rate-limit headers.
	rateLimit atomic.Pointer[RateLimit]
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the production origin, e.g. for a self-hosted
// deployment or a test server.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithHTTPClient supplies an externally owned *http.Client. The client
// never closes a supplied transport; its owner remains responsible for it.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
		c.ownsClient = false
	}
}

// WithTimeout sets the per-request timeout of the client-owned transport.
// It has no effect after WithHTTPClient.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if c.ownsClient {
			c.httpClient.Timeout = d
		}
	}
}

// WithLogger sets a structured logger. The client logs request and
// response details at debug level; the default logger discards them.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithUserAgent overrides the identifying User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// New creates a Screengrab API client. The API key must be non-empty.
func New(apiKey string, opts ...Option) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, &ConfigError{Reason: "API key must not be empty"}
	}

	c := &Client{
		apiKey:     apiKey,
		baseURL:    DefaultBaseURL,
		userAgent:  "screengrab-go/" + version.Get().Version,
		httpClient: &http.Client{Timeout: defaultTimeout},
		ownsClient: true,
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// Close releases the client-owned transport's idle connections. It is a
// no-op when the transport was supplied via WithHTTPClient.
func (c *Client) Close() {
	if c.ownsClient {
		c.httpClient.CloseIdleConnections()
	}
}

// RateLimit returns the snapshot parsed from the most recently processed
// response that carried rate-limit headers, or nil before the first one.
// Under concurrent calls the slot reflects whichever response was
// processed last.
func (c *Client) RateLimit() *RateLimit {
	return c.rateLimit.Load()
}

// Capture renders req.URL and returns the raw image bytes. It rejects
// requests with Store set before issuing any network call; use
// CaptureStored for persisted captures.
func (c *Client) Capture(ctx context.Context, req CaptureRequest) ([]byte, error) {
	if req.Store {
		return nil, &ConfigError{Reason: "Store is not valid with Capture; use CaptureStored"}
	}
	body, err := c.do(ctx, http.MethodPost, screenshotPath, &req)
	if err != nil {
		return nil, err
	}
	return body, nil
}

// CaptureStored renders req.URL, asks the service to persist the result,
// and returns the storage metadata. Store is forced on regardless of the
// caller's value.
func (c *Client) CaptureStored(ctx context.Context, req CaptureRequest) (*CaptureResult, error) {
	req.Store = true
	body, err := c.do(ctx, http.MethodPost, screenshotPath, &req)
	if err != nil {
		return nil, err
	}

	var result CaptureResult
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, &DecodeError{Err: err}
	}
	if result.URL == "" {
		return nil, &DecodeError{Err: fmt.Errorf("stored capture response missing url")}
	}
	return &result, nil
}

// Usage returns the account's usage counters for the current billing
// period.
func (c *Client) Usage(ctx context.Context) (*UsageSnapshot, error) {
	body, err := c.do(ctx, http.MethodGet, usagePath, nil)
	if err != nil {
		return nil, err
	}

	var usage UsageSnapshot
	if err := json.Unmarshal(body, &usage); err != nil {
		return nil, &DecodeError{Err: err}
	}
	return &usage, nil
}

// do issues one request and returns the response body of a 2xx response.
// Every response, success or failure, refreshes the rate-limit snapshot
// before error classification.
func (c *Client) do(ctx context.Context, method, path string, payload any) ([]byte, error) {
	start := time.Now()

	var reqBody io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encoding request: %w", err)
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	requestID := ulid.Make().String()
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("X-Request-Id", requestID)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c.logger.Debug("screengrab request",
		"method", method,
		"path", path,
		"request_id", requestID,
	)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug("screengrab request failed",
			"method", method,
			"path", path,
			"request_id", requestID,
			"error", err,
			"duration_ms", time.Since(start).Milliseconds(),
		)
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	// Rate-limit headers are honored on every response, including errors.
	rl := parseRateLimit(resp.Header)
	if rl != nil {
		c.rateLimit.Store(rl)
	}

	c.logger.Debug("screengrab response",
		"method", method,
		"path", path,
		"request_id", requestID,
		"status", resp.StatusCode,
		"bytes", len(respBody),
		"duration_ms", time.Since(start).Milliseconds(),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if rl == nil {
			rl = c.rateLimit.Load()
		}
		return nil, classifyError(resp.StatusCode, resp.Header, respBody, rl)
	}

	return respBody, nil
}
