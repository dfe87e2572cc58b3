package client

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultBaseURL is the API root of the public Falcon Sandbox instance.
const DefaultBaseURL = "https://www.reverse.it/api/v2"

// DefaultUserAgent is the User-Agent the service expects from API clients.
const DefaultUserAgent = "Falcon Sandbox"

// APIKeyHeader is the request header carrying the API credential.
const APIKeyHeader = "api-key"

// Client is a Falcon Sandbox API client.
// A Client holds only read-only configuration and is safe for concurrent use.
type Client struct {
	apiKey     string
	baseURL    string
	userAgent  string
	httpClient *http.Client
}

// Option is a functional option for configuring the Client.
type Option func(*Client)

// WithBaseURL sets a custom base URL for the API.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimSuffix(baseURL, "/")
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		if httpClient != nil {
			c.httpClient = httpClient
		}
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(userAgent string) Option {
	return func(c *Client) {
		if userAgent != "" {
			c.userAgent = userAgent
		}
	}
}

// New creates a new Falcon Sandbox API client.
// The key is not validated locally; an invalid key surfaces as an APIError
// on the first request.
func New(apiKey string, opts ...Option) *Client {
	c := &Client{
		apiKey:     apiKey,
		baseURL:    DefaultBaseURL,
		userAgent:  DefaultUserAgent,
		httpClient: http.DefaultClient,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the API root requests are sent to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// postForm sends a form-encoded POST and returns the raw response body.
// Non-2xx responses are returned as *APIError.
func (c *Client) postForm(ctx context.Context, path string, form url.Values) ([]byte, error) {
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, &TransportError{Op: "creating request", Err: err}
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set(APIKeyHeader, c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		slog.Debug("HTTP request failed",
			slog.String("method", http.MethodPost),
			slog.String("path", path),
			slog.String("error", err.Error()),
			slog.Int64("duration_ms", time.Since(start).Milliseconds()),
		)
		return nil, &TransportError{Op: "executing request", Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Op: "reading response", Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		slog.Debug("HTTP request returned error",
			slog.String("method", http.MethodPost),
			slog.String("path", path),
			slog.Int("status", resp.StatusCode),
			slog.Int64("duration_ms", time.Since(start).Milliseconds()),
		)
		return nil, parseError(resp.StatusCode, body)
	}

	slog.Debug("HTTP request completed",
		slog.String("method", http.MethodPost),
		slog.String("path", path),
		slog.Int("status", resp.StatusCode),
		slog.Int("bytes", len(body)),
		slog.Int64("duration_ms", time.Since(start).Milliseconds()),
	)

	return body, nil
}

// SearchHash looks up sandbox reports for an MD5, SHA1 or SHA256 digest.
// The hash is sent as given; the service decides what it matches. Reports are
// returned in the order the service provided them.
func (c *Client) SearchHash(ctx context.Context, hash string) ([]SearchResult, error) {
	body, err := c.postForm(ctx, "/search/hash", url.Values{"hash": {hash}})
	if err != nil {
		return nil, fmt.Errorf("searching hash %q: %w", hash, err)
	}

	results, err := DecodeSearchResults(body)
	if err != nil {
		return nil, fmt.Errorf("searching hash %q: %w", hash, err)
	}
	return results, nil
}
