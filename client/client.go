// Package client provides the HTTP client update checkers use to read remote
// release listings.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/git-pkgs/modmenu/fetch"
)

// maxBodyBytes bounds how much of a release listing is read (10 MB).
const maxBodyBytes = 10 << 20

// Client is an HTTP client with retry and circuit breaking for release APIs.
type Client struct {
	fetcher    fetch.FetcherInterface
	timeout    time.Duration
	maxRetries int
	userAgent  string
	auth       func(url string) (string, string)
	custom     bool
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithMaxRetries sets the maximum number of retries on 429 and 5xx responses.
func WithMaxRetries(n int) Option {
	return func(c *Client) {
		c.maxRetries = n
	}
}

// WithAuth sets a function returning the auth header for a request URL.
// An empty header name sends nothing.
func WithAuth(fn func(url string) (headerName, headerValue string)) Option {
	return func(c *Client) {
		c.auth = fn
	}
}

// WithFetcher replaces the underlying fetcher. Timeout, retry and user agent
// options are ignored when a custom fetcher is supplied.
func WithFetcher(f fetch.FetcherInterface) Option {
	return func(c *Client) {
		c.fetcher = f
		c.custom = true
	}
}

// DefaultClient returns a client with sensible defaults:
// - 30s timeout
// - 3 retries with exponential backoff
// - per-host circuit breakers
func DefaultClient() *Client {
	return NewClient()
}

// NewClient creates a new client with the given options.
func NewClient(opts ...Option) *Client {
	c := &Client{
		timeout:    30 * time.Second,
		maxRetries: 3,
		userAgent:  "modmenu",
	}
	for _, opt := range opts {
		opt(c)
	}
	if !c.custom {
		c.fetcher = c.newFetcher()
	}
	return c
}

func (c *Client) newFetcher() fetch.FetcherInterface {
	return fetch.NewCircuitBreakerFetcher(fetch.NewFetcher(
		fetch.WithTimeout(c.timeout),
		fetch.WithMaxRetries(c.maxRetries),
		fetch.WithUserAgent(c.userAgent),
		fetch.WithAuthFunc(c.auth),
	))
}

// WithUserAgent returns a copy of the client sending ua as User-Agent.
func (c *Client) WithUserAgent(ua string) *Client {
	clone := *c
	clone.userAgent = ua
	if !clone.custom {
		clone.fetcher = clone.newFetcher()
	}
	return &clone
}

// UserAgent returns the User-Agent header value sent with every request.
func (c *Client) UserAgent() string {
	return c.userAgent
}

// BreakerStates reports the circuit breaker state per host, if the client uses breakers.
func (c *Client) BreakerStates() map[string]string {
	if cbf, ok := c.fetcher.(*fetch.CircuitBreakerFetcher); ok {
		return cbf.BreakerStates()
	}
	return nil
}

// GetBody fetches url and returns the (size-limited) response body.
func (c *Client) GetBody(ctx context.Context, url string) ([]byte, error) {
	resp, err := c.fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, wrapError(url, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", url, err)
	}
	return body, nil
}

// GetJSON fetches url and decodes the JSON body into v.
func (c *Client) GetJSON(ctx context.Context, url string, v any) error {
	body, err := c.GetBody(ctx, url)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("decoding JSON from %s: %w", url, err)
	}
	return nil
}

// wrapError converts fetcher errors into the client's error types.
func wrapError(url string, err error) error {
	var statusErr *fetch.StatusError
	switch {
	case errors.Is(err, fetch.ErrNotFound):
		return &HTTPError{StatusCode: 404, URL: url}
	case errors.Is(err, fetch.ErrRateLimited):
		return &RateLimitError{URL: url}
	case errors.As(err, &statusErr):
		return &HTTPError{StatusCode: statusErr.StatusCode, URL: url, Body: statusErr.Body}
	default:
		return err
	}
}
