// Package fetch provides the retrying HTTP fetcher used by update checkers,
// with DNS caching and per-host circuit breaking.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/cenk/backoff"
	"github.com/rs/dnscache"
)

var (
	ErrNotFound     = errors.New("document not found")
	ErrRateLimited  = errors.New("rate limited by upstream")
	ErrUpstreamDown = errors.New("upstream unavailable")
)

// StatusError is returned for non-success responses that are neither retried
// nor mapped to one of the sentinel errors.
type StatusError struct {
	StatusCode int
	URL        string
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d from %s", e.StatusCode, e.URL)
}

// Response is a successful upstream response.
type Response struct {
	Body        io.ReadCloser
	ContentType string
	ETag        string
}

// FetcherInterface defines the interface for document fetchers.
type FetcherInterface interface {
	Fetch(ctx context.Context, url string) (*Response, error)
}

// Fetcher downloads release metadata from upstream hosts.
type Fetcher struct {
	client     *http.Client
	userAgent  string
	accept     string
	maxRetries int
	baseDelay  time.Duration
	authFn     func(url string) (headerName, headerValue string)
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(f *Fetcher) {
		f.client = c
	}
}

// WithTimeout sets the overall timeout of a single request attempt.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.client.Timeout = d
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) {
		f.userAgent = ua
	}
}

// WithMaxRetries sets the maximum retry attempts.
func WithMaxRetries(n int) Option {
	return func(f *Fetcher) {
		f.maxRetries = n
	}
}

// WithBaseDelay sets the base delay for exponential backoff.
func WithBaseDelay(d time.Duration) Option {
	return func(f *Fetcher) {
		f.baseDelay = d
	}
}

// WithAuthFunc sets a function that returns auth headers for a given URL.
// Return empty strings to skip authentication for that URL.
func WithAuthFunc(fn func(url string) (headerName, headerValue string)) Option {
	return func(f *Fetcher) {
		f.authFn = fn
	}
}

var (
	resolverOnce sync.Once
	resolver     *dnscache.Resolver
)

// sharedResolver returns the process-wide DNS cache, refreshed every 5 minutes.
func sharedResolver() *dnscache.Resolver {
	resolverOnce.Do(func() {
		resolver = &dnscache.Resolver{}
		go func() {
			ticker := time.NewTicker(5 * time.Minute)
			defer ticker.Stop()
			for range ticker.C {
				resolver.Refresh(true)
			}
		}()
	})
	return resolver
}

// NewFetcher creates a new Fetcher with the given options.
func NewFetcher(opts ...Option) *Fetcher {
	res := sharedResolver()

	dialer := &net.Dialer{
		Timeout:   10 * time.Second,
		KeepAlive: 30 * time.Second,
	}

	f := &Fetcher{
		client: &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				Proxy: http.ProxyFromEnvironment,
				DialContext: func(ctx context.Context, network, addr string) (net.Conn, error) {
					host, port, err := net.SplitHostPort(addr)
					if err != nil {
						return nil, err
					}
					ips, err := res.LookupHost(ctx, host)
					if err != nil {
						return nil, err
					}
					for _, ip := range ips {
						conn, err := dialer.DialContext(ctx, network, net.JoinHostPort(ip, port))
						if err == nil {
							return conn, nil
						}
					}
					return nil, fmt.Errorf("failed to dial any resolved IP")
				},
				MaxIdleConns:          20,
				MaxIdleConnsPerHost:   4,
				IdleConnTimeout:       90 * time.Second,
				TLSHandshakeTimeout:   10 * time.Second,
				ExpectContinueTimeout: 1 * time.Second,
			},
		},
		userAgent:  "modmenu/1.0",
		accept:     "*/*",
		maxRetries: 3,
		baseDelay:  500 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// newBackOff returns an exponential schedule starting at baseDelay with 10% jitter.
func (f *Fetcher) newBackOff() *backoff.ExponentialBackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = f.baseDelay
	b.RandomizationFactor = 0.1
	b.Multiplier = 2
	b.MaxInterval = 30 * time.Second
	b.MaxElapsedTime = 0
	b.Reset()
	return b
}

// Fetch downloads the document at url.
// The caller must close the returned Response.Body when done.
func (f *Fetcher) Fetch(ctx context.Context, url string) (*Response, error) {
	var lastErr error
	schedule := f.newBackOff()

	for attempt := 0; attempt <= f.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(schedule.NextBackOff()):
			}
		}

		resp, err := f.doFetch(ctx, url)
		if err == nil {
			return resp, nil
		}

		lastErr = err

		// Retry on rate limit and server errors only
		if errors.Is(err, ErrRateLimited) || errors.Is(err, ErrUpstreamDown) {
			continue
		}

		return nil, err
	}

	return nil, lastErr
}

func (f *Fetcher) doFetch(ctx context.Context, url string) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", f.accept)

	if f.authFn != nil {
		if name, value := f.authFn(url); name != "" && value != "" {
			req.Header.Set(name, value)
		}
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", url, err)
	}

	switch {
	case resp.StatusCode == http.StatusOK:
		return &Response{
			Body:        resp.Body,
			ContentType: resp.Header.Get("Content-Type"),
			ETag:        resp.Header.Get("ETag"),
		}, nil

	case resp.StatusCode == http.StatusNotFound:
		_ = resp.Body.Close()
		return nil, ErrNotFound

	case resp.StatusCode == http.StatusTooManyRequests:
		_ = resp.Body.Close()
		return nil, ErrRateLimited

	case resp.StatusCode >= 500:
		_ = resp.Body.Close()
		return nil, ErrUpstreamDown

	default:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		_ = resp.Body.Close()
		return nil, &StatusError{StatusCode: resp.StatusCode, URL: url, Body: string(body)}
	}
}
