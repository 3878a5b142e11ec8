package fetch

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/cenk/backoff"
	circuit "github.com/rubyist/circuitbreaker"
)

// tripThreshold is the number of consecutive failures that opens a host's breaker.
const tripThreshold = 5

// CircuitBreakerFetcher wraps a Fetcher with per-host circuit breakers, so
// many mods checking the same release host stop hitting it once it fails.
type CircuitBreakerFetcher struct {
	fetcher  FetcherInterface
	breakers map[string]*circuit.Breaker
	mu       sync.RWMutex
}

// NewCircuitBreakerFetcher creates a new circuit breaker wrapper for a fetcher.
func NewCircuitBreakerFetcher(f FetcherInterface) *CircuitBreakerFetcher {
	return &CircuitBreakerFetcher{
		fetcher:  f,
		breakers: make(map[string]*circuit.Breaker),
	}
}

// getBreaker returns or creates the circuit breaker for host.
func (cbf *CircuitBreakerFetcher) getBreaker(host string) *circuit.Breaker {
	cbf.mu.RLock()
	breaker, exists := cbf.breakers[host]
	cbf.mu.RUnlock()

	if exists {
		return breaker
	}

	cbf.mu.Lock()
	defer cbf.mu.Unlock()

	if breaker, exists := cbf.breakers[host]; exists {
		return breaker
	}

	expBackoff := backoff.NewExponentialBackOff()
	expBackoff.InitialInterval = 30 * time.Second
	expBackoff.MaxInterval = 5 * time.Minute
	expBackoff.Multiplier = 2.0
	expBackoff.Reset()

	breaker = circuit.NewBreakerWithOptions(&circuit.Options{
		BackOff:    expBackoff,
		ShouldTrip: circuit.ThresholdTripFunc(tripThreshold),
	})

	cbf.breakers[host] = breaker
	return breaker
}

// Fetch wraps the underlying fetcher's Fetch with circuit breaker logic.
func (cbf *CircuitBreakerFetcher) Fetch(ctx context.Context, fetchURL string) (*Response, error) {
	host := extractHost(fetchURL)
	breaker := cbf.getBreaker(host)

	if !breaker.Ready() {
		return nil, fmt.Errorf("circuit breaker open for %s: %w", host, ErrUpstreamDown)
	}

	var (
		resp   *Response
		ownErr error
	)
	err := breaker.Call(func() error {
		r, fetchErr := cbf.fetcher.Fetch(ctx, fetchURL)
		if fetchErr != nil && !hostFailure(ctx, fetchErr) {
			ownErr = fetchErr
			return nil
		}
		resp = r
		return fetchErr
	}, 0)
	if ownErr != nil {
		return nil, ownErr
	}
	if err != nil {
		return nil, err
	}

	return resp, nil
}

// hostFailure reports whether err says something about the host's health.
// Missing documents and other 4xx answers belong to the requested URL, and a
// cancelled caller says nothing about the host, so neither trips the breaker.
func hostFailure(ctx context.Context, err error) bool {
	if ctx.Err() != nil || errors.Is(err, ErrNotFound) {
		return false
	}
	var statusErr *StatusError
	return !errors.As(err, &statusErr)
}

// extractHost returns the breaker key for a URL.
func extractHost(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Host == "" {
		if len(rawURL) > 50 {
			return rawURL[:50]
		}
		return rawURL
	}
	return parsed.Host
}

// BreakerStates reports "open" or "closed" per host seen so far.
func (cbf *CircuitBreakerFetcher) BreakerStates() map[string]string {
	cbf.mu.RLock()
	defer cbf.mu.RUnlock()

	states := make(map[string]string, len(cbf.breakers))
	for host, breaker := range cbf.breakers {
		if breaker.Tripped() {
			states[host] = "open"
		} else {
			states[host] = "closed"
		}
	}
	return states
}
