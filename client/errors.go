package client

import (
	"errors"
	"fmt"
)

// ErrNotFound is matched by HTTPError values for 404 responses.
var ErrNotFound = errors.New("not found")

// HTTPError represents an HTTP error response.
type HTTPError struct {
	StatusCode int
	URL        string
	Body       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.URL)
}

// IsNotFound returns true if the error represents a 404 response.
func (e *HTTPError) IsNotFound() bool {
	return e.StatusCode == 404
}

// Is lets errors.Is(err, ErrNotFound) match 404 responses.
func (e *HTTPError) Is(target error) bool {
	return target == ErrNotFound && e.IsNotFound()
}

// RateLimitError is returned when the upstream keeps rate limiting after all retries.
type RateLimitError struct {
	URL string
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("rate limited by %s", e.URL)
}
