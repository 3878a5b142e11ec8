package fetch

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func TestFetchSuccess(t *testing.T) {
	content := `[{"tag_name":"v1.0.0"}]`
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("ETag", `"abc123"`)
		_, _ = w.Write([]byte(content))
	}))
	defer server.Close()

	f := NewFetcher()
	resp, err := f.Fetch(context.Background(), server.URL+"/releases")
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.ContentType != "application/json" {
		t.Errorf("ContentType = %q, want %q", resp.ContentType, "application/json")
	}
	if resp.ETag != `"abc123"` {
		t.Errorf("ETag = %q, want %q", resp.ETag, `"abc123"`)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("ReadAll failed: %v", err)
	}
	if string(body) != content {
		t.Errorf("body = %q, want %q", string(body), content)
	}
}

func TestFetchNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	f := NewFetcher()
	_, err := f.Fetch(context.Background(), server.URL+"/missing.xml")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Fetch = %v, want ErrNotFound", err)
	}
}

func TestFetchUnexpectedStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte("forbidden"))
	}))
	defer server.Close()

	f := NewFetcher()
	_, err := f.Fetch(context.Background(), server.URL+"/releases")

	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("Fetch = %v, want *StatusError", err)
	}
	if statusErr.StatusCode != http.StatusForbidden {
		t.Errorf("StatusCode = %d, want 403", statusErr.StatusCode)
	}
	if statusErr.Body != "forbidden" {
		t.Errorf("Body = %q, want %q", statusErr.Body, "forbidden")
	}
}

func TestFetchRateLimitRetry(t *testing.T) {
	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if attempts.Add(1) < 3 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		_, _ = w.Write([]byte("success"))
	}))
	defer server.Close()

	f := NewFetcher(WithBaseDelay(10 * time.Millisecond))
	resp, err := f.Fetch(context.Background(), server.URL+"/releases")
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if got := attempts.Load(); got != 3 {
		t.Errorf("attempts = %d, want 3", got)
	}
}

func TestFetchMaxRetries(t *testing.T) {
	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	f := NewFetcher(WithMaxRetries(2), WithBaseDelay(10*time.Millisecond))
	_, err := f.Fetch(context.Background(), server.URL+"/releases")
	if !errors.Is(err, ErrUpstreamDown) {
		t.Errorf("expected ErrUpstreamDown, got %v", err)
	}

	// Initial attempt + 2 retries = 3 total
	if got := attempts.Load(); got != 3 {
		t.Errorf("attempts = %d, want 3", got)
	}
}

func TestFetchContextCancellation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(100 * time.Millisecond)
		_, _ = w.Write([]byte("success"))
	}))
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	f := NewFetcher()
	if _, err := f.Fetch(ctx, server.URL+"/releases"); err == nil {
		t.Error("expected error on context cancellation")
	}
}

func TestFetchTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		_, _ = w.Write([]byte("late"))
	}))
	defer server.Close()

	f := NewFetcher(WithTimeout(20*time.Millisecond), WithMaxRetries(0))
	if _, err := f.Fetch(context.Background(), server.URL+"/releases"); err == nil {
		t.Error("expected timeout error")
	}
}

func TestFetchUserAgentAndAuth(t *testing.T) {
	var receivedUA, receivedAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		receivedUA = r.Header.Get("User-Agent")
		receivedAuth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte("ok"))
	}))
	defer server.Close()

	f := NewFetcher(
		WithUserAgent("custom-agent/2.0"),
		WithAuthFunc(func(string) (string, string) { return "Authorization", "Bearer t0k" }),
	)
	resp, _ := f.Fetch(context.Background(), server.URL+"/releases")
	if resp != nil {
		_ = resp.Body.Close()
	}

	if receivedUA != "custom-agent/2.0" {
		t.Errorf("User-Agent = %q, want %q", receivedUA, "custom-agent/2.0")
	}
	if receivedAuth != "Bearer t0k" {
		t.Errorf("Authorization = %q, want %q", receivedAuth, "Bearer t0k")
	}
}

func TestFetchDNSCaching(t *testing.T) {
	var requestCount atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestCount.Add(1)
		_, _ = w.Write([]byte("ok"))
	}))
	defer server.Close()

	f := NewFetcher()

	for i := 0; i < 3; i++ {
		resp, err := f.Fetch(context.Background(), server.URL+"/releases")
		if err != nil {
			t.Fatalf("Fetch %d failed: %v", i+1, err)
		}
		_ = resp.Body.Close()
	}

	if got := requestCount.Load(); got != 3 {
		t.Errorf("requestCount = %d, want 3", got)
	}
}
