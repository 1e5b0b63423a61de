package probe

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func TestNew_Validation(t *testing.T) {
	tests := []struct {
		name    string
		pName   string
		url     string
		opts    []Option
		wantErr string
	}{
		{"empty name", "", "http://example.com", nil, "name cannot be empty"},
		{"missing scheme", "api", "example.com/health", nil, "scheme must be http or https"},
		{"bad scheme", "api", "ftp://example.com", nil, "scheme must be http or https"},
		{"bad method", "api", "http://example.com", []Option{WithMethod("DELETE")}, "method must be"},
		{"odd headers", "api", "http://example.com", []Option{WithHeaders("just-a-key")}, "even number"},
		{"zero timeout", "api", "http://example.com", []Option{WithTimeout(0)}, "timeout must be positive"},
		{"nil matcher", "api", "http://example.com", []Option{WithReadyMatcher(nil)}, "matcher cannot be nil"},
		{"no abort codes", "api", "http://example.com", []Option{WithAbortOnStatus()}, "at least one status code"},
		{"abort code out of range", "api", "http://example.com", []Option{WithAbortOnStatus(42)}, "between 100 and 599"},
		{"nil client", "api", "http://example.com", []Option{WithHTTPClient(nil)}, "client cannot be nil"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.pName, tt.url, tt.opts...)
			if err == nil {
				t.Fatal("New() error = nil, want error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("New() error = %q, want it to contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestProbe_CheckSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	}))
	defer server.Close()

	p, err := New("api", server.URL)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	result := p.check(context.Background())
	if result.Err != nil {
		t.Fatalf("check() Err = %v, want nil", result.Err)
	}
	if result.StatusCode != http.StatusOK {
		t.Errorf("StatusCode = %d, want 200", result.StatusCode)
	}
	if string(result.Body) != `{"status":"ok"}` {
		t.Errorf("Body = %q, want %q", result.Body, `{"status":"ok"}`)
	}
	if result.CheckedAt.IsZero() {
		t.Error("CheckedAt is zero")
	}
	if !p.Ready(result) {
		t.Error("Ready() = false for a 2xx response, want true")
	}
	if p.Fatal(result) {
		t.Error("Fatal() = true with no abort codes configured, want false")
	}
}

func TestProbe_CheckSendsMethodAndHeaders(t *testing.T) {
	var gotMethod, gotAuth atomic.Value
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod.Store(r.Method)
		gotAuth.Store(r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	p, err := New("api", server.URL,
		WithMethod(http.MethodHead),
		WithHeaders("Authorization", "Bearer token123"),
	)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	result := p.check(context.Background())
	if result.Err != nil {
		t.Fatalf("check() Err = %v, want nil", result.Err)
	}
	if gotMethod.Load() != http.MethodHead {
		t.Errorf("request method = %v, want HEAD", gotMethod.Load())
	}
	if gotAuth.Load() != "Bearer token123" {
		t.Errorf("Authorization header = %v, want Bearer token123", gotAuth.Load())
	}
}

func TestProbe_CheckTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	p, err := New("slow", server.URL, WithTimeout(20*time.Millisecond))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	result := p.check(context.Background())
	if result.Err == nil {
		t.Fatal("check() Err = nil, want timeout error")
	}
	if p.Ready(result) {
		t.Error("Ready() = true for an errored result, want false")
	}
	if p.Fatal(result) {
		t.Error("Fatal() = true for an errored result, want false")
	}
}

func TestProbe_CheckConnectionRefused(t *testing.T) {
	// reserve a port and close it so nothing is listening
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	p, err := New("gone", url, WithTimeout(500*time.Millisecond))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	result := p.check(context.Background())
	if result.Err == nil {
		t.Fatal("check() Err = nil, want connection error")
	}
	if result.StatusCode != 0 {
		t.Errorf("StatusCode = %d, want 0 for a failed request", result.StatusCode)
	}
}

func TestProbe_FatalOnConfiguredStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	p, err := New("api", server.URL, WithAbortOnStatus(404, 410))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	result := p.check(context.Background())
	if result.Err != nil {
		t.Fatalf("check() Err = %v, want nil", result.Err)
	}
	if p.Ready(result) {
		t.Error("Ready() = true for a 404, want false")
	}
	if !p.Fatal(result) {
		t.Error("Fatal() = false for a configured abort status, want true")
	}
}

func TestProbe_FetcherReportsOnce(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	p, err := New("api", server.URL)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	results := make(chan Result, 2)
	fetch := p.Fetcher(context.Background())
	fetch(func(r Result) { results <- r })

	select {
	case r := <-results:
		if r.StatusCode != http.StatusOK {
			t.Errorf("reported StatusCode = %d, want 200", r.StatusCode)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("fetcher never reported")
	}

	select {
	case <-results:
		t.Error("fetcher reported more than once")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestProbe_BodyLimitEnforced(t *testing.T) {
	big := make([]byte, maxResponseBodySize+1024)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(big)
	}))
	defer server.Close()

	p, err := New("bulky", server.URL)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	result := p.check(context.Background())
	if result.Err != nil {
		t.Fatalf("check() Err = %v, want nil", result.Err)
	}
	if len(result.Body) != maxResponseBodySize {
		t.Errorf("Body length = %d, want capped at %d", len(result.Body), maxResponseBodySize)
	}
}
