package probe

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/jpalmerr/pollkit"
)

const (
	defaultTimeout      = 10 * time.Second
	maxResponseBodySize = 1 << 20 // 1MB
)

// connection pooling limits to prevent resource exhaustion when many
// probes share the default client
const (
	defaultMaxIdleConns        = 100
	defaultMaxIdleConnsPerHost = 10
	defaultMaxConnsPerHost     = 10
	defaultIdleConnTimeout     = 60 * time.Second
)

// Result holds the outcome of one HTTP check.
//
// Result is the status value a probe's fetcher reports to the engine. It
// captures the response body (limited to 1MB), the HTTP status code, the
// request latency, and any transport error. Matchers and predicates read
// it; the engine passes it through untouched.
type Result struct {
	// Body contains the HTTP response body, limited to 1MB.
	Body []byte

	// StatusCode is the HTTP status code (e.g., 200, 404, 500).
	// Zero if the request failed before receiving a response.
	StatusCode int

	// Latency is the total time taken for the request.
	Latency time.Duration

	// CheckedAt is the timestamp when the check was performed.
	CheckedAt time.Time

	// Err contains any transport-level error. A Result with a non-nil Err
	// is never ready; it counts as "not yet" and the engine retries it.
	Err error
}

// Probe describes one HTTP target to poll for readiness.
//
// Probe is immutable after creation via [New]. Each probe owns its own
// configuration; probes share only the pooled default HTTP client (unless
// [WithHTTPClient] overrides it).
type Probe struct {
	name        string
	url         string
	method      string
	headers     map[string]string
	timeout     time.Duration
	ready       Matcher
	abortStatus map[int]bool
	client      *http.Client
}

var (
	defaultClientOnce sync.Once
	defaultClient     *http.Client
)

// sharedClient returns the package-wide pooled HTTP client.
func sharedClient() *http.Client {
	defaultClientOnce.Do(func() {
		defaultClient = &http.Client{
			// no global timeout; each check applies its own via context
			Transport: &http.Transport{
				MaxIdleConns:        defaultMaxIdleConns,
				MaxIdleConnsPerHost: defaultMaxIdleConnsPerHost,
				MaxConnsPerHost:     defaultMaxConnsPerHost,
				IdleConnTimeout:     defaultIdleConnTimeout,
			},
		}
	})
	return defaultClient
}

// New creates a [Probe] with the given name, URL, and options.
//
// The name is a human-readable identifier used in logs and journal
// records. The rawURL must be a valid http:// or https:// URL.
//
// Options are applied in order; see [WithMethod], [WithHeaders],
// [WithTimeout], [WithReadyMatcher], [WithAbortOnStatus], and
// [WithHTTPClient]. Without options the probe does a GET with a 10 second
// timeout, considers any 2xx response ready, and never aborts.
//
// Returns an error if the name is empty or the URL is invalid.
func New(name, rawURL string, opts ...Option) (*Probe, error) {
	if name == "" {
		return nil, errors.New("probe name cannot be empty")
	}

	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid URL: %w", err)
	}
	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return nil, errors.New("URL scheme must be http or https")
	}

	cfg := &probeConfig{
		headers: make(map[string]string),
		timeout: defaultTimeout,
	}
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	ready := cfg.ready
	if ready == nil {
		ready = StatusOK()
	}

	return &Probe{
		name:        name,
		url:         rawURL,
		method:      cfg.method,
		headers:     cfg.headers,
		timeout:     cfg.timeout,
		ready:       ready,
		abortStatus: cfg.abortStatus,
		client:      cfg.client,
	}, nil
}

// Name returns the probe's display name.
func (p *Probe) Name() string {
	return p.name
}

// URL returns the probe's target URL.
func (p *Probe) URL() string {
	return p.url
}

// Fetcher adapts the probe to the engine's fetcher contract.
//
// Each fetch performs one HTTP check in its own goroutine and reports
// exactly once, so the engine is never blocked on the network. The given
// context bounds all checks made through this fetcher; per-check timeouts
// are layered on top of it.
func (p *Probe) Fetcher(ctx context.Context) pollkit.Fetcher[Result] {
	return func(report func(Result)) {
		go func() {
			report(p.check(ctx))
		}()
	}
}

// Ready is the success predicate for this probe: the result has no
// transport error and the probe's readiness matcher accepts it.
func (p *Probe) Ready(r Result) bool {
	if r.Err != nil {
		return false
	}
	return p.ready(r)
}

// Fatal is the abort predicate for this probe. It holds when the response
// carries one of the status codes configured via [WithAbortOnStatus];
// with none configured it never holds and the probe retries until the
// attempt budget runs out.
func (p *Probe) Fatal(r Result) bool {
	if r.Err != nil {
		return false
	}
	return p.abortStatus[r.StatusCode]
}

// check performs a single HTTP request and returns a structured [Result].
//
// Errors are captured in the Result rather than returned: to the engine a
// failed check is a status ("not ready"), not a fault.
func (p *Probe) check(ctx context.Context) Result {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	start := time.Now()

	method := p.method
	if method == "" {
		method = http.MethodGet
	}

	req, err := http.NewRequestWithContext(ctx, method, p.url, nil)
	if err != nil {
		return Result{
			Latency:   time.Since(start),
			CheckedAt: time.Now(),
			Err:       fmt.Errorf("failed to create request: %w", err),
		}
	}
	for key, value := range p.headers {
		req.Header.Set(key, value)
	}

	client := p.client
	if client == nil {
		client = sharedClient()
	}

	resp, err := client.Do(req)
	if err != nil {
		return Result{
			Latency:   time.Since(start),
			CheckedAt: time.Now(),
			Err:       fmt.Errorf("request failed: %w", err),
		}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBodySize))
	if err != nil {
		return Result{
			StatusCode: resp.StatusCode,
			Latency:    time.Since(start),
			CheckedAt:  time.Now(),
			Err:        fmt.Errorf("failed to read response body: %w", err),
		}
	}

	return Result{
		Body:       body,
		StatusCode: resp.StatusCode,
		Latency:    time.Since(start),
		CheckedAt:  time.Now(),
	}
}
