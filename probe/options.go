package probe

import (
	"errors"
	"net/http"
	"time"
)

// probeConfig holds mutable state during probe construction.
type probeConfig struct {
	method      string
	headers     map[string]string
	timeout     time.Duration
	ready       Matcher
	abortStatus map[int]bool
	client      *http.Client
}

// Option is a function that configures a [Probe] during construction.
//
// Option implements the functional options pattern, allowing optional
// configuration to be passed to [New] in a type-safe, extensible way.
// Options return an error if validation fails.
type Option func(*probeConfig) error

// WithMethod sets the HTTP method for checks.
//
// Supported methods are GET (default), HEAD, and POST. Use HEAD for
// targets where reachability is enough and the body is irrelevant.
//
// Returns an error if the method is not GET, HEAD, or POST.
func WithMethod(method string) Option {
	return func(cfg *probeConfig) error {
		switch method {
		case http.MethodGet, http.MethodHead, http.MethodPost:
			cfg.method = method
			return nil
		default:
			return errors.New("method must be GET, HEAD, or POST")
		}
	}
}

// WithHeaders adds custom HTTP headers to every check request.
//
// Use this for targets that require authentication. Accepts variadic
// key-value pairs; the number of arguments must be even.
//
// Example:
//
//	p, err := probe.New("api", url,
//	    probe.WithHeaders("Authorization", "Bearer token123"),
//	)
//
// Returns an error if an odd number of arguments is provided.
func WithHeaders(keyValues ...string) Option {
	return func(cfg *probeConfig) error {
		if len(keyValues)%2 != 0 {
			return errors.New("WithHeaders requires an even number of arguments (key-value pairs)")
		}
		for i := 0; i < len(keyValues); i += 2 {
			cfg.headers[keyValues[i]] = keyValues[i+1]
		}
		return nil
	}
}

// WithTimeout sets the per-check HTTP timeout.
//
// A check that exceeds the timeout produces a Result with a non-nil Err,
// which the engine treats as "not ready" and retries. Defaults to 10
// seconds.
//
// Returns an error if the duration is zero or negative.
func WithTimeout(d time.Duration) Option {
	return func(cfg *probeConfig) error {
		if d <= 0 {
			return errors.New("timeout must be positive")
		}
		cfg.timeout = d
		return nil
	}
}

// WithReadyMatcher sets the [Matcher] that decides readiness from a
// response. If not specified, [StatusOK] is used.
//
// Example:
//
//	p, err := probe.New("api", url,
//	    probe.WithReadyMatcher(probe.JSONField("data.health")),
//	)
//
// Returns an error if the matcher is nil.
func WithReadyMatcher(m Matcher) Option {
	return func(cfg *probeConfig) error {
		if m == nil {
			return errors.New("matcher cannot be nil")
		}
		cfg.ready = m
		return nil
	}
}

// WithAbortOnStatus marks HTTP status codes as fatal.
//
// A response carrying one of these codes makes [Probe.Fatal] true, which
// terminates the session immediately instead of retrying. Typical use is
// 404 or 410 on a resource that will never appear.
//
// Returns an error if no codes are given or a code is out of range.
func WithAbortOnStatus(codes ...int) Option {
	return func(cfg *probeConfig) error {
		if len(codes) == 0 {
			return errors.New("WithAbortOnStatus requires at least one status code")
		}
		if cfg.abortStatus == nil {
			cfg.abortStatus = make(map[int]bool, len(codes))
		}
		for _, code := range codes {
			if code < 100 || code > 599 {
				return errors.New("status code must be between 100 and 599")
			}
			cfg.abortStatus[code] = true
		}
		return nil
	}
}

// WithHTTPClient sets a custom HTTP client for this probe, replacing the
// shared pooled client. Intended for tests and callers with special
// transport needs.
//
// Returns an error if the client is nil.
func WithHTTPClient(client *http.Client) Option {
	return func(cfg *probeConfig) error {
		if client == nil {
			return errors.New("http client cannot be nil")
		}
		cfg.client = client
		return nil
	}
}
