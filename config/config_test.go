package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestParse_MinimalConfig(t *testing.T) {
	data := []byte(`
targets:
  - name: api
    url: https://api.example.com/health
`)

	cfg, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if cfg.MaxTries != defaultMaxTries {
		t.Errorf("MaxTries = %d, want default %d", cfg.MaxTries, defaultMaxTries)
	}
	if cfg.Interval.Duration() != defaultInterval {
		t.Errorf("Interval = %v, want default %v", cfg.Interval.Duration(), defaultInterval)
	}
	if len(cfg.Targets) != 1 {
		t.Fatalf("Targets length = %d, want 1", len(cfg.Targets))
	}
	if cfg.Targets[0].Name != "api" {
		t.Errorf("Targets[0].Name = %q, want %q", cfg.Targets[0].Name, "api")
	}
}

func TestParse_FullConfig(t *testing.T) {
	data := []byte(`
max_tries: 30
interval: 2s

targets:
  - name: api
    url: https://api.example.com/health
    method: HEAD
    timeout: 5s
    max_tries: 5
    interval: 500ms
    headers:
      X-Check: pollkit
    ready: json:data.status
    abort_status: [404, 410]
`)

	cfg, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if cfg.MaxTries != 30 {
		t.Errorf("MaxTries = %d, want 30", cfg.MaxTries)
	}
	if cfg.Interval.Duration() != 2*time.Second {
		t.Errorf("Interval = %v, want 2s", cfg.Interval.Duration())
	}

	tc := cfg.Targets[0]
	if tc.Method != "HEAD" {
		t.Errorf("Method = %q, want HEAD", tc.Method)
	}
	if tc.Timeout.Duration() != 5*time.Second {
		t.Errorf("Timeout = %v, want 5s", tc.Timeout.Duration())
	}
	if tc.MaxTries != 5 {
		t.Errorf("MaxTries = %d, want 5", tc.MaxTries)
	}
	if tc.Interval.Duration() != 500*time.Millisecond {
		t.Errorf("Interval = %v, want 500ms", tc.Interval.Duration())
	}
	if tc.Ready.Type != "json" || tc.Ready.Path != "data.status" {
		t.Errorf("Ready = %+v, want json matcher on data.status", tc.Ready)
	}
	if len(tc.AbortStatus) != 2 || tc.AbortStatus[0] != 404 {
		t.Errorf("AbortStatus = %v, want [404 410]", tc.AbortStatus)
	}
}

func TestParse_StructuredReadyMatcher(t *testing.T) {
	data := []byte(`
targets:
  - name: job
    url: https://jobs.example.com/state
    ready:
      type: json
      path: state
      values: [complete, done]
`)

	cfg, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	ready := cfg.Targets[0].Ready
	if ready.Type != "json" || ready.Path != "state" {
		t.Errorf("Ready = %+v, want structured json matcher", ready)
	}
	if len(ready.Values) != 2 || ready.Values[0] != "complete" {
		t.Errorf("Ready.Values = %v, want [complete done]", ready.Values)
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		wantErr string
	}{
		{"invalid yaml", "targets: [", "failed to parse YAML"},
		{"no targets", "max_tries: 5", "at least one target"},
		{"negative max_tries", "max_tries: -1\ntargets:\n  - name: a\n    url: http://x", "max_tries must be at least 1"},
		{"interval too small", "interval: 1ms\ntargets:\n  - name: a\n    url: http://x", "interval must be at least"},
		{"missing name", "targets:\n  - url: http://x", "name is required"},
		{"missing url", "targets:\n  - name: a", "url is required"},
		{"bad scheme", "targets:\n  - name: a\n    url: ftp://x", "scheme must be http or https"},
		{"duplicate names", "targets:\n  - name: a\n    url: http://x\n  - name: a\n    url: http://y", "duplicate target name"},
		{"bad method", "targets:\n  - name: a\n    url: http://x\n    method: DELETE", "method must be"},
		{"bad duration", "targets:\n  - name: a\n    url: http://x\n    timeout: soon", "invalid duration"},
		{"unknown ready shorthand", "targets:\n  - name: a\n    url: http://x\n    ready: regex:foo", "unknown ready type"},
		{"abort code out of range", "targets:\n  - name: a\n    url: http://x\n    abort_status: [9000]", "out of range"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data))
			if err == nil {
				t.Fatal("Parse() error = nil, want error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Parse() error = %q, want it to contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestParse_EnvExpansion(t *testing.T) {
	t.Setenv("POLLKIT_TEST_HOST", "api.example.com")
	t.Setenv("POLLKIT_TEST_TOKEN", "secret123")

	data := []byte(`
targets:
  - name: api
    url: https://${POLLKIT_TEST_HOST}/health
    headers:
      Authorization: Bearer ${POLLKIT_TEST_TOKEN}
      X-Env: ${POLLKIT_TEST_MISSING:-fallback}
`)

	cfg, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	tc := cfg.Targets[0]
	if tc.URL != "https://api.example.com/health" {
		t.Errorf("URL = %q, want expanded host", tc.URL)
	}
	if tc.Headers["Authorization"] != "Bearer secret123" {
		t.Errorf("Authorization = %q, want expanded token", tc.Headers["Authorization"])
	}
	if tc.Headers["X-Env"] != "fallback" {
		t.Errorf("X-Env = %q, want default value %q", tc.Headers["X-Env"], "fallback")
	}
}

func TestParse_MissingEnvVarFails(t *testing.T) {
	data := []byte(`
targets:
  - name: api
    url: https://${POLLKIT_DEFINITELY_UNSET}/health
`)

	_, err := Parse(data)
	if err == nil {
		t.Fatal("Parse() error = nil, want missing-env error")
	}
	if !strings.Contains(err.Error(), "POLLKIT_DEFINITELY_UNSET") {
		t.Errorf("Parse() error = %q, want it to name the variable", err)
	}
}

func TestLoad_ReadsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pollkit.yaml")
	content := `
targets:
  - name: api
    url: https://api.example.com/health
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(cfg.Targets) != 1 {
		t.Errorf("Targets length = %d, want 1", len(cfg.Targets))
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil {
		t.Fatal("Load() error = nil, want error for missing file")
	}
}
