// Package config provides YAML configuration parsing for the pollkit CLI.
//
// This package enables running pollkit as a standalone binary with a
// configuration file, as an alternative to the programmatic SDK approach.
//
// Example configuration:
//
//	max_tries: 30
//	interval: 2s
//
//	targets:
//	  - name: api
//	    url: https://api.example.com/health
//	    timeout: 5s
//	    ready: json:status
//	    abort_status: [404, 410]
package config

import (
	"fmt"
	"net/url"
	"os"
	"regexp"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// minInterval is the minimum allowed polling interval for CLI configs.
// This prevents accidental DoS of targets with overly aggressive polling.
const minInterval = 10 * time.Millisecond

// defaults applied by Parse when the file leaves them out
const (
	defaultMaxTries = 10
	defaultInterval = time.Second
)

// Config is the root configuration structure for the pollkit CLI.
//
// It maps directly to the YAML configuration file structure.
// Use [Load] or [Parse] to create a Config from YAML.
type Config struct {
	// MaxTries is the default attempt budget for all targets.
	// Defaults to 10.
	MaxTries int `yaml:"max_tries"`

	// Interval is the default delay between attempts for all targets.
	// Accepts duration strings like "500ms", "2s", "1m". Defaults to 1s.
	Interval Duration `yaml:"interval"`

	// Targets defines the endpoints to poll until ready.
	Targets []TargetConfig `yaml:"targets"`
}

// TargetConfig defines a single target to poll.
type TargetConfig struct {
	// Name is the display name used in logs and journal records.
	Name string `yaml:"name"`

	// URL is the target URL.
	// Supports environment variable substitution: ${VAR} or ${VAR:-default}
	URL string `yaml:"url"`

	// Method is the HTTP method (GET, HEAD, POST). Defaults to GET.
	Method string `yaml:"method"`

	// Timeout is the per-check request timeout. Defaults to 10s.
	Timeout Duration `yaml:"timeout"`

	// MaxTries overrides the global attempt budget for this target.
	MaxTries int `yaml:"max_tries"`

	// Interval overrides the global delay between attempts for this target.
	Interval Duration `yaml:"interval"`

	// Headers are custom HTTP headers sent with each check.
	// Values support environment variable substitution.
	Headers map[string]string `yaml:"headers"`

	// Ready determines how a response is judged ready.
	// Can be shorthand ("status", "json:path", "contains:text") or structured.
	Ready ReadyConfig `yaml:"ready"`

	// AbortStatus lists HTTP status codes that end polling immediately
	// through the fail path instead of retrying.
	AbortStatus []int `yaml:"abort_status"`
}

// ReadyConfig specifies how to judge readiness from a response.
//
// It supports two formats in YAML:
//
// Shorthand string:
//
//	ready: status
//	ready: json:data.health.status
//	ready: contains:ok
//
// Structured object:
//
//	ready:
//	  type: json
//	  path: data.health.status
//	  values: [complete, done]
type ReadyConfig struct {
	// Type is the matcher type: "status", "json", "contains".
	Type string

	// Path is the JSON field path (for type: json).
	Path string

	// Text is the substring to search for (for type: contains).
	Text string

	// Values are the accepted field values (for type: json). Empty means
	// the common health-check vocabulary is accepted.
	Values []string
}

// Duration wraps time.Duration for YAML unmarshalling.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler for Duration.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}

	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}

	*d = Duration(parsed)
	return nil
}

// Duration returns the underlying time.Duration value.
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

// UnmarshalYAML implements yaml.Unmarshaler for ReadyConfig.
func (r *ReadyConfig) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		var s string
		if err := node.Decode(&s); err != nil {
			return err
		}
		return r.parseShorthand(s)
	}

	if node.Kind == yaml.MappingNode {
		// temporary struct to avoid infinite recursion
		var raw struct {
			Type   string   `yaml:"type"`
			Path   string   `yaml:"path"`
			Text   string   `yaml:"text"`
			Values []string `yaml:"values"`
		}
		if err := node.Decode(&raw); err != nil {
			return err
		}
		r.Type = raw.Type
		r.Path = raw.Path
		r.Text = raw.Text
		r.Values = raw.Values
		return nil
	}

	return fmt.Errorf("ready must be a string or object, got %v", node.Kind)
}

// parseShorthand parses readiness shorthand syntax.
//
// Supported formats:
//   - "status" → any 2xx response is ready
//   - "json:path" → extract readiness from a JSON field
//   - "contains:text" → ready when the body contains text
func (r *ReadyConfig) parseShorthand(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}

	if idx := strings.Index(s, ":"); idx != -1 {
		r.Type = s[:idx]
		value := s[idx+1:]

		switch r.Type {
		case "json":
			r.Path = value
		case "contains":
			r.Text = value
		default:
			return fmt.Errorf("unknown ready type %q", r.Type)
		}
		return nil
	}

	if s != "status" {
		return fmt.Errorf("unknown ready matcher %q (expected 'status', 'json:path', or 'contains:text')", s)
	}
	r.Type = s
	return nil
}

// envVarPattern matches ${VAR} and ${VAR:-default} patterns.
// Group 1: variable name
// Group 2: the ":-default" part (if present, indicates a default was specified)
// Group 3: the default value (may be empty for ${VAR:-})
var envVarPattern = regexp.MustCompile(`\$\{([^}:]+)(:-([^}]*))?\}`)

// expandEnvVars replaces ${VAR} and ${VAR:-default} patterns with environment values.
func expandEnvVars(s string) (string, error) {
	var firstErr error

	result := envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		if firstErr != nil {
			return match
		}

		submatches := envVarPattern.FindStringSubmatch(match)
		if len(submatches) < 2 {
			return match
		}

		varName := submatches[1]
		hasDefault := len(submatches) > 2 && submatches[2] != ""
		defaultVal := ""
		if hasDefault && len(submatches) > 3 {
			defaultVal = submatches[3]
		}

		value, exists := os.LookupEnv(varName)
		if !exists {
			if hasDefault {
				return defaultVal
			}
			firstErr = fmt.Errorf("environment variable %q is not set", varName)
			return match
		}
		return value
	})

	if firstErr != nil {
		return "", firstErr
	}
	return result, nil
}

// Load reads and parses a YAML configuration file.
//
// Environment variables in the file are expanded before parsing.
// Returns an error if the file cannot be read or parsed.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse parses YAML configuration data.
//
// Environment variables are expanded in URL and header values. Defaults
// are applied for MaxTries (10) and Interval (1s).
//
// Unlike the SDK, which silently corrects out-of-range knobs, the config
// file surface fails fast: an explicit bad value in a file is a mistake
// worth stopping on.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if cfg.MaxTries == 0 {
		cfg.MaxTries = defaultMaxTries
	}
	if cfg.Interval == 0 {
		cfg.Interval = Duration(defaultInterval)
	}

	if err := cfg.expandAndValidate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// expandAndValidate expands environment variables and validates the config.
func (c *Config) expandAndValidate() error {
	if c.MaxTries < 1 {
		return fmt.Errorf("max_tries must be at least 1, got %d", c.MaxTries)
	}
	if c.Interval.Duration() < minInterval {
		return fmt.Errorf("interval must be at least %s, got %s", minInterval, c.Interval.Duration())
	}
	if len(c.Targets) == 0 {
		return fmt.Errorf("at least one target is required")
	}

	seen := make(map[string]bool, len(c.Targets))
	for i := range c.Targets {
		tc := &c.Targets[i]

		if tc.Name == "" {
			return fmt.Errorf("targets[%d]: name is required", i)
		}
		if seen[tc.Name] {
			return fmt.Errorf("duplicate target name: %q", tc.Name)
		}
		seen[tc.Name] = true

		if tc.URL == "" {
			return fmt.Errorf("targets[%d] (%s): url is required", i, tc.Name)
		}
		expanded, err := expandEnvVars(tc.URL)
		if err != nil {
			return fmt.Errorf("targets[%d] (%s): url: %w", i, tc.Name, err)
		}
		tc.URL = expanded

		parsedURL, err := url.Parse(tc.URL)
		if err != nil {
			return fmt.Errorf("targets[%d] (%s): invalid url: %w", i, tc.Name, err)
		}
		if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
			return fmt.Errorf("targets[%d] (%s): url scheme must be http or https, got %q", i, tc.Name, parsedURL.Scheme)
		}

		for k, v := range tc.Headers {
			expanded, err := expandEnvVars(v)
			if err != nil {
				return fmt.Errorf("targets[%d] (%s): headers[%s]: %w", i, tc.Name, k, err)
			}
			tc.Headers[k] = expanded
		}

		if tc.Method != "" && tc.Method != "GET" && tc.Method != "HEAD" && tc.Method != "POST" {
			return fmt.Errorf("targets[%d] (%s): method must be GET, HEAD, or POST", i, tc.Name)
		}

		if tc.Timeout != 0 && tc.Timeout.Duration() <= 0 {
			return fmt.Errorf("targets[%d] (%s): timeout must be positive", i, tc.Name)
		}

		if tc.MaxTries < 0 {
			return fmt.Errorf("targets[%d] (%s): max_tries must be at least 1", i, tc.Name)
		}
		if tc.Interval != 0 && tc.Interval.Duration() < minInterval {
			return fmt.Errorf("targets[%d] (%s): interval must be at least %s", i, tc.Name, minInterval)
		}

		for _, code := range tc.AbortStatus {
			if code < 100 || code > 599 {
				return fmt.Errorf("targets[%d] (%s): abort_status code %d out of range", i, tc.Name, code)
			}
		}
	}

	return nil
}
