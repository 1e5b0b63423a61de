package probe

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Matcher decides whether a check [Result] indicates the target is ready.
//
// Matchers follow functional programming principles: pure functions of the
// result, easy to test and compose. They are only consulted for results
// without a transport error; [Probe.Ready] short-circuits on Err.
type Matcher func(r Result) bool

// readyWords are the response values commonly used by health endpoints to
// mean "ready", matched case-insensitively by [JSONField] when no explicit
// values are given.
var readyWords = map[string]bool{
	"ok": true, "healthy": true, "up": true, "ready": true,
	"active": true, "running": true, "pass": true, "passed": true,
	"true": true, "green": true, "operational": true,
}

// StatusOK returns a [Matcher] that accepts any 2xx response, ignoring
// the body. This is the default readiness matcher and fits simple health
// endpoints that return 200 OK when ready.
func StatusOK() Matcher {
	return func(r Result) bool {
		return r.StatusCode >= 200 && r.StatusCode < 300
	}
}

// BodyContains returns a [Matcher] that accepts responses whose body
// contains the given text, case-insensitively.
//
// This fits plain-text health endpoints that answer "OK" or "ready"
// without JSON structure.
func BodyContains(text string) Matcher {
	lower := strings.ToLower(text)
	return func(r Result) bool {
		return strings.Contains(strings.ToLower(string(r.Body)), lower)
	}
}

// JSONField returns a [Matcher] that extracts a field from a JSON response
// body using dot notation and compares it against the accepted values.
//
// The path navigates nested objects: "data.health.status" matches
// {"data": {"health": {"status": "ok"}}}. Comparison is case-insensitive.
// With no explicit values, the common health-check vocabulary is accepted:
// "ok", "healthy", "up", "ready", "active", "running", "pass", "passed",
// "true", "green", "operational". Booleans and 0/1 are converted to
// "true"/"false" first.
//
// The matcher rejects responses that are not valid JSON or lack the field.
//
// Example:
//
//	// For response: {"data": {"status": "healthy"}}
//	m := probe.JSONField("data.status")
//	// Accept only an explicit value:
//	m := probe.JSONField("state", "complete")
func JSONField(path string, values ...string) Matcher {
	parts := strings.Split(path, ".")

	accepted := readyWords
	if len(values) > 0 {
		accepted = make(map[string]bool, len(values))
		for _, v := range values {
			accepted[strings.ToLower(v)] = true
		}
	}

	return func(r Result) bool {
		var data interface{}
		if err := json.Unmarshal(r.Body, &data); err != nil {
			return false
		}

		value := walkJSONPath(data, parts)
		if value == "" {
			return false
		}
		return accepted[strings.ToLower(value)]
	}
}

// walkJSONPath walks a decoded JSON structure using dot notation parts.
func walkJSONPath(data interface{}, parts []string) string {
	current := data

	for _, part := range parts {
		obj, ok := current.(map[string]interface{})
		if !ok {
			return ""
		}
		current, ok = obj[part]
		if !ok {
			return ""
		}
	}

	switch v := current.(type) {
	case string:
		return v
	case bool:
		if v {
			return "true"
		}
		return "false"
	case float64:
		if v == 0 {
			return "false"
		}
		if v == 1 {
			return "true"
		}
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return ""
	}
}

// AnyOf returns a [Matcher] that accepts a result if any of the given
// matchers accepts it. Useful for targets with more than one healthy
// shape:
//
//	m := probe.AnyOf(
//	    probe.JSONField("status"),
//	    probe.BodyContains("ready"),
//	)
func AnyOf(matchers ...Matcher) Matcher {
	return func(r Result) bool {
		for _, m := range matchers {
			if m(r) {
				return true
			}
		}
		return false
	}
}
