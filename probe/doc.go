// Package probe provides HTTP status probes that plug into the pollkit
// engine as fetchers.
//
// A [Probe] is an immutable description of one HTTP target: URL, method,
// headers, timeout, a readiness [Matcher], and an optional set of abort
// status codes. [Probe.Fetcher] adapts the probe to the engine's fetcher
// contract, and [Probe.Ready] / [Probe.Fatal] are the matching predicates:
//
//	p, _ := probe.New("api", "https://api.example.com/health",
//	    probe.WithReadyMatcher(probe.JSONField("status")),
//	    probe.WithAbortOnStatus(404, 410),
//	)
//	engine, _ := pollkit.New(p.Fetcher(ctx), p.Ready, p.Fatal)
//
// Matchers decide readiness from the response; see [StatusOK],
// [BodyContains], [JSONField], and [AnyOf].
package probe
