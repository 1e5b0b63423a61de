package main

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"time"
)

// startMockHealthServer runs a mock health endpoint that answers 503
// until the warmup elapses, then returns {"status":"ok"}. The caller
// owns the returned server and must Close it.
func startMockHealthServer(warmup time.Duration) *httptest.Server {
	readyAt := time.Now().Add(warmup)

	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		if time.Now().Before(readyAt) {
			w.WriteHeader(http.StatusServiceUnavailable)
			resp := map[string]string{"status": "starting"}
			if err := json.NewEncoder(w).Encode(resp); err != nil {
				slog.Error("failed to write response", "error", err)
			}
			return
		}

		resp := map[string]string{"status": "ok"}
		if err := json.NewEncoder(w).Encode(resp); err != nil {
			slog.Error("failed to write response", "error", err)
		}
	})

	return httptest.NewServer(mux)
}
