// Package mockapi serves a small set of endpoints with known availability
// characteristics, for trying pulsecheck locally.
//
// Routes:
//
//	/fast       200 after 20-80ms
//	/slow       200 after 600-900ms, always over the default 500ms timeout
//	/flaky      200 or 503, each with even odds, after 50-200ms
//	/notfound   404 immediately
//	/echo       201 echoing the request body, for POST descriptors
package mockapi

import (
	"io"
	"log/slog"
	"math/rand"
	"net/http"
	"time"
)

// Handler returns the mock routes. Requests are logged at DEBUG level.
func Handler(logger *slog.Logger) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}

	mux := http.NewServeMux()

	mux.HandleFunc("/fast", func(w http.ResponseWriter, r *http.Request) {
		sleep(r, 20, 80)
		w.WriteHeader(http.StatusOK)
		_, _ = io.WriteString(w, "ok\n")
	})

	mux.HandleFunc("/slow", func(w http.ResponseWriter, r *http.Request) {
		sleep(r, 600, 900)
		w.WriteHeader(http.StatusOK)
		_, _ = io.WriteString(w, "ok, eventually\n")
	})

	mux.HandleFunc("/flaky", func(w http.ResponseWriter, r *http.Request) {
		sleep(r, 50, 200)
		if rand.Intn(2) == 0 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	})

	mux.HandleFunc("/notfound", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})

	mux.HandleFunc("/echo", func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(io.LimitReader(r.Body, 64<<10))
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", r.Header.Get("Content-Type"))
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write(body)
	})

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger.Debug("mock request", "method", r.Method, "path", r.URL.Path)
		mux.ServeHTTP(w, r)
	})
}

// sleep waits a random duration in [minMs, maxMs] milliseconds or until the
// client goes away.
func sleep(r *http.Request, minMs, maxMs int) {
	d := time.Duration(minMs+rand.Intn(maxMs-minMs+1)) * time.Millisecond
	select {
	case <-time.After(d):
	case <-r.Context().Done():
	}
}
