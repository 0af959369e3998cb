// Package middleware holds the HTTP middleware for the API server.
package middleware

import (
	"log/slog"
	"net/http"
	"time"
)

// statusRecorder captures the response status for logging.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// Flush passes flushing through so SSE streaming keeps working behind
// the middleware.
func (r *statusRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// Logger logs each request with method, path, status, and latency.
// Server errors log at error level, client errors at warn.
func Logger(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		attrs := []any{
			"status", rec.status,
			"method", r.Method,
			"path", r.URL.Path,
			"remote_addr", r.RemoteAddr,
			"latency", time.Since(start),
		}
		switch {
		case rec.status >= http.StatusInternalServerError:
			logger.Error("Request handled", attrs...)
		case rec.status >= http.StatusBadRequest:
			logger.Warn("Request handled", attrs...)
		default:
			logger.Info("Request handled", attrs...)
		}
	})
}
