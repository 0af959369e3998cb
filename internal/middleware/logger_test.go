package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	req := httptest.NewRequest(http.MethodGet, "/v1/campaign", nil)
	rec := httptest.NewRecorder()
	Logger(logger, next).ServeHTTP(rec, req)

	if rec.Code != http.StatusTeapot {
		t.Errorf("Expected status %d, got %d", http.StatusTeapot, rec.Code)
	}

	out := buf.String()
	if !strings.Contains(out, "status=418") {
		t.Errorf("Expected status in log output, got: %s", out)
	}
	if !strings.Contains(out, "path=/v1/campaign") {
		t.Errorf("Expected path in log output, got: %s", out)
	}
	if !strings.Contains(out, "level=WARN") {
		t.Errorf("Expected client errors at warn level, got: %s", out)
	}
}

func TestLogger_DefaultsToOK(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	Logger(logger, next).ServeHTTP(httptest.NewRecorder(), req)

	if !strings.Contains(buf.String(), "status=200") {
		t.Errorf("Expected implicit 200, got: %s", buf.String())
	}
}
