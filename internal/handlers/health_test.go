package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/triviaquest/engine/internal/storage"
)

func TestHealthHandler_ServeHTTP(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	tests := []struct {
		name            string
		setupStorage    func() storage.Storage
		expectedStatus  int
		expectedHealth  string
		expectedStorage string
	}{
		{
			name: "healthy storage",
			setupStorage: func() storage.Storage {
				return storage.NewMockStorage()
			},
			expectedStatus:  http.StatusOK,
			expectedHealth:  "healthy",
			expectedStorage: "healthy",
		},
		{
			name: "unhealthy storage degrades",
			setupStorage: func() storage.Storage {
				ms := storage.NewMockStorage()
				ms.SetPingError(errors.New("connection failed"))
				return ms
			},
			expectedStatus:  http.StatusOK,
			expectedHealth:  "degraded",
			expectedStorage: "unhealthy",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewHealthHandler(tt.setupStorage(), "none", logger)

			req := httptest.NewRequest(http.MethodGet, "/health", nil)
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != tt.expectedStatus {
				t.Errorf("Expected status %d, got %d", tt.expectedStatus, rec.Code)
			}

			var resp HealthResponse
			if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
				t.Fatalf("Failed to decode response: %v", err)
			}
			if resp.Status != tt.expectedHealth {
				t.Errorf("Expected health %q, got %q", tt.expectedHealth, resp.Status)
			}
			if resp.Components["storage"] != tt.expectedStorage {
				t.Errorf("Expected storage %q, got %v", tt.expectedStorage, resp.Components["storage"])
			}
			if resp.Service != "triviaquest-engine" {
				t.Errorf("Unexpected service name %q", resp.Service)
			}
		})
	}
}
