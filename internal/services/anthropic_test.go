package services

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/triviaquest/engine/pkg/quiz"
)

func TestNewAnthropicService(t *testing.T) {
	apiKey := "test-api-key"
	modelName := "claude-3-5-haiku-latest"
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	service := NewAnthropicService(apiKey, modelName, log)

	if service.apiKey != apiKey {
		t.Errorf("Expected API key %s, got %s", apiKey, service.apiKey)
	}
	if service.modelName != modelName {
		t.Errorf("Expected model name %s, got %s", modelName, service.modelName)
	}
	if service.httpClient == nil {
		t.Error("Expected HTTP client to be initialized")
	}
	if service.filter == nil {
		t.Error("Expected profanity filter to be initialized")
	}
}

func TestNewAnthropicService_DefaultModel(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	service := NewAnthropicService("test-key", "", log)

	if service.modelName != DefaultAnthropicModel {
		t.Errorf("Expected default model %s, got %s", DefaultAnthropicModel, service.modelName)
	}
}

func TestAnthropicService_ReportAnswered(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	service := NewAnthropicService("test-key", "", log)

	if err := service.ReportAnswered(context.Background(), "q-123", true); err != nil {
		t.Errorf("Expected no error, got %v", err)
	}
}

// Compile-time interface check.
var _ quiz.RemoteService = (*AnthropicService)(nil)
var _ quiz.RemoteService = (*OpenAIService)(nil)
