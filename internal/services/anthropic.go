package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/triviaquest/engine/pkg/quiz"
	"github.com/triviaquest/engine/pkg/textfilter"
)

const (
	anthropicBaseURL = "https://api.anthropic.com/v1"
	anthropicVersion = "2023-06-01"

	DefaultAnthropicModel       = "claude-3-5-haiku-latest"
	DefaultAnthropicTemperature = 0.9
	DefaultAnthropicMaxTokens   = 2048
)

// AnthropicService generates quiz questions with Anthropic Claude.
// It implements quiz.RemoteService.
type AnthropicService struct {
	apiKey     string
	modelName  string
	httpClient *http.Client
	filter     *textfilter.Filter
	logger     *slog.Logger
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicChatRequest struct {
	Model       string             `json:"model"`
	MaxTokens   int                `json:"max_tokens"`
	Temperature *float64           `json:"temperature,omitempty"`
	Messages    []anthropicMessage `json:"messages"`
	System      string             `json:"system,omitempty"`
}

type anthropicContentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type anthropicChatResponse struct {
	ID         string                  `json:"id"`
	Content    []anthropicContentBlock `json:"content"`
	Model      string                  `json:"model"`
	StopReason string                  `json:"stop_reason"`
	Error      *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func NewAnthropicService(apiKey, modelName string, logger *slog.Logger) *AnthropicService {
	if modelName == "" {
		modelName = DefaultAnthropicModel
	}
	return &AnthropicService{
		apiKey:    apiKey,
		modelName: modelName,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		filter: textfilter.New(),
		logger: logger,
	}
}

// GenerateQuestions asks the model for a batch of questions and
// parses the JSON reply. Malformed entries are dropped rather than
// failing the batch.
func (a *AnthropicService) GenerateQuestions(ctx context.Context, req quiz.RemoteRequest, count int) ([]quiz.RemoteQuestion, error) {
	content, err := a.chatCompletion(ctx, buildQuestionPrompt(req, count))
	if err != nil {
		return nil, err
	}

	questions, err := parseGeneratedQuestions(content, a.filter)
	if err != nil {
		return nil, err
	}
	a.logger.Debug("Generated questions", "service", "anthropic", "requested", count, "parsed", len(questions))
	return questions, nil
}

// ReportAnswered is a no-op for model-backed generation; there is no
// answer feedback endpoint to call.
func (a *AnthropicService) ReportAnswered(ctx context.Context, remoteID string, correct bool) error {
	a.logger.Debug("Question answered", "remote_id", remoteID, "correct", correct)
	return nil
}

func (a *AnthropicService) chatCompletion(ctx context.Context, userPrompt string) (string, error) {
	temperature := DefaultAnthropicTemperature
	anthropicReq := anthropicChatRequest{
		Model:       a.modelName,
		MaxTokens:   DefaultAnthropicMaxTokens,
		Temperature: &temperature,
		System:      questionSystemPrompt,
		Messages: []anthropicMessage{
			{Role: "user", Content: userPrompt},
		},
	}

	reqBody, err := json.Marshal(anthropicReq)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", anthropicBaseURL+"/messages", bytes.NewBuffer(reqBody))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("x-api-key", a.apiKey)
	req.Header.Set("anthropic-version", anthropicVersion)
	req.Header.Set("content-type", "application/json")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to make request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, string(body))
	}

	var anthropicResp anthropicChatResponse
	if err := json.Unmarshal(body, &anthropicResp); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}
	if anthropicResp.Error != nil {
		return "", fmt.Errorf("API error: %s", anthropicResp.Error.Message)
	}

	var responseText string
	for _, content := range anthropicResp.Content {
		if content.Type == "text" {
			responseText += content.Text
		}
	}
	return responseText, nil
}
