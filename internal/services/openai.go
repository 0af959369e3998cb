package services

import (
	"context"
	"fmt"
	"log/slog"

	openai "github.com/sashabaranov/go-openai"

	"github.com/triviaquest/engine/pkg/quiz"
	"github.com/triviaquest/engine/pkg/textfilter"
)

const DefaultOpenAIModel = openai.GPT4oMini

// OpenAIService generates quiz questions with the OpenAI chat API.
// It implements quiz.RemoteService.
type OpenAIService struct {
	client    *openai.Client
	modelName string
	filter    *textfilter.Filter
	logger    *slog.Logger
}

func NewOpenAIService(apiKey, modelName string, logger *slog.Logger) *OpenAIService {
	if modelName == "" {
		modelName = DefaultOpenAIModel
	}
	return &OpenAIService{
		client:    openai.NewClient(apiKey),
		modelName: modelName,
		filter:    textfilter.New(),
		logger:    logger,
	}
}

func (s *OpenAIService) GenerateQuestions(ctx context.Context, req quiz.RemoteRequest, count int) ([]quiz.RemoteQuestion, error) {
	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: s.modelName,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: questionSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: buildQuestionPrompt(req, count)},
		},
		Temperature: 0.9,
	})
	if err != nil {
		return nil, fmt.Errorf("chat completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("chat completion returned no choices")
	}

	questions, err := parseGeneratedQuestions(resp.Choices[0].Message.Content, s.filter)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("Generated questions", "service", "openai", "requested", count, "parsed", len(questions))
	return questions, nil
}

// ReportAnswered is a no-op for model-backed generation; there is no
// answer feedback endpoint to call.
func (s *OpenAIService) ReportAnswered(ctx context.Context, remoteID string, correct bool) error {
	s.logger.Debug("Question answered", "remote_id", remoteID, "correct", correct)
	return nil
}
