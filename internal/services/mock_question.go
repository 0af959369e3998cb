package services

import (
	"context"
	"sync"

	"github.com/triviaquest/engine/pkg/quiz"
)

// MockQuestionService is a configurable quiz.RemoteService for tests.
type MockQuestionService struct {
	mu sync.Mutex

	GenerateFunc func(ctx context.Context, req quiz.RemoteRequest, count int) ([]quiz.RemoteQuestion, error)
	ReportFunc   func(ctx context.Context, remoteID string, correct bool) error

	GenerateCalls []quiz.RemoteRequest
	ReportedIDs   []string
}

func (m *MockQuestionService) GenerateQuestions(ctx context.Context, req quiz.RemoteRequest, count int) ([]quiz.RemoteQuestion, error) {
	m.mu.Lock()
	m.GenerateCalls = append(m.GenerateCalls, req)
	m.mu.Unlock()

	if m.GenerateFunc != nil {
		return m.GenerateFunc(ctx, req, count)
	}
	return nil, nil
}

func (m *MockQuestionService) ReportAnswered(ctx context.Context, remoteID string, correct bool) error {
	m.mu.Lock()
	m.ReportedIDs = append(m.ReportedIDs, remoteID)
	m.mu.Unlock()

	if m.ReportFunc != nil {
		return m.ReportFunc(ctx, remoteID, correct)
	}
	return nil
}

var _ quiz.RemoteService = (*MockQuestionService)(nil)
