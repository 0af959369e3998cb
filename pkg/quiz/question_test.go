package quiz

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func validQuestion() Question {
	return Question{
		Prompt:             "What is the capital of France?",
		Choices:            []string{"Paris", "Lyon", "Marseille", "Nice"},
		CorrectChoiceIndex: 0,
	}
}

func TestQuestion_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Question)
		wantErr bool
	}{
		{"valid", func(q *Question) {}, false},
		{"empty prompt", func(q *Question) { q.Prompt = "" }, true},
		{"too few choices", func(q *Question) { q.Choices = q.Choices[:3] }, true},
		{"too many choices", func(q *Question) { q.Choices = append(q.Choices, "Toulouse") }, true},
		{"empty choice", func(q *Question) { q.Choices[2] = "" }, true},
		{"index below range", func(q *Question) { q.CorrectChoiceIndex = -1 }, true},
		{"index above range", func(q *Question) { q.CorrectChoiceIndex = 4 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := validQuestion()
			tt.mutate(&q)
			err := q.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestQuestion_IsCorrect(t *testing.T) {
	q := validQuestion()
	assert.True(t, q.IsCorrect(0))
	assert.False(t, q.IsCorrect(1))
	assert.Equal(t, "Paris", q.CorrectChoice())
}
