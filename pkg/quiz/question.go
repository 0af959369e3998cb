package quiz

import "fmt"

// ChoiceCount is the number of answer choices every question carries.
const ChoiceCount = 4

// Question is a single multiple-choice trivia question. Two questions
// are considered the same for repeat-avoidance purposes when their
// prompts are equal.
type Question struct {
	Prompt             string   `json:"prompt" yaml:"prompt"`
	Choices            []string `json:"choices" yaml:"choices"`
	CorrectChoiceIndex int      `json:"correct_choice_index" yaml:"correct_choice_index"`

	// RemoteID is set only on questions that came from the remote
	// generator. It is used for answer reporting and recent-pick
	// tracking.
	RemoteID string `json:"remote_id,omitempty" yaml:"-"`
}

// Validate checks that the question is well-formed.
func (q *Question) Validate() error {
	if q.Prompt == "" {
		return fmt.Errorf("question has an empty prompt")
	}
	if len(q.Choices) != ChoiceCount {
		return fmt.Errorf("question %q has %d choices, want %d", q.Prompt, len(q.Choices), ChoiceCount)
	}
	for i, c := range q.Choices {
		if c == "" {
			return fmt.Errorf("question %q has an empty choice at index %d", q.Prompt, i)
		}
	}
	if q.CorrectChoiceIndex < 0 || q.CorrectChoiceIndex >= ChoiceCount {
		return fmt.Errorf("question %q has correct_choice_index %d, want 0-%d", q.Prompt, q.CorrectChoiceIndex, ChoiceCount-1)
	}
	return nil
}

// IsCorrect reports whether the given choice index answers the question.
func (q *Question) IsCorrect(choice int) bool {
	return choice == q.CorrectChoiceIndex
}

// CorrectChoice returns the text of the correct answer.
func (q *Question) CorrectChoice() string {
	if q.CorrectChoiceIndex < 0 || q.CorrectChoiceIndex >= len(q.Choices) {
		return ""
	}
	return q.Choices[q.CorrectChoiceIndex]
}
