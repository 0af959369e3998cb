package services

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/triviaquest/engine/pkg/quiz"
	"github.com/triviaquest/engine/pkg/textfilter"
)

// questionSystemPrompt instructs the model to return strict JSON so
// the reply can be parsed without post-processing.
const questionSystemPrompt = `You are a trivia question writer for a lighthearted fantasy quiz game.
Respond with a JSON array only, no prose and no markdown fences. Each element:
{"prompt": string, "choices": [4 strings], "correct_index": 0-3, "taunt": string}
The taunt is one short in-character line the opponent says before asking.
Questions must be general-knowledge trivia, family friendly, and factually correct.`

// buildQuestionPrompt renders the user message for a generation
// request. Difficulty scales with the opponent tier and player level,
// and previously asked prompts are listed so the model avoids them.
func buildQuestionPrompt(req quiz.RemoteRequest, count int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Write %d multiple-choice trivia questions.\n", count)
	fmt.Fprintf(&b, "Opponent: %s (zone: %s, difficulty tier %d of 5).\n",
		req.OpponentName, req.Zone, req.DifficultyTier)
	fmt.Fprintf(&b, "Player level: %d of 20. Scale difficulty accordingly.\n", req.PlayerLevel)
	if req.IsBoss {
		b.WriteString("This is a boss fight; make the questions notably harder.\n")
	}
	if len(req.AskedPrompts) > 0 {
		b.WriteString("Do not repeat any of these questions:\n")
		for _, p := range req.AskedPrompts {
			fmt.Fprintf(&b, "- %s\n", p)
		}
	}
	return b.String()
}

// generatedQuestion is the wire shape the model is asked to produce.
type generatedQuestion struct {
	Prompt       string   `json:"prompt"`
	Choices      []string `json:"choices"`
	CorrectIndex int      `json:"correct_index"`
	Taunt        string   `json:"taunt,omitempty"`
}

// parseGeneratedQuestions decodes a model reply into remote
// questions. Malformed elements are dropped rather than failing the
// batch, and all player-visible text passes through the profanity
// filter. Each question gets a fresh remote ID.
func parseGeneratedQuestions(content string, filter *textfilter.Filter) ([]quiz.RemoteQuestion, error) {
	payload := extractJSONArray(content)
	if payload == "" {
		return nil, fmt.Errorf("no JSON array in model response")
	}

	var raw []generatedQuestion
	if err := json.Unmarshal([]byte(payload), &raw); err != nil {
		return nil, fmt.Errorf("failed to parse model response: %w", err)
	}

	questions := make([]quiz.RemoteQuestion, 0, len(raw))
	for _, g := range raw {
		q := quiz.Question{
			Prompt:             filter.Clean(g.Prompt),
			Choices:            make([]string, len(g.Choices)),
			CorrectChoiceIndex: g.CorrectIndex,
			RemoteID:           uuid.NewString(),
		}
		for i, c := range g.Choices {
			q.Choices[i] = filter.Clean(c)
		}
		if q.Validate() != nil {
			continue
		}
		questions = append(questions, quiz.RemoteQuestion{
			Question: q,
			RemoteID: q.RemoteID,
			Taunt:    filter.Clean(g.Taunt),
		})
	}
	return questions, nil
}

// extractJSONArray strips any text around the outermost JSON array.
// Models occasionally wrap the payload in markdown fences or a
// leading sentence despite instructions.
func extractJSONArray(content string) string {
	start := strings.Index(content, "[")
	end := strings.LastIndex(content, "]")
	if start < 0 || end <= start {
		return ""
	}
	return content[start : end+1]
}
