package battle

import "github.com/triviaquest/engine/pkg/quiz"

// Target identifies which actor a damage indicator applies to.
type Target string

const (
	TargetPlayer   Target = "player"
	TargetOpponent Target = "opponent"
)

// Outcome is the terminal result of a battle.
type Outcome string

const (
	OutcomeVictory Outcome = "victory"
	OutcomeDefeat  Outcome = "defeat"
	OutcomeFled    Outcome = "fled"
)

// Animation cues emitted on answer resolution.
const (
	CueHit  = "hit"
	CueMiss = "miss"
)

// RewardSummary describes what the battle did to the player's record,
// attached to the battle-ended event.
type RewardSummary struct {
	ExperienceAwarded int  `json:"experience_awarded"`
	GoldDelta         int  `json:"gold_delta"`
	LeveledUp         bool `json:"leveled_up"`
	NewLevel          int  `json:"new_level,omitempty"`
}

// EventSink receives presentation commands from a battle. It abstracts
// the presentation layer; implementations render messages, question
// prompts and damage indicators however they like. Sinks are invoked
// from battle-internal callbacks and must not call back into the
// battle.
type EventSink interface {
	// ShowMessage displays a transient message string.
	ShowMessage(text string)

	// ShowQuestion presents a question's prompt and choices.
	ShowQuestion(q quiz.Question)

	// HideQuestion clears the current question display.
	HideQuestion()

	// ShowDamage displays a transient damage amount over a target.
	ShowDamage(target Target, amount int)

	// AnimationCue signals a hit/miss animation.
	AnimationCue(cue string)

	// BattleEnded reports the terminal outcome and reward summary.
	BattleEnded(outcome Outcome, summary RewardSummary)
}

// NopSink discards all events.
type NopSink struct{}

func (NopSink) ShowMessage(string) {}
func (NopSink) ShowQuestion(quiz.Question) {}
func (NopSink) HideQuestion() {}
func (NopSink) ShowDamage(Target, int) {}
func (NopSink) AnimationCue(string) {}
func (NopSink) BattleEnded(Outcome, RewardSummary) {}
