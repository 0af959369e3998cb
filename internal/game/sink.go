package game

import (
	"context"

	"github.com/triviaquest/engine/internal/services/events"
	"github.com/triviaquest/engine/pkg/battle"
	"github.com/triviaquest/engine/pkg/quiz"
)

// broadcastSink forwards battle presentation commands to the
// campaign's event channel so browsers can render them.
type broadcastSink struct {
	session *Session
	ctx     context.Context
}

var _ battle.EventSink = (*broadcastSink)(nil)

func (b *broadcastSink) ShowMessage(text string) {
	b.session.publish(b.ctx, events.EventTypeBattleMessage, map[string]interface{}{
		"text": text,
	})
}

// ShowQuestion publishes the prompt and choices only; the correct
// index never leaves the server.
func (b *broadcastSink) ShowQuestion(q quiz.Question) {
	b.session.publish(b.ctx, events.EventTypeBattleQuestion, map[string]interface{}{
		"prompt":  q.Prompt,
		"choices": q.Choices,
	})
}

func (b *broadcastSink) HideQuestion() {
	b.session.publish(b.ctx, events.EventTypeQuestionHidden, nil)
}

func (b *broadcastSink) ShowDamage(target battle.Target, amount int) {
	b.session.publish(b.ctx, events.EventTypeBattleDamage, map[string]interface{}{
		"target": string(target),
		"amount": amount,
	})
}

func (b *broadcastSink) AnimationCue(cue string) {
	b.session.publish(b.ctx, events.EventTypeBattleCue, map[string]interface{}{
		"cue": cue,
	})
}

func (b *broadcastSink) BattleEnded(outcome battle.Outcome, summary battle.RewardSummary) {
	b.session.publish(b.ctx, events.EventTypeBattleEnded, map[string]interface{}{
		"outcome":            string(outcome),
		"experience_awarded": summary.ExperienceAwarded,
		"gold_delta":         summary.GoldDelta,
		"leveled_up":         summary.LeveledUp,
		"new_level":          summary.NewLevel,
	})
}
