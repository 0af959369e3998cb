// Package battle orchestrates one encounter from intro through
// repeated question rounds to a terminal outcome, applying damage and
// reward rules and emitting presentation commands along the way.
package battle

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/triviaquest/engine/pkg/campaign"
	"github.com/triviaquest/engine/pkg/player"
	"github.com/triviaquest/engine/pkg/quiz"
)

// State names the battle's phases.
type State string

const (
	StateIntro           State = "intro"
	StateLoadingQuestion State = "loading_question"
	StateAwaitingAnswer  State = "awaiting_answer"
	StateResolving       State = "resolving"
	StateVictory         State = "victory"
	StateDefeat          State = "defeat"
	StateFled            State = "fled"
)

// Terminal reports whether the state ends the battle.
func (s State) Terminal() bool {
	return s == StateVictory || s == StateDefeat || s == StateFled
}

// Damage and delay rules.
const (
	OpponentHitDamage = 30
	PlayerHitDamage   = 20

	IntroDelay = 2 * time.Second
	// NextQuestionDelay follows a correct answer.
	NextQuestionDelay = 1500 * time.Millisecond
	// RevealAnswerDelay follows an incorrect answer; longer so the
	// player can read the revealed correct choice.
	RevealAnswerDelay = 3500 * time.Millisecond
)

// ErrBattleOver is returned by Start when called on a finished battle.
var ErrBattleOver = errors.New("battle already ended")

// Config wires a battle's collaborators.
type Config struct {
	Provider *quiz.Provider
	Sink     EventSink
	Clock    Clock
	Logger   *slog.Logger

	// OnComplete runs exactly once when the battle reaches a terminal
	// state, after rewards and penalties have been applied to the
	// encounter's working stats. The campaign owner commits the stats,
	// persists, and resumes exploration from here.
	OnComplete func(outcome Outcome, enc *campaign.Encounter)
}

// Battle is the state machine for a single encounter. All transitions
// run under one mutex; delayed transitions are scheduled on the clock
// and carry a round generation number so callbacks from a superseded
// round are ignored.
type Battle struct {
	mu      sync.Mutex
	cfg     Config
	enc     *campaign.Encounter
	state   State
	current *quiz.Question
	round   int
	done    bool
	ctx     context.Context
}

// New creates a battle for the given encounter session. The sink and
// clock default to NopSink and SystemClock.
func New(enc *campaign.Encounter, cfg Config) *Battle {
	if cfg.Sink == nil {
		cfg.Sink = NopSink{}
	}
	if cfg.Clock == nil {
		cfg.Clock = SystemClock
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Battle{
		cfg:   cfg,
		enc:   enc,
		state: StateIntro,
	}
}

// State returns the current battle state.
func (b *Battle) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// QuestionView is the presentation-safe view of the current question:
// it omits the correct choice index.
type QuestionView struct {
	Prompt  string   `json:"prompt"`
	Choices []string `json:"choices"`
}

// Snapshot is a consistent read of the battle for display.
type Snapshot struct {
	State             State         `json:"state"`
	OpponentID        string        `json:"opponent_id"`
	OpponentName      string        `json:"opponent_name"`
	OpponentHealth    int           `json:"opponent_health"`
	OpponentMaxHealth int           `json:"opponent_max_health"`
	Stats             player.Stats  `json:"stats"`
	Question          *QuestionView `json:"question,omitempty"`
}

// Snapshot returns the battle's current display state.
func (b *Battle) Snapshot() Snapshot {
	b.mu.Lock()
	defer b.mu.Unlock()
	s := Snapshot{
		State:             b.state,
		OpponentID:        b.enc.Opponent.ID,
		OpponentName:      b.enc.Opponent.DisplayName,
		OpponentHealth:    b.enc.OpponentHealth,
		OpponentMaxHealth: b.enc.Opponent.MaxHealth,
		Stats:             b.enc.Stats,
	}
	if b.state == StateAwaitingAnswer && b.current != nil {
		s.Question = &QuestionView{
			Prompt:  b.current.Prompt,
			Choices: b.current.Choices,
		}
	}
	return s
}

// Start begins the battle: the opponent's intro text is shown and the
// first question loads after a fixed delay.
func (b *Battle) Start(ctx context.Context) error {
	b.mu.Lock()
	if b.done || b.state != StateIntro {
		b.mu.Unlock()
		return ErrBattleOver
	}
	b.ctx = ctx
	gen := b.round
	intro := b.enc.Opponent.IntroText
	b.mu.Unlock()

	if intro != "" {
		b.cfg.Sink.ShowMessage(intro)
	}
	b.cfg.Clock.AfterFunc(IntroDelay, func() {
		b.loadQuestion(gen)
	})
	return nil
}

// SubmitAnswer resolves an answer choice. It is accepted only while
// awaiting an answer and only for indices 0-3; anything else is
// silently ignored, per the battle's input rules. Returns whether the
// input was accepted.
func (b *Battle) SubmitAnswer(choice int) bool {
	b.mu.Lock()
	if b.done || b.state != StateAwaitingAnswer || choice < 0 || choice >= quiz.ChoiceCount {
		b.mu.Unlock()
		return false
	}
	b.state = StateResolving
	q := *b.current
	correct := q.IsCorrect(choice)
	b.mu.Unlock()

	// Best-effort answer reporting for remote questions; must not
	// block the round.
	if q.RemoteID != "" {
		go b.cfg.Provider.ReportAnswered(b.ctx, q.RemoteID, correct)
	}

	b.cfg.Sink.HideQuestion()

	if correct {
		b.resolveCorrect()
	} else {
		b.resolveIncorrect(&q)
	}
	return true
}

// Flee abandons the battle. Honored only while awaiting an answer;
// once resolution or a terminal state begins, the request is ignored.
// Fleeing costs 10% of current gold and does not mark the opponent
// defeated. Returns whether the request was accepted.
func (b *Battle) Flee() bool {
	b.mu.Lock()
	if b.done || b.state != StateAwaitingAnswer {
		b.mu.Unlock()
		return false
	}
	b.state = StateFled
	b.round++
	penalty := b.enc.Stats.Gold / 10
	b.enc.Stats.Gold -= penalty
	b.mu.Unlock()

	b.cfg.Sink.HideQuestion()
	b.cfg.Sink.ShowMessage("You fled the battle!")
	b.finish(OutcomeFled, RewardSummary{GoldDelta: -penalty})
	return true
}

// loadQuestion asks the provider for the next question. gen is the
// round generation at scheduling time; a mismatch on entry or after
// the provider returns means the round was superseded and the result
// is discarded.
func (b *Battle) loadQuestion(gen int) {
	b.mu.Lock()
	if b.done || gen != b.round {
		b.mu.Unlock()
		return
	}
	b.state = StateLoadingQuestion
	opp := b.enc.Opponent
	level := b.enc.Stats.Level
	hist := b.enc.History
	b.mu.Unlock()

	res, err := b.cfg.Provider.NextQuestion(b.ctx, opp.QuizSource(level), hist)

	b.mu.Lock()
	if b.done || gen != b.round || b.state != StateLoadingQuestion {
		b.mu.Unlock()
		return
	}
	if err != nil {
		// No question obtainable from any source: the player cannot
		// get stuck, so this opponent simply concedes.
		b.mu.Unlock()
		if !errors.Is(err, quiz.ErrNoQuestion) {
			b.cfg.Logger.Error("Question provider failed", "opponent", opp.ID, "error", err)
		}
		b.victory()
		return
	}

	b.current = &res.Question
	b.state = StateAwaitingAnswer
	b.mu.Unlock()

	if res.Taunt != "" {
		b.cfg.Sink.ShowMessage(res.Taunt)
	}
	b.cfg.Sink.ShowQuestion(res.Question)
}

func (b *Battle) resolveCorrect() {
	b.mu.Lock()
	b.enc.OpponentHealth -= OpponentHitDamage
	if b.enc.OpponentHealth < 0 {
		b.enc.OpponentHealth = 0
	}
	defeated := b.enc.OpponentHealth <= 0
	b.mu.Unlock()

	b.cfg.Sink.AnimationCue(CueHit)
	b.cfg.Sink.ShowDamage(TargetOpponent, OpponentHitDamage)

	if defeated {
		b.victory()
		return
	}
	b.scheduleNextRound(NextQuestionDelay)
}

func (b *Battle) resolveIncorrect(q *quiz.Question) {
	b.mu.Lock()
	b.enc.Stats.TakeDamage(PlayerHitDamage)
	defeated := b.enc.Stats.IsDefeated()
	b.mu.Unlock()

	b.cfg.Sink.AnimationCue(CueMiss)
	b.cfg.Sink.ShowDamage(TargetPlayer, PlayerHitDamage)
	b.cfg.Sink.ShowMessage("The correct answer was: " + q.CorrectChoice())

	if defeated {
		b.defeat()
		return
	}
	b.scheduleNextRound(RevealAnswerDelay)
}

// scheduleNextRound advances the round generation and queues the next
// question load. Advancing the generation first invalidates any
// callbacks still pending from the previous round.
func (b *Battle) scheduleNextRound(delay time.Duration) {
	b.mu.Lock()
	b.round++
	gen := b.round
	b.mu.Unlock()

	b.cfg.Clock.AfterFunc(delay, func() {
		b.loadQuestion(gen)
	})
}

func (b *Battle) victory() {
	b.mu.Lock()
	if b.done {
		b.mu.Unlock()
		return
	}
	b.state = StateVictory
	b.round++
	opp := b.enc.Opponent
	b.enc.Stats.Experience += opp.ExperienceReward
	b.enc.Stats.Gold += opp.GoldReward

	summary := RewardSummary{
		ExperienceAwarded: opp.ExperienceReward,
		GoldDelta:         opp.GoldReward,
	}
	// A single large reward can bank enough experience for two
	// thresholds; only one level is granted per victory.
	if b.enc.Stats.ShouldLevelUp() {
		b.enc.Stats.ApplyLevelUp()
		summary.LeveledUp = true
		summary.NewLevel = b.enc.Stats.Level
	}
	b.mu.Unlock()

	b.cfg.Sink.HideQuestion()
	if opp.DefeatText != "" {
		b.cfg.Sink.ShowMessage(opp.DefeatText)
	}
	if summary.LeveledUp {
		b.cfg.Sink.ShowMessage("Level up!")
	}
	b.finish(OutcomeVictory, summary)
}

func (b *Battle) defeat() {
	b.mu.Lock()
	if b.done {
		b.mu.Unlock()
		return
	}
	b.state = StateDefeat
	b.round++
	// Respawn penalty, not a game over: half the gold is lost and
	// health is fully restored.
	kept := b.enc.Stats.Gold / 2
	lost := b.enc.Stats.Gold - kept
	b.enc.Stats.Gold = kept
	b.enc.Stats.FullHeal()
	b.mu.Unlock()

	b.cfg.Sink.ShowMessage("You were defeated...")
	b.finish(OutcomeDefeat, RewardSummary{GoldDelta: -lost})
}

// finish emits the battle-ended event and runs the completion hook
// exactly once.
func (b *Battle) finish(outcome Outcome, summary RewardSummary) {
	b.mu.Lock()
	if b.done {
		b.mu.Unlock()
		return
	}
	b.done = true
	enc := b.enc
	b.mu.Unlock()

	b.cfg.Sink.BattleEnded(outcome, summary)
	if b.cfg.OnComplete != nil {
		b.cfg.OnComplete(outcome, enc)
	}
}
