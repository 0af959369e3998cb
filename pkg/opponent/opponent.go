package opponent

import (
	"fmt"

	"github.com/triviaquest/engine/pkg/quiz"
)

// QuestionSource declares where an opponent's questions come from.
type QuestionSource string

const (
	// SourceMixed opponents draw remote-generated questions when the
	// remote service is available, with the static pool as fallback.
	SourceMixed QuestionSource = "mixed"

	// SourcePool opponents are pool-locked: they always draw from
	// their static pool and never query the remote generator.
	SourcePool QuestionSource = "pool"
)

// Opponent is the immutable definition of one quiz-battle adversary.
// Opponents are loaded from data files at startup and never mutated;
// per-battle state (remaining health) lives on the encounter session.
type Opponent struct {
	ID             string          `json:"id" yaml:"id"`
	DisplayName    string          `json:"display_name" yaml:"display_name"`
	Zone           string          `json:"zone" yaml:"zone"`
	IsBoss         bool            `json:"is_boss,omitempty" yaml:"is_boss"`
	MaxHealth      int             `json:"max_health" yaml:"max_health"`
	DifficultyTier int             `json:"difficulty_tier" yaml:"difficulty_tier"`
	ExperienceReward int           `json:"experience_reward" yaml:"experience_reward"`
	GoldReward     int             `json:"gold_reward" yaml:"gold_reward"`
	IntroText      string          `json:"intro_text,omitempty" yaml:"intro_text"`
	DefeatText     string          `json:"defeat_text,omitempty" yaml:"defeat_text"`
	QuestionSource QuestionSource  `json:"question_source,omitempty" yaml:"question_source"`
	StaticPool     []quiz.Question `json:"static_pool,omitempty" yaml:"static_pool"`
}

// PoolLocked reports whether this opponent must draw exclusively from
// its static pool. Bosses are always pool-locked.
func (o *Opponent) PoolLocked() bool {
	return o.IsBoss || o.QuestionSource == SourcePool
}

// QuizSource builds the provider view of this opponent for the given
// player level.
func (o *Opponent) QuizSource(playerLevel int) *quiz.Source {
	return &quiz.Source{
		OpponentID: o.ID,
		StaticPool: o.StaticPool,
		PoolOnly:   o.PoolLocked(),
		Remote: quiz.RemoteRequest{
			OpponentID:     o.ID,
			OpponentName:   o.DisplayName,
			Zone:           o.Zone,
			IsBoss:         o.IsBoss,
			DifficultyTier: o.DifficultyTier,
			PlayerLevel:    playerLevel,
		},
	}
}

// Validate checks that the opponent definition is internally consistent.
func (o *Opponent) Validate() error {
	if o.ID == "" {
		return fmt.Errorf("opponent has an empty id")
	}
	if o.DisplayName == "" {
		return fmt.Errorf("opponent %s has an empty display_name", o.ID)
	}
	if o.MaxHealth <= 0 {
		return fmt.Errorf("opponent %s has max_health %d, want > 0", o.ID, o.MaxHealth)
	}
	if o.ExperienceReward < 0 || o.GoldReward < 0 {
		return fmt.Errorf("opponent %s has negative rewards", o.ID)
	}
	switch o.QuestionSource {
	case "", SourceMixed, SourcePool:
	default:
		return fmt.Errorf("opponent %s has unknown question_source %q", o.ID, o.QuestionSource)
	}
	if o.PoolLocked() && len(o.StaticPool) == 0 {
		return fmt.Errorf("opponent %s is pool-locked but has an empty static pool", o.ID)
	}
	for i := range o.StaticPool {
		if err := o.StaticPool[i].Validate(); err != nil {
			return fmt.Errorf("opponent %s static pool: %w", o.ID, err)
		}
	}
	return nil
}
