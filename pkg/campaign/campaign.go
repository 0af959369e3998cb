package campaign

import (
	"time"

	"github.com/google/uuid"

	"github.com/triviaquest/engine/pkg/player"
	"github.com/triviaquest/engine/pkg/quiz"
)

// Position is a tile coordinate on the current map.
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// State is the durable save record for one player's progress. It is
// created on first play, loaded at startup, overwritten on every
// autosave or interaction-triggered save, and cleared on reset.
type State struct {
	ID             uuid.UUID     `json:"id"`
	MapName        string        `json:"map"`
	Position       Position      `json:"position"`
	Zone           string        `json:"zone,omitempty"`
	Stats          player.Stats  `json:"stats"`
	DefeatedBosses []string      `json:"defeated_bosses,omitempty"`
	Quiz           *quiz.History `json:"quiz_history,omitempty"`

	// PlayTimeSeconds is cumulative wall-clock play time.
	PlayTimeSeconds int64     `json:"play_time_seconds"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// New creates a fresh campaign starting on the given map.
func New(mapName string, pos Position, zone string) *State {
	now := time.Now()
	return &State{
		ID:        uuid.New(),
		MapName:   mapName,
		Position:  pos,
		Zone:      zone,
		Stats:     player.NewStats(),
		Quiz:      quiz.NewHistory(),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// History returns the campaign's quiz history, creating it if the
// loaded save predates the field.
func (s *State) History() *quiz.History {
	if s.Quiz == nil {
		s.Quiz = quiz.NewHistory()
	}
	return s.Quiz
}

// IsBossDefeated reports whether the given opponent id has been
// recorded as defeated.
func (s *State) IsBossDefeated(id string) bool {
	for _, b := range s.DefeatedBosses {
		if b == id {
			return true
		}
	}
	return false
}

// RecordBossDefeat adds the opponent id to the defeated set. Recording
// the same id twice is a no-op.
func (s *State) RecordBossDefeat(id string) {
	if id == "" || s.IsBossDefeated(id) {
		return
	}
	s.DefeatedBosses = append(s.DefeatedBosses, id)
}
