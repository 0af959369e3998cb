package campaign

import (
	"github.com/triviaquest/engine/pkg/opponent"
	"github.com/triviaquest/engine/pkg/player"
	"github.com/triviaquest/engine/pkg/quiz"
)

// Encounter is the transient per-battle session. It holds a working
// copy of the player stats taken at battle start; the battle state
// machine commits the copy back into the campaign state only at
// terminal outcome points.
type Encounter struct {
	Opponent       *opponent.Opponent
	OpponentHealth int
	Stats          player.Stats
	ReturnPosition Position
	ReturnZone     string
	History        *quiz.History

	// Fixed marks encounters begun by colliding with a fixed-position
	// opponent rather than by the random step trigger.
	Fixed bool
}

// NewEncounter snapshots the campaign state into a battle session
// against the given opponent.
func NewEncounter(o *opponent.Opponent, s *State) *Encounter {
	return &Encounter{
		Opponent:       o,
		OpponentHealth: o.MaxHealth,
		Stats:          s.Stats,
		ReturnPosition: s.Position,
		ReturnZone:     s.Zone,
		History:        s.History(),
	}
}

// Commit writes the working stats back into the campaign state.
func (e *Encounter) Commit(s *State) {
	s.Stats = e.Stats
}
