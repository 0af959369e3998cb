package player

import "math"

const (
	// MaxLevel is the hard level ceiling. Experience keeps accumulating
	// past it, but no further level-ups are granted.
	MaxLevel = 20

	levelUpHealthBonus = 10
	baseExperience     = 100
	experienceGrowth   = 1.5
)

// Stats is the mutable per-campaign player record. It is owned by the
// active campaign session; the battle state machine mutates a working
// copy and commits it back at battle outcome points.
type Stats struct {
	Level                 int `json:"level"`
	Experience            int `json:"experience"`
	ExperienceToNextLevel int `json:"experience_to_next_level"`
	Gold                  int `json:"gold"`
	CurrentHealth         int `json:"current_health"`
	MaxHealth             int `json:"max_health"`
	Logic                 int `json:"logic"`
	Resilience            int `json:"resilience"`
	Charisma              int `json:"charisma"`
}

// NewStats returns the stats of a freshly created character.
func NewStats() Stats {
	return Stats{
		Level:                 1,
		Experience:            0,
		ExperienceToNextLevel: ExperienceRequiredForLevel(1),
		Gold:                  0,
		CurrentHealth:         100,
		MaxHealth:             100,
		Logic:                 5,
		Resilience:            5,
		Charisma:              5,
	}
}

// ExperienceRequiredForLevel returns the total experience needed to
// advance past the given level: floor(100 * 1.5^(level-1)).
func ExperienceRequiredForLevel(level int) int {
	if level < 1 {
		level = 1
	}
	return int(math.Floor(baseExperience * math.Pow(experienceGrowth, float64(level-1))))
}

// ShouldLevelUp reports whether the player has banked enough experience
// to advance. Always false at MaxLevel.
func (s *Stats) ShouldLevelUp() bool {
	return s.Experience >= s.ExperienceToNextLevel && s.Level < MaxLevel
}

// ApplyLevelUp advances the player one level: excess experience carries
// over, the next threshold is recomputed from the curve, max health
// grows by a fixed amount and health is fully restored.
// Callers must check ShouldLevelUp first.
func (s *Stats) ApplyLevelUp() {
	s.Level++
	s.Experience -= s.ExperienceToNextLevel
	if s.Experience < 0 {
		s.Experience = 0
	}
	s.ExperienceToNextLevel = ExperienceRequiredForLevel(s.Level)
	s.MaxHealth += levelUpHealthBonus
	s.CurrentHealth = s.MaxHealth
	s.Logic += 2
	s.Resilience++
	s.Charisma++
}

// TakeDamage reduces current health by n. Health cannot go below 0.
func (s *Stats) TakeDamage(n int) {
	if n <= 0 {
		return
	}
	s.CurrentHealth -= n
	if s.CurrentHealth < 0 {
		s.CurrentHealth = 0
	}
}

// Heal increases current health by n. Health cannot exceed MaxHealth.
func (s *Stats) Heal(n int) {
	if n <= 0 {
		return
	}
	s.CurrentHealth += n
	if s.CurrentHealth > s.MaxHealth {
		s.CurrentHealth = s.MaxHealth
	}
}

// FullHeal restores current health to max.
func (s *Stats) FullHeal() {
	s.CurrentHealth = s.MaxHealth
}

// IsDefeated returns true if the player's health is 0 or less.
func (s *Stats) IsDefeated() bool {
	return s.CurrentHealth <= 0
}
