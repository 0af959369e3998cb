package player

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExperienceRequiredForLevel(t *testing.T) {
	assert.Equal(t, 100, ExperienceRequiredForLevel(1))
	assert.Equal(t, 150, ExperienceRequiredForLevel(2))
	assert.Equal(t, 225, ExperienceRequiredForLevel(3))

	// Curve is strictly increasing across the playable range
	for lvl := 1; lvl < MaxLevel; lvl++ {
		assert.Greater(t, ExperienceRequiredForLevel(lvl+1), ExperienceRequiredForLevel(lvl),
			"threshold must increase from level %d to %d", lvl, lvl+1)
	}
}

func TestNewStats(t *testing.T) {
	s := NewStats()
	assert.Equal(t, 1, s.Level)
	assert.Equal(t, 0, s.Experience)
	assert.Equal(t, 100, s.ExperienceToNextLevel)
	assert.Equal(t, 100, s.MaxHealth)
	assert.Equal(t, s.MaxHealth, s.CurrentHealth)
}

func TestShouldLevelUp(t *testing.T) {
	tests := []struct {
		name     string
		stats    Stats
		expected bool
	}{
		{
			name:     "below threshold",
			stats:    Stats{Level: 1, Experience: 99, ExperienceToNextLevel: 100},
			expected: false,
		},
		{
			name:     "at threshold",
			stats:    Stats{Level: 1, Experience: 100, ExperienceToNextLevel: 100},
			expected: true,
		},
		{
			name:     "above threshold",
			stats:    Stats{Level: 5, Experience: 9999, ExperienceToNextLevel: 506},
			expected: true,
		},
		{
			name:     "max level is a hard ceiling",
			stats:    Stats{Level: MaxLevel, Experience: 1_000_000, ExperienceToNextLevel: 100},
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.stats.ShouldLevelUp())
		})
	}
}

func TestApplyLevelUp(t *testing.T) {
	s := Stats{
		Level:                 1,
		Experience:            130,
		ExperienceToNextLevel: 100,
		CurrentHealth:         40,
		MaxHealth:             100,
		Logic:                 5,
		Resilience:            5,
		Charisma:              5,
	}

	s.ApplyLevelUp()

	assert.Equal(t, 2, s.Level)
	assert.Equal(t, 30, s.Experience, "excess experience carries over")
	assert.Equal(t, ExperienceRequiredForLevel(2), s.ExperienceToNextLevel)
	assert.Equal(t, 110, s.MaxHealth)
	assert.Equal(t, 110, s.CurrentHealth, "level-up fully restores health")
	assert.Equal(t, 7, s.Logic)
	assert.Equal(t, 6, s.Resilience)
	assert.Equal(t, 6, s.Charisma)
}

func TestApplyLevelUp_ExactThreshold(t *testing.T) {
	s := NewStats()
	s.Experience = 100

	require.True(t, s.ShouldLevelUp())
	s.ApplyLevelUp()

	assert.Equal(t, 2, s.Level)
	assert.Equal(t, 0, s.Experience)

	// Leftover experience below the new threshold does not re-trigger
	assert.False(t, s.ShouldLevelUp())
}

func TestTakeDamageAndHeal(t *testing.T) {
	s := Stats{CurrentHealth: 50, MaxHealth: 100}

	s.TakeDamage(20)
	assert.Equal(t, 30, s.CurrentHealth)

	s.TakeDamage(-5)
	assert.Equal(t, 30, s.CurrentHealth, "negative damage is ignored")

	s.TakeDamage(100)
	assert.Equal(t, 0, s.CurrentHealth, "health is clamped at zero")
	assert.True(t, s.IsDefeated())

	s.Heal(40)
	assert.Equal(t, 40, s.CurrentHealth)

	s.Heal(500)
	assert.Equal(t, 100, s.CurrentHealth, "health is clamped at max")

	s.CurrentHealth = 1
	s.FullHeal()
	assert.Equal(t, s.MaxHealth, s.CurrentHealth)
}
