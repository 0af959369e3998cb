// Package encounter decides when random battles begin as the player
// moves through a map zone.
package encounter

import "math/rand"

const (
	baseThreshold   = 10
	thresholdJitter = 5
	triggerChance   = 0.30
)

// Trigger implements the step-counter encounter scheme: steps inside
// encounter-enabled zones accumulate until a randomized threshold is
// reached, at which point a single weighted coin flip decides whether a
// battle starts. Either way the counter resets and the threshold is
// re-rolled, so each threshold is one chance, not a guarantee.
type Trigger struct {
	rng       *rand.Rand
	stepCount int
	threshold int
}

// NewTrigger creates a trigger with an initial threshold roll.
func NewTrigger(rng *rand.Rand) *Trigger {
	t := &Trigger{rng: rng}
	t.reroll()
	return t
}

// Step records one completed player movement. encounterEnabled is the
// flag of the zone the step landed in; steps in safe zones never
// accumulate. Returns true when an encounter should begin.
func (t *Trigger) Step(encounterEnabled bool) bool {
	if !encounterEnabled {
		return false
	}
	t.stepCount++
	if t.stepCount < t.threshold {
		return false
	}

	fired := t.rng.Float64() <= triggerChance
	t.stepCount = 0
	t.reroll()
	return fired
}

// StepCount returns the current accumulated step count.
func (t *Trigger) StepCount() int { return t.stepCount }

// Threshold returns the current encounter threshold.
func (t *Trigger) Threshold() int { return t.threshold }

func (t *Trigger) reroll() {
	t.threshold = baseThreshold + t.rng.Intn(2*thresholdJitter+1) - thresholdJitter
}
