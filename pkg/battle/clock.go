package battle

import (
	"sync"
	"time"
)

// Clock schedules the battle's delayed transitions. The production
// clock wraps time.AfterFunc; tests inject a FakeClock and advance it
// manually. Staleness of fired callbacks is handled by the battle's
// round counter, so no timer handles are needed.
type Clock interface {
	AfterFunc(d time.Duration, f func())
}

// SystemClock is the wall-clock implementation.
var SystemClock Clock = systemClock{}

type systemClock struct{}

func (systemClock) AfterFunc(d time.Duration, f func()) {
	time.AfterFunc(d, f)
}

// FakeClock is a manually advanced Clock for tests.
type FakeClock struct {
	mu     sync.Mutex
	now    time.Duration
	timers []fakeTimer
}

type fakeTimer struct {
	at time.Duration
	f  func()
}

// NewFakeClock creates a fake clock at time zero.
func NewFakeClock() *FakeClock {
	return &FakeClock{}
}

func (c *FakeClock) AfterFunc(d time.Duration, f func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.timers = append(c.timers, fakeTimer{at: c.now + d, f: f})
}

// Advance moves the clock forward, firing due callbacks in schedule
// order. Callbacks run without the clock lock held, so they may
// schedule further timers.
func (c *FakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	target := c.now + d
	c.mu.Unlock()

	for {
		c.mu.Lock()
		idx := -1
		for i, t := range c.timers {
			if t.at <= target && (idx == -1 || t.at < c.timers[idx].at) {
				idx = i
			}
		}
		if idx == -1 {
			c.now = target
			c.mu.Unlock()
			return
		}
		t := c.timers[idx]
		c.timers = append(c.timers[:idx], c.timers[idx+1:]...)
		if t.at > c.now {
			c.now = t.at
		}
		c.mu.Unlock()

		t.f()
	}
}

// PendingTimers returns the number of scheduled callbacks. Used by
// tests to assert scheduling behavior.
func (c *FakeClock) PendingTimers() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.timers)
}
