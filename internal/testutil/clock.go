package testutil

import (
	"sync"
	"time"
)

// StepClock is an orm.Clock that starts at a fixed instant and advances by
// a fixed step on every call, so inserted rows get distinct, predictable
// timestamps.
//
// Safe for concurrent use.
type StepClock struct {
	mu   sync.Mutex
	next time.Time
	step time.Duration
}

// NewStepClock returns a clock whose first Now() is start.
func NewStepClock(start time.Time, step time.Duration) *StepClock {
	return &StepClock{next: start, step: step}
}

// Now returns the current instant and advances the clock.
func (c *StepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := c.next
	c.next = c.next.Add(c.step)
	return t
}
