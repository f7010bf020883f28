package adapters

import (
	"time"

	"gateway-console/internal/domain/interfaces"
)

// RealClock is a Clock backed by the system time
type RealClock struct{}

// NewRealClock creates a new RealClock
func NewRealClock() interfaces.Clock {
	return &RealClock{}
}

// Now returns the current time
func (c *RealClock) Now() time.Time {
	return time.Now()
}

// After waits for d on a runtime timer
func (c *RealClock) After(d time.Duration) <-chan time.Time {
	return time.After(d)
}
