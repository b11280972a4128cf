package reminder

import "time"

// Clock abstracts the current time so eligibility and cooldown logic can be
// tested without depending on the wall clock.
type Clock interface {
	Now() time.Time
}

// RealClock implements Clock using the system time.
type RealClock struct{}

func (RealClock) Now() time.Time { return time.Now() }
