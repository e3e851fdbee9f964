package report

import "time"

// Clock provides a testable time source.
type Clock interface {
	Now() time.Time
}

// RealClock is a production Clock implementation backed by time.Now.
type RealClock struct{}

// Now implements Clock.
func (RealClock) Now() time.Time { return time.Now() }

// FixedClock always returns the same instant.
type FixedClock time.Time

// Now implements Clock.
func (c FixedClock) Now() time.Time { return time.Time(c) }
