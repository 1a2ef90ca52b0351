package core

import "time"

// Clock supplies the time used for accrual and staleness checks.
// Injected so that tests run against a deterministic clock.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time {
	return time.Now()
}

// NewClock new system clock
func NewClock() Clock {
	return systemClock{}
}
