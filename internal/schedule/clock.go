package schedule

import "time"

// Clock supplies the timestamps stamped on achievements and new targets.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function to Clock.
type ClockFunc func() time.Time

func (f ClockFunc) Now() time.Time { return f() }

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now().UTC() }

// SystemClock returns a Clock reading the wall clock in UTC.
func SystemClock() Clock { return systemClock{} }
