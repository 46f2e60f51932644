package clockface

import "time"

// TimeOfDay is a wall-clock reading.
type TimeOfDay struct {
	Hours   int // 0-23
	Minutes int // 0-59
	Seconds int // 0-59
}

// Clock returns the current time of day.
type Clock interface {
	Now() TimeOfDay
}

// SystemClock reads the local wall clock.
type SystemClock struct{}

// Now returns the local time of day.
func (SystemClock) Now() TimeOfDay {
	t := time.Now()
	return TimeOfDay{Hours: t.Hour(), Minutes: t.Minute(), Seconds: t.Second()}
}

// FakeClock is a manually advanced Clock for tests.
type FakeClock struct {
	T TimeOfDay
}

// Now returns the current fake time.
func (f *FakeClock) Now() TimeOfDay {
	return f.T
}

// AdvanceSecond moves forward one second, carrying into minutes.
func (f *FakeClock) AdvanceSecond() {
	f.T.Seconds++
	if f.T.Seconds >= 60 {
		f.T.Seconds = 0
		f.AdvanceMinute()
	}
}

// AdvanceMinute moves forward one minute, carrying into hours.
func (f *FakeClock) AdvanceMinute() {
	f.T.Minutes++
	if f.T.Minutes >= 60 {
		f.T.Minutes = 0
		f.AdvanceHour()
	}
}

// AdvanceHour moves forward one hour, wrapping at midnight.
func (f *FakeClock) AdvanceHour() {
	f.T.Hours++
	if f.T.Hours >= 24 {
		f.T.Hours = 0
	}
}
