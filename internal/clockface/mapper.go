// Package clockface renders a time of day onto a ring of LEDs.
// This package has no hardware dependencies; the time source is injected.
package clockface

// Position maps value in [0, period) onto a ring of ringSize positions,
// rotated by offset. period and ringSize must be positive.
func Position(value, period, ringSize, offset int) int {
	return ((value*ringSize)/period + offset) % ringSize
}

// Periods for each hand. Hours use a 12-hour dial.
const (
	HourPeriod   = 12
	MinutePeriod = 60
	SecondPeriod = 60
)
