package clockface

import (
	"github.com/sweeney/pollen-clock/internal/led"
	"github.com/sweeney/pollen-clock/internal/pollen"
)

// Marker colours.
var (
	HourColor   = led.MustColor(1, 255, 0, 255)
	MinuteColor = led.MustColor(1, 0, 0, 255)
	SecondColor = led.MustColor(1, 0, 0, 255)
)

// Background colours per pollen level.
var (
	HighBackground   = led.MustColor(1, 255, 0, 0)
	MediumBackground = led.MustColor(1, 255, 150, 0)
	LowBackground    = led.MustColor(1, 0, 255, 0)
)

// BackgroundFor returns the background for a pollen category.
// Unknown renders dark.
func BackgroundFor(c pollen.Category) led.Color {
	switch c {
	case pollen.High:
		return HighBackground
	case pollen.Medium:
		return MediumBackground
	case pollen.Low:
		return LowBackground
	default:
		return led.Blank
	}
}
