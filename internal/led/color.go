// Package led drives an APA102-style addressable LED strip.
// Frames are buffered in memory and committed to an SPI transport in one
// burst followed by a terminator record.
package led

import (
	"errors"
	"fmt"
)

// MaxIntensity is the largest global brightness an APA102 record can carry.
const MaxIntensity = 31

// ErrInvalidIntensity is returned by NewColor for intensity > MaxIntensity.
var ErrInvalidIntensity = errors.New("led: invalid intensity")

// Color is one LED record: a 5-bit global intensity and 8-bit RGB.
type Color struct {
	intensity uint8
	red       uint8
	green     uint8
	blue      uint8
}

// NewColor returns a Color, failing rather than clamping if intensity is out of range.
func NewColor(intensity, red, green, blue uint8) (Color, error) {
	if intensity > MaxIntensity {
		return Color{}, fmt.Errorf("%w: %d exceeds %d", ErrInvalidIntensity, intensity, MaxIntensity)
	}
	return Color{intensity: intensity, red: red, green: green, blue: blue}, nil
}

// MustColor is NewColor for package-level constants. It panics on error.
func MustColor(intensity, red, green, blue uint8) Color {
	c, err := NewColor(intensity, red, green, blue)
	if err != nil {
		panic(err)
	}
	return c
}

// Blank is the record written for a cleared LED.
var Blank = Color{red: 255, green: 255, blue: 255}

func (c Color) Intensity() uint8 { return c.intensity }
func (c Color) Red() uint8       { return c.red }
func (c Color) Green() uint8     { return c.green }
func (c Color) Blue() uint8      { return c.blue }

// Encode returns the four-byte wire record: 0b111 header + intensity, then BGR.
func (c Color) Encode() [4]byte {
	return [4]byte{0xE0 | c.intensity, c.blue, c.green, c.red}
}

func (c Color) String() string {
	return fmt.Sprintf("(%d,%d,%d,%d)", c.intensity, c.red, c.green, c.blue)
}
