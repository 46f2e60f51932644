package clockface

import (
	"errors"
	"fmt"

	"github.com/sweeney/pollen-clock/internal/led"
)

// ErrPosition is returned when a marker falls outside the ring.
var ErrPosition = errors.New("clockface: position out of range")

// Face holds the per-LED frame and the background it is reset to.
type Face struct {
	size       int
	offset     int
	background led.Color
	frame      []led.Color
}

// NewFace creates a Face for a ring of size LEDs whose 12 o'clock sits at offset.
func NewFace(size, offset int) (*Face, error) {
	if size <= 0 {
		return nil, fmt.Errorf("clockface: invalid ring size %d", size)
	}
	if offset < 0 || offset >= size {
		return nil, fmt.Errorf("clockface: offset %d outside ring of %d", offset, size)
	}
	return &Face{
		size:       size,
		offset:     offset,
		background: led.Blank,
		frame:      make([]led.Color, size),
	}, nil
}

// SetBackground sets the colour used for unmarked positions from the next Render.
func (f *Face) SetBackground(c led.Color) {
	f.background = c
}

// Background returns the current background colour.
func (f *Face) Background() led.Color {
	return f.background
}

// Render rebuilds the frame from scratch for t and returns it.
// The returned slice is owned by the Face and reused on the next call.
func (f *Face) Render(t TimeOfDay) ([]led.Color, error) {
	for i := range f.frame {
		f.frame[i] = f.background
	}

	hour := f.position(t.Hours, HourPeriod)
	minute := f.position(t.Minutes, MinutePeriod)
	second := f.position(t.Seconds, SecondPeriod)

	// Draw order matters: later hands win on collision.
	marks := []struct {
		pos int
		c   led.Color
	}{
		{hour, HourColor},
		{(hour + 1) % f.size, HourColor},
		{minute, MinuteColor},
		{second, SecondColor},
	}
	for _, m := range marks {
		if err := f.set(m.pos, m.c); err != nil {
			return nil, err
		}
	}
	return f.frame, nil
}

// HourPositions returns both positions lit by the hour hand.
func (f *Face) HourPositions(hours int) (int, int) {
	h := f.position(hours, HourPeriod)
	return h, (h + 1) % f.size
}

func (f *Face) position(value, period int) int {
	return Position(value%period, period, f.size, f.offset)
}

func (f *Face) set(pos int, c led.Color) error {
	if pos < 0 || pos >= len(f.frame) {
		return fmt.Errorf("%w: %d in ring of %d", ErrPosition, pos, len(f.frame))
	}
	f.frame[pos] = c
	return nil
}
