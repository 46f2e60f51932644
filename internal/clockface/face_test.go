package clockface

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/sweeney/pollen-clock/internal/led"
	"github.com/sweeney/pollen-clock/internal/pollen"
)

var colorEqual = cmp.Comparer(func(a, b led.Color) bool { return a == b })

func TestNewFaceValidation(t *testing.T) {
	tests := []struct {
		size, offset int
		ok           bool
	}{
		{24, 12, true},
		{24, 0, true},
		{24, 23, true},
		{24, 24, false},
		{24, -1, false},
		{0, 0, false},
	}
	for _, tt := range tests {
		_, err := NewFace(tt.size, tt.offset)
		if (err == nil) != tt.ok {
			t.Errorf("NewFace(%d,%d) err=%v, want ok=%v", tt.size, tt.offset, err, tt.ok)
		}
	}
}

func TestRenderHalfPastSix(t *testing.T) {
	f, err := NewFace(24, 12)
	if err != nil {
		t.Fatal(err)
	}
	bg := LowBackground
	f.SetBackground(bg)

	frame, err := f.Render(TimeOfDay{Hours: 6, Minutes: 30, Seconds: 0})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	// hour: (6*24)/12+12 = 24 -> 0, second pixel 1
	// minute: (30*24)/60+12 = 24 -> 0 (overwrites hour)
	// second: 0+12 = 12
	want := make([]led.Color, 24)
	for i := range want {
		want[i] = bg
	}
	want[0] = MinuteColor
	want[1] = HourColor
	want[12] = SecondColor

	if diff := cmp.Diff(want, frame, colorEqual); diff != "" {
		t.Errorf("frame mismatch (-want +got):\n%s", diff)
	}
}

func TestHourSecondPixelWraps(t *testing.T) {
	// Offset 1 puts 11 o'clock on the last LED.
	f, err := NewFace(24, 1)
	if err != nil {
		t.Fatal(err)
	}
	first, second := f.HourPositions(11)
	if first != 23 {
		t.Fatalf("hour 11 mapped to %d, want 23", first)
	}
	if second != 0 {
		t.Errorf("second hour pixel = %d, want 0 (wrapped)", second)
	}

	frame, err := f.Render(TimeOfDay{Hours: 23, Minutes: 20, Seconds: 20})
	if err != nil {
		t.Fatalf("Render at wrap boundary: %v", err)
	}
	if frame[23] != HourColor || frame[0] != HourColor {
		t.Errorf("expected hour at 23 and 0, got %v and %v", frame[23], frame[0])
	}
}

func TestRenderRebuildsFromBackground(t *testing.T) {
	f, _ := NewFace(24, 0)

	if _, err := f.Render(TimeOfDay{Hours: 1, Minutes: 5, Seconds: 10}); err != nil {
		t.Fatal(err)
	}
	f.SetBackground(HighBackground)
	frame, err := f.Render(TimeOfDay{Hours: 7, Minutes: 35, Seconds: 40})
	if err != nil {
		t.Fatal(err)
	}

	lit := map[int]bool{14: true, 15: true, 16: true}
	for i, c := range frame {
		if lit[i] {
			continue
		}
		if c != HighBackground {
			t.Errorf("led %d = %v, stale marker from previous render?", i, c)
		}
	}
}

func TestRenderMidnightCollision(t *testing.T) {
	f, _ := NewFace(24, 0)
	frame, err := f.Render(TimeOfDay{})
	if err != nil {
		t.Fatal(err)
	}
	// All hands at 0: second was written last.
	if frame[0] != SecondColor {
		t.Errorf("led 0 = %v, want second colour", frame[0])
	}
	if frame[1] != HourColor {
		t.Errorf("led 1 = %v, want hour colour", frame[1])
	}
}

func TestBackgroundFor(t *testing.T) {
	tests := []struct {
		c    pollen.Category
		want led.Color
	}{
		{pollen.High, HighBackground},
		{pollen.Medium, MediumBackground},
		{pollen.Low, LowBackground},
		{pollen.Unknown, led.Blank},
	}
	for _, tt := range tests {
		if got := BackgroundFor(tt.c); got != tt.want {
			t.Errorf("BackgroundFor(%v) = %v, want %v", tt.c, got, tt.want)
		}
	}
}
