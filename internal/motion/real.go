//go:build linux

package motion

import (
	"fmt"

	"github.com/warthog618/go-gpiocdev"
)

// GPIOSensor watches a PIR output line for edges.
type GPIOSensor struct {
	chip     *gpiocdev.Chip
	line     *gpiocdev.Line
	readings chan Reading
	done     chan struct{}
	lastSeq  uint32
}

// NewGPIOSensor requests pin on gpiochip0 with edge detection on both edges.
// The current level is delivered as the first reading.
func NewGPIOSensor(pin int) (*GPIOSensor, error) {
	chip, err := gpiocdev.NewChip("gpiochip0")
	if err != nil {
		return nil, fmt.Errorf("open gpio chip: %w", err)
	}

	s := &GPIOSensor{
		chip:     chip,
		readings: make(chan Reading, 1),
		done:     make(chan struct{}),
	}

	line, err := chip.RequestLine(pin,
		gpiocdev.AsInput,
		gpiocdev.WithPullDown,
		gpiocdev.WithBothEdges,
		gpiocdev.WithEventHandler(s.handle))
	if err != nil {
		chip.Close()
		return nil, fmt.Errorf("request PIR pin %d: %w", pin, err)
	}
	s.line = line

	v, err := line.Value()
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("read PIR pin %d: %w", pin, err)
	}
	select {
	case s.readings <- Reading{Present: v == 1}:
	default:
		// An edge already arrived and is more recent.
	}

	return s, nil
}

// handle runs on the gpiocdev watcher goroutine.
func (s *GPIOSensor) handle(evt gpiocdev.LineEvent) {
	r := Reading{Present: evt.Type == gpiocdev.LineEventRisingEdge}
	if s.lastSeq != 0 && evt.LineSeqno != s.lastSeq+1 {
		r.Err = fmt.Errorf("lost %d PIR events", evt.LineSeqno-s.lastSeq-1)
	}
	s.lastSeq = evt.LineSeqno

	select {
	case s.readings <- r:
	case <-s.done:
	}
}

// Readings returns the channel of level changes.
func (s *GPIOSensor) Readings() <-chan Reading {
	return s.readings
}

// Close releases the line and chip. The line is reconfigured to a plain
// pulled-down input first so the pin is left in its boot default.
func (s *GPIOSensor) Close() error {
	select {
	case <-s.done:
		return nil
	default:
		close(s.done)
	}

	var errs []error
	if s.line != nil {
		if err := s.line.Reconfigure(gpiocdev.AsInput, gpiocdev.WithPullDown); err != nil {
			errs = append(errs, fmt.Errorf("reconfigure PIR pin: %w", err))
		}
		if err := s.line.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close PIR pin: %w", err))
		}
	}
	if s.chip != nil {
		if err := s.chip.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close chip: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}
