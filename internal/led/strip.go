package led

import (
	"errors"
	"fmt"
)

// ErrOverflow is returned when a write would exceed the strip size.
var ErrOverflow = errors.New("led: frame overflows strip")

// terminator ends a frame on the wire.
var terminator = [4]byte{}

// Driver accepts frames and commits them to hardware.
type Driver interface {
	// Write appends colors to the back buffer.
	// Returns ErrOverflow if the buffer would exceed the strip size.
	Write(colors []Color) error

	// Clear replaces the back buffer with a full blank frame.
	Clear()

	// Flush drains the back buffer to the transport and writes the terminator.
	Flush() error

	// Close blanks the strip and releases the transport.
	Close() error
}

// Conn is the half-duplex transport a Strip writes to.
// periph.io's spi.Conn satisfies it.
type Conn interface {
	Tx(w, r []byte) error
}

// Strip is a Driver over any Conn.
type Strip struct {
	size   int
	conn   Conn
	closer func() error
	back   []Color
}

// NewStrip creates a Strip of the given size and flushes once so the
// device starts from a known state.
func NewStrip(size int, conn Conn, closer func() error) (*Strip, error) {
	if size <= 0 {
		return nil, fmt.Errorf("led: invalid strip size %d", size)
	}
	s := &Strip{size: size, conn: conn, closer: closer}
	if err := s.Flush(); err != nil {
		return nil, fmt.Errorf("initial flush: %w", err)
	}
	return s, nil
}

// Size returns the number of LEDs on the strip.
func (s *Strip) Size() int {
	return s.size
}

// Write appends colors to the back buffer.
func (s *Strip) Write(colors []Color) error {
	if len(s.back)+len(colors) > s.size {
		return fmt.Errorf("%w: %d buffered + %d > %d", ErrOverflow, len(s.back), len(colors), s.size)
	}
	s.back = append(s.back, colors...)
	return nil
}

// Clear replaces the back buffer with blank records.
func (s *Strip) Clear() {
	s.back = s.back[:0]
	for i := 0; i < s.size; i++ {
		s.back = append(s.back, Blank)
	}
}

// Flush sends every buffered record followed by the terminator in a single
// transfer. The buffer is empty afterwards even if the transfer fails.
func (s *Strip) Flush() error {
	buf := make([]byte, 0, 4*(len(s.back)+1))
	for _, c := range s.back {
		rec := c.Encode()
		buf = append(buf, rec[:]...)
	}
	buf = append(buf, terminator[:]...)
	s.back = s.back[:0]

	if err := s.conn.Tx(buf, nil); err != nil {
		return fmt.Errorf("spi write: %w", err)
	}
	return nil
}

// Close blanks the strip and releases the transport.
func (s *Strip) Close() error {
	var errs []error
	s.Clear()
	if err := s.Flush(); err != nil {
		errs = append(errs, fmt.Errorf("blank on close: %w", err))
	}
	if s.closer != nil {
		if err := s.closer(); err != nil {
			errs = append(errs, fmt.Errorf("close transport: %w", err))
		}
	}
	return errors.Join(errs...)
}
