package led

import (
	"errors"
	"sync"
)

// FakeConn records every transfer for test assertions.
type FakeConn struct {
	// Writes contains a copy of each buffer passed to Tx.
	Writes [][]byte

	// TxError, if set, will be returned by Tx.
	TxError error
}

// Tx records w.
func (f *FakeConn) Tx(w, r []byte) error {
	if f.TxError != nil {
		return f.TxError
	}
	f.Writes = append(f.Writes, append([]byte(nil), w...))
	return nil
}

// FakeDriver is a Driver that records committed frames.
// It is safe for a test goroutine to inspect while a loop writes to it.
type FakeDriver struct {
	mu     sync.Mutex
	size   int
	back   []Color
	frames [][]Color
	clears int
	closed bool

	// FlushError, if set, will be returned by Flush.
	FlushError error
}

// NewFakeDriver creates a FakeDriver for a strip of the given size.
func NewFakeDriver(size int) *FakeDriver {
	return &FakeDriver{size: size}
}

// Write appends to the back buffer.
func (f *FakeDriver) Write(colors []Color) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.back)+len(colors) > f.size {
		return ErrOverflow
	}
	f.back = append(f.back, colors...)
	return nil
}

// Clear fills the back buffer with blanks.
func (f *FakeDriver) Clear() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.back = make([]Color, f.size)
	for i := range f.back {
		f.back[i] = Blank
	}
	f.clears++
}

// Flush records the back buffer as a committed frame.
func (f *FakeDriver) Flush() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.FlushError != nil {
		return f.FlushError
	}
	f.frames = append(f.frames, f.back)
	f.back = nil
	return nil
}

// Close marks the driver closed.
func (f *FakeDriver) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return errors.New("already closed")
	}
	f.closed = true
	return nil
}

// Frames returns a copy of every committed frame.
func (f *FakeDriver) Frames() [][]Color {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([][]Color(nil), f.frames...)
}

// Clears returns how many times Clear was called.
func (f *FakeDriver) Clears() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.clears
}

// Closed reports whether Close was called.
func (f *FakeDriver) Closed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}
