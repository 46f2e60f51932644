package motion

import "sync"

// FakeSensor is a test double driven by sending on C.
type FakeSensor struct {
	// C is returned by Readings. Tests send on it directly; an unbuffered
	// channel makes each send a synchronisation point with the receiver.
	C chan Reading

	mu     sync.Mutex
	closed bool
}

// NewFakeSensor creates a FakeSensor with an unbuffered channel.
func NewFakeSensor() *FakeSensor {
	return &FakeSensor{C: make(chan Reading)}
}

// Readings returns C.
func (f *FakeSensor) Readings() <-chan Reading {
	return f.C
}

// Close marks the sensor as closed.
func (f *FakeSensor) Close() error {
	f.mu.Lock()
	f.closed = true
	f.mu.Unlock()
	return nil
}

// Closed reports whether Close was called.
func (f *FakeSensor) Closed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}
