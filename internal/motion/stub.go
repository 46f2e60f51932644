//go:build !linux

package motion

import "errors"

// GPIOSensor is not available on non-Linux platforms.
type GPIOSensor struct{}

// NewGPIOSensor returns an error on non-Linux platforms.
func NewGPIOSensor(pin int) (*GPIOSensor, error) {
	return nil, errors.New("motion: not supported on this platform (requires Linux)")
}

// Readings is not implemented on non-Linux platforms.
func (s *GPIOSensor) Readings() <-chan Reading {
	return nil
}

// Close is not implemented on non-Linux platforms.
func (s *GPIOSensor) Close() error {
	return nil
}
