// Package motion reports presence changes from a passive infrared sensor.
// The real implementation uses the Linux GPIO character device.
// The fake implementation allows testing without hardware.
package motion

// Reading is one presence level change, or a sensor failure.
type Reading struct {
	Present bool
	Err     error
}

// Sensor delivers presence changes.
type Sensor interface {
	// Readings delivers level changes. A Reading with Err set means the
	// sensor can no longer be trusted and should be reopened.
	Readings() <-chan Reading

	// Close releases the sensor.
	Close() error
}

// DefaultPin is the BCM pin the PIR output is wired to.
const DefaultPin = 17
