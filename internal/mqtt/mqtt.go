// Package mqtt publishes clock events with an abstraction for testing.
package mqtt

import (
	"encoding/json"
	"time"
)

// Topic is the MQTT topic for display and pollen events.
const Topic = "home/pollen-clock/events"

// TopicSystem is the MQTT topic for lifecycle and error events.
const TopicSystem = "home/pollen-clock/system"

// Publisher publishes events to MQTT. Implementations must not block the
// caller on network I/O.
type Publisher interface {
	// Publish sends a clock event to the broker.
	Publish(event ClockEvent) error

	// PublishSystem sends a lifecycle event to the broker.
	PublishSystem(event SystemEvent) error

	// Close disconnects from the broker.
	Close() error
}

// ConnectionStatus reports whether the MQTT connection is active.
type ConnectionStatus interface {
	IsConnected() bool
}

// EventType is the kind of clock event.
type EventType string

const (
	EventActive EventType = "ACTIVE"
	EventIdle   EventType = "IDLE"
	EventPollen EventType = "POLLEN"
)

// ClockEvent is a change in what the display shows.
type ClockEvent struct {
	Timestamp time.Time
	Type      EventType
	State     string // activation state after the event
	Pollen    string // pollen category after the event
}

// SystemEvent represents a lifecycle event (startup, shutdown, error).
type SystemEvent struct {
	Timestamp time.Time
	Event     string // e.g. "STARTUP", "SHUTDOWN", "ERROR"
	Reason    string // e.g. "SIGTERM" (shutdown), error text (error)
	Retained  bool
}

// Payload is the JSON envelope for clock events.
type Payload struct {
	Clock ClockPayload `json:"clock"`
}

// ClockPayload contains the clock event details.
type ClockPayload struct {
	Timestamp string `json:"timestamp"`
	Event     string `json:"event"`
	State     string `json:"state"`
	Pollen    string `json:"pollen"`
}

// FormatPayload creates the JSON payload for a clock event.
func FormatPayload(event ClockEvent) ([]byte, error) {
	return json.Marshal(Payload{
		Clock: ClockPayload{
			Timestamp: event.Timestamp.UTC().Format(time.RFC3339),
			Event:     string(event.Type),
			State:     event.State,
			Pollen:    event.Pollen,
		},
	})
}

// SystemPayload is the JSON envelope for system events.
type SystemPayload struct {
	System SystemPayloadInner `json:"system"`
}

// SystemPayloadInner contains the system event details.
type SystemPayloadInner struct {
	Timestamp string `json:"timestamp,omitempty"`
	Event     string `json:"event"`
	Reason    string `json:"reason,omitempty"`
}

// FormatSystemPayload creates the JSON payload for a system event.
// A zero Timestamp is omitted.
func FormatSystemPayload(event SystemEvent) ([]byte, error) {
	var ts string
	if !event.Timestamp.IsZero() {
		ts = event.Timestamp.UTC().Format(time.RFC3339)
	}
	return json.Marshal(SystemPayload{
		System: SystemPayloadInner{
			Timestamp: ts,
			Event:     event.Event,
			Reason:    event.Reason,
		},
	})
}
