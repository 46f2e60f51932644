// Package notify delivers failure reports to external sinks.
// Delivery is best-effort: callers log a returned error and carry on.
package notify

import (
	"context"
	"errors"
	"time"

	"github.com/sweeney/pollen-clock/internal/mqtt"
)

// Notifier reports an error somewhere a human will see it.
type Notifier interface {
	Notify(ctx context.Context, err error) error
}

// Multi notifies every sink and joins their failures.
type Multi []Notifier

// Notify calls each sink in order.
func (m Multi) Notify(ctx context.Context, err error) error {
	var errs []error
	for _, n := range m {
		if nerr := n.Notify(ctx, err); nerr != nil {
			errs = append(errs, nerr)
		}
	}
	return errors.Join(errs...)
}

// PublisherSink reports errors as ERROR system events over MQTT.
type PublisherSink struct {
	Publisher mqtt.Publisher
	Now       func() time.Time
}

// Notify publishes err.
func (s PublisherSink) Notify(_ context.Context, err error) error {
	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	return s.Publisher.PublishSystem(mqtt.SystemEvent{
		Timestamp: now(),
		Event:     "ERROR",
		Reason:    err.Error(),
	})
}
