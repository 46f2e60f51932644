package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/sweeney/pollen-clock/internal/notify"
	"github.com/sweeney/pollen-clock/internal/status"
)

// ErrTooManyFailures is returned once the consecutive failure limit is reached.
var ErrTooManyFailures = errors.New("scheduler: too many consecutive failures")

// Supervisor defaults.
const (
	DefaultMaxFailures = 5
	DefaultStableAfter = time.Minute
	DefaultBackoff     = time.Second
	maxBackoff         = 30 * time.Second
	notifyTimeout      = 10 * time.Second
)

// Runner is one complete scheduler run.
type Runner interface {
	Run() error
}

// Supervisor restarts a Runner after failures, up to MaxFailures in a row.
type Supervisor struct {
	runner   Runner
	notifier notify.Notifier

	// MaxFailures is the consecutive failure limit.
	MaxFailures int

	// StableAfter is how long a run must last for its failure to start a
	// fresh count. Zero disables the reset.
	StableAfter time.Duration

	// Backoff is the first delay between restarts. Zero restarts immediately.
	Backoff time.Duration

	// Stop ends a backoff wait early and makes Run return nil.
	Stop <-chan os.Signal

	// Tracker, if set, records each failure.
	Tracker *status.Tracker

	now   func() time.Time
	after func(time.Duration) <-chan time.Time
}

// NewSupervisor creates a Supervisor with default limits.
func NewSupervisor(r Runner, n notify.Notifier) *Supervisor {
	return &Supervisor{
		runner:      r,
		notifier:    n,
		MaxFailures: DefaultMaxFailures,
		StableAfter: DefaultStableAfter,
		Backoff:     DefaultBackoff,
		now:         time.Now,
		after:       time.After,
	}
}

// Run runs the Runner until it completes cleanly or fails MaxFailures times
// in a row. The returned error wraps ErrTooManyFailures and the last failure.
func (s *Supervisor) Run() error {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = s.Backoff
	bo.MaxInterval = maxBackoff
	bo.MaxElapsedTime = 0
	bo.Reset()

	failures := 0
	for {
		started := s.now()
		err := s.runner.Run()
		if err == nil {
			log.Printf("supervisor: scheduler stopped cleanly")
			return nil
		}

		if s.StableAfter > 0 && s.now().Sub(started) >= s.StableAfter {
			failures = 0
			bo.Reset()
		}
		failures++
		log.Printf("supervisor: scheduler failed (%d/%d): %v", failures, s.MaxFailures, err)
		if s.Tracker != nil {
			s.Tracker.RunFailed(err, failures)
		}
		s.report(err)

		if failures >= s.MaxFailures {
			return fmt.Errorf("%w (%d): %w", ErrTooManyFailures, failures, err)
		}

		if s.Backoff <= 0 {
			continue
		}
		wait := bo.NextBackOff()
		log.Printf("supervisor: restarting in %v", wait)
		select {
		case sig := <-s.Stop:
			log.Printf("supervisor: received %v while waiting, shutting down", sig)
			return nil
		case <-s.after(wait):
		}
	}
}

func (s *Supervisor) report(err error) {
	if s.notifier == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
	defer cancel()
	if nerr := s.notifier.Notify(ctx, err); nerr != nil {
		log.Printf("supervisor: notify failed: %v", nerr)
	}
}
