// Package scheduler runs the clock's event loop and restarts it on failure.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/sweeney/pollen-clock/internal/activation"
	"github.com/sweeney/pollen-clock/internal/clockface"
	"github.com/sweeney/pollen-clock/internal/led"
	"github.com/sweeney/pollen-clock/internal/motion"
	"github.com/sweeney/pollen-clock/internal/mqtt"
	"github.com/sweeney/pollen-clock/internal/pollen"
	"github.com/sweeney/pollen-clock/internal/signals"
	"github.com/sweeney/pollen-clock/internal/status"
)

// ErrSensorClosed is returned when the motion sensor stops delivering readings.
var ErrSensorClosed = errors.New("motion sensor: readings closed")

// Defaults for Config.
const (
	DefaultRender  = 100 * time.Millisecond
	DefaultRefresh = time.Hour
)

// Config holds the loop's timing and ring geometry.
type Config struct {
	LEDs    int
	Offset  int
	Render  time.Duration
	Refresh time.Duration
	Grace   time.Duration
}

// Deps are the collaborators the loop drives. Publisher and Tracker may be nil.
type Deps struct {
	Clock      clockface.Clock
	Driver     led.Driver
	Fetcher    pollen.Fetcher
	OpenSensor func() (motion.Sensor, error)
	Signals    <-chan os.Signal
	Publisher  mqtt.Publisher
	Tracker    *status.Tracker
}

// Scheduler owns the display state for the duration of one Run.
type Scheduler struct {
	cfg  Config
	deps Deps

	newTicker func(time.Duration) (<-chan time.Time, func())
	after     func(time.Duration) <-chan time.Time
	now       func() time.Time
}

// New creates a Scheduler. Each call to Run starts from a fresh face and
// activation state.
func New(cfg Config, deps Deps) *Scheduler {
	if cfg.Render <= 0 {
		cfg.Render = DefaultRender
	}
	if cfg.Refresh <= 0 {
		cfg.Refresh = DefaultRefresh
	}
	if cfg.Grace <= 0 {
		cfg.Grace = activation.DefaultGrace
	}
	return &Scheduler{
		cfg:       cfg,
		deps:      deps,
		newTicker: realTicker,
		after:     time.After,
		now:       time.Now,
	}
}

func realTicker(d time.Duration) (<-chan time.Time, func()) {
	t := time.NewTicker(d)
	return t.C, t.Stop
}

// Run executes the event loop until a termination signal (nil) or a
// transport failure (non-nil).
func (s *Scheduler) Run() error {
	face, err := clockface.NewFace(s.cfg.LEDs, s.cfg.Offset)
	if err != nil {
		return err
	}
	machine := activation.NewMachine(s.cfg.Grace)
	category := pollen.Unknown

	if s.deps.Tracker != nil {
		s.deps.Tracker.RunStarted()
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sensor, err := s.deps.OpenSensor()
	if err != nil {
		return fmt.Errorf("open motion sensor: %w", err)
	}
	defer sensor.Close()
	readings := sensor.Readings()

	results := make(chan pollen.Result, 1)
	pollen.Refresh(ctx, s.deps.Fetcher, results)

	render, stopRender := s.newTicker(s.cfg.Render)
	defer stopRender()
	refresh, stopRefresh := s.newTicker(s.cfg.Refresh)
	defer stopRefresh()

	// nil until a grace period is running; a nil channel never fires.
	var timeout <-chan time.Time
	var timeoutGen uint64

	log.Printf("scheduler: started leds=%d offset=%d render=%v refresh=%v grace=%v",
		s.cfg.LEDs, s.cfg.Offset, s.cfg.Render, s.cfg.Refresh, s.cfg.Grace)

	for {
		select {
		case sig := <-s.deps.Signals:
			name := signals.Classify(sig).String()
			log.Printf("scheduler: received %s, shutting down", name)
			s.publishSystem("SHUTDOWN", name)
			return nil

		case <-render:
			if !machine.Active() {
				continue
			}
			frame, err := face.Render(s.deps.Clock.Now())
			if err != nil {
				return fmt.Errorf("render frame: %w", err)
			}
			if err := s.deps.Driver.Write(frame); err != nil {
				return fmt.Errorf("write frame: %w", err)
			}
			if err := s.deps.Driver.Flush(); err != nil {
				return fmt.Errorf("flush frame: %w", err)
			}
			if s.deps.Tracker != nil {
				s.deps.Tracker.FrameRendered()
			}

		case r := <-results:
			face.SetBackground(clockface.BackgroundFor(r.Category))
			if s.deps.Tracker != nil {
				s.deps.Tracker.SetPollen(r.Category, r.Err, s.now())
			}
			if r.Category != category {
				log.Printf("scheduler: pollen %s -> %s", category, r.Category)
				category = r.Category
				s.publish(mqtt.EventPollen, machine.State(), category)
			}

		case <-refresh:
			pollen.Refresh(ctx, s.deps.Fetcher, results)

		case r, ok := <-readings:
			if !ok {
				return ErrSensorClosed
			}
			if r.Err != nil {
				return fmt.Errorf("motion sensor: %w", r.Err)
			}
			if s.deps.Tracker != nil {
				s.deps.Tracker.MotionSeen()
			}

			changed, t := machine.Motion(r.Present, s.now())
			switch {
			case t != nil:
				timeout = s.after(s.cfg.Grace)
				timeoutGen = t.Generation
			case r.Present:
				timeout = nil
			}
			if changed {
				log.Printf("scheduler: motion detected, display %s", machine.State())
				s.setActivation(machine.State(), category)
			}

		case <-timeout:
			timeout = nil
			if !machine.Expire(timeoutGen) {
				continue
			}
			s.deps.Driver.Clear()
			if err := s.deps.Driver.Flush(); err != nil {
				return fmt.Errorf("clear frame: %w", err)
			}
			log.Printf("scheduler: no motion for %v, display %s", s.cfg.Grace, machine.State())
			s.setActivation(machine.State(), category)
		}
	}
}

func (s *Scheduler) setActivation(state activation.State, c pollen.Category) {
	if s.deps.Tracker != nil {
		s.deps.Tracker.SetActivation(state)
	}
	typ := mqtt.EventIdle
	if state == activation.StateActive {
		typ = mqtt.EventActive
	}
	s.publish(typ, state, c)
}

func (s *Scheduler) publish(typ mqtt.EventType, state activation.State, c pollen.Category) {
	if s.deps.Publisher == nil {
		return
	}
	err := s.deps.Publisher.Publish(mqtt.ClockEvent{
		Timestamp: s.now(),
		Type:      typ,
		State:     string(state),
		Pollen:    c.String(),
	})
	if err != nil {
		log.Printf("scheduler: publish %s: %v", typ, err)
	}
}

func (s *Scheduler) publishSystem(event, reason string) {
	if s.deps.Publisher == nil {
		return
	}
	err := s.deps.Publisher.PublishSystem(mqtt.SystemEvent{
		Timestamp: s.now(),
		Event:     event,
		Reason:    reason,
		Retained:  true,
	})
	if err != nil {
		log.Printf("scheduler: publish %s: %v", event, err)
	}
}
