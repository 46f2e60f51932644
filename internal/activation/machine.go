// Package activation decides whether the clock face should be lit.
// It holds no timers: the caller schedules a timeout when told to and
// reports its expiry back with the generation it was issued.
package activation

import "time"

// State is whether the display is lit.
type State string

const (
	StateIdle   State = "IDLE"
	StateActive State = "ACTIVE"
)

// DefaultGrace is how long the display stays lit after motion stops.
const DefaultGrace = 10 * time.Second

// Timeout is a scheduled grace-period expiry.
type Timeout struct {
	Generation uint64
	Deadline   time.Time
}

// Machine tracks activation state and the single outstanding grace timeout.
type Machine struct {
	grace      time.Duration
	state      State
	generation uint64
	pending    *Timeout
}

// NewMachine creates a Machine in the idle state.
func NewMachine(grace time.Duration) *Machine {
	return &Machine{grace: grace, state: StateIdle}
}

// Motion applies a sensor level change observed at now.
// changed reports an Idle->Active transition. timeout is non-nil when the
// caller must arm a new grace timer; it supersedes any earlier one.
func (m *Machine) Motion(detected bool, now time.Time) (changed bool, timeout *Timeout) {
	if detected {
		m.generation++
		m.pending = nil
		changed = m.state != StateActive
		m.state = StateActive
		return changed, nil
	}

	if m.state != StateActive {
		return false, nil
	}

	m.generation++
	m.pending = &Timeout{Generation: m.generation, Deadline: now.Add(m.grace)}
	t := *m.pending
	return false, &t
}

// Expire reports that the timer for generation fired. It returns true only
// for the current timeout, in which case the machine is now Idle and the
// caller must blank the display. Stale generations are ignored.
func (m *Machine) Expire(generation uint64) bool {
	if m.pending == nil || m.pending.Generation != generation {
		return false
	}
	m.pending = nil
	m.state = StateIdle
	return true
}

// State returns the current state.
func (m *Machine) State() State {
	return m.state
}

// Active reports whether the display should be rendered.
func (m *Machine) Active() bool {
	return m.state == StateActive
}

// Pending returns the outstanding timeout, if any.
func (m *Machine) Pending() (Timeout, bool) {
	if m.pending == nil {
		return Timeout{}, false
	}
	return *m.pending, true
}
