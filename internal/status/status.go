// Package status provides a thread-safe status tracker for the clock daemon.
// The scheduler and supervisor write to it; HTTP handlers read snapshots.
package status

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/sweeney/pollen-clock/internal/activation"
	"github.com/sweeney/pollen-clock/internal/pollen"
)

// Config contains daemon configuration for display.
type Config struct {
	LEDs        int
	Offset      int
	GraceMs     int64
	RenderMs    int64
	RefreshMs   int64
	MaxFailures int
	Broker      string
	HTTPAddr    string
}

// Snapshot is a point-in-time view of daemon state.
// It is a value type, safe to use after the lock is released.
type Snapshot struct {
	Activation    activation.State
	Pollen        pollen.Category
	PollenError   string
	PollenAt      time.Time
	Frames        int64
	MotionEvents  int64
	Runs          int
	Failures      int
	LastError     string
	StartTime     time.Time
	Now           time.Time
	MQTTConnected bool
	Config        Config
}

// Uptime returns the duration since the daemon started.
func (s Snapshot) Uptime() time.Duration {
	return s.Now.Sub(s.StartTime)
}

// Tracker holds mutable daemon state. The methods the scheduler loop calls
// (RunStarted, SetActivation, SetPollen, FrameRendered, MotionSeen) are
// lock-free; the rest sit behind an RWMutex.
type Tracker struct {
	runs       atomic.Int64
	activation atomic.Pointer[activation.State]
	pollen     atomic.Pointer[pollenState]
	frames     atomic.Int64
	motion     atomic.Int64

	mu   sync.RWMutex
	snap Snapshot
}

// pollenState is replaced as a whole so readers never see a torn update.
type pollenState struct {
	category pollen.Category
	err      string
	at       time.Time
}

// NewTracker creates a Tracker with the given start time and config.
func NewTracker(startTime time.Time, cfg Config) *Tracker {
	t := &Tracker{
		snap: Snapshot{
			StartTime: startTime,
			Config:    cfg,
		},
	}
	t.SetActivation(activation.StateIdle)
	t.pollen.Store(&pollenState{})
	return t
}

// RunStarted records a fresh scheduler start. Per-run state is reset.
func (t *Tracker) RunStarted() {
	t.runs.Add(1)
	t.SetActivation(activation.StateIdle)
	t.pollen.Store(&pollenState{})
}

// RunFailed records a scheduler failure and the consecutive failure count.
func (t *Tracker) RunFailed(err error, consecutive int) {
	t.mu.Lock()
	t.snap.LastError = err.Error()
	t.snap.Failures = consecutive
	t.mu.Unlock()
}

// SetActivation records the activation state.
func (t *Tracker) SetActivation(s activation.State) {
	t.activation.Store(&s)
}

// SetPollen records a refresh result. err is the refresh failure, if any.
func (t *Tracker) SetPollen(c pollen.Category, err error, at time.Time) {
	p := &pollenState{category: c, at: at}
	if err != nil {
		p.err = err.Error()
	}
	t.pollen.Store(p)
}

// FrameRendered counts a committed frame.
func (t *Tracker) FrameRendered() {
	t.frames.Add(1)
}

// MotionSeen counts a motion sensor reading.
func (t *Tracker) MotionSeen() {
	t.motion.Add(1)
}

// SetMQTTConnected sets the MQTT connection status.
func (t *Tracker) SetMQTTConnected(connected bool) {
	t.mu.Lock()
	t.snap.MQTTConnected = connected
	t.mu.Unlock()
}

// Snapshot returns a point-in-time copy of the daemon state.
// The Now field is set to the current time at the moment of the call.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.RLock()
	s := t.snap
	t.mu.RUnlock()

	s.Runs = int(t.runs.Load())
	s.Activation = *t.activation.Load()
	p := t.pollen.Load()
	s.Pollen, s.PollenError, s.PollenAt = p.category, p.err, p.at
	s.Frames = t.frames.Load()
	s.MotionEvents = t.motion.Load()
	s.Now = time.Now()
	return s
}
