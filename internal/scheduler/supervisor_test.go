package scheduler

import (
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"golang.org/x/sys/unix"

	"github.com/sweeney/pollen-clock/internal/notify"
	"github.com/sweeney/pollen-clock/internal/status"
)

// scriptedRunner returns errs in order, then nil.
type scriptedRunner struct {
	errs  []error
	calls int

	// during, if set, runs inside each call with the call index.
	during func(i int)
}

func (r *scriptedRunner) Run() error {
	i := r.calls
	r.calls++
	if r.during != nil {
		r.during(i)
	}
	if i < len(r.errs) {
		return r.errs[i]
	}
	return nil
}

func failures(n int) []error {
	errs := make([]error, n)
	for i := range errs {
		errs[i] = fmt.Errorf("flush frame: failure %d", i+1)
	}
	return errs
}

func newTestSupervisor(r Runner, n notify.Notifier) *Supervisor {
	s := NewSupervisor(r, n)
	s.Backoff = 0
	return s
}

func TestSupervisorGivesUpAfterMaxFailures(t *testing.T) {
	errs := failures(8)
	r := &scriptedRunner{errs: errs}
	n := &notify.FakeNotifier{}
	s := newTestSupervisor(r, n)

	err := s.Run()
	if !errors.Is(err, ErrTooManyFailures) {
		t.Fatalf("Run: got %v, want ErrTooManyFailures", err)
	}
	if !errors.Is(err, errs[4]) {
		t.Errorf("Run: got %v, want it to wrap the fifth failure", err)
	}
	if r.calls != DefaultMaxFailures {
		t.Errorf("runs: got %d, want %d", r.calls, DefaultMaxFailures)
	}
	if got := len(n.Errors()); got != DefaultMaxFailures {
		t.Errorf("notifications: got %d, want %d", got, DefaultMaxFailures)
	}
}

func TestSupervisorStopsOnCleanRun(t *testing.T) {
	r := &scriptedRunner{errs: failures(2)}
	n := &notify.FakeNotifier{}
	s := newTestSupervisor(r, n)

	if err := s.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if r.calls != 3 {
		t.Errorf("runs: got %d, want 3", r.calls)
	}
	if got := len(n.Errors()); got != 2 {
		t.Errorf("notifications: got %d, want 2", got)
	}
}

func TestSupervisorCustomLimit(t *testing.T) {
	r := &scriptedRunner{errs: failures(5)}
	s := newTestSupervisor(r, nil)
	s.MaxFailures = 2

	if err := s.Run(); !errors.Is(err, ErrTooManyFailures) {
		t.Fatalf("Run: got %v, want ErrTooManyFailures", err)
	}
	if r.calls != 2 {
		t.Errorf("runs: got %d, want 2", r.calls)
	}
}

func TestSupervisorStableRunResetsCount(t *testing.T) {
	var clock time.Time
	r := &scriptedRunner{
		errs: failures(10),
		during: func(i int) {
			// The third run stays up long enough to count as stable.
			if i == 2 {
				clock = clock.Add(2 * time.Minute)
			} else {
				clock = clock.Add(time.Second)
			}
		},
	}
	tr := status.NewTracker(time.Now(), status.Config{})
	s := newTestSupervisor(r, nil)
	s.Tracker = tr
	s.now = func() time.Time { return clock }

	if err := s.Run(); !errors.Is(err, ErrTooManyFailures) {
		t.Fatalf("Run: got %v, want ErrTooManyFailures", err)
	}
	// Two failures, then a stable run restarts the count at one, then four more.
	if r.calls != 7 {
		t.Errorf("runs: got %d, want 7", r.calls)
	}
	snap := tr.Snapshot()
	if snap.Failures != DefaultMaxFailures {
		t.Errorf("tracker failures: got %d, want %d", snap.Failures, DefaultMaxFailures)
	}
	if snap.LastError != r.errs[6].Error() {
		t.Errorf("tracker last error: got %q, want %q", snap.LastError, r.errs[6].Error())
	}
}

func TestSupervisorNotifyFailureIsNotEscalated(t *testing.T) {
	r := &scriptedRunner{errs: failures(1)}
	n := &notify.FakeNotifier{NotifyError: errors.New("webhook: 500")}
	s := newTestSupervisor(r, n)

	if err := s.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if r.calls != 2 {
		t.Errorf("runs: got %d, want 2", r.calls)
	}
}

func TestSupervisorBackoffGrows(t *testing.T) {
	r := &scriptedRunner{errs: failures(3)}
	s := NewSupervisor(r, nil)
	s.Backoff = 100 * time.Millisecond

	var waits []time.Duration
	s.after = func(d time.Duration) <-chan time.Time {
		waits = append(waits, d)
		ch := make(chan time.Time, 1)
		ch <- time.Time{}
		return ch
	}

	if err := s.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(waits) != 3 {
		t.Fatalf("waits: got %d, want 3", len(waits))
	}
	for i, w := range waits {
		if w <= 0 || w > maxBackoff {
			t.Errorf("wait %d: %v outside (0, %v]", i, w, maxBackoff)
		}
	}
}

func TestSupervisorSignalDuringBackoff(t *testing.T) {
	r := &scriptedRunner{errs: failures(3)}
	stop := make(chan os.Signal, 1)
	stop <- unix.SIGTERM

	s := NewSupervisor(r, nil)
	s.Backoff = time.Hour
	s.Stop = stop

	done := make(chan error, 1)
	go func() { done <- s.Run() }()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("supervisor kept waiting after a signal")
	}
	if r.calls != 1 {
		t.Errorf("runs: got %d, want 1", r.calls)
	}
}
