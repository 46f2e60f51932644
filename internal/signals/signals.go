// Package signals names the OS requests that stop the clock.
package signals

import (
	"os"
	"os/signal"

	"golang.org/x/sys/unix"
)

// Kind is a recognised signal. Anything else is Other.
type Kind int

const (
	Other Kind = iota
	Alarm
	Hangup
	Interrupt
	Pipe
	Profile
	Terminate
	User1
	User2
)

var names = map[Kind]string{
	Other:     "UNKNOWN",
	Alarm:     "SIGALRM",
	Hangup:    "SIGHUP",
	Interrupt: "SIGINT",
	Pipe:      "SIGPIPE",
	Profile:   "SIGPROF",
	Terminate: "SIGTERM",
	User1:     "SIGUSR1",
	User2:     "SIGUSR2",
}

var kinds = map[unix.Signal]Kind{
	unix.SIGALRM: Alarm,
	unix.SIGHUP:  Hangup,
	unix.SIGINT:  Interrupt,
	unix.SIGPIPE: Pipe,
	unix.SIGPROF: Profile,
	unix.SIGTERM: Terminate,
	unix.SIGUSR1: User1,
	unix.SIGUSR2: User2,
}

func (k Kind) String() string {
	if n, ok := names[k]; ok {
		return n
	}
	return names[Other]
}

// Classify maps an os.Signal onto a Kind.
func Classify(s os.Signal) Kind {
	if us, ok := s.(unix.Signal); ok {
		if k, ok := kinds[us]; ok {
			return k
		}
	}
	return Other
}

// Shutdown lists the signals that request a clean stop. SIGPIPE and SIGPROF
// are recognised but not subscribed: the runtime and profilers use them.
var Shutdown = []os.Signal{
	unix.SIGHUP,
	unix.SIGINT,
	unix.SIGTERM,
	unix.SIGALRM,
	unix.SIGUSR1,
	unix.SIGUSR2,
}

// Notify returns a channel receiving the Shutdown signals. It has room for
// one pending notification so a request is never missed while the loop is busy.
func Notify() (<-chan os.Signal, func()) {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, Shutdown...)
	return ch, func() { signal.Stop(ch) }
}
