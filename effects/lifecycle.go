// Package effects binds the simulations in systems to a host.Host.
//
// Every effect follows the same lifecycle: Mount acquires surfaces and
// subscriptions and starts a self-rescheduling frame callback, Teardown
// releases all of it. A missing surface leaves the effect inert; a missing
// dependency is retried on a timer. Nothing is ever reported as an error.
package effects

import (
	"log/slog"
	"time"

	"github.com/pthm-cable/stardust/host"
)

// State is an effect's lifecycle state.
type State uint8

const (
	StateUnmounted State = iota
	StateInitializing
	StateRunning
	StateTornDown
	// StateInert is a mounted effect that found no surface to draw on.
	StateInert
)

func (s State) String() string {
	switch s {
	case StateUnmounted:
		return "unmounted"
	case StateInitializing:
		return "initializing"
	case StateRunning:
		return "running"
	case StateTornDown:
		return "torn_down"
	case StateInert:
		return "inert"
	}
	return "unknown"
}

// Effect is the common surface of the three engines.
type Effect interface {
	Name() string
	Mount(h host.Host)
	Teardown()
	State() State
	// Population returns the number of live entities.
	Population() int
}

// lifecycle holds the per-mount bookkeeping shared by every effect.
type lifecycle struct {
	name  string
	state State
	host  host.Host

	frame   host.FrameID
	timer   host.TimerID
	cancels []func()
}

func (l *lifecycle) Name() string {
	return l.name
}

func (l *lifecycle) State() State {
	return l.state
}

func (l *lifecycle) transition(to State) {
	slog.Debug("effect state", "effect", l.name, "from", l.state.String(), "to", to.String())
	l.state = to
}

// begin starts a fresh mount on h. It reports false when the effect is
// already mounted.
func (l *lifecycle) begin(h host.Host) bool {
	switch l.state {
	case StateUnmounted, StateTornDown:
	default:
		slog.Debug("effect already mounted", "effect", l.name, "state", l.state.String())
		return false
	}
	l.host = h
	l.frame = 0
	l.timer = 0
	l.cancels = l.cancels[:0]
	l.transition(StateInitializing)
	return true
}

func (l *lifecycle) listen(cancel func()) {
	l.cancels = append(l.cancels, cancel)
}

func (l *lifecycle) requestFrame(fn func(now time.Duration)) {
	l.frame = l.host.RequestFrame(fn)
}

func (l *lifecycle) after(d time.Duration, fn func()) {
	l.timer = l.host.AfterFunc(d, fn)
}

func (l *lifecycle) running() bool {
	return l.state == StateRunning
}

// end cancels everything begin and its callers registered and reports
// whether there was anything to tear down.
func (l *lifecycle) end() bool {
	switch l.state {
	case StateUnmounted, StateTornDown:
		return false
	}
	for _, cancel := range l.cancels {
		cancel()
	}
	l.cancels = l.cancels[:0]
	if l.frame != 0 {
		l.host.CancelFrame(l.frame)
		l.frame = 0
	}
	if l.timer != 0 {
		l.host.CancelTimer(l.timer)
		l.timer = 0
	}
	l.transition(StateTornDown)
	return true
}
