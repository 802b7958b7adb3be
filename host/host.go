// Package host adapts a rendering backend into the environment the effects
// run in: named drawable layers, input and resize subscriptions, and
// cancellable frame and timer callbacks, all driven from a single loop.
package host

import (
	"time"

	"github.com/pthm-cable/stardust/surface"
)

// FrameID identifies a pending frame callback.
type FrameID uint64

// TimerID identifies a pending timer.
type TimerID uint64

// Host is the surface adapter an effect binds to while mounted.
// All callbacks run on the loop goroutine.
type Host interface {
	// Size returns the current viewport dimensions in pixels.
	Size() (w, h int)

	// Surface returns the named layer, or nil if no such layer is attached.
	Surface(name string) surface.Surface
	// AttachSurface creates (or returns the existing) named layer at depth z.
	AttachSurface(name string, z int, blend surface.BlendMode) surface.Surface
	// DetachSurface removes the named layer from presentation and releases it.
	DetachSurface(name string)

	// NewOffscreen creates a viewport-sized surface that is never presented.
	NewOffscreen() surface.Surface
	ReleaseOffscreen(s surface.Surface)

	OnPointerMove(fn func(x, y float32)) (cancel func())
	OnResize(fn func(w, h int)) (cancel func())
	OnKey(fn func(key rune)) (cancel func())

	// RequestFrame schedules fn to run once before the next present.
	RequestFrame(fn func(now time.Duration)) FrameID
	CancelFrame(id FrameID)

	// AfterFunc schedules fn to run once d after the current loop time.
	AfterFunc(d time.Duration, fn func()) TimerID
	CancelTimer(id TimerID)
}

// EventKind classifies backend input.
type EventKind uint8

const (
	EventPointer EventKind = iota
	EventResize
	EventKey
	EventQuit
)

func (k EventKind) String() string {
	switch k {
	case EventPointer:
		return "pointer"
	case EventResize:
		return "resize"
	case EventKey:
		return "key"
	case EventQuit:
		return "quit"
	}
	return "unknown"
}

// Event is one input notification from a backend.
type Event struct {
	Kind EventKind
	X, Y float32 // pointer position in pixels
	W, H int     // new viewport size
	Key  rune
}

// PointerEvent builds a pointer-move event.
func PointerEvent(x, y float32) Event {
	return Event{Kind: EventPointer, X: x, Y: y}
}

// ResizeEvent builds a viewport resize event.
func ResizeEvent(w, h int) Event {
	return Event{Kind: EventResize, W: w, H: h}
}

// KeyEvent builds a key press event.
func KeyEvent(key rune) Event {
	return Event{Kind: EventKey, Key: key}
}

// Layer is a presented surface.
type Layer struct {
	Name    string
	Z       int
	Blend   surface.BlendMode
	Surface surface.Surface
}

// Backend is a window system the loop renders into.
type Backend interface {
	Size() (w, h int)
	NewSurface(w, h int) surface.Surface
	ReleaseSurface(s surface.Surface)
	// PollEvents delivers all input that arrived since the previous call.
	PollEvents(emit func(Event))
	// Present composites layers, lowest Z first, onto the output.
	Present(layers []Layer)
}

// Tracer receives per-step timing hooks.
type Tracer interface {
	StartTick()
	StartPhase(phase string)
	EndTick()
}

// Loop phase names reported to a Tracer.
const (
	PhaseEvents  = "events"
	PhaseTimers  = "timers"
	PhaseFrames  = "frames"
	PhasePresent = "present"
)
