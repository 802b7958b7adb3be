package host

import (
	"log/slog"
	"sort"
	"time"

	"github.com/pthm-cable/stardust/surface"
)

// Loop drives a Backend: it dispatches input, fires timers, runs frame
// callbacks and presents the attached layers once per Step. Loop
// implements Host.
type Loop struct {
	backend Backend
	sched   *Scheduler
	tracer  Tracer

	w, h      int
	layers    []Layer
	offscreen map[surface.Surface]struct{}

	pointer listeners[func(x, y float32)]
	resize  listeners[func(w, h int)]
	key     listeners[func(key rune)]

	quit  bool
	steps int64
}

// NewLoop creates a loop over backend.
func NewLoop(backend Backend) *Loop {
	w, h := backend.Size()
	return &Loop{
		backend:   backend,
		sched:     NewScheduler(),
		w:         w,
		h:         h,
		offscreen: make(map[surface.Surface]struct{}),
	}
}

// SetTracer installs per-step timing hooks. nil disables tracing.
func (l *Loop) SetTracer(t Tracer) {
	l.tracer = t
}

func (l *Loop) phase(name string) {
	if l.tracer != nil {
		l.tracer.StartPhase(name)
	}
}

// Step runs one iteration at loop time now and reports whether the loop
// should continue.
func (l *Loop) Step(now time.Duration) bool {
	if l.tracer != nil {
		l.tracer.StartTick()
	}

	l.phase(PhaseEvents)
	l.sched.now = now
	l.backend.PollEvents(l.dispatch)

	l.phase(PhaseTimers)
	l.sched.FireTimers(now)

	l.phase(PhaseFrames)
	l.sched.RunFrame(now)

	l.phase(PhasePresent)
	l.backend.Present(l.layers)

	if l.tracer != nil {
		l.tracer.EndTick()
	}
	l.steps++
	return !l.quit
}

// Steps returns the number of completed steps.
func (l *Loop) Steps() int64 {
	return l.steps
}

// Quit makes the current and later Steps report false.
func (l *Loop) Quit() {
	l.quit = true
}

// Dispatch delivers ev to subscribers as if the backend had produced it.
func (l *Loop) Dispatch(ev Event) {
	l.dispatch(ev)
}

func (l *Loop) dispatch(ev Event) {
	switch ev.Kind {
	case EventPointer:
		l.pointer.each(func(fn func(x, y float32)) { fn(ev.X, ev.Y) })
	case EventResize:
		if ev.W == l.w && ev.H == l.h {
			return
		}
		l.w, l.h = ev.W, ev.H
		slog.Debug("viewport resized", "w", ev.W, "h", ev.H)
		l.resize.each(func(fn func(w, h int)) { fn(ev.W, ev.H) })
	case EventKey:
		l.key.each(func(fn func(key rune)) { fn(ev.Key) })
	case EventQuit:
		l.quit = true
	}
}

// Size returns the current viewport dimensions.
func (l *Loop) Size() (int, int) {
	return l.w, l.h
}

// Surface returns the named layer's surface, or nil.
func (l *Loop) Surface(name string) surface.Surface {
	for _, layer := range l.layers {
		if layer.Name == name {
			return layer.Surface
		}
	}
	return nil
}

// AttachSurface adds a viewport-sized layer. Layers with equal z keep
// attachment order. Attaching an existing name returns its surface.
func (l *Loop) AttachSurface(name string, z int, blend surface.BlendMode) surface.Surface {
	if s := l.Surface(name); s != nil {
		return s
	}
	s := l.backend.NewSurface(l.w, l.h)
	l.layers = append(l.layers, Layer{Name: name, Z: z, Blend: blend, Surface: s})
	sort.SliceStable(l.layers, func(i, j int) bool {
		return l.layers[i].Z < l.layers[j].Z
	})
	return s
}

// DetachSurface removes and releases the named layer.
func (l *Loop) DetachSurface(name string) {
	for i, layer := range l.layers {
		if layer.Name != name {
			continue
		}
		l.layers = append(l.layers[:i], l.layers[i+1:]...)
		l.backend.ReleaseSurface(layer.Surface)
		return
	}
}

// Layers returns the attached layers in presentation order.
func (l *Loop) Layers() []Layer {
	return append([]Layer(nil), l.layers...)
}

// NewOffscreen creates a viewport-sized surface that is never presented.
func (l *Loop) NewOffscreen() surface.Surface {
	s := l.backend.NewSurface(l.w, l.h)
	l.offscreen[s] = struct{}{}
	return s
}

// ReleaseOffscreen releases a surface created by NewOffscreen.
func (l *Loop) ReleaseOffscreen(s surface.Surface) {
	if _, ok := l.offscreen[s]; !ok {
		return
	}
	delete(l.offscreen, s)
	l.backend.ReleaseSurface(s)
}

// Offscreens returns the number of live offscreen surfaces.
func (l *Loop) Offscreens() int {
	return len(l.offscreen)
}

func (l *Loop) OnPointerMove(fn func(x, y float32)) func() { return l.pointer.add(fn) }
func (l *Loop) OnResize(fn func(w, h int)) func() { return l.resize.add(fn) }
func (l *Loop) OnKey(fn func(key rune)) func() { return l.key.add(fn) }

// Listeners returns the number of pointer, resize and key subscribers.
func (l *Loop) Listeners() (pointer, resize, key int) {
	return l.pointer.len(), l.resize.len(), l.key.len()
}

func (l *Loop) RequestFrame(fn func(now time.Duration)) FrameID { return l.sched.RequestFrame(fn) }
func (l *Loop) CancelFrame(id FrameID) { l.sched.CancelFrame(id) }
func (l *Loop) AfterFunc(d time.Duration, fn func()) TimerID { return l.sched.AfterFunc(d, fn) }
func (l *Loop) CancelTimer(id TimerID) { l.sched.CancelTimer(id) }

// Scheduler exposes the loop's scheduler for inspection.
func (l *Loop) Scheduler() *Scheduler {
	return l.sched
}

var _ Host = (*Loop)(nil)
