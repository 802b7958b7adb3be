package host

import "github.com/pthm-cable/stardust/surface"

// Headless is a Backend with no window. Surfaces are surface.Recorders and
// input is whatever has been queued with Push.
type Headless struct {
	w, h   int
	events []Event

	Live      map[*surface.Recorder]struct{}
	Presented int
	Last      []Layer // layers passed to the most recent Present
}

// NewHeadless creates a headless backend with the given viewport size.
func NewHeadless(w, h int) *Headless {
	return &Headless{w: w, h: h, Live: make(map[*surface.Recorder]struct{})}
}

// Push queues events for the next PollEvents.
func (b *Headless) Push(events ...Event) {
	b.events = append(b.events, events...)
}

func (b *Headless) Size() (int, int) {
	return b.w, b.h
}

func (b *Headless) NewSurface(w, h int) surface.Surface {
	r := surface.NewRecorder(w, h)
	b.Live[r] = struct{}{}
	return r
}

func (b *Headless) ReleaseSurface(s surface.Surface) {
	if r, ok := s.(*surface.Recorder); ok {
		delete(b.Live, r)
	}
}

func (b *Headless) PollEvents(emit func(Event)) {
	events := b.events
	b.events = nil
	for _, ev := range events {
		if ev.Kind == EventResize {
			b.w, b.h = ev.W, ev.H
		}
		emit(ev)
	}
}

func (b *Headless) Present(layers []Layer) {
	b.Presented++
	b.Last = append(b.Last[:0], layers...)
}

var _ Backend = (*Headless)(nil)
