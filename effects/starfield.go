package effects

import (
	"math/rand"
	"time"

	"github.com/pthm-cable/stardust/config"
	"github.com/pthm-cable/stardust/host"
	"github.com/pthm-cable/stardust/surface"
	"github.com/pthm-cable/stardust/systems"
)

// Starfield draws twinkling parallax stars on an existing layer.
type Starfield struct {
	lifecycle

	cfg *config.Config
	rng *rand.Rand

	surf  surface.Surface
	field *systems.Starfield
}

// NewStarfield creates an unmounted starfield.
func NewStarfield(cfg *config.Config, rng *rand.Rand) *Starfield {
	return &Starfield{
		lifecycle: lifecycle{name: "starfield"},
		cfg:       cfg,
		rng:       rng,
	}
}

// Mount binds the starfield to the host's starfield layer and generates
// the initial population.
func (e *Starfield) Mount(h host.Host) {
	if !e.begin(h) {
		return
	}

	e.surf = h.Surface(e.cfg.Starfield.Layer)
	if e.surf == nil {
		e.transition(StateInert)
		return
	}

	e.field = systems.NewStarfield(systems.StarfieldParamsFromConfig(e.cfg), e.rng)

	e.transition(StateRunning)
	e.Resize(h.Size())
	e.listen(h.OnResize(e.Resize))
	e.listen(h.OnPointerMove(e.PointerMove))
	e.requestFrame(e.Tick)
}

// Resize regenerates the population for the new viewport.
func (e *Starfield) Resize(w, h int) {
	if !e.running() {
		return
	}
	e.surf.Resize(w, h)
	e.field.Resize(w, h)
}

// PointerMove shifts the parallax offset.
func (e *Starfield) PointerMove(x, y float32) {
	if !e.running() {
		return
	}
	e.field.SetPointer(x, y)
}

// Tick renders one frame and schedules the next.
func (e *Starfield) Tick(now time.Duration) {
	if !e.running() {
		return
	}

	e.surf.Begin()
	e.surf.Fill(e.cfg.Derived.StarFade)
	e.field.Update(func(v systems.StarView) {
		e.surf.FillCircle(v.X, v.Y, v.Size, v.Color, v.Glow)
	})
	e.surf.End()

	e.requestFrame(e.Tick)
}

// Teardown stops the starfield and drops its subscriptions.
func (e *Starfield) Teardown() {
	if e.end() {
		e.field = nil
		e.surf = nil
	}
}

// Population returns the number of stars.
func (e *Starfield) Population() int {
	if e.field == nil {
		return 0
	}
	return e.field.Count()
}
