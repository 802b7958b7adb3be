package effects

import (
	"math/rand"
	"time"

	"github.com/pthm-cable/stardust/config"
	"github.com/pthm-cable/stardust/host"
	"github.com/pthm-cable/stardust/surface"
	"github.com/pthm-cable/stardust/systems"
)

// CursorTrail draws fading stars behind the pointer on an existing layer.
type CursorTrail struct {
	lifecycle

	cfg *config.Config
	rng *rand.Rand

	surf  surface.Surface
	trail *systems.Trail

	pointerX, pointerY float32
	hasPointer         bool
	lastTick           time.Duration
	ticked             bool
}

// NewCursorTrail creates an unmounted cursor trail.
func NewCursorTrail(cfg *config.Config, rng *rand.Rand) *CursorTrail {
	return &CursorTrail{
		lifecycle: lifecycle{name: "trail"},
		cfg:       cfg,
		rng:       rng,
	}
}

// Mount binds the trail to the host's trail layer. Without that layer the
// trail stays inert until torn down.
func (e *CursorTrail) Mount(h host.Host) {
	if !e.begin(h) {
		return
	}

	e.surf = h.Surface(e.cfg.Trail.Layer)
	if e.surf == nil {
		e.transition(StateInert)
		return
	}

	e.trail = systems.NewTrail(systems.TrailParamsFromConfig(e.cfg), e.rng)
	e.hasPointer = false
	e.ticked = false

	e.transition(StateRunning)
	e.Resize(h.Size())
	e.listen(h.OnResize(e.Resize))
	e.listen(h.OnPointerMove(e.PointerMove))
	e.requestFrame(e.Tick)
}

// Resize matches the trail surface to the viewport.
func (e *CursorTrail) Resize(w, h int) {
	if !e.running() {
		return
	}
	e.surf.Resize(w, h)
}

// PointerMove records the emission point for the next tick.
func (e *CursorTrail) PointerMove(x, y float32) {
	if !e.running() {
		return
	}
	e.pointerX, e.pointerY = x, y
	e.hasPointer = true
}

// Tick renders one frame and schedules the next.
func (e *CursorTrail) Tick(now time.Duration) {
	if !e.running() {
		return
	}
	tc := &e.cfg.Trail

	emit := false
	if e.ticked {
		emit = e.trail.ShouldEmit(now - e.lastTick)
	}
	e.lastTick = now
	e.ticked = true

	e.surf.Begin()
	e.surf.Fill(e.cfg.Derived.TrailFade)

	if emit && e.hasPointer {
		e.trail.Emit(e.pointerX, e.pointerY)
	}
	e.trail.Update()

	inner := float32(tc.InnerRatio)
	glow := float32(tc.Glow)
	for i := range e.trail.Particles {
		p := &e.trail.Particles[i]
		c := surface.WithAlpha(p.Color, p.Life*tc.Opacity)
		e.surf.FillStar(p.X, p.Y, p.Size, p.Size*inner, p.Rotation, tc.Points, c, glow)
	}
	e.surf.End()

	e.requestFrame(e.Tick)
}

// Teardown stops the trail and drops its subscriptions.
func (e *CursorTrail) Teardown() {
	if e.end() {
		e.trail = nil
		e.surf = nil
	}
}

// Population returns the number of live particles.
func (e *CursorTrail) Population() int {
	if e.trail == nil {
		return 0
	}
	return e.trail.Count()
}
