package effects

import (
	"log/slog"
	"math/rand"
	"time"

	"github.com/pthm-cable/stardust/config"
	"github.com/pthm-cable/stardust/host"
	"github.com/pthm-cable/stardust/surface"
	"github.com/pthm-cable/stardust/systems"
)

// Aurora draws drifting light rays. It owns two surfaces: an offscreen
// draw surface the rays are stroked onto, and a display layer that shows a
// blurred additive copy of it over an opaque background.
type Aurora struct {
	lifecycle

	cfg    *config.Config
	rng    *rand.Rand
	source systems.NoiseSource

	display surface.Surface
	draw    surface.Surface
	rays    *systems.Aurora
	polls   int
}

// NewAurora creates an unmounted aurora whose noise generator comes from
// source.
func NewAurora(cfg *config.Config, rng *rand.Rand, source systems.NoiseSource) *Aurora {
	return &Aurora{
		lifecycle: lifecycle{name: "aurora"},
		cfg:       cfg,
		rng:       rng,
		source:    source,
	}
}

// Mount starts waiting for the noise generator. Rendering begins on the
// first poll that finds it ready.
func (e *Aurora) Mount(h host.Host) {
	if !e.begin(h) {
		return
	}
	e.polls = 0
	e.poll()
}

func (e *Aurora) poll() {
	e.timer = 0
	if e.state != StateInitializing {
		return
	}

	if noise, ok := e.source.Ready(); ok {
		e.start(noise)
		return
	}

	e.polls++
	if limit := e.cfg.Aurora.NoiseMaxPolls; limit > 0 && e.polls >= limit {
		slog.Warn("aurora noise unavailable", "polls", e.polls)
		e.transition(StateInert)
		return
	}
	e.after(e.cfg.Derived.NoisePoll, e.poll)
}

func (e *Aurora) start(noise systems.Noise3D) {
	ac := &e.cfg.Aurora

	e.display = e.host.AttachSurface(ac.Layer, ac.Z, surface.BlendAlpha)
	e.draw = e.host.NewOffscreen()
	e.rays = systems.NewAurora(systems.AuroraParamsFromConfig(e.cfg), e.rng, noise)

	e.transition(StateRunning)
	e.Resize(e.host.Size())
	e.listen(e.host.OnResize(e.Resize))
	e.requestFrame(e.Tick)
}

// Resize regenerates the rays for the new viewport. The noise generator
// is kept.
func (e *Aurora) Resize(w, h int) {
	if !e.running() {
		return
	}
	e.display.Resize(w, h)
	e.draw.Resize(w, h)
	e.rays.Resize(w, h)
}

// Tick renders one frame and schedules the next.
func (e *Aurora) Tick(now time.Duration) {
	if !e.running() {
		return
	}
	ac := &e.cfg.Aurora

	e.draw.Begin()
	e.draw.Clear()
	e.draw.SetBlend(surface.BlendAdditive)
	e.rays.Step(func(r *systems.Ray, alpha float32) {
		c := surface.HSL(float64(r.Hue), ac.Saturation, ac.Lightness, float64(alpha))
		e.draw.VerticalGradient(r.X, r.Y1, r.Y2, r.Width, c)
	})
	e.draw.End()

	e.display.Begin()
	e.display.Fill(e.cfg.Derived.AuroraBack)
	e.display.Composite(e.draw, float32(ac.Blur), surface.BlendAdditive)
	e.display.End()

	e.requestFrame(e.Tick)
}

// Teardown stops the aurora and removes both of its surfaces.
func (e *Aurora) Teardown() {
	h := e.host
	if !e.end() {
		return
	}
	if e.display != nil {
		h.DetachSurface(e.cfg.Aurora.Layer)
		e.display = nil
	}
	if e.draw != nil {
		h.ReleaseOffscreen(e.draw)
		e.draw = nil
	}
	e.rays = nil
}

// Population returns the number of rays.
func (e *Aurora) Population() int {
	if e.rays == nil {
		return 0
	}
	return e.rays.Count()
}

// Polls returns how many times the noise generator was found missing
// during the current mount.
func (e *Aurora) Polls() int {
	return e.polls
}
