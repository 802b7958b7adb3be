package systems

import (
	"math"
	"math/rand"

	"github.com/pthm-cable/stardust/config"
)

// Ray is one vertical aurora light segment.
type Ray struct {
	X      float32
	Y1, Y2 float32 // Segment endpoints; Y2 is above Y1
	Life   float32 // Ticks since (re)initialization
	TTL    float32
	Width  float32
	Speed  float32 // Horizontal drift per tick, either sign
	Hue    float32 // degrees
}

// AuroraParams holds ray generation parameters.
type AuroraParams struct {
	Density       float64 // Pixels² per ray
	MinRays       int
	MaxRays       int
	Length        config.Range
	Speed         config.Range
	Width         config.Range
	Hue           config.Range
	TTL           config.Range
	NoiseStrength float64
	NoiseScale    config.NoiseScale
	MaxOpacity    float64
}

// AuroraParamsFromConfig extracts aurora parameters from the loaded config.
func AuroraParamsFromConfig(cfg *config.Config) AuroraParams {
	ac := cfg.Aurora
	return AuroraParams{
		Density:       ac.Density,
		MinRays:       ac.MinRays,
		MaxRays:       ac.MaxRays,
		Length:        ac.Length,
		Speed:         ac.Speed,
		Width:         ac.Width,
		Hue:           ac.Hue,
		TTL:           ac.TTL,
		NoiseStrength: ac.NoiseStrength,
		NoiseScale:    ac.NoiseScale,
		MaxOpacity:    ac.MaxOpacity,
	}
}

// Aurora maintains a constant population of recycled light rays whose
// vertical placement follows a coherent noise field.
type Aurora struct {
	Rays []Ray

	params AuroraParams
	rng    *rand.Rand
	noise  Noise3D

	width, height float32
	tick          int64
	recycled      int64
}

// NewAurora creates an aurora over the given noise generator. The generator
// is kept for the aurora's lifetime; resizing never replaces it.
func NewAurora(params AuroraParams, rng *rand.Rand, noise Noise3D) *Aurora {
	return &Aurora{
		params: params,
		rng:    rng,
		noise:  noise,
	}
}

// RayCount returns clamp(floor(area / density), min, max).
func RayCount(w, h int, density float64, minRays, maxRays int) int {
	n := 0
	if w > 0 && h > 0 && density > 0 {
		n = int(math.Floor(float64(w) * float64(h) / density))
	}
	return clampInt(n, minRays, maxRays)
}

// Resize regenerates the whole ray population for new dimensions.
func (a *Aurora) Resize(w, h int) {
	a.width = float32(w)
	a.height = float32(h)

	n := RayCount(w, h, a.params.Density, a.params.MinRays, a.params.MaxRays)
	a.Rays = make([]Ray, n)
	for i := range a.Rays {
		a.initRay(&a.Rays[i])
	}
}

// initRay re-randomizes every field of r in place.
func (a *Aurora) initRay(r *Ray) {
	p := &a.params

	length := spread(p.Length.Base, p.Length.Spread, a.rng.Float64())
	x := float32(a.rng.Float64()) * a.width

	strength := float32(p.NoiseStrength)
	y1 := 0.5*a.height + strength
	y2 := y1 - length
	n := float32(a.noise.Noise3D(
		float64(x)*p.NoiseScale.X,
		float64(y1)*p.NoiseScale.Y,
		float64(a.tick)*p.NoiseScale.Z,
	)) * strength

	ttl := spread(p.TTL.Base, p.TTL.Spread, a.rng.Float64())
	width := spread(p.Width.Base, p.Width.Spread, a.rng.Float64())
	speed := spread(p.Speed.Base, p.Speed.Spread, a.rng.Float64())
	if a.rng.Intn(2) == 0 {
		speed = -speed
	}
	hue := spread(p.Hue.Base, p.Hue.Spread, a.rng.Float64())

	*r = Ray{
		X:     x,
		Y1:    y1 + n,
		Y2:    y2 + n,
		Life:  0,
		TTL:   ttl,
		Width: width,
		Speed: speed,
		Hue:   hue,
	}
}

// OutOfBounds reports whether x has left [0, width].
func (a *Aurora) OutOfBounds(x float32) bool {
	return x < 0 || x > a.width
}

// Step advances the aurora by one tick. Each ray is handed to draw (which
// may be nil) at its current geometry with its fade-in/fade-out alpha, then
// drifts and ages. Rays that leave the surface or outlive their TTL are
// reinitialized in place, so the population size never changes.
func (a *Aurora) Step(draw func(r *Ray, alpha float32)) {
	a.tick++
	maxOpacity := float32(a.params.MaxOpacity)

	for i := range a.Rays {
		r := &a.Rays[i]

		if draw != nil {
			draw(r, FadeInOut(r.Life, r.TTL)*maxOpacity)
		}

		r.X += r.Speed
		r.Life++

		if a.OutOfBounds(r.X) || r.Life > r.TTL {
			a.initRay(r)
			a.recycled++
		}
	}
}

// Count returns the ray population size.
func (a *Aurora) Count() int {
	return len(a.Rays)
}

// Tick returns the number of steps taken since creation.
func (a *Aurora) Tick() int64 {
	return a.tick
}

// Recycled returns the total number of in-place reinitializations.
func (a *Aurora) Recycled() int64 {
	return a.recycled
}

// Noise returns the generator driving ray placement.
func (a *Aurora) Noise() Noise3D {
	return a.noise
}
