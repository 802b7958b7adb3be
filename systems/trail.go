package systems

import (
	"image/color"
	"math"
	"math/rand"
	"time"

	"github.com/pthm-cable/stardust/config"
	"github.com/pthm-cable/stardust/surface"
)

// Particle is one cursor trail sprite.
type Particle struct {
	X, Y           float32
	Size           float32
	SpeedX, SpeedY float32
	Life           float64 // 1 at birth, removed once <= 0
	Decay          float32 // Subtracted from Life every update
	Color          color.NRGBA
	Rotation       float32
	RotationSpeed  float32
}

// TrailParams holds the emission parameters of a Trail.
type TrailParams struct {
	MaxParticles  int
	Gate          time.Duration
	Size          config.Range
	Speed         config.Range
	Decay         config.Range
	RotationSpeed float64
	Palette       surface.UniformPalette
}

// TrailParamsFromConfig extracts trail parameters from the loaded config.
func TrailParamsFromConfig(cfg *config.Config) TrailParams {
	return TrailParams{
		MaxParticles:  cfg.Trail.MaxParticles,
		Gate:          cfg.Derived.TrailGate,
		Size:          cfg.Trail.Size,
		Speed:         cfg.Trail.Speed,
		Decay:         cfg.Trail.Decay,
		RotationSpeed: cfg.Trail.RotationSpeed,
		Palette:       cfg.Derived.TrailPalette,
	}
}

// Trail manages the cursor trail particle pool.
// Particles are kept in creation order, oldest first.
type Trail struct {
	Particles []Particle

	params TrailParams
	rng    *rand.Rand
}

// NewTrail creates an empty trail pool.
func NewTrail(params TrailParams, rng *rand.Rand) *Trail {
	if params.MaxParticles < 1 {
		params.MaxParticles = 150
	}
	return &Trail{
		Particles: make([]Particle, 0, params.MaxParticles+1),
		params:    params,
		rng:       rng,
	}
}

// ShouldEmit reports whether a frame gap of dt is short enough to emit.
// Long gaps (the window was hidden, the process stalled) emit nothing so the
// trail does not burst when the loop resumes.
func (t *Trail) ShouldEmit(dt time.Duration) bool {
	return dt < t.params.Gate
}

// Emit creates a new particle at (x, y) with randomized motion and appearance.
func (t *Trail) Emit(x, y float32) {
	p := &t.params
	size := spread(p.Size.Base, p.Size.Spread, t.rng.Float64())
	angle := t.rng.Float64() * 2 * math.Pi
	speed := float64(spread(p.Speed.Base, p.Speed.Spread, t.rng.Float64()))
	decay := spread(p.Decay.Base, p.Decay.Spread, t.rng.Float64())
	col := p.Palette.Pick(t.rng.Float64())
	rotation := float32(t.rng.Float64() * 2 * math.Pi)
	rotationSpeed := float32((t.rng.Float64() - 0.5) * p.RotationSpeed)

	t.Spawn(Particle{
		X:             x,
		Y:             y,
		Size:          size,
		SpeedX:        float32(math.Cos(angle) * speed),
		SpeedY:        float32(math.Sin(angle) * speed),
		Life:          1,
		Decay:         decay,
		Color:         col,
		Rotation:      rotation,
		RotationSpeed: rotationSpeed,
	})
}

// Spawn appends a prepared particle as the newest in the pool.
func (t *Trail) Spawn(p Particle) {
	t.Particles = append(t.Particles, p)
}

// Update advances every particle, removes expired ones and enforces the
// population cap by discarding the oldest.
func (t *Trail) Update() {
	alive := 0
	for i := range t.Particles {
		p := &t.Particles[i]

		p.X += p.SpeedX
		p.Y += p.SpeedY
		p.Life -= float64(p.Decay)
		p.Rotation += p.RotationSpeed

		if p.Life <= 0 {
			continue
		}

		t.Particles[alive] = *p
		alive++
	}
	t.Particles = t.Particles[:alive]

	if excess := len(t.Particles) - t.params.MaxParticles; excess > 0 {
		n := copy(t.Particles, t.Particles[excess:])
		t.Particles = t.Particles[:n]
	}
}

// Count returns the current number of live particles.
func (t *Trail) Count() int {
	return len(t.Particles)
}

// MaxParticles returns the population cap.
func (t *Trail) MaxParticles() int {
	return t.params.MaxParticles
}
