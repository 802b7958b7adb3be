package systems

import (
	"fmt"
	"math"
	"math/rand"
	"sync/atomic"
	"time"

	"github.com/ojrac/opensimplex-go"
)

// Noise3D is a coherent noise function of three continuous coordinates
// returning values in roughly [-1, 1].
type Noise3D interface {
	Noise3D(x, y, z float64) float64
}

// Simplex adapts OpenSimplex noise to Noise3D.
type Simplex struct {
	noise opensimplex.Noise
}

// NewSimplex creates a simplex generator for the given seed.
func NewSimplex(seed int64) *Simplex {
	return &Simplex{noise: opensimplex.New(seed)}
}

// Noise3D returns the simplex noise value at (x, y, z).
func (s *Simplex) Noise3D(x, y, z float64) float64 {
	return s.noise.Eval3(x, y, z)
}

// Perlin is improved Perlin gradient noise over a seeded permutation. It
// is the alternative to Simplex selected by the "perlin" noise kind.
type Perlin struct {
	perm [512]uint8
}

// perlinGrads holds the twelve cube-edge gradients, padded to sixteen so a
// four-bit hash indexes them directly.
var perlinGrads = [16][3]float64{
	{1, 1, 0}, {-1, 1, 0}, {1, -1, 0}, {-1, -1, 0},
	{1, 0, 1}, {-1, 0, 1}, {1, 0, -1}, {-1, 0, -1},
	{0, 1, 1}, {0, -1, 1}, {0, 1, -1}, {0, -1, -1},
	{1, 1, 0}, {0, -1, 1}, {-1, 1, 0}, {0, -1, -1},
}

// NewPerlin creates a Perlin generator for the given seed.
func NewPerlin(seed int64) *Perlin {
	p := &Perlin{}
	// Doubled so corner hashes never need wrapping
	for i, v := range rand.New(rand.NewSource(seed)).Perm(256) {
		p.perm[i] = uint8(v)
		p.perm[i+256] = uint8(v)
	}
	return p
}

func (p *Perlin) gradient(x, y, z int) [3]float64 {
	h := p.perm[int(p.perm[int(p.perm[x])+y])+z]
	return perlinGrads[h&15]
}

// Noise3D blends the gradient contributions of the eight lattice corners
// around (x, y, z).
func (p *Perlin) Noise3D(x, y, z float64) float64 {
	fx, fy, fz := math.Floor(x), math.Floor(y), math.Floor(z)
	xi, yi, zi := int(fx)&255, int(fy)&255, int(fz)&255
	x, y, z = x-fx, y-fy, z-fz

	// Corner i sits at offset (i&1, i>>1&1, i>>2&1) from the cell origin
	var c [8]float64
	for i := range c {
		dx, dy, dz := i&1, i>>1&1, i>>2&1
		g := p.gradient(xi+dx, yi+dy, zi+dz)
		c[i] = g[0]*(x-float64(dx)) + g[1]*(y-float64(dy)) + g[2]*(z-float64(dz))
	}

	u, v, w := smootherstep(x), smootherstep(y), smootherstep(z)
	near := lerp(v, lerp(u, c[0], c[1]), lerp(u, c[2], c[3]))
	far := lerp(v, lerp(u, c[4], c[5]), lerp(u, c[6], c[7]))
	return lerp(w, near, far)
}

// smootherstep is 6t^5 - 15t^4 + 10t^3.
func smootherstep(t float64) float64 {
	return t * t * t * (t*(t*6-15) + 10)
}

func lerp(t, a, b float64) float64 {
	return a + t*(b-a)
}

// NewNoise builds a generator by kind name ("simplex" or "perlin").
func NewNoise(kind string, seed int64) (Noise3D, error) {
	switch kind {
	case "", "simplex":
		return NewSimplex(seed), nil
	case "perlin":
		return NewPerlin(seed), nil
	}
	return nil, fmt.Errorf("unknown noise kind %q", kind)
}

// NoiseSource resolves a noise generator that may not be available yet.
type NoiseSource interface {
	// Ready returns the generator once it has loaded.
	Ready() (Noise3D, bool)
}

// NoiseLoader builds a noise generator in the background and publishes it
// once done. Ready is safe to call from any goroutine.
type NoiseLoader struct {
	noise atomic.Pointer[Noise3D]
	err   atomic.Pointer[error]
}

// LoadNoise starts building a generator of the given kind on a goroutine.
// delay adds artificial latency before the generator is published.
func LoadNoise(kind string, seed int64, delay time.Duration) *NoiseLoader {
	l := &NoiseLoader{}
	go func() {
		if delay > 0 {
			time.Sleep(delay)
		}
		n, err := NewNoise(kind, seed)
		if err != nil {
			l.err.Store(&err)
			return
		}
		l.noise.Store(&n)
	}()
	return l
}

// Ready returns the generator if loading has finished.
func (l *NoiseLoader) Ready() (Noise3D, bool) {
	n := l.noise.Load()
	if n == nil {
		return nil, false
	}
	return *n, true
}

// Err returns the load error, if loading failed.
func (l *NoiseLoader) Err() error {
	if e := l.err.Load(); e != nil {
		return *e
	}
	return nil
}

// StaticNoise is a NoiseSource that is ready immediately.
type StaticNoise struct {
	Noise Noise3D
}

// Ready returns the wrapped generator; it is ready when non-nil.
func (s StaticNoise) Ready() (Noise3D, bool) {
	return s.Noise, s.Noise != nil
}
