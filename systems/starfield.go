package systems

import (
	"image/color"
	"math"
	"math/rand"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/stardust/components"
	"github.com/pthm-cable/stardust/config"
	"github.com/pthm-cable/stardust/surface"
)

// StarLayer holds per-depth-layer parameters. Index 0 is the nearest layer.
type StarLayer struct {
	Size    config.Range
	Opacity float32
}

// StarfieldParams holds starfield generation and animation parameters.
type StarfieldParams struct {
	Density       float64 // Pixels² per star
	ParallaxStep  float64
	ParallaxScale float64
	TwinkleSpeed  config.Range
	Brightness    config.Range
	GlowBlur      float32
	GlowMinSize   float32
	Layers        []StarLayer
	Palette       *surface.WeightedPalette
}

// StarfieldParamsFromConfig extracts starfield parameters from the loaded config.
func StarfieldParamsFromConfig(cfg *config.Config) StarfieldParams {
	sc := cfg.Starfield
	layers := make([]StarLayer, len(sc.Layers))
	for i, l := range sc.Layers {
		layers[i] = StarLayer{Size: l.Size, Opacity: float32(l.Opacity)}
	}
	return StarfieldParams{
		Density:       sc.Density,
		ParallaxStep:  sc.ParallaxStep,
		ParallaxScale: sc.ParallaxScale,
		TwinkleSpeed:  sc.TwinkleSpeed,
		Brightness:    sc.Brightness,
		GlowBlur:      float32(sc.GlowBlur),
		GlowMinSize:   float32(sc.GlowMinSize),
		Layers:        layers,
		Palette:       cfg.Derived.StarPalette,
	}
}

// StarView is what the renderer needs to draw one star this tick.
type StarView struct {
	X, Y  float32
	Size  float32
	Color color.NRGBA // Alpha already includes brightness, twinkle and layer opacity
	Glow  float32
}

// Starfield maintains a fixed population of parallax stars.
// The population lives in an ECS world and is regenerated wholesale on resize.
type Starfield struct {
	world  *ecs.World
	mapper *ecs.Map3[components.StarAnchor, components.Twinkle, components.StarLook]
	filter *ecs.Filter3[components.StarAnchor, components.Twinkle, components.StarLook]

	params StarfieldParams
	rng    *rand.Rand

	width, height float32
	// Pointer offset normalized to [-1, 1] from the surface center
	pointerX, pointerY float32

	count   int
	removed []ecs.Entity
}

// NewStarfield creates an empty starfield. Call Resize to populate it.
func NewStarfield(params StarfieldParams, rng *rand.Rand) *Starfield {
	world := ecs.NewWorld()
	return &Starfield{
		world:  world,
		mapper: ecs.NewMap3[components.StarAnchor, components.Twinkle, components.StarLook](world),
		filter: ecs.NewFilter3[components.StarAnchor, components.Twinkle, components.StarLook](world),
		params: params,
		rng:    rng,
	}
}

// StarCount returns floor(area / density) for the given dimensions.
func StarCount(w, h int, density float64) int {
	if w <= 0 || h <= 0 || density <= 0 {
		return 0
	}
	return int(math.Floor(float64(w) * float64(h) / density))
}

// Resize discards every star and generates a new population sized to the
// new surface area.
func (s *Starfield) Resize(w, h int) {
	s.width = float32(w)
	s.height = float32(h)

	s.clear()

	n := StarCount(w, h, s.params.Density)
	for i := 0; i < n; i++ {
		s.spawnStar()
	}
	s.count = n
}

// clear removes all star entities.
func (s *Starfield) clear() {
	// Collect first; the world is locked while a query is open
	s.removed = s.removed[:0]
	query := s.filter.Query()
	for query.Next() {
		s.removed = append(s.removed, query.Entity())
	}
	for _, e := range s.removed {
		s.mapper.Remove(e)
	}
	s.count = 0
}

// spawnStar creates one star with randomized layer, size, anchor and twinkle.
func (s *Starfield) spawnStar() {
	p := &s.params
	layer := s.rng.Intn(len(p.Layers))
	lc := p.Layers[layer]

	size := spread(lc.Size.Base, lc.Size.Spread, s.rng.Float64())
	baseX := float32(s.rng.Float64()) * s.width
	baseY := float32(s.rng.Float64()) * s.height

	anchor := components.StarAnchor{BaseX: baseX, BaseY: baseY, X: baseX, Y: baseY}
	twinkle := components.Twinkle{
		Phase:      float32(s.rng.Float64() * 2 * math.Pi),
		Speed:      spread(p.TwinkleSpeed.Base, p.TwinkleSpeed.Spread, s.rng.Float64()),
		Brightness: spread(p.Brightness.Base, p.Brightness.Spread, s.rng.Float64()),
	}
	look := components.StarLook{
		Size:  size,
		Layer: uint8(layer),
		Color: p.Palette.Pick(s.rng.Float64()),
	}

	s.mapper.NewEntity(&anchor, &twinkle, &look)
}

// SetPointer records an absolute pointer position in surface pixels.
func (s *Starfield) SetPointer(x, y float32) {
	if s.width > 0 {
		s.pointerX = (x/s.width - 0.5) * 2
	}
	if s.height > 0 {
		s.pointerY = (y/s.height - 0.5) * 2
	}
}

// Pointer returns the normalized pointer offset.
func (s *Starfield) Pointer() (float32, float32) {
	return s.pointerX, s.pointerY
}

// ParallaxFactor returns the displacement sensitivity of a layer.
// Nearer layers (lower index) move more.
func (s *Starfield) ParallaxFactor(layer uint8) float32 {
	return float32(len(s.params.Layers)-int(layer)) * float32(s.params.ParallaxStep)
}

// Update advances every star's twinkle, recomputes its parallax position
// and passes the result to visit (which may be nil).
func (s *Starfield) Update(visit func(StarView)) {
	scale := float32(s.params.ParallaxScale)

	query := s.filter.Query()
	for query.Next() {
		anchor, twinkle, look := query.Get()

		twinkle.Phase += twinkle.Speed
		tw := float32(math.Sin(float64(twinkle.Phase))+1) / 2

		factor := s.ParallaxFactor(look.Layer)
		anchor.X = wrap(anchor.BaseX+s.pointerX*factor*scale, s.width)
		anchor.Y = wrap(anchor.BaseY+s.pointerY*factor*scale, s.height)

		if visit == nil {
			continue
		}

		alpha := twinkle.Brightness * tw * s.params.Layers[look.Layer].Opacity
		var glow float32
		if look.Layer == 0 && look.Size > s.params.GlowMinSize {
			glow = s.params.GlowBlur
		}
		visit(StarView{
			X:     anchor.X,
			Y:     anchor.Y,
			Size:  look.Size,
			Color: surface.WithAlpha(look.Color, float64(alpha)),
			Glow:  glow,
		})
	}
}

// Each calls fn with every star's components, in storage order.
func (s *Starfield) Each(fn func(*components.StarAnchor, *components.Twinkle, *components.StarLook)) {
	query := s.filter.Query()
	for query.Next() {
		fn(query.Get())
	}
}

// Count returns the current star population.
func (s *Starfield) Count() int {
	return s.count
}

// Size returns the dimensions the population was generated for.
func (s *Starfield) Size() (float32, float32) {
	return s.width, s.height
}
