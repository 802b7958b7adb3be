package surface

import (
	"errors"
	"fmt"
	"image/color"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// ParseHex parses a "#rrggbb" or "#rgb" color into an opaque NRGBA.
func ParseHex(s string) (color.NRGBA, error) {
	c, err := colorful.Hex(s)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("parsing color %q: %w", s, err)
	}
	r, g, b := c.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: 255}, nil
}

// MustHex is like ParseHex but panics on malformed input.
func MustHex(s string) color.NRGBA {
	c, err := ParseHex(s)
	if err != nil {
		panic(err)
	}
	return c
}

// HSL builds a color from hue (degrees), saturation and lightness in [0, 1]
// and an alpha in [0, 1].
func HSL(h, s, l, a float64) color.NRGBA {
	r, g, b := colorful.Hsl(h, s, l).Clamped().RGB255()
	return WithAlpha(color.NRGBA{R: r, G: g, B: b}, a)
}

// WithAlpha returns c with its alpha replaced by a in [0, 1].
func WithAlpha(c color.NRGBA, a float64) color.NRGBA {
	if a < 0 {
		a = 0
	} else if a > 1 {
		a = 1
	}
	c.A = uint8(a*255 + 0.5)
	return c
}

// Alpha returns the alpha of c as a fraction.
func Alpha(c color.NRGBA) float64 {
	return float64(c.A) / 255
}

// UniformPalette picks each color with equal probability.
type UniformPalette []color.NRGBA

// Pick returns the color selected by r in [0, 1).
func (p UniformPalette) Pick(r float64) color.NRGBA {
	i := int(r * float64(len(p)))
	if i >= len(p) {
		i = len(p) - 1
	}
	if i < 0 {
		i = 0
	}
	return p[i]
}

// WeightedColor is a palette color with a relative selection weight.
type WeightedColor struct {
	Color  color.NRGBA
	Weight float64
}

// WeightedPalette picks colors proportionally to their weights.
type WeightedPalette struct {
	colors     []color.NRGBA
	cumulative []float64
}

// NewWeightedPalette builds a palette from entries with positive weights.
func NewWeightedPalette(entries []WeightedColor) (*WeightedPalette, error) {
	if len(entries) == 0 {
		return nil, errors.New("palette has no entries")
	}
	p := &WeightedPalette{
		colors:     make([]color.NRGBA, len(entries)),
		cumulative: make([]float64, len(entries)),
	}
	var sum float64
	for i, e := range entries {
		if e.Weight < 0 {
			return nil, fmt.Errorf("negative weight %v for entry %d", e.Weight, i)
		}
		sum += e.Weight
		p.colors[i] = e.Color
		p.cumulative[i] = sum
	}
	if sum <= 0 {
		return nil, errors.New("palette weights sum to zero")
	}
	return p, nil
}

// Pick returns the first color whose cumulative weight reaches r.
// Values beyond the total weight fall back to the first color.
func (p *WeightedPalette) Pick(r float64) color.NRGBA {
	for i, cum := range p.cumulative {
		if r <= cum {
			return p.colors[i]
		}
	}
	return p.colors[0]
}

// Len returns the number of palette entries.
func (p *WeightedPalette) Len() int {
	return len(p.colors)
}
