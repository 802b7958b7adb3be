package terminal

import (
	"image/color"
	"math"

	"github.com/pthm-cable/stardust/surface"
)

// Each terminal cell stands for a block of virtual pixels so the effects
// keep working in the same coordinate space as the graphical backend.
const (
	CellWidth  = 8
	CellHeight = 16
)

// Glyphs drawn for point primitives, smallest first.
const (
	GlyphDot  = '·'
	GlyphBall = '•'
	GlyphStar = '✦'
)

// rgba is a premultiplied color with components in [0, 1].
type rgba struct {
	R, G, B, A float32
}

func premultiply(c color.NRGBA) rgba {
	a := float32(c.A) / 255
	return rgba{
		R: float32(c.R) / 255 * a,
		G: float32(c.G) / 255 * a,
		B: float32(c.B) / 255 * a,
		A: a,
	}
}

func (c rgba) scale(f float32) rgba {
	return rgba{c.R * f, c.G * f, c.B * f, c.A * f}
}

// over composites src onto c using source-over.
func (c rgba) over(src rgba) rgba {
	k := 1 - src.A
	return rgba{
		R: src.R + c.R*k,
		G: src.G + c.G*k,
		B: src.B + c.B*k,
		A: src.A + c.A*k,
	}
}

// add composites src onto c additively, saturating at 1.
func (c rgba) add(src rgba) rgba {
	return rgba{
		R: min(c.R+src.R, 1),
		G: min(c.G+src.G, 1),
		B: min(c.B+src.B, 1),
		A: min(c.A+src.A, 1),
	}
}

func (c rgba) blend(src rgba, mode surface.BlendMode) rgba {
	if mode == surface.BlendAdditive {
		return c.add(src)
	}
	return c.over(src)
}

// rgb255 returns the straight color channels as bytes, composited over black.
func (c rgba) rgb255() (int32, int32, int32) {
	return to255(c.R), to255(c.G), to255(c.B)
}

func to255(v float32) int32 {
	return int32(math.Round(float64(clamp01(v)) * 255))
}

func clamp01(v float32) float32 {
	return max(0, min(v, 1))
}

// cell is one character position: a background fill and an optional glyph.
type cell struct {
	bg    rgba
	fg    rgba
	glyph rune
}

// glyphFor picks a glyph that reads as a point of radius r pixels.
func glyphFor(r float32) rune {
	if r < 1 {
		return GlyphDot
	}
	return GlyphBall
}

// cellSpan converts a pixel interval to the covered cell interval [lo, hi).
func cellSpan(p0, p1 float32, size int, n int) (int, int) {
	lo := int(math.Floor(float64(p0) / float64(size)))
	hi := int(math.Ceil(float64(p1) / float64(size)))
	if hi <= lo {
		hi = lo + 1
	}
	return max(lo, 0), min(hi, n)
}
