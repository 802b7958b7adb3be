package renderer

import (
	"image/color"
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// toColor converts a non-premultiplied color to raylib's representation.
func toColor(c color.NRGBA) rl.Color {
	return rl.NewColor(c.R, c.G, c.B, c.A)
}

// starVertices returns the 2*points outline vertices of a star centered
// at (x, y), alternating outer and inner radius, starting at rotation.
func starVertices(dst []rl.Vector2, x, y, outer, inner, rotation float32, points int) []rl.Vector2 {
	dst = dst[:0]
	n := points * 2
	step := math.Pi / float64(points)
	for i := 0; i < n; i++ {
		r := outer
		if i%2 == 1 {
			r = inner
		}
		a := float64(rotation) + float64(i)*step
		dst = append(dst, rl.NewVector2(
			x+r*float32(math.Cos(a)),
			y+r*float32(math.Sin(a)),
		))
	}
	return dst
}

// gradientSpan is one half of a mid-peaked vertical gradient stroke.
type gradientSpan struct {
	x, y, w, h  int32
	top, bottom rl.Color
}

// gradientSpans splits a vertical stroke into two linear halves: fading in
// from transparent to c at the midpoint and back out to transparent.
func gradientSpans(x, y1, y2, width float32, c color.NRGBA) [2]gradientSpan {
	top, bottom := y1, y2
	if top > bottom {
		top, bottom = bottom, top
	}
	mid := (top + bottom) / 2

	faded := c
	faded.A = 0
	solid := toColor(c)
	none := toColor(faded)

	left := int32(math.Round(float64(x - width/2)))
	w := int32(math.Max(1, math.Round(float64(width))))
	t := int32(math.Round(float64(top)))
	m := int32(math.Round(float64(mid)))
	b := int32(math.Round(float64(bottom)))

	return [2]gradientSpan{
		{x: left, y: t, w: w, h: m - t, top: none, bottom: solid},
		{x: left, y: m, w: w, h: b - m, top: solid, bottom: none},
	}
}

// flipped returns the source rectangle that draws a render texture upright.
func flipped(w, h int) rl.Rectangle {
	return rl.NewRectangle(0, 0, float32(w), -float32(h))
}
