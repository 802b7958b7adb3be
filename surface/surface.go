// Package surface defines the drawable surface the effects render into.
//
// A Surface is the Go counterpart of a 2D canvas: it has pixel dimensions,
// keeps its contents between frames until cleared or painted over, and
// exposes the handful of primitives the effects need. Backends (raylib,
// terminal, in-memory recorder) implement it.
package surface

import "image/color"

// BlendMode selects how source pixels combine with the destination.
type BlendMode uint8

const (
	// BlendAlpha is regular source-over compositing.
	BlendAlpha BlendMode = iota
	// BlendAdditive adds source color to the destination ("lighter").
	BlendAdditive
)

func (m BlendMode) String() string {
	switch m {
	case BlendAlpha:
		return "alpha"
	case BlendAdditive:
		return "additive"
	}
	return "unknown"
}

// Surface is a persistent drawable pixel buffer.
type Surface interface {
	// Size returns the current dimensions in pixels.
	Size() (w, h int)
	// Resize sets new dimensions and clears the contents.
	Resize(w, h int)

	// Begin and End bracket a batch of draw calls.
	Begin()
	End()
	// SetBlend selects how the following primitives combine with existing
	// contents. Every batch starts with BlendAlpha.
	SetBlend(mode BlendMode)

	// Clear makes every pixel fully transparent.
	Clear()
	// Fill paints the whole surface with c using source-over blending.
	// A translucent c fades previous contents instead of replacing them.
	Fill(c color.NRGBA)
	// FillCircle draws a filled circle. glow > 0 adds a soft halo of that radius.
	FillCircle(x, y, r float32, c color.NRGBA, glow float32)
	// FillStar draws a filled star polygon with the given number of points,
	// alternating between outer and inner radius, rotated by rotation radians.
	FillStar(x, y, outer, inner, rotation float32, points int, c color.NRGBA, glow float32)
	// VerticalGradient strokes a vertical line of the given width from y1 to y2.
	// The stroke is transparent at both ends and reaches c at the midpoint.
	VerticalGradient(x, y1, y2, width float32, c color.NRGBA)
	// Composite draws src onto this surface, blurred by blur pixels,
	// combined with the given blend mode.
	Composite(src Surface, blur float32, mode BlendMode)
}
