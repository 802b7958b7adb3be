package renderer

import (
	"image/color"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/stardust/surface"
)

// glowAlpha is the peak opacity of a halo relative to its shape's color.
const glowAlpha = 0.35

// TextureSurface is a surface.Surface backed by a raylib render texture.
// Draw calls must happen between Begin and End, and only one
// TextureSurface may be open at a time.
type TextureSurface struct {
	target rl.RenderTexture2D
	w, h   int
	blur   *BlurShader

	blend  surface.BlendMode
	star   []rl.Vector2
	loaded bool
}

// NewTextureSurface allocates a cleared w×h render texture.
func NewTextureSurface(w, h int, blur *BlurShader) *TextureSurface {
	s := &TextureSurface{blur: blur}
	s.allocate(w, h)
	return s
}

func (s *TextureSurface) allocate(w, h int) {
	s.w, s.h = w, h
	// raylib rejects zero-sized targets
	s.target = rl.LoadRenderTexture(int32(max(w, 1)), int32(max(h, 1)))
	s.loaded = true

	rl.BeginTextureMode(s.target)
	rl.ClearBackground(rl.Blank)
	rl.EndTextureMode()
}

// Texture returns the backing texture for presentation.
func (s *TextureSurface) Texture() rl.Texture2D {
	return s.target.Texture
}

func (s *TextureSurface) Size() (int, int) {
	return s.w, s.h
}

// Resize reallocates the texture, discarding its contents.
func (s *TextureSurface) Resize(w, h int) {
	s.Unload()
	s.allocate(w, h)
}

func (s *TextureSurface) Begin() {
	rl.BeginTextureMode(s.target)
	s.blend = surface.BlendAlpha
}

func (s *TextureSurface) End() {
	s.SetBlend(surface.BlendAlpha)
	rl.EndTextureMode()
}

func (s *TextureSurface) SetBlend(mode surface.BlendMode) {
	if mode == s.blend {
		return
	}
	if s.blend == surface.BlendAdditive {
		rl.EndBlendMode()
	}
	if mode == surface.BlendAdditive {
		rl.BeginBlendMode(rl.BlendAdditive)
	}
	s.blend = mode
}

func (s *TextureSurface) Clear() {
	rl.ClearBackground(rl.Blank)
}

func (s *TextureSurface) Fill(c color.NRGBA) {
	rl.DrawRectangle(0, 0, int32(s.w), int32(s.h), toColor(c))
}

func (s *TextureSurface) glow(x, y, radius float32, c color.NRGBA, glow float32) {
	if glow <= 0 {
		return
	}
	halo := surface.WithAlpha(c, surface.Alpha(c)*glowAlpha)
	faded := c
	faded.A = 0
	rl.DrawCircleGradient(int32(x), int32(y), radius+glow, toColor(halo), toColor(faded))
}

func (s *TextureSurface) FillCircle(x, y, r float32, c color.NRGBA, glow float32) {
	s.glow(x, y, r, c, glow)
	rl.DrawCircleV(rl.NewVector2(x, y), r, toColor(c))
}

func (s *TextureSurface) FillStar(x, y, outer, inner, rotation float32, points int, c color.NRGBA, glow float32) {
	if points < 2 {
		return
	}
	s.glow(x, y, outer, c, glow)

	s.star = starVertices(s.star, x, y, outer, inner, rotation, points)
	center := rl.NewVector2(x, y)
	col := toColor(c)
	n := len(s.star)
	for i := 0; i < n; i++ {
		// Angles grow clockwise on screen; raylib wants counter-clockwise
		rl.DrawTriangle(center, s.star[(i+1)%n], s.star[i], col)
	}
}

func (s *TextureSurface) VerticalGradient(x, y1, y2, width float32, c color.NRGBA) {
	for _, span := range gradientSpans(x, y1, y2, width, c) {
		if span.h <= 0 {
			continue
		}
		rl.DrawRectangleGradientV(span.x, span.y, span.w, span.h, span.top, span.bottom)
	}
}

// Composite draws src, which must also be a TextureSurface, over this one.
func (s *TextureSurface) Composite(src surface.Surface, blur float32, mode surface.BlendMode) {
	other, ok := src.(*TextureSurface)
	if !ok || other == s {
		return
	}

	prev := s.blend
	s.SetBlend(mode)
	shaded := blur > 0 && s.blur != nil
	if shaded {
		s.blur.Begin(blur, other.w, other.h)
	}
	rl.DrawTextureRec(other.target.Texture, flipped(other.w, other.h), rl.NewVector2(0, 0), rl.White)
	if shaded {
		s.blur.End()
	}
	s.SetBlend(prev)
}

// Unload frees the render texture.
func (s *TextureSurface) Unload() {
	if s.loaded {
		rl.UnloadRenderTexture(s.target)
		s.loaded = false
	}
}

var _ surface.Surface = (*TextureSurface)(nil)
