package terminal

import (
	"image/color"
	"math"

	"github.com/pthm-cable/stardust/surface"
)

// CellSurface is a surface.Surface stored as a grid of terminal cells.
// Sizes are in virtual pixels; each cell covers CellWidth×CellHeight of them.
type CellSurface struct {
	w, h       int
	cols, rows int
	cells      []cell
	scratch    []rgba
	blend      surface.BlendMode
}

// NewCellSurface creates a transparent surface of w×h virtual pixels.
func NewCellSurface(w, h int) *CellSurface {
	s := &CellSurface{}
	s.Resize(w, h)
	return s
}

func (s *CellSurface) Size() (int, int) {
	return s.w, s.h
}

// Grid returns the surface dimensions in cells.
func (s *CellSurface) Grid() (cols, rows int) {
	return s.cols, s.rows
}

func (s *CellSurface) Resize(w, h int) {
	s.w, s.h = max(w, 0), max(h, 0)
	s.cols = (s.w + CellWidth - 1) / CellWidth
	s.rows = (s.h + CellHeight - 1) / CellHeight
	s.cells = make([]cell, s.cols*s.rows)
}

func (s *CellSurface) Begin() {
	s.blend = surface.BlendAlpha
}

func (s *CellSurface) End() {}

func (s *CellSurface) SetBlend(mode surface.BlendMode) {
	s.blend = mode
}

func (s *CellSurface) Clear() {
	clear(s.cells)
}

// Fill paints every cell background and fades glyphs by the fill opacity.
func (s *CellSurface) Fill(c color.NRGBA) {
	src := premultiply(c)
	keep := 1 - src.A
	for i := range s.cells {
		cl := &s.cells[i]
		cl.bg = cl.bg.blend(src, s.blend)
		if cl.glyph == 0 {
			continue
		}
		cl.fg = cl.fg.scale(keep)
		if cl.fg.A < 1.0/255 {
			cl.glyph = 0
			cl.fg = rgba{}
		}
	}
}

// at returns the cell under virtual pixel (x, y), or nil outside the grid.
func (s *CellSurface) at(x, y float32) *cell {
	if x < 0 || y < 0 {
		return nil
	}
	col, row := int(x)/CellWidth, int(y)/CellHeight
	if col >= s.cols || row >= s.rows {
		return nil
	}
	return &s.cells[row*s.cols+col]
}

// Cell returns the glyph and straight foreground and background colors of
// the cell at (col, row).
func (s *CellSurface) Cell(col, row int) (rune, color.NRGBA, color.NRGBA) {
	cl := s.cells[row*s.cols+col]
	return cl.glyph, toNRGBA(cl.fg), toNRGBA(cl.bg)
}

func (s *CellSurface) point(x, y float32, glyph rune, c color.NRGBA, glow float32) {
	cl := s.at(x, y)
	if cl == nil {
		return
	}
	src := premultiply(c)
	cl.glyph = glyph
	cl.fg = cl.fg.blend(src, s.blend)
	if glow > 0 {
		cl.bg = cl.bg.blend(src.scale(0.35), s.blend)
	}
}

func (s *CellSurface) FillCircle(x, y, r float32, c color.NRGBA, glow float32) {
	s.point(x, y, glyphFor(r), c, glow)
}

func (s *CellSurface) FillStar(x, y, outer, inner, rotation float32, points int, c color.NRGBA, glow float32) {
	s.point(x, y, GlyphStar, c, glow)
}

// VerticalGradient tints the backgrounds of the cells the stroke covers,
// peaking at the stroke midpoint.
func (s *CellSurface) VerticalGradient(x, y1, y2, width float32, c color.NRGBA) {
	top, bottom := min(y1, y2), max(y1, y2)
	span := bottom - top
	if span <= 0 {
		return
	}
	c0, c1 := cellSpan(x-width/2, x+width/2, CellWidth, s.cols)
	r0, r1 := cellSpan(top, bottom, CellHeight, s.rows)
	src := premultiply(c)

	for row := r0; row < r1; row++ {
		mid := (float32(row) + 0.5) * CellHeight
		t := clamp01((mid - top) / span)
		f := 1 - float32(math.Abs(float64(2*t-1)))
		if f <= 0 {
			continue
		}
		tint := src.scale(f)
		for col := c0; col < c1; col++ {
			cl := &s.cells[row*s.cols+col]
			cl.bg = cl.bg.blend(tint, s.blend)
		}
	}
}

// Composite box-blurs the backgrounds of src, which must be a CellSurface of
// the same grid, and blends them onto s. Glyphs are copied unblurred.
func (s *CellSurface) Composite(src surface.Surface, blur float32, mode surface.BlendMode) {
	cs, ok := src.(*CellSurface)
	if !ok || cs.cols != s.cols || cs.rows != s.rows {
		return
	}
	rx := int(math.Round(float64(blur) / CellWidth))
	ry := int(math.Round(float64(blur) / CellHeight))
	blurred := cs.boxBlur(rx, ry, &s.scratch)

	for i := range s.cells {
		dst := &s.cells[i]
		dst.bg = dst.bg.blend(blurred[i], mode)
		if g := cs.cells[i].glyph; g != 0 {
			dst.glyph = g
			dst.fg = dst.fg.blend(cs.cells[i].fg, mode)
		}
	}
}

// boxBlur averages backgrounds over a (2rx+1)×(2ry+1) window, clipped at
// the edges, into buf.
func (s *CellSurface) boxBlur(rx, ry int, buf *[]rgba) []rgba {
	n := len(s.cells)
	if cap(*buf) < n {
		*buf = make([]rgba, n)
	}
	out := (*buf)[:n]
	for row := 0; row < s.rows; row++ {
		for col := 0; col < s.cols; col++ {
			var sum rgba
			var k float32
			for dy := -ry; dy <= ry; dy++ {
				y := row + dy
				if y < 0 || y >= s.rows {
					continue
				}
				for dx := -rx; dx <= rx; dx++ {
					x := col + dx
					if x < 0 || x >= s.cols {
						continue
					}
					c := s.cells[y*s.cols+x].bg
					sum = rgba{sum.R + c.R, sum.G + c.G, sum.B + c.B, sum.A + c.A}
					k++
				}
			}
			out[row*s.cols+col] = sum.scale(1 / k)
		}
	}
	return out
}

func toNRGBA(c rgba) color.NRGBA {
	if c.A <= 0 {
		return color.NRGBA{}
	}
	return color.NRGBA{
		R: uint8(to255(c.R / c.A)),
		G: uint8(to255(c.G / c.A)),
		B: uint8(to255(c.B / c.A)),
		A: uint8(to255(c.A)),
	}
}

var _ surface.Surface = (*CellSurface)(nil)
