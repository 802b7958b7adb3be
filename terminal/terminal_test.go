package terminal

import (
	"image/color"
	"testing"

	"github.com/gdamore/tcell/v2"

	"github.com/pthm-cable/stardust/host"
	"github.com/pthm-cable/stardust/surface"
)

func TestCellSurfaceGrid(t *testing.T) {
	tests := []struct {
		w, h       int
		cols, rows int
	}{
		{80, 32, 10, 2},
		{81, 33, 11, 3},
		{0, 0, 0, 0},
		{7, 15, 1, 1},
	}
	for _, tc := range tests {
		s := NewCellSurface(tc.w, tc.h)
		cols, rows := s.Grid()
		if cols != tc.cols || rows != tc.rows {
			t.Errorf("%dx%d: expected grid %dx%d, got %dx%d", tc.w, tc.h, tc.cols, tc.rows, cols, rows)
		}
		if w, h := s.Size(); w != tc.w || h != tc.h {
			t.Errorf("expected size %dx%d, got %dx%d", tc.w, tc.h, w, h)
		}
	}
}

func TestCellSurfacePointGlyphs(t *testing.T) {
	s := NewCellSurface(80, 32)
	white := color.NRGBA{255, 255, 255, 255}

	s.Begin()
	s.FillCircle(4, 4, 0.5, white, 0)
	s.FillCircle(12, 4, 2, white, 0)
	s.FillStar(20, 20, 3, 1.5, 0, 5, white, 10)
	s.FillCircle(-5, 4, 2, white, 0) // off-surface is ignored
	s.End()

	if g, _, _ := s.Cell(0, 0); g != GlyphDot {
		t.Errorf("expected small circle to draw %q, got %q", GlyphDot, g)
	}
	if g, _, _ := s.Cell(1, 0); g != GlyphBall {
		t.Errorf("expected large circle to draw %q, got %q", GlyphBall, g)
	}
	g, fg, bg := s.Cell(2, 1)
	if g != GlyphStar {
		t.Errorf("expected star glyph, got %q", g)
	}
	if fg.A != 255 {
		t.Errorf("expected opaque star, got alpha %d", fg.A)
	}
	if bg.A == 0 {
		t.Error("expected glow to tint the star cell background")
	}
}

func TestCellSurfaceFillFadesGlyphs(t *testing.T) {
	s := NewCellSurface(8, 16)
	s.Begin()
	s.FillCircle(4, 8, 2, color.NRGBA{255, 255, 255, 255}, 0)
	s.End()

	fade := surface.WithAlpha(color.NRGBA{}, 0.5)
	for i := 0; i < 9; i++ {
		s.Begin()
		s.Fill(fade)
		s.End()
	}
	if g, _, _ := s.Cell(0, 0); g != 0 {
		t.Errorf("expected glyph to fade out, got %q", g)
	}
	if _, _, bg := s.Cell(0, 0); bg.R != 0 || bg.A < 250 {
		t.Errorf("expected near-opaque black background, got %+v", bg)
	}
}

func TestCellSurfaceVerticalGradient(t *testing.T) {
	s := NewCellSurface(16, 160) // 2 cols, 10 rows
	s.Begin()
	s.VerticalGradient(4, 160, 0, 4, color.NRGBA{0, 255, 0, 255})
	s.End()

	_, _, top := s.Cell(0, 0)
	_, _, mid := s.Cell(0, 5)
	if mid.A <= top.A {
		t.Errorf("expected midpoint (%d) brighter than end (%d)", mid.A, top.A)
	}
	if _, _, other := s.Cell(1, 5); other.A != 0 {
		t.Errorf("expected neighbouring column untouched, got alpha %d", other.A)
	}
}

func TestCellSurfaceBlend(t *testing.T) {
	red := surface.WithAlpha(color.NRGBA{R: 255}, 0.5)

	alpha := NewCellSurface(8, 16)
	alpha.Begin()
	alpha.Fill(red)
	alpha.Fill(red)
	alpha.End()

	add := NewCellSurface(8, 16)
	add.Begin()
	add.SetBlend(surface.BlendAdditive)
	add.Fill(red)
	add.Fill(red)
	add.End()

	_, _, a := alpha.Cell(0, 0)
	_, _, b := add.Cell(0, 0)
	if a.A >= 255 {
		t.Errorf("expected source-over to stay translucent, got alpha %d", a.A)
	}
	if b.A != 255 {
		t.Errorf("expected additive fills to saturate, got alpha %d", b.A)
	}
}

func TestCellSurfaceCompositeBlur(t *testing.T) {
	src := NewCellSurface(40, 16) // 5 cols
	dst := NewCellSurface(40, 16)

	src.Begin()
	src.VerticalGradient(20, 16, 0, 4, color.NRGBA{255, 255, 255, 255})
	src.End()

	dst.Begin()
	dst.Composite(src, 8, surface.BlendAdditive)
	dst.End()

	_, _, center := dst.Cell(2, 0)
	_, _, side := dst.Cell(1, 0)
	_, _, far := dst.Cell(0, 0)
	if side.A == 0 {
		t.Error("expected blur to spread into the neighbouring cell")
	}
	if far.A != 0 {
		t.Errorf("expected blur radius of one cell, got alpha %d two cells away", far.A)
	}
	if center.A == 0 {
		t.Error("expected center cell to keep color")
	}

	other := NewCellSurface(80, 16)
	before := dst.cells[2].bg
	dst.Composite(other, 8, surface.BlendAdditive)
	if dst.cells[2].bg != before {
		t.Error("expected mismatched grids to be ignored")
	}
}

func TestTranslate(t *testing.T) {
	tests := []struct {
		name string
		ev   tcell.Event
		want host.Event
		ok   bool
	}{
		{"mouse", tcell.NewEventMouse(3, 2, tcell.ButtonNone, tcell.ModNone), host.PointerEvent(28, 40), true},
		{"resize", tcell.NewEventResize(100, 30), host.ResizeEvent(800, 480), true},
		{"escape", tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone), host.Event{Kind: host.EventQuit}, true},
		{"ctrl-c", tcell.NewEventKey(tcell.KeyCtrlC, 0, tcell.ModCtrl), host.Event{Kind: host.EventQuit}, true},
		{"q", tcell.NewEventKey(tcell.KeyRune, 'q', tcell.ModNone), host.Event{Kind: host.EventQuit}, true},
		{"digit", tcell.NewEventKey(tcell.KeyRune, '2', tcell.ModNone), host.KeyEvent('2'), true},
		{"enter", tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone), host.Event{}, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := translate(tc.ev)
			if ok != tc.ok || got != tc.want {
				t.Errorf("expected %+v (%v), got %+v (%v)", tc.want, tc.ok, got, ok)
			}
		})
	}
}

func newSimScreen(t *testing.T, cols, rows int) *Screen {
	t.Helper()
	sim := tcell.NewSimulationScreen("UTF-8")
	if err := sim.Init(); err != nil {
		t.Fatalf("init simulation screen: %v", err)
	}
	sim.SetSize(cols, rows)
	s := New(sim)
	t.Cleanup(s.Close)
	return s
}

func TestScreenPresent(t *testing.T) {
	s := newSimScreen(t, 4, 2)
	if w, h := s.Size(); w != 32 || h != 32 {
		t.Fatalf("expected 32x32 virtual pixels, got %dx%d", w, h)
	}

	back := s.NewSurface(32, 32).(*CellSurface)
	back.Begin()
	back.Fill(color.NRGBA{0, 0, 255, 255})
	back.End()

	front := s.NewSurface(32, 32).(*CellSurface)
	front.Begin()
	front.FillStar(12, 4, 2, 1, 0, 5, color.NRGBA{255, 255, 255, 255}, 0)
	front.End()

	s.Present([]host.Layer{
		{Name: "back", Z: 0, Surface: back},
		{Name: "front", Z: 1, Blend: surface.BlendAdditive, Surface: front},
	})

	mainc, _, style, _ := s.screen.GetContent(1, 0)
	if mainc != GlyphStar {
		t.Errorf("expected star glyph at (1,0), got %q", mainc)
	}
	fg, _, _ := style.Decompose()
	if r, g, b := fg.RGB(); r != 255 || g != 255 || b != 255 {
		t.Errorf("expected white star, got %d,%d,%d", r, g, b)
	}

	mainc, _, style, _ = s.screen.GetContent(0, 1)
	if mainc != ' ' {
		t.Errorf("expected blank cell, got %q", mainc)
	}
	_, bg, _ := style.Decompose()
	if r, g, b := bg.RGB(); r != 0 || g != 0 || b != 255 {
		t.Errorf("expected blue background, got %d,%d,%d", r, g, b)
	}
}

func TestScreenPresent_OpaqueLayerHidesGlyphsBelow(t *testing.T) {
	s := newSimScreen(t, 4, 2)

	stars := s.NewSurface(32, 32).(*CellSurface)
	stars.Begin()
	stars.FillCircle(4, 4, 2, color.NRGBA{255, 255, 255, 255}, 0)
	stars.FillCircle(12, 4, 2, color.NRGBA{255, 255, 255, 255}, 0)
	stars.End()

	cover := s.NewSurface(32, 32).(*CellSurface)
	cover.Begin()
	cover.Fill(color.NRGBA{41, 39, 39, 255})
	cover.End()

	glow := s.NewSurface(32, 32).(*CellSurface)
	glow.Begin()
	glow.FillCircle(12, 4, 0.5, color.NRGBA{0, 255, 0, 255}, 0)
	glow.End()

	s.Present([]host.Layer{
		{Name: "stars", Z: 0, Surface: stars},
		{Name: "cover", Z: 1, Surface: cover},
		{Name: "glow", Z: 2, Blend: surface.BlendAdditive, Surface: glow},
	})

	mainc, _, style, _ := s.screen.GetContent(0, 0)
	if mainc != ' ' {
		t.Errorf("expected covered glyph hidden, got %q", mainc)
	}
	_, bg, _ := style.Decompose()
	if r, g, b := bg.RGB(); r != 41 || g != 39 || b != 39 {
		t.Errorf("expected cover background, got %d,%d,%d", r, g, b)
	}

	if mainc, _, _, _ = s.screen.GetContent(1, 0); mainc != GlyphDot {
		t.Errorf("expected additive glyph above the cover, got %q", mainc)
	}
}

func TestScreenPollEvents(t *testing.T) {
	s := newSimScreen(t, 4, 2)
	s.events <- tcell.NewEventKey(tcell.KeyRune, '1', tcell.ModNone)
	s.events <- tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone)

	// The simulation screen may report its own resize alongside
	var keys []host.Event
	collect := func(ev host.Event) {
		if ev.Kind == host.EventKey {
			keys = append(keys, ev)
		}
	}
	s.PollEvents(collect)
	if len(keys) != 1 || keys[0] != host.KeyEvent('1') {
		t.Errorf("expected one key event, got %+v", keys)
	}

	keys = nil
	s.PollEvents(collect)
	if len(keys) != 0 {
		t.Errorf("expected drained queue, got %+v", keys)
	}
}
