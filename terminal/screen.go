// Package terminal renders the effects into a character terminal through
// tcell. Surfaces are cell grids addressed in virtual pixels.
package terminal

import (
	"fmt"

	"github.com/gdamore/tcell/v2"

	"github.com/pthm-cable/stardust/host"
	"github.com/pthm-cable/stardust/surface"
)

// Screen is a host.Backend drawing into a tcell screen.
type Screen struct {
	screen tcell.Screen
	events chan tcell.Event
	done   chan struct{}

	frame []cell
}

// Open initializes the terminal and starts reading input.
func Open() (*Screen, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("creating terminal screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("initializing terminal screen: %w", err)
	}
	return New(screen), nil
}

// New wraps an initialized tcell screen. Mouse motion reporting is enabled
// and a goroutine forwards input until Close.
func New(screen tcell.Screen) *Screen {
	screen.EnableMouse(tcell.MouseMotionEvents)
	screen.HideCursor()
	screen.Clear()

	s := &Screen{
		screen: screen,
		events: make(chan tcell.Event, 100),
		done:   make(chan struct{}),
	}
	go s.readEvents()
	return s
}

func (s *Screen) readEvents() {
	for {
		ev := s.screen.PollEvent()
		if ev == nil {
			return
		}
		select {
		case s.events <- ev:
		case <-s.done:
			return
		}
	}
}

// Close restores the terminal.
func (s *Screen) Close() {
	close(s.done)
	s.screen.Fini()
}

func (s *Screen) Size() (int, int) {
	cols, rows := s.screen.Size()
	return cols * CellWidth, rows * CellHeight
}

func (s *Screen) NewSurface(w, h int) surface.Surface {
	return NewCellSurface(w, h)
}

func (s *Screen) ReleaseSurface(surface.Surface) {}

// PollEvents drains pending input without blocking.
func (s *Screen) PollEvents(emit func(host.Event)) {
	for {
		select {
		case ev := <-s.events:
			if e, ok := translate(ev); ok {
				emit(e)
			}
		default:
			return
		}
	}
}

// translate maps tcell input onto host events. Pointer positions land on
// the center of the cell.
func translate(ev tcell.Event) (host.Event, bool) {
	switch ev := ev.(type) {
	case *tcell.EventMouse:
		col, row := ev.Position()
		return host.PointerEvent(
			float32(col*CellWidth+CellWidth/2),
			float32(row*CellHeight+CellHeight/2),
		), true
	case *tcell.EventResize:
		cols, rows := ev.Size()
		return host.ResizeEvent(cols*CellWidth, rows*CellHeight), true
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			return host.Event{Kind: host.EventQuit}, true
		case tcell.KeyRune:
			if ev.Rune() == 'q' {
				return host.Event{Kind: host.EventQuit}, true
			}
			return host.KeyEvent(ev.Rune()), true
		}
	}
	return host.Event{}, false
}

// Present flattens the layers onto a black frame and writes it to the
// terminal. The topmost visible glyph wins each cell.
func (s *Screen) Present(layers []host.Layer) {
	cols, rows := s.screen.Size()
	n := cols * rows
	if cap(s.frame) < n {
		s.frame = make([]cell, n)
	}
	frame := s.frame[:n]
	for i := range frame {
		frame[i] = cell{bg: rgba{A: 1}}
	}

	for _, l := range layers {
		cs, ok := l.Surface.(*CellSurface)
		if !ok {
			continue
		}
		flatten(frame, cols, rows, cs, l.Blend)
	}

	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			cl := frame[row*cols+col]
			br, bg, bb := cl.bg.rgb255()
			style := tcell.StyleDefault.Background(tcell.NewRGBColor(br, bg, bb))
			glyph := ' '
			if cl.glyph != 0 {
				fr, fg, fb := cl.bg.over(cl.fg).rgb255()
				style = style.Foreground(tcell.NewRGBColor(fr, fg, fb))
				glyph = cl.glyph
			}
			s.screen.SetContent(col, row, glyph, nil, style)
		}
	}
	s.screen.Show()
}

func flatten(frame []cell, cols, rows int, cs *CellSurface, mode surface.BlendMode) {
	lc, lr := cs.Grid()
	for row := 0; row < min(rows, lr); row++ {
		for col := 0; col < min(cols, lc); col++ {
			src := cs.cells[row*lc+col]
			dst := &frame[row*cols+col]
			dst.bg = dst.bg.blend(src.bg, mode)
			if dst.glyph != 0 && mode == surface.BlendAlpha {
				// Glyphs below fade under the layer's background like a fill.
				dst.fg = dst.fg.scale(1 - src.bg.A)
				if dst.fg.A < 1.0/255 {
					dst.glyph = 0
					dst.fg = rgba{}
				}
			}
			if src.glyph != 0 && src.fg.A >= 1.0/255 {
				dst.glyph = src.glyph
				dst.fg = src.fg
			}
		}
	}
}

var _ host.Backend = (*Screen)(nil)
