package ui

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/stardust/scene"
)

// Controls is what the panel reads and toggles.
type Controls interface {
	Status() []scene.Status
	Toggle(k scene.Kind)
}

// Panel renders a checkbox per effect with its state and population.
type Panel struct {
	renderer *Renderer
	x, y     int32
	width    int32
	visible  bool
}

// NewPanel creates a visible panel at (x, y).
func NewPanel(x, y, width int32) *Panel {
	return &Panel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
		visible:  true,
	}
}

// IsVisible returns whether the panel is shown.
func (p *Panel) IsVisible() bool {
	return p.visible
}

// Toggle switches panel visibility.
func (p *Panel) Toggle() bool {
	p.visible = !p.visible
	return p.visible
}

// HandleKey hides or shows the panel on H.
func (p *Panel) HandleKey(key rune) bool {
	if key != 'h' && key != 'H' {
		return false
	}
	p.Toggle()
	return true
}

// Height returns the panel height for rows effect lines.
func (p *Panel) Height(rows int) int32 {
	t := p.renderer.Theme
	// Title, one line per effect, FPS, hint
	return t.Padding*2 + t.LineHeight*int32(rows+3)
}

// RowLabel formats one effect line.
func RowLabel(st scene.Status) string {
	label := fmt.Sprintf("[%c] %s  %s", st.Kind.Key(), st.Kind, st.State)
	if st.Mounted() {
		label += fmt.Sprintf("  %d", st.Population)
	}
	return label
}

// Draw renders the panel. Clicking a checkbox toggles its effect.
func (p *Panel) Draw(c Controls, fps int32) {
	if !p.visible {
		return
	}
	r := p.renderer
	t := r.Theme
	status := c.Status()

	r.DrawPanel(p.x, p.y, p.width, p.Height(len(status)))
	x := p.x + t.Padding
	y := r.DrawSectionHeader(x, p.y+t.Padding, "Effects")

	for _, st := range status {
		checked := st.Mounted()
		rl.DrawRectangle(p.x+2, y+2, 4, t.CheckSize-4, r.stateColor(checked))
		bounds := rl.Rectangle{
			X:      float32(x),
			Y:      float32(y),
			Width:  float32(t.CheckSize),
			Height: float32(t.CheckSize),
		}
		if gui.CheckBox(bounds, RowLabel(st), checked) != checked {
			c.Toggle(st.Kind)
		}
		y += t.LineHeight
	}

	y = r.DrawLabelValue(x, y, "FPS", fmt.Sprintf("%d", fps))
	rl.DrawText("[H] hide panel", x, y, t.FontSize, t.InactiveColor)
}

func (r *Renderer) stateColor(active bool) rl.Color {
	if active {
		return r.Theme.ActiveColor
	}
	return r.Theme.InactiveColor
}
