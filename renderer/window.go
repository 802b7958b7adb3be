// Package renderer presents host layers in a raylib window.
package renderer

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/stardust/host"
	"github.com/pthm-cable/stardust/surface"
)

// Window is a host.Backend over the current raylib window.
// The window must already be open.
type Window struct {
	blur      *BlurShader
	surfaces  map[*TextureSurface]struct{}
	lastMouse rl.Vector2
	hasMouse  bool
	last      []host.Layer

	// Overlay, if set, is drawn on top of every presented frame.
	Overlay func()
}

// NewWindow creates a backend over the open raylib window.
func NewWindow() *Window {
	blur := NewBlurShader()
	blur.Init()
	return &Window{
		blur:     blur,
		surfaces: make(map[*TextureSurface]struct{}),
	}
}

func (w *Window) Size() (int, int) {
	return int(rl.GetScreenWidth()), int(rl.GetScreenHeight())
}

func (w *Window) NewSurface(width, height int) surface.Surface {
	s := NewTextureSurface(width, height, w.blur)
	w.surfaces[s] = struct{}{}
	return s
}

func (w *Window) ReleaseSurface(s surface.Surface) {
	ts, ok := s.(*TextureSurface)
	if !ok {
		return
	}
	ts.Unload()
	delete(w.surfaces, ts)
}

func (w *Window) PollEvents(emit func(host.Event)) {
	if rl.WindowShouldClose() {
		emit(host.Event{Kind: host.EventQuit})
	}
	if rl.IsWindowResized() {
		width, height := w.Size()
		emit(host.ResizeEvent(width, height))
	}

	m := rl.GetMousePosition()
	if !w.hasMouse || m != w.lastMouse {
		w.lastMouse = m
		w.hasMouse = true
		emit(host.PointerEvent(m.X, m.Y))
	}

	for k := rl.GetCharPressed(); k != 0; k = rl.GetCharPressed() {
		emit(host.KeyEvent(rune(k)))
	}
}

func (w *Window) Present(layers []host.Layer) {
	w.last = append(w.last[:0], layers...)

	rl.BeginDrawing()
	rl.ClearBackground(rl.Black)
	drawLayers(layers)
	if w.Overlay != nil {
		w.Overlay()
	}
	rl.EndDrawing()
}

func drawLayers(layers []host.Layer) {
	for _, layer := range layers {
		ts, ok := layer.Surface.(*TextureSurface)
		if !ok {
			continue
		}
		if layer.Blend == surface.BlendAdditive {
			rl.BeginBlendMode(rl.BlendAdditive)
		}
		rl.DrawTextureRec(ts.Texture(), flipped(ts.w, ts.h), rl.NewVector2(0, 0), rl.White)
		if layer.Blend == surface.BlendAdditive {
			rl.EndBlendMode()
		}
	}
}

// ExportFrame composites the most recently presented layers, without the
// overlay, and writes them to path as a PNG.
func (w *Window) ExportFrame(path string) error {
	width, height := w.Size()
	target := rl.LoadRenderTexture(int32(width), int32(height))
	defer rl.UnloadRenderTexture(target)

	rl.BeginTextureMode(target)
	rl.ClearBackground(rl.Black)
	drawLayers(w.last)
	rl.EndTextureMode()

	img := rl.LoadImageFromTexture(target.Texture)
	defer rl.UnloadImage(img)
	rl.ImageFlipVertical(img)

	if !rl.ExportImage(*img, path) {
		return fmt.Errorf("exporting frame to %s", path)
	}
	return nil
}

// Unload frees every surface and the blur shader.
func (w *Window) Unload() {
	for s := range w.surfaces {
		s.Unload()
	}
	clear(w.surfaces)
	w.blur.Unload()
}

var _ host.Backend = (*Window)(nil)
