// Noise preview tool - interactive view of the vertical displacement the
// aurora noise applies to rays, with sliders for its parameters.
//
// Usage: go run ./cmd/noisepreview
package main

import (
	"fmt"
	"image/color"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/stardust/config"
	"github.com/pthm-cable/stardust/surface"
	"github.com/pthm-cable/stardust/systems"
)

const (
	windowWidth  = 1100
	windowHeight = 720
	previewW     = 640
	previewH     = 360
	gridW        = 320
	gridH        = 180
	panelWidth   = windowWidth - previewW - 40
)

// PreviewParams holds the noise parameters under edit.
type PreviewParams struct {
	ScaleX, ScaleY, ScaleZ float32 // ×1000
	Strength               float32
	TimeSpeed              float32 // ticks per second
	Kind                   string
	Seed                   int64
}

func defaultParams(cfg *config.Config) PreviewParams {
	ac := cfg.Aurora
	return PreviewParams{
		ScaleX:    float32(ac.NoiseScale.X * 1000),
		ScaleY:    float32(ac.NoiseScale.Y * 1000),
		ScaleZ:    float32(ac.NoiseScale.Z * 1000),
		Strength:  float32(ac.NoiseStrength),
		TimeSpeed: float32(cfg.Screen.TargetFPS),
		Kind:      ac.NoiseKind,
		Seed:      1,
	}
}

func (p PreviewParams) scale() config.NoiseScale {
	return config.NoiseScale{
		X: float64(p.ScaleX) / 1000,
		Y: float64(p.ScaleY) / 1000,
		Z: float64(p.ScaleZ) / 1000,
	}
}

func main() {
	cfg := config.Defaults()

	rl.InitWindow(windowWidth, windowHeight, "Aurora Noise Preview")
	defer rl.CloseWindow()
	rl.SetTargetFPS(30)

	params := defaultParams(cfg)
	noise := mustNoise(params)

	field := make([]float32, gridW*gridH)
	pixels := make([]color.RGBA, gridW*gridH)
	img := rl.GenImageColor(gridW, gridH, rl.Black)
	texture := rl.LoadTextureFromImage(img)
	rl.UnloadImage(img)
	defer rl.UnloadTexture(texture)

	var tick float32
	animating := true

	for !rl.WindowShouldClose() {
		if animating {
			tick += rl.GetFrameTime() * params.TimeSpeed
		}

		scale := params.scale()
		displacementField(field, gridW, gridH, previewW, previewH, noise, scale, float64(tick))
		colorize(pixels, field)
		rl.UpdateTexture(texture, pixels)

		rl.BeginDrawing()
		rl.ClearBackground(rl.Color{R: 41, G: 39, B: 39, A: 255})

		rl.DrawTexturePro(
			texture,
			rl.Rectangle{X: 0, Y: 0, Width: gridW, Height: gridH},
			rl.Rectangle{X: 10, Y: 10, Width: previewW, Height: previewH},
			rl.Vector2{X: 0, Y: 0},
			0,
			rl.White,
		)
		rl.DrawRectangleLines(10, 10, previewW, previewH, rl.DarkGray)

		// Ray anchor profile: offset of y1 across the surface at this tick
		drawProfile(noise, scale, params.Strength, float64(tick))

		panelX := float32(previewW + 30)
		panelY := float32(10)
		rl.DrawText("Aurora Noise", int32(panelX), int32(panelY), 20, rl.LightGray)
		panelY += 35

		params.ScaleX = slider(&panelY, panelX, "Scale X (x1000)", params.ScaleX, 0.1, 10)
		params.ScaleY = slider(&panelY, panelX, "Scale Y (x1000)", params.ScaleY, 0.1, 10)
		params.ScaleZ = slider(&panelY, panelX, "Scale Z (x1000)", params.ScaleZ, 0.1, 10)
		params.Strength = slider(&panelY, panelX, "Strength (px)", params.Strength, 0, 300)
		params.TimeSpeed = slider(&panelY, panelX, "Ticks per second", params.TimeSpeed, 0, 240)
		panelY += 10

		if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 120, Height: 30}, toggleText(animating, "Pause", "Animate")) {
			animating = !animating
		}
		if gui.Button(rl.Rectangle{X: panelX + 130, Y: panelY, Width: 120, Height: 30}, "Reset Time") {
			tick = 0
		}
		panelY += 40

		if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 120, Height: 30}, "Generator: "+params.Kind) {
			params.Kind = toggleText(params.Kind == "perlin", "simplex", "perlin")
			noise = mustNoise(params)
		}
		if gui.Button(rl.Rectangle{X: panelX + 130, Y: panelY, Width: 120, Height: 30}, "Next Seed") {
			params.Seed++
			noise = mustNoise(params)
		}
		panelY += 40

		if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 250, Height: 30}, "Reset All") {
			params = defaultParams(cfg)
			noise = mustNoise(params)
			tick = 0
		}
		panelY += 50

		rl.DrawText(fmt.Sprintf("Tick: %.0f", tick), int32(panelX), int32(panelY), 16, rl.Gray)
		panelY += 30

		rl.DrawText("YAML Config:", int32(panelX), int32(panelY), 16, rl.LightGray)
		panelY += 25
		for _, line := range yamlLines(params) {
			rl.DrawText(line, int32(panelX), int32(panelY), 14, rl.Gray)
			panelY += 16
		}

		rl.DrawText("Press C to copy YAML to clipboard", int32(panelX), windowHeight-30, 12, rl.Gray)
		if rl.IsKeyPressed(rl.KeyC) {
			var yaml string
			for _, line := range yamlLines(params) {
				yaml += line + "\n"
			}
			rl.SetClipboardText(yaml)
		}

		rl.EndDrawing()
	}
}

func mustNoise(p PreviewParams) systems.Noise3D {
	n, err := systems.NewNoise(p.Kind, p.Seed)
	if err != nil {
		panic(err)
	}
	return n
}

func slider(y *float32, x float32, label string, value, lo, hi float32) float32 {
	rl.DrawText(label, int32(x), int32(*y), 14, rl.Gray)
	*y += 18
	v := gui.SliderBar(
		rl.Rectangle{X: x, Y: *y, Width: float32(panelWidth - 80), Height: 20},
		"", "",
		value, lo, hi,
	)
	rl.DrawText(fmt.Sprintf("%.2f", v), int32(x+float32(panelWidth-70)), int32(*y+2), 16, rl.LightGray)
	*y += 35
	return v
}

func toggleText(cond bool, ifTrue, ifFalse string) string {
	if cond {
		return ifTrue
	}
	return ifFalse
}

func yamlLines(p PreviewParams) []string {
	s := p.scale()
	return []string{
		"aurora:",
		fmt.Sprintf("  noise: %s", p.Kind),
		fmt.Sprintf("  noise_strength: %.0f", p.Strength),
		fmt.Sprintf("  noise_scale: { x: %.4f, y: %.4f, z: %.4f }", s.X, s.Y, s.Z),
	}
}

// displacementField samples noise over a gridW×gridH lattice covering a
// w×h pixel surface at the given tick. Values are in [-1, 1].
func displacementField(dst []float32, gw, gh, w, h int, noise systems.Noise3D, s config.NoiseScale, tick float64) {
	sx := float64(w) / float64(gw)
	sy := float64(h) / float64(gh)
	for j := 0; j < gh; j++ {
		y := (float64(j) + 0.5) * sy
		for i := 0; i < gw; i++ {
			x := (float64(i) + 0.5) * sx
			dst[j*gw+i] = float32(noise.Noise3D(x*s.X, y*s.Y, tick*s.Z))
		}
	}
}

// colorize maps displacement to the aurora hue band: green for rays pushed
// down, violet for rays pushed up.
func colorize(dst []color.RGBA, field []float32) {
	for i, v := range field {
		v = max(-1, min(v, 1))
		c := surface.HSL(150+float64(v)*60, 0.8, 0.15+0.35*float64(v*v), 1)
		dst[i] = color.RGBA{R: c.R, G: c.G, B: c.B, A: 255}
	}
}

func drawProfile(noise systems.Noise3D, s config.NoiseScale, strength float32, tick float64) {
	mid := float32(10 + previewH/2)
	rl.DrawLine(10, int32(mid), 10+previewW, int32(mid), rl.Gray)

	// Ray anchors sit at y1 = h/2 + strength in surface space
	y1 := float64(previewH)/2 + float64(strength)
	limit := float32(previewH / 2)
	prev := rl.Vector2{X: 10, Y: mid}
	for x := 0; x <= previewW; x += 4 {
		d := float32(noise.Noise3D(float64(x)*s.X, y1*s.Y, tick*s.Z)) * strength
		d = max(-limit, min(d, limit))
		pt := rl.Vector2{X: float32(10 + x), Y: mid + d}
		if x > 0 {
			rl.DrawLineV(prev, pt, rl.White)
		}
		prev = pt
	}
}
