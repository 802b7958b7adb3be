// Snapshot tool - runs the scene offscreen for a fixed number of frames and
// writes the final composited frame to a PNG.
//
// Usage: go run ./cmd/snapshot -frames 300 -seed 42 -out frame.png
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/stardust/config"
	"github.com/pthm-cable/stardust/renderer"
	"github.com/pthm-cable/stardust/scene"
	"github.com/pthm-cable/stardust/systems"
)

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	outPath := flag.String("out", "snapshot.png", "Output PNG path")
	frames := flag.Int("frames", 300, "Frames to run before exporting")
	seed := flag.Int64("seed", 1, "RNG seed")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize raylib with hidden window
	rl.SetConfigFlags(rl.FlagWindowHidden)
	rl.InitWindow(int32(cfg.Screen.Width), int32(cfg.Screen.Height), "Snapshot")
	defer rl.CloseWindow()

	// Build noise up front so the aurora starts on the first frame
	noise, err := systems.NewNoise(cfg.Aurora.NoiseKind, *seed)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to build noise: %v\n", err)
		os.Exit(1)
	}

	window := renderer.NewWindow()
	defer window.Unload()

	s, err := scene.New(cfg, window, scene.Options{
		Seed:  *seed,
		Noise: systems.StaticNoise{Noise: noise},
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to build scene: %v\n", err)
		os.Exit(1)
	}
	defer s.Unload()

	dt := time.Second / 60
	for i := 0; i < *frames; i++ {
		s.Step(time.Duration(i) * dt)
	}

	if err := window.ExportFrame(*outPath); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to export frame: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Frame %d rendered to: %s (%dx%d)\n", s.Frame(), *outPath, cfg.Screen.Width, cfg.Screen.Height)
}
