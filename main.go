package main

import (
	"flag"
	"io"
	"log/slog"
	"math"
	"os"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/stardust/config"
	"github.com/pthm-cable/stardust/host"
	"github.com/pthm-cable/stardust/renderer"
	"github.com/pthm-cable/stardust/scene"
	"github.com/pthm-cable/stardust/terminal"
	"github.com/pthm-cable/stardust/ui"
)

type runOptions struct {
	maxFrames int64
}

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	headless := flag.Bool("headless", false, "Run without a window, driving a synthetic pointer")
	term := flag.Bool("terminal", false, "Render into the terminal")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	maxFrames := flag.Int64("max-frames", 0, "Stop after N frames (0 = unlimited)")
	logStats := flag.Bool("log-stats", false, "Output telemetry summaries via slog")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	logFile := flag.String("log-file", "", "Write logs to this file instead of stdout")

	flag.Parse()

	logOut, closeLog, err := openLog(*logFile, *term)
	if err != nil {
		slog.Error("failed to open log file", "error", err)
		os.Exit(1)
	}
	defer closeLog()
	slog.SetDefault(slog.New(slog.NewJSONHandler(logOut, nil)))

	// Initialize config before anything else
	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}
	opts := scene.Options{
		Seed:      rngSeed,
		LogStats:  *logStats,
		OutputDir: *outputDir,
	}
	run := runOptions{maxFrames: *maxFrames}

	switch {
	case *headless:
		err = runHeadless(cfg, opts, run)
	case *term:
		err = runTerminal(cfg, opts, run)
	default:
		err = runWindow(cfg, opts, run)
	}
	if err != nil {
		slog.Error("run failed", "error", err)
		os.Exit(1)
	}
}

// openLog picks the log destination. The terminal backend owns stdout, so
// logs are discarded there unless a file is given.
func openLog(path string, term bool) (io.Writer, func(), error) {
	if path == "" {
		if term {
			return io.Discard, func() {}, nil
		}
		return os.Stdout, func() {}, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, nil, err
	}
	return f, func() { f.Close() }, nil
}

func (o runOptions) done(s *scene.Scene) bool {
	if o.maxFrames > 0 && s.Frame() >= o.maxFrames {
		slog.Info("max frames reached", "frame", s.Frame())
		return true
	}
	return false
}

func frameInterval(cfg *config.Config) time.Duration {
	if cfg.Screen.TargetFPS <= 0 {
		return time.Second / 60
	}
	return time.Second / time.Duration(cfg.Screen.TargetFPS)
}

// runHeadless steps the scene on a synthetic clock as fast as possible,
// moving the pointer along a Lissajous path so the trail has input.
func runHeadless(cfg *config.Config, opts scene.Options, run runOptions) error {
	b := host.NewHeadless(cfg.Screen.Width, cfg.Screen.Height)
	s, err := scene.New(cfg, b, opts)
	if err != nil {
		return err
	}
	defer s.Unload()

	slog.Info("starting headless run",
		"seed", opts.Seed,
		"width", cfg.Screen.Width,
		"height", cfg.Screen.Height,
		"max_frames", run.maxFrames,
	)

	dt := frameInterval(cfg)
	w, h := float64(cfg.Screen.Width), float64(cfg.Screen.Height)
	var now time.Duration
	for {
		t := now.Seconds()
		b.Push(host.PointerEvent(
			float32(w/2+w/3*math.Sin(1.3*t)),
			float32(h/2+h/3*math.Sin(2.1*t)),
		))
		if !s.Step(now) || run.done(s) {
			return nil
		}
		now += dt
	}
}

func runTerminal(cfg *config.Config, opts scene.Options, run runOptions) error {
	screen, err := terminal.Open()
	if err != nil {
		return err
	}
	defer screen.Close()

	s, err := scene.New(cfg, screen, opts)
	if err != nil {
		return err
	}
	defer s.Unload()

	ticker := time.NewTicker(frameInterval(cfg))
	defer ticker.Stop()

	start := time.Now()
	for now := range ticker.C {
		if !s.Step(now.Sub(start)) || run.done(s) {
			return nil
		}
	}
	return nil
}

func runWindow(cfg *config.Config, opts scene.Options, run runOptions) error {
	if cfg.Screen.Resizable {
		rl.SetConfigFlags(rl.FlagWindowResizable)
	}
	rl.InitWindow(int32(cfg.Screen.Width), int32(cfg.Screen.Height), cfg.Screen.Title)
	defer rl.CloseWindow()
	rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))

	window := renderer.NewWindow()
	defer window.Unload()

	s, err := scene.New(cfg, window, opts)
	if err != nil {
		return err
	}
	defer s.Unload()

	panel := ui.NewPanel(10, 10, 240)
	window.Overlay = func() {
		panel.Draw(s, rl.GetFPS())
	}
	s.Loop().OnKey(func(key rune) {
		panel.HandleKey(key)
	})

	start := time.Now()
	for {
		if !s.Step(time.Since(start)) || run.done(s) {
			return nil
		}
	}
}
