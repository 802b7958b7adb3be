// Package scene composes the three effects over one host loop and keeps
// the run's telemetry.
package scene

import (
	"log/slog"
	"math/rand"
	"path/filepath"
	"time"

	"github.com/pthm-cable/stardust/config"
	"github.com/pthm-cable/stardust/effects"
	"github.com/pthm-cable/stardust/host"
	"github.com/pthm-cable/stardust/surface"
	"github.com/pthm-cable/stardust/systems"
	"github.com/pthm-cable/stardust/telemetry"
)

// Kind identifies one of the effects.
type Kind uint8

const (
	KindTrail Kind = iota
	KindStarfield
	KindAurora

	numKinds
)

// Kinds lists every effect in toggle-key order.
var Kinds = []Kind{KindTrail, KindStarfield, KindAurora}

func (k Kind) String() string {
	switch k {
	case KindTrail:
		return "trail"
	case KindStarfield:
		return "starfield"
	case KindAurora:
		return "aurora"
	}
	return "unknown"
}

// Key returns the key that toggles the effect.
func (k Kind) Key() rune {
	return '1' + rune(k)
}

// KindForKey maps a toggle key back to its effect.
func KindForKey(key rune) (Kind, bool) {
	k := Kind(key - '1')
	if key < '1' || k >= numKinds {
		return 0, false
	}
	return k, true
}

// Options configures a Scene.
type Options struct {
	Seed      int64
	LogStats  bool
	OutputDir string
	// Noise overrides the aurora noise source. Nil loads it in the background.
	Noise systems.NoiseSource
}

// Status is a snapshot of one effect for display.
type Status struct {
	Kind       Kind
	State      effects.State
	Population int
}

// Mounted reports whether the effect currently holds a mount.
func (s Status) Mounted() bool {
	return s.State != effects.StateUnmounted && s.State != effects.StateTornDown
}

// Scene owns the loop, the effects and telemetry.
type Scene struct {
	cfg     *config.Config
	loop    *host.Loop
	effects [numKinds]effects.Effect
	layers  map[Kind]string

	perf      *telemetry.PerfCollector
	frames    *telemetry.FrameWindow
	bookmarks *telemetry.BookmarkDetector
	output    *telemetry.OutputManager
	logStats  bool
	seed      int64

	frame       int64
	lastStep    time.Duration
	windowStart time.Duration
	stepped     bool
}

// New builds a scene over backend and mounts every effect enabled in cfg.
func New(cfg *config.Config, backend host.Backend, opts Options) (*Scene, error) {
	output, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		return nil, err
	}
	if err := output.WriteConfig(cfg); err != nil {
		output.Close()
		return nil, err
	}

	s := &Scene{
		cfg:       cfg,
		loop:      host.NewLoop(backend),
		layers:    make(map[Kind]string),
		perf:      telemetry.NewPerfCollector(cfg.Telemetry.PerfWindow),
		frames:    telemetry.NewFrameWindow(cfg.Telemetry.PerfWindow),
		bookmarks: telemetry.NewBookmarkDetector(10),
		output:    output,
		logStats:  opts.LogStats,
		seed:      opts.Seed,
	}
	s.loop.SetTracer(s.perf)

	// The trail and starfield draw into layers the page provides; the
	// aurora attaches its own.
	s.loop.AttachSurface(cfg.Starfield.Layer, cfg.Starfield.Z, surface.BlendAlpha)
	s.loop.AttachSurface(cfg.Trail.Layer, cfg.Trail.Z, surface.BlendAdditive)
	s.layers[KindStarfield] = cfg.Starfield.Layer
	s.layers[KindTrail] = cfg.Trail.Layer

	noise := opts.Noise
	if noise == nil {
		noise = systems.LoadNoise(cfg.Aurora.NoiseKind, opts.Seed, cfg.Derived.NoiseDelay)
	}
	s.effects[KindTrail] = effects.NewCursorTrail(cfg, rngFor(opts.Seed, KindTrail))
	s.effects[KindStarfield] = effects.NewStarfield(cfg, rngFor(opts.Seed, KindStarfield))
	s.effects[KindAurora] = effects.NewAurora(cfg, rngFor(opts.Seed, KindAurora), noise)

	s.loop.OnKey(func(key rune) {
		if k, ok := KindForKey(key); ok {
			s.Toggle(k)
		}
	})

	enabled := [numKinds]bool{
		KindTrail:     cfg.Trail.Enabled,
		KindStarfield: cfg.Starfield.Enabled,
		KindAurora:    cfg.Aurora.Enabled,
	}
	for _, k := range Kinds {
		if enabled[k] {
			s.effects[k].Mount(s.loop)
		}
	}
	return s, nil
}

func rngFor(seed int64, k Kind) *rand.Rand {
	return rand.New(rand.NewSource(seed + int64(k)))
}

// Loop returns the host loop driving the scene.
func (s *Scene) Loop() *host.Loop {
	return s.loop
}

// Effect returns the engine for k.
func (s *Scene) Effect(k Kind) effects.Effect {
	return s.effects[k]
}

// Toggle tears the effect down if it is mounted and mounts it fresh
// otherwise. Layers owned by the scene are cleared on teardown.
func (s *Scene) Toggle(k Kind) {
	e := s.effects[k]
	if s.status(k).Mounted() {
		e.Teardown()
		if name, ok := s.layers[k]; ok {
			if surf := s.loop.Surface(name); surf != nil {
				surf.Begin()
				surf.Clear()
				surf.End()
			}
		}
	} else {
		e.Mount(s.loop)
	}
	slog.Info("effect toggled", "effect", k.String(), "state", e.State().String())
}

func (s *Scene) status(k Kind) Status {
	e := s.effects[k]
	return Status{Kind: k, State: e.State(), Population: e.Population()}
}

// Status returns a snapshot of every effect in Kinds order.
func (s *Scene) Status() []Status {
	out := make([]Status, 0, len(Kinds))
	for _, k := range Kinds {
		out = append(out, s.status(k))
	}
	return out
}

// Step runs one loop iteration at now and reports whether the backend
// wants to keep running.
func (s *Scene) Step(now time.Duration) bool {
	keepGoing := s.loop.Step(now)

	if s.stepped {
		s.frames.Add(now - s.lastStep)
	} else {
		s.windowStart = now
		s.stepped = true
	}
	s.lastStep = now
	s.frame++

	if now-s.windowStart >= s.cfg.Derived.LogInterval {
		s.flushTelemetry(now)
		s.windowStart = now
	}
	return keepGoing
}

// Frame returns the number of steps taken.
func (s *Scene) Frame() int64 {
	return s.frame
}

// WindowStats summarizes the current telemetry window at now.
func (s *Scene) WindowStats(now time.Duration) telemetry.WindowStats {
	return telemetry.WindowStats{
		Frame:      s.frame,
		ElapsedSec: now.Seconds(),
		Particles:  s.effects[KindTrail].Population(),
		Stars:      s.effects[KindStarfield].Population(),
		Rays:       s.effects[KindAurora].Population(),
		FrameStats: s.frames.Stats(s.cfg.Derived.StallThreshold),
	}
}

// Perf returns the step timing collector.
func (s *Scene) Perf() *telemetry.PerfCollector {
	return s.perf
}

func (s *Scene) flushTelemetry(now time.Duration) {
	stats := s.WindowStats(now)
	perfStats := s.perf.Stats()

	if s.logStats {
		slog.Info("telemetry", "stats", stats)
		slog.Info("perf", "stats", perfStats)
	}

	if err := s.output.WriteTelemetry(stats); err != nil {
		slog.Error("failed to write telemetry", "error", err)
	}
	if err := s.output.WritePerf(perfStats, s.frame); err != nil {
		slog.Error("failed to write perf", "error", err)
	}

	for _, bm := range s.bookmarks.Check(stats) {
		if s.logStats {
			bm.LogBookmark()
		}
		if err := s.output.WriteBookmark(bm); err != nil {
			slog.Error("failed to write bookmark", "error", err)
		}
		s.saveSnapshot(stats, bm)
	}
}

// Snapshot captures the scene for a bookmark at stats.
func (s *Scene) Snapshot(stats telemetry.WindowStats, bm *telemetry.Bookmark) *telemetry.Snapshot {
	w, h := s.loop.Size()
	snap := &telemetry.Snapshot{
		Version:    telemetry.SnapshotVersion,
		Seed:       s.seed,
		Width:      w,
		Height:     h,
		Frame:      stats.Frame,
		ElapsedSec: stats.ElapsedSec,
		Bookmark:   bm,
	}
	for _, st := range s.Status() {
		snap.Effects = append(snap.Effects, telemetry.EffectState{
			Name:       st.Kind.String(),
			State:      st.State.String(),
			Population: st.Population,
		})
	}
	return snap
}

func (s *Scene) saveSnapshot(stats telemetry.WindowStats, bm telemetry.Bookmark) {
	dir := s.output.Dir()
	if dir == "" {
		return
	}
	path, err := telemetry.SaveSnapshot(s.Snapshot(stats, &bm), filepath.Join(dir, "snapshots"))
	if err != nil {
		slog.Error("failed to save snapshot", "error", err)
		return
	}
	slog.Info("snapshot saved", "path", path, "bookmark", string(bm.Type))
}

// Unload tears every effect down and closes telemetry output.
func (s *Scene) Unload() {
	for _, e := range s.effects {
		e.Teardown()
	}
	if err := s.output.Close(); err != nil {
		slog.Error("failed to close output", "error", err)
	}
}
