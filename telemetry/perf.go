package telemetry

import (
	"log/slog"
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/stardust/host"
)

// Phases reported by the host loop, in execution order.
var Phases = []string{
	host.PhaseEvents,
	host.PhaseTimers,
	host.PhaseFrames,
	host.PhasePresent,
}

// PerfSample holds timing data for a single loop step.
type PerfSample struct {
	TickDuration time.Duration
	Phases       map[string]time.Duration
}

// PerfCollector tracks per-phase step timings over a rolling window.
// It implements host.Tracer.
type PerfCollector struct {
	windowSize    int
	samples       []PerfSample
	writeIndex    int
	sampleCount   int
	currentPhases map[string]time.Duration
	tickStart     time.Time
	phaseStart    time.Time
	lastPhase     string

	// Wall-clock interval between presented frames
	lastFrameTime time.Time
	frameDuration time.Duration
}

// NewPerfCollector creates a new performance collector.
// windowSize: number of steps to average over (e.g., 120 for 2 seconds at 60fps).
func NewPerfCollector(windowSize int) *PerfCollector {
	if windowSize < 1 {
		windowSize = 60
	}
	return &PerfCollector{
		windowSize:    windowSize,
		samples:       make([]PerfSample, windowSize),
		currentPhases: make(map[string]time.Duration),
	}
}

// StartTick begins timing a new loop step.
func (p *PerfCollector) StartTick() {
	p.tickStart = time.Now()
	p.currentPhases = make(map[string]time.Duration, len(Phases))
	p.lastPhase = ""
}

// StartPhase ends the running phase, if any, and starts timing phase.
func (p *PerfCollector) StartPhase(phase string) {
	now := time.Now()
	if p.lastPhase != "" {
		p.currentPhases[p.lastPhase] += now.Sub(p.phaseStart)
	}
	p.phaseStart = now
	p.lastPhase = phase
}

// EndTick finishes timing the current step and records the sample.
func (p *PerfCollector) EndTick() {
	now := time.Now()
	if p.lastPhase != "" {
		p.currentPhases[p.lastPhase] += now.Sub(p.phaseStart)
	}

	p.samples[p.writeIndex] = PerfSample{
		TickDuration: now.Sub(p.tickStart),
		Phases:       p.currentPhases,
	}
	p.writeIndex = (p.writeIndex + 1) % p.windowSize
	if p.sampleCount < p.windowSize {
		p.sampleCount++
	}
	p.recordFrame(now)
}

func (p *PerfCollector) recordFrame(now time.Time) {
	if !p.lastFrameTime.IsZero() {
		p.frameDuration = now.Sub(p.lastFrameTime)
	}
	p.lastFrameTime = now
}

// Count returns the number of samples currently in the window.
func (p *PerfCollector) Count() int {
	return p.sampleCount
}

// PerfStats holds aggregated performance statistics.
type PerfStats struct {
	AvgTickDuration time.Duration
	MinTickDuration time.Duration
	MaxTickDuration time.Duration
	P95TickDuration time.Duration

	// Average duration and share of tick time per phase
	PhaseAvg map[string]time.Duration
	PhasePct map[string]float64

	// Work-limited throughput, independent of vsync
	TicksPerSecond float64

	FrameDuration time.Duration
	FPS           float64
}

// Stats computes aggregated statistics over the current window.
func (p *PerfCollector) Stats() PerfStats {
	var fps float64
	if p.frameDuration > 0 {
		fps = float64(time.Second) / float64(p.frameDuration)
	}

	if p.sampleCount == 0 {
		return PerfStats{
			PhaseAvg:      make(map[string]time.Duration),
			PhasePct:      make(map[string]float64),
			FrameDuration: p.frameDuration,
			FPS:           fps,
		}
	}

	ticks := make([]float64, p.sampleCount)
	phaseSum := make(map[string]time.Duration)
	for i := 0; i < p.sampleCount; i++ {
		ticks[i] = float64(p.samples[i].TickDuration)
		for phase, dur := range p.samples[i].Phases {
			phaseSum[phase] += dur
		}
	}
	sort.Float64s(ticks)

	avgTick := time.Duration(stat.Mean(ticks, nil))
	p95Tick := time.Duration(stat.Quantile(0.95, stat.Empirical, ticks, nil))

	phaseAvg := make(map[string]time.Duration, len(phaseSum))
	phasePct := make(map[string]float64, len(phaseSum))
	for phase, sum := range phaseSum {
		phaseAvg[phase] = sum / time.Duration(p.sampleCount)
		if avgTick > 0 {
			phasePct[phase] = float64(phaseAvg[phase]) / float64(avgTick) * 100
		}
	}

	var ticksPerSec float64
	if avgTick > 0 {
		ticksPerSec = float64(time.Second) / float64(avgTick)
	}

	return PerfStats{
		AvgTickDuration: avgTick,
		MinTickDuration: time.Duration(ticks[0]),
		MaxTickDuration: time.Duration(ticks[len(ticks)-1]),
		P95TickDuration: p95Tick,
		PhaseAvg:        phaseAvg,
		PhasePct:        phasePct,
		TicksPerSecond:  ticksPerSec,
		FrameDuration:   p.frameDuration,
		FPS:             fps,
	}
}

// LogValue implements slog.LogValuer for structured logging.
func (s PerfStats) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Int64("avg_tick_us", s.AvgTickDuration.Microseconds()),
		slog.Int64("min_tick_us", s.MinTickDuration.Microseconds()),
		slog.Int64("max_tick_us", s.MaxTickDuration.Microseconds()),
		slog.Int64("p95_tick_us", s.P95TickDuration.Microseconds()),
		slog.Float64("ticks_per_sec", s.TicksPerSecond),
	}
	if s.FPS > 0 {
		attrs = append(attrs, slog.Float64("fps", s.FPS))
	}
	for _, phase := range Phases {
		if pct, ok := s.PhasePct[phase]; ok {
			attrs = append(attrs, slog.Float64(phase+"_pct", pct))
		}
	}
	return slog.GroupValue(attrs...)
}

// PerfStatsCSV is a flat struct for CSV export of performance stats.
type PerfStatsCSV struct {
	Frame       int64   `csv:"frame"`
	AvgTickUS   int64   `csv:"avg_tick_us"`
	MinTickUS   int64   `csv:"min_tick_us"`
	MaxTickUS   int64   `csv:"max_tick_us"`
	P95TickUS   int64   `csv:"p95_tick_us"`
	TicksPerSec float64 `csv:"ticks_per_sec"`
	FPS         float64 `csv:"fps"`
	EventsPct   float64 `csv:"events_pct"`
	TimersPct   float64 `csv:"timers_pct"`
	FramesPct   float64 `csv:"frames_pct"`
	PresentPct  float64 `csv:"present_pct"`
}

// ToCSV converts PerfStats to a flat CSV-friendly struct.
func (s PerfStats) ToCSV(frame int64) PerfStatsCSV {
	return PerfStatsCSV{
		Frame:       frame,
		AvgTickUS:   s.AvgTickDuration.Microseconds(),
		MinTickUS:   s.MinTickDuration.Microseconds(),
		MaxTickUS:   s.MaxTickDuration.Microseconds(),
		P95TickUS:   s.P95TickDuration.Microseconds(),
		TicksPerSec: s.TicksPerSecond,
		FPS:         s.FPS,
		EventsPct:   s.PhasePct[host.PhaseEvents],
		TimersPct:   s.PhasePct[host.PhaseTimers],
		FramesPct:   s.PhasePct[host.PhaseFrames],
		PresentPct:  s.PhasePct[host.PhasePresent],
	}
}

var _ host.Tracer = (*PerfCollector)(nil)
