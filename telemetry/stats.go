package telemetry

import (
	"log/slog"
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"
)

// FrameWindow keeps the most recent frame intervals in a ring buffer.
type FrameWindow struct {
	samples []float64 // milliseconds
	next    int
	count   int
}

// NewFrameWindow creates a window holding up to size intervals.
func NewFrameWindow(size int) *FrameWindow {
	if size < 1 {
		size = 60
	}
	return &FrameWindow{samples: make([]float64, size)}
}

// Add records one frame interval.
func (w *FrameWindow) Add(d time.Duration) {
	w.samples[w.next] = float64(d) / float64(time.Millisecond)
	w.next = (w.next + 1) % len(w.samples)
	if w.count < len(w.samples) {
		w.count++
	}
}

// Len returns the number of recorded intervals.
func (w *FrameWindow) Len() int {
	return w.count
}

// Stats summarizes the window. Intervals at or above stall count as stalls.
func (w *FrameWindow) Stats(stall time.Duration) FrameStats {
	return ComputeFrameStats(w.samples[:w.count], float64(stall)/float64(time.Millisecond))
}

// FrameStats summarizes frame intervals in milliseconds.
type FrameStats struct {
	Frames int     `csv:"frames"`
	MeanMS float64 `csv:"mean_ms"`
	StdMS  float64 `csv:"std_ms"`
	P50MS  float64 `csv:"p50_ms"`
	P95MS  float64 `csv:"p95_ms"`
	MaxMS  float64 `csv:"max_ms"`
	Stalls int     `csv:"stalls"`
}

// ComputeFrameStats calculates mean, deviation and percentiles of
// intervals in milliseconds. stallMS <= 0 disables stall counting.
func ComputeFrameStats(intervals []float64, stallMS float64) FrameStats {
	n := len(intervals)
	if n == 0 {
		return FrameStats{}
	}

	sorted := make([]float64, n)
	copy(sorted, intervals)
	sort.Float64s(sorted)

	fs := FrameStats{
		Frames: n,
		MeanMS: stat.Mean(sorted, nil),
		P50MS:  stat.Quantile(0.50, stat.Empirical, sorted, nil),
		P95MS:  stat.Quantile(0.95, stat.Empirical, sorted, nil),
		MaxMS:  sorted[n-1],
	}
	// Sample deviation is undefined for a single interval
	if n > 1 {
		fs.StdMS = stat.StdDev(sorted, nil)
	}
	if stallMS > 0 {
		i := sort.SearchFloat64s(sorted, stallMS)
		fs.Stalls = n - i
	}
	return fs
}

// LogValue implements slog.LogValuer for structured logging.
func (s FrameStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("frames", s.Frames),
		slog.Float64("mean_ms", s.MeanMS),
		slog.Float64("std_ms", s.StdMS),
		slog.Float64("p50_ms", s.P50MS),
		slog.Float64("p95_ms", s.P95MS),
		slog.Float64("max_ms", s.MaxMS),
		slog.Int("stalls", s.Stalls),
	)
}

// WindowStats is one periodic summary of the running scene.
type WindowStats struct {
	Frame      int64   `csv:"frame"`
	ElapsedSec float64 `csv:"elapsed"`

	// Populations at window end; zero for effects that are not running
	Particles int `csv:"particles"`
	Stars     int `csv:"stars"`
	Rays      int `csv:"rays"`

	FrameStats
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int64("frame", s.Frame),
		slog.Float64("elapsed", s.ElapsedSec),
		slog.Int("particles", s.Particles),
		slog.Int("stars", s.Stars),
		slog.Int("rays", s.Rays),
		slog.Any("frames", s.FrameStats),
	)
}
