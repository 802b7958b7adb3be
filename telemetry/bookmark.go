package telemetry

import (
	"fmt"
	"log/slog"
)

// BookmarkType identifies the type of bookmark.
type BookmarkType string

const (
	BookmarkStallBurst     BookmarkType = "stall_burst"
	BookmarkFrameSpike     BookmarkType = "frame_spike"
	BookmarkPopulationDrop BookmarkType = "population_drop"
	BookmarkSteadyPlayback BookmarkType = "steady_playback"
)

// Bookmark marks a notable telemetry window.
type Bookmark struct {
	Type        BookmarkType `csv:"type"`
	Frame       int64        `csv:"frame"`
	Description string       `csv:"description"`
}

// LogBookmark logs the bookmark using slog.
func (b Bookmark) LogBookmark() {
	slog.Info("bookmark",
		"type", string(b.Type),
		"frame", b.Frame,
		"description", b.Description,
	)
}

// BookmarkDetector watches successive windows for notable changes.
type BookmarkDetector struct {
	// Rolling history (circular buffer)
	history     []WindowStats
	historySize int
	historyIdx  int
	historyFull bool

	recentPopPeak     int // peak stars+rays in recent history
	steadyWindowCount int // consecutive stall-free windows with consistent p95
}

// NewBookmarkDetector creates a detector with the given history size.
func NewBookmarkDetector(historySize int) *BookmarkDetector {
	if historySize < 5 {
		historySize = 5 // minimum for steady playback detection
	}
	return &BookmarkDetector{
		history:     make([]WindowStats, historySize),
		historySize: historySize,
	}
}

// Check analyzes the latest stats and returns any triggered bookmarks.
func (bd *BookmarkDetector) Check(stats WindowStats) []Bookmark {
	var bookmarks []Bookmark

	if bd.historyFull || bd.historyIdx > 0 {
		// Stall burst: stalls > 2x rolling average
		if b := bd.checkStallBurst(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}

		// Frame spike: p95 frame time > 2x rolling average
		if b := bd.checkFrameSpike(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}

		// Population drop: stars+rays fell >30% from recent peak
		if b := bd.checkPopulationDrop(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}

		if b := bd.checkSteadyPlayback(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}
	}

	bd.addToHistory(stats)

	if pop := population(stats); pop > bd.recentPopPeak {
		bd.recentPopPeak = pop
	}

	return bookmarks
}

func population(s WindowStats) int {
	return s.Stars + s.Rays
}

func (bd *BookmarkDetector) addToHistory(stats WindowStats) {
	bd.history[bd.historyIdx] = stats
	bd.historyIdx = (bd.historyIdx + 1) % bd.historySize
	if bd.historyIdx == 0 {
		bd.historyFull = true
	}
}

func (bd *BookmarkDetector) getHistory() []WindowStats {
	if bd.historyFull {
		return bd.history
	}
	return bd.history[:bd.historyIdx]
}

func (bd *BookmarkDetector) checkStallBurst(stats WindowStats) *Bookmark {
	history := bd.getHistory()
	if len(history) < 3 || stats.Stalls < 3 {
		return nil
	}

	var total int
	for _, h := range history {
		total += h.Stalls
	}
	avg := float64(total) / float64(len(history))

	// A first burst after clean windows always counts
	if avg == 0 || float64(stats.Stalls) > avg*2.0 {
		return &Bookmark{
			Type:        BookmarkStallBurst,
			Frame:       stats.Frame,
			Description: fmt.Sprintf("%d stalled frames against an average of %.1f", stats.Stalls, avg),
		}
	}
	return nil
}

func (bd *BookmarkDetector) checkFrameSpike(stats WindowStats) *Bookmark {
	history := bd.getHistory()
	if len(history) < 3 {
		return nil
	}

	var total float64
	for _, h := range history {
		total += h.P95MS
	}
	avg := total / float64(len(history))
	if avg == 0 {
		return nil
	}

	if stats.P95MS > avg*2.0 {
		return &Bookmark{
			Type:        BookmarkFrameSpike,
			Frame:       stats.Frame,
			Description: fmt.Sprintf("p95 frame time %.1fms is %.1fx average (%.1fms)", stats.P95MS, stats.P95MS/avg, avg),
		}
	}
	return nil
}

func (bd *BookmarkDetector) checkPopulationDrop(stats WindowStats) *Bookmark {
	if bd.recentPopPeak == 0 {
		return nil
	}

	pop := population(stats)
	drop := 1.0 - float64(pop)/float64(bd.recentPopPeak)
	if drop > 0.30 && pop < bd.recentPopPeak-10 {
		// Reset peak after the drop
		oldPeak := bd.recentPopPeak
		bd.recentPopPeak = pop

		return &Bookmark{
			Type:        BookmarkPopulationDrop,
			Frame:       stats.Frame,
			Description: fmt.Sprintf("Population fell %.0f%% from peak %d to %d", drop*100, oldPeak, pop),
		}
	}
	return nil
}

func (bd *BookmarkDetector) checkSteadyPlayback(stats WindowStats) *Bookmark {
	if stats.Stalls > 0 || stats.Frames == 0 {
		bd.steadyWindowCount = 0
		return nil
	}

	history := bd.getHistory()
	if len(history) < 4 {
		return nil
	}

	recent := history[len(history)-4:]
	var sum float64
	for _, h := range recent {
		sum += h.P95MS
	}
	mean := sum / 4

	var variance float64
	for _, h := range recent {
		d := h.P95MS - mean
		variance += d * d
	}
	variance /= 4

	// CV^2 < 0.04 means CV < 0.2
	if mean > 0 && variance/(mean*mean) < 0.04 {
		bd.steadyWindowCount++
	} else {
		bd.steadyWindowCount = 0
	}

	if bd.steadyWindowCount == 5 { // trigger exactly once at 5 windows
		return &Bookmark{
			Type:        BookmarkSteadyPlayback,
			Frame:       stats.Frame,
			Description: fmt.Sprintf("Steady playback at p95 %.1fms over 5+ windows", stats.P95MS),
		}
	}
	return nil
}
