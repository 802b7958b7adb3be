package telemetry

import "testing"

func window(frame int64, p95 float64, stalls, stars, rays int) WindowStats {
	return WindowStats{
		Frame: frame,
		Stars: stars,
		Rays:  rays,
		FrameStats: FrameStats{
			Frames: 300,
			P95MS:  p95,
			Stalls: stalls,
		},
	}
}

func hasBookmark(bookmarks []Bookmark, typ BookmarkType) bool {
	for _, bm := range bookmarks {
		if bm.Type == typ {
			return true
		}
	}
	return false
}

func TestBookmarkDetector_StallBurst(t *testing.T) {
	bd := NewBookmarkDetector(10)

	for i := 0; i < 5; i++ {
		bd.Check(window(int64(i*300), 17, 1, 160, 60))
	}

	bookmarks := bd.Check(window(1500, 17, 6, 160, 60))
	if !hasBookmark(bookmarks, BookmarkStallBurst) {
		t.Error("expected stall_burst bookmark")
	}
	if bookmarks[0].Frame != 1500 {
		t.Errorf("expected bookmark at frame 1500, got %d", bookmarks[0].Frame)
	}
}

func TestBookmarkDetector_StallBurstNeedsMinimum(t *testing.T) {
	bd := NewBookmarkDetector(10)
	for i := 0; i < 5; i++ {
		bd.Check(window(int64(i*300), 17, 0, 160, 60))
	}
	if hasBookmark(bd.Check(window(1500, 17, 2, 160, 60)), BookmarkStallBurst) {
		t.Error("expected two stalls to stay below the burst threshold")
	}
}

func TestBookmarkDetector_FrameSpike(t *testing.T) {
	bd := NewBookmarkDetector(10)
	for i := 0; i < 5; i++ {
		bd.Check(window(int64(i*300), 17, 0, 160, 60))
	}
	if !hasBookmark(bd.Check(window(1500, 40, 0, 160, 60)), BookmarkFrameSpike) {
		t.Error("expected frame_spike bookmark")
	}
}

func TestBookmarkDetector_PopulationDrop(t *testing.T) {
	bd := NewBookmarkDetector(10)
	for i := 0; i < 5; i++ {
		bd.Check(window(int64(i*300), 17, 0, 160, 60))
	}

	// Starfield toggled off
	bookmarks := bd.Check(window(1500, 17, 0, 0, 60))
	if !hasBookmark(bookmarks, BookmarkPopulationDrop) {
		t.Error("expected population_drop bookmark")
	}

	// Peak resets after the drop
	if hasBookmark(bd.Check(window(1800, 17, 0, 0, 60)), BookmarkPopulationDrop) {
		t.Error("expected a single drop bookmark")
	}
}

func TestBookmarkDetector_SteadyPlayback(t *testing.T) {
	bd := NewBookmarkDetector(10)

	triggered := 0
	for i := 0; i < 12; i++ {
		if hasBookmark(bd.Check(window(int64(i*300), 16.7, 0, 160, 60)), BookmarkSteadyPlayback) {
			triggered++
		}
	}
	if triggered != 1 {
		t.Errorf("expected steady_playback exactly once, got %d", triggered)
	}
}

func TestBookmarkDetector_StallsBreakSteadyRun(t *testing.T) {
	bd := NewBookmarkDetector(10)
	for i := 0; i < 7; i++ {
		stalls := 0
		if i == 6 {
			stalls = 1
		}
		if hasBookmark(bd.Check(window(int64(i*300), 16.7, stalls, 160, 60)), BookmarkSteadyPlayback) {
			t.Errorf("window %d: expected no steady bookmark before five steady windows", i)
		}
	}
	if bd.steadyWindowCount != 0 {
		t.Errorf("expected a stall to reset the steady count, got %d", bd.steadyWindowCount)
	}
}
