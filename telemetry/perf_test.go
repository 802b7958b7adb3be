package telemetry

import (
	"testing"
	"time"

	"github.com/pthm-cable/stardust/host"
)

func TestPerfCollector_BasicTiming(t *testing.T) {
	pc := NewPerfCollector(10)

	for i := 0; i < 5; i++ {
		pc.StartTick()
		pc.StartPhase(host.PhaseEvents)
		time.Sleep(100 * time.Microsecond)
		pc.StartPhase(host.PhaseFrames)
		time.Sleep(200 * time.Microsecond)
		pc.EndTick()
	}

	stats := pc.Stats()

	if stats.AvgTickDuration <= 0 {
		t.Error("expected positive average tick duration")
	}
	if _, ok := stats.PhaseAvg[host.PhaseEvents]; !ok {
		t.Error("expected events phase to be tracked")
	}
	if _, ok := stats.PhaseAvg[host.PhaseFrames]; !ok {
		t.Error("expected frames phase to be tracked")
	}
	if pc.Count() != 5 {
		t.Errorf("expected 5 samples, got %d", pc.Count())
	}
}

func TestPerfCollector_RollingWindow(t *testing.T) {
	pc := NewPerfCollector(5)

	for i := 0; i < 10; i++ {
		pc.StartTick()
		pc.StartPhase(host.PhaseTimers)
		pc.EndTick()
	}

	if pc.Count() != 5 {
		t.Errorf("expected window capped at 5 samples, got %d", pc.Count())
	}
}

func TestPerfCollector_PhasePercentages(t *testing.T) {
	pc := NewPerfCollector(10)

	for i := 0; i < 5; i++ {
		pc.StartTick()
		pc.StartPhase("fast")
		time.Sleep(10 * time.Microsecond)
		pc.StartPhase("slow")
		time.Sleep(100 * time.Microsecond)
		pc.EndTick()
	}

	stats := pc.Stats()
	if stats.PhasePct["slow"] <= stats.PhasePct["fast"] {
		t.Errorf("expected slow phase (%v%%) > fast phase (%v%%)", stats.PhasePct["slow"], stats.PhasePct["fast"])
	}
}

func TestPerfCollector_EmptyStats(t *testing.T) {
	stats := NewPerfCollector(10).Stats()

	if stats.AvgTickDuration != 0 {
		t.Error("expected zero avg tick duration for empty collector")
	}
	if stats.PhaseAvg == nil || stats.PhasePct == nil {
		t.Error("expected non-nil phase maps")
	}
}

func TestPerfCollector_FrameTiming(t *testing.T) {
	pc := NewPerfCollector(10)

	pc.StartTick()
	pc.EndTick()
	time.Sleep(16 * time.Millisecond)
	pc.StartTick()
	pc.EndTick()

	stats := pc.Stats()
	if stats.FrameDuration < 15*time.Millisecond {
		t.Errorf("expected frame duration >= 15ms, got %v", stats.FrameDuration)
	}
	if stats.FPS <= 0 || stats.FPS > 70 {
		t.Errorf("expected FPS in (0, 70] with 16ms frames, got %v", stats.FPS)
	}
}

func TestPerfCollector_DrivenByLoop(t *testing.T) {
	loop := host.NewLoop(host.NewHeadless(10, 10))
	pc := NewPerfCollector(10)
	loop.SetTracer(pc)

	for i := 0; i < 3; i++ {
		loop.Step(time.Duration(i) * time.Millisecond)
	}

	stats := pc.Stats()
	for _, phase := range Phases {
		if _, ok := stats.PhaseAvg[phase]; !ok {
			t.Errorf("expected phase %s to be tracked", phase)
		}
	}
}

func TestPerfStats_ToCSV(t *testing.T) {
	s := PerfStats{
		AvgTickDuration: 1500 * time.Microsecond,
		PhasePct:        map[string]float64{host.PhasePresent: 40, host.PhaseFrames: 55},
	}
	row := s.ToCSV(120)
	if row.Frame != 120 || row.AvgTickUS != 1500 {
		t.Errorf("unexpected row header fields %+v", row)
	}
	if row.PresentPct != 40 || row.FramesPct != 55 || row.EventsPct != 0 {
		t.Errorf("unexpected phase percentages %+v", row)
	}
}

func TestPerfCollector_TickSpread(t *testing.T) {
	pc := NewPerfCollector(20)
	for i := 0; i < 20; i++ {
		pc.StartTick()
		pc.StartPhase(host.PhaseFrames)
		if i == 19 {
			time.Sleep(2 * time.Millisecond)
		}
		pc.EndTick()
	}

	stats := pc.Stats()
	if stats.MinTickDuration > stats.P95TickDuration || stats.P95TickDuration > stats.MaxTickDuration {
		t.Errorf("expected min <= p95 <= max, got %v %v %v", stats.MinTickDuration, stats.P95TickDuration, stats.MaxTickDuration)
	}
	if stats.MaxTickDuration < 2*time.Millisecond {
		t.Errorf("expected the slow step to set the max, got %v", stats.MaxTickDuration)
	}
}
