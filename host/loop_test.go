package host

import (
	"testing"
	"time"

	"github.com/pthm-cable/stardust/surface"
)

func TestLoop_AttachOrdersByZ(t *testing.T) {
	b := NewHeadless(800, 600)
	l := NewLoop(b)

	l.AttachSurface("trail", 30, surface.BlendAdditive)
	l.AttachSurface("aurora", 20, surface.BlendAlpha)
	l.AttachSurface("starfield", 10, surface.BlendAlpha)
	l.Step(0)

	want := []string{"starfield", "aurora", "trail"}
	if len(b.Last) != len(want) {
		t.Fatalf("expected %d layers presented, got %d", len(want), len(b.Last))
	}
	for i, name := range want {
		if b.Last[i].Name != name {
			t.Errorf("layer %d: expected %s, got %s", i, name, b.Last[i].Name)
		}
	}
	if b.Last[2].Blend != surface.BlendAdditive {
		t.Errorf("expected trail layer to keep additive blend")
	}
}

func TestLoop_AttachExistingReturnsSame(t *testing.T) {
	l := NewLoop(NewHeadless(100, 100))
	a := l.AttachSurface("x", 0, surface.BlendAlpha)
	b := l.AttachSurface("x", 5, surface.BlendAdditive)
	if a != b {
		t.Error("expected re-attach to return the existing surface")
	}
	if n := len(l.Layers()); n != 1 {
		t.Errorf("expected 1 layer, got %d", n)
	}
}

func TestLoop_SurfaceMissingIsNil(t *testing.T) {
	l := NewLoop(NewHeadless(100, 100))
	if s := l.Surface("nope"); s != nil {
		t.Errorf("expected nil for missing surface, got %v", s)
	}
}

func TestLoop_DetachReleases(t *testing.T) {
	b := NewHeadless(100, 100)
	l := NewLoop(b)
	l.AttachSurface("a", 0, surface.BlendAlpha)
	off := l.NewOffscreen()

	if len(b.Live) != 2 {
		t.Fatalf("expected 2 live surfaces, got %d", len(b.Live))
	}
	l.DetachSurface("a")
	l.ReleaseOffscreen(off)
	l.ReleaseOffscreen(off)

	if len(b.Live) != 0 {
		t.Errorf("expected all surfaces released, %d live", len(b.Live))
	}
	if l.Surface("a") != nil {
		t.Error("detached surface still reachable")
	}
	if l.Offscreens() != 0 {
		t.Errorf("expected 0 offscreens, got %d", l.Offscreens())
	}
}

func TestLoop_DispatchesEvents(t *testing.T) {
	b := NewHeadless(800, 600)
	l := NewLoop(b)

	var px, py float32
	var rw, rh int
	var keys []rune
	l.OnPointerMove(func(x, y float32) { px, py = x, y })
	l.OnResize(func(w, h int) { rw, rh = w, h })
	l.OnKey(func(k rune) { keys = append(keys, k) })

	b.Push(PointerEvent(10, 20), ResizeEvent(1024, 768), KeyEvent('1'))
	if !l.Step(0) {
		t.Fatal("loop quit unexpectedly")
	}

	if px != 10 || py != 20 {
		t.Errorf("expected pointer (10,20), got (%v,%v)", px, py)
	}
	if rw != 1024 || rh != 768 {
		t.Errorf("expected resize 1024x768, got %dx%d", rw, rh)
	}
	if w, h := l.Size(); w != 1024 || h != 768 {
		t.Errorf("expected loop size 1024x768, got %dx%d", w, h)
	}
	if len(keys) != 1 || keys[0] != '1' {
		t.Errorf("expected key '1', got %v", keys)
	}
}

func TestLoop_SameSizeResizeIgnored(t *testing.T) {
	b := NewHeadless(800, 600)
	l := NewLoop(b)
	calls := 0
	l.OnResize(func(int, int) { calls++ })

	b.Push(ResizeEvent(800, 600))
	l.Step(0)
	if calls != 0 {
		t.Errorf("expected no resize callback for unchanged size, got %d", calls)
	}
}

func TestLoop_CancelListenerDuringDispatch(t *testing.T) {
	b := NewHeadless(100, 100)
	l := NewLoop(b)

	secondCalls := 0
	var cancelSecond func()
	l.OnPointerMove(func(float32, float32) { cancelSecond() })
	cancelSecond = l.OnPointerMove(func(float32, float32) { secondCalls++ })

	b.Push(PointerEvent(1, 1), PointerEvent(2, 2))
	l.Step(0)

	if secondCalls != 0 {
		t.Errorf("cancelled listener called %d times", secondCalls)
	}
	if p, _, _ := l.Listeners(); p != 1 {
		t.Errorf("expected 1 pointer listener, got %d", p)
	}
	cancelSecond()
}

func TestLoop_QuitEvent(t *testing.T) {
	b := NewHeadless(100, 100)
	l := NewLoop(b)
	b.Push(Event{Kind: EventQuit})
	if l.Step(0) {
		t.Error("expected Step to report quit")
	}
}

func TestLoop_StepOrder(t *testing.T) {
	b := NewHeadless(100, 100)
	l := NewLoop(b)

	var order []string
	l.OnPointerMove(func(float32, float32) { order = append(order, "event") })
	l.AfterFunc(0, func() { order = append(order, "timer") })
	l.RequestFrame(func(time.Duration) { order = append(order, "frame") })
	b.Push(PointerEvent(0, 0))

	l.Step(time.Millisecond)

	want := []string{"event", "timer", "frame"}
	if len(order) != len(want) {
		t.Fatalf("expected %v, got %v", want, order)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("position %d: expected %s, got %s", i, want[i], order[i])
		}
	}
	if b.Presented != 1 {
		t.Errorf("expected 1 present, got %d", b.Presented)
	}
}

type phaseRecorder struct {
	ticks  int
	phases []string
}

func (p *phaseRecorder) StartTick() { p.ticks++ }
func (p *phaseRecorder) StartPhase(phase string) { p.phases = append(p.phases, phase) }
func (p *phaseRecorder) EndTick() {}

func TestLoop_Tracer(t *testing.T) {
	l := NewLoop(NewHeadless(10, 10))
	rec := &phaseRecorder{}
	l.SetTracer(rec)
	l.Step(0)

	if rec.ticks != 1 {
		t.Errorf("expected 1 tick, got %d", rec.ticks)
	}
	want := []string{PhaseEvents, PhaseTimers, PhaseFrames, PhasePresent}
	if len(rec.phases) != len(want) {
		t.Fatalf("expected phases %v, got %v", want, rec.phases)
	}
	for i := range want {
		if rec.phases[i] != want[i] {
			t.Errorf("phase %d: expected %s, got %s", i, want[i], rec.phases[i])
		}
	}
}
