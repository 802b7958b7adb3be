package systems

import (
	"math/rand"
	"testing"

	"github.com/pthm-cable/stardust/components"
	"github.com/pthm-cable/stardust/config"
)

func newTestStarfield(seed int64) *Starfield {
	params := StarfieldParamsFromConfig(config.Defaults())
	return NewStarfield(params, rand.New(rand.NewSource(seed)))
}

func TestStarCount(t *testing.T) {
	tests := []struct {
		w, h int
		want int
	}{
		{800, 600, 160},
		{1920, 1080, 691},
		{0, 0, 0},
		{0, 600, 0},
		{50, 50, 0},
	}
	for _, tt := range tests {
		if got := StarCount(tt.w, tt.h, 3000); got != tt.want {
			t.Errorf("StarCount(%d, %d): expected %d, got %d", tt.w, tt.h, tt.want, got)
		}
	}
}

func TestStarfield_ResizePopulates(t *testing.T) {
	sf := newTestStarfield(1)
	sf.Resize(800, 600)

	if sf.Count() != 160 {
		t.Fatalf("expected 160 stars, got %d", sf.Count())
	}

	seen := 0
	sf.Each(func(a *components.StarAnchor, tw *components.Twinkle, look *components.StarLook) {
		seen++
		if a.BaseX < 0 || a.BaseX >= 800 || a.BaseY < 0 || a.BaseY >= 600 {
			t.Errorf("base (%f,%f) outside surface", a.BaseX, a.BaseY)
		}
		if look.Layer > 2 {
			t.Errorf("layer %d out of range", look.Layer)
		}
		if tw.Brightness < 0.5 || tw.Brightness >= 1 {
			t.Errorf("brightness %f outside [0.5, 1)", tw.Brightness)
		}
	})
	if seen != 160 {
		t.Errorf("expected 160 entities, iterated %d", seen)
	}
}

func TestStarfield_ResizeReplacesPopulation(t *testing.T) {
	sf := newTestStarfield(1)
	sf.Resize(800, 600)
	sf.Resize(800, 600)
	sf.Resize(300, 300)

	seen := 0
	sf.Each(func(*components.StarAnchor, *components.Twinkle, *components.StarLook) { seen++ })
	if seen != 30 || sf.Count() != 30 {
		t.Errorf("expected 30 stars after final resize, got count=%d iterated=%d", sf.Count(), seen)
	}

	sf.Resize(0, 0)
	seen = 0
	sf.Each(func(*components.StarAnchor, *components.Twinkle, *components.StarLook) { seen++ })
	if seen != 0 || sf.Count() != 0 {
		t.Errorf("expected empty field at 0x0, got count=%d iterated=%d", sf.Count(), seen)
	}
	sf.Update(func(StarView) { t.Error("visitor called on empty field") })
}

func TestStarfield_LayerSizes(t *testing.T) {
	sf := newTestStarfield(3)
	sf.Resize(1200, 900)

	bounds := [3][2]float32{{0.5, 2.0}, {0.3, 1.3}, {0.1, 0.6}}
	sf.Each(func(_ *components.StarAnchor, _ *components.Twinkle, look *components.StarLook) {
		b := bounds[look.Layer]
		if look.Size < b[0] || look.Size >= b[1] {
			t.Errorf("layer %d size %f outside [%v, %v)", look.Layer, look.Size, b[0], b[1])
		}
	})
}

func TestStarfield_ParallaxFactor(t *testing.T) {
	sf := newTestStarfield(1)
	want := []float32{0.06, 0.04, 0.02}
	for layer, w := range want {
		got := sf.ParallaxFactor(uint8(layer))
		if got < w-1e-6 || got > w+1e-6 {
			t.Errorf("layer %d: expected factor %v, got %v", layer, w, got)
		}
	}
}

func TestStarfield_SetPointerNormalizes(t *testing.T) {
	sf := newTestStarfield(1)
	sf.Resize(800, 600)

	sf.SetPointer(400, 300)
	if x, y := sf.Pointer(); x != 0 || y != 0 {
		t.Errorf("center: expected (0,0), got (%v,%v)", x, y)
	}
	sf.SetPointer(0, 600)
	if x, y := sf.Pointer(); x != -1 || y != 1 {
		t.Errorf("corner: expected (-1,1), got (%v,%v)", x, y)
	}
}

func TestStarfield_PositionsStayInBounds(t *testing.T) {
	sf := newTestStarfield(5)
	sf.Resize(800, 600)

	pointers := [][2]float32{{0, 0}, {800, 600}, {0, 600}, {800, 0}, {400, 300}}
	for _, p := range pointers {
		sf.SetPointer(p[0], p[1])
		sf.Update(func(v StarView) {
			if v.X < 0 || v.X > 800 || v.Y < 0 || v.Y > 600 {
				t.Errorf("pointer %v: star at (%f,%f) escaped surface", p, v.X, v.Y)
			}
		})
	}
}

func TestStarfield_ParallaxOffset(t *testing.T) {
	sf := newTestStarfield(9)
	sf.Resize(800, 600)
	sf.SetPointer(800, 300) // normalized (1, 0)
	sf.Update(nil)

	sf.Each(func(a *components.StarAnchor, _ *components.Twinkle, look *components.StarLook) {
		shift := sf.ParallaxFactor(look.Layer) * 20
		want := wrap(a.BaseX+shift, 800)
		if d := a.X - want; d > 1e-3 || d < -1e-3 {
			t.Errorf("layer %d: expected x %f, got %f", look.Layer, want, a.X)
		}
		if a.Y != a.BaseY {
			t.Errorf("expected y unchanged at %f, got %f", a.BaseY, a.Y)
		}
	})
}

func TestStarfield_AlphaAndGlow(t *testing.T) {
	sf := newTestStarfield(11)
	sf.Resize(800, 600)

	sf.Update(func(v StarView) {
		if v.Glow != 0 && v.Glow != 4 {
			t.Errorf("unexpected glow %v", v.Glow)
		}
		if v.Glow == 4 && v.Size <= 1 {
			t.Errorf("glow applied to star of size %v", v.Size)
		}
	})
}

func TestStarfield_Deterministic(t *testing.T) {
	a := newTestStarfield(77)
	b := newTestStarfield(77)
	a.Resize(640, 480)
	b.Resize(640, 480)

	var va, vb []StarView
	for i := 0; i < 10; i++ {
		a.Update(func(v StarView) { va = append(va, v) })
		b.Update(func(v StarView) { vb = append(vb, v) })
	}
	if len(va) != len(vb) {
		t.Fatalf("expected equal view counts, got %d and %d", len(va), len(vb))
	}
	for i := range va {
		if va[i] != vb[i] {
			t.Fatalf("view %d differs: %+v vs %+v", i, va[i], vb[i])
		}
	}
}
