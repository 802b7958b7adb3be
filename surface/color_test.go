package surface

import (
	"image/color"
	"testing"
)

func TestParseHex(t *testing.T) {
	testCases := []struct {
		in   string
		want color.NRGBA
	}{
		{"#ffffff", color.NRGBA{R: 255, G: 255, B: 255, A: 255}},
		{"#86eae7", color.NRGBA{R: 0x86, G: 0xea, B: 0xe7, A: 255}},
		{"#1a1a2e", color.NRGBA{R: 0x1a, G: 0x1a, B: 0x2e, A: 255}},
	}

	for _, tc := range testCases {
		got, err := ParseHex(tc.in)
		if err != nil {
			t.Errorf("ParseHex(%q) returned error: %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseHex(%q): expected %v, got %v", tc.in, tc.want, got)
		}
	}
}

func TestParseHexInvalid(t *testing.T) {
	if _, err := ParseHex("not-a-color"); err == nil {
		t.Error("expected error for malformed color")
	}
}

func TestWithAlphaClamps(t *testing.T) {
	c := color.NRGBA{R: 10, G: 20, B: 30, A: 255}

	if got := WithAlpha(c, 0.1).A; got != 26 {
		t.Errorf("expected alpha 26 for 0.1, got %d", got)
	}
	if got := WithAlpha(c, -1).A; got != 0 {
		t.Errorf("expected alpha clamped to 0, got %d", got)
	}
	if got := WithAlpha(c, 2).A; got != 255 {
		t.Errorf("expected alpha clamped to 255, got %d", got)
	}
}

func TestHSLPrimaryGreen(t *testing.T) {
	c := HSL(120, 1, 0.5, 1)
	if c.R != 0 || c.G != 255 || c.B != 0 || c.A != 255 {
		t.Errorf("expected pure green, got %v", c)
	}
}

func TestUniformPalettePick(t *testing.T) {
	p := UniformPalette{
		MustHex("#000000"),
		MustHex("#ffffff"),
	}

	if got := p.Pick(0.25); got != p[0] {
		t.Errorf("expected first color for 0.25, got %v", got)
	}
	if got := p.Pick(0.75); got != p[1] {
		t.Errorf("expected second color for 0.75, got %v", got)
	}
	// r == 1 must not index past the end
	if got := p.Pick(1); got != p[1] {
		t.Errorf("expected last color for 1.0, got %v", got)
	}
}

func TestWeightedPalettePick(t *testing.T) {
	white := MustHex("#ffffff")
	cyan := MustHex("#86eae7")
	yellow := MustHex("#fbbf24")

	p, err := NewWeightedPalette([]WeightedColor{
		{Color: white, Weight: 0.5},
		{Color: cyan, Weight: 0.3},
		{Color: yellow, Weight: 0.2},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	testCases := []struct {
		r    float64
		want color.NRGBA
	}{
		{0.0, white},
		{0.5, white}, // boundary belongs to the lower bucket
		{0.51, cyan},
		{0.79, cyan},
		{0.95, yellow},
		{5.0, white}, // beyond total weight falls back to the first color
	}
	for _, tc := range testCases {
		if got := p.Pick(tc.r); got != tc.want {
			t.Errorf("Pick(%v): expected %v, got %v", tc.r, tc.want, got)
		}
	}
}

func TestWeightedPaletteRejectsEmpty(t *testing.T) {
	if _, err := NewWeightedPalette(nil); err == nil {
		t.Error("expected error for empty palette")
	}
	if _, err := NewWeightedPalette([]WeightedColor{{Weight: 0}}); err == nil {
		t.Error("expected error for zero total weight")
	}
}
