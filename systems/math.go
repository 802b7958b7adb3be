package systems

import "math"

// mod computes the positive modulo (Go's math.Mod can return negative).
func mod(x, m float32) float32 {
	r := float32(math.Mod(float64(x), float64(m)))
	if r < 0 {
		r += m
	}
	return r
}

// wrap folds v back into [0, size] toroidally. Values already inside,
// including exactly size, are returned unchanged.
func wrap(v, size float32) float32 {
	if size <= 0 {
		return v
	}
	if v < 0 || v > size {
		return mod(v, size)
	}
	return v
}

// clampInt restricts an int to a range.
func clampInt(x, lo, hi int) int {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

// spread returns base + rand*spread for a uniform rand in [0, 1).
func spread(base, spread float64, r float64) float32 {
	return float32(base + r*spread)
}

// FadeInOut is a triangular envelope over a period of m: 0 at t = 0,
// 1 at t = m/2, back to 0 at t = m.
func FadeInOut(t, m float32) float32 {
	if m <= 0 {
		return 0
	}
	hm := 0.5 * m
	return float32(math.Abs(float64(mod(t+hm, m)-hm))) / hm
}
