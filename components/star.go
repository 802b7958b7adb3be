// Package components defines ECS components for the starfield.
package components

import "image/color"

// StarAnchor holds a star's fixed base position and its current rendered
// position (base plus parallax offset, wrapped to the surface).
type StarAnchor struct {
	BaseX, BaseY float32
	X, Y         float32
}

// Twinkle drives a star's sinusoidal brightness oscillation.
type Twinkle struct {
	Phase      float32 // radians, advanced by Speed every tick
	Speed      float32
	Brightness float32 // Peak brightness in [0, 1]
}

// StarLook holds a star's static appearance.
type StarLook struct {
	Size  float32
	Layer uint8 // 0 = near, larger values are farther away
	Color color.NRGBA
}
