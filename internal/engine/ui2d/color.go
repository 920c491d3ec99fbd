// Package ui2d holds the screen-space overlay widgets drawn on top of the
// showcase. Widgets produce flat colored quads; the renderer draws them.
package ui2d

import "github.com/go-gl/mathgl/mgl32"

// Color represents an RGBA color with float components (0.0 to 1.0).
type Color struct {
	R, G, B, A float32
}

// Overlay palette.
var (
	ColorTransparent = Color{0, 0, 0, 0}
	ColorWhite       = Color{1, 1, 1, 1}

	ColorTrackOff = Color{0.22, 0.25, 0.32, 0.85}
	ColorTrackOn  = Color{0.2, 0.6, 0.9, 0.95}
	ColorKnob     = Color{0.95, 0.96, 0.97, 1}
	ColorHotRing  = Color{1, 1, 1, 0.25}
)

// RGB creates a color from 8-bit RGB values with full alpha.
func RGB(r, g, b uint8) Color {
	return Color{
		R: float32(r) / 255.0,
		G: float32(g) / 255.0,
		B: float32(b) / 255.0,
		A: 1.0,
	}
}

// FromVec3 creates an opaque color from linear RGB.
func FromVec3(v mgl32.Vec3) Color {
	return Color{v[0], v[1], v[2], 1}
}

// Vec4 returns the color as a shader vector.
func (c Color) Vec4() mgl32.Vec4 {
	return mgl32.Vec4{c.R, c.G, c.B, c.A}
}

// WithAlpha returns a copy of the color with a different alpha value.
func (c Color) WithAlpha(a float32) Color {
	return Color{c.R, c.G, c.B, a}
}

// Lighten returns a lighter version of the color.
func (c Color) Lighten(factor float32) Color {
	return Color{
		R: c.R + (1-c.R)*factor,
		G: c.G + (1-c.G)*factor,
		B: c.B + (1-c.B)*factor,
		A: c.A,
	}
}
