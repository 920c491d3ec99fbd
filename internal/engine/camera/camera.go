// Package camera provides the showcase's perspective viewport.
package camera

import (
	"github.com/go-gl/mathgl/mgl32"
)

var up = mgl32.Vec3{0, 1, 0}

// Viewport is a perspective camera looking at a fixed target.
type Viewport struct {
	Width, Height int

	// FOV is the vertical field of view in degrees.
	FOV       float32
	Near, Far float32

	Position mgl32.Vec3
	Target   mgl32.Vec3
}

// NewViewport creates a viewport of the given pixel size.
func NewViewport(width, height int, fov, near, far float32) *Viewport {
	return &Viewport{
		Width:  width,
		Height: height,
		FOV:    fov,
		Near:   near,
		Far:    far,
	}
}

// Aspect returns width/height, or 1 for an empty viewport.
func (v *Viewport) Aspect() float32 {
	if v.Width <= 0 || v.Height <= 0 {
		return 1
	}
	return float32(v.Width) / float32(v.Height)
}

// Resize updates the viewport size. Non-positive sizes are ignored.
func (v *Viewport) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	v.Width = width
	v.Height = height
}

// LookAt sets the camera pose.
func (v *Viewport) LookAt(position, target mgl32.Vec3) {
	v.Position = position
	v.Target = target
}

// View returns the view matrix.
func (v *Viewport) View() mgl32.Mat4 {
	return mgl32.LookAtV(v.Position, v.Target, up)
}

// Projection returns the perspective projection matrix.
func (v *Viewport) Projection() mgl32.Mat4 {
	return mgl32.Perspective(mgl32.DegToRad(v.FOV), v.Aspect(), v.Near, v.Far)
}

// ViewProjection returns Projection * View.
func (v *Viewport) ViewProjection() mgl32.Mat4 {
	return v.Projection().Mul4(v.View())
}

// Distance returns the camera's distance from its look target.
func (v *Viewport) Distance() float32 {
	return v.Position.Sub(v.Target).Len()
}

// SetDistance moves the camera along its current viewing direction so it
// sits d units from the look target. A camera sitting on its target is
// moved along +Z.
func (v *Viewport) SetDistance(d float32) {
	dir := v.Position.Sub(v.Target)
	if dir.Len() == 0 {
		dir = mgl32.Vec3{0, 0, 1}
	}
	v.Position = v.Target.Add(dir.Normalize().Mul(d))
}

// NDC converts window pixel coordinates (origin top left) to normalized
// device coordinates in [-1, 1] with +Y up.
func (v *Viewport) NDC(px, py float32) mgl32.Vec2 {
	w, h := float32(v.Width), float32(v.Height)
	if w <= 0 || h <= 0 {
		return mgl32.Vec2{}
	}
	return mgl32.Vec2{2*px/w - 1, 1 - 2*py/h}
}
