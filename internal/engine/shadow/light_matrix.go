package shadow

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/showroom/internal/engine/scene"
)

// minRadius keeps the light frustum usable for tiny or empty scenes.
const minRadius = 1

// Radius returns the distance from the box center to a corner.
func Radius(b scene.Box3) float32 {
	return b.Size().Len() / 2
}

// DirectionalLightMatrix computes the light view-projection for a shadow
// map covering bounds. lightDir points toward the light.
func DirectionalLightMatrix(lightDir mgl32.Vec3, bounds scene.Box3) mgl32.Mat4 {
	center := bounds.Center()
	radius := math32.Max(Radius(bounds), minRadius)

	if lightDir.Len() == 0 {
		lightDir = mgl32.Vec3{0, 1, 0}
	}
	lightDir = lightDir.Normalize()

	// Position light far enough to encompass entire scene
	lightDistance := radius * 2
	lightPos := center.Add(lightDir.Mul(lightDistance))

	up := mgl32.Vec3{0, 1, 0}
	if math32.Abs(lightDir.Y()) > 0.99 {
		up = mgl32.Vec3{0, 0, 1}
	}
	view := mgl32.LookAtV(lightPos, center, up)

	padding := radius * 0.1
	halfSize := radius + padding
	far := lightDistance + radius + padding
	proj := mgl32.Ortho(-halfSize, halfSize, -halfSize, halfSize, 0.1, far)

	return proj.Mul4(view)
}
