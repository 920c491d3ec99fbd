// Package model turns decoded assets into scene nodes and fits them to the
// showcase: uniform scale to a target size, centered on the origin.
package model

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/showroom/internal/engine/scene"
)

// Options controls normalization.
type Options struct {
	// TargetSize is the length the object's largest dimension is scaled to.
	TargetSize float32
	// Shadows marks every drawable as shadow casting and receiving.
	Shadows bool
	// Color, when set, replaces every drawable's material with a plain
	// OverrideMetalness/OverrideRoughness finish in that color.
	Color *mgl32.Vec3
}

// Finish of the material a color override installs.
const (
	OverrideMetalness = 0.3
	OverrideRoughness = 0.5
)

// Result reports what Normalize did.
type Result struct {
	Bounds     scene.Box3
	Scale      float32
	Degenerate bool
}

// Normalize scales obj uniformly so its largest bounding dimension equals
// opts.TargetSize and moves it so its bounding box is centered on the
// origin. A zero-size box uses a divisor of 1.
func Normalize(obj *scene.Node, opts Options) Result {
	box := scene.BoundsOf(obj)

	maxDim := box.MaxDimension()
	degenerate := false
	if !(maxDim > 0) || math32.IsInf(maxDim, 0) {
		maxDim = 1
		degenerate = true
	}

	scale := opts.TargetSize / maxDim
	obj.SetUniformScale(scale)

	center := box.Center()
	obj.Position = obj.Position.Sub(center.Mul(scale))

	obj.Traverse(func(n *scene.Node) {
		if n.Mesh == nil {
			return
		}
		n.CastShadow = opts.Shadows
		n.ReceiveShadow = opts.Shadows
		if opts.Color != nil {
			n.Mesh.Color = *opts.Color
			n.Mesh.Metalness = OverrideMetalness
			n.Mesh.Roughness = OverrideRoughness
		}
	})

	return Result{Bounds: box, Scale: scale, Degenerate: degenerate}
}

// Pivot wraps obj in an identity group so rotations of the group turn
// the object about the origin its normalization centered it on.
func Pivot(obj *scene.Node) *scene.Node {
	pivot := scene.NewGroup("pivot")
	pivot.Add(obj)
	return pivot
}
