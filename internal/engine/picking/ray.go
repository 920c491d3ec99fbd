// Package picking provides ray casting against scene geometry.
package picking

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/showroom/internal/engine/scene"
)

const epsilon = 1e-7

// Ray represents a ray in 3D space with origin and direction.
type Ray struct {
	Origin    mgl32.Vec3
	Direction mgl32.Vec3 // Normalized direction
}

// At returns the point at distance t along the ray.
func (r Ray) At(t float32) mgl32.Vec3 {
	return r.Origin.Add(r.Direction.Mul(t))
}

// FromNDC unprojects normalized device coordinates into a world-space ray
// starting on the near plane.
func FromNDC(ndc mgl32.Vec2, invViewProj mgl32.Mat4) Ray {
	nearWorld := invViewProj.Mul4x1(mgl32.Vec4{ndc[0], ndc[1], -1, 1})
	farWorld := invViewProj.Mul4x1(mgl32.Vec4{ndc[0], ndc[1], 1, 1})

	// Perspective divide
	near := nearWorld.Vec3()
	if nearWorld[3] != 0 {
		near = near.Mul(1 / nearWorld[3])
	}
	far := farWorld.Vec3()
	if farWorld[3] != 0 {
		far = far.Mul(1 / farWorld[3])
	}

	dir := far.Sub(near)
	if dir.Len() > 0 {
		dir = dir.Normalize()
	}
	return Ray{Origin: near, Direction: dir}
}

// IntersectAABB tests ray intersection with an axis-aligned bounding box.
// Returns the distance to intersection (t) and whether intersection occurred.
// If the ray starts inside the box, returns the exit distance.
func (r Ray) IntersectAABB(box scene.Box3) (t float32, hit bool) {
	if box.IsEmpty() {
		return 0, false
	}
	tmin := float32(-math32.MaxFloat32)
	tmax := float32(math32.MaxFloat32)

	for axis := 0; axis < 3; axis++ {
		if r.Direction[axis] == 0 {
			if r.Origin[axis] < box.Min[axis] || r.Origin[axis] > box.Max[axis] {
				return 0, false
			}
			continue
		}
		t1 := (box.Min[axis] - r.Origin[axis]) / r.Direction[axis]
		t2 := (box.Max[axis] - r.Origin[axis]) / r.Direction[axis]
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tmin = math32.Max(tmin, t1)
		tmax = math32.Min(tmax, t2)
	}

	if tmax < tmin || tmax < 0 {
		return 0, false
	}
	if tmin < 0 {
		return tmax, true
	}
	return tmin, true
}

// IntersectTriangle is the Möller–Trumbore test. Both faces count.
func (r Ray) IntersectTriangle(a, b, c mgl32.Vec3) (t float32, hit bool) {
	e1 := b.Sub(a)
	e2 := c.Sub(a)
	p := r.Direction.Cross(e2)
	det := e1.Dot(p)
	if math32.Abs(det) < epsilon {
		return 0, false
	}
	inv := 1 / det

	s := r.Origin.Sub(a)
	u := s.Dot(p) * inv
	if u < 0 || u > 1 {
		return 0, false
	}
	q := s.Cross(e1)
	v := r.Direction.Dot(q) * inv
	if v < 0 || u+v > 1 {
		return 0, false
	}

	t = e2.Dot(q) * inv
	if t < 0 {
		return 0, false
	}
	return t, true
}

// Hit describes the nearest intersection with a node's geometry.
type Hit struct {
	Node     *scene.Node
	Distance float32
	Point    mgl32.Vec3
}

// IntersectNode casts r against every drawable under root, in world space,
// and returns the nearest hit. A nil root never hits.
func IntersectNode(root *scene.Node, r Ray) (Hit, bool) {
	var best Hit
	found := false
	if root == nil {
		return best, false
	}

	root.Traverse(func(n *scene.Node) {
		if n.Mesh == nil {
			return
		}
		world := n.WorldMatrix()
		if _, ok := r.IntersectAABB(n.Mesh.LocalBounds().Transform(world)); !ok {
			return
		}
		for i := 0; i < n.Mesh.TriangleCount(); i++ {
			a, b, c := n.Mesh.Triangle(i)
			t, ok := r.IntersectTriangle(
				mgl32.TransformCoordinate(a, world),
				mgl32.TransformCoordinate(b, world),
				mgl32.TransformCoordinate(c, world),
			)
			if ok && (!found || t < best.Distance) {
				best = Hit{Node: n, Distance: t, Point: r.At(t)}
				found = true
			}
		}
	})
	return best, found
}
