package scene

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Box3 is an axis-aligned bounding box. An empty box has Min > Max.
type Box3 struct {
	Min mgl32.Vec3
	Max mgl32.Vec3
}

// EmptyBox returns a box that contains nothing.
func EmptyBox() Box3 {
	inf := math32.Inf(1)
	return Box3{
		Min: mgl32.Vec3{inf, inf, inf},
		Max: mgl32.Vec3{-inf, -inf, -inf},
	}
}

// IsEmpty reports whether the box contains no points.
func (b Box3) IsEmpty() bool {
	return b.Max[0] < b.Min[0] || b.Max[1] < b.Min[1] || b.Max[2] < b.Min[2]
}

// ExpandByPoint grows the box to contain p.
func (b *Box3) ExpandByPoint(p mgl32.Vec3) {
	for i := 0; i < 3; i++ {
		b.Min[i] = math32.Min(b.Min[i], p[i])
		b.Max[i] = math32.Max(b.Max[i], p[i])
	}
}

// Union grows the box to contain other.
func (b *Box3) Union(other Box3) {
	if other.IsEmpty() {
		return
	}
	b.ExpandByPoint(other.Min)
	b.ExpandByPoint(other.Max)
}

// Size returns the extent on each axis; zero for an empty box.
func (b Box3) Size() mgl32.Vec3 {
	if b.IsEmpty() {
		return mgl32.Vec3{}
	}
	return b.Max.Sub(b.Min)
}

// Center returns the midpoint; the origin for an empty box.
func (b Box3) Center() mgl32.Vec3 {
	if b.IsEmpty() {
		return mgl32.Vec3{}
	}
	return b.Min.Add(b.Max).Mul(0.5)
}

// MaxDimension returns the largest of the three extents.
func (b Box3) MaxDimension() float32 {
	s := b.Size()
	return math32.Max(s[0], math32.Max(s[1], s[2]))
}

// Transform returns the box enclosing the eight transformed corners.
func (b Box3) Transform(m mgl32.Mat4) Box3 {
	if b.IsEmpty() {
		return b
	}
	out := EmptyBox()
	for i := 0; i < 8; i++ {
		corner := mgl32.Vec3{b.Min[0], b.Min[1], b.Min[2]}
		if i&1 != 0 {
			corner[0] = b.Max[0]
		}
		if i&2 != 0 {
			corner[1] = b.Max[1]
		}
		if i&4 != 0 {
			corner[2] = b.Max[2]
		}
		out.ExpandByPoint(mgl32.TransformCoordinate(corner, m))
	}
	return out
}

// BoundsOf returns the world-space box of every drawable under n,
// vertex-exact rather than a union of transformed local boxes.
func BoundsOf(n *Node) Box3 {
	box := EmptyBox()
	n.Traverse(func(c *Node) {
		if c.Mesh == nil {
			return
		}
		world := c.WorldMatrix()
		for _, p := range c.Mesh.Positions {
			box.ExpandByPoint(mgl32.TransformCoordinate(p, world))
		}
	})
	return box
}
