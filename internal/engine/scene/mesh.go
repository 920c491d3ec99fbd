package scene

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Mesh is an indexed triangle list with a flat material color.
type Mesh struct {
	Positions []mgl32.Vec3
	Normals   []mgl32.Vec3
	Indices   []uint32

	Color     mgl32.Vec3
	Metalness float32
	Roughness float32
}

// DefaultColor is the light grey used when an asset carries no material.
var DefaultColor = mgl32.Vec3{0.898, 0.906, 0.922}

// NewMesh creates a mesh with the default material.
func NewMesh(positions []mgl32.Vec3, indices []uint32) *Mesh {
	return &Mesh{
		Positions: positions,
		Indices:   indices,
		Color:     DefaultColor,
		Metalness: 0.3,
		Roughness: 0.5,
	}
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// Triangle returns the three corners of triangle i in mesh space.
func (m *Mesh) Triangle(i int) (a, b, c mgl32.Vec3) {
	return m.Positions[m.Indices[i*3]], m.Positions[m.Indices[i*3+1]], m.Positions[m.Indices[i*3+2]]
}

// ComputeNormals fills Normals with area-weighted smooth vertex normals.
// Degenerate triangles contribute nothing.
func (m *Mesh) ComputeNormals() {
	normals := make([]mgl32.Vec3, len(m.Positions))
	for i := 0; i+2 < len(m.Indices); i += 3 {
		ia, ib, ic := m.Indices[i], m.Indices[i+1], m.Indices[i+2]
		a, b, c := m.Positions[ia], m.Positions[ib], m.Positions[ic]
		face := b.Sub(a).Cross(c.Sub(a))
		normals[ia] = normals[ia].Add(face)
		normals[ib] = normals[ib].Add(face)
		normals[ic] = normals[ic].Add(face)
	}
	for i, n := range normals {
		if n.Len() > 1e-12 {
			normals[i] = n.Normalize()
		} else {
			normals[i] = mgl32.Vec3{0, 1, 0}
		}
	}
	m.Normals = normals
}

// LocalBounds returns the mesh-space bounding box.
func (m *Mesh) LocalBounds() Box3 {
	b := EmptyBox()
	for _, p := range m.Positions {
		b.ExpandByPoint(p)
	}
	return b
}
