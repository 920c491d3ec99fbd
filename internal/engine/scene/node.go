// Package scene provides the small scene graph the showcase mutates each frame.
package scene

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Node is a transform in the scene graph. A node with a Mesh is drawable;
// a node without one is a group.
type Node struct {
	Name string

	Position mgl32.Vec3
	Rotation mgl32.Vec3 // Euler angles in radians, applied X then Y then Z
	Scale    mgl32.Vec3

	// Transform is an asset-authored local matrix applied beneath the
	// position/rotation/scale above. The zero value means identity.
	Transform mgl32.Mat4

	Mesh          *Mesh
	CastShadow    bool
	ReceiveShadow bool

	Children []*Node
	parent   *Node
}

// NewGroup creates an empty node with unit scale.
func NewGroup(name string) *Node {
	return &Node{
		Name:  name,
		Scale: mgl32.Vec3{1, 1, 1},
	}
}

// NewMeshNode creates a drawable node.
func NewMeshNode(name string, mesh *Mesh) *Node {
	n := NewGroup(name)
	n.Mesh = mesh
	return n
}

// Add attaches child to n, detaching it from any previous parent.
func (n *Node) Add(child *Node) {
	if child.parent != nil {
		child.parent.Remove(child)
	}
	child.parent = n
	n.Children = append(n.Children, child)
}

// Remove detaches child from n. It reports whether child was attached.
func (n *Node) Remove(child *Node) bool {
	for i, c := range n.Children {
		if c == child {
			n.Children = append(n.Children[:i], n.Children[i+1:]...)
			child.parent = nil
			return true
		}
	}
	return false
}

// Parent returns the node's parent, or nil for a root.
func (n *Node) Parent() *Node {
	return n.parent
}

// Traverse calls fn for n and every descendant, depth first.
func (n *Node) Traverse(fn func(*Node)) {
	fn(n)
	for _, c := range n.Children {
		c.Traverse(fn)
	}
}

// LocalMatrix returns T * Rx * Ry * Rz * S * Transform.
func (n *Node) LocalMatrix() mgl32.Mat4 {
	m := mgl32.Translate3D(n.Position[0], n.Position[1], n.Position[2])
	m = m.Mul4(mgl32.HomogRotate3DX(n.Rotation[0]))
	m = m.Mul4(mgl32.HomogRotate3DY(n.Rotation[1]))
	m = m.Mul4(mgl32.HomogRotate3DZ(n.Rotation[2]))
	m = m.Mul4(mgl32.Scale3D(n.Scale[0], n.Scale[1], n.Scale[2]))
	if n.Transform != (mgl32.Mat4{}) {
		m = m.Mul4(n.Transform)
	}
	return m
}

// WorldMatrix returns the product of every ancestor's local matrix and n's.
func (n *Node) WorldMatrix() mgl32.Mat4 {
	m := n.LocalMatrix()
	for p := n.parent; p != nil; p = p.parent {
		m = p.LocalMatrix().Mul4(m)
	}
	return m
}

// SetUniformScale sets the same scale on all three axes.
func (n *Node) SetUniformScale(s float32) {
	n.Scale = mgl32.Vec3{s, s, s}
}

// DrawableCount returns the number of nodes carrying a mesh.
func (n *Node) DrawableCount() int {
	count := 0
	n.Traverse(func(c *Node) {
		if c.Mesh != nil {
			count++
		}
	})
	return count
}
