package model

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/Faultbox/showroom/internal/engine/scene"
)

// ErrGLTFNoGeometry is returned when a document has no triangle primitives.
var ErrGLTFNoGeometry = errors.New("glTF document contains no triangle meshes")

// FromGLTF builds the node hierarchy of the document's default scene.
// Only triangle-list primitives are kept; points and lines are skipped.
func FromGLTF(name string, doc *gltf.Document) (*scene.Node, error) {
	root := scene.NewGroup(name)

	b := gltfBuilder{doc: doc, visiting: make(map[int]bool)}
	for _, idx := range sceneRoots(doc) {
		child, err := b.node(idx)
		if err != nil {
			return nil, err
		}
		if child != nil {
			root.Add(child)
		}
	}

	if root.DrawableCount() == 0 {
		return nil, ErrGLTFNoGeometry
	}
	return root, nil
}

// sceneRoots returns the root node indices of the default scene, or every
// parentless node when the document declares no scenes.
func sceneRoots(doc *gltf.Document) []int {
	if len(doc.Scenes) > 0 {
		s := 0
		if doc.Scene != nil && *doc.Scene >= 0 && *doc.Scene < len(doc.Scenes) {
			s = int(*doc.Scene)
		}
		roots := make([]int, 0, len(doc.Scenes[s].Nodes))
		for _, n := range doc.Scenes[s].Nodes {
			roots = append(roots, int(n))
		}
		return roots
	}

	isChild := make(map[int]bool)
	for _, n := range doc.Nodes {
		for _, c := range n.Children {
			isChild[int(c)] = true
		}
	}
	var roots []int
	for i := range doc.Nodes {
		if !isChild[i] {
			roots = append(roots, i)
		}
	}
	return roots
}

type gltfBuilder struct {
	doc      *gltf.Document
	visiting map[int]bool
}

func (b *gltfBuilder) node(idx int) (*scene.Node, error) {
	if idx < 0 || idx >= len(b.doc.Nodes) || b.visiting[idx] {
		return nil, nil
	}
	b.visiting[idx] = true
	defer delete(b.visiting, idx)

	src := b.doc.Nodes[idx]
	n := scene.NewGroup(src.Name)
	n.Transform = nodeMatrix(src)

	if src.Mesh != nil {
		meshIdx := int(*src.Mesh)
		if meshIdx < 0 || meshIdx >= len(b.doc.Meshes) {
			return nil, fmt.Errorf("node %d: mesh %d out of range", idx, meshIdx)
		}
		for p, prim := range b.doc.Meshes[meshIdx].Primitives {
			mesh, err := b.primitive(prim)
			if err != nil {
				return nil, fmt.Errorf("mesh %d primitive %d: %w", meshIdx, p, err)
			}
			if mesh != nil {
				n.Add(scene.NewMeshNode(b.doc.Meshes[meshIdx].Name, mesh))
			}
		}
	}

	for _, c := range src.Children {
		child, err := b.node(int(c))
		if err != nil {
			return nil, err
		}
		if child != nil {
			n.Add(child)
		}
	}
	return n, nil
}

func (b *gltfBuilder) primitive(prim *gltf.Primitive) (*scene.Mesh, error) {
	if prim.Mode != gltf.PrimitiveTriangles {
		return nil, nil
	}
	posIdx, ok := prim.Attributes[gltf.POSITION]
	if !ok {
		return nil, nil
	}

	posAcc, err := b.accessor(posIdx)
	if err != nil {
		return nil, fmt.Errorf("positions: %w", err)
	}
	raw, err := modeler.ReadPosition(b.doc, posAcc, nil)
	if err != nil {
		return nil, fmt.Errorf("positions: %w", err)
	}
	positions := make([]mgl32.Vec3, len(raw))
	for i, p := range raw {
		positions[i] = mgl32.Vec3(p)
	}

	var indices []uint32
	if prim.Indices != nil {
		idxAcc, err := b.accessor(int(*prim.Indices))
		if err != nil {
			return nil, fmt.Errorf("indices: %w", err)
		}
		indices, err = modeler.ReadIndices(b.doc, idxAcc, nil)
		if err != nil {
			return nil, fmt.Errorf("indices: %w", err)
		}
	} else {
		indices = make([]uint32, len(positions))
		for i := range indices {
			indices[i] = uint32(i)
		}
	}
	indices = indices[:len(indices)/3*3]
	for _, i := range indices {
		if int(i) >= len(positions) {
			return nil, fmt.Errorf("index %d out of range", i)
		}
	}

	mesh := scene.NewMesh(positions, indices)
	if nIdx, ok := prim.Attributes[gltf.NORMAL]; ok {
		nAcc, err := b.accessor(int(nIdx))
		if err != nil {
			return nil, fmt.Errorf("normals: %w", err)
		}
		rawNormals, err := modeler.ReadNormal(b.doc, nAcc, nil)
		if err == nil && len(rawNormals) == len(positions) {
			mesh.Normals = make([]mgl32.Vec3, len(rawNormals))
			for i, n := range rawNormals {
				mesh.Normals[i] = mgl32.Vec3(n)
			}
		}
	}
	if mesh.Normals == nil {
		mesh.ComputeNormals()
	}

	if prim.Material != nil && *prim.Material >= 0 && *prim.Material < len(b.doc.Materials) {
		applyMaterial(mesh, b.doc.Materials[*prim.Material])
	}
	return mesh, nil
}

func (b *gltfBuilder) accessor(idx int) (*gltf.Accessor, error) {
	if idx < 0 || idx >= len(b.doc.Accessors) || b.doc.Accessors[idx] == nil {
		return nil, fmt.Errorf("accessor %d out of range", idx)
	}
	return b.doc.Accessors[idx], nil
}

func applyMaterial(mesh *scene.Mesh, mat *gltf.Material) {
	pbr := mat.PBRMetallicRoughness
	if pbr == nil {
		return
	}
	if pbr.BaseColorFactor != nil {
		c := *pbr.BaseColorFactor
		mesh.Color = mgl32.Vec3{float32(c[0]), float32(c[1]), float32(c[2])}
	}
	if pbr.MetallicFactor != nil {
		mesh.Metalness = float32(*pbr.MetallicFactor)
	}
	if pbr.RoughnessFactor != nil {
		mesh.Roughness = float32(*pbr.RoughnessFactor)
	}
}

// nodeMatrix returns the node's authored matrix, or T*R*S composed from
// its translation, rotation quaternion and scale.
func nodeMatrix(n *gltf.Node) mgl32.Mat4 {
	identity := [16]float64{1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1}
	if n.Matrix != identity && n.Matrix != ([16]float64{}) {
		var m mgl32.Mat4
		for i, v := range n.Matrix {
			m[i] = float32(v)
		}
		return m
	}

	t := n.Translation
	r := n.Rotation
	s := n.Scale
	if s == ([3]float64{}) {
		s = [3]float64{1, 1, 1}
	}
	q := mgl32.Quat{W: float32(r[3]), V: mgl32.Vec3{float32(r[0]), float32(r[1]), float32(r[2])}}
	if r == ([4]float64{}) {
		q = mgl32.QuatIdent()
	}

	return mgl32.Translate3D(float32(t[0]), float32(t[1]), float32(t[2])).
		Mul4(q.Normalize().Mat4()).
		Mul4(mgl32.Scale3D(float32(s[0]), float32(s[1]), float32(s[2])))
}
