package model

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/showroom/internal/engine/scene"
	"github.com/Faultbox/showroom/pkg/formats"
)

// FromOBJ builds one mesh node per OBJ group under a common parent.
// Vertices are shared where position and normal references match; groups
// without authored normals get smooth computed ones.
func FromOBJ(name string, obj *formats.OBJ) *scene.Node {
	root := scene.NewGroup(name)

	for _, g := range obj.Groups {
		type key struct{ pos, normal int }
		index := make(map[key]uint32)

		var positions, normals []mgl32.Vec3
		indices := make([]uint32, 0, len(g.Triangles)*3)
		authored := true

		for _, tri := range g.Triangles {
			for _, ref := range tri {
				k := key{ref.Position, ref.Normal}
				idx, ok := index[k]
				if !ok {
					idx = uint32(len(positions))
					index[k] = idx
					positions = append(positions, mgl32.Vec3(obj.Positions[ref.Position]))
					if ref.Normal >= 0 {
						normals = append(normals, mgl32.Vec3(obj.Normals[ref.Normal]).Normalize())
					} else {
						authored = false
						normals = append(normals, mgl32.Vec3{})
					}
				}
				indices = append(indices, idx)
			}
		}

		mesh := scene.NewMesh(positions, indices)
		if authored {
			mesh.Normals = normals
		} else {
			mesh.ComputeNormals()
		}

		nodeName := g.Name
		if nodeName == "" {
			nodeName = name
		}
		root.Add(scene.NewMeshNode(nodeName, mesh))
	}

	return root
}
