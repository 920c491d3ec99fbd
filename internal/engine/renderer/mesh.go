package renderer

import (
	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/showroom/internal/engine/scene"
)

// gpuMesh is an uploaded mesh: interleaved position+normal with indices.
type gpuMesh struct {
	vao, vbo, ebo uint32
	indexCount    int32
}

// interleave packs positions and normals as 6 floats per vertex.
func interleave(positions, normals []mgl32.Vec3) []float32 {
	out := make([]float32, 0, len(positions)*6)
	for i, p := range positions {
		n := mgl32.Vec3{0, 1, 0}
		if i < len(normals) {
			n = normals[i]
		}
		out = append(out, p[0], p[1], p[2], n[0], n[1], n[2])
	}
	return out
}

func uploadMesh(m *scene.Mesh) *gpuMesh {
	if len(m.Normals) != len(m.Positions) {
		m.ComputeNormals()
	}
	vertices := interleave(m.Positions, m.Normals)

	g := &gpuMesh{indexCount: int32(len(m.Indices))}
	gl.GenVertexArrays(1, &g.vao)
	gl.BindVertexArray(g.vao)

	gl.GenBuffers(1, &g.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, g.vbo)
	if len(vertices) > 0 {
		gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*4, gl.Ptr(vertices), gl.STATIC_DRAW)
	}

	gl.GenBuffers(1, &g.ebo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, g.ebo)
	if len(m.Indices) > 0 {
		gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(m.Indices)*4, gl.Ptr(m.Indices), gl.STATIC_DRAW)
	}

	stride := int32(6 * 4)
	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, stride, 0)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointerWithOffset(1, 3, gl.FLOAT, false, stride, 3*4)
	gl.EnableVertexAttribArray(1)

	gl.BindVertexArray(0)
	return g
}

func (g *gpuMesh) release() {
	gl.DeleteVertexArrays(1, &g.vao)
	gl.DeleteBuffers(1, &g.vbo)
	gl.DeleteBuffers(1, &g.ebo)
}

// groundMesh is a square plane at height y facing up.
func groundMesh(y, halfSize float32, color mgl32.Vec3) *scene.Mesh {
	m := scene.NewMesh([]mgl32.Vec3{
		{-halfSize, y, -halfSize},
		{halfSize, y, -halfSize},
		{halfSize, y, halfSize},
		{-halfSize, y, halfSize},
	}, []uint32{0, 2, 1, 0, 3, 2})
	m.Normals = []mgl32.Vec3{{0, 1, 0}, {0, 1, 0}, {0, 1, 0}, {0, 1, 0}}
	m.Color = color
	m.Metalness = 0
	m.Roughness = 1
	return m
}
