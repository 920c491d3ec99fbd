package renderer

import (
	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/showroom/internal/engine/shader"
	"github.com/Faultbox/showroom/internal/engine/ui2d"
)

// overlay draws screen-space quads on top of the scene.
type overlay struct {
	program  *shader.Program
	vao, vbo uint32
	vertices []float32
}

func newOverlay() (*overlay, error) {
	p, err := shader.New(overlayVertex, overlayFragment)
	if err != nil {
		return nil, err
	}
	o := &overlay{program: p, vertices: make([]float32, 0, 6*6*4)}

	gl.GenVertexArrays(1, &o.vao)
	gl.BindVertexArray(o.vao)
	gl.GenBuffers(1, &o.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, o.vbo)

	// Vertex format: pos(2) + color(4)
	stride := int32(6 * 4)
	gl.VertexAttribPointerWithOffset(0, 2, gl.FLOAT, false, stride, 0)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointerWithOffset(1, 4, gl.FLOAT, false, stride, 2*4)
	gl.EnableVertexAttribArray(1)

	gl.BindVertexArray(0)
	return o, nil
}

// quadVertices appends two triangles per quad.
func quadVertices(dst []float32, quads []ui2d.Quad) []float32 {
	for _, q := range quads {
		x0, y0 := q.Rect.X, q.Rect.Y
		x1, y1 := x0+q.Rect.W, y0+q.Rect.H
		c := q.Color
		for _, p := range [6][2]float32{{x0, y0}, {x1, y0}, {x1, y1}, {x0, y0}, {x1, y1}, {x0, y1}} {
			dst = append(dst, p[0], p[1], c.R, c.G, c.B, c.A)
		}
	}
	return dst
}

// draw renders quads in pixel coordinates of a width x height screen.
func (o *overlay) draw(quads []ui2d.Quad, width, height int) {
	if len(quads) == 0 {
		return
	}
	o.vertices = quadVertices(o.vertices[:0], quads)

	gl.Disable(gl.DEPTH_TEST)
	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)

	o.program.Use()
	o.program.SetMat4("uProjection", mgl32.Ortho(0, float32(width), float32(height), 0, -1, 1))

	gl.BindVertexArray(o.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, o.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(o.vertices)*4, gl.Ptr(o.vertices), gl.DYNAMIC_DRAW)
	gl.DrawArrays(gl.TRIANGLES, 0, int32(len(o.vertices)/6))
	gl.BindVertexArray(0)

	gl.Disable(gl.BLEND)
	gl.Enable(gl.DEPTH_TEST)
}

func (o *overlay) release() {
	gl.DeleteVertexArrays(1, &o.vao)
	gl.DeleteBuffers(1, &o.vbo)
	o.program.Delete()
}
