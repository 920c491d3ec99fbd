// Package shadow provides the directional-light depth map the showcase
// ground and model receive shadows from.
package shadow

import (
	"errors"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/showroom/internal/engine/shader"
)

// DefaultResolution is the default shadow map resolution.
const DefaultResolution = 2048

// ErrIncomplete is returned when the depth framebuffer cannot be built.
var ErrIncomplete = errors.New("shadow framebuffer incomplete")

const depthVertex = `
#version 410 core
layout (location = 0) in vec3 aPos;
uniform mat4 uLightVP;
uniform mat4 uModel;
void main() {
	gl_Position = uLightVP * uModel * vec4(aPos, 1.0);
}
`

const depthFragment = `
#version 410 core
void main() {}
`

// Map is a depth-only framebuffer sampled with sampler2DShadow.
type Map struct {
	FBO          uint32
	DepthTexture uint32
	Resolution   int32

	program      *shader.Program
	lightVP      mgl32.Mat4
	prevViewport [4]int32
}

// NewMap creates a shadow map. Resolution should be a power of 2.
func NewMap(resolution int32) (*Map, error) {
	if resolution <= 0 {
		resolution = DefaultResolution
	}

	program, err := shader.New(depthVertex, depthFragment)
	if err != nil {
		return nil, err
	}

	sm := &Map{Resolution: resolution, program: program}

	gl.GenFramebuffers(1, &sm.FBO)
	gl.BindFramebuffer(gl.FRAMEBUFFER, sm.FBO)

	gl.GenTextures(1, &sm.DepthTexture)
	gl.BindTexture(gl.TEXTURE_2D, sm.DepthTexture)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.DEPTH_COMPONENT24, resolution, resolution, 0,
		gl.DEPTH_COMPONENT, gl.FLOAT, nil)

	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)

	// Outside the light frustum counts as lit.
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_BORDER)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_BORDER)
	borderColor := []float32{1.0, 1.0, 1.0, 1.0}
	gl.TexParameterfv(gl.TEXTURE_2D, gl.TEXTURE_BORDER_COLOR, &borderColor[0])

	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_COMPARE_MODE, gl.COMPARE_REF_TO_TEXTURE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_COMPARE_FUNC, gl.LEQUAL)

	gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.DEPTH_ATTACHMENT, gl.TEXTURE_2D, sm.DepthTexture, 0)
	gl.DrawBuffer(gl.NONE)
	gl.ReadBuffer(gl.NONE)

	status := gl.CheckFramebufferStatus(gl.FRAMEBUFFER)
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	gl.BindTexture(gl.TEXTURE_2D, 0)

	if status != gl.FRAMEBUFFER_COMPLETE {
		sm.Destroy()
		return nil, ErrIncomplete
	}
	return sm, nil
}

// Begin binds the depth framebuffer for a pass seen from lightVP.
func (sm *Map) Begin(lightVP mgl32.Mat4) {
	sm.lightVP = lightVP
	gl.GetIntegerv(gl.VIEWPORT, &sm.prevViewport[0])

	gl.BindFramebuffer(gl.FRAMEBUFFER, sm.FBO)
	gl.Viewport(0, 0, sm.Resolution, sm.Resolution)
	gl.Clear(gl.DEPTH_BUFFER_BIT)

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)

	// Front-face culling reduces acne.
	gl.Enable(gl.CULL_FACE)
	gl.CullFace(gl.FRONT)

	sm.program.Use()
	sm.program.SetMat4("uLightVP", lightVP)
}

// Draw renders one indexed mesh into the depth map.
func (sm *Map) Draw(model mgl32.Mat4, vao uint32, indexCount int32) {
	sm.program.SetMat4("uModel", model)
	gl.BindVertexArray(vao)
	gl.DrawElements(gl.TRIANGLES, indexCount, gl.UNSIGNED_INT, nil)
}

// End restores the default framebuffer, viewport and culling.
func (sm *Map) End() {
	gl.BindVertexArray(0)
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	gl.Viewport(sm.prevViewport[0], sm.prevViewport[1], sm.prevViewport[2], sm.prevViewport[3])
	gl.CullFace(gl.BACK)
	gl.Disable(gl.CULL_FACE)
}

// LightVP returns the matrix of the last pass.
func (sm *Map) LightVP() mgl32.Mat4 {
	return sm.lightVP
}

// BindTexture binds the depth texture to the given texture unit.
func (sm *Map) BindTexture(textureUnit uint32) {
	gl.ActiveTexture(textureUnit)
	gl.BindTexture(gl.TEXTURE_2D, sm.DepthTexture)
}

// Destroy releases all GPU resources associated with this shadow map.
func (sm *Map) Destroy() {
	if sm.FBO != 0 {
		gl.DeleteFramebuffers(1, &sm.FBO)
		sm.FBO = 0
	}
	if sm.DepthTexture != 0 {
		gl.DeleteTextures(1, &sm.DepthTexture)
		sm.DepthTexture = 0
	}
	if sm.program != nil {
		sm.program.Delete()
	}
}
