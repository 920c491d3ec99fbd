// Package renderer draws the showcase scene with OpenGL: a lit model over a
// shadow-receiving ground plane, plus the screen-space overlay.
package renderer

import (
	"fmt"

	"github.com/chewxy/math32"
	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/showroom/internal/engine/camera"
	"github.com/Faultbox/showroom/internal/engine/envmap"
	"github.com/Faultbox/showroom/internal/engine/framebuffer"
	"github.com/Faultbox/showroom/internal/engine/scene"
	"github.com/Faultbox/showroom/internal/engine/shader"
	"github.com/Faultbox/showroom/internal/engine/shadow"
	"github.com/Faultbox/showroom/internal/engine/ui2d"
	"github.com/Faultbox/showroom/internal/logger"
)

// groundHalfSize is half the ground plane's edge length.
const groundHalfSize = 40

// envStrength scales the environment color added to the ambient term.
const envStrength = 0.35

// Lighting is the explicit light rig. Colors are premultiplied by intensity.
type Lighting struct {
	Ambient       mgl32.Vec3
	LightColor    mgl32.Vec3
	LightPosition mgl32.Vec3
	GroundY       float32
	GroundColor   mgl32.Vec3
	Background    mgl32.Vec3
}

// Config holds renderer configuration.
type Config struct {
	// Width and Height are the logical window size.
	Width, Height int
	// PixelRatio is drawable pixels per logical pixel.
	PixelRatio    float32
	MaxPixelRatio float32

	Shadows          bool
	ShadowResolution int32

	Lighting Lighting
}

// RenderSize returns the offscreen target size for a logical size, with
// the pixel ratio capped at maxRatio.
func RenderSize(width, height int, ratio, maxRatio float32) (int, int) {
	if ratio <= 0 {
		ratio = 1
	}
	if maxRatio > 0 {
		ratio = math32.Min(ratio, maxRatio)
	}
	w := int(math32.Round(float32(width) * ratio))
	h := int(math32.Round(float32(height) * ratio))
	return max(w, 1), max(h, 1)
}

// Renderer handles all OpenGL rendering.
// IMPORTANT: Must be created AFTER the OpenGL context!
type Renderer struct {
	cfg Config

	program   *shader.Program
	overlay   *overlay
	target    *framebuffer.Framebuffer
	shadowMap *shadow.Map

	ground *scene.Mesh
	meshes map[*scene.Mesh]*gpuMesh

	ambient mgl32.Vec3

	released bool
}

// New initializes OpenGL and creates the renderer's resources.
func New(cfg Config) (*Renderer, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	logger.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
	)

	r := &Renderer{
		cfg:     cfg,
		ground:  groundMesh(cfg.Lighting.GroundY, groundHalfSize, cfg.Lighting.GroundColor),
		meshes:  make(map[*scene.Mesh]*gpuMesh),
		ambient: cfg.Lighting.Ambient,
	}

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)

	var err error
	if r.program, err = shader.New(sceneVertex, sceneFragment); err != nil {
		return nil, fmt.Errorf("scene shader: %w", err)
	}
	if r.overlay, err = newOverlay(); err != nil {
		r.Release()
		return nil, fmt.Errorf("overlay shader: %w", err)
	}

	w, h := RenderSize(cfg.Width, cfg.Height, cfg.PixelRatio, cfg.MaxPixelRatio)
	if r.target, err = framebuffer.New(int32(w), int32(h)); err != nil {
		r.Release()
		return nil, err
	}

	if cfg.Shadows {
		sm, err := shadow.NewMap(cfg.ShadowResolution)
		if err != nil {
			// Shadows are optional; the scene still renders lit.
			logger.Warn("shadow map unavailable", zap.Error(err))
		} else {
			r.shadowMap = sm
		}
	}

	logger.Info("renderer ready",
		zap.Int("width", w),
		zap.Int("height", h),
		zap.Bool("shadows", r.shadowMap != nil))
	return r, nil
}

// Resize handles a window resize.
func (r *Renderer) Resize(width, height int, pixelRatio float32) {
	if width <= 0 || height <= 0 {
		return
	}
	r.cfg.Width, r.cfg.Height = width, height
	r.cfg.PixelRatio = pixelRatio

	w, h := RenderSize(width, height, pixelRatio, r.cfg.MaxPixelRatio)
	r.target.Resize(int32(w), int32(h))
	logger.Debug("renderer resized", zap.Int("width", w), zap.Int("height", h))
}

// SetEnvironment tints the ambient light with an environment color.
func (r *Renderer) SetEnvironment(c mgl32.Vec3) {
	r.ambient = envmap.Tint(r.cfg.Lighting.Ambient, c, envStrength)
}

// Draw renders one frame: shadow pass, scene, overlay, then the blit onto
// the window.
func (r *Renderer) Draw(s *scene.Scene, v *camera.Viewport, quads []ui2d.Quad) {
	if r.released {
		return
	}
	r.sync(s.Root)

	lightDir := r.cfg.Lighting.LightPosition.Normalize()
	lightVP := mgl32.Ident4()
	if r.shadowMap != nil {
		lightVP = r.shadowPass(s, lightDir)
	}

	r.target.Bind()
	bg := r.cfg.Lighting.Background
	gl.ClearColor(bg[0], bg[1], bg[2], 1)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)

	p := r.program
	p.Use()
	p.SetMat4("uViewProj", v.ViewProjection())
	p.SetMat4("uLightVP", lightVP)
	p.SetVec3("uAmbient", r.ambient)
	p.SetVec3("uLightColor", r.cfg.Lighting.LightColor)
	p.SetVec3("uLightDir", lightDir)
	p.SetVec3("uCameraPos", v.Position)
	p.SetInt("uShadowMap", 0)
	if r.shadowMap != nil {
		r.shadowMap.BindTexture(gl.TEXTURE0)
	}

	r.drawMesh(r.ground, mgl32.Ident4(), true)
	s.Root.Traverse(func(n *scene.Node) {
		if n.Mesh != nil {
			r.drawMesh(n.Mesh, n.WorldMatrix(), n.ReceiveShadow)
		}
	})

	r.overlay.draw(quads, r.cfg.Width, r.cfg.Height)

	dw := int32(math32.Round(float32(r.cfg.Width) * math32.Max(r.cfg.PixelRatio, 1)))
	dh := int32(math32.Round(float32(r.cfg.Height) * math32.Max(r.cfg.PixelRatio, 1)))
	r.target.BlitToDefault(dw, dh)
}

func (r *Renderer) shadowPass(s *scene.Scene, lightDir mgl32.Vec3) mgl32.Mat4 {
	bounds := scene.BoundsOf(s.ModelGroup)
	if bounds.IsEmpty() {
		bounds.ExpandByPoint(mgl32.Vec3{})
	}
	bounds.ExpandByPoint(mgl32.Vec3{bounds.Min.X(), r.cfg.Lighting.GroundY, bounds.Min.Z()})

	lightVP := shadow.DirectionalLightMatrix(lightDir, bounds)
	r.shadowMap.Begin(lightVP)
	s.Root.Traverse(func(n *scene.Node) {
		if n.Mesh != nil && n.CastShadow {
			g := r.gpu(n.Mesh)
			r.shadowMap.Draw(n.WorldMatrix(), g.vao, g.indexCount)
		}
	})
	r.shadowMap.End()
	return lightVP
}

func (r *Renderer) drawMesh(m *scene.Mesh, model mgl32.Mat4, receive bool) {
	g := r.gpu(m)
	if g.indexCount == 0 {
		return
	}
	p := r.program
	p.SetMat4("uModel", model)
	p.SetVec3("uColor", m.Color)
	p.SetFloat("uMetalness", m.Metalness)
	p.SetFloat("uRoughness", m.Roughness)
	shadows := int32(0)
	if receive && r.shadowMap != nil {
		shadows = 1
	}
	p.SetInt("uShadows", shadows)

	gl.BindVertexArray(g.vao)
	gl.DrawElements(gl.TRIANGLES, g.indexCount, gl.UNSIGNED_INT, nil)
	gl.BindVertexArray(0)
}

func (r *Renderer) gpu(m *scene.Mesh) *gpuMesh {
	g, ok := r.meshes[m]
	if !ok {
		g = uploadMesh(m)
		r.meshes[m] = g
	}
	return g
}

// sync frees uploads of meshes that left the scene.
func (r *Renderer) sync(root *scene.Node) {
	live := map[*scene.Mesh]bool{r.ground: true}
	root.Traverse(func(n *scene.Node) {
		if n.Mesh != nil {
			live[n.Mesh] = true
		}
	})
	for m, g := range r.meshes {
		if !live[m] {
			g.release()
			delete(r.meshes, m)
		}
	}
}

// Screenshot returns the last frame as bottom-up RGBA rows.
func (r *Renderer) Screenshot() (pixels []byte, width, height int) {
	w, h := r.target.Size()
	return r.target.ReadPixels(), int(w), int(h)
}

// Release frees every GPU resource. Safe to call more than once.
func (r *Renderer) Release() {
	if r.released {
		return
	}
	r.released = true
	logger.Info("releasing renderer", zap.Int("meshes", len(r.meshes)))

	for m, g := range r.meshes {
		g.release()
		delete(r.meshes, m)
	}
	if r.shadowMap != nil {
		r.shadowMap.Destroy()
	}
	if r.target != nil {
		r.target.Destroy()
	}
	if r.overlay != nil {
		r.overlay.release()
	}
	if r.program != nil {
		r.program.Delete()
	}
}
