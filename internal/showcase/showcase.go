// Package showcase is the mountable vehicle background: it loads the
// model, plays the intro spiral, then drives orientation, hover and zoom
// from window-level input on every frame.
package showcase

import (
	"context"
	"math"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/showroom/internal/engine/camera"
	"github.com/Faultbox/showroom/internal/engine/envmap"
	"github.com/Faultbox/showroom/internal/engine/frame"
	"github.com/Faultbox/showroom/internal/engine/input"
	"github.com/Faultbox/showroom/internal/engine/interaction"
	"github.com/Faultbox/showroom/internal/engine/intro"
	"github.com/Faultbox/showroom/internal/engine/model"
	"github.com/Faultbox/showroom/internal/engine/picking"
	"github.com/Faultbox/showroom/internal/engine/scene"
	"github.com/Faultbox/showroom/internal/engine/ui2d"
)

// Surface is the window region the showcase draws into.
type Surface interface {
	Size() (int, int)
	PixelRatio() float32
	Present()
	Detach()
}

// Drawer renders a scene onto the surface.
type Drawer interface {
	Resize(width, height int, pixelRatio float32)
	SetEnvironment(c mgl32.Vec3)
	Draw(s *scene.Scene, v *camera.Viewport, quads []ui2d.Quad)
	Release()
}

// Loader decodes an asset in the background and calls done on the frame
// loop, with nil on failure.
type Loader interface {
	Load(ctx context.Context, ref string, opts model.Options, done func(*scene.Node))
}

// Fetcher provides raw bytes for the optional environment map.
type Fetcher interface {
	Fetch(ctx context.Context, ref string) ([]byte, error)
}

// Deps are the collaborators a showcase runs on.
type Deps struct {
	Scheduler *frame.Scheduler
	Input     *input.Dispatcher
	Surface   Surface
	Drawer    Drawer
	Loader    Loader
	// Fetcher is only needed with an environment map.
	Fetcher Fetcher
	Logger  *zap.Logger
}

// Options is the public configuration surface.
type Options struct {
	AssetURL     string
	TargetSize   float32
	HoverEnabled bool
	InitialYaw   float32
	// Color, when set, overrides the model's material colors.
	Color   *mgl32.Vec3
	Shadows bool
	// EnvironmentMap is an optional image whose average color tints the
	// ambient light.
	EnvironmentMap string

	Intro       intro.Params
	Interaction interaction.Params
	// Grace is how long input stays locked after the intro.
	Grace time.Duration

	FOV, Near, Far float32

	// OnIntroComplete runs once, on the frame the intro finishes.
	OnIntroComplete func()
}

// DefaultOptions returns the stock showcase setup.
func DefaultOptions() Options {
	return Options{
		AssetURL:     "assets/vehicle.glb",
		TargetSize:   5,
		HoverEnabled: true,
		Shadows:      true,
		Intro: intro.Params{
			Duration:      2500 * time.Millisecond,
			StartRadius:   20,
			StartHeight:   10,
			StartAngle:    -math.Pi / 2,
			FinalPosition: mgl32.Vec3{10, 5, 6},
			LookTarget:    mgl32.Vec3{1, 3, 0},
		},
		Interaction: interaction.DefaultParams(),
		Grace:       600 * time.Millisecond,
		FOV:         45,
		Near:        0.1,
		Far:         1000,
	}
}

// Showcase is one mounted background. All methods run on the frame loop.
type Showcase struct {
	deps Deps
	opts Options
	log  *zap.Logger

	scene    *scene.Scene
	viewport *camera.Viewport
	director *intro.Director
	arb      *interaction.Arbitrator
	toggle   ui2d.Toggle

	ctx    context.Context
	cancel context.CancelFunc

	// distance is the zoom last applied to the viewport.
	distance float32

	frameID     frame.FrameID
	timers      []frame.TimerID
	unsubscribe []func()

	mounted   bool
	introDone bool
	loaded    bool
}

// Mount builds the scene, subscribes to window input, starts the asset
// load and schedules the first frame.
func Mount(deps Deps, opts Options) *Showcase {
	log := deps.Logger
	if log == nil {
		log = zap.NewNop()
	}

	s := &Showcase{
		deps:    deps,
		opts:    opts,
		log:     log,
		scene:   scene.New(opts.InitialYaw),
		mounted: true,
	}
	s.ctx, s.cancel = context.WithCancel(context.Background())

	width, height := deps.Surface.Size()
	s.viewport = camera.NewViewport(width, height, opts.FOV, opts.Near, opts.Far)
	s.viewport.LookAt(opts.Intro.PositionAt(0), opts.Intro.LookTarget)
	s.toggle.Layout(width, height)

	s.director = intro.New(opts.Intro, deps.Scheduler.Now())

	params := opts.Interaction
	params.HoverEnabled = opts.HoverEnabled
	s.arb = interaction.New(params, opts.Intro.FinalPosition.Sub(opts.Intro.LookTarget).Len())
	s.distance = s.arb.Distance()

	s.subscribe(input.KindPointerMove, s.onPointerMove)
	s.subscribe(input.KindWheel, s.onWheel)
	s.subscribe(input.KindButtonDown, s.onButtonDown)
	s.subscribe(input.KindKeyDown, s.onKeyDown)
	s.subscribe(input.KindResize, s.onResize)

	deps.Loader.Load(s.ctx, opts.AssetURL, model.Options{
		TargetSize: opts.TargetSize,
		Shadows:    opts.Shadows,
		Color:      opts.Color,
	}, s.onLoaded)

	if opts.EnvironmentMap != "" && deps.Fetcher != nil {
		s.loadEnvironment(opts.EnvironmentMap)
	}

	s.frameID = deps.Scheduler.RequestFrame(s.frame)
	log.Info("showcase mounted",
		zap.String("asset", opts.AssetURL),
		zap.Int("width", width),
		zap.Int("height", height))
	return s
}

func (s *Showcase) subscribe(kind input.Kind, fn func(input.Event)) {
	s.unsubscribe = append(s.unsubscribe, s.deps.Input.Subscribe(kind, fn))
}

// Unmount stops the frame loop, drops every listener and timer, releases
// GPU resources and detaches the surface. Safe to call more than once and
// at any phase.
func (s *Showcase) Unmount() {
	if !s.mounted {
		return
	}
	s.mounted = false
	s.cancel()

	s.deps.Scheduler.CancelFrame(s.frameID)
	for _, id := range s.timers {
		s.deps.Scheduler.CancelTimer(id)
	}
	s.timers = nil
	for _, unsub := range s.unsubscribe {
		unsub()
	}
	s.unsubscribe = nil

	s.deps.Drawer.Release()
	s.deps.Surface.Detach()
	s.log.Info("showcase unmounted", zap.Bool("loaded", s.loaded), zap.Bool("intro_done", s.introDone))
}

// Mounted reports whether Unmount has not run yet.
func (s *Showcase) Mounted() bool { return s.mounted }

// IntroDone reports whether the intro has finished.
func (s *Showcase) IntroDone() bool { return s.introDone }

// Loaded reports whether a model has been attached.
func (s *Showcase) Loaded() bool { return s.loaded }

// Scene returns the showcase's scene graph.
func (s *Showcase) Scene() *scene.Scene { return s.scene }

// Viewport returns the camera.
func (s *Showcase) Viewport() *camera.Viewport { return s.viewport }

// Interaction returns the input arbitrator.
func (s *Showcase) Interaction() *interaction.Arbitrator { return s.arb }

// Toggle returns the auto-spin control.
func (s *Showcase) Toggle() *ui2d.Toggle { return &s.toggle }

// ToggleAutoSpin flips auto-spin and returns the new state. Ignored until
// input unlocks.
func (s *Showcase) ToggleAutoSpin() bool {
	on := s.arb.ToggleAutoSpin()
	s.toggle.On = on
	return on
}

func (s *Showcase) onLoaded(obj *scene.Node) {
	if !s.mounted {
		return
	}
	if obj == nil {
		s.log.Info("no model loaded, showing empty stage")
		return
	}
	// Input drove the model group until now. Hand its pose to the object
	// so the two rotations do not stack.
	g := s.scene.ModelGroup
	obj.Rotation = mgl32.Vec3{g.Rotation[0], g.Rotation[1] - s.opts.InitialYaw, g.Rotation[2]}
	obj.Scale = g.Scale
	g.Rotation = mgl32.Vec3{0, s.opts.InitialYaw, 0}
	g.Scale = mgl32.Vec3{1, 1, 1}

	s.scene.Attach(obj)
	s.loaded = true
}

func (s *Showcase) loadEnvironment(ref string) {
	ctx := s.ctx
	go func() {
		data, err := s.deps.Fetcher.Fetch(ctx, ref)
		if ctx.Err() != nil {
			return
		}
		if err != nil {
			s.log.Debug("environment map unavailable", zap.String("ref", ref), zap.Error(err))
			return
		}
		c, format, err := envmap.AmbientFromImage(data)
		if err != nil {
			s.log.Debug("environment map unreadable", zap.String("ref", ref), zap.Error(err))
			return
		}
		s.log.Debug("environment map loaded", zap.String("format", format))
		s.deps.Scheduler.Post(func() {
			if s.mounted {
				s.deps.Drawer.SetEnvironment(c)
			}
		})
	}()
}

func (s *Showcase) frame(now time.Time) {
	if !s.mounted {
		return
	}

	if s.director.Phase() == intro.PhaseRunning {
		f := s.director.Update(now)
		s.viewport.LookAt(f.Position, f.Target)
		if f.Finished {
			s.finishIntro()
		}
	} else if d := s.arb.Distance(); d != s.distance {
		// Only on change, so the intro's final pose is kept exactly.
		s.viewport.SetDistance(d)
		s.distance = d
	}

	s.arb.SetHover(s.pick())
	s.apply(s.arb.Step())

	s.deps.Drawer.Draw(s.scene, s.viewport, s.toggle.Quads())
	s.deps.Surface.Present()

	if s.mounted {
		s.frameID = s.deps.Scheduler.RequestFrame(s.frame)
	}
}

func (s *Showcase) finishIntro() {
	s.introDone = true
	s.arb.EndIntro()

	id := s.deps.Scheduler.After(s.opts.Grace, func() {
		s.timers = nil
		s.arb.Unlock()
		s.toggle.Visible = true
		s.log.Debug("input unlocked")
	})
	s.timers = append(s.timers, id)

	s.log.Info("intro complete")
	if s.opts.OnIntroComplete != nil {
		s.opts.OnIntroComplete()
	}
}

// pick casts a ray through the last pointer position at the loaded object.
func (s *Showcase) pick() bool {
	obj := s.scene.Object()
	ndc, ok := s.arb.Pointer()
	if obj == nil || !ok {
		return false
	}
	ray := picking.FromNDC(ndc, s.viewport.ViewProjection().Inv())
	_, hit := picking.IntersectNode(obj, ray)
	return hit
}

// apply writes the frame's orientation onto the object, or onto the model
// group while nothing is loaded.
func (s *Showcase) apply(o interaction.Orientation) {
	target := s.scene.Target()
	base := float32(0)
	if target == s.scene.ModelGroup {
		base = s.opts.InitialYaw
	}

	switch o.Mode {
	case interaction.ModeAutoSpin:
		target.Rotation[1] += o.SpinDelta
	case interaction.ModeManual:
		target.Rotation[1] = base + o.Yaw
	}
	target.Rotation[0] = o.Pitch
	target.SetUniformScale(o.Scale)
}

func (s *Showcase) onPointerMove(ev input.Event) {
	s.arb.PointerMoved(s.viewport.NDC(ev.X, ev.Y), ev.DX)
	s.toggle.Hover(ev.X, ev.Y)
}

func (s *Showcase) onWheel(ev input.Event) {
	s.arb.Wheel(ev.WheelY)
}

func (s *Showcase) onButtonDown(ev input.Event) {
	if ev.Button == input.ButtonLeft && s.toggle.Hit(ev.X, ev.Y) {
		s.ToggleAutoSpin()
	}
}

func (s *Showcase) onKeyDown(ev input.Event) {
	if ev.Key == input.KeySpace && s.toggle.Visible {
		s.ToggleAutoSpin()
	}
}

func (s *Showcase) onResize(ev input.Event) {
	if ev.Width <= 0 || ev.Height <= 0 {
		return
	}
	s.viewport.Resize(ev.Width, ev.Height)
	s.toggle.Layout(ev.Width, ev.Height)
	s.deps.Drawer.Resize(ev.Width, ev.Height, s.deps.Surface.PixelRatio())
}
