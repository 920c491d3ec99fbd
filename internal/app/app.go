// Package app wires the window, renderer and showcase together and runs
// the main loop.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/showroom/internal/assets"
	"github.com/Faultbox/showroom/internal/config"
	"github.com/Faultbox/showroom/internal/engine/audio"
	"github.com/Faultbox/showroom/internal/engine/debug"
	"github.com/Faultbox/showroom/internal/engine/frame"
	"github.com/Faultbox/showroom/internal/engine/input"
	"github.com/Faultbox/showroom/internal/engine/input/sdlinput"
	"github.com/Faultbox/showroom/internal/engine/interaction"
	"github.com/Faultbox/showroom/internal/engine/intro"
	"github.com/Faultbox/showroom/internal/engine/loader"
	"github.com/Faultbox/showroom/internal/engine/model"
	"github.com/Faultbox/showroom/internal/engine/renderer"
	"github.com/Faultbox/showroom/internal/engine/window"
	"github.com/Faultbox/showroom/internal/logger"
	"github.com/Faultbox/showroom/internal/showcase"
)

// App is the running showroom.
type App struct {
	cfg     *config.Config
	running bool

	window   *window.Window
	renderer *renderer.Renderer
	assets   *assets.Manager
	audio    *audio.Player

	scheduler *frame.Scheduler
	input     *input.Dispatcher
	source    *sdlinput.Source
	showcase  *showcase.Showcase

	screenshots *debug.Screenshots
	unsubscribe []func()
}

// New creates the window and renderer and mounts the showcase.
func New(cfg *config.Config) (*App, error) {
	opts, err := ShowcaseOptions(cfg)
	if err != nil {
		return nil, err
	}
	lighting, err := Lighting(cfg.Lighting)
	if err != nil {
		return nil, err
	}

	logger.Info("initializing showroom",
		zap.String("title", cfg.Window.Title),
		zap.Int("width", cfg.Window.Width),
		zap.Int("height", cfg.Window.Height),
	)

	a := &App{
		cfg:         cfg,
		assets:      assets.NewManager(cfg.Showcase.AssetRoots...),
		scheduler:   frame.New(time.Now),
		input:       input.NewDispatcher(),
		screenshots: debug.NewScreenshots(cfg.Window.ScreenshotDir, "showroom"),
	}

	// Create window (this also creates OpenGL context)
	a.window, err = window.New(window.Config{
		Title:      cfg.Window.Title,
		Width:      cfg.Window.Width,
		Height:     cfg.Window.Height,
		Fullscreen: cfg.Window.Fullscreen,
		VSync:      cfg.Window.VSync,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	// Create renderer (AFTER window, since OpenGL context must exist)
	w, h := a.window.Size()
	a.renderer, err = renderer.New(renderer.Config{
		Width:            w,
		Height:           h,
		PixelRatio:       a.window.PixelRatio(),
		MaxPixelRatio:    cfg.Window.MaxPixelRatio,
		Shadows:          cfg.Showcase.Shadows,
		ShadowResolution: cfg.Showcase.ShadowResolution,
		Lighting:         lighting,
	})
	if err != nil {
		a.window.Detach()
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}

	a.startAudio(&opts)

	a.source = sdlinput.New(a.input)
	a.unsubscribe = append(a.unsubscribe,
		a.input.Subscribe(input.KindQuit, func(input.Event) { a.running = false }),
		a.input.Subscribe(input.KindKeyDown, a.onKey),
	)

	a.showcase = showcase.Mount(showcase.Deps{
		Scheduler: a.scheduler,
		Input:     a.input,
		Surface:   a.window,
		Drawer:    a.renderer,
		Loader:    loader.New(a.assets, a.scheduler, logger.Named("loader")),
		Fetcher:   a.assets,
		Logger:    logger.Named("showcase"),
	}, opts)

	logger.Info("showroom initialized successfully")
	return a, nil
}

// ShowcaseOptions maps configuration onto the showcase's options.
func ShowcaseOptions(cfg *config.Config) (showcase.Options, error) {
	color, err := model.ColorOption(cfg.Showcase.ColorHex)
	if err != nil {
		return showcase.Options{}, fmt.Errorf("showcase.color_hex: %w", err)
	}

	in := cfg.Intro
	ix := cfg.Interaction
	return showcase.Options{
		AssetURL:       cfg.Showcase.AssetURL,
		TargetSize:     cfg.Showcase.TargetSize,
		HoverEnabled:   cfg.Showcase.EnableHover,
		InitialYaw:     cfg.Showcase.InitialYaw,
		Color:          color,
		Shadows:        cfg.Showcase.Shadows,
		EnvironmentMap: cfg.Showcase.EnvironmentMap,
		Intro: intro.Params{
			Duration:      in.Duration.Std(),
			StartRadius:   in.StartRadius,
			StartHeight:   in.StartHeight,
			StartAngle:    in.StartAngle,
			FinalPosition: mgl32.Vec3(in.FinalPosition),
			LookTarget:    mgl32.Vec3(in.LookTarget),
		},
		Interaction: interactionParams(ix, cfg.Showcase.EnableHover),
		Grace:       in.Grace.Std(),
		FOV:         in.FOV,
		Near:        in.Near,
		Far:         in.Far,
		OnIntroComplete: func() {
			logger.Info("intro complete")
		},
	}, nil
}

// Lighting converts the configured light rig to premultiplied colors.
func Lighting(lc config.LightingConfig) (renderer.Lighting, error) {
	ambient, err := model.ParseHexColor(lc.AmbientColor)
	if err != nil {
		return renderer.Lighting{}, fmt.Errorf("lighting.ambient_color: %w", err)
	}
	directional, err := model.ParseHexColor(lc.DirectionalColor)
	if err != nil {
		return renderer.Lighting{}, fmt.Errorf("lighting.directional_color: %w", err)
	}
	ground, err := model.ParseHexColor(lc.GroundColor)
	if err != nil {
		return renderer.Lighting{}, fmt.Errorf("lighting.ground_color: %w", err)
	}
	return renderer.Lighting{
		Ambient:       ambient.Mul(lc.AmbientIntensity),
		LightColor:    directional.Mul(lc.DirectionalIntensity),
		LightPosition: mgl32.Vec3(lc.DirectionalPosition),
		GroundY:       lc.GroundY,
		GroundColor:   ground,
		Background:    ground.Mul(0.5),
	}, nil
}

// startAudio opens the speaker when a sound is configured, starts the
// ambience loop and chains the reveal cue onto the intro callback.
// Audio failures only cost the sound.
func (a *App) startAudio(opts *showcase.Options) {
	ac := a.cfg.Audio
	if !ac.Enabled || (ac.Ambience == "" && ac.RevealCue == "") {
		return
	}

	p := audio.New(ac.Volume)
	if err := p.Init(); err != nil {
		logger.Warn("audio unavailable", zap.Error(err))
		return
	}
	a.audio = p

	ctx := context.Background()
	if ac.Ambience != "" {
		if data, err := a.assets.Fetch(ctx, ac.Ambience); err != nil {
			logger.Warn("ambience unavailable", zap.String("ref", ac.Ambience), zap.Error(err))
		} else if err := p.PlayAmbience(data); err != nil {
			logger.Warn("ambience not played", zap.Error(err))
		}
	}

	if ac.RevealCue == "" {
		return
	}
	cue, err := a.assets.Fetch(ctx, ac.RevealCue)
	if err != nil {
		logger.Warn("reveal cue unavailable", zap.String("ref", ac.RevealCue), zap.Error(err))
		return
	}
	next := opts.OnIntroComplete
	opts.OnIntroComplete = func() {
		if err := p.PlayCue(cue); err != nil {
			logger.Warn("reveal cue not played", zap.Error(err))
		}
		if next != nil {
			next()
		}
	}
}

// Run pumps window events and ticks the frame scheduler until quit or
// Escape.
func (a *App) Run() error {
	a.running = true

	frameCount := 0
	fpsTimer := time.Now()

	logger.Info("starting main loop")

	for a.running {
		if !a.source.Pump() {
			break
		}
		if !a.running {
			break
		}

		a.scheduler.Tick(time.Now())

		// FPS counter
		frameCount++
		if time.Since(fpsTimer) >= time.Second {
			logger.Debug("fps", zap.Int("count", frameCount), zap.Int("pending", a.scheduler.Pending()))
			frameCount = 0
			fpsTimer = time.Now()
		}
	}

	return nil
}

func (a *App) onKey(ev input.Event) {
	switch ev.Key {
	case input.KeyEscape:
		a.running = false
	case input.KeyF12:
		pixels, w, h := a.renderer.Screenshot()
		path, err := a.screenshots.SavePixels(pixels, w, h)
		if err != nil {
			logger.Warn("screenshot failed", zap.Error(err))
			return
		}
		logger.Info("screenshot saved", zap.String("path", path))
	}
}

// Close unmounts the showcase, which releases the renderer and the
// window.
func (a *App) Close() {
	logger.Info("closing showroom")

	for _, unsub := range a.unsubscribe {
		unsub()
	}
	a.unsubscribe = nil

	if a.showcase != nil {
		a.showcase.Unmount()
	}
	if a.audio != nil {
		a.audio.Close()
	}
	if a.assets != nil {
		hits, misses := a.assets.Stats()
		logger.Debug("asset cache", zap.Int("hits", hits), zap.Int("misses", misses))
		a.assets.Close()
	}
}

func interactionParams(ix config.InteractionConfig, hover bool) interaction.Params {
	return interaction.Params{
		Sensitivity:   ix.Sensitivity,
		LerpFactor:    ix.LerpFactor,
		EdgeThreshold: ix.EdgeThreshold,
		EdgeSpeed:     ix.EdgeSpeed,
		AutoSpinSpeed: ix.AutoSpinSpeed,
		HoverEnabled:  hover,
		HoverScale:    ix.HoverScale,
		ZoomStep:      ix.ZoomStep,
		MinDistance:   ix.ZoomMin,
		MaxDistance:   ix.ZoomMax,
		BasePitch:     ix.BasePitch,
	}
}
