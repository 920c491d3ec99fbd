package app

import (
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/showroom/internal/config"
)

func TestShowcaseOptionsFromDefaults(t *testing.T) {
	cfg := config.Default()
	opts, err := ShowcaseOptions(cfg)
	if err != nil {
		t.Fatalf("ShowcaseOptions: %v", err)
	}

	if opts.AssetURL != cfg.Showcase.AssetURL || opts.TargetSize != 5 {
		t.Errorf("asset = %q size = %v", opts.AssetURL, opts.TargetSize)
	}
	if opts.Color != nil {
		t.Errorf("Color = %v, want nil for empty hex", *opts.Color)
	}
	if opts.Intro.Duration != 2500*time.Millisecond || opts.Grace != 600*time.Millisecond {
		t.Errorf("durations = %v / %v", opts.Intro.Duration, opts.Grace)
	}
	if opts.Intro.FinalPosition != (mgl32.Vec3{10, 5, 6}) || opts.Intro.LookTarget != (mgl32.Vec3{1, 3, 0}) {
		t.Errorf("final pose = %v -> %v", opts.Intro.FinalPosition, opts.Intro.LookTarget)
	}
	ix := opts.Interaction
	if ix.MinDistance != 2 || ix.MaxDistance != 15 || !ix.HoverEnabled {
		t.Errorf("interaction = %+v", ix)
	}
	if opts.OnIntroComplete == nil {
		t.Error("OnIntroComplete not set")
	}
}

func TestShowcaseOptionsHoverAndColor(t *testing.T) {
	cfg := config.Default()
	cfg.Showcase.EnableHover = false
	cfg.Showcase.ColorHex = "#ff0000"

	opts, err := ShowcaseOptions(cfg)
	if err != nil {
		t.Fatalf("ShowcaseOptions: %v", err)
	}
	if opts.HoverEnabled || opts.Interaction.HoverEnabled {
		t.Error("hover should be disabled")
	}
	if opts.Color == nil || *opts.Color != (mgl32.Vec3{1, 0, 0}) {
		t.Errorf("Color = %v", opts.Color)
	}

	cfg.Showcase.ColorHex = "red"
	if _, err := ShowcaseOptions(cfg); err == nil {
		t.Error("expected error for bad color")
	}
}

func TestLighting(t *testing.T) {
	lc := config.Default().Lighting
	l, err := Lighting(lc)
	if err != nil {
		t.Fatalf("Lighting: %v", err)
	}
	if !l.Ambient.ApproxEqual(mgl32.Vec3{0.6, 0.6, 0.6}) {
		t.Errorf("ambient = %v", l.Ambient)
	}
	if !l.LightColor.ApproxEqual(mgl32.Vec3{0.8, 0.8, 0.8}) {
		t.Errorf("light = %v", l.LightColor)
	}
	if l.LightPosition != (mgl32.Vec3{5, 10, 7}) || l.GroundY != -1.5 {
		t.Errorf("position = %v ground = %v", l.LightPosition, l.GroundY)
	}

	lc.GroundColor = "#12"
	if _, err := Lighting(lc); err == nil {
		t.Error("expected error for bad ground color")
	}
}
