// Package interaction decides, once per frame, which driver owns the
// showcase object's orientation and turns pointer and wheel input into
// yaw, hover scale and zoom distance.
package interaction

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Mode names the driver that owns orientation for a frame.
type Mode int

// Modes in precedence order.
const (
	ModeIntro Mode = iota
	ModeAutoSpin
	ModeManual
)

func (m Mode) String() string {
	switch m {
	case ModeIntro:
		return "intro"
	case ModeAutoSpin:
		return "auto-spin"
	default:
		return "manual"
	}
}

// Params are the tuning constants.
type Params struct {
	// Sensitivity is radians of yaw per pixel of horizontal movement.
	Sensitivity float32
	// LerpFactor in (0, 1) is how far current values move toward their
	// targets each frame.
	LerpFactor float32
	// EdgeThreshold is the |NDC x| beyond which edge-scroll applies.
	EdgeThreshold float32
	// EdgeSpeed is radians added to the target yaw per edge frame.
	EdgeSpeed float32
	// AutoSpinSpeed is radians per frame while auto-spin is on.
	AutoSpinSpeed float32

	HoverEnabled bool
	HoverScale   float32

	// ZoomStep is distance units per wheel notch.
	ZoomStep    float32
	MinDistance float32
	MaxDistance float32

	BasePitch float32
}

// DefaultParams returns the stock tuning.
func DefaultParams() Params {
	return Params{
		Sensitivity:   0.004,
		LerpFactor:    0.1,
		EdgeThreshold: 0.9,
		EdgeSpeed:     0.02,
		AutoSpinSpeed: 0.01,
		HoverEnabled:  true,
		HoverScale:    1.06,
		ZoomStep:      0.5,
		MinDistance:   2,
		MaxDistance:   15,
	}
}

// Orientation is the per-frame result of Step.
type Orientation struct {
	Mode Mode
	// Yaw is the smoothed manual yaw offset.
	Yaw   float32
	Pitch float32
	// SpinDelta is the yaw to add this frame in auto-spin mode.
	SpinDelta float32
	// Scale is the smoothed uniform hover scale.
	Scale float32
}

// Arbitrator holds interaction state. It starts in intro mode with input
// locked.
type Arbitrator struct {
	p Params

	introActive bool
	locked      bool
	autoSpin    bool

	targetYaw  float32
	currentYaw float32

	pointer    mgl32.Vec2
	hasPointer bool
	hover      bool
	scale      float32

	distance float32
}

// New creates an arbitrator with the camera at the given zoom distance.
func New(p Params, distance float32) *Arbitrator {
	a := &Arbitrator{
		p:           p,
		introActive: true,
		locked:      true,
		scale:       1,
	}
	a.distance = a.clampDistance(distance)
	return a
}

// Mode returns the authoritative driver: intro, then auto-spin, then manual.
func (a *Arbitrator) Mode() Mode {
	switch {
	case a.introActive:
		return ModeIntro
	case a.autoSpin:
		return ModeAutoSpin
	default:
		return ModeManual
	}
}

// EndIntro hands orientation to the other drivers. Input stays locked
// until Unlock.
func (a *Arbitrator) EndIntro() {
	a.introActive = false
}

// Unlock starts accepting pointer and wheel input.
func (a *Arbitrator) Unlock() {
	a.locked = false
}

// Locked reports whether pointer and wheel input are ignored.
func (a *Arbitrator) Locked() bool {
	return a.locked
}

// PointerMoved records the pointer position in NDC and, in manual mode
// with input unlocked, accumulates dx pixels into the target yaw.
// The position is kept even while locked so hover testing works.
func (a *Arbitrator) PointerMoved(ndc mgl32.Vec2, dx float32) {
	a.pointer = ndc
	a.hasPointer = true
	if a.locked || a.Mode() != ModeManual {
		return
	}
	a.targetYaw += dx * a.p.Sensitivity
}

// Pointer returns the last pointer position in NDC.
func (a *Arbitrator) Pointer() (mgl32.Vec2, bool) {
	return a.pointer, a.hasPointer
}

// Wheel adjusts the zoom distance; positive notches move closer.
// Reports whether the input was accepted.
func (a *Arbitrator) Wheel(notches float32) bool {
	if a.locked {
		return false
	}
	a.distance = a.clampDistance(a.distance - notches*a.p.ZoomStep)
	return true
}

// Distance returns the zoom distance, always within [MinDistance, MaxDistance].
func (a *Arbitrator) Distance() float32 {
	return a.distance
}

func (a *Arbitrator) clampDistance(d float32) float32 {
	return mgl32.Clamp(d, a.p.MinDistance, a.p.MaxDistance)
}

// ToggleAutoSpin flips auto-spin and returns the new state. Ignored while
// input is locked.
func (a *Arbitrator) ToggleAutoSpin() bool {
	if !a.locked {
		a.autoSpin = !a.autoSpin
	}
	return a.autoSpin
}

// AutoSpin reports whether auto-spin is on.
func (a *Arbitrator) AutoSpin() bool {
	return a.autoSpin
}

// SetHover records the latest pick result.
func (a *Arbitrator) SetHover(h bool) {
	a.hover = h
}

// Hovering reports the latest pick result.
func (a *Arbitrator) Hovering() bool {
	return a.hover
}

// TargetYaw returns the accumulated target yaw.
func (a *Arbitrator) TargetYaw() float32 {
	return a.targetYaw
}

// Step advances one frame and returns the orientation to apply.
func (a *Arbitrator) Step() Orientation {
	mode := a.Mode()
	o := Orientation{Mode: mode, Pitch: a.p.BasePitch}

	switch mode {
	case ModeAutoSpin:
		o.SpinDelta = a.p.AutoSpinSpeed
	case ModeManual:
		if a.hasPointer && !a.locked {
			switch x := a.pointer.X(); {
			case x > a.p.EdgeThreshold:
				a.targetYaw += a.p.EdgeSpeed
			case x < -a.p.EdgeThreshold:
				a.targetYaw -= a.p.EdgeSpeed
			}
		}
		a.currentYaw += (a.targetYaw - a.currentYaw) * a.p.LerpFactor
	}
	o.Yaw = a.currentYaw

	targetScale := float32(1)
	if a.p.HoverEnabled && a.hover {
		targetScale = a.p.HoverScale
	}
	a.scale += (targetScale - a.scale) * a.p.LerpFactor
	o.Scale = a.scale

	return o
}
