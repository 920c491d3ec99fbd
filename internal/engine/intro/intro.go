// Package intro drives the camera's opening spiral dolly: radius, angle
// and height ease together from a wide establishing orbit to the hero
// pose over a fixed duration.
package intro

import (
	"time"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Phase is the director's state.
type Phase int

const (
	PhaseRunning Phase = iota
	PhaseDone
)

func (p Phase) String() string {
	if p == PhaseDone {
		return "done"
	}
	return "running"
}

// Params describes the dolly path. Heights are world Y; radius and angle
// are measured in the horizontal plane around LookTarget, with angle 0
// on +X and increasing toward +Z.
type Params struct {
	Duration time.Duration

	StartRadius float32
	StartHeight float32
	StartAngle  float32

	FinalPosition mgl32.Vec3
	LookTarget    mgl32.Vec3
}

// EndRadius is the horizontal distance from the look target to the final
// position.
func (p Params) EndRadius() float32 {
	dx := p.FinalPosition.X() - p.LookTarget.X()
	dz := p.FinalPosition.Z() - p.LookTarget.Z()
	return math32.Hypot(dx, dz)
}

// EndAngle is the final pose's orbit angle plus one full turn.
func (p Params) EndAngle() float32 {
	dx := p.FinalPosition.X() - p.LookTarget.X()
	dz := p.FinalPosition.Z() - p.LookTarget.Z()
	return math32.Atan2(dz, dx) + 2*math32.Pi
}

// Smoothstep returns t²(3−2t) for t clamped to [0, 1].
func Smoothstep(t float32) float32 {
	t = mgl32.Clamp(t, 0, 1)
	return t * t * (3 - 2*t)
}

// PositionAt returns the camera position at linear progress t in [0, 1].
// At t >= 1 it is FinalPosition exactly.
func (p Params) PositionAt(t float32) mgl32.Vec3 {
	if t >= 1 {
		return p.FinalPosition
	}
	e := Smoothstep(t)

	radius := lerp(p.StartRadius, p.EndRadius(), e)
	angle := lerp(p.StartAngle, p.EndAngle(), e)
	height := lerp(p.StartHeight, p.FinalPosition.Y(), e)

	return mgl32.Vec3{
		p.LookTarget.X() + radius*math32.Cos(angle),
		height,
		p.LookTarget.Z() + radius*math32.Sin(angle),
	}
}

func lerp(a, b, t float32) float32 {
	return a + (b-a)*t
}

// Frame is one evaluation of the director.
type Frame struct {
	Position mgl32.Vec3
	Target   mgl32.Vec3
	// T is the linear progress in [0, 1].
	T float32
	// Finished is true only on the update that moved the phase to done.
	Finished bool
}

// Director evaluates Params against wall-clock time. It runs once; there
// is no pause or restart.
type Director struct {
	params Params
	start  time.Time
	phase  Phase
}

// New starts a director at start.
func New(params Params, start time.Time) *Director {
	return &Director{params: params, start: start}
}

// Params returns the director's path.
func (d *Director) Params() Params {
	return d.params
}

// Phase returns the current phase.
func (d *Director) Phase() Phase {
	return d.phase
}

// Progress returns the clamped linear progress at now.
func (d *Director) Progress(now time.Time) float32 {
	if d.params.Duration <= 0 {
		return 1
	}
	t := float32(now.Sub(d.start).Seconds() / d.params.Duration.Seconds())
	return mgl32.Clamp(t, 0, 1)
}

// Update returns the camera pose at now. The frame that reaches the end
// reports Finished; later calls keep returning the final pose.
func (d *Director) Update(now time.Time) Frame {
	if d.phase == PhaseDone {
		return Frame{Position: d.params.FinalPosition, Target: d.params.LookTarget, T: 1}
	}

	t := d.Progress(now)
	f := Frame{
		Position: d.params.PositionAt(t),
		Target:   d.params.LookTarget,
		T:        t,
	}
	if t >= 1 {
		d.phase = PhaseDone
		f.Finished = true
	}
	return f
}
