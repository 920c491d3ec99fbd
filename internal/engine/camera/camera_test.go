package camera

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

func TestAspect(t *testing.T) {
	tests := []struct {
		w, h int
		want float32
	}{
		{1280, 720, 1280.0 / 720.0},
		{100, 100, 1},
		{0, 720, 1},
		{1280, 0, 1},
	}
	for _, tt := range tests {
		v := NewViewport(tt.w, tt.h, 45, 0.1, 1000)
		if got := v.Aspect(); got != tt.want {
			t.Errorf("Aspect(%dx%d) = %v, want %v", tt.w, tt.h, got, tt.want)
		}
	}
}

func TestResizeIgnoresEmpty(t *testing.T) {
	v := NewViewport(800, 600, 45, 0.1, 1000)
	v.Resize(0, 300)
	if v.Width != 800 || v.Height != 600 {
		t.Errorf("size = %dx%d, want unchanged", v.Width, v.Height)
	}
	v.Resize(1024, 512)
	if v.Aspect() != 2 {
		t.Errorf("aspect = %v, want 2", v.Aspect())
	}
}

func TestNDC(t *testing.T) {
	v := NewViewport(200, 100, 45, 0.1, 1000)
	tests := []struct {
		px, py float32
		want   mgl32.Vec2
	}{
		{0, 0, mgl32.Vec2{-1, 1}},
		{200, 100, mgl32.Vec2{1, -1}},
		{100, 50, mgl32.Vec2{0, 0}},
		{190, 50, mgl32.Vec2{0.9, 0}},
	}
	for _, tt := range tests {
		got := v.NDC(tt.px, tt.py)
		if !got.ApproxEqualThreshold(tt.want, 1e-5) {
			t.Errorf("NDC(%v,%v) = %v, want %v", tt.px, tt.py, got, tt.want)
		}
	}
}

func TestSetDistanceMeasuresFromTarget(t *testing.T) {
	v := NewViewport(800, 600, 45, 0.1, 1000)
	v.LookAt(mgl32.Vec3{10, 5, 6}, mgl32.Vec3{1, 3, 0})

	dirBefore := v.Position.Sub(v.Target).Normalize()
	v.SetDistance(4)

	if math32.Abs(v.Distance()-4) > 1e-4 {
		t.Errorf("distance = %v, want 4", v.Distance())
	}
	dirAfter := v.Position.Sub(v.Target).Normalize()
	if !dirAfter.ApproxEqualThreshold(dirBefore, 1e-5) {
		t.Errorf("direction changed: %v -> %v", dirBefore, dirAfter)
	}
	if v.Target != (mgl32.Vec3{1, 3, 0}) {
		t.Errorf("target moved to %v", v.Target)
	}
}

func TestSetDistanceOnTarget(t *testing.T) {
	v := NewViewport(800, 600, 45, 0.1, 1000)
	v.LookAt(mgl32.Vec3{1, 1, 1}, mgl32.Vec3{1, 1, 1})
	v.SetDistance(3)
	if v.Position != (mgl32.Vec3{1, 1, 4}) {
		t.Errorf("position = %v, want (1,1,4)", v.Position)
	}
}

func TestViewProjectionCentersTarget(t *testing.T) {
	v := NewViewport(800, 600, 45, 0.1, 1000)
	v.LookAt(mgl32.Vec3{10, 5, 6}, mgl32.Vec3{1, 3, 0})

	clip := v.ViewProjection().Mul4x1(v.Target.Vec4(1))
	ndc := clip.Vec3().Mul(1 / clip.W())
	if math32.Abs(ndc.X()) > 1e-4 || math32.Abs(ndc.Y()) > 1e-4 {
		t.Errorf("target projects to %v, want screen center", ndc)
	}
	if ndc.Z() <= -1 || ndc.Z() >= 1 {
		t.Errorf("target depth %v outside clip range", ndc.Z())
	}
}
