package renderer

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/showroom/internal/engine/ui2d"
)

func TestRenderSize(t *testing.T) {
	tests := []struct {
		name          string
		w, h          int
		ratio, capped float32
		wantW, wantH  int
	}{
		{"standard display", 1280, 720, 1, 2, 1280, 720},
		{"retina", 1280, 720, 2, 2, 2560, 1440},
		{"capped at two", 1280, 720, 3, 2, 2560, 1440},
		{"fractional", 1000, 500, 1.5, 2, 1500, 750},
		{"no cap", 100, 100, 3, 0, 300, 300},
		{"bad ratio", 640, 480, 0, 2, 640, 480},
		{"empty", 0, 0, 1, 2, 1, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, h := RenderSize(tt.w, tt.h, tt.ratio, tt.capped)
			if w != tt.wantW || h != tt.wantH {
				t.Errorf("RenderSize = %dx%d, want %dx%d", w, h, tt.wantW, tt.wantH)
			}
		})
	}
}

func TestInterleave(t *testing.T) {
	got := interleave(
		[]mgl32.Vec3{{1, 2, 3}, {4, 5, 6}},
		[]mgl32.Vec3{{0, 0, 1}},
	)
	want := []float32{1, 2, 3, 0, 0, 1, 4, 5, 6, 0, 1, 0}
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("interleave = %v, want %v", got, want)
		}
	}
}

func TestGroundFacesUp(t *testing.T) {
	g := groundMesh(-1.5, 10, mgl32.Vec3{0.1, 0.2, 0.3})
	for i := 0; i < g.TriangleCount(); i++ {
		a, b, c := g.Triangle(i)
		n := b.Sub(a).Cross(c.Sub(a))
		if n.Y() <= 0 {
			t.Errorf("triangle %d winds downward: %v", i, n)
		}
		if a.Y() != -1.5 {
			t.Errorf("ground height = %v", a.Y())
		}
	}
}

func TestQuadVertices(t *testing.T) {
	quads := []ui2d.Quad{{Rect: ui2d.Rect{X: 1, Y: 2, W: 3, H: 4}, Color: ui2d.ColorWhite}}
	v := quadVertices(nil, quads)
	if len(v) != 6*6 {
		t.Fatalf("len = %d, want 36", len(v))
	}
	// Third vertex is the far corner.
	if v[12] != 4 || v[13] != 6 {
		t.Errorf("far corner = (%v,%v), want (4,6)", v[12], v[13])
	}
}
