package model

import (
	"errors"
	"testing"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/showroom/internal/engine/scene"
	"github.com/Faultbox/showroom/pkg/formats"
)

func boxNode(min, max mgl32.Vec3) *scene.Node {
	positions := []mgl32.Vec3{min, max, {min[0], max[1], min[2]}}
	return scene.NewMeshNode("box", scene.NewMesh(positions, []uint32{0, 1, 2}))
}

func approx(a, b float32) bool {
	return math32.Abs(a-b) < 1e-4
}

func TestNormalize_ScalesLargestDimension(t *testing.T) {
	obj := scene.NewGroup("car")
	obj.Add(boxNode(mgl32.Vec3{2, 0, -1}, mgl32.Vec3{12, 4, 3}))

	res := Normalize(obj, Options{TargetSize: 5})

	if res.Degenerate {
		t.Error("unexpected degenerate result")
	}
	if !approx(res.Scale, 0.5) {
		t.Errorf("scale = %v, want 0.5", res.Scale)
	}
	if obj.Scale != (mgl32.Vec3{0.5, 0.5, 0.5}) {
		t.Errorf("node scale = %v, want uniform 0.5", obj.Scale)
	}

	after := scene.BoundsOf(obj)
	if !approx(after.MaxDimension(), 5) {
		t.Errorf("normalized max dimension = %v, want 5", after.MaxDimension())
	}
	c := after.Center()
	if !approx(c[0], 0) || !approx(c[1], 0) || !approx(c[2], 0) {
		t.Errorf("normalized center = %v, want origin", c)
	}
}

func TestNormalize_DegenerateBoxUsesUnitDivisor(t *testing.T) {
	tests := []struct {
		name string
		obj  *scene.Node
	}{
		{name: "single point", obj: boxNode(mgl32.Vec3{1, 1, 1}, mgl32.Vec3{1, 1, 1})},
		{name: "no drawables", obj: scene.NewGroup("empty")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Normalize(tt.obj, Options{TargetSize: 3})
			if !res.Degenerate {
				t.Error("expected degenerate flag")
			}
			if res.Scale != 3 {
				t.Errorf("scale = %v, want target/1 = 3", res.Scale)
			}
			for i := 0; i < 3; i++ {
				if math32.IsNaN(tt.obj.Position[i]) || math32.IsInf(tt.obj.Position[i], 0) {
					t.Fatalf("position not finite: %v", tt.obj.Position)
				}
			}
		})
	}
}

func TestNormalize_ShadowAndColor(t *testing.T) {
	obj := scene.NewGroup("car")
	obj.Add(boxNode(mgl32.Vec3{0, 0, 0}, mgl32.Vec3{1, 1, 1}))
	glossy := boxNode(mgl32.Vec3{1, 0, 0}, mgl32.Vec3{2, 1, 1})
	glossy.Mesh.Metalness = 1
	glossy.Mesh.Roughness = 0.05
	obj.Add(glossy)

	red := mgl32.Vec3{1, 0.267, 0.267}
	Normalize(obj, Options{TargetSize: 1, Shadows: true, Color: &red})

	obj.Traverse(func(n *scene.Node) {
		if n.Mesh == nil {
			if n.CastShadow {
				t.Errorf("group %q should not be flagged", n.Name)
			}
			return
		}
		if !n.CastShadow || !n.ReceiveShadow {
			t.Errorf("mesh %q missing shadow flags", n.Name)
		}
		if n.Mesh.Color != red {
			t.Errorf("mesh %q color = %v, want %v", n.Name, n.Mesh.Color, red)
		}
		if n.Mesh.Metalness != OverrideMetalness || n.Mesh.Roughness != OverrideRoughness {
			t.Errorf("mesh %q finish = %v/%v, want %v/%v", n.Name,
				n.Mesh.Metalness, n.Mesh.Roughness, OverrideMetalness, OverrideRoughness)
		}
	})
}

func TestNormalize_ShadowsOff(t *testing.T) {
	obj := boxNode(mgl32.Vec3{0, 0, 0}, mgl32.Vec3{1, 1, 1})
	Normalize(obj, Options{TargetSize: 1})
	if obj.CastShadow || obj.ReceiveShadow {
		t.Error("shadows should stay off")
	}
	if obj.Mesh.Color != scene.DefaultColor {
		t.Errorf("color changed without override: %v", obj.Mesh.Color)
	}
}

func TestPivotKeepsCenterAtOrigin(t *testing.T) {
	obj := boxNode(mgl32.Vec3{4, 4, 4}, mgl32.Vec3{6, 6, 6})
	Normalize(obj, Options{TargetSize: 2})
	pivot := Pivot(obj)
	pivot.Rotation = mgl32.Vec3{0, 1.3, 0}

	c := scene.BoundsOf(pivot).Center()
	if !approx(c[0], 0) || !approx(c[1], 0) || !approx(c[2], 0) {
		t.Errorf("rotating the pivot moved the object's center: %v", c)
	}
	if obj.Parent() != pivot {
		t.Error("object should be parented to the pivot")
	}
}

func TestParseHexColor(t *testing.T) {
	tests := []struct {
		in      string
		want    mgl32.Vec3
		wantErr bool
	}{
		{in: "#ff0000", want: mgl32.Vec3{1, 0, 0}},
		{in: "00ff00", want: mgl32.Vec3{0, 1, 0}},
		{in: "#fff", want: mgl32.Vec3{1, 1, 1}},
		{in: "#12345", wantErr: true},
		{in: "#gggggg", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseHexColor(tt.in)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidColor) {
					t.Errorf("error = %v, want ErrInvalidColor", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("ParseHexColor(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestColorOptionEmpty(t *testing.T) {
	c, err := ColorOption("  ")
	if err != nil || c != nil {
		t.Errorf("ColorOption(blank) = %v, %v; want nil, nil", c, err)
	}
}

func TestFromOBJ(t *testing.T) {
	data := `o Hood
v 0 0 0
v 1 0 0
v 1 1 0
v 0 1 0
f 1 2 3 4
o Wheel
v 0 0 1
v 1 0 1
v 0 1 1
vn 0 0 1
f 5//1 6//1 7//1
`
	obj, err := formats.ParseOBJ([]byte(data))
	if err != nil {
		t.Fatalf("ParseOBJ: %v", err)
	}

	root := FromOBJ("coupe", obj)
	if len(root.Children) != 2 {
		t.Fatalf("children = %d, want 2", len(root.Children))
	}

	hood := root.Children[0]
	if hood.Name != "Hood" || hood.Mesh == nil {
		t.Fatalf("unexpected first child %+v", hood)
	}
	// The quad's shared corners are deduplicated.
	if len(hood.Mesh.Positions) != 4 || hood.Mesh.TriangleCount() != 2 {
		t.Errorf("hood has %d vertices / %d triangles, want 4 / 2", len(hood.Mesh.Positions), hood.Mesh.TriangleCount())
	}
	if len(hood.Mesh.Normals) != 4 {
		t.Errorf("hood normals = %d, want computed 4", len(hood.Mesh.Normals))
	}

	wheel := root.Children[1]
	if wheel.Mesh.Normals[0] != (mgl32.Vec3{0, 0, 1}) {
		t.Errorf("authored normal lost: %v", wheel.Mesh.Normals[0])
	}
}
