package envmap

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"golang.org/x/image/bmp"
)

func uniform(c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func TestAmbientFromImageFormats(t *testing.T) {
	img := uniform(color.RGBA{R: 255, G: 0, B: 255, A: 255})

	var pngBuf, bmpBuf bytes.Buffer
	if err := png.Encode(&pngBuf, img); err != nil {
		t.Fatalf("png encode: %v", err)
	}
	if err := bmp.Encode(&bmpBuf, img); err != nil {
		t.Fatalf("bmp encode: %v", err)
	}

	tests := []struct {
		name   string
		data   []byte
		format string
	}{
		{"png", pngBuf.Bytes(), "png"},
		{"bmp", bmpBuf.Bytes(), "bmp"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, format, err := AmbientFromImage(tt.data)
			if err != nil {
				t.Fatalf("AmbientFromImage: %v", err)
			}
			if format != tt.format {
				t.Errorf("format = %q, want %q", format, tt.format)
			}
			if !c.ApproxEqualThreshold(mgl32.Vec3{1, 0, 1}, 1e-3) {
				t.Errorf("color = %v, want magenta", c)
			}
		})
	}
}

func TestAverageLinearizes(t *testing.T) {
	c, err := Average(uniform(color.RGBA{R: 128, G: 128, B: 128, A: 255}))
	if err != nil {
		t.Fatalf("Average: %v", err)
	}
	want := math32.Pow((128.0/255+0.055)/1.055, 2.4)
	if math32.Abs(c[0]-want) > 1e-3 {
		t.Errorf("linear gray = %v, want %v", c[0], want)
	}
}

func TestAmbientFromImageErrors(t *testing.T) {
	if _, _, err := AmbientFromImage([]byte("not an image")); err == nil {
		t.Error("expected decode error")
	}
	if _, err := Average(image.NewRGBA(image.Rect(0, 0, 0, 0))); !errors.Is(err, ErrEmptyImage) {
		t.Errorf("error = %v, want ErrEmptyImage", err)
	}
}

func TestTintClamps(t *testing.T) {
	got := Tint(mgl32.Vec3{0.6, 0.6, 0.6}, mgl32.Vec3{1, 0.5, 0}, 0.5)
	want := mgl32.Vec3{1, 0.85, 0.6}
	if !got.ApproxEqualThreshold(want, 1e-5) {
		t.Errorf("Tint = %v, want %v", got, want)
	}
}
