// Package envmap reduces an environment image to the single color used to
// tint the showcase's ambient light.
package envmap

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/anthonynsimon/bild/transform"
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// ErrEmptyImage is returned for images with no pixels.
var ErrEmptyImage = errors.New("environment image has no pixels")

// AmbientFromImage decodes data and returns its average color in linear
// [0, 1] RGB, along with the detected format name. Formats registered with
// package image are tried first, then TGA.
func AmbientFromImage(data []byte) (mgl32.Vec3, string, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil && isTGA(data) {
		format = "tga"
		img, err = decodeTGA(data)
	}
	if err != nil {
		return mgl32.Vec3{}, "", fmt.Errorf("decoding environment image: %w", err)
	}
	c, err := Average(img)
	return c, format, err
}

// Average box-filters img down to one pixel.
func Average(img image.Image) (mgl32.Vec3, error) {
	b := img.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return mgl32.Vec3{}, ErrEmptyImage
	}

	px := transform.Resize(img, 1, 1, transform.Box)
	c := px.RGBAAt(0, 0)
	return mgl32.Vec3{
		srgbToLinear(float32(c.R) / 255),
		srgbToLinear(float32(c.G) / 255),
		srgbToLinear(float32(c.B) / 255),
	}, nil
}

// Tint adds the environment's contribution to a base ambient term.
func Tint(ambient, env mgl32.Vec3, strength float32) mgl32.Vec3 {
	out := ambient.Add(env.Mul(strength))
	for i := range out {
		out[i] = mgl32.Clamp(out[i], 0, 1)
	}
	return out
}

func srgbToLinear(v float32) float32 {
	if v <= 0.04045 {
		return v / 12.92
	}
	return math32.Pow((v+0.055)/1.055, 2.4)
}
