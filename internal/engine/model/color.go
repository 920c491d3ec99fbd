package model

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
)

// ErrInvalidColor is returned for strings that are not #rgb or #rrggbb.
var ErrInvalidColor = errors.New("invalid hex color")

// ParseHexColor parses "#rrggbb", "rrggbb" or "#rgb" into linear 0-1 RGB.
func ParseHexColor(s string) (mgl32.Vec3, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 {
		return mgl32.Vec3{}, fmt.Errorf("%q: %w", s, ErrInvalidColor)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return mgl32.Vec3{}, fmt.Errorf("%q: %w", s, ErrInvalidColor)
	}
	return mgl32.Vec3{
		float32((v>>16)&0xff) / 255,
		float32((v>>8)&0xff) / 255,
		float32(v&0xff) / 255,
	}, nil
}

// ColorOption parses an optional override color; an empty string yields nil.
func ColorOption(s string) (*mgl32.Vec3, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	c, err := ParseHexColor(s)
	if err != nil {
		return nil, err
	}
	return &c, nil
}
