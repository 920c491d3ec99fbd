package envmap

import (
	"errors"
	"fmt"
	"image"
	"image/color"
)

// TGA image types read by decodeTGA.
const (
	tgaUncompressed = 2
	tgaRLE          = 10
)

var errNotTGA = errors.New("not a true-color TGA")

// isTGA checks the header fields decodeTGA understands. TGA has no magic
// number, so this is the only sniffing available.
func isTGA(data []byte) bool {
	if len(data) < 18 || data[1] != 0 {
		return false
	}
	bpp := data[16]
	return (data[2] == tgaUncompressed || data[2] == tgaRLE) && (bpp == 24 || bpp == 32)
}

// decodeTGA decodes uncompressed and RLE true-color TGA images.
func decodeTGA(data []byte) (image.Image, error) {
	if !isTGA(data) {
		return nil, errNotTGA
	}

	width := int(data[12]) | int(data[13])<<8
	height := int(data[14]) | int(data[15])<<8
	bytesPerPixel := int(data[16]) / 8
	topToBottom := data[17]&0x20 != 0

	offset := 18 + int(data[0])
	if offset > len(data) {
		return nil, fmt.Errorf("TGA data truncated")
	}
	src := data[offset:]

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	pixel := func(i int, p []byte) {
		x, y := i%width, i/width
		if !topToBottom {
			y = height - 1 - y
		}
		a := uint8(255)
		if bytesPerPixel == 4 {
			a = p[3]
		}
		img.SetRGBA(x, y, color.RGBA{R: p[2], G: p[1], B: p[0], A: a})
	}

	count := width * height
	if data[2] == tgaUncompressed {
		if len(src) < count*bytesPerPixel {
			return nil, fmt.Errorf("TGA pixel data truncated")
		}
		for i := 0; i < count; i++ {
			pixel(i, src[i*bytesPerPixel:])
		}
		return img, nil
	}

	for i, j := 0, 0; i < count && j < len(src); {
		packet := src[j]
		j++
		n := int(packet&0x7f) + 1
		if packet&0x80 != 0 {
			if j+bytesPerPixel > len(src) {
				break
			}
			for k := 0; k < n && i < count; k++ {
				pixel(i, src[j:])
				i++
			}
			j += bytesPerPixel
			continue
		}
		for k := 0; k < n && i < count && j+bytesPerPixel <= len(src); k++ {
			pixel(i, src[j:])
			i++
			j += bytesPerPixel
		}
	}
	return img, nil
}
