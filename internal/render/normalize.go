package render

import (
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"
	"golang.org/x/image/draw"
)

// Normalize returns a new opaque RGBA copy of img no wider than maxWidth.
// Wider images are scaled down with a Lanczos filter, keeping the aspect
// ratio. Transparent areas are flattened onto background.
func Normalize(img image.Image, maxWidth int, background color.Color) *image.RGBA {
	src := img
	b := img.Bounds()
	if maxWidth > 0 && b.Dx() > maxWidth {
		h := int(math.Round(float64(b.Dy()) * float64(maxWidth) / float64(b.Dx())))
		src = imaging.Resize(img, maxWidth, max(h, 1), imaging.Lanczos)
	}
	return flatten(src, background)
}

func flatten(src image.Image, background color.Color) *image.RGBA {
	sb := src.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, sb.Dx(), sb.Dy()))
	r, g, b, _ := background.RGBA()
	bg := color.RGBA{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8), A: 0xff}
	draw.Draw(dst, dst.Bounds(), image.NewUniform(bg), image.Point{}, draw.Src)
	draw.Draw(dst, dst.Bounds(), src, sb.Min, draw.Over)
	return dst
}
