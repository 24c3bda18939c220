package render

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"testing"

	"github.com/huugof/meme-factory/internal/config"
	"github.com/huugof/meme-factory/internal/fonts"
	"github.com/huugof/meme-factory/internal/layout"
)

func solid(w, h int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func newRenderer() *Renderer {
	return New(config.Default(), &fonts.Chain{Sources: []fonts.Source{fonts.GoBold()}})
}

func TestNormalizeKeepsNarrowImageSize(t *testing.T) {
	src := solid(320, 200, color.RGBA{R: 10, G: 20, B: 30, A: 255})
	out := Normalize(src, 800, color.Black)
	if out.Bounds() != image.Rect(0, 0, 320, 200) {
		t.Fatalf("bounds = %v", out.Bounds())
	}
	if out == src {
		t.Fatal("expected an independent buffer")
	}
	if got := out.RGBAAt(5, 5); got != (color.RGBA{R: 10, G: 20, B: 30, A: 255}) {
		t.Fatalf("pixel = %v", got)
	}
}

func TestNormalizeScalesWideImage(t *testing.T) {
	cases := []struct {
		w, h, wantH int
	}{
		{1600, 900, 450},
		{1601, 901, 450},
		{1000, 3, 2},
		{5000, 1, 1},
	}
	for _, tc := range cases {
		out := Normalize(solid(tc.w, tc.h, color.White), 800, color.Black)
		if out.Bounds().Dx() != 800 || out.Bounds().Dy() != tc.wantH {
			t.Fatalf("%dx%d -> %v, want 800x%d", tc.w, tc.h, out.Bounds(), tc.wantH)
		}
	}
}

func TestNormalizeFlattensAlphaAndPalette(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	src.Set(1, 1, color.NRGBA{R: 255, A: 255})
	out := Normalize(src, 800, color.White)
	if got := out.RGBAAt(0, 0); got != (color.RGBA{R: 255, G: 255, B: 255, A: 255}) {
		t.Fatalf("transparent pixel = %v", got)
	}
	if got := out.RGBAAt(1, 1); got != (color.RGBA{R: 255, A: 255}) {
		t.Fatalf("opaque pixel = %v", got)
	}

	pal := image.NewPaletted(image.Rect(10, 10, 14, 14), color.Palette{color.Black, color.White})
	pal.SetColorIndex(10, 10, 1)
	out = Normalize(pal, 800, color.Black)
	if out.Bounds().Min != (image.Point{}) || out.RGBAAt(0, 0) != (color.RGBA{R: 255, G: 255, B: 255, A: 255}) {
		t.Fatalf("paletted input not normalized: %v %v", out.Bounds(), out.RGBAAt(0, 0))
	}
}

func TestMemeDrawsOutlinedCaptionAtBottom(t *testing.T) {
	gray := color.RGBA{R: 128, G: 128, B: 128, A: 255}
	src := solid(800, 600, gray)
	before := append([]uint8(nil), src.Pix...)

	out, err := newRenderer().Meme(src, "hello world", layout.AnchorBottom)
	if err != nil {
		t.Fatalf("Meme: %v", err)
	}
	if !bytes.Equal(before, src.Pix) {
		t.Fatal("source image was modified")
	}
	if len(out.Layout.Lines) != 1 || out.Layout.FontSize != 53 {
		t.Fatalf("layout = %+v", out.Layout)
	}
	if out.Points[0].Y != 600-out.Layout.LineHeight-20 {
		t.Fatalf("y = %d", out.Points[0].Y)
	}

	var white, black int
	for y := 0; y < 600; y++ {
		for x := 0; x < 800; x++ {
			c := out.Image.RGBAAt(x, y)
			if y < 400 && c != gray {
				t.Fatalf("pixel (%d,%d) above the caption changed to %v", x, y, c)
			}
			switch {
			case c.R > 240 && c.G > 240 && c.B > 240:
				white++
			case c.R < 15 && c.G < 15 && c.B < 15:
				black++
			}
		}
	}
	if white == 0 || black == 0 {
		t.Fatalf("expected fill and outline pixels, white=%d black=%d", white, black)
	}
}

func TestMemeTopAnchor(t *testing.T) {
	gray := color.RGBA{R: 128, G: 128, B: 128, A: 255}
	out, err := newRenderer().Meme(solid(400, 400, gray), "top text", layout.AnchorTop)
	if err != nil {
		t.Fatal(err)
	}
	if out.Points[0].Y != 20 {
		t.Fatalf("y = %d", out.Points[0].Y)
	}
	for x := 0; x < 400; x++ {
		if c := out.Image.RGBAAt(x, 399); c != gray {
			t.Fatalf("bottom row touched at x=%d: %v", x, c)
		}
	}
}

func TestMemeEmptyCaptionCopiesImage(t *testing.T) {
	src := solid(300, 200, color.RGBA{R: 1, G: 2, B: 3, A: 255})
	out, err := newRenderer().Meme(src, "  \n ", layout.AnchorBottom)
	if err != nil {
		t.Fatal(err)
	}
	if len(out.Layout.Lines) != 0 {
		t.Fatalf("lines = %q", out.Layout.Lines)
	}
	if !bytes.Equal(out.Image.Pix, Normalize(src, 800, color.Black).Pix) {
		t.Fatal("empty caption changed pixels")
	}
}

func TestMemeWithBitmapFallback(t *testing.T) {
	r := New(config.Default(), &fonts.Chain{})
	out, err := r.Meme(solid(200, 100, color.White), "still renders", layout.AnchorAuto)
	if err != nil {
		t.Fatal(err)
	}
	if !out.Layout.Font.Bitmap {
		t.Fatalf("expected bitmap font, got %+v", out.Layout.Font)
	}
}

func TestJPEGBytes(t *testing.T) {
	data, err := JPEGBytes(solid(64, 32, color.White), 90)
	if err != nil {
		t.Fatal(err)
	}
	img, err := jpeg.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}
	if img.Bounds().Dx() != 64 || img.Bounds().Dy() != 32 {
		t.Fatalf("bounds = %v", img.Bounds())
	}
}
