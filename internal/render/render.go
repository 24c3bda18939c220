// Package render turns a source picture and a caption into a finished meme:
// normalize the picture, fit the caption, then draw it outlined.
package render

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"io"

	"github.com/huugof/meme-factory/internal/config"
	"github.com/huugof/meme-factory/internal/fonts"
	"github.com/huugof/meme-factory/internal/layout"
)

// Renderer holds only read-only settings and may be shared between
// goroutines as long as its Fonts resolver is.
type Renderer struct {
	Fonts      fonts.Resolver
	Policy     layout.Policy
	Style      Style
	MaxWidth   int
	Background color.Color
}

// New builds a Renderer from a validated config.
func New(cfg config.Config, resolver fonts.Resolver) *Renderer {
	return &Renderer{
		Fonts:  resolver,
		Policy: layout.PolicyFromConfig(cfg),
		Style: Style{
			Fill:         config.MustColor(cfg.FillColor),
			Outline:      config.MustColor(cfg.OutlineColor),
			OutlineWidth: cfg.OutlineWidth,
		},
		MaxWidth:   cfg.MaxWidth,
		Background: config.MustColor(cfg.BackgroundColor),
	}
}

type Output struct {
	Image  *image.RGBA
	Layout *layout.Result
	Points []image.Point
}

// Meme renders caption over a normalized copy of img. img is never modified.
func (r *Renderer) Meme(img image.Image, caption string, anchor layout.Anchor) (*Output, error) {
	working := Normalize(img, r.MaxWidth, r.Background)
	width, height := working.Bounds().Dx(), working.Bounds().Dy()

	res, err := layout.Fit(caption, r.Policy.InitialFontSize(width), r.Policy.TextWidth(width), r.Policy, r.Fonts)
	if err != nil {
		return nil, fmt.Errorf("layout caption: %w", err)
	}
	pts := res.Place(width, height, anchor, r.Policy)
	DrawOutlined(working, res, pts, r.Style)
	return &Output{Image: working, Layout: res, Points: pts}, nil
}

func EncodeJPEG(w io.Writer, img image.Image, quality int) error {
	return jpeg.Encode(w, img, &jpeg.Options{Quality: quality})
}

func JPEGBytes(img image.Image, quality int) ([]byte, error) {
	var buf bytes.Buffer
	if err := EncodeJPEG(&buf, img, quality); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
