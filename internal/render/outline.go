package render

import (
	"image"
	"image/color"

	"github.com/fogleman/gg"

	"github.com/huugof/meme-factory/internal/layout"
)

type Style struct {
	Fill         color.Color
	Outline      color.Color
	OutlineWidth int
}

// DrawOutlined paints every line of res onto dst at the matching top-left
// corner in pts. Each line is stamped in the outline color at every offset of
// the (2w+1)x(2w+1) square around it, then once in the fill color.
func DrawOutlined(dst *image.RGBA, res *layout.Result, pts []image.Point, s Style) {
	if len(res.Lines) == 0 {
		return
	}
	dc := gg.NewContextForRGBA(dst)
	dc.SetFontFace(res.Font.Face)
	ascent := res.Font.Face.Metrics().Ascent.Ceil()
	w := s.OutlineWidth
	for i, line := range res.Lines {
		x := float64(pts[i].X)
		y := float64(pts[i].Y + ascent)
		dc.SetColor(s.Outline)
		for dy := -w; dy <= w; dy++ {
			for dx := -w; dx <= w; dx++ {
				if dx == 0 && dy == 0 {
					continue
				}
				dc.DrawString(line, x+float64(dx), y+float64(dy))
			}
		}
		dc.SetColor(s.Fill)
		dc.DrawString(line, x, y)
	}
}
