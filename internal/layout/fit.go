package layout

import (
	"fmt"
	"image"
	"math"
	"strings"

	"github.com/huugof/meme-factory/internal/config"
	"github.com/huugof/meme-factory/internal/fonts"
)

type Policy struct {
	FontDivisor        int
	MinInitialFontSize int
	MinFontSize        int
	FontStep           int
	MaxLines           int
	Padding            int
	LineSpacing        int
}

func PolicyFromConfig(cfg config.Config) Policy {
	return Policy{
		FontDivisor:        cfg.FontDivisor,
		MinInitialFontSize: cfg.MinInitialFontSize,
		MinFontSize:        cfg.MinFontSize,
		FontStep:           cfg.FontStep,
		MaxLines:           cfg.MaxLines,
		Padding:            cfg.Padding,
		LineSpacing:        cfg.LineSpacing,
	}
}

func DefaultPolicy() Policy {
	return PolicyFromConfig(config.Default())
}

// InitialFontSize is the starting size for an image of the given width.
func (p Policy) InitialFontSize(imageWidth int) int {
	return max(p.MinInitialFontSize, imageWidth/p.FontDivisor)
}

// TextWidth is the horizontal room left after padding on both sides.
func (p Policy) TextWidth(imageWidth int) float64 {
	return float64(imageWidth - 2*p.Padding)
}

type Result struct {
	Lines      []string
	Widths     []float64
	FontSize   int
	LineHeight int
	Font       *fonts.Handle
	// Layouts counts full wrap passes, including the first.
	Layouts int
}

// Overflow reports a layout still over the line budget at the floor size.
func (r *Result) Overflow(p Policy) bool {
	return len(r.Lines) > p.MaxLines
}

// BlockHeight is the vertical extent of all lines.
func (r *Result) BlockHeight() int {
	return len(r.Lines) * r.LineHeight
}

// Fit upper-cases caption and wraps it at initialSize, shrinking by
// p.FontStep and re-wrapping from scratch while the line count exceeds
// p.MaxLines. The size never drops below p.MinFontSize; a layout still over
// budget at that size is returned as is. A bitmap face cannot shrink, so its
// first layout is final and its line height comes from the face metrics.
func Fit(caption string, initialSize int, maxWidth float64, p Policy, r fonts.Resolver) (*Result, error) {
	text := Upper(strings.Join(strings.Fields(caption), " "))
	size := max(initialSize, p.MinFontSize)
	step := max(p.FontStep, 1)
	res := &Result{}
	for {
		h, err := r.Resolve(float64(size))
		if err != nil {
			return nil, fmt.Errorf("resolve font at %dpx: %w", size, err)
		}
		m := FaceMeasurer(h.Face)
		lines := Wrap(text, m, maxWidth)
		res.Layouts++
		if len(lines) <= p.MaxLines || size <= p.MinFontSize || h.Bitmap {
			res.Lines = lines
			res.Widths = make([]float64, len(lines))
			for i, line := range lines {
				res.Widths[i], _ = m.MeasureString(line)
			}
			res.FontSize = size
			res.LineHeight = size + p.LineSpacing
			if h.Bitmap {
				res.LineHeight = h.Face.Metrics().Height.Ceil() + p.LineSpacing
			}
			res.Font = h
			return res, nil
		}
		size = max(size-step, p.MinFontSize)
	}
}

type Anchor int

const (
	AnchorBottom Anchor = iota
	AnchorTop
	// AnchorAuto currently places text exactly like AnchorBottom.
	AnchorAuto
)

func ParseAnchor(s string) (Anchor, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "bottom":
		return AnchorBottom, nil
	case "top":
		return AnchorTop, nil
	case "auto":
		return AnchorAuto, nil
	}
	return AnchorBottom, fmt.Errorf("unknown anchor %q", s)
}

func (a Anchor) String() string {
	switch a {
	case AnchorTop:
		return "top"
	case AnchorAuto:
		return "auto"
	}
	return "bottom"
}

// Place returns the top-left corner of every line: each line centered
// horizontally, the block stacked from the anchor edge.
func (r *Result) Place(imageWidth, imageHeight int, anchor Anchor, p Policy) []image.Point {
	startY := imageHeight - r.BlockHeight() - p.Padding
	if anchor == AnchorTop {
		startY = p.Padding
	}
	points := make([]image.Point, len(r.Lines))
	for i, w := range r.Widths {
		x := int(math.Floor((float64(imageWidth) - w) / 2))
		points[i] = image.Pt(x, startY+i*r.LineHeight)
	}
	return points
}
