// Package layout wraps caption text into lines and picks a font size that
// keeps the caption within a line budget.
package layout

import (
	"strings"

	"github.com/fogleman/gg"
	"golang.org/x/image/font"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Measurer reports the rendered size of a string. *gg.Context implements it.
type Measurer interface {
	MeasureString(s string) (w, h float64)
}

// FaceMeasurer measures with face through a throwaway gg context.
func FaceMeasurer(face font.Face) Measurer {
	dc := gg.NewContext(1, 1)
	dc.SetFontFace(face)
	return dc
}

// Wrap greedily packs the words of caption into lines no wider than maxWidth.
// A word wider than maxWidth on its own is kept whole on its own line.
func Wrap(caption string, m Measurer, maxWidth float64) []string {
	var lines []string
	current := ""
	for _, word := range strings.Fields(caption) {
		candidate := word
		if current != "" {
			candidate = current + " " + word
		}
		if w, _ := m.MeasureString(candidate); w <= maxWidth {
			current = candidate
			continue
		}
		if current != "" {
			lines = append(lines, current)
		}
		current = word
	}
	if current != "" {
		lines = append(lines, current)
	}
	return lines
}

// Upper folds caption to upper case using full Unicode case mapping.
func Upper(caption string) string {
	return cases.Upper(language.Und).String(caption)
}
