// Package fonts resolves a bold font face for a requested pixel size.
//
// Resolution walks an ordered list of candidate sources, then a discovery scan
// of font directories, then the bundled fonts, and finally falls back to a
// fixed-size bitmap face so that rendering never fails for lack of a font.
package fonts

import (
	"errors"
	"log/slog"
	"sync"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
)

// ErrNoFont is returned when every strategy of a chain is exhausted. The
// default chain never returns it because the bitmap fallback is enabled.
var ErrNoFont = errors.New("no usable font")

const bitmapSource = "builtin:basicfont-7x13"

// Handle is a face loaded at a specific size.
type Handle struct {
	Face   font.Face
	Size   float64
	Source string
	// Bitmap reports the fixed-size fallback face, whose glyphs ignore Size.
	Bitmap bool
}

type Resolver interface {
	Resolve(size float64) (*Handle, error)
}

// Chain is the default Resolver. A zero Chain resolves to the bitmap face.
type Chain struct {
	Sources []Source
	Dirs    []string
	// Bundled sources are tried after discovery.
	Bundled  []Source
	NoBitmap bool
	Logger   *slog.Logger

	once   sync.Once
	font   *truetype.Font
	source string
}

// NewChain builds a chain from configured candidate strings and discovery
// directories, with Go Bold as the bundled font.
func NewChain(candidates, dirs []string) *Chain {
	sources := make([]Source, 0, len(candidates))
	for _, c := range candidates {
		sources = append(sources, ParseSource(c))
	}
	return &Chain{Sources: sources, Dirs: dirs, Bundled: []Source{GoBold()}}
}

// Resolve returns a fresh face at size. Faces are not safe for concurrent
// use, so each call builds its own from the cached parsed font.
func (c *Chain) Resolve(size float64) (*Handle, error) {
	c.once.Do(c.load)
	if c.font != nil {
		face := truetype.NewFace(c.font, &truetype.Options{Size: size, DPI: 72, Hinting: font.HintingFull})
		return &Handle{Face: face, Size: size, Source: c.source}, nil
	}
	if c.NoBitmap {
		return nil, ErrNoFont
	}
	return &Handle{Face: basicfont.Face7x13, Size: size, Source: bitmapSource, Bitmap: true}, nil
}

func (c *Chain) load() {
	for _, src := range c.Sources {
		f, err := src.Load()
		if err != nil {
			c.debug("font candidate unusable", "source", src.Name(), "error", err)
			continue
		}
		c.font, c.source = f, src.Name()
		return
	}
	for _, path := range discover(c.Dirs) {
		f, err := parseFile(path)
		if err != nil {
			continue
		}
		c.warn("using discovered font", "source", path)
		c.font, c.source = f, path
		return
	}
	for _, src := range c.Bundled {
		f, err := src.Load()
		if err != nil {
			c.debug("bundled font unusable", "source", src.Name(), "error", err)
			continue
		}
		c.warn("no system font found, using bundled font", "source", src.Name())
		c.font, c.source = f, src.Name()
		return
	}
	if !c.NoBitmap {
		c.warn("no TrueType font found, falling back to bitmap face", "source", bitmapSource)
	}
}

func (c *Chain) debug(msg string, args ...any) {
	if c.Logger != nil {
		c.Logger.Debug(msg, args...)
	}
}

func (c *Chain) warn(msg string, args ...any) {
	if c.Logger != nil {
		c.Logger.Warn(msg, args...)
	}
}
