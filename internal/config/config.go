// Package config holds the tunable policy constants of the meme renderer and
// loads overrides from YAML.
package config

import (
	"errors"
	"fmt"
	"image/color"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// BuiltinGoBold names the Go Bold font bundled with golang.org/x/image. It
// is always tried after discovery; listing it under fonts puts it first.
const BuiltinGoBold = "builtin:gobold"

type Config struct {
	MaxWidth           int      `yaml:"max_width"`
	FontDivisor        int      `yaml:"font_divisor"`
	MinInitialFontSize int      `yaml:"min_initial_font_size"`
	MinFontSize        int      `yaml:"min_font_size"`
	FontStep           int      `yaml:"font_step"`
	MaxLines           int      `yaml:"max_lines"`
	Padding            int      `yaml:"padding"`
	LineSpacing        int      `yaml:"line_spacing"`
	OutlineWidth       int      `yaml:"outline_width"`
	FillColor          string   `yaml:"fill_color"`
	OutlineColor       string   `yaml:"outline_color"`
	BackgroundColor    string   `yaml:"background_color"`
	JPEGQuality        int      `yaml:"jpeg_quality"`
	SlugLength         int      `yaml:"slug_length"`
	PreviewLimit       int      `yaml:"preview_limit"`
	Workers            int      `yaml:"workers"`
	Fonts              []string `yaml:"fonts"`
	FontDirs           []string `yaml:"font_dirs"`
}

func Default() Config {
	return Config{
		MaxWidth:           800,
		FontDivisor:        15,
		MinInitialFontSize: 24,
		MinFontSize:        16,
		FontStep:           2,
		MaxLines:           4,
		Padding:            20,
		LineSpacing:        5,
		OutlineWidth:       3,
		FillColor:          "#ffffff",
		OutlineColor:       "#000000",
		BackgroundColor:    "#000000",
		JPEGQuality:        90,
		SlugLength:         30,
		PreviewLimit:       6,
		Fonts: []string{
			"/usr/share/fonts/truetype/liberation/LiberationSans-Bold.ttf",
			"/usr/share/fonts/truetype/dejavu/DejaVuSans-Bold.ttf",
			"/usr/share/fonts/TTF/DejaVuSans-Bold.ttf",
			"/nix/store/*/share/fonts/truetype/dejavu/DejaVuSans-Bold.ttf",
		},
		FontDirs: []string{
			"/usr/share/fonts",
			"/usr/local/share/fonts",
			"/nix/store/*/share/fonts",
		},
	}
}

// Load reads a YAML file over the defaults. Keys absent from the file keep
// their default value.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	return Parse(data)
}

func Parse(data []byte) (Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	var errs []error
	positive := map[string]int{
		"max_width":             c.MaxWidth,
		"font_divisor":          c.FontDivisor,
		"min_initial_font_size": c.MinInitialFontSize,
		"min_font_size":         c.MinFontSize,
		"font_step":             c.FontStep,
		"max_lines":             c.MaxLines,
		"slug_length":           c.SlugLength,
	}
	for _, key := range []string{"max_width", "font_divisor", "min_initial_font_size", "min_font_size", "font_step", "max_lines", "slug_length"} {
		if positive[key] <= 0 {
			errs = append(errs, fmt.Errorf("%s must be positive, got %d", key, positive[key]))
		}
	}
	if c.Padding < 0 || c.LineSpacing < 0 || c.OutlineWidth < 0 || c.Workers < 0 || c.PreviewLimit < 0 {
		errs = append(errs, errors.New("padding, line_spacing, outline_width, workers and preview_limit must not be negative"))
	}
	if c.JPEGQuality < 1 || c.JPEGQuality > 100 {
		errs = append(errs, fmt.Errorf("jpeg_quality must be within 1..100, got %d", c.JPEGQuality))
	}
	for key, value := range map[string]string{
		"fill_color":       c.FillColor,
		"outline_color":    c.OutlineColor,
		"background_color": c.BackgroundColor,
	} {
		if _, err := ParseHexColor(value); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", key, err))
		}
	}
	return errors.Join(errs...)
}

// ParseHexColor accepts "#rgb", "#rrggbb" and "#rrggbbaa".
func ParseHexColor(value string) (color.NRGBA, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(value), "#")
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) == 6 {
		hex += "ff"
	}
	if len(hex) != 8 {
		return color.NRGBA{}, fmt.Errorf("invalid color %q", value)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("invalid color %q", value)
	}
	return color.NRGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, nil
}

// MustColor is for values that already passed Validate.
func MustColor(value string) color.NRGBA {
	c, err := ParseHexColor(value)
	if err != nil {
		panic(err)
	}
	return c
}
