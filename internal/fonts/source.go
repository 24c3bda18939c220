package fonts

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font/gofont/gobold"
)

// Source is one candidate font location.
type Source interface {
	Name() string
	Load() (*truetype.Font, error)
}

type fileSource struct {
	pattern string
}

// File returns a Source for a filesystem path. Paths with glob metacharacters
// are expanded and every match is tried in lexical order.
func File(path string) Source {
	return fileSource{pattern: path}
}

func (s fileSource) Name() string { return s.pattern }

func (s fileSource) Load() (*truetype.Font, error) {
	paths := []string{s.pattern}
	if hasMeta(s.pattern) {
		matches, err := filepath.Glob(s.pattern)
		if err != nil {
			return nil, err
		}
		if len(matches) == 0 {
			return nil, fmt.Errorf("no match for %s: %w", s.pattern, os.ErrNotExist)
		}
		paths = matches
	}
	var errs []error
	for _, p := range paths {
		f, err := parseFile(p)
		if err == nil {
			return f, nil
		}
		errs = append(errs, err)
	}
	return nil, errors.Join(errs...)
}

type bytesSource struct {
	name string
	data []byte
}

// Bytes returns a Source over an in-memory TrueType file.
func Bytes(name string, data []byte) Source {
	return bytesSource{name: name, data: data}
}

func (s bytesSource) Name() string { return s.name }

func (s bytesSource) Load() (*truetype.Font, error) {
	f, err := truetype.Parse(s.data)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", s.name, err)
	}
	return f, nil
}

// GoBold is the Go Bold face shipped with golang.org/x/image.
func GoBold() Source {
	return Bytes("builtin:gobold", gobold.TTF)
}

// ParseSource maps a configured candidate string to a Source.
func ParseSource(candidate string) Source {
	if candidate == "builtin:gobold" {
		return GoBold()
	}
	return File(candidate)
}

func parseFile(path string) (*truetype.Font, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	f, err := truetype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return f, nil
}

func hasMeta(path string) bool {
	return strings.ContainsAny(path, `*?[`)
}
