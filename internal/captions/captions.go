// Package captions loads caption lists from disk and from the raw replies of
// a phrase-generation service.
package captions

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/huugof/meme-factory/internal/util"
)

// MaxPhrases caps how many captions are taken from one generator reply.
const MaxPhrases = 20

var ErrNoPhrases = errors.New("no phrases found")

var arrayPattern = regexp.MustCompile(`(?s)\[.*\]`)

// Generator is a phrase-generation service: given the picture and a short
// description of tone and audience it returns candidate captions.
type Generator interface {
	Phrases(ctx context.Context, image []byte, mimeType, tone string) ([]string, error)
}

// ReplyFile is a Generator that replays a reply saved from such a service.
type ReplyFile struct {
	Path string
}

func (f ReplyFile) Phrases(ctx context.Context, _ []byte, _, _ string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	raw, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, err
	}
	phrases, err := ExtractPhrases(string(raw))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", f.Path, err)
	}
	return phrases, nil
}

// MimeType guesses the upload type the way the web form did: by extension,
// defaulting to JPEG.
func MimeType(path string) string {
	if strings.EqualFold(filepath.Ext(path), ".png") {
		return "image/png"
	}
	return "image/jpeg"
}

type LoadResult struct {
	Captions []string
	Warnings []string
}

type captionDoc struct {
	Captions []string `yaml:"captions"`
}

// Load reads captions from a .txt (one per line), .json (array of strings),
// .yaml/.yml (list, or a "captions" key) or .md (YAML front matter with a
// "captions" key) file.
func Load(path string) (*LoadResult, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var items []string
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		if err := json.Unmarshal(raw, &items); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	case ".yaml", ".yml":
		items, err = parseYAMLList(raw)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	case ".md":
		fm, err := parseFrontMatter(string(raw))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		items = fm.Captions
	default:
		items = strings.Split(strings.ReplaceAll(string(raw), "\r\n", "\n"), "\n")
	}
	return clean(items, filepath.ToSlash(path)), nil
}

// ExtractPhrases pulls the JSON array of strings out of a generator reply,
// ignoring any prose around it, and keeps at most MaxPhrases entries.
func ExtractPhrases(reply string) ([]string, error) {
	match := arrayPattern.FindString(reply)
	if match == "" {
		return nil, ErrNoPhrases
	}
	var items []string
	if err := json.Unmarshal([]byte(match), &items); err != nil {
		return nil, fmt.Errorf("decode phrases: %w", err)
	}
	res := clean(items, "reply")
	if len(res.Captions) == 0 {
		return nil, ErrNoPhrases
	}
	if len(res.Captions) > MaxPhrases {
		res.Captions = res.Captions[:MaxPhrases]
	}
	return res.Captions, nil
}

func parseYAMLList(raw []byte) ([]string, error) {
	var items []string
	if err := yaml.Unmarshal(raw, &items); err == nil {
		return items, nil
	}
	var doc captionDoc
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	return doc.Captions, nil
}

func parseFrontMatter(raw string) (*captionDoc, error) {
	normalized := strings.TrimSpace(strings.ReplaceAll(raw, "\r\n", "\n"))
	if !strings.HasPrefix(normalized, "---\n") {
		return nil, errors.New("missing YAML front matter")
	}
	rest := normalized[len("---\n"):]
	idx := strings.Index(rest, "\n---")
	if idx == -1 {
		return nil, errors.New("unterminated YAML front matter")
	}
	var doc captionDoc
	if err := yaml.Unmarshal([]byte(rest[:idx]), &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// clean collapses whitespace, drops blanks and warns about duplicates. Order
// is preserved and duplicates are kept, since each caption is its own output.
func clean(items []string, location string) *LoadResult {
	res := &LoadResult{}
	seen := map[string]int{}
	for i, item := range items {
		c := util.NormalizeWhitespace(item)
		if c == "" {
			continue
		}
		key := strings.ToLower(c)
		if first, dup := seen[key]; dup {
			res.Warnings = append(res.Warnings, fmt.Sprintf("%s: entry %d repeats entry %d (%q).", location, i+1, first+1, c))
		} else {
			seen[key] = i
		}
		res.Captions = append(res.Captions, c)
	}
	return res
}
